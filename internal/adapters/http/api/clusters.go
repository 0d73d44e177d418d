package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/playstyle/internal/domain/types"
)

// ClusterDependencies defines the cluster read operations.
type ClusterDependencies interface {
	Clusters(ctx context.Context) ([]types.Cluster, error)
	Radar(ctx context.Context, id int) (types.Radar, error)
	ModelSelection(ctx context.Context, kMin, kMax int) (types.ModelSelection, error)
}

// ClustersHandler handles cluster requests.
type ClustersHandler struct {
	deps ClusterDependencies
}

// NewClustersHandler creates a new clusters handler.
func NewClustersHandler(deps ClusterDependencies) *ClustersHandler {
	return &ClustersHandler{deps: deps}
}

// HandleList handles GET /clusters requests.
func (h *ClustersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clusters, err := h.deps.Clusters(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clustersResponse{Clusters: clusters})
}

// HandleRadar handles GET /clusters/{id}/radar requests.
func (h *ClustersHandler) HandleRadar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	radar, err := h.deps.Radar(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, radar)
}

// HandleModelSelection handles GET /model-selection?k_min=&k_max= requests.
func (h *ClustersHandler) HandleModelSelection(w http.ResponseWriter, r *http.Request) {
	kMin, err := queryInt(r, "k_min")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	kMax, err := queryInt(r, "k_max")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	sel, err := h.deps.ModelSelection(r.Context(), kMin, kMax)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
