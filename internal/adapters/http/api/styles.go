package api

import (
	"context"
	"net/http"

	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/types"
)

// StyleDependencies defines the team style read operations.
type StyleDependencies interface {
	Styles(ctx context.Context) ([]types.TeamStyle, error)
	TeamStyle(ctx context.Context, key model.TeamManagerKey) (types.TeamStyle, error)
}

// StylesHandler handles team style requests.
type StylesHandler struct {
	deps StyleDependencies
}

// NewStylesHandler creates a new styles handler.
func NewStylesHandler(deps StyleDependencies) *StylesHandler {
	return &StylesHandler{deps: deps}
}

// HandleList handles GET /styles requests.
func (h *StylesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	styles, err := h.deps.Styles(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stylesResponse{Styles: styles})
}

// HandleTeam handles GET /styles/{team_id}/{manager_id} requests.
func (h *StylesHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ts, err := h.deps.TeamStyle(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}
