// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/playstyle/internal/adapters/repository"
	service "github.com/okian/playstyle/internal/app"
	"github.com/okian/playstyle/internal/domain/cluster"
	"github.com/okian/playstyle/internal/domain/features"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/player"
	"github.com/okian/playstyle/internal/domain/roles"
	"github.com/okian/playstyle/internal/domain/style"
	"github.com/okian/playstyle/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StyleDependencies
	ClusterDependencies
	PlayerDependencies
	StatsProvider
}

// Server wires HTTP routes for the read-only analysis API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	stylesHandler  *StylesHandler
	clusterHandler *ClustersHandler
	playerHandler  *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		stylesHandler:  NewStylesHandler(deps),
		clusterHandler: NewClustersHandler(deps),
		playerHandler:  NewPlayersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /styles", MetricsMiddleware(s.stylesHandler.HandleList, "styles"))
	mux.HandleFunc("GET /styles/{team_id}/{manager_id}", MetricsMiddleware(s.stylesHandler.HandleTeam, "team_style"))

	mux.HandleFunc("GET /clusters", MetricsMiddleware(s.clusterHandler.HandleList, "clusters"))
	mux.HandleFunc("GET /clusters/{id}/radar", MetricsMiddleware(s.clusterHandler.HandleRadar, "radar"))
	mux.HandleFunc("GET /model-selection", MetricsMiddleware(s.clusterHandler.HandleModelSelection, "model_selection"))

	mux.HandleFunc("GET /players/{player_id}", MetricsMiddleware(s.playerHandler.HandlePlayer, "player"))
	mux.HandleFunc("GET /teams/{team_id}/{manager_id}/players", MetricsMiddleware(s.playerHandler.HandleTeam, "team_players"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates domain errors into HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, cluster.ErrInvalidParameter):
		writeError(w, http.StatusBadRequest, "invalid_parameter", err)
	case isUnavailable(err):
		writeError(w, http.StatusNotFound, "classification_unavailable", err)
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// isUnavailable reports errors meaning the requested entity has no result.
func isUnavailable(err error) bool {
	for _, target := range []error{
		style.ErrNotClassified,
		style.ErrUnknownCluster,
		features.ErrDataNotAvailable,
		player.ErrDataNotAvailable,
		player.ErrNoRoleStatistics,
		roles.ErrNotAdmitted,
		repository.ErrNotFound,
		service.ErrMissingTenure,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func pathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}
	return v, nil
}

func pathKey(r *http.Request) (model.TeamManagerKey, error) {
	team, err := pathInt64(r, "team_id")
	if err != nil {
		return model.TeamManagerKey{}, err
	}
	manager, err := pathInt64(r, "manager_id")
	if err != nil {
		return model.TeamManagerKey{}, err
	}
	return model.TeamManagerKey{TeamID: team, ManagerID: manager}, nil
}

// queryInt returns zero when the parameter is absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}
	return v, nil
}

// queryIDs parses a comma separated id list.
func queryIDs(r *http.Request, name string) ([]int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
		}
		out = append(out, v)
	}
	return out, nil
}

// Reply shapes.
type (
	stylesResponse struct {
		Styles []types.TeamStyle `json:"styles"`
	}
	clustersResponse struct {
		Clusters []types.Cluster `json:"clusters"`
	}
	playersResponse struct {
		TeamID    int64                `json:"team_id"`
		ManagerID int64                `json:"manager_id"`
		Players   []types.PlayerReport `json:"players"`
	}
)
