package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/types"
)

// PlayerDependencies defines the player analysis operations.
type PlayerDependencies interface {
	Player(ctx context.Context, playerID int64, key *model.TeamManagerKey) (types.PlayerReport, error)
	TeamPlayers(ctx context.Context, key model.TeamManagerKey, ids []int64) ([]types.PlayerReport, error)
}

// PlayersHandler handles player requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandlePlayer handles GET /players/{player_id}?team_id=&manager_id= requests.
// Both query parameters must be given together; without them the player's
// main tenure is used.
func (h *PlayersHandler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "player_id")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	key, err := queryKey(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	report, err := h.deps.Player(r.Context(), id, key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleTeam handles GET /teams/{team_id}/{manager_id}/players?ids= requests.
func (h *PlayersHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ids, err := queryIDs(r, "ids")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	reports, err := h.deps.TeamPlayers(r.Context(), key, ids)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playersResponse{TeamID: key.TeamID, ManagerID: key.ManagerID, Players: reports})
}

func queryKey(r *http.Request) (*model.TeamManagerKey, error) {
	q := r.URL.Query()
	if q.Get("team_id") == "" && q.Get("manager_id") == "" {
		return nil, nil
	}
	if q.Get("team_id") == "" || q.Get("manager_id") == "" {
		return nil, fmt.Errorf("%w: team_id and manager_id go together", ErrBadRequest)
	}
	team, err := queryInt(r, "team_id")
	if err != nil {
		return nil, err
	}
	manager, err := queryInt(r, "manager_id")
	if err != nil {
		return nil, err
	}
	return &model.TeamManagerKey{TeamID: int64(team), ManagerID: int64(manager)}, nil
}
