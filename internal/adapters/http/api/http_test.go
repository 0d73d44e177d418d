package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/playstyle/internal/adapters/http/api"
	service "github.com/okian/playstyle/internal/app"
	"github.com/okian/playstyle/internal/domain/cluster"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/player"
	"github.com/okian/playstyle/internal/domain/roles"
	"github.com/okian/playstyle/internal/domain/style"
	"github.com/okian/playstyle/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies records the arguments it receives.
type mockDependencies struct {
	err error

	gotKey    *model.TeamManagerKey
	gotIDs    []int64
	gotKRange [2]int
}

func (m *mockDependencies) Styles(context.Context) ([]types.TeamStyle, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []types.TeamStyle{{
		TeamID: 1, ManagerID: 2, TeamName: "Roma", ClusterName: "Possesso Dominante",
		Description: "Squadre caratterizzate da: Alto possesso.",
		Radar:       map[string]float64{"possession_percentage": 75, "ppda": 40},
	}}, nil
}

func (m *mockDependencies) TeamStyle(_ context.Context, key model.TeamManagerKey) (types.TeamStyle, error) {
	m.gotKey = &key
	if key.TeamID != 1 {
		return types.TeamStyle{}, fmt.Errorf("team %s: %w", key, style.ErrNotClassified)
	}
	return types.TeamStyle{TeamID: key.TeamID, ManagerID: key.ManagerID, ClusterID: 2, Radar: map[string]float64{"ppda": 50}}, nil
}

func (m *mockDependencies) Clusters(context.Context) ([]types.Cluster, error) {
	return []types.Cluster{{ID: 0, Name: "Cluster 0", Size: 3}}, nil
}

func (m *mockDependencies) Radar(_ context.Context, id int) (types.Radar, error) {
	if id != 0 {
		return types.Radar{}, style.ErrUnknownCluster
	}
	return types.Radar{ClusterID: 0, Points: []types.RadarPoint{{Metric: "ppda", Value: 75}}}, nil
}

func (m *mockDependencies) ModelSelection(_ context.Context, kMin, kMax int) (types.ModelSelection, error) {
	m.gotKRange = [2]int{kMin, kMax}
	if kMax > 10 {
		return types.ModelSelection{}, cluster.ErrInvalidParameter
	}
	return types.ModelSelection{KValues: []int{1, 2}, Inertia: []float64{9, 4}, Silhouette: []*float64{nil, nil}}, nil
}

func (m *mockDependencies) Player(_ context.Context, id int64, key *model.TeamManagerKey) (types.PlayerReport, error) {
	m.gotKey = key
	if id == 404 {
		return types.PlayerReport{}, roles.ErrNotAdmitted
	}
	if id == 500 {
		return types.PlayerReport{}, fmt.Errorf("boom")
	}
	return types.NewPlayerReport(&player.Report{PlayerID: id, Role: roles.CB}), nil
}

func (m *mockDependencies) TeamPlayers(_ context.Context, key model.TeamManagerKey, ids []int64) ([]types.PlayerReport, error) {
	m.gotKey, m.gotIDs = &key, ids
	return []types.PlayerReport{}, nil
}

func (m *mockDependencies) GetStats() types.Stats {
	return types.Stats{RunID: "run-1", Entities: 8}
}

func serve(deps api.Dependencies, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}

		Convey("Health reports ok", func() {
			w := serve(deps, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["status"], ShouldEqual, "ok")
		})

		Convey("Metrics are exposed in text format", func() {
			serve(deps, http.MethodGet, "/healthz")
			w := serve(deps, http.MethodGet, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "http_requests_total")
		})

		Convey("Stats are served as JSON", func() {
			w := serve(deps, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["run_id"], ShouldEqual, "run-1")
		})

		Convey("Styles are listed with description and radar", func() {
			w := serve(deps, http.MethodGet, "/styles")
			So(w.Code, ShouldEqual, http.StatusOK)
			styles := decode(w)["styles"].([]any)
			So(styles, ShouldHaveLength, 1)
			first := styles[0].(map[string]any)
			So(first["description"], ShouldEqual, "Squadre caratterizzate da: Alto possesso.")
			So(first["radar"], ShouldResemble, map[string]any{"possession_percentage": 75.0, "ppda": 40.0})
		})

		Convey("A team style is looked up by both ids", func() {
			w := serve(deps, http.MethodGet, "/styles/1/7")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(*deps.gotKey, ShouldResemble, model.TeamManagerKey{TeamID: 1, ManagerID: 7})
			body := decode(w)
			So(body["cluster_id"], ShouldEqual, 2.0)
			So(body["radar"], ShouldResemble, map[string]any{"ppda": 50.0})
		})

		Convey("An unclassified team is unavailable", func() {
			w := serve(deps, http.MethodGet, "/styles/9/7")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["code"], ShouldEqual, "classification_unavailable")
		})

		Convey("Non-numeric ids are rejected", func() {
			w := serve(deps, http.MethodGet, "/styles/abc/7")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("Writes are not routed", func() {
			w := serve(deps, http.MethodPost, "/styles")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Clusters and radars are served", func() {
			So(serve(deps, http.MethodGet, "/clusters").Code, ShouldEqual, http.StatusOK)
			w := serve(deps, http.MethodGet, "/clusters/0/radar")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["points"], ShouldHaveLength, 1)

			So(serve(deps, http.MethodGet, "/clusters/5/radar").Code, ShouldEqual, http.StatusNotFound)
			So(serve(deps, http.MethodGet, "/clusters/x/radar").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Model selection passes the range and keeps null silhouettes", func() {
			w := serve(deps, http.MethodGet, "/model-selection?k_min=1&k_max=2")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.gotKRange, ShouldResemble, [2]int{1, 2})
			body := decode(w)
			So(body["silhouette"], ShouldResemble, []any{nil, nil})
			So(body["suggested_k"], ShouldBeNil)

			So(serve(deps, http.MethodGet, "/model-selection?k_max=20").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(deps, http.MethodGet, "/model-selection?k_min=two").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestServer_Players(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}

		Convey("A player without a tenure uses the default one", func() {
			w := serve(deps, http.MethodGet, "/players/7")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.gotKey, ShouldBeNil)
			So(decode(w)["role"], ShouldEqual, "CB")
		})

		Convey("A player tenure needs both query ids", func() {
			w := serve(deps, http.MethodGet, "/players/7?team_id=3&manager_id=4")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(*deps.gotKey, ShouldResemble, model.TeamManagerKey{TeamID: 3, ManagerID: 4})

			So(serve(deps, http.MethodGet, "/players/7?team_id=3").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Domain errors map to statuses", func() {
			w := serve(deps, http.MethodGet, "/players/404")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["code"], ShouldEqual, "classification_unavailable")
			So(serve(deps, http.MethodGet, "/players/500").Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("Team batches parse the id list", func() {
			w := serve(deps, http.MethodGet, "/teams/3/4/players?ids=9,%201,5")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.gotIDs, ShouldResemble, []int64{9, 1, 5})
			body := decode(w)
			So(body["team_id"], ShouldEqual, 3.0)
			So(body["players"], ShouldBeEmpty)

			So(serve(deps, http.MethodGet, "/teams/3/4/players?ids=9,x").Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given a service that is not ready", t, func() {
		deps := &mockDependencies{err: service.ErrNotReady}

		Convey("Reads answer 503", func() {
			w := serve(deps, http.MethodGet, "/styles")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decode(w)["code"], ShouldEqual, "not_ready")
		})
	})
}
