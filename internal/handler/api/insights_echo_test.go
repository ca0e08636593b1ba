package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PacePulse/internal/domain/models"
	"PacePulse/internal/insight"
	"PacePulse/internal/service/livestore"
	"PacePulse/internal/usecase"
	"PacePulse/pkg/cache"
	xlogger "PacePulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fakeProfiles struct {
	state *models.SeasonProfileState
}

func (f *fakeProfiles) Profiles(context.Context, bool) (*models.SeasonProfileState, error) {
	return f.state, nil
}

func profileState() *models.SeasonProfileState {
	return &models.SeasonProfileState{
		Refreshed: time.Now().UTC(),
		Teams: map[string]models.TeamSeasonProfile{
			"1610612738": {
				TeamID: "1610612738", TeamName: "Boston Celtics",
				Pace: 100.0, PtsPG: 110,
				Q1Share: 0.25, Q2Share: 0.25, Q3Share: 0.25, Q4Share: 0.25,
				PSI: -5, TempoClampRate: 0.55, DefDragScore: 50,
			},
			"1610612747": {
				TeamID: "1610612747", TeamName: "Los Angeles Lakers",
				Pace: 98.0, PtsPG: 105,
				Q1Share: 0.25, Q2Share: 0.25, Q3Share: 0.25, Q4Share: 0.25,
				PSI: -5, TempoClampRate: 0.55, DefDragScore: 50,
			},
		},
	}
}

func newTestEcho(t *testing.T, state *models.SeasonProfileState, seed bool) *echo.Echo {
	t.Helper()

	store := livestore.New(cache.NewMemoryCache())
	if seed {
		tick := &models.LineTick{
			GameID:    "0022500001",
			Total:     230.0,
			Timestamp: time.Now().UTC(),
			LiveBox: &models.LiveBox{
				Quarter: 2,
				Clock:   "06:00",
				Home:    models.TeamBoxLine{TeamID: "1610612738", FGA: 40, OReb: 5, TOV: 7, FTA: 10},
				Away:    models.TeamBoxLine{TeamID: "1610612747", FGA: 38, OReb: 4, TOV: 6, FTA: 5},
			},
		}
		if err := store.Apply(context.Background(), tick); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}

	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	engine := insight.NewEngine(store)
	svc := usecase.NewInsightService(&fakeProfiles{state: state}, engine, store, nil)
	h := NewInsightsEchoHandler(logger, svc, true)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doRequest(t *testing.T, e *echo.Echo, path string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestGameInsightOK(t *testing.T) {
	e := newTestEcho(t, profileState(), true)
	body := doRequest(t, e, "/api/games/0022500001/insight")

	if body["status"].(float64) != http.StatusOK {
		t.Fatalf("expected 200 status, got %v", body["status"])
	}
	data := body["data"].(map[string]interface{})
	if data["alignment"] != "above" {
		t.Fatalf("expected above alignment, got %v", data["alignment"])
	}
	if _, ok := data["summary"].(string); !ok {
		t.Fatalf("expected summary string, got %v", data["summary"])
	}
}

func TestGameInsightUnknownTeamIs404(t *testing.T) {
	state := profileState()
	delete(state.Teams, "1610612747")
	e := newTestEcho(t, state, true)

	body := doRequest(t, e, "/api/games/0022500001/insight")
	errs := body["data"].([]interface{})
	first := errs[0].(map[string]interface{})
	if first["code"] != "ERR_NOT_FOUND" {
		t.Fatalf("expected ERR_NOT_FOUND, got %v", first["code"])
	}
}

func TestGameInsightMissingGameIs503(t *testing.T) {
	e := newTestEcho(t, profileState(), false)

	body := doRequest(t, e, "/api/games/0022500001/insight")
	errs := body["data"].([]interface{})
	first := errs[0].(map[string]interface{})
	if first["code"] != "ERR_SERVICE_UNAVAILABLE" {
		t.Fatalf("expected ERR_SERVICE_UNAVAILABLE, got %v", first["code"])
	}
}

func TestSeasonProfilesEndpoint(t *testing.T) {
	e := newTestEcho(t, profileState(), false)
	body := doRequest(t, e, "/api/seasonProfiles")

	data := body["data"].(map[string]interface{})
	teams := data["teams"].([]interface{})
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
}

func TestIndexReportsFeatureFlag(t *testing.T) {
	e := newTestEcho(t, profileState(), false)
	body := doRequest(t, e, "/")

	data := body["data"].(map[string]interface{})
	if data["feature_betting_insight"] != true {
		t.Fatalf("expected feature flag true, got %v", data["feature_betting_insight"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEcho(t, profileState(), false)
	body := doRequest(t, e, "/health")

	data := body["data"].(map[string]interface{})
	if data["status"] != "ok" {
		t.Fatalf("expected ok, got %v", data["status"])
	}
}
