package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
	"github.com/riskibarqy/match-forecast/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-forecast/internal/platform/lock"
	"github.com/riskibarqy/match-forecast/internal/platform/logging"
	"github.com/riskibarqy/match-forecast/internal/usecase"
)

const testJobToken = "job-token"

type stubSource struct {
	upcoming []match.Match
	results  []match.Match
}

func (s stubSource) FetchUpcoming(context.Context) []match.Match { return s.upcoming }
func (s stubSource) FetchResults(context.Context) []match.Match  { return s.results }
func (s stubSource) FetchExtendedTeamHistory(context.Context, string) []match.Match {
	return nil
}
func (s stubSource) FetchExtendedHeadToHead(context.Context, string, string) []match.Match {
	return nil
}

type testServer struct {
	router http.Handler
	locker *lock.LocalLocker
}

func newTestServer(t *testing.T, seed []match.Match) testServer {
	t.Helper()

	logger := logging.NewNop()
	matchRepo := memory.NewMatchRepository(seed)
	locker := lock.NewLocalLocker()
	source := stubSource{upcoming: seed}

	historySync := usecase.NewHistorySyncService(source, matchRepo, locker, usecase.HistorySyncConfig{}, logger)
	predictions := usecase.NewPredictionService(matchRepo, memory.NewPredictionRepository(), nil, nil, nil, usecase.PredictionConfig{}, logger)
	fixtureSync := usecase.NewFixtureSyncService(source, matchRepo, predictions, logger)

	handler := NewHandler(usecase.NewMatchService(matchRepo), predictions, historySync, fixtureSync, logger)
	return testServer{
		router: NewRouter(handler, logger, true, []string{"*"}, testJobToken),
		locker: locker,
	}
}

func upcomingFixture(id, home, away string, in time.Duration) match.Match {
	return match.Match{
		ID:        id,
		HomeTeam:  home,
		AwayTeam:  away,
		League:    "French Ligue 1",
		StartTime: time.Now().UTC().Add(in).Truncate(time.Second),
		Status:    match.StatusScheduled,
	}
}

func serve(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
	return rec, decoded
}

func dataObject(t *testing.T, body map[string]any) map[string]any {
	t.Helper()

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func TestHandler_MatchRoutes(t *testing.T) {
	srv := newTestServer(t, []match.Match{
		upcomingFixture("m2", "Lens", "Brest", 48*time.Hour),
		upcomingFixture("m1", "Lyon", "Nice", 24*time.Hour),
	})

	rec, body := serve(t, srv.router, http.MethodGet, "/v1/matches/upcoming?limit=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items, ok := body["data"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected two upcoming matches, got %v", body["data"])
	}
	if first, _ := items[0].(map[string]any); first["id"] != "m1" {
		t.Fatalf("expected soonest fixture first, got %v", items[0])
	}

	rec, _ = serve(t, srv.router, http.MethodGet, "/v1/matches/upcoming?limit=abc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid limit, got %d", rec.Code)
	}

	rec, body = serve(t, srv.router, http.MethodGet, "/v1/matches/m1", "", nil)
	if rec.Code != http.StatusOK || dataObject(t, body)["home_team"] != "Lyon" {
		t.Fatalf("unexpected match response: code=%d body=%v", rec.Code, body)
	}

	rec, _ = serve(t, srv.router, http.MethodGet, "/v1/matches/unknown", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_GetMatchPrediction(t *testing.T) {
	srv := newTestServer(t, []match.Match{upcomingFixture("m1", "Lyon", "Nice", 24*time.Hour)})

	rec, body := serve(t, srv.router, http.MethodGet, "/v1/matches/m1/prediction", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, body)
	}
	first := dataObject(t, body)

	probs, ok := first["probabilities"].(map[string]any)
	if !ok {
		t.Fatalf("expected probabilities object, got %v", first["probabilities"])
	}
	sum := probs["home"].(float64) + probs["draw"].(float64) + probs["away"].(float64)
	if sum < 0.999999 || sum > 1.000001 {
		t.Fatalf("expected probabilities as fractions summing to 1, got %v", probs)
	}
	if first["most_likely"] != "home" {
		t.Fatalf("expected home without history, got %v", first["most_likely"])
	}
	if first["data_confidence"].(float64) != 0 {
		t.Fatalf("expected zero confidence, got %v", first["data_confidence"])
	}

	_, body = serve(t, srv.router, http.MethodGet, "/v1/matches/m1/prediction", "", nil)
	if second := dataObject(t, body); second["id"] != first["id"] {
		t.Fatalf("expected the same prediction id, got %v and %v", first["id"], second["id"])
	}

	rec, _ = serve(t, srv.router, http.MethodGet, "/v1/matches/missing/prediction", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown match, got %d", rec.Code)
	}
}

func TestHandler_PredictionAccuracy(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, body := serve(t, srv.router, http.MethodGet, "/v1/predictions/accuracy", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := dataObject(t, body)
	if data["annotated"].(float64) != 0 || data["accuracy"].(float64) != 0 {
		t.Fatalf("unexpected accuracy: %v", data)
	}
}

func TestHandler_InternalJobsRequireToken(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{
		"/v1/internal/jobs/sync-history",
		"/v1/internal/jobs/sync-fixtures",
		"/v1/internal/jobs/warm-predictions",
	} {
		rec, _ := serve(t, srv.router, http.MethodPost, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token, got %d", path, rec.Code)
		}
		rec, _ = serve(t, srv.router, http.MethodPost, path, "", map[string]string{internalJobTokenHeader: "wrong"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 with wrong token, got %d", path, rec.Code)
		}
	}
}

func TestHandler_RunSyncHistoryJob(t *testing.T) {
	srv := newTestServer(t, []match.Match{upcomingFixture("m1", "Lyon", "Nice", 24*time.Hour)})
	auth := map[string]string{internalJobTokenHeader: testJobToken}

	rec, body := serve(t, srv.router, http.MethodPost, "/v1/internal/jobs/sync-history", "", auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, body)
	}
	data := dataObject(t, body)
	if data["success"] != true || data["teams_processed"].(float64) != 2 || data["api_calls_used"].(float64) != 3 {
		t.Fatalf("unexpected sync summary: %v", data)
	}

	lease, err := srv.locker.TryAcquire(context.Background(), "history-sync", time.Minute)
	if err != nil {
		t.Fatalf("hold lock: %v", err)
	}
	defer func() { _ = lease.Release(context.Background()) }()

	rec, _ = serve(t, srv.router, http.MethodPost, "/v1/internal/jobs/sync-history", "", auth)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while another run holds the lock, got %d", rec.Code)
	}
}

func TestHandler_RunSyncFixturesJob(t *testing.T) {
	srv := newTestServer(t, []match.Match{upcomingFixture("m1", "Lyon", "Nice", 24*time.Hour)})

	rec, body := serve(t, srv.router, http.MethodPost, "/v1/internal/jobs/sync-fixtures", "", map[string]string{internalJobTokenHeader: testJobToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, body)
	}
	if data := dataObject(t, body); data["upcoming"].(float64) != 1 {
		t.Fatalf("unexpected fixture sync summary: %v", data)
	}
}

func TestHandler_RunWarmPredictionsJob(t *testing.T) {
	srv := newTestServer(t, []match.Match{
		upcomingFixture("m1", "Lyon", "Nice", 24*time.Hour),
		upcomingFixture("m2", "Lens", "Brest", 48*time.Hour),
	})
	auth := map[string]string{internalJobTokenHeader: testJobToken}

	rec, body := serve(t, srv.router, http.MethodPost, "/v1/internal/jobs/warm-predictions", `{"limit":10}`, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, body)
	}
	if data := dataObject(t, body); data["fixtures"].(float64) != 2 || data["created"].(float64) != 2 {
		t.Fatalf("unexpected warm-up summary: %v", data)
	}

	rec, _ = serve(t, srv.router, http.MethodPost, "/v1/internal/jobs/warm-predictions", `{"limit":0}`, auth)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero limit, got %d", rec.Code)
	}
	rec, _ = serve(t, srv.router, http.MethodPost, "/v1/internal/jobs/warm-predictions", `{"limit":`, auth)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
	rec, _ = serve(t, srv.router, http.MethodPost, "/v1/internal/jobs/warm-predictions", `{"limit":5,"force":true}`, auth)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}

	rec, body = serve(t, srv.router, http.MethodPost, "/v1/internal/jobs/warm-predictions", "", auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected default limit for empty body, got %d", rec.Code)
	}
	if data := dataObject(t, body); data["existing"].(float64) != 2 {
		t.Fatalf("expected stored predictions to be reused, got %v", data)
	}
}

func TestHandler_InternalJobTokenNotConfigured(t *testing.T) {
	handler := NewHandler(nil, nil, nil, nil, logging.NewNop())
	router := NewRouter(handler, logging.NewNop(), false, []string{"*"}, "")

	rec, _ := serve(t, router, http.MethodPost, "/v1/internal/jobs/sync-history", "", map[string]string{internalJobTokenHeader: "anything"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without configured token, got %d", rec.Code)
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec, body := serve(t, handler, http.MethodGet, "/v1/matches/upcoming", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	errorObj, _ := body["error"].(map[string]any)
	if errorObj["message"] != "internal server error" {
		t.Fatalf("unexpected error body: %v", body)
	}
}
