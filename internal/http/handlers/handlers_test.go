package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"

	appraces "github.com/preston-bernstein/next-to-go-service/internal/app/races"
	"github.com/preston-bernstein/next-to-go-service/internal/domain/categories"
	domainraces "github.com/preston-bernstein/next-to-go-service/internal/domain/races"
	"github.com/preston-bernstein/next-to-go-service/internal/poller"
	"github.com/preston-bernstein/next-to-go-service/internal/store"
	"github.com/preston-bernstein/next-to-go-service/internal/testutil"
	"github.com/preston-bernstein/next-to-go-service/internal/timeutil"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type stubScheduler struct {
	mu          sync.Mutex
	status      poller.Status
	races       []domainraces.Race
	refreshErr  error
	stopErr     error
	started     []time.Duration
	startCtxErr error
	stops       int
	refreshes   int
	onRefresh   func([]domainraces.Race)
}

func (s *stubScheduler) Start(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, interval)
	s.startCtxErr = ctx.Err()
	s.status.Running = true
	s.status.Interval = interval
	s.status.IntervalMS = interval.Milliseconds()
}

func (s *stubScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	s.status.Running = false
	return s.stopErr
}

func (s *stubScheduler) Refresh(ctx context.Context) ([]domainraces.Race, error) {
	s.mu.Lock()
	s.refreshes++
	s.mu.Unlock()
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	if s.onRefresh != nil {
		s.onRefresh(s.races)
	}
	return s.races, nil
}

func (s *stubScheduler) Status() poller.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func newTestHandler(list []domainraces.Race, scheduler Scheduler) (*Handler, *appraces.Service) {
	ms := store.NewMemoryStore()
	svc := appraces.NewService(ms)
	if len(list) > 0 {
		svc.ReplaceRaces(list)
	}
	h := NewHandler(svc, scheduler, 0, nil)
	h.now = testutil.NowAt(fixedNow)
	return h, svc
}

// withParam attaches a chi URL param so handlers can be called directly.
func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h, _ := newTestHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReadyReflectsSchedulerStatus(t *testing.T) {
	sched := &stubScheduler{}
	h, _ := newTestHandler(nil, sched)

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	sched.status = poller.Status{LastSuccess: fixedNow, ConsecutiveFailures: 3, LastError: "upstream down"}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	if !strings.Contains(rr.Body.String(), "upstream down") {
		t.Fatalf("expected last error in body, got %s", rr.Body.String())
	}

	sched.status = poller.Status{LastSuccess: fixedNow}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestRacesReturnsVisibleCountdowns(t *testing.T) {
	list := []domainraces.Race{
		testutil.SampleRaceIn("later", categories.HorseID, fixedNow, 5*time.Minute),
		testutil.SampleRaceIn("soon", categories.GreyhoundID, fixedNow, 20*time.Second),
		testutil.SampleRaceIn("expired", categories.HarnessID, fixedNow, -2*time.Minute),
		testutil.SampleRaceIn("just-started", categories.HarnessID, fixedNow, -30*time.Second),
	}
	h, _ := newTestHandler(list, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Races), http.MethodGet, "/races", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp RacesResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Now != fixedNow.Unix() {
		t.Fatalf("expected now %d, got %d", fixedNow.Unix(), resp.Now)
	}
	if len(resp.Races) != 3 {
		t.Fatalf("expected 3 visible races, got %d", len(resp.Races))
	}
	wantOrder := []string{"just-started", "soon", "later"}
	for i, id := range wantOrder {
		if resp.Races[i].Race.ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, resp.Races[i].Race.ID)
		}
	}
	if resp.Races[0].Status != timeutil.StatusExpired || resp.Races[0].Display != "00:00" {
		t.Fatalf("expected started race shown as expired, got %+v", resp.Races[0])
	}
	if resp.Races[1].Status != timeutil.StatusCritical || resp.Races[1].Display != "00:20" {
		t.Fatalf("expected critical countdown, got %+v", resp.Races[1])
	}
	if resp.Races[2].Category.Name != "Horse Racing" {
		t.Fatalf("expected resolved category, got %+v", resp.Races[2].Category)
	}
}

func TestRacesAppliesSelectionAndTimezone(t *testing.T) {
	list := testutil.SampleFeed(fixedNow)
	h, svc := newTestHandler(list, nil)
	svc.ToggleCategory(categories.GreyhoundID)

	rr := testutil.Serve(http.HandlerFunc(h.Races), http.MethodGet, "/races?tz=Australia/Melbourne", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp RacesResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Races) != 1 || resp.Races[0].Race.CategoryID != categories.GreyhoundID {
		t.Fatalf("expected greyhound only, got %+v", resp.Races)
	}
	if len(resp.SelectedCategories) != 1 {
		t.Fatalf("expected selection echoed, got %v", resp.SelectedCategories)
	}
	// 12:01 UTC on 1 March is 23:01 in Melbourne (AEDT).
	if resp.Races[0].StartClock != "23:01" {
		t.Fatalf("expected local start clock, got %s", resp.Races[0].StartClock)
	}
}

func TestRacesInvalidTimezoneFallsBack(t *testing.T) {
	h, _ := newTestHandler(testutil.SampleFeed(fixedNow), nil)

	rr := testutil.Serve(http.HandlerFunc(h.Races), http.MethodGet, "/races?tz=Not/AZone", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp RacesResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Races) != 3 || resp.Races[0].StartClock != "12:01" {
		t.Fatalf("expected UTC clock fallback, got %+v", resp.Races)
	}
}

func TestRacesEmptyFeedReturnsEmptyList(t *testing.T) {
	h, _ := newTestHandler(nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Races), http.MethodGet, "/races", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"races":[]`) {
		t.Fatalf("expected empty array, got %s", rr.Body.String())
	}
}

func TestAllRacesReturnsRawFeed(t *testing.T) {
	list := []domainraces.Race{
		testutil.SampleRaceIn("expired", categories.HarnessID, fixedNow, -10*time.Minute),
		testutil.SampleRaceIn("future", categories.HorseID, fixedNow, time.Minute),
	}
	h, _ := newTestHandler(list, nil)

	rr := testutil.Serve(http.HandlerFunc(h.AllRaces), http.MethodGet, "/races/all", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp domainraces.FeedResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Races) != 2 {
		t.Fatalf("expected raw feed including expired race, got %d", len(resp.Races))
	}
}

func TestRaceByID(t *testing.T) {
	h, _ := newTestHandler([]domainraces.Race{testutil.SampleRaceIn("r1", categories.HorseID, fixedNow, 90*time.Second)}, nil)

	req := withParam(httptest.NewRequest(http.MethodGet, "/races/r1", nil), "id", "r1")
	rr := testutil.ServeRequest(http.HandlerFunc(h.RaceByID), req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp appraces.Countdown
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Race.ID != "r1" || resp.Display != "01:30" || resp.Status != timeutil.StatusNormal {
		t.Fatalf("unexpected countdown %+v", resp)
	}

	req = withParam(httptest.NewRequest(http.MethodGet, "/races/nope", nil), "id", "nope")
	rr = testutil.ServeRequest(http.HandlerFunc(h.RaceByID), req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	req = withParam(httptest.NewRequest(http.MethodGet, "/races/x", nil), "id", "bad id")
	rr = testutil.ServeRequest(http.HandlerFunc(h.RaceByID), req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestCategories(t *testing.T) {
	h, _ := newTestHandler(nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Categories), http.MethodGet, "/categories", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp []categories.Category
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp) != 3 || resp[0].ID != categories.GreyhoundID {
		t.Fatalf("unexpected categories %+v", resp)
	}
}

func TestSelectionLifecycle(t *testing.T) {
	h, svc := newTestHandler(nil, nil)

	req := withParam(httptest.NewRequest(http.MethodPost, "/selection/x/toggle", nil), "categoryID", categories.HarnessID)
	rr := testutil.ServeRequest(http.HandlerFunc(h.ToggleCategory), req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var toggled ToggleResponse
	testutil.DecodeJSON(t, rr, &toggled)
	if !toggled.Selected || len(toggled.Selection.Selected) != 1 || toggled.Selection.Names[0] != "Harness Racing" {
		t.Fatalf("unexpected toggle response %+v", toggled)
	}

	rr = testutil.Serve(http.HandlerFunc(h.SelectAll), http.MethodPost, "/selection/all", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := svc.SelectedCategories(); len(got) != 3 {
		t.Fatalf("expected all categories selected, got %v", got)
	}

	rr = testutil.Serve(http.HandlerFunc(h.ClearSelection), http.MethodDelete, "/selection", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var cleared SelectionResponse
	testutil.DecodeJSON(t, rr, &cleared)
	if len(cleared.Selected) != 0 {
		t.Fatalf("expected empty selection, got %+v", cleared)
	}

	rr = testutil.Serve(http.HandlerFunc(h.Selection), http.MethodGet, "/selection", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestToggleUnknownCategoryRejected(t *testing.T) {
	h, svc := newTestHandler(nil, nil)

	req := withParam(httptest.NewRequest(http.MethodPost, "/selection/x/toggle", nil), "categoryID", "not-a-category")
	rr := testutil.ServeRequest(http.HandlerFunc(h.ToggleCategory), req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if len(svc.SelectedCategories()) != 0 {
		t.Fatalf("expected selection unchanged")
	}
}

func TestRefreshSuccessReturnsFeed(t *testing.T) {
	fresh := []domainraces.Race{testutil.SampleRace("fresh", fixedNow.Add(time.Minute).Unix())}
	sched := &stubScheduler{races: fresh}
	h, svc := newTestHandler(nil, sched)
	sched.onRefresh = svc.ReplaceRaces

	rr := testutil.Serve(http.HandlerFunc(h.Refresh), http.MethodPost, "/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp domainraces.FeedResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Races) != 1 || resp.Races[0].ID != "fresh" {
		t.Fatalf("unexpected refresh response %+v", resp)
	}
}

func TestRefreshFailureReturnsBadGatewayAndKeepsFeed(t *testing.T) {
	existing := []domainraces.Race{testutil.SampleRace("kept", fixedNow.Add(time.Minute).Unix())}
	sched := &stubScheduler{refreshErr: errors.New("upstream 503")}
	h, svc := newTestHandler(existing, sched)

	rr := testutil.Serve(http.HandlerFunc(h.Refresh), http.MethodPost, "/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	if !strings.Contains(rr.Body.String(), "upstream 503") {
		t.Fatalf("expected error detail in body, got %s", rr.Body.String())
	}
	if got := svc.Races(); len(got) != 1 || got[0].ID != "kept" {
		t.Fatalf("expected feed untouched, got %+v", got)
	}
}

func TestRefreshRateLimitedWithinFloor(t *testing.T) {
	sched := &stubScheduler{races: []domainraces.Race{testutil.SampleRace("r", fixedNow.Add(time.Minute).Unix())}}
	svc := appraces.NewService(store.NewMemoryStore())
	h := NewHandler(svc, sched, time.Hour, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Refresh), http.MethodPost, "/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(http.HandlerFunc(h.Refresh), http.MethodPost, "/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusTooManyRequests)
	if !strings.Contains(rr.Body.String(), "rate limited") {
		t.Fatalf("expected rate limit message, got %s", rr.Body.String())
	}

	sched.mu.Lock()
	defer sched.mu.Unlock()
	if sched.refreshes != 1 {
		t.Fatalf("expected limited call not to reach scheduler, got %d refreshes", sched.refreshes)
	}
}

func TestRefreshUnlimitedWhenFloorDisabled(t *testing.T) {
	sched := &stubScheduler{}
	h, _ := newTestHandler(nil, sched)

	for i := 0; i < 3; i++ {
		rr := testutil.Serve(http.HandlerFunc(h.Refresh), http.MethodPost, "/refresh", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	sched := &stubScheduler{}
	h, _ := newTestHandler(nil, sched)

	rr := testutil.Serve(http.HandlerFunc(h.StartScheduler), http.MethodPost, "/scheduler/start?interval=15s", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var status poller.Status
	testutil.DecodeJSON(t, rr, &status)
	if !status.Running || status.IntervalMS != 15000 {
		t.Fatalf("unexpected status %+v", status)
	}
	if sched.startCtxErr != nil {
		t.Fatalf("expected loop context detached from request")
	}

	rr = testutil.Serve(http.HandlerFunc(h.StartScheduler), http.MethodPost, "/scheduler/start", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if len(sched.started) != 2 || sched.started[1] != 0 {
		t.Fatalf("expected default interval on second start, got %v", sched.started)
	}

	rr = testutil.Serve(http.HandlerFunc(h.StopScheduler), http.MethodPost, "/scheduler/stop", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	rr = testutil.Serve(http.HandlerFunc(h.StopScheduler), http.MethodPost, "/scheduler/stop", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if sched.stops != 2 {
		t.Fatalf("expected two stop calls, got %d", sched.stops)
	}

	rr = testutil.Serve(http.HandlerFunc(h.SchedulerStatus), http.MethodGet, "/scheduler", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.DecodeJSON(t, rr, &status)
	if status.Running {
		t.Fatalf("expected stopped status")
	}
}

func TestSchedulerStartRejectsBadInterval(t *testing.T) {
	sched := &stubScheduler{}
	h, _ := newTestHandler(nil, sched)

	for _, raw := range []string{"soon", "-5s", "0s"} {
		rr := testutil.Serve(http.HandlerFunc(h.StartScheduler), http.MethodPost, "/scheduler/start?interval="+raw, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
	if len(sched.started) != 0 {
		t.Fatalf("expected no start on invalid interval")
	}
}

func TestSchedulerStopError(t *testing.T) {
	sched := &stubScheduler{stopErr: errors.New("stuck")}
	h, _ := newTestHandler(nil, sched)

	rr := testutil.Serve(http.HandlerFunc(h.StopScheduler), http.MethodPost, "/scheduler/stop", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestSchedulerRoutesWithoutScheduler(t *testing.T) {
	h, _ := newTestHandler(nil, nil)

	for _, fn := range []http.HandlerFunc{h.Refresh, h.SchedulerStatus, h.StartScheduler, h.StopScheduler} {
		rr := testutil.Serve(fn, http.MethodPost, "/scheduler", nil)
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.NotFound), http.MethodGet, "/x", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	rr = testutil.Serve(http.HandlerFunc(h.MethodNotAllowed), http.MethodPut, "/races", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}
