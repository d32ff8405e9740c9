package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	appraces "github.com/preston-bernstein/next-to-go-service/internal/app/races"
	"github.com/preston-bernstein/next-to-go-service/internal/domain/categories"
	domainraces "github.com/preston-bernstein/next-to-go-service/internal/domain/races"
	"github.com/preston-bernstein/next-to-go-service/internal/logging"
	"github.com/preston-bernstein/next-to-go-service/internal/poller"
	"github.com/preston-bernstein/next-to-go-service/internal/timeutil"
)

type nowFunc func() time.Time

// Scheduler is the refresh control surface the handlers drive.
type Scheduler interface {
	Start(ctx context.Context, interval time.Duration)
	Stop(ctx context.Context) error
	Refresh(ctx context.Context) ([]domainraces.Race, error)
	Status() poller.Status
}

// Handler wires HTTP routes to the race service and the refresh scheduler.
type Handler struct {
	svc            *appraces.Service
	scheduler      Scheduler
	refreshLimiter *rate.Limiter
	logger         *slog.Logger
	now            nowFunc
}

// NewHandler constructs a Handler with defaults. scheduler may be nil.
// Manual refreshes are admitted at most once per refreshMinInterval; zero disables the limit.
func NewHandler(svc *appraces.Service, scheduler Scheduler, refreshMinInterval time.Duration, logger *slog.Logger) *Handler {
	limit := rate.Inf
	if refreshMinInterval > 0 {
		limit = rate.Every(refreshMinInterval)
	}
	return &Handler{
		svc:            svc,
		scheduler:      scheduler,
		refreshLimiter: rate.NewLimiter(limit, 1),
		logger:         logger,
		now:            time.Now,
	}
}

// RacesResponse is the visible list with countdown views.
type RacesResponse struct {
	UpdatedAt          time.Time            `json:"updatedAt"`
	Now                int64                `json:"now"`
	SelectedCategories []string             `json:"selectedCategories"`
	Races              []appraces.Countdown `json:"races"`
}

// SelectionResponse describes the current category selection.
type SelectionResponse struct {
	Selected []string `json:"selected"`
	Names    []string `json:"names"`
}

// ToggleResponse reports the outcome of a category toggle.
type ToggleResponse struct {
	CategoryID string            `json:"categoryId"`
	Selected   bool              `json:"selected"`
	Selection  SelectionResponse `json:"selection"`
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.scheduler == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.scheduler.Status()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Races returns the visible races with a countdown view each, evaluated at request time.
func (h *Handler) Races(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	now := h.now()

	tz := strings.TrimSpace(r.URL.Query().Get("tz"))
	loc := timeutil.ResolveLocation(tz)
	if tz != "" && loc == nil {
		logging.Warn(logger, "invalid tz, using UTC", slog.String("tz", tz))
	}

	resp := RacesResponse{
		UpdatedAt:          h.svc.LastFetch(),
		Now:                timeutil.EpochSeconds(now),
		SelectedCategories: h.svc.SelectedCategories(),
		Races:              h.svc.VisibleCountdowns(now, loc),
	}
	logging.Info(logger, "served visible races", slog.Int(logging.FieldCount, len(resp.Races)))
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// AllRaces returns the unfiltered feed as last fetched.
func (h *Handler) AllRaces(w nethttp.ResponseWriter, r *nethttp.Request) {
	payload := domainraces.NewFeedResponse(h.svc.LastFetch(), h.svc.Races())
	writeJSON(w, nethttp.StatusOK, payload, h.logger)
}

// RaceByID returns one race with its countdown view.
func (h *Handler) RaceByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, nethttp.StatusBadRequest, "invalid race id", h.logger)
		return
	}

	race, ok := h.svc.RaceByID(id)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "race not found", h.logger)
		return
	}

	loc := timeutil.ResolveLocation(r.URL.Query().Get("tz"))
	writeJSON(w, nethttp.StatusOK, appraces.CountdownFor(race, h.now(), loc), h.logger)
}

// Categories returns the category table.
func (h *Handler) Categories(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, categories.All(), h.logger)
}

// Selection returns the current category selection.
func (h *Handler) Selection(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, h.selection(), h.logger)
}

// ToggleCategory flips one category in the selection. Unknown ids are rejected.
func (h *Handler) ToggleCategory(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	id := chi.URLParam(r, "categoryID")
	if !categories.Known(id) {
		logging.Warn(logger, "toggle unknown category", slog.String(logging.FieldCategoryID, id))
		writeError(w, r, nethttp.StatusBadRequest, "unknown category", h.logger)
		return
	}

	selected := h.svc.ToggleCategory(id)
	logging.Info(logger, "category toggled",
		slog.String(logging.FieldCategoryID, id),
		slog.Bool("selected", selected),
	)
	writeJSON(w, nethttp.StatusOK, ToggleResponse{
		CategoryID: id,
		Selected:   selected,
		Selection:  h.selection(),
	}, h.logger)
}

// SelectAll selects every category.
func (h *Handler) SelectAll(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.svc.SelectAllCategories()
	writeJSON(w, nethttp.StatusOK, h.selection(), h.logger)
}

// ClearSelection empties the selection so every category is shown.
func (h *Handler) ClearSelection(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.svc.ClearCategories()
	writeJSON(w, nethttp.StatusOK, h.selection(), h.logger)
}

// NotFound renders unknown routes as JSON.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed renders known routes hit with the wrong method as JSON.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}

func (h *Handler) selection() SelectionResponse {
	return SelectionResponse{
		Selected: h.svc.SelectedCategories(),
		Names:    h.svc.SelectedCategoryNames(),
	}
}
