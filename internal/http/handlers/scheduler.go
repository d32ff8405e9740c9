package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	domainraces "github.com/preston-bernstein/next-to-go-service/internal/domain/races"
	"github.com/preston-bernstein/next-to-go-service/internal/logging"
)

// Refresh fetches the feed immediately. On failure the feed is left as it was and 502 is returned.
// Calls arriving faster than the refresh floor get 429 without reaching the provider.
func (h *Handler) Refresh(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.scheduler == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "refresh not configured", h.logger)
		return
	}
	logger := loggerFromContext(r, h.logger)

	if !h.refreshLimiter.Allow() {
		logging.Warn(logger, "manual refresh rate limited")
		writeError(w, r, nethttp.StatusTooManyRequests, "refresh rate limited", h.logger)
		return
	}

	list, err := h.scheduler.Refresh(r.Context())
	if err != nil {
		logging.Warn(logger, "manual refresh failed", slog.Any("err", err))
		writeError(w, r, nethttp.StatusBadGateway, "refresh failed: "+err.Error(), h.logger)
		return
	}

	logging.Info(logger, "manual refresh complete", slog.Int(logging.FieldCount, len(list)))
	writeJSON(w, nethttp.StatusOK, domainraces.NewFeedResponse(h.svc.LastFetch(), list), h.logger)
}

// SchedulerStatus reports whether auto refresh is running and how recent fetches went.
func (h *Handler) SchedulerStatus(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.scheduler == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "scheduler not configured", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, h.scheduler.Status(), h.logger)
}

// StartScheduler arms auto refresh, replacing any running timer. The optional interval
// query is a Go duration; omitted means the configured default.
func (h *Handler) StartScheduler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.scheduler == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "scheduler not configured", h.logger)
		return
	}
	logger := loggerFromContext(r, h.logger)

	var interval time.Duration
	if raw := strings.TrimSpace(r.URL.Query().Get("interval")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			logging.Warn(logger, "scheduler start invalid interval", slog.String("interval", raw))
			writeError(w, r, nethttp.StatusBadRequest, "invalid interval", h.logger)
			return
		}
		interval = parsed
	}

	// The loop must outlive this request.
	h.scheduler.Start(context.WithoutCancel(r.Context()), interval)
	writeJSON(w, nethttp.StatusOK, h.scheduler.Status(), h.logger)
}

// StopScheduler disarms auto refresh. Stopping a stopped scheduler succeeds.
func (h *Handler) StopScheduler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.scheduler == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "scheduler not configured", h.logger)
		return
	}
	if err := h.scheduler.Stop(r.Context()); err != nil {
		writeError(w, r, nethttp.StatusInternalServerError, "failed to stop scheduler", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, h.scheduler.Status(), h.logger)
}
