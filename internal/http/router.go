package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/next-to-go-service/internal/http/handlers"
	"github.com/preston-bernstein/next-to-go-service/internal/http/middleware"
	"github.com/preston-bernstein/next-to-go-service/internal/metrics"
)

// NewRouter registers HTTP routes on a chi router with request logging and metrics.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/races", func(r chi.Router) {
		r.Get("/", handler.Races)
		r.Get("/all", handler.AllRaces)
		r.Get("/{id}", handler.RaceByID)
	})
	r.Get("/categories", handler.Categories)

	r.Route("/selection", func(r chi.Router) {
		r.Get("/", handler.Selection)
		r.Delete("/", handler.ClearSelection)
		r.Post("/all", handler.SelectAll)
		r.Post("/{categoryID}/toggle", handler.ToggleCategory)
	})

	r.Post("/refresh", handler.Refresh)
	r.Route("/scheduler", func(r chi.Router) {
		r.Get("/", handler.SchedulerStatus)
		r.Post("/start", handler.StartScheduler)
		r.Post("/stop", handler.StopScheduler)
	})
	return r
}
