package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/cadence/internal/api"
	apiMiddleware "github.com/phrazzld/cadence/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	scheduleHandler := api.NewScheduleHandler(app.scheduler, app.emitter, app.clock, app.logger)

	r.Route("/api/schedule", func(r chi.Router) {
		r.Post("/grade", scheduleHandler.Grade)
		r.Post("/preview", scheduleHandler.Preview)
		r.Post("/introduce", scheduleHandler.Introduce)
		r.Post("/postpone", scheduleHandler.Postpone)
		r.Get("/params", scheduleHandler.Params)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
