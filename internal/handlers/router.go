package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the API. Read endpoints sit under /api/v1; the job
// triggers are meant for operators and the scheduler, not public clients.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/predictions", h.GetPredictions)
		r.Post("/predict", h.PredictCustomMatch)

		r.Get("/models", h.ListModels)
		r.Get("/models/{id}/metrics", h.GetModelMetrics)

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/refresh", h.TriggerRefresh)
			r.Post("/predict", h.TriggerPredict)
			r.Post("/analyze", h.TriggerAnalyze)
			r.Post("/train", h.TriggerTrain)
		})
	})

	return r
}
