package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/viralforge/forensics-engine/internal/contracts"
	"github.com/viralforge/forensics-engine/internal/ports"
)

func NewRouter(handler *Handler, limiter ports.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, contracts.HealthResponse{Status: "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, contracts.HealthResponse{Status: "ready"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimitMiddleware(limiter))
		r.Post("/analyze/forensics", handler.analyzeForensics)
		r.Post("/predict/price", handler.predictPrice)
		r.Post("/analyze/brand-fit", handler.analyzeBrandFit)
	})

	return r
}
