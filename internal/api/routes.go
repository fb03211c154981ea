package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vytor/vocabflash/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	if s.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, &errors.AppError{
			Code:    errors.ErrCodeBadRequest,
			Message: r.Method + " is not allowed on " + r.URL.Path,
			Status:  http.StatusMethodNotAllowed,
		})
	})

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		if s.RateLimitRequests > 0 && s.RateLimitWindow > 0 {
			r.Use(newIPRateLimiter(s.RateLimitRequests, s.RateLimitWindow).middleware)
		}

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Put("/auth/settings", s.handleUpdateSettings)

			r.Get("/words", s.handleListWords)
			r.Get("/words/{id}", s.handleGetWord)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/words", s.handleCreateWord)
				r.Put("/words/{id}", s.handleUpdateWord)
				r.Delete("/words/{id}", s.handleDeleteWord)
				r.Post("/words/bulk-import", s.handleBulkImport)
				r.Get("/words/export", s.handleExportWords)
				r.Post("/words/import", s.handleUploadImport)
				r.Get("/words/import/{jobID}", s.handleImportStatus)
			})

			r.Get("/progress/due", s.handleDueWords)
			r.Get("/progress/new", s.handleNewWords)
			r.Get("/progress/practice", s.handlePracticeWords)
			r.Get("/progress/stats", s.handleStats)
			r.Post("/progress/review", s.handleReview)
			r.Post("/progress/reset", s.handleResetProgress)
		})
	})
	return r
}
