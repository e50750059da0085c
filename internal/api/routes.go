package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/sumrunner/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Get("/current", s.handleCurrentSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Post("/answer", s.handleAnswer)
				r.Post("/timeout", s.handleTimeout)
				r.Post("/pause", s.handlePause)
				r.Post("/resume", s.handleResume)
				r.Post("/visibility", s.handleVisibility)
				r.Post("/quit", s.handleQuit)
			})
		})

		r.Get("/progress", s.handleProgress)
		r.Get("/progress/{operation}", s.handleTopicProgress)
		r.Delete("/progress", s.handleResetProgress)

		r.Get("/highscores", s.handleHighScores)
		r.Delete("/highscores", s.handleClearHighScores)

		r.Get("/settings", s.handleSettings)
		r.Post("/settings/{flag}/toggle", s.handleToggleSetting)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	return r
}
