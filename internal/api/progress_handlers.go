package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"topics": s.Progress.Topics(r.Context()),
	})
}

func (s *Server) handleTopicProgress(w http.ResponseWriter, r *http.Request) {
	topic, err := s.Progress.Topic(r.Context(), chi.URLParam(r, "operation"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topic)
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	s.Progress.ResetProgress(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scores": s.Progress.HighScores(r.Context()),
	})
}

func (s *Server) handleClearHighScores(w http.ResponseWriter, r *http.Request) {
	s.Progress.ClearHighScores(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
