package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Settings.Get(r.Context()))
}

func (s *Server) handleToggleSetting(w http.ResponseWriter, r *http.Request) {
	updated, err := s.Settings.Toggle(r.Context(), chi.URLParam(r, "flag"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
