package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
)

type startSessionRequest struct {
	Mode             string   `json:"mode"`
	Operations       []string `json:"operations"`
	Difficulty       int      `json:"difficulty"`
	TimeLimitSeconds int      `json:"time_limit_seconds"`
	Operation        string   `json:"operation"`
	Level            int      `json:"level"`
}

func (req startSessionRequest) settings() (models.GameSettings, error) {
	gs := models.GameSettings{
		Mode:             models.ParseMode(req.Mode),
		Difficulty:       req.Difficulty,
		TimeLimitSeconds: req.TimeLimitSeconds,
		Level:            req.Level,
	}
	if name := strings.TrimSpace(req.Mode); name != "" && gs.Mode == models.ModeEndless && !strings.EqualFold(name, string(models.ModeEndless)) {
		return gs, errors.NewValidationError("mode", "unknown mode "+name)
	}
	for _, name := range req.Operations {
		op, ok := models.LookupOperator(name)
		if !ok {
			return gs, errors.NewValidationError("operations", "unknown operation "+name)
		}
		gs.Operations = append(gs.Operations, op)
	}
	if req.Operation != "" {
		op, ok := models.LookupOperator(req.Operation)
		if !ok {
			return gs, errors.NewValidationError("operation", "unknown operation "+req.Operation)
		}
		gs.Operation = op
	}
	return gs, nil
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	gs, err := req.settings()
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Sessions.Start(r.Context(), gs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Current(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type answerRequest struct {
	Choice *int `json:"choice"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Choice == nil {
		handleError(w, r, errors.NewValidationError("choice", "is required"))
		return
	}

	out, err := s.Sessions.Answer(r.Context(), chi.URLParam(r, "id"), *req.Choice)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTimeout(w http.ResponseWriter, r *http.Request) {
	out, err := s.Sessions.Timeout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Pause(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Resume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Visible == nil {
		handleError(w, r, errors.NewValidationError("visible", "is required"))
		return
	}

	view, err := s.Sessions.SetVisibility(r.Context(), chi.URLParam(r, "id"), *req.Visible)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	summary, err := s.Sessions.Quit(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("session %s summary: score=%d accuracy=%d", id, summary.Score, summary.Accuracy)
	writeJSON(w, http.StatusOK, summary)
}
