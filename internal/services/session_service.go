package services

import (
	"context"

	"github.com/vytor/sumrunner/internal/game"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
)

// SessionService handles play-session business logic
type SessionService interface {
	Start(ctx context.Context, settings models.GameSettings) (*models.SessionView, error)
	Current(ctx context.Context) (*models.SessionView, error)
	Get(ctx context.Context, id string) (*models.SessionView, error)
	Answer(ctx context.Context, id string, choice int) (*models.RoundOutcome, error)
	Timeout(ctx context.Context, id string) (*models.RoundOutcome, error)
	Pause(ctx context.Context, id string) (*models.SessionView, error)
	Resume(ctx context.Context, id string) (*models.SessionView, error)
	SetVisibility(ctx context.Context, id string, visible bool) (*models.SessionView, error)
	Quit(ctx context.Context, id string) (*models.GameSummary, error)
}

type sessionService struct {
	manager *game.Manager
}

// NewSessionService creates a new SessionService
func NewSessionService(manager *game.Manager) SessionService {
	return &sessionService{manager: manager}
}

func (s *sessionService) Start(ctx context.Context, settings models.GameSettings) (*models.SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting game: mode=%s operations=%v", settings.Mode, settings.Operations)

	// Clients poll the session view, so events need no sink.
	session, err := s.manager.Start(settings, nil)
	if err != nil {
		log.Warn("failed to start game: %v", err)
		return nil, err
	}

	log.Info("game started: session=%s", session.ID())
	return s.view(session), nil
}

func (s *sessionService) Current(ctx context.Context) (*models.SessionView, error) {
	session, err := s.manager.Current()
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.SessionView, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *sessionService) Answer(ctx context.Context, id string, choice int) (*models.RoundOutcome, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	out, err := session.Submit(choice)
	if err != nil {
		logger.FromContext(ctx).Debug("answer rejected: %v", err)
		return nil, err
	}
	return &out, nil
}

func (s *sessionService) Timeout(ctx context.Context, id string) (*models.RoundOutcome, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	out, err := session.Timeout()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *sessionService) Pause(ctx context.Context, id string) (*models.SessionView, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Pause(); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *sessionService) Resume(ctx context.Context, id string) (*models.SessionView, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Resume(); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *sessionService) SetVisibility(ctx context.Context, id string, visible bool) (*models.SessionView, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	session.SetVisible(visible)
	return s.view(session), nil
}

func (s *sessionService) Quit(ctx context.Context, id string) (*models.GameSummary, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	sum, err := session.Quit()
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("game quit: session=%s score=%d", id, sum.Score)
	return &sum, nil
}

func (s *sessionService) view(session *game.Session) *models.SessionView {
	v := session.View()
	return &v
}
