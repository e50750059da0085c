package services

import (
	"context"

	"github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/highscore"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/progress"
)

// ProgressService exposes adventure progress and the high-score table
type ProgressService interface {
	Topics(ctx context.Context) []models.TopicProgress
	Topic(ctx context.Context, operation string) (*models.TopicProgress, error)
	ResetProgress(ctx context.Context)
	HighScores(ctx context.Context) []models.HighScoreEntry
	ClearHighScores(ctx context.Context)
}

type progressService struct {
	progress   *progress.Store
	highScores *highscore.Table
}

// NewProgressService creates a new ProgressService
func NewProgressService(p *progress.Store, h *highscore.Table) ProgressService {
	return &progressService{progress: p, highScores: h}
}

func (s *progressService) Topics(ctx context.Context) []models.TopicProgress {
	return s.progress.Topics()
}

func (s *progressService) Topic(ctx context.Context, operation string) (*models.TopicProgress, error) {
	op, ok := models.LookupOperator(operation)
	if !ok {
		return nil, errors.NewNotFoundError("operation", operation)
	}
	t := s.progress.Topic(op)
	return &t, nil
}

func (s *progressService) ResetProgress(ctx context.Context) {
	logger.FromContext(ctx).Info("resetting adventure progress")
	s.progress.Reset(ctx)
}

func (s *progressService) HighScores(ctx context.Context) []models.HighScoreEntry {
	return s.highScores.Scores()
}

func (s *progressService) ClearHighScores(ctx context.Context) {
	logger.FromContext(ctx).Info("clearing high scores")
	s.highScores.Clear(ctx)
}
