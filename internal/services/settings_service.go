package services

import (
	"context"

	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/settings"
)

// SettingsService reads and toggles presentation preferences
type SettingsService interface {
	Get(ctx context.Context) models.Settings
	Toggle(ctx context.Context, flag string) (*models.Settings, error)
}

type settingsService struct {
	store *settings.Store
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(store *settings.Store) SettingsService {
	return &settingsService{store: store}
}

func (s *settingsService) Get(ctx context.Context) models.Settings {
	return s.store.Get()
}

func (s *settingsService) Toggle(ctx context.Context, flag string) (*models.Settings, error) {
	updated, err := s.store.Toggle(ctx, flag)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("toggled setting %s", flag)
	return &updated, nil
}
