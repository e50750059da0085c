// Package settings persists the player's presentation preferences. Each flag
// is stored under its own key.
package settings

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/records"
)

// Flag names double as storage keys.
const (
	FlagSound        = "soundEnabled"
	FlagTheme        = "theme"
	FlagHighContrast = "highContrast"
	FlagLargeText    = "largeText"
)

// Flags lists every setting in display order.
var Flags = []string{FlagSound, FlagTheme, FlagHighContrast, FlagLargeText}

type Store struct {
	mu      sync.RWMutex
	records *records.Store
	current models.Settings
}

// Load restores settings from rec. Each missing or unreadable flag keeps its default.
func Load(ctx context.Context, rec *records.Store) *Store {
	s := &Store{records: rec, current: models.DefaultSettings()}

	loadBool(ctx, rec, FlagSound, &s.current.SoundEnabled)
	loadBool(ctx, rec, FlagHighContrast, &s.current.HighContrast)
	loadBool(ctx, rec, FlagLargeText, &s.current.LargeText)

	var theme string
	if rec.Load(ctx, FlagTheme, &theme) && (theme == models.ThemeLight || theme == models.ThemeDark) {
		s.current.Theme = theme
	}
	return s
}

func loadBool(ctx context.Context, rec *records.Store, key string, dst *bool) {
	var v bool
	if rec.Load(ctx, key, &v) {
		*dst = v
	}
}

// Get returns the current settings.
func (s *Store) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ToggleSound flips sound on or off and returns the new value.
func (s *Store) ToggleSound(ctx context.Context) bool {
	return s.toggleBool(ctx, FlagSound, &s.current.SoundEnabled)
}

// ToggleHighContrast flips high-contrast mode and returns the new value.
func (s *Store) ToggleHighContrast(ctx context.Context) bool {
	return s.toggleBool(ctx, FlagHighContrast, &s.current.HighContrast)
}

// ToggleLargeText flips large text and returns the new value.
func (s *Store) ToggleLargeText(ctx context.Context) bool {
	return s.toggleBool(ctx, FlagLargeText, &s.current.LargeText)
}

// ToggleTheme switches between the light and dark themes and returns the new one.
func (s *Store) ToggleTheme(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Theme == models.ThemeDark {
		s.current.Theme = models.ThemeLight
	} else {
		s.current.Theme = models.ThemeDark
	}
	s.records.Save(ctx, FlagTheme, s.current.Theme)
	return s.current.Theme
}

func (s *Store) toggleBool(ctx context.Context, key string, field *bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	*field = !*field
	s.records.Save(ctx, key, *field)
	return *field
}

// Toggle flips the named flag and returns the updated settings.
func (s *Store) Toggle(ctx context.Context, flag string) (models.Settings, error) {
	switch flag {
	case FlagSound:
		s.ToggleSound(ctx)
	case FlagTheme:
		s.ToggleTheme(ctx)
	case FlagHighContrast:
		s.ToggleHighContrast(ctx)
	case FlagLargeText:
		s.ToggleLargeText(ctx)
	default:
		return models.Settings{}, apperrors.NewNotFoundError("setting", fmt.Sprintf("%q", flag))
	}
	return s.Get(), nil
}
