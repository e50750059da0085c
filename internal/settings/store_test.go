package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/sumrunner/internal/errors"
	"github.com/vytor/sumrunner/internal/models"
	"github.com/vytor/sumrunner/internal/records"
	"github.com/vytor/sumrunner/internal/repository/memory"
	"github.com/vytor/sumrunner/internal/settings"
)

func TestLoad_Defaults(t *testing.T) {
	store := settings.Load(context.Background(), records.New(memory.NewKVRepository(), nil))

	assert.Equal(t, models.Settings{SoundEnabled: true, Theme: models.ThemeLight}, store.Get())
}

func TestToggles(t *testing.T) {
	ctx := context.Background()
	store := settings.Load(ctx, records.New(memory.NewKVRepository(), nil))

	assert.False(t, store.ToggleSound(ctx))
	assert.True(t, store.ToggleSound(ctx))
	assert.Equal(t, models.ThemeDark, store.ToggleTheme(ctx))
	assert.Equal(t, models.ThemeLight, store.ToggleTheme(ctx))
	assert.True(t, store.ToggleHighContrast(ctx))
	assert.True(t, store.ToggleLargeText(ctx))

	assert.Equal(t, models.Settings{
		SoundEnabled: true,
		Theme:        models.ThemeLight,
		HighContrast: true,
		LargeText:    true,
	}, store.Get())
}

func TestPersistsEachFlag(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewKVRepository()
	store := settings.Load(ctx, records.New(repo, nil))

	store.ToggleSound(ctx)
	store.ToggleTheme(ctx)

	raw, found, err := repo.Get(ctx, settings.FlagTheme)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"dark"`, raw)

	reloaded := settings.Load(ctx, records.New(repo, nil))
	assert.Equal(t, models.Settings{SoundEnabled: false, Theme: models.ThemeDark}, reloaded.Get())
}

func TestLoad_InvalidValuesUseDefaults(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewKVRepository()
	require.NoError(t, repo.Set(ctx, settings.FlagSound, "maybe"))
	require.NoError(t, repo.Set(ctx, settings.FlagTheme, `"sepia"`))
	require.NoError(t, repo.Set(ctx, settings.FlagLargeText, "true"))

	got := settings.Load(ctx, records.New(repo, nil)).Get()
	assert.True(t, got.SoundEnabled)
	assert.Equal(t, models.ThemeLight, got.Theme)
	assert.True(t, got.LargeText)
}

func TestToggleByName(t *testing.T) {
	ctx := context.Background()
	store := settings.Load(ctx, records.New(memory.NewKVRepository(), nil))

	for _, flag := range settings.Flags {
		_, err := store.Toggle(ctx, flag)
		require.NoError(t, err, flag)
	}
	assert.Equal(t, models.Settings{
		SoundEnabled: false,
		Theme:        models.ThemeDark,
		HighContrast: true,
		LargeText:    true,
	}, store.Get())

	_, err := store.Toggle(ctx, "volume")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}
