package models

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Settings are the player's presentation preferences.
type Settings struct {
	SoundEnabled bool   `json:"sound_enabled"`
	Theme        string `json:"theme"`
	HighContrast bool   `json:"high_contrast"`
	LargeText    bool   `json:"large_text"`
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		SoundEnabled: true,
		Theme:        ThemeLight,
	}
}
