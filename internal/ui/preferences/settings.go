package preferences

import (
	"fmt"
	"time"

	"moveit/internal/core/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Settings defines editable user preferences.
type Settings struct {
	CountdownDuration time.Duration `validate:"gte=1s,lte=24h"`
	Notifications     bool
	Sound             bool
	LevelUpModal      bool
	LaunchAtLogin     bool
}

// DefaultSettings returns default settings for MoveIt.
func DefaultSettings() Settings {
	return Settings{
		CountdownDuration: 25 * time.Minute,
		Notifications:     true,
		Sound:             true,
		LevelUpModal:      true,
		LaunchAtLogin:     false,
	}
}

// Validate checks value ranges.
func (settings Settings) Validate() error {
	if err := validate.Struct(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// CountdownConfig converts settings to a CountdownConfig.
func (settings Settings) CountdownConfig() model.CountdownConfig {
	return model.CountdownConfig{
		Duration:     settings.CountdownDuration,
		TickInterval: time.Second,
	}
}
