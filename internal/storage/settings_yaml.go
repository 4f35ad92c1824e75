package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"moveit/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings marks settings that were read but contained out-of-range values.
// Those values keep their defaults while the rest of the file still applies.
var ErrInvalidSettings = errors.New("invalid settings value")

type yamlSettings struct {
	CountdownSeconds int   `yaml:"countdown_seconds"`
	Notifications    *bool `yaml:"notifications"`
	Sound            *bool `yaml:"sound"`
	LevelUpModal     *bool `yaml:"level_up_modal"`
	LaunchAtLogin    bool  `yaml:"launch_at_login"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
// Values that fail validation keep their defaults.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	return applyYamlSettings(settings, fileData)
}

// ReloadSettings re-reads the settings file for a running session. ok is false
// when the file is missing, unreadable or not valid YAML, in which case the
// caller keeps its current settings. Out-of-range values still report ok with
// an error wrapping ErrInvalidSettings.
func ReloadSettings(path string) (settings preferences.Settings, ok bool, err error) {
	if _, err := os.Stat(path); err != nil {
		return preferences.Settings{}, false, fmt.Errorf("stat settings file: %w", err)
	}
	settings, err = LoadSettings(path)
	if err != nil && !errors.Is(err, ErrInvalidSettings) {
		return preferences.Settings{}, false, err
	}
	return settings, true, err
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		CountdownSeconds: int(settings.CountdownDuration / time.Second),
		Notifications:    &settings.Notifications,
		Sound:            &settings.Sound,
		LevelUpModal:     &settings.LevelUpModal,
		LaunchAtLogin:    settings.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := writeFileAtomic(path, serialized); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings preferences.Settings, fileData yamlSettings) (preferences.Settings, error) {
	var invalid error
	if fileData.CountdownSeconds != 0 {
		candidate := settings
		candidate.CountdownDuration = time.Duration(fileData.CountdownSeconds) * time.Second
		if err := candidate.Validate(); err != nil {
			invalid = fmt.Errorf("%w: countdown_seconds %d: %w", ErrInvalidSettings, fileData.CountdownSeconds, err)
		} else {
			settings = candidate
		}
	}

	if fileData.Notifications != nil {
		settings.Notifications = *fileData.Notifications
	}
	if fileData.Sound != nil {
		settings.Sound = *fileData.Sound
	}
	if fileData.LevelUpModal != nil {
		settings.LevelUpModal = *fileData.LevelUpModal
	}
	settings.LaunchAtLogin = fileData.LaunchAtLogin

	return settings, invalid
}

func writeFileAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tempPath := temp.Name()
	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}
