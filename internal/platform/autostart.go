package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidEntry indicates an autostart entry without a name or executable.
var ErrInvalidEntry = errors.New("autostart entry needs a name and an executable")

// LaunchEntry describes how the application is started at login.
type LaunchEntry struct {
	Name     string
	ExecPath string
	Args     []string
}

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(entry LaunchEntry) error
	DisableAutostart(name string) error
}

type platformService struct {
	homeDir func() (string, error)
}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{homeDir: os.UserHomeDir}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := service.homeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// SetAutostart enables or disables launching at login.
func SetAutostart(service Service, entry LaunchEntry, enabled bool) error {
	if enabled {
		return service.EnableAutostart(entry)
	}
	return service.DisableAutostart(entry.Name)
}

func (entry LaunchEntry) validate() error {
	if strings.TrimSpace(entry.Name) == "" || entry.ExecPath == "" {
		return ErrInvalidEntry
	}
	return nil
}

// slug turns an application name into a file-name friendly identifier.
func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "moveit"
	}
	return strings.ReplaceAll(name, " ", "-")
}
