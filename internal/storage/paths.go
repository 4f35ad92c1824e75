package storage

import "path/filepath"

const (
	settingsFileName = "settings.yaml"
	progressFileName = "progress.yaml"
)

// Paths locates the application files inside a configuration directory.
type Paths struct {
	Dir string
}

// NewPaths returns the file layout for appName under configDir.
func NewPaths(configDir, appName string) Paths {
	return Paths{Dir: filepath.Join(configDir, appName)}
}

// Settings returns the settings file path.
func (paths Paths) Settings() string {
	return filepath.Join(paths.Dir, settingsFileName)
}

// Progress returns the progress store path.
func (paths Paths) Progress() string {
	return filepath.Join(paths.Dir, progressFileName)
}
