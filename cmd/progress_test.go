package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	previous := configDir
	configDir = dir
	t.Cleanup(func() { configDir = previous })
	return filepath.Join(dir, appName)
}

func TestPrintStatusReadsSavedProgress(t *testing.T) {
	appDir := useConfigDir(t)
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	saved := "level: \"3\"\ncurrentExperience: \"40\"\nchallengesCompleted: \"7\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "progress.yaml"), []byte(saved), 0o644))

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, printStatus(cmd))

	assert.Contains(t, out.String(), "Level:       3")
	assert.Contains(t, out.String(), "Experience:  40/256 xp")
	assert.Contains(t, out.String(), "Completed:   7 challenges")
	assert.Contains(t, out.String(), "Cycle:       25m0s")
}

func TestResetProgressRemovesFile(t *testing.T) {
	appDir := useConfigDir(t)
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	progressPath := filepath.Join(appDir, "progress.yaml")
	require.NoError(t, os.WriteFile(progressPath, []byte("level: \"2\"\n"), 0o644))

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, resetProgress(cmd))

	assert.NoFileExists(t, progressPath)
	assert.Contains(t, out.String(), "Progress cleared.")
}

func TestBootstrapRejectsOutOfRangeCountdown(t *testing.T) {
	useConfigDir(t)
	previous := countdownOverride
	countdownOverride = 48 * time.Hour
	t.Cleanup(func() { countdownOverride = previous })

	_, err := bootstrap(false)
	assert.Error(t, err)
}
