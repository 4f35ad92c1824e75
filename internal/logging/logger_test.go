package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moveit.log")

	logger, err := New("moveit", Options{Verbose: true, OutputPaths: []string{path}})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger.Info("challenge started")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "challenge started")
	assert.Contains(t, string(data), "moveit")
}

func TestNewDefaultLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moveit.log")

	logger, err := New("moveit", Options{OutputPaths: []string{path}})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}
