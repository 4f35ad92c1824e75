package notify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"moveit/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGateGrantsRegardlessOfSetting(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		gate := NewGate(enabled)
		permission, err := gate.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, model.PermissionGranted, permission)
		assert.Equal(t, enabled, gate.Enabled())
	}
}

func TestGateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	permission, err := NewGate(true).RequestPermission(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.PermissionDefault, permission)
}

func TestLogNotifierRingsBell(t *testing.T) {
	var bell bytes.Buffer
	notifier := NewLogNotifier(zaptest.NewLogger(t), &bell)

	require.NoError(t, notifier.Show("New challenge", "worth 10xp"))
	assert.Equal(t, "\a", bell.String())

	require.NoError(t, NewLogNotifier(nil, nil).Show("title", "body"))
}

func TestSoundPlayerUsesFirstAvailablePlayer(t *testing.T) {
	player := NewSoundPlayer("moveit-test.wav", []byte("RIFF"), true, zaptest.NewLogger(t))
	var started []string
	player.lookup = func(name string) (string, error) {
		if name == "afplay" || name == "powershell" || name == "pw-play" {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	player.start = func(name string, args ...string) error {
		started = append(started, name)
		return nil
	}

	require.NoError(t, player.Play())
	require.Len(t, started, 1)
	assert.Contains(t, []string{"/usr/bin/afplay", "/usr/bin/powershell", "/usr/bin/pw-play"}, started[0])

	data, err := os.ReadFile(player.path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data))
	_ = os.Remove(player.path)
}

func TestSoundPlayerWithoutPlayer(t *testing.T) {
	player := NewSoundPlayer("moveit-test-none.wav", []byte("RIFF"), true, nil)
	player.lookup = func(string) (string, error) { return "", errors.New("not found") }
	defer func() { _ = os.Remove(player.path) }()

	assert.ErrorIs(t, player.Play(), ErrNoPlayer)
}

func TestSoundPlayerDisabled(t *testing.T) {
	player := NewSoundPlayer("moveit-test-off.wav", []byte("RIFF"), false, nil)
	player.start = func(string, ...string) error {
		t.Fatal("player must not start")
		return nil
	}

	assert.NoError(t, player.Play())
	assert.Empty(t, player.path)
}

func TestPlayerCommands(t *testing.T) {
	assert.Equal(t, "afplay", playerCommands("darwin", "/tmp/a.wav")[0][0])
	assert.Equal(t, "powershell", playerCommands("windows", `C:\a.wav`)[0][0])
	linux := playerCommands("linux", "/tmp/a.wav")
	assert.Equal(t, []string{"paplay", "/tmp/a.wav"}, linux[0])
	assert.Len(t, linux, 3)
}

type countingNotifier struct{ shown int }

func (notifier *countingNotifier) Show(string, string) error {
	notifier.shown++
	return nil
}

func TestGateFilter(t *testing.T) {
	next := &countingNotifier{}
	gate := NewGate(true)
	filtered := gate.Filter(next)

	require.NoError(t, filtered.Show("a", "b"))
	gate.SetEnabled(false)
	require.NoError(t, filtered.Show("a", "b"))

	assert.Equal(t, 1, next.shown)
	assert.NoError(t, NewGate(true).Filter(nil).Show("a", "b"))
}
