package notify

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// ErrNoPlayer indicates no audio player was found on this system.
var ErrNoPlayer = errors.New("no audio player available")

// SoundPlayer plays an embedded sound through a system audio command.
type SoundPlayer struct {
	mu      sync.Mutex
	data    []byte
	name    string
	enabled bool
	path    string
	lookup  func(string) (string, error)
	start   func(name string, args ...string) error
	logger  *zap.Logger
}

// NewSoundPlayer creates a player for data. name is used for the cached file.
func NewSoundPlayer(name string, data []byte, enabled bool, logger *zap.Logger) *SoundPlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoundPlayer{
		data:    data,
		name:    name,
		enabled: enabled,
		lookup:  exec.LookPath,
		start:   startDetached,
		logger:  logger.Named("sound"),
	}
}

// SetEnabled toggles playback.
func (player *SoundPlayer) SetEnabled(enabled bool) {
	player.mu.Lock()
	player.enabled = enabled
	player.mu.Unlock()
}

// Play starts playback without waiting for it to finish.
func (player *SoundPlayer) Play() error {
	player.mu.Lock()
	defer player.mu.Unlock()
	if !player.enabled {
		return nil
	}

	path, err := player.materializeLocked()
	if err != nil {
		return err
	}

	for _, candidate := range playerCommands(runtime.GOOS, path) {
		binary, err := player.lookup(candidate[0])
		if err != nil {
			continue
		}
		if err := player.start(binary, candidate[1:]...); err != nil {
			return fmt.Errorf("start %s: %w", candidate[0], err)
		}
		player.logger.Debug("sound started", zap.String("player", candidate[0]))
		return nil
	}
	return ErrNoPlayer
}

// materializeLocked writes the sound to a temp file once so players can open it.
func (player *SoundPlayer) materializeLocked() (string, error) {
	if player.path != "" {
		return player.path, nil
	}
	path := filepath.Join(os.TempDir(), player.name)
	if err := os.WriteFile(path, player.data, 0o644); err != nil {
		return "", fmt.Errorf("write sound file: %w", err)
	}
	player.path = path
	return path, nil
}

func playerCommands(goos, path string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"afplay", path}}
	case "windows":
		script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", path)
		return [][]string{{"powershell", "-NoProfile", "-Command", script}}
	default:
		return [][]string{{"paplay", path}, {"pw-play", path}, {"aplay", "-q", path}}
	}
}

func startDetached(name string, args ...string) error {
	command := exec.Command(name, args...)
	if err := command.Start(); err != nil {
		return err
	}
	go func() {
		_ = command.Wait()
	}()
	return nil
}
