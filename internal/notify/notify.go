package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"moveit/internal/core/model"

	"fyne.io/fyne/v2"
	"go.uber.org/zap"
)

// Gate holds the notification setting. Desktop notification daemons have no
// consent prompt, so permission is always granted and the setting is applied
// at delivery time through Filter.
type Gate struct {
	mu      sync.Mutex
	enabled bool
}

// NewGate creates a Gate.
func NewGate(enabled bool) *Gate {
	return &Gate{enabled: enabled}
}

// SetEnabled updates the setting for later requests.
func (gate *Gate) SetEnabled(enabled bool) {
	gate.mu.Lock()
	gate.enabled = enabled
	gate.mu.Unlock()
}

// RequestPermission resolves the notification permission. It is granted
// regardless of the setting, which may change during the session.
func (gate *Gate) RequestPermission(ctx context.Context) (model.Permission, error) {
	if err := ctx.Err(); err != nil {
		return model.PermissionDefault, err
	}
	return model.PermissionGranted, nil
}

// Enabled reports the current setting.
func (gate *Gate) Enabled() bool {
	gate.mu.Lock()
	defer gate.mu.Unlock()
	return gate.enabled
}

// Notifier raises a user-visible notification.
type Notifier interface {
	Show(title, body string) error
}

type gatedNotifier struct {
	gate *Gate
	next Notifier
}

// Filter returns a Notifier that drops notifications while the gate is disabled.
func (gate *Gate) Filter(next Notifier) Notifier {
	return gatedNotifier{gate: gate, next: next}
}

func (notifier gatedNotifier) Show(title, body string) error {
	if !notifier.gate.Enabled() || notifier.next == nil {
		return nil
	}
	return notifier.next.Show(title, body)
}

// FyneNotifier shows notifications through the desktop notification service.
type FyneNotifier struct {
	app fyne.App
}

// NewFyneNotifier creates a notifier bound to app.
func NewFyneNotifier(app fyne.App) *FyneNotifier {
	return &FyneNotifier{app: app}
}

// Show sends a notification. Delivery happens on the UI thread.
func (notifier *FyneNotifier) Show(title, body string) error {
	if notifier.app == nil {
		return fmt.Errorf("show notification: no application")
	}
	fyne.Do(func() {
		notifier.app.SendNotification(fyne.NewNotification(title, body))
	})
	return nil
}

// LogNotifier records notifications in the log and rings the terminal bell.
type LogNotifier struct {
	logger *zap.Logger
	bell   io.Writer
}

// NewLogNotifier creates a notifier for terminal sessions. bell may be nil.
func NewLogNotifier(logger *zap.Logger, bell io.Writer) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notify"), bell: bell}
}

// Show logs the notification.
func (notifier *LogNotifier) Show(title, body string) error {
	notifier.logger.Info(title, zap.String("body", body))
	if notifier.bell == nil {
		return nil
	}
	if _, err := io.WriteString(notifier.bell, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}
