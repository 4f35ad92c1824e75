package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen        func()
	OnPreferences func()
	OnToggleCycle func()
	OnComplete    func()
	OnFail        func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app          desktop.App
	statusItem   *fyne.MenuItem
	progressItem *fyne.MenuItem
	cycleItem    *fyne.MenuItem
	completeItem *fyne.MenuItem
	failItem     *fyne.MenuItem
	callbacks    Callbacks
	running      bool
	challenge    bool
	statusLabel  string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true
	manager.progressItem = fyne.NewMenuItem("Level 1", nil)
	manager.progressItem.Disabled = true

	manager.cycleItem = fyne.NewMenuItem("Start a cycle", func() {
		call(manager.callbacks.OnToggleCycle)
	})
	manager.completeItem = fyne.NewMenuItem("Challenge completed", func() {
		call(manager.callbacks.OnComplete)
	})
	manager.completeItem.Disabled = true
	manager.failItem = fyne.NewMenuItem("Challenge failed", func() {
		call(manager.callbacks.OnFail)
	})
	manager.failItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetProgress updates the level line.
func (manager *Manager) SetProgress(level, experience, threshold int) {
	manager.progressItem.Label = fmt.Sprintf("Level %d (%d/%d xp)", level, experience, threshold)
	manager.refreshMenu()
}

// SetRunning updates the cycle menu item.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	if running {
		manager.cycleItem.Label = "Abandon cycle"
	} else {
		manager.cycleItem.Label = "Start a cycle"
	}
	manager.refreshMenu()
}

// SetChallenge toggles challenge-related menu items.
func (manager *Manager) SetChallenge(active bool) {
	manager.challenge = active
	manager.completeItem.Disabled = !active
	manager.failItem.Disabled = !active
	manager.cycleItem.Disabled = active
	manager.refreshMenu()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu("MoveIt",
		manager.statusItem,
		manager.progressItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open MoveIt", func() {
			call(manager.callbacks.OnOpen)
		}),
		manager.cycleItem,
		manager.completeItem,
		manager.failItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			call(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItem("Quit", func() {
			call(manager.callbacks.OnQuit)
		}),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
