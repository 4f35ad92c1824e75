package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	minutes       *widget.Entry
	seconds       *widget.Entry
	notifications *widget.Check
	sound         *widget.Check
	levelUpModal  *widget.Check
	launchAtLogin *widget.Check
	errorLabel    *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("MoveIt Settings")

	minutes := widget.NewEntry()
	seconds := widget.NewEntry()
	notifications := widget.NewCheck("Show a notification for new challenges", nil)
	sound := widget.NewCheck("Play a sound for new challenges", nil)
	levelUpModal := widget.NewCheck("Celebrate level ups", nil)
	launchAtLogin := widget.NewCheck("Launch at login", nil)
	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Cycle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Challenge every"), minutes, widget.NewLabel("min"), seconds, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Announcements", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		notifications,
		sound,
		levelUpModal,
		widget.NewLabelWithStyle("System", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		launchAtLogin,
		errorLabel,
	)

	saveButton := widget.NewButton("Save", nil)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 360))

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		minutes:       minutes,
		seconds:       seconds,
		notifications: notifications,
		sound:         sound,
		levelUpModal:  levelUpModal,
		launchAtLogin: launchAtLogin,
		errorLabel:    errorLabel,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	total := int(settings.CountdownDuration / time.Second)
	prefs.minutes.SetText(strconv.Itoa(total / 60))
	prefs.seconds.SetText(strconv.Itoa(total % 60))
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.sound.SetChecked(settings.Sound)
	prefs.levelUpModal.SetChecked(settings.LevelUpModal)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
	prefs.errorLabel.Hide()
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err != nil {
		prefs.errorLabel.SetText(err.Error())
		prefs.errorLabel.Show()
		return
	}

	prefs.settings = settings
	prefs.errorLabel.Hide()
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() (Settings, error) {
	settings := prefs.settings

	minutes, ok := parseNonNegativeInt(prefs.minutes.Text)
	if !ok {
		return settings, fmt.Errorf("minutes must be a whole number")
	}
	seconds, ok := parseNonNegativeInt(prefs.seconds.Text)
	if !ok || seconds > 59 {
		return settings, fmt.Errorf("seconds must be between 0 and 59")
	}

	settings.CountdownDuration = time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	settings.Notifications = prefs.notifications.Checked
	settings.Sound = prefs.sound.Checked
	settings.LevelUpModal = prefs.levelUpModal.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	if err := settings.Validate(); err != nil {
		return prefs.settings, fmt.Errorf("challenge interval must be between 1 second and 24 hours")
	}
	return settings, nil
}

func parseNonNegativeInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
