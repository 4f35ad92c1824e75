package dashboard

import (
	"fmt"
	"image/color"
	"sync"

	"moveit/internal/app"
	"moveit/internal/core/challenges"
	"moveit/internal/core/countdown"
	"moveit/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Config defines dashboard behaviour.
type Config struct {
	LevelUpModal bool
}

// Window shows progress, the countdown and the active challenge.
type Window struct {
	mu      sync.Mutex
	window  fyne.Window
	session *app.Session
	config  Config

	levelLabel     *canvas.Text
	experienceBar  *widget.ProgressBar
	completedLabel *widget.Label
	timerLabel     *canvas.Text
	cycleButton    *widget.Button
	challengeCard  *widget.Card
	emptyHint      *widget.Label
	description    *widget.Label
	failButton     *widget.Button
	completeButton *widget.Button
	actions        *fyne.Container
	levelUpDialog  dialog.Dialog

	tracker challenges.Snapshot
	timer   countdown.Snapshot
}

// New creates the dashboard window for session.
func New(fyneApp fyne.App, session *app.Session, config Config) *Window {
	window := fyneApp.NewWindow("MoveIt")
	if fyneApp.Icon() != nil {
		window.SetIcon(fyneApp.Icon())
	}

	levelLabel := canvas.NewText("Level 1", color.NRGBA{R: 89, G: 101, B: 224, A: 255})
	levelLabel.TextStyle = fyne.TextStyle{Bold: true}
	levelLabel.TextSize = 20

	experienceBar := widget.NewProgressBar()
	completedLabel := widget.NewLabel("")

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 46, G: 56, B: 77, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 56

	emptyHint := widget.NewLabelWithStyle("Finish a cycle to receive a challenge", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	emptyHint.Wrapping = fyne.TextWrapWord

	description := widget.NewLabel("")
	description.Wrapping = fyne.TextWrapWord

	dash := &Window{
		window:         window,
		session:        session,
		config:         config,
		levelLabel:     levelLabel,
		experienceBar:  experienceBar,
		completedLabel: completedLabel,
		timerLabel:     timerLabel,
		emptyHint:      emptyHint,
		description:    description,
	}

	dash.cycleButton = widget.NewButton("Start a cycle", dash.handleCycle)
	dash.failButton = widget.NewButton("Failed", session.FailChallenge)
	dash.failButton.Importance = widget.DangerImportance
	dash.completeButton = widget.NewButton("Completed", session.CompleteChallenge)
	dash.completeButton.Importance = widget.SuccessImportance
	dash.actions = container.NewGridWithColumns(2, dash.failButton, dash.completeButton)

	dash.challengeCard = widget.NewCard("", "", container.NewVBox(emptyHint))

	profile := container.NewVBox(
		levelLabel,
		experienceBar,
		completedLabel,
		layout.NewSpacer(),
		timerLabel,
		dash.cycleButton,
	)
	content := container.NewGridWithColumns(2, container.NewPadded(profile), container.NewPadded(dash.challengeCard))
	window.SetContent(content)
	window.Resize(fyne.NewSize(720, 380))

	dash.tracker = session.Tracker.Snapshot()
	dash.timer = session.Countdown.Snapshot()
	dash.renderUnsafe()

	return dash
}

// Show displays the window.
func (dash *Window) Show() {
	dash.window.Show()
	dash.window.RequestFocus()
}

// Hide hides the window.
func (dash *Window) Hide() {
	dash.window.Hide()
}

// SetCloseIntercept replaces the close button behaviour.
func (dash *Window) SetCloseIntercept(handler func()) {
	dash.window.SetCloseIntercept(handler)
}

// UpdateConfig updates dashboard behaviour.
func (dash *Window) UpdateConfig(config Config) {
	dash.mu.Lock()
	dash.config = config
	dash.mu.Unlock()
}

// Follow renders tracker and countdown events until both streams close.
func (dash *Window) Follow(trackerEvents <-chan challenges.Event, countdownEvents <-chan countdown.Event) {
	go func() {
		for trackerEvents != nil || countdownEvents != nil {
			select {
			case event, ok := <-trackerEvents:
				if !ok {
					trackerEvents = nil
					continue
				}
				dash.SetTracker(event.Snapshot)
			case event, ok := <-countdownEvents:
				if !ok {
					countdownEvents = nil
					continue
				}
				dash.SetCountdown(event.Snapshot)
			}
		}
	}()
}

// SetTracker renders a tracker snapshot.
func (dash *Window) SetTracker(snapshot challenges.Snapshot) {
	dash.mu.Lock()
	dash.tracker = snapshot
	dash.mu.Unlock()
	fyne.Do(dash.renderUnsafe)
}

// SetCountdown renders a countdown snapshot.
func (dash *Window) SetCountdown(snapshot countdown.Snapshot) {
	dash.mu.Lock()
	dash.timer = snapshot
	dash.mu.Unlock()
	fyne.Do(dash.renderUnsafe)
}

func (dash *Window) handleCycle() {
	if dash.session.Countdown.Snapshot().IsActive {
		dash.session.AbandonCycle()
		return
	}
	dash.session.StartCountdown()
}

func (dash *Window) renderUnsafe() {
	dash.mu.Lock()
	tracker := dash.tracker
	timer := dash.timer
	config := dash.config
	dash.mu.Unlock()

	dash.levelLabel.Text = fmt.Sprintf("Level %d", tracker.Level)
	dash.levelLabel.Refresh()
	dash.experienceBar.Max = float64(tracker.ExperienceToNextLevel)
	dash.experienceBar.TextFormatter = func() string {
		return fmt.Sprintf("%d / %d xp", tracker.CurrentExperience, tracker.ExperienceToNextLevel)
	}
	dash.experienceBar.SetValue(float64(tracker.CurrentExperience))
	dash.completedLabel.SetText(fmt.Sprintf("Completed challenges: %d", tracker.ChallengesCompleted))

	dash.timerLabel.Text = formatCountdown(timer)
	dash.timerLabel.Refresh()
	switch timer.State {
	case countdown.StateRunning:
		dash.cycleButton.SetText("Abandon cycle")
		dash.cycleButton.Importance = widget.WarningImportance
		dash.cycleButton.Enable()
	case countdown.StateFinished:
		dash.cycleButton.SetText("Cycle finished")
		dash.cycleButton.Importance = widget.MediumImportance
		dash.cycleButton.Disable()
	default:
		dash.cycleButton.SetText("Start a cycle")
		dash.cycleButton.Importance = widget.HighImportance
		dash.cycleButton.Enable()
	}
	dash.cycleButton.Refresh()

	dash.renderChallengeUnsafe(tracker.Active)
	dash.renderLevelUpUnsafe(tracker, config)
}

func (dash *Window) renderChallengeUnsafe(active *challenges.Draw) {
	if active == nil {
		dash.challengeCard.SetTitle("")
		dash.challengeCard.SetSubTitle("")
		dash.challengeCard.SetContent(container.NewVBox(layout.NewSpacer(), dash.emptyHint, layout.NewSpacer()))
		return
	}

	dash.challengeCard.SetTitle(fmt.Sprintf("Earn %d xp", active.Challenge.Amount))
	dash.challengeCard.SetSubTitle(challengeHeading(active.Challenge.Type))
	dash.description.SetText(active.Challenge.Description)
	dash.challengeCard.SetContent(container.NewBorder(nil, dash.actions, nil, nil, dash.description))
}

func (dash *Window) renderLevelUpUnsafe(tracker challenges.Snapshot, config Config) {
	if !tracker.LevelUpModalOpen {
		if dash.levelUpDialog != nil {
			dash.levelUpDialog.Hide()
			dash.levelUpDialog = nil
		}
		return
	}
	if !config.LevelUpModal {
		dash.closeLevelUpUnsafe()
		return
	}
	if dash.levelUpDialog != nil {
		return
	}

	heading := canvas.NewText(fmt.Sprintf("%d", tracker.Level), color.NRGBA{R: 89, G: 101, B: 224, A: 255})
	heading.Alignment = fyne.TextAlignCenter
	heading.TextStyle = fyne.TextStyle{Bold: true}
	heading.TextSize = 72
	message := widget.NewLabelWithStyle("Congratulations! You reached a new level.", fyne.TextAlignCenter, fyne.TextStyle{})

	levelUp := dialog.NewCustom("Level up", "Close", container.NewVBox(heading, message), dash.window)
	levelUp.SetOnClosed(func() {
		dash.levelUpDialog = nil
		dash.closeLevelUpUnsafe()
	})
	dash.levelUpDialog = levelUp
	levelUp.Show()
}

// closeLevelUpUnsafe marks the modal closed locally before the tracker event
// arrives, so a render in between does not reopen it.
func (dash *Window) closeLevelUpUnsafe() {
	dash.mu.Lock()
	dash.tracker.LevelUpModalOpen = false
	dash.mu.Unlock()
	dash.session.CloseLevelUp()
}

func formatCountdown(snapshot countdown.Snapshot) string {
	return fmt.Sprintf("%02d:%02d", snapshot.Minutes, snapshot.Seconds)
}

func challengeHeading(challengeType model.ChallengeType) string {
	switch challengeType {
	case model.ChallengeBody:
		return "Move your body"
	case model.ChallengeEye:
		return "Rest your eyes"
	default:
		return ""
	}
}
