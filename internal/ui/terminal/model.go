package terminal

import (
	"fmt"
	"strings"

	"moveit/internal/app"
	"moveit/internal/core/challenges"
	"moveit/internal/core/countdown"
	"moveit/internal/core/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	levelStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	timerStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	runningStyle   = timerStyle.BorderForeground(lipgloss.Color("214"))
	finishedStyle  = timerStyle.BorderForeground(lipgloss.Color("82"))
	cardStyle      = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	rewardStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	levelUpStyle   = lipgloss.NewStyle().Bold(true).Padding(1, 4).Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("99")).Foreground(lipgloss.Color("99"))
	permissionText = map[model.Permission]string{
		model.PermissionGranted: "notifications on",
		model.PermissionDenied:  "notifications off",
		model.PermissionDefault: "notifications pending",
	}
)

type keyMap struct {
	Cycle    key.Binding
	Complete key.Binding
	Fail     key.Binding
	Dismiss  key.Binding
	Quit     key.Binding
}

func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Cycle, keys.Complete, keys.Fail, keys.Dismiss, keys.Quit}
}

func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{keys.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Cycle:    key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "start/abandon cycle")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
		Fail:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "failed")),
		Dismiss:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type trackerMsg challenges.Event

type countdownMsg countdown.Event

type streamClosedMsg struct{}

// Model is the bubbletea model of the terminal frontend.
type Model struct {
	session         *app.Session
	trackerEvents   <-chan challenges.Event
	countdownEvents <-chan countdown.Event
	tracker         challenges.Snapshot
	timer           countdown.Snapshot
	levelUpModal    bool
	experience      progress.Model
	cycle           progress.Model
	keys            keyMap
	help            help.Model
	quitting        bool
}

// New creates a Model bound to session. levelUpModal controls the level-up banner.
func New(session *app.Session, levelUpModal bool) Model {
	experience := progress.New(progress.WithDefaultGradient())
	experience.Width = 40
	cycle := progress.New(progress.WithSolidFill("214"))
	cycle.Width = 40
	cycle.ShowPercentage = false

	return Model{
		session:         session,
		trackerEvents:   session.Tracker.Subscribe(16),
		countdownEvents: session.Countdown.Subscribe(16),
		tracker:         session.Tracker.Snapshot(),
		timer:           session.Countdown.Snapshot(),
		levelUpModal:    levelUpModal,
		experience:      experience,
		cycle:           cycle,
		keys:            defaultKeyMap(),
		help:            help.New(),
	}
}

// Init starts listening for session events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitTracker(m.trackerEvents), waitCountdown(m.countdownEvents))
}

// Update handles key presses and session events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > 60 {
			width = 60
		}
		if width < 10 {
			width = 10
		}
		m.experience.Width = width
		m.cycle.Width = width
		m.help.Width = msg.Width
		return m, nil

	case trackerMsg:
		m.tracker = msg.Snapshot
		if m.tracker.LevelUpModalOpen && !m.levelUpModal {
			m.session.CloseLevelUp()
		}
		return m, waitTracker(m.trackerEvents)

	case countdownMsg:
		m.timer = msg.Snapshot
		return m, waitCountdown(m.countdownEvents)

	case streamClosedMsg:
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dismiss):
			m.session.CloseLevelUp()
		case key.Matches(msg, m.keys.Cycle):
			if m.session.Countdown.Snapshot().IsActive {
				m.session.AbandonCycle()
			} else {
				m.session.StartCountdown()
			}
		case key.Matches(msg, m.keys.Complete):
			m.session.CompleteChallenge()
		case key.Matches(msg, m.keys.Fail):
			m.session.FailChallenge()
		}
		m.tracker = m.session.Tracker.Snapshot()
		m.timer = m.session.Countdown.Snapshot()
		return m, nil
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("MoveIt"))
	b.WriteString(mutedStyle.Render("  " + permissionText[m.tracker.Permission]))
	b.WriteString("\n\n")

	b.WriteString(levelStyle.Render(fmt.Sprintf("Level %d", m.tracker.Level)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d challenges completed", m.tracker.ChallengesCompleted)))
	b.WriteString("\n")
	b.WriteString(m.experience.ViewAs(experienceRatio(m.tracker)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d xp", m.tracker.CurrentExperience, m.tracker.ExperienceToNextLevel)))
	b.WriteString("\n\n")

	b.WriteString(m.timerView())
	b.WriteString("\n")
	b.WriteString(m.cycle.ViewAs(m.timer.Progress))
	b.WriteString("\n\n")

	b.WriteString(m.challengeView())
	b.WriteString("\n")

	if m.tracker.LevelUpModalOpen && m.levelUpModal {
		b.WriteString(levelUpStyle.Render(fmt.Sprintf("Level up! You reached level %d", m.tracker.Level)))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) timerView() string {
	clock := fmt.Sprintf("%02d:%02d", m.timer.Minutes, m.timer.Seconds)
	switch m.timer.State {
	case countdown.StateRunning:
		return runningStyle.Render(clock)
	case countdown.StateFinished:
		return finishedStyle.Render(clock + "  cycle finished")
	default:
		return timerStyle.Render(clock)
	}
}

func (m Model) challengeView() string {
	active := m.tracker.Active
	if active == nil {
		return cardStyle.Render(mutedStyle.Render("Finish a cycle to receive a challenge"))
	}
	heading := "Move your body"
	if active.Challenge.Type == model.ChallengeEye {
		heading = "Rest your eyes"
	}
	return cardStyle.Render(
		rewardStyle.Render(fmt.Sprintf("Earn %d xp", active.Challenge.Amount)) + "\n" +
			heading + "\n\n" +
			active.Challenge.Description,
	)
}

func experienceRatio(snapshot challenges.Snapshot) float64 {
	if snapshot.ExperienceToNextLevel <= 0 {
		return 0
	}
	ratio := float64(snapshot.CurrentExperience) / float64(snapshot.ExperienceToNextLevel)
	if ratio > 1 {
		return 1
	}
	return ratio
}

func waitTracker(events <-chan challenges.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return trackerMsg(event)
	}
}

func waitCountdown(events <-chan countdown.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return countdownMsg(event)
	}
}
