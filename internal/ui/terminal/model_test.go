package terminal

import (
	"testing"
	"time"

	"moveit/internal/app"
	"moveit/internal/core/challenges"
	"moveit/internal/core/countdown"
	"moveit/internal/core/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, levelUpModal bool) (Model, *app.Session, *countdown.ManualClock) {
	t.Helper()
	clock := countdown.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	session := app.New(app.Config{
		Countdown: model.CountdownConfig{Duration: 2 * time.Second},
		Catalog: challenges.Catalog{
			{Type: model.ChallengeEye, Description: "Look out of the window", Amount: 64},
		},
		Clock: clock,
		Intn:  func(int) int { return 0 },
	})
	t.Cleanup(session.Close)
	return New(session, levelUpModal), session, clock
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestStartAndAbandonCycle(t *testing.T) {
	m, session, _ := newTestModel(t, true)

	m = press(t, m, "s")
	assert.Equal(t, countdown.StateRunning, session.Countdown.Snapshot().State)
	assert.Equal(t, countdown.StateRunning, m.timer.State)

	m = press(t, m, "s")
	assert.Equal(t, countdown.StateIdle, m.timer.State)
}

func TestCompleteFlowShowsLevelUp(t *testing.T) {
	m, session, clock := newTestModel(t, true)

	m = press(t, m, "s")
	clock.Advance(2 * time.Second)
	m = press(t, m, "x")
	require.NotNil(t, m.tracker.Active)
	assert.Contains(t, m.View(), "Look out of the window")
	assert.Contains(t, m.View(), "Earn 64 xp")

	m = press(t, m, "c")
	assert.Nil(t, m.tracker.Active)
	assert.Equal(t, 2, m.tracker.Level)
	assert.Equal(t, countdown.StateIdle, m.timer.State)
	assert.Contains(t, m.View(), "Level up!")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.False(t, session.Tracker.Snapshot().LevelUpModalOpen)
	assert.NotContains(t, m.View(), "Level up!")
}

func TestFailDropsChallenge(t *testing.T) {
	m, _, clock := newTestModel(t, true)

	m = press(t, m, "s")
	clock.Advance(2 * time.Second)
	m = press(t, m, "f")

	assert.Nil(t, m.tracker.Active)
	assert.Zero(t, m.tracker.CurrentExperience)
	assert.Contains(t, m.View(), "Finish a cycle")
}

func TestTrackerEventsUpdateModel(t *testing.T) {
	m, session, _ := newTestModel(t, false)

	session.Tracker.LevelUp()
	msg := waitTracker(m.trackerEvents)()
	updated, cmd := m.Update(msg)
	m = updated.(Model)

	assert.NotNil(t, cmd)
	assert.Equal(t, 2, m.tracker.Level)
	assert.False(t, session.Tracker.Snapshot().LevelUpModalOpen, "banner disabled closes the modal")
}

func TestCountdownEventsUpdateModel(t *testing.T) {
	m, session, clock := newTestModel(t, true)

	session.StartCountdown()
	<-m.countdownEvents
	clock.Advance(time.Second)

	updated, _ := m.Update(waitCountdown(m.countdownEvents)())
	m = updated.(Model)
	assert.Equal(t, 1, m.timer.Remaining)
	assert.Equal(t, 0.5, m.timer.Progress)
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, updated.View())
}

func TestClosedStreamStopsWaiting(t *testing.T) {
	m, session, _ := newTestModel(t, true)
	session.Close()

	assert.Equal(t, streamClosedMsg{}, waitTracker(m.trackerEvents)())
	assert.Equal(t, streamClosedMsg{}, waitCountdown(m.countdownEvents)())
}

func TestExperienceRatio(t *testing.T) {
	assert.Equal(t, 0.5, experienceRatio(challenges.Snapshot{CurrentExperience: 32, ExperienceToNextLevel: 64}))
	assert.Equal(t, 1.0, experienceRatio(challenges.Snapshot{CurrentExperience: 300, ExperienceToNextLevel: 144}))
	assert.Zero(t, experienceRatio(challenges.Snapshot{}))
}
