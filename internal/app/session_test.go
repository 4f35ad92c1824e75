package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"moveit/internal/core/challenges"
	"moveit/internal/core/countdown"
	"moveit/internal/core/model"
	"moveit/internal/notify"
	"moveit/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

var sessionCatalog = challenges.Catalog{
	{Type: model.ChallengeEye, Description: "Look outside", Amount: 10},
}

type recordingNotifier struct {
	mu     sync.Mutex
	bodies []string
}

func (notifier *recordingNotifier) Show(_, body string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.bodies = append(notifier.bodies, body)
	return nil
}

func (notifier *recordingNotifier) count() int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return len(notifier.bodies)
}

func newTestSession(t *testing.T, store challenges.Store, notifier challenges.Notifier, gate *notify.Gate) (*Session, *countdown.ManualClock) {
	t.Helper()
	clock := countdown.NewManualClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	config := Config{
		Countdown: model.CountdownConfig{Duration: 3 * time.Second, TickInterval: time.Second},
		Catalog:   sessionCatalog,
		Store:     store,
		Notifier:  notifier,
		Clock:     clock,
		Logger:    zaptest.NewLogger(t),
		Intn:      func(int) int { return 0 },
	}
	if gate != nil {
		config.Permission = gate
	}
	session := New(config)
	t.Cleanup(session.Close)
	return session, clock
}

func TestCountdownExpiryStartsOneChallenge(t *testing.T) {
	notifier := &recordingNotifier{}
	session, clock := newTestSession(t, nil, notifier, nil)
	events := session.Tracker.Subscribe(8)

	session.StartCountdown()
	clock.Advance(3 * time.Second)

	require.NotNil(t, session.Tracker.Snapshot().Active)
	assert.True(t, session.Countdown.Snapshot().HasFinished)
	assert.Equal(t, challenges.EventChallengeStarted, (<-events).Type)
	assert.Len(t, events, 0)

	clock.Advance(time.Minute)
	assert.Len(t, events, 0)
	assert.Zero(t, notifier.count(), "permission never resolved")
}

func TestCompleteChallengeResetsCycle(t *testing.T) {
	session, clock := newTestSession(t, nil, nil, nil)

	session.StartCountdown()
	clock.Advance(3 * time.Second)
	session.CompleteChallenge()

	tracker := session.Tracker.Snapshot()
	timer := session.Countdown.Snapshot()
	assert.Nil(t, tracker.Active)
	assert.Equal(t, 10, tracker.CurrentExperience)
	assert.Equal(t, 1, tracker.ChallengesCompleted)
	assert.Equal(t, countdown.StateIdle, timer.State)
	assert.Equal(t, 3, timer.Remaining)
}

func TestFailChallengeResetsCycle(t *testing.T) {
	session, clock := newTestSession(t, nil, nil, nil)

	session.StartCountdown()
	clock.Advance(3 * time.Second)
	session.FailChallenge()

	assert.Nil(t, session.Tracker.Snapshot().Active)
	assert.Zero(t, session.Tracker.Snapshot().CurrentExperience)
	assert.Equal(t, countdown.StateIdle, session.Countdown.Snapshot().State)
}

func TestCompleteWithoutChallengeKeepsCountdown(t *testing.T) {
	session, clock := newTestSession(t, nil, nil, nil)

	session.StartCountdown()
	clock.Advance(time.Second)
	session.CompleteChallenge()
	session.FailChallenge()

	assert.Equal(t, countdown.StateRunning, session.Countdown.Snapshot().State)
	assert.Equal(t, 2, session.Countdown.Snapshot().Remaining)
}

func TestAbandonCycle(t *testing.T) {
	session, clock := newTestSession(t, nil, nil, nil)

	session.StartCountdown()
	clock.Advance(2 * time.Second)
	session.AbandonCycle()
	clock.Advance(10 * time.Second)

	assert.Equal(t, 3, session.Countdown.Snapshot().Remaining)
	assert.Nil(t, session.Tracker.Snapshot().Active)
}

func TestGrantedPermissionAnnouncesChallenge(t *testing.T) {
	notifier := &recordingNotifier{}
	session, clock := newTestSession(t, nil, notifier, notify.NewGate(true))
	events := session.Tracker.Subscribe(4)

	session.Start(context.Background())
	require.Equal(t, challenges.EventPermission, (<-events).Type)

	session.StartCountdown()
	clock.Advance(3 * time.Second)

	assert.Equal(t, 1, notifier.count())
}

func TestNotificationsEnabledAfterStartAreShown(t *testing.T) {
	notifier := &recordingNotifier{}
	gate := notify.NewGate(false)
	session, clock := newTestSession(t, nil, gate.Filter(notifier), gate)
	events := session.Tracker.Subscribe(4)

	session.Start(context.Background())
	require.Equal(t, challenges.EventPermission, (<-events).Type)
	assert.Equal(t, model.PermissionGranted, session.Tracker.Permission())

	session.StartCountdown()
	clock.Advance(3 * time.Second)
	assert.Zero(t, notifier.count())

	session.FailChallenge()
	gate.SetEnabled(true)
	session.StartCountdown()
	clock.Advance(3 * time.Second)
	assert.Equal(t, 1, notifier.count())
}

func TestProgressSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.yaml")
	store, err := storage.OpenProgressStore(path)
	require.NoError(t, err)

	first, clock := newTestSession(t, store, nil, nil)
	for range 7 {
		first.StartCountdown()
		clock.Advance(3 * time.Second)
		first.CompleteChallenge()
	}
	require.Equal(t, 2, first.Tracker.Snapshot().Level)
	first.Close()

	reopened, err := storage.OpenProgressStore(path)
	require.NoError(t, err)
	second, _ := newTestSession(t, reopened, nil, nil)

	snapshot := second.Tracker.Snapshot()
	assert.Equal(t, 2, snapshot.Level)
	assert.Equal(t, 6, snapshot.CurrentExperience)
	assert.Equal(t, 7, snapshot.ChallengesCompleted)
}

func TestCloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := New(Config{
		Countdown:  model.CountdownConfig{Duration: time.Minute},
		Catalog:    sessionCatalog,
		Permission: notify.NewGate(false),
	})
	session.Start(context.Background())
	session.StartCountdown()

	session.Close()
	session.Close()
	assert.False(t, session.Countdown.Snapshot().IsActive)
}
