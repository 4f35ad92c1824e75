package app

import (
	"context"
	"sync"
	"time"

	"moveit/internal/core/challenges"
	"moveit/internal/core/countdown"
	"moveit/internal/core/model"

	"go.uber.org/zap"
)

// Config contains the collaborators of a Session.
type Config struct {
	Countdown  model.CountdownConfig
	Catalog    challenges.Catalog
	Store      challenges.Store
	Notifier   challenges.Notifier
	Sound      challenges.SoundPlayer
	Permission challenges.PermissionRequester
	Clock      countdown.Clock
	Logger     *zap.Logger
	Intn       func(n int) int
}

// Session ties the progress tracker to the countdown for one user.
type Session struct {
	Tracker   *challenges.Tracker
	Countdown *countdown.Countdown

	permission challenges.PermissionRequester
	logger     *zap.Logger
	startOnce  sync.Once
	closeOnce  sync.Once
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New builds a Session. Progress is seeded from config.Store.
func New(config Config) *Session {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	var now func() time.Time
	if config.Clock != nil {
		now = config.Clock.Now
	}

	tracker := challenges.NewFromStore(challenges.Options{
		Catalog:  config.Catalog,
		Store:    config.Store,
		Notifier: config.Notifier,
		Sound:    config.Sound,
		Logger:   config.Logger,
		Intn:     config.Intn,
		Now:      now,
	})
	timer := countdown.New(config.Countdown, countdown.Config{
		Clock:    config.Clock,
		Logger:   config.Logger,
		OnFinish: tracker.StartNewChallenge,
	})

	return &Session{
		Tracker:    tracker,
		Countdown:  timer,
		permission: config.Permission,
		logger:     config.Logger.Named("session"),
	}
}

// Start requests the notification permission in the background.
// Operations never wait for the answer.
func (session *Session) Start(ctx context.Context) {
	session.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		session.cancel = cancel
		session.wg.Add(1)
		go func() {
			defer session.wg.Done()
			session.Tracker.ResolvePermission(runCtx, session.permission)
		}()
	})
}

// StartCountdown begins a new focus cycle.
func (session *Session) StartCountdown() {
	session.Countdown.Start()
}

// AbandonCycle stops the running cycle and restores the full duration.
func (session *Session) AbandonCycle() {
	session.Countdown.Reset()
}

// CompleteChallenge awards the active challenge and readies the next cycle.
func (session *Session) CompleteChallenge() {
	if session.Tracker.Snapshot().Active == nil {
		return
	}
	session.Tracker.CompleteChallenge()
	session.Countdown.Reset()
}

// FailChallenge drops the active challenge and readies the next cycle.
func (session *Session) FailChallenge() {
	if session.Tracker.Snapshot().Active == nil {
		return
	}
	session.Tracker.ResetChallenge()
	session.Countdown.Reset()
}

// CloseLevelUp dismisses the level-up modal.
func (session *Session) CloseLevelUp() {
	session.Tracker.CloseLevelUpModal()
}

// SetCountdownDuration changes the cycle length.
func (session *Session) SetCountdownDuration(duration time.Duration) {
	session.Countdown.SetDuration(duration)
	session.logger.Info("countdown duration updated", zap.Duration("duration", duration))
}

// Close stops timers and background work and closes observer channels.
func (session *Session) Close() {
	session.closeOnce.Do(func() {
		if session.cancel != nil {
			session.cancel()
		}
		session.wg.Wait()
		session.Countdown.Stop()
		session.Tracker.Close()
	})
}
