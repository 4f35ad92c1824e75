package countdown

import (
	"sync"
	"time"

	"moveit/internal/core/model"

	"go.uber.org/zap"
)

// Config contains runtime options for Countdown.
type Config struct {
	Clock  Clock
	Logger *zap.Logger

	// OnFinish runs once each time the countdown reaches zero.
	OnFinish func()
}

// Countdown is a one-shot timer that re-arms itself every tick while running.
type Countdown struct {
	mu         sync.Mutex
	config     model.CountdownConfig
	options    Config
	logger     *zap.Logger
	initial    int
	remaining  int
	active     bool
	finished   bool
	pending    Timer
	generation uint64
	events     []chan Event
}

// New creates an idle Countdown with the provided configuration.
func New(config model.CountdownConfig, options Config) *Countdown {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = RealClock()
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	countdown := &Countdown{
		config:  config,
		options: options,
		logger:  options.Logger.Named("countdown"),
		initial: wholeSeconds(config.Duration),
	}
	countdown.remaining = countdown.initial
	return countdown
}

// Subscribe registers a new observer channel.
func (countdown *Countdown) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	countdown.mu.Lock()
	countdown.events = append(countdown.events, ch)
	countdown.mu.Unlock()
	return ch
}

// Snapshot returns the current state.
func (countdown *Countdown) Snapshot() Snapshot {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.snapshotLocked()
}

// Start moves an idle countdown to running. It does nothing otherwise.
func (countdown *Countdown) Start() {
	countdown.mu.Lock()
	if countdown.active || countdown.finished {
		countdown.mu.Unlock()
		return
	}
	countdown.active = true
	countdown.emitLocked(EventStateChange)
	countdown.logger.Debug("countdown started", zap.Int("remaining", countdown.remaining))
	finished := countdown.scheduleLocked()
	onFinish := countdown.options.OnFinish
	countdown.mu.Unlock()

	if finished && onFinish != nil {
		onFinish()
	}
}

// Reset cancels any pending tick and restores the initial duration.
func (countdown *Countdown) Reset() {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	countdown.cancelLocked()
	countdown.active = false
	countdown.finished = false
	countdown.remaining = countdown.initial
	countdown.emitLocked(EventStateChange)
}

// Stop cancels the pending tick and closes observers.
func (countdown *Countdown) Stop() {
	countdown.mu.Lock()
	countdown.cancelLocked()
	countdown.active = false
	events := countdown.events
	countdown.events = nil
	countdown.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// SetDuration changes the initial duration. An idle countdown picks it up
// immediately, otherwise it applies on the next Reset.
func (countdown *Countdown) SetDuration(duration time.Duration) {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	countdown.config.Duration = duration
	countdown.initial = wholeSeconds(duration)
	if !countdown.active && !countdown.finished {
		countdown.remaining = countdown.initial
		countdown.emitLocked(EventStateChange)
	}
}

// scheduleLocked arms the next tick, or finishes when no time is left.
// It reports whether the countdown finished.
func (countdown *Countdown) scheduleLocked() bool {
	countdown.cancelLocked()
	if !countdown.active {
		return false
	}
	if countdown.remaining <= 0 {
		countdown.active = false
		countdown.finished = true
		countdown.emitLocked(EventStateChange)
		countdown.logger.Debug("countdown finished")
		return true
	}

	generation := countdown.generation
	countdown.pending = countdown.options.Clock.AfterFunc(countdown.config.TickInterval, func() {
		countdown.tick(generation)
	})
	return false
}

func (countdown *Countdown) tick(generation uint64) {
	countdown.mu.Lock()
	if generation != countdown.generation || !countdown.active {
		countdown.mu.Unlock()
		return
	}
	countdown.pending = nil
	countdown.remaining--
	countdown.emitLocked(EventTick)
	finished := countdown.scheduleLocked()
	onFinish := countdown.options.OnFinish
	countdown.mu.Unlock()

	if finished && onFinish != nil {
		onFinish()
	}
}

// cancelLocked stops the pending tick and invalidates any callback already in flight.
func (countdown *Countdown) cancelLocked() {
	countdown.generation++
	if countdown.pending != nil {
		countdown.pending.Stop()
		countdown.pending = nil
	}
}

func (countdown *Countdown) snapshotLocked() Snapshot {
	state := StateIdle
	switch {
	case countdown.active:
		state = StateRunning
	case countdown.finished:
		state = StateFinished
	}
	return Snapshot{
		State:       state,
		Remaining:   countdown.remaining,
		Minutes:     countdown.remaining / 60,
		Seconds:     countdown.remaining % 60,
		IsActive:    countdown.active,
		HasFinished: countdown.finished,
		Progress:    countdown.progressLocked(),
	}
}

func (countdown *Countdown) progressLocked() float64 {
	if countdown.initial <= 0 {
		return 1
	}
	progress := float64(countdown.initial-countdown.remaining) / float64(countdown.initial)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (countdown *Countdown) emitLocked(eventType EventType) {
	event := Event{
		Type:     eventType,
		Snapshot: countdown.snapshotLocked(),
		At:       countdown.options.Clock.Now(),
	}
	for _, ch := range countdown.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func wholeSeconds(duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	return int(duration / time.Second)
}
