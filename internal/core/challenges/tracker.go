package challenges

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"moveit/internal/core/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier raises a user-visible system notification.
type Notifier interface {
	Show(title, body string) error
}

// PermissionRequester asks the platform whether notifications may be shown.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) (model.Permission, error)
}

// SoundPlayer plays the short notification cue.
type SoundPlayer interface {
	Play() error
}

// Options contains collaborators for the Tracker. Nil collaborators are skipped.
type Options struct {
	Catalog  Catalog
	Store    Store
	Notifier Notifier
	Sound    SoundPlayer
	Logger   *zap.Logger

	// Intn overrides the random source used to draw challenges.
	Intn func(n int) int
	Now  func() time.Time
}

// Tracker owns level, experience and the active challenge.
type Tracker struct {
	mu                  sync.Mutex
	options             Options
	logger              *zap.Logger
	level               int
	currentExperience   int
	challengesCompleted int
	active              *Draw
	levelUpModalOpen    bool
	permission          model.Permission
	permissionRequested bool
	saved               Progress
	events              []chan Event
}

// New creates a Tracker starting from the provided progress.
func New(initial Progress, options Options) *Tracker {
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Intn == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		options.Intn = rng.Intn
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if initial.Level < 1 {
		initial.Level = 1
	}
	if initial.CurrentExperience < 0 {
		initial.CurrentExperience = 0
	}
	if initial.ChallengesCompleted < 0 {
		initial.ChallengesCompleted = 0
	}

	return &Tracker{
		options:             options,
		logger:              options.Logger.Named("challenges"),
		level:               initial.Level,
		currentExperience:   initial.CurrentExperience,
		challengesCompleted: initial.ChallengesCompleted,
		permission:          model.PermissionDefault,
		saved:               initial,
	}
}

// NewFromStore creates a Tracker seeded from options.Store.
func NewFromStore(options Options) *Tracker {
	return New(LoadProgress(options.Store), options)
}

// Subscribe registers a new observer channel.
func (tracker *Tracker) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	tracker.mu.Lock()
	tracker.events = append(tracker.events, ch)
	tracker.mu.Unlock()
	return ch
}

// Close closes all observer channels.
func (tracker *Tracker) Close() {
	tracker.mu.Lock()
	events := tracker.events
	tracker.events = nil
	tracker.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns the current state.
func (tracker *Tracker) Snapshot() Snapshot {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.snapshotLocked()
}

// Permission returns the resolved notification permission.
func (tracker *Tracker) Permission() model.Permission {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.permission
}

// ResolvePermission queries the requester once and stores the answer.
// Later calls return the stored answer. A failed query resolves to denied.
func (tracker *Tracker) ResolvePermission(ctx context.Context, requester PermissionRequester) model.Permission {
	tracker.mu.Lock()
	if tracker.permissionRequested || requester == nil {
		permission := tracker.permission
		tracker.mu.Unlock()
		return permission
	}
	tracker.permissionRequested = true
	tracker.mu.Unlock()

	permission, err := requester.RequestPermission(ctx)
	if err != nil {
		tracker.logger.Debug("notification permission request failed", zap.Error(err))
		permission = model.PermissionDenied
	}

	tracker.mu.Lock()
	tracker.permission = permission
	tracker.emitLocked(EventPermission)
	tracker.mu.Unlock()

	tracker.logger.Info("notification permission resolved", zap.String("permission", string(permission)))
	return permission
}

// LevelUp increments the level and opens the level-up modal.
func (tracker *Tracker) LevelUp() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.levelUpLocked()
	tracker.persistLocked()
}

// CloseLevelUpModal hides the level-up modal.
func (tracker *Tracker) CloseLevelUpModal() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if !tracker.levelUpModalOpen {
		return
	}
	tracker.levelUpModalOpen = false
	tracker.emitLocked(EventLevelUpClosed)
}

// StartNewChallenge draws a random challenge and makes it active.
// When notifications are granted the sound cue plays and a notification is shown.
func (tracker *Tracker) StartNewChallenge() {
	tracker.mu.Lock()
	catalog := tracker.options.Catalog
	if len(catalog) == 0 {
		tracker.mu.Unlock()
		tracker.logger.Warn("cannot start challenge", zap.Error(ErrEmptyCatalog))
		return
	}

	draw := &Draw{
		ID:        uuid.New(),
		Challenge: catalog[tracker.options.Intn(len(catalog))],
		StartedAt: tracker.options.Now(),
	}
	tracker.active = draw
	tracker.emitLocked(EventChallengeStarted)
	permission := tracker.permission
	tracker.mu.Unlock()

	tracker.logger.Info("challenge started",
		zap.Stringer("draw", draw.ID),
		zap.String("type", string(draw.Challenge.Type)),
		zap.Int("amount", draw.Challenge.Amount),
	)

	if permission != model.PermissionGranted {
		return
	}
	tracker.announce(draw.Challenge)
}

// ResetChallenge drops the active challenge without reward.
func (tracker *Tracker) ResetChallenge() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if tracker.active == nil {
		return
	}
	tracker.active = nil
	tracker.emitLocked(EventChallengeReset)
}

// CompleteChallenge awards the active challenge reward.
// At most one level-up happens per completion, even if the remainder
// still exceeds the next threshold.
func (tracker *Tracker) CompleteChallenge() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if tracker.active == nil {
		return
	}

	finalExperience := tracker.currentExperience + tracker.active.Challenge.Amount
	threshold := model.ExperienceToNextLevel(tracker.level)
	leveledUp := finalExperience >= threshold
	if leveledUp {
		finalExperience -= threshold
	}

	tracker.currentExperience = finalExperience
	tracker.active = nil
	tracker.challengesCompleted++
	if leveledUp {
		tracker.levelUpLocked()
	}
	tracker.emitLocked(EventChallengeCompleted)
	tracker.persistLocked()
}

func (tracker *Tracker) levelUpLocked() {
	tracker.level++
	tracker.levelUpModalOpen = true
	tracker.emitLocked(EventLevelUp)
}

func (tracker *Tracker) announce(challenge model.Challenge) {
	if tracker.options.Sound != nil {
		if err := tracker.options.Sound.Play(); err != nil {
			tracker.logger.Debug("play notification sound", zap.Error(err))
		}
	}
	if tracker.options.Notifier != nil {
		body := fmt.Sprintf("New challenge worth %dxp!", challenge.Amount)
		if err := tracker.options.Notifier.Show("New challenge 🎉", body); err != nil {
			tracker.logger.Debug("show notification", zap.Error(err))
		}
	}
}

// persistLocked mirrors changed progress fields into the store.
func (tracker *Tracker) persistLocked() {
	store := tracker.options.Store
	if store == nil {
		return
	}
	current := Progress{
		Level:               tracker.level,
		CurrentExperience:   tracker.currentExperience,
		ChallengesCompleted: tracker.challengesCompleted,
	}
	previous := tracker.saved.entries()
	for index, entry := range current.entries() {
		if entry == previous[index] {
			continue
		}
		if err := store.Set(entry[0], entry[1]); err != nil {
			tracker.logger.Warn("persist progress", zap.String("key", entry[0]), zap.Error(err))
		}
	}
	tracker.saved = current
}

func (tracker *Tracker) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Level:                 tracker.level,
		CurrentExperience:     tracker.currentExperience,
		ExperienceToNextLevel: model.ExperienceToNextLevel(tracker.level),
		ChallengesCompleted:   tracker.challengesCompleted,
		LevelUpModalOpen:      tracker.levelUpModalOpen,
		Permission:            tracker.permission,
	}
	if tracker.active != nil {
		draw := *tracker.active
		snapshot.Active = &draw
	}
	return snapshot
}

func (tracker *Tracker) emitLocked(eventType EventType) {
	event := Event{
		Type:     eventType,
		Snapshot: tracker.snapshotLocked(),
		At:       tracker.options.Now(),
	}
	for _, ch := range tracker.events {
		select {
		case ch <- event:
		default:
		}
	}
}
