package challenges

import (
	"strconv"
)

// Store keys. Values are stored as decimal text.
const (
	KeyLevel               = "level"
	KeyCurrentExperience   = "currentExperience"
	KeyChallengesCompleted = "challengesCompleted"
)

// Store is a small durable key-value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Progress is the persisted part of the tracker state.
type Progress struct {
	Level               int
	CurrentExperience   int
	ChallengesCompleted int
}

// DefaultProgress returns the state of a new user.
func DefaultProgress() Progress {
	return Progress{Level: 1}
}

// LoadProgress seeds progress from the store.
// Missing or malformed values fall back to defaults field by field.
func LoadProgress(store Store) Progress {
	progress := DefaultProgress()
	if store == nil {
		return progress
	}
	if level, ok := readInt(store, KeyLevel, 1); ok {
		progress.Level = level
	}
	if experience, ok := readInt(store, KeyCurrentExperience, 0); ok {
		progress.CurrentExperience = experience
	}
	if completed, ok := readInt(store, KeyChallengesCompleted, 0); ok {
		progress.ChallengesCompleted = completed
	}
	return progress
}

func readInt(store Store, key string, minimum int) (int, bool) {
	raw, ok := store.Get(key)
	if !ok {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < minimum {
		return 0, false
	}
	return value, true
}

func (progress Progress) entries() [][2]string {
	return [][2]string{
		{KeyLevel, strconv.Itoa(progress.Level)},
		{KeyCurrentExperience, strconv.Itoa(progress.CurrentExperience)},
		{KeyChallengesCompleted, strconv.Itoa(progress.ChallengesCompleted)},
	}
}
