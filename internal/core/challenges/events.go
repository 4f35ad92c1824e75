package challenges

import (
	"time"

	"moveit/internal/core/model"

	"github.com/google/uuid"
)

// EventType defines the type of Tracker event.
type EventType string

const (
	EventChallengeStarted   EventType = "challenge_started"
	EventChallengeReset     EventType = "challenge_reset"
	EventChallengeCompleted EventType = "challenge_completed"
	EventLevelUp            EventType = "level_up"
	EventLevelUpClosed      EventType = "level_up_closed"
	EventPermission         EventType = "permission"
)

// Draw is a challenge picked from the catalog.
type Draw struct {
	ID        uuid.UUID
	Challenge model.Challenge
	StartedAt time.Time
}

// Snapshot is a read-only copy of the tracker state.
type Snapshot struct {
	Level                 int
	CurrentExperience     int
	ExperienceToNextLevel int
	ChallengesCompleted   int
	Active                *Draw
	LevelUpModalOpen      bool
	Permission            model.Permission
}

// Event represents a Tracker update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}
