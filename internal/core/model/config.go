package model

import "time"

// ChallengeType classifies a challenge by the part of the body it exercises.
type ChallengeType string

const (
	ChallengeBody ChallengeType = "body"
	ChallengeEye  ChallengeType = "eye"
)

// Challenge is a single catalog entry.
type Challenge struct {
	Type        ChallengeType `json:"type"`
	Description string        `json:"description"`
	Amount      int           `json:"amount"`
}

// Permission is the resolved notification capability.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// CountdownConfig contains runtime settings for the countdown.
type CountdownConfig struct {
	Duration     time.Duration
	TickInterval time.Duration
}

// ExperienceToNextLevel returns the XP threshold for leaving the given level.
func ExperienceToNextLevel(level int) int {
	base := (level + 1) * 4
	return base * base
}
