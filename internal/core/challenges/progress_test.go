package challenges

import (
	"testing"

	"moveit/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProgressDefaults(t *testing.T) {
	assert.Equal(t, Progress{Level: 1}, LoadProgress(nil))
	assert.Equal(t, Progress{Level: 1}, LoadProgress(newMemoryStore()))
}

func TestLoadProgressFromStore(t *testing.T) {
	store := newMemoryStore()
	store.values = map[string]string{
		KeyLevel:               "4",
		KeyCurrentExperience:   "12",
		KeyChallengesCompleted: "30",
	}

	assert.Equal(t, Progress{Level: 4, CurrentExperience: 12, ChallengesCompleted: 30}, LoadProgress(store))
}

func TestLoadProgressFallsBackPerField(t *testing.T) {
	store := newMemoryStore()
	store.values = map[string]string{
		KeyLevel:               "0",
		KeyCurrentExperience:   "not-a-number",
		KeyChallengesCompleted: "7",
	}

	assert.Equal(t, Progress{Level: 1, CurrentExperience: 0, ChallengesCompleted: 7}, LoadProgress(store))
}

func TestNewFromStore(t *testing.T) {
	store := newMemoryStore()
	store.values[KeyLevel] = "3"

	tracker := NewFromStore(Options{Store: store})

	snapshot := tracker.Snapshot()
	assert.Equal(t, 3, snapshot.Level)
	assert.Equal(t, 256, snapshot.ExperienceToNextLevel)
}

func TestParseCatalog(t *testing.T) {
	catalog, err := ParseCatalog([]byte(`[
		{"type": "body", "description": "Stretch", "amount": 60},
		{"type": "eye", "description": "Blink", "amount": 50}
	]`))
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, model.ChallengeEye, catalog[1].Type)
	assert.Equal(t, 50, catalog[1].Amount)
}

func TestParseCatalogRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty":        `[]`,
		"bad json":     `{`,
		"unknown type": `[{"type": "mind", "description": "x", "amount": 1}]`,
		"zero amount":  `[{"type": "eye", "description": "x", "amount": 0}]`,
		"no text":      `[{"type": "eye", "description": "", "amount": 3}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(raw))
			assert.Error(t, err)
		})
	}
	_, err := ParseCatalog([]byte(`[]`))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}
