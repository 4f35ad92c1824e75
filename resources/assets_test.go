package resources

import (
	"testing"

	"moveit/internal/core/challenges"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledCatalogIsValid(t *testing.T) {
	catalog, err := challenges.ParseCatalog(ChallengesJSON())
	require.NoError(t, err)
	assert.NotEmpty(t, catalog)
}

func TestLogoIsCached(t *testing.T) {
	first, err := Logo("moveit.svg")
	require.NoError(t, err)
	second := MustLogo("moveit.svg")
	assert.Same(t, first, second)

	_, err = Logo("missing.svg")
	assert.Error(t, err)
}

func TestSound(t *testing.T) {
	data, err := Sound(NotificationSound)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
}
