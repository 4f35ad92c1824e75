package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	settings := DefaultSettings()
	assert.NoError(t, settings.Validate())
	assert.Equal(t, 25*time.Minute, settings.CountdownConfig().Duration)
	assert.Equal(t, time.Second, settings.CountdownConfig().TickInterval)
}

func TestValidateRejectsOutOfRangeCountdown(t *testing.T) {
	settings := DefaultSettings()

	settings.CountdownDuration = 500 * time.Millisecond
	assert.Error(t, settings.Validate())

	settings.CountdownDuration = 25 * time.Hour
	assert.Error(t, settings.Validate())

	settings.CountdownDuration = 3 * time.Second
	assert.NoError(t, settings.Validate())
}
