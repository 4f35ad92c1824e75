package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuReflectsState(t *testing.T) {
	var toggled, completed int
	manager := New(nil, Callbacks{
		OnToggleCycle: func() { toggled++ },
		OnComplete:    func() { completed++ },
	})

	manager.SetStatus("next challenge in 24:59")
	manager.SetProgress(2, 30, 144)
	manager.SetRunning(true)

	menu := manager.Menu()
	require.Len(t, menu.Items, 10)
	assert.Equal(t, "Status: next challenge in 24:59", menu.Items[0].Label)
	assert.Equal(t, "Level 2 (30/144 xp)", menu.Items[1].Label)
	assert.Equal(t, "Abandon cycle", menu.Items[4].Label)
	assert.True(t, menu.Items[5].Disabled)

	menu.Items[4].Action()
	assert.Equal(t, 1, toggled)

	manager.SetChallenge(true)
	assert.False(t, manager.completeItem.Disabled)
	assert.True(t, manager.cycleItem.Disabled)
	manager.Menu().Items[5].Action()
	assert.Equal(t, 1, completed)

	manager.Menu().Items[6].Action()
	manager.Menu().Items[9].Action()
}
