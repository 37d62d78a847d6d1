package slots

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonsOf(t *testing.T, components []discordgo.MessageComponent) []discordgo.Button {
	t.Helper()
	var buttons []discordgo.Button
	for _, comp := range components {
		row, ok := comp.(*discordgo.ActionsRow)
		require.True(t, ok, "expected an actions row, got %T", comp)
		for _, inner := range row.Components {
			btn, ok := inner.(discordgo.Button)
			require.True(t, ok, "expected a button, got %T", inner)
			buttons = append(buttons, btn)
		}
	}
	return buttons
}

func TestMachineComponentsDisabledWhenFinished(t *testing.T) {
	sess, _ := newTestSession(t, 100, 10000)

	view, err := sess.Stop()
	require.NoError(t, err)
	require.True(t, view.Finished)

	buttons := buttonsOf(t, buildMachineComponents(42, view))
	require.NotEmpty(t, buttons, "a shut-down machine still shows its buttons")
	for _, btn := range buttons {
		assert.True(t, btn.Disabled, "button %q must be disabled", btn.Label)
	}
}

func TestMachineComponentsEnabledWhileRunning(t *testing.T) {
	sess, _ := newTestSession(t, 100, 10000)

	buttons := buttonsOf(t, buildMachineComponents(42, sess.View()))
	require.NotEmpty(t, buttons)
	for _, btn := range buttons {
		assert.False(t, btn.Disabled, "button %q must stay pressable", btn.Label)
	}
}
