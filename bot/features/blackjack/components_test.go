package blackjack

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAllButtonsDisabled(t *testing.T, components []discordgo.MessageComponent) {
	t.Helper()
	require.NotEmpty(t, components, "a finished session still shows its buttons")
	for _, comp := range components {
		row, ok := comp.(*discordgo.ActionsRow)
		require.True(t, ok, "expected an actions row, got %T", comp)
		for _, inner := range row.Components {
			btn, ok := inner.(discordgo.Button)
			require.True(t, ok, "expected a button, got %T", inner)
			assert.True(t, btn.Disabled, "button %q must be disabled", btn.Label)
		}
	}
}

func TestStoppedSessionComponentsDisabled(t *testing.T) {
	sess, _ := newTestSession(t, 100000)

	_, err := sess.SelectStake(100)
	require.NoError(t, err)
	dealInPlay(t, sess)
	_, err = sess.Stick(context.Background())
	require.NoError(t, err)

	view, err := sess.Stop()
	require.NoError(t, err)

	assertAllButtonsDisabled(t, buildComponents(42, view))
}

func TestExpiredLobbyComponentsDisabled(t *testing.T) {
	sess, _ := newTestSession(t, 100000)
	sess.now = func() time.Time { return time.Now().Add(2 * idleTimeout) }

	view, expired := sess.expireIfIdle()
	require.True(t, expired)

	assertAllButtonsDisabled(t, buildComponents(42, view))
}

func TestLiveSessionComponentsStayEnabled(t *testing.T) {
	sess, _ := newTestSession(t, 100000)

	_, err := sess.SelectStake(100)
	require.NoError(t, err)
	dealInPlay(t, sess)
	_, err = sess.Stick(context.Background())
	require.NoError(t, err)

	components := buildComponents(42, sess.View())
	require.Len(t, components, 1)
	row, ok := components[0].(*discordgo.ActionsRow)
	require.True(t, ok)
	for _, inner := range row.Components {
		btn, ok := inner.(discordgo.Button)
		require.True(t, ok)
		assert.False(t, btn.Disabled, "button %q must stay pressable between hands", btn.Label)
	}
}
