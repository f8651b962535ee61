package flow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/drilldown/internal/testutils"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/flow"
)

func newTestKeyboard(m *testutils.FakeMessenger) *flow.Keyboard {
	return flow.NewKeyboard(m, flow.WithDelay(0))
}

func TestKeyboard_SendsFreshMessage(t *testing.T) {
	m := testutils.NewFakeMessenger()
	k := newTestKeyboard(m)
	session := domain.NewSession()
	ctx := context.Background()

	err := k.Render(ctx, session, 1, "Menu", []string{"Greet", "Music"})
	require.NoError(t, err)

	msg, ok := m.LastSent()
	require.True(t, ok)
	assert.Equal(t, "Menu:", msg.Text)
	assert.Equal(t, msg.ID, session.KeyboardID)
	assert.False(t, session.KeyboardStale)

	// Two labels in one row, navigation shortcuts trailing.
	require.Len(t, msg.Keyboard, 2)
	assert.Equal(t, []string{"Greet", "Music"}, msg.Keyboard[0])
	assert.Equal(t, []string{flow.HomeLabel, flow.BackLabel}, msg.Keyboard[1])
}

func TestKeyboard_GroupsOptionsInRowsOfThree(t *testing.T) {
	m := testutils.NewFakeMessenger()
	k := newTestKeyboard(m)
	session := domain.NewSession()

	err := k.Render(context.Background(), session, 1, "Pick", []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	msg, _ := m.LastSent()
	require.Len(t, msg.Keyboard, 3)
	assert.Equal(t, []string{"a", "b", "c"}, msg.Keyboard[0])
	assert.Equal(t, []string{"d"}, msg.Keyboard[1])
	assert.Equal(t, []string{flow.HomeLabel, flow.BackLabel}, msg.Keyboard[2])
}

func TestKeyboard_EditsInPlaceWhileLive(t *testing.T) {
	m := testutils.NewFakeMessenger()
	k := newTestKeyboard(m)
	session := domain.NewSession()
	ctx := context.Background()

	require.NoError(t, k.Render(ctx, session, 1, "Menu", []string{"Greet"}))
	first := session.KeyboardID

	require.NoError(t, k.Render(ctx, session, 1, "Music", []string{"Up", "Down"}))

	assert.Equal(t, first, session.KeyboardID, "live keyboard is edited, not replaced")
	assert.Len(t, m.Sent, 1)
	assert.Empty(t, m.Deleted)

	live, ok := m.Live(first)
	require.True(t, ok)
	assert.Equal(t, "Music:", live.Text)
}

func TestKeyboard_IdenticalRenderIsIdempotent(t *testing.T) {
	m := testutils.NewFakeMessenger()
	k := newTestKeyboard(m)
	session := domain.NewSession()
	ctx := context.Background()

	require.NoError(t, k.Render(ctx, session, 1, "Menu", []string{"Greet"}))
	require.NoError(t, k.Render(ctx, session, 1, "Menu", []string{"Greet"}))

	// The unchanged edit is swallowed: one send, no recorded edits.
	assert.Len(t, m.Sent, 1)
	assert.Empty(t, m.Edits)
	assert.Empty(t, m.Deleted)
}

func TestKeyboard_ReplacesStaleKeyboard(t *testing.T) {
	m := testutils.NewFakeMessenger()
	k := newTestKeyboard(m)
	session := domain.NewSession()
	ctx := context.Background()

	require.NoError(t, k.Render(ctx, session, 1, "Menu", []string{"Greet"}))
	first := session.KeyboardID

	k.MarkStale(session)

	require.NoError(t, k.Render(ctx, session, 1, "Menu", []string{"Greet"}))

	assert.Contains(t, m.Deleted, first, "stale keyboard is deleted")
	assert.NotEqual(t, first, session.KeyboardID)
	assert.False(t, session.KeyboardStale)
	assert.Len(t, m.Sent, 2)
}

func TestKeyboard_PropagatesEditErrors(t *testing.T) {
	m := testutils.NewFakeMessenger()
	k := newTestKeyboard(m)
	session := domain.NewSession()
	ctx := context.Background()

	require.NoError(t, k.Render(ctx, session, 1, "Menu", []string{"Greet"}))

	m.FailEdit = assert.AnError
	err := k.Render(ctx, session, 1, "Other", []string{"Greet"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestKeyboard_AcknowledgeCallback(t *testing.T) {
	m := testutils.NewFakeMessenger()
	k := newTestKeyboard(m)
	session := domain.NewSession()
	session.KeyboardID = 5

	upd := domain.Update{Kind: domain.KindCallback, CallbackID: "cb-1"}
	require.NoError(t, k.Acknowledge(context.Background(), session, upd))

	assert.Equal(t, []string{"cb-1"}, m.Acked)
	assert.False(t, session.KeyboardStale, "selections leave staleness unchanged")
}

func TestKeyboard_AcknowledgeMessageMarksStale(t *testing.T) {
	m := testutils.NewFakeMessenger()
	k := newTestKeyboard(m)
	session := domain.NewSession()
	session.KeyboardID = 5

	upd := domain.Update{Kind: domain.KindMessage, Text: "hello"}
	require.NoError(t, k.Acknowledge(context.Background(), session, upd))

	assert.Empty(t, m.Acked)
	assert.True(t, session.KeyboardStale)
}
