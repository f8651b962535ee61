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

func newConversation(m *testutils.FakeMessenger, session *domain.Session, upd domain.Update) *flow.Conversation {
	return flow.NewConversation(session, upd, m, flow.WithKeyboard(flow.NewKeyboard(m, flow.WithDelay(0))))
}

func TestMenu_EnterRendersOptions(t *testing.T) {
	m := testutils.NewFakeMessenger()
	session := domain.NewSession()
	conv := newConversation(m, session, domain.Update{ChatID: 1})

	menu := flow.NewMenu("Menu", []flow.MenuOption{
		{Label: "Greet", To: "greet"},
		{Label: "Music", To: "music"},
	})

	accepted, err := menu.Enter(context.Background(), conv)
	require.NoError(t, err)
	assert.True(t, accepted)

	msg, ok := m.LastSent()
	require.True(t, ok)
	assert.Equal(t, "Menu:", msg.Text)
	assert.Equal(t, []string{"Greet", "Music"}, msg.Keyboard[0])
}

func TestMenu_DefaultTitle(t *testing.T) {
	m := testutils.NewFakeMessenger()
	conv := newConversation(m, domain.NewSession(), domain.Update{ChatID: 1})

	menu := flow.NewMenu("", []flow.MenuOption{{Label: "Go", To: "go"}})
	_, err := menu.Enter(context.Background(), conv)
	require.NoError(t, err)

	msg, _ := m.LastSent()
	assert.Equal(t, "Menu:", msg.Text)
}

func TestMenu_TitleFunc(t *testing.T) {
	m := testutils.NewFakeMessenger()
	session := domain.NewSession()
	session.Descend("root")
	session.Save("room", "kitchen")
	conv := newConversation(m, session, domain.Update{ChatID: 1})

	menu := flow.NewMenu("Lights", []flow.MenuOption{{Label: "On", To: "on"}},
		flow.WithTitleFunc(func(data map[string]any) string {
			return "Lights in " + data["room"].(string)
		}))

	_, err := menu.Enter(context.Background(), conv)
	require.NoError(t, err)

	msg, _ := m.LastSent()
	assert.Equal(t, "Lights in kitchen:", msg.Text)
}

func TestMenu_LeaveReturnsTarget(t *testing.T) {
	m := testutils.NewFakeMessenger()
	conv := newConversation(m, domain.NewSession(), domain.Update{ChatID: 1, Kind: domain.KindCallback, Text: "Music"})

	menu := flow.NewMenu("Menu", []flow.MenuOption{
		{Label: "Greet", To: "greet"},
		{Label: "Music", To: "music"},
	})

	next, err := menu.Leave(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, domain.State("music"), next)
}

func TestMenu_LeaveUnrecognizedStays(t *testing.T) {
	m := testutils.NewFakeMessenger()
	session := domain.NewSession()
	session.Descend("root")
	before := session.Clone()
	conv := newConversation(m, session, domain.Update{ChatID: 1, Kind: domain.KindMessage, Text: "bogus"})

	menu := flow.NewMenu("Menu", []flow.MenuOption{{Label: "Greet", To: "greet"}})

	next, err := menu.Leave(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, domain.State(""), next, "unknown input stays in place")

	texts := m.Texts()
	require.Len(t, texts, 1)
	assert.Equal(t, flow.UnrecognizedReply, texts[0])

	// The navigation stack is never mutated by a failed lookup.
	assert.Equal(t, before.Breadcrumb, session.Breadcrumb)
	assert.Equal(t, len(before.Frames), len(session.Frames))
}
