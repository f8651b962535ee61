package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/drilldown/internal/runtime"
	"github.com/aretw0/drilldown/internal/testutils"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/flow"
)

func declarativeConfig() *Config {
	return &Config{
		Token: "t",
		Root:  "menu",
		States: map[string]map[string]any{
			"menu": {
				"type":  "menu",
				"title": "Menu",
				"options": []map[string]any{
					{"label": "Greet", "to": "greet"},
					{"label": "Volume Up", "to": "volume_up"},
				},
			},
			"greet": {
				"type":    "save",
				"prompt":  "What's your name?",
				"key":     "name",
				"confirm": "Hello, {name}!",
			},
			"volume_up": {
				"type": "reply",
				"text": "Volume has been raised.",
			},
		},
	}
}

func TestBuildGraph(t *testing.T) {
	graph, err := BuildGraph(declarativeConfig())
	require.NoError(t, err)
	require.Len(t, graph, 3)

	assert.IsType(t, &flow.Menu{}, graph["menu"])
	assert.IsType(t, &flow.Save{}, graph["greet"])
	assert.IsType(t, &flow.NoOp{}, graph["volume_up"])
}

func TestBuildGraph_DrivesConversation(t *testing.T) {
	graph, err := BuildGraph(declarativeConfig())
	require.NoError(t, err)

	m := testutils.NewFakeMessenger()
	session := domain.NewSession()
	ctrl := runtime.NewController("menu", graph)
	ctx := context.Background()

	conv := flow.NewConversation(session, domain.Update{UserID: 1, ChatID: 1}, m,
		flow.WithKeyboard(flow.NewKeyboard(m, flow.WithDelay(0))))
	_, err = ctrl.Goto(ctx, conv, "menu")
	require.NoError(t, err)

	msg, ok := m.LastSent()
	require.True(t, ok)
	assert.Equal(t, "Menu:", msg.Text)
	assert.Equal(t, []string{"Greet", "Volume Up"}, msg.Keyboard[0])

	// Walk into the prompt and answer it; the confirm template picks up
	// the saved value.
	conv = flow.NewConversation(session, domain.Update{Kind: domain.KindCallback, Text: "Greet", UserID: 1, ChatID: 1}, m,
		flow.WithKeyboard(flow.NewKeyboard(m, flow.WithDelay(0))))
	_, err = ctrl.HandleInput(ctx, conv)
	require.NoError(t, err)

	conv = flow.NewConversation(session, domain.Update{Kind: domain.KindMessage, Text: "Alice", UserID: 1, ChatID: 1}, m,
		flow.WithKeyboard(flow.NewKeyboard(m, flow.WithDelay(0))))
	_, err = ctrl.HandleInput(ctx, conv)
	require.NoError(t, err)

	assert.Contains(t, m.Texts(), "Hello, Alice!")
	assert.Equal(t, []domain.State{"menu"}, session.Breadcrumb)
}

func TestBuildGraph_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name: "unknown type",
			mutate: func(cfg *Config) {
				cfg.States["menu"]["type"] = "teleport"
			},
			wantErr: `unknown type "teleport"`,
		},
		{
			name: "undeclared target",
			mutate: func(cfg *Config) {
				cfg.States["menu"]["options"] = []map[string]any{
					{"label": "Ghost", "to": "ghost"},
				}
			},
			wantErr: `target "ghost" is not declared`,
		},
		{
			name: "menu without options",
			mutate: func(cfg *Config) {
				delete(cfg.States["menu"], "options")
			},
			wantErr: "menu needs at least one option",
		},
		{
			name: "save without key",
			mutate: func(cfg *Config) {
				delete(cfg.States["greet"], "key")
			},
			wantErr: "save needs a key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := declarativeConfig()
			tt.mutate(cfg)
			_, err := BuildGraph(cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBuildGraph_SentinelTargets(t *testing.T) {
	cfg := declarativeConfig()
	cfg.States["greet"]["next"] = "home"
	graph, err := BuildGraph(cfg)
	require.NoError(t, err)
	require.Contains(t, graph, domain.State("greet"))
}

func TestInterpolate(t *testing.T) {
	data := map[string]any{"name": "Alice", "room": "lab", "count": 3}

	tests := []struct {
		template string
		want     string
	}{
		{"Hello, {name}!", "Hello, Alice!"},
		{"{count} lights in {room}", "3 lights in lab"},
		{"no placeholders", "no placeholders"},
		{"unknown {key} stays", "unknown {key} stays"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpolate(tt.template, data))
	}
}
