package flow

import (
	"context"
	"log/slog"

	"github.com/aretw0/drilldown/internal/logging"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/ports"
)

// Conversation is the per-update context handed to transitions. It bundles
// the session, the inbound update, the transport and the keyboard renderer
// into the single handle a transition author needs: read the aggregated
// data, save data, reply, render options, and inspect the input.
type Conversation struct {
	session   *domain.Session
	update    domain.Update
	messenger ports.Messenger
	keyboard  *Keyboard
	logger    *slog.Logger
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithKeyboard injects a shared keyboard renderer. Without it the
// conversation builds one with defaults.
func WithKeyboard(k *Keyboard) ConversationOption {
	return func(c *Conversation) {
		c.keyboard = k
	}
}

// WithLogger configures a logger for the conversation.
func WithLogger(logger *slog.Logger) ConversationOption {
	return func(c *Conversation) {
		c.logger = logger
	}
}

// NewConversation binds a session and one inbound update to the transport.
func NewConversation(session *domain.Session, update domain.Update, messenger ports.Messenger, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		session:   session,
		update:    update,
		messenger: messenger,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.keyboard == nil {
		c.keyboard = NewKeyboard(messenger)
	}
	return c
}

// Session exposes the underlying navigation stack.
func (c *Conversation) Session() *domain.Session {
	return c.session
}

// Update returns the inbound update being processed.
func (c *Conversation) Update() domain.Update {
	return c.update
}

// Input returns the user's message text, or the selected option's payload
// when the update is a keyboard selection.
func (c *Conversation) Input() string {
	return c.update.Text
}

// Data returns the aggregated read-only view transitions consume: built-in
// context values first (user identity, message timestamp), then debug data
// when debug mode is on, then every stack frame with later frames overriding
// earlier keys.
func (c *Conversation) Data() map[string]any {
	base := map[string]any{
		"user_id":   c.update.UserID,
		"user_name": c.update.UserName,
		"date":      c.update.Time,
	}
	return c.session.Aggregate(base)
}

// SaveData writes a value into the current state's frame. The data persists
// while descending below this state and is discarded when ascending above it.
func (c *Conversation) SaveData(key string, value any) {
	c.session.Save(key, value)
}

// Reply sends a plain message to the user and marks the keyboard stale.
// Empty text is a no-op.
func (c *Conversation) Reply(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if _, err := c.messenger.SendMessage(ctx, c.update.ChatID, text, nil); err != nil {
		return err
	}
	c.keyboard.MarkStale(c.session)
	return nil
}

// RenderOptions shows the live keyboard with the given title and options.
func (c *Conversation) RenderOptions(ctx context.Context, title string, options []string) error {
	return c.keyboard.Render(ctx, c.session, c.update.ChatID, title, options)
}

// Acknowledge completes the inbound update at the transport level. Must be
// invoked once per update before it is interpreted.
func (c *Conversation) Acknowledge(ctx context.Context) error {
	return c.keyboard.Acknowledge(ctx, c.session, c.update)
}

// IsDebug reports whether the session is in debug mode.
func (c *Conversation) IsDebug() bool {
	return c.session.DebugMode
}

// EnableDebug switches the session into debug mode, injecting data into the
// aggregated view.
func (c *Conversation) EnableDebug(data map[string]any) {
	c.session.EnableDebug(data)
}

// Reset clears all conversation state, keeping the session identity.
func (c *Conversation) Reset() {
	*c.session = *domain.NewSession()
}

// Logger returns the conversation's logger for custom transitions.
func (c *Conversation) Logger() *slog.Logger {
	return c.logger
}
