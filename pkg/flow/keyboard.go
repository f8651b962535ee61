package flow

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/ports"
)

// Navigation shortcut labels, appended as the trailing keyboard row.
const (
	HomeLabel = "🏠"
	BackLabel = "↩"
)

// DefaultKeyboardDelay is the debounce before replacing a stale keyboard.
// Deleting and immediately re-sending causes visible flicker; the short wait
// lets the chat settle first.
const DefaultKeyboardDelay = 500 * time.Millisecond

// defaultRowSize is how many option labels share a keyboard row.
const defaultRowSize = 3

// Keyboard maintains at most one live options message per session. It edits
// the message in place while it is still the most recent thing in the chat,
// and replaces it (debounced) once something else was sent below it.
type Keyboard struct {
	messenger ports.Messenger
	delay     time.Duration
	rowSize   int
	navRow    []string
}

// KeyboardOption configures the Keyboard.
type KeyboardOption func(*Keyboard)

// WithDelay overrides the debounce delay. Tests use 0.
func WithDelay(d time.Duration) KeyboardOption {
	return func(k *Keyboard) {
		k.delay = d
	}
}

// WithRowSize overrides how many options are grouped per row.
func WithRowSize(n int) KeyboardOption {
	return func(k *Keyboard) {
		if n > 0 {
			k.rowSize = n
		}
	}
}

// NewKeyboard creates a renderer on top of the given transport.
func NewKeyboard(messenger ports.Messenger, opts ...KeyboardOption) *Keyboard {
	k := &Keyboard{
		messenger: messenger,
		delay:     DefaultKeyboardDelay,
		rowSize:   defaultRowSize,
		navRow:    []string{HomeLabel, BackLabel},
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Render shows title and options as the live keyboard for the session.
//
// A stale keyboard (something was sent after it) is deleted after the
// debounce delay and a fresh message is sent. A live keyboard is edited in
// place; an edit that changes nothing is treated as success.
func (k *Keyboard) Render(ctx context.Context, session *domain.Session, chatID int64, title string, options []string) error {
	text := title + ":"
	grid := grouper(options, k.rowSize)
	grid = append(grid, append([]string(nil), k.navRow...))

	// Remove stale keyboard
	if session.KeyboardID != 0 && session.KeyboardStale {
		time.Sleep(k.delay)
		if err := k.messenger.DeleteMessage(ctx, chatID, session.KeyboardID); err != nil {
			return err
		}
		session.KeyboardID = 0
	}

	// Send
	if session.KeyboardID == 0 {
		id, err := k.messenger.SendMessage(ctx, chatID, text, grid)
		if err != nil {
			return err
		}
		session.KeyboardID = id
		session.KeyboardStale = false
		return nil
	}

	// Edit
	if err := k.messenger.EditMessage(ctx, chatID, session.KeyboardID, text, grid); err != nil {
		if errors.Is(err, domain.ErrContentUnchanged) {
			return nil
		}
		return err
	}
	return nil
}

// MarkStale records that something was sent below the keyboard, pushing it
// out of visual context. The next Render replaces it instead of editing.
func (k *Keyboard) MarkStale(session *domain.Session) {
	session.KeyboardStale = true
}

// Acknowledge completes an inbound update at the keyboard level. Selections
// on the live keyboard are acknowledged at the transport (clearing the
// loading indicator); anything else marks the keyboard stale. Call once per
// inbound update.
func (k *Keyboard) Acknowledge(ctx context.Context, session *domain.Session, update domain.Update) error {
	if update.Kind == domain.KindCallback {
		return k.messenger.Acknowledge(ctx, update.CallbackID)
	}
	session.KeyboardStale = true
	return nil
}

// grouper splits labels into rows with at most size entries each.
func grouper(labels []string, size int) domain.Grid {
	var rows domain.Grid
	var row []string
	for _, label := range labels {
		row = append(row, label)
		if len(row) >= size {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}
