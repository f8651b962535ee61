package ports

import (
	"context"

	"github.com/aretw0/drilldown/pkg/domain"
)

// Messenger is the messaging transport consumed by the engine. The engine
// never manages the transport's connection lifecycle; it only sends.
type Messenger interface {
	// SendMessage delivers text to a chat, optionally with an options
	// keyboard (nil for a plain message). Returns the new message id.
	SendMessage(ctx context.Context, chatID int64, text string, keyboard domain.Grid) (int, error)

	// EditMessage replaces the text and keyboard of an existing message.
	// Returns domain.ErrContentUnchanged when the content is identical to
	// what the message already shows.
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Grid) error

	// DeleteMessage removes a previously sent message.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// Acknowledge completes an option-selection event at the transport
	// level, suppressing any loading indicator shown to the user.
	Acknowledge(ctx context.Context, callbackID string) error
}
