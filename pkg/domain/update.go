package domain

import "time"

// UpdateKind categorizes an inbound update.
type UpdateKind string

const (
	// KindMessage is free text typed by the user.
	KindMessage UpdateKind = "message"

	// KindCommand is an operator command ("/start", "/back", ...).
	KindCommand UpdateKind = "command"

	// KindCallback is a selection on the live options keyboard.
	KindCallback UpdateKind = "callback"
)

// Update is one inbound event from the messaging transport, normalized to the
// shape the engine consumes.
type Update struct {
	ID   int64      `json:"id"`
	Kind UpdateKind `json:"kind"`

	UserID   int64  `json:"user_id"`
	ChatID   int64  `json:"chat_id"`
	UserName string `json:"user_name,omitempty"`

	// Text carries the message text or the selected option's payload.
	Text string `json:"text,omitempty"`

	// Command and Args are set for KindCommand ("start", not "/start").
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	// CallbackID is the transport-level id to acknowledge for KindCallback.
	CallbackID string `json:"callback_id,omitempty"`

	Time time.Time `json:"time"`
}

// Grid is an options keyboard: rows of labels. A label doubles as the
// selection payload the transport delivers back.
type Grid [][]string
