// Package testutils provides shared test doubles for the engine suites.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/drilldown/pkg/domain"
)

// Message is one message the FakeMessenger delivered or currently shows.
type Message struct {
	ID       int
	ChatID   int64
	Text     string
	Keyboard domain.Grid
}

// FakeMessenger implements ports.Messenger in memory, recording every call.
// Edits that change nothing return domain.ErrContentUnchanged, matching the
// transport contract. Safe for concurrent use.
type FakeMessenger struct {
	mu     sync.Mutex
	nextID int

	Sent    []Message // every SendMessage call, in order
	Edits   []Message // every successful EditMessage call
	Deleted []int     // message ids passed to DeleteMessage
	Acked   []string  // callback ids acknowledged

	live map[int]Message // current content by message id

	// Failure injection. When set, the corresponding call returns the error.
	FailSend   error
	FailEdit   error
	FailDelete error
}

// NewFakeMessenger creates an empty recorder.
func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{
		live: make(map[int]Message),
	}
}

func (f *FakeMessenger) SendMessage(ctx context.Context, chatID int64, text string, keyboard domain.Grid) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailSend != nil {
		return 0, f.FailSend
	}
	f.nextID++
	msg := Message{ID: f.nextID, ChatID: chatID, Text: text, Keyboard: keyboard}
	f.Sent = append(f.Sent, msg)
	f.live[msg.ID] = msg
	return msg.ID, nil
}

func (f *FakeMessenger) EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Grid) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailEdit != nil {
		return f.FailEdit
	}
	current, ok := f.live[messageID]
	if !ok {
		return fmt.Errorf("edit of unknown message %d", messageID)
	}
	if current.Text == text && gridEqual(current.Keyboard, keyboard) {
		return domain.ErrContentUnchanged
	}
	current.Text = text
	current.Keyboard = keyboard
	f.live[messageID] = current
	f.Edits = append(f.Edits, current)
	return nil
}

func (f *FakeMessenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailDelete != nil {
		return f.FailDelete
	}
	delete(f.live, messageID)
	f.Deleted = append(f.Deleted, messageID)
	return nil
}

func (f *FakeMessenger) Acknowledge(ctx context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Acked = append(f.Acked, callbackID)
	return nil
}

// LastSent returns the most recent SendMessage call.
func (f *FakeMessenger) LastSent() (Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Sent) == 0 {
		return Message{}, false
	}
	return f.Sent[len(f.Sent)-1], true
}

// Live returns the current content of a message, if it still exists.
func (f *FakeMessenger) Live(messageID int) (Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg, ok := f.live[messageID]
	return msg, ok
}

// Texts returns the text of every sent message, in order.
func (f *FakeMessenger) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.Sent))
	for i, m := range f.Sent {
		out[i] = m.Text
	}
	return out
}

func gridEqual(a, b domain.Grid) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
