package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventStateEnter EventType = "state_enter"
	EventStateLeave EventType = "state_leave"
	EventFault      EventType = "fault"
)

// StateEvent represents entry into or departure from a state.
type StateEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	State     State     `json:"state"`
	Depth     int       `json:"depth"`
	UserID    int64     `json:"user_id"`
}

// FaultEvent represents a transition failure surfaced by the controller.
type FaultEvent struct {
	Timestamp time.Time `json:"timestamp"`
	State     State     `json:"state"`
	Phase     string    `json:"phase"` // "enter" or "leave"
	UserID    int64     `json:"user_id"`
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for controller observability. Nil hooks
// are skipped.
type LifecycleHooks struct {
	OnStateEnter func(context.Context, *StateEvent)
	OnStateLeave func(context.Context, *StateEvent)
	OnFault      func(context.Context, *FaultEvent)
}
