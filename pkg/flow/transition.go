package flow

import (
	"context"

	"github.com/aretw0/drilldown/pkg/domain"
)

// Transition defines the behavior bound to a navigation state.
//
// Enter is invoked whenever navigation targets the state. Returning false
// rejects the move: the conversation stays where it was and the previous
// state's prompt is refreshed. Returning true commits it.
//
// Leave is invoked when input arrives while the state is active. Returning a
// non-empty State requests navigation there (sentinels included); returning
// "" means stay.
type Transition interface {
	Enter(ctx context.Context, conv *Conversation) (bool, error)
	Leave(ctx context.Context, conv *Conversation) (domain.State, error)
}

// Graph binds states to their transitions. It is supplied wholesale at
// startup and never mutated afterwards.
type Graph map[domain.State]Transition

// Func adapts plain functions into a Transition, for custom behaviors that
// don't warrant a named type. A nil EnterFunc accepts the move without side
// effects; a nil LeaveFunc always stays.
type Func struct {
	EnterFunc func(ctx context.Context, conv *Conversation) (bool, error)
	LeaveFunc func(ctx context.Context, conv *Conversation) (domain.State, error)
}

func (f Func) Enter(ctx context.Context, conv *Conversation) (bool, error) {
	if f.EnterFunc == nil {
		return true, nil
	}
	return f.EnterFunc(ctx, conv)
}

func (f Func) Leave(ctx context.Context, conv *Conversation) (domain.State, error) {
	if f.LeaveFunc == nil {
		return "", nil
	}
	return f.LeaveFunc(ctx, conv)
}
