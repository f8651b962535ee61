package flow

import (
	"context"

	"github.com/aretw0/drilldown/pkg/domain"
)

// NoOp is a non-transition: a terminal action reachable from menus that is
// never actually entered. Enter computes and sends a reply, then rejects the
// move, bouncing the conversation back to where it was.
type NoOp struct {
	reply func(data map[string]any) string
}

// NewNoOp creates a no-op transition with the given reply function.
func NewNoOp(reply func(data map[string]any) string) *NoOp {
	return &NoOp{reply: reply}
}

// Enter sends the computed reply and rejects the move.
func (n *NoOp) Enter(ctx context.Context, conv *Conversation) (bool, error) {
	if err := conv.Reply(ctx, n.reply(conv.Data())); err != nil {
		return false, err
	}
	return false, nil
}

// Leave is unreachable: the state is never entered.
func (n *NoOp) Leave(ctx context.Context, conv *Conversation) (domain.State, error) {
	return "", nil
}
