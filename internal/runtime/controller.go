// Package runtime implements the navigation controller: the state machine
// that resolves forward/back/home requests against a session's breadcrumb by
// driving the transition protocol.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/drilldown/internal/logging"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/flow"
)

// GenericFaultReply is sent to the user when a transition fails outside
// debug mode.
const GenericFaultReply = "Unexpected error! See logs for details."

// Result reports how one navigation resolution ended.
type Result struct {
	// Terminated is set when a transition returned the End sentinel: the
	// conversation flow is over and the host should discard the session.
	Terminated bool

	// Faulted is set when a transition failed. The session must not be
	// persisted: the in-memory stack may hold a partial mutation.
	Faulted bool
}

// Controller resolves navigation requests by invoking the transition
// protocol against the session's navigation stack.
type Controller struct {
	graph  flow.Graph
	home   domain.State
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// NewController creates a controller over the given graph with the
// configured root state.
func NewController(home domain.State, graph flow.Graph, opts ...Option) *Controller {
	c := &Controller{
		graph:  graph,
		home:   home,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Home returns the configured root state.
func (c *Controller) Home() domain.State {
	return c.home
}

// Goto resolves a navigation request to target, which may be a sentinel.
//
// Home clears the stack and retargets the root. Back requires an ascendable
// stack (otherwise the request is a silent no-op) and pairs the ascend with
// the re-descend below, so the exposed state always regains a fresh frame.
// The target's Enter decides whether the move commits; a rejection refreshes
// the current state's prompt instead.
func (c *Controller) Goto(ctx context.Context, conv *flow.Conversation, target domain.State) (Result, error) {
	if target == "" {
		return Result{}, nil
	}
	session := conv.Session()

	switch target {
	case domain.End:
		return Result{Terminated: true}, nil
	case domain.Home:
		session.AscendAll()
		target = c.home
	case domain.Back:
		if !session.CanAscend() {
			return Result{}, nil
		}
		exposed, err := session.Ascend()
		if err != nil {
			return Result{Faulted: true}, c.fault(ctx, conv, target, "enter", err)
		}
		target = exposed
	}

	transition, ok := c.graph[target]
	if !ok {
		return Result{Faulted: true}, c.fault(ctx, conv, target, "enter", fmt.Errorf("no transition bound to state %q", target))
	}

	accepted, err := c.enter(ctx, transition, conv)
	if err != nil {
		return Result{Faulted: true}, c.fault(ctx, conv, target, "enter", err)
	}

	if !accepted {
		// Rejected move: refresh the current state's prompt, wherever the
		// stack points now. No further stack mutation.
		current, ok := session.CurrentState()
		if !ok {
			return Result{}, nil
		}
		refresh, ok := c.graph[current]
		if !ok {
			return Result{Faulted: true}, c.fault(ctx, conv, current, "enter", fmt.Errorf("no transition bound to state %q", current))
		}
		if _, err := c.enter(ctx, refresh, conv); err != nil {
			return Result{Faulted: true}, c.fault(ctx, conv, current, "enter", err)
		}
		return Result{}, nil
	}

	session.Descend(target)
	c.emitState(ctx, c.hooks.OnStateEnter, domain.EventStateEnter, conv, target)
	return Result{}, nil
}

// HandleInput interprets plain user input against the current state's
// transition. A returned state becomes a new navigation request; no return
// means the conversation stays put.
func (c *Controller) HandleInput(ctx context.Context, conv *flow.Conversation) (Result, error) {
	session := conv.Session()
	current, ok := session.CurrentState()
	if !ok {
		// No active conversation; nothing to interpret.
		return Result{}, nil
	}

	transition, ok := c.graph[current]
	if !ok {
		return Result{Faulted: true}, c.fault(ctx, conv, current, "leave", fmt.Errorf("no transition bound to state %q", current))
	}

	next, err := c.leave(ctx, transition, conv)
	if err != nil {
		return Result{Faulted: true}, c.fault(ctx, conv, current, "leave", err)
	}
	if next == "" {
		return Result{}, nil
	}

	c.emitState(ctx, c.hooks.OnStateLeave, domain.EventStateLeave, conv, current)
	return c.Goto(ctx, conv, next)
}

// enter invokes a transition's Enter, converting panics into faults so a
// misbehaving transition can't take the process down.
func (c *Controller) enter(ctx context.Context, t flow.Transition, conv *flow.Conversation) (accepted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transition panic: %v", r)
		}
	}()
	return t.Enter(ctx, conv)
}

// leave invokes a transition's Leave with the same panic conversion.
func (c *Controller) leave(ctx context.Context, t flow.Transition, conv *flow.Conversation) (next domain.State, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transition panic: %v", r)
		}
	}()
	return t.Leave(ctx, conv)
}

// fault handles a transition failure: log with full detail, emit the hook,
// and send the taxonomy reply (full detail only in debug mode). The returned
// error is non-nil only when the reply itself could not be delivered; that
// transport fault propagates to the host.
func (c *Controller) fault(ctx context.Context, conv *flow.Conversation, state domain.State, phase string, cause error) error {
	c.logger.Error("transition fault",
		"state", string(state),
		"phase", phase,
		"user_id", conv.Update().UserID,
		"err", cause,
	)
	if c.hooks.OnFault != nil {
		c.hooks.OnFault(ctx, &domain.FaultEvent{
			Timestamp: time.Now(),
			State:     state,
			Phase:     phase,
			UserID:    conv.Update().UserID,
			Err:       cause,
		})
	}

	reply := GenericFaultReply
	if conv.IsDebug() {
		reply = fmt.Sprintf("Unexpected error!: %v", cause)
	}
	return conv.Reply(ctx, reply)
}

func (c *Controller) emitState(ctx context.Context, hook func(context.Context, *domain.StateEvent), kind domain.EventType, conv *flow.Conversation, state domain.State) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StateEvent{
		Timestamp: time.Now(),
		Type:      kind,
		State:     state,
		Depth:     conv.Session().Depth(),
		UserID:    conv.Update().UserID,
	})
}
