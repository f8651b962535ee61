package drilldown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/drilldown/internal/logging"
	"github.com/aretw0/drilldown/internal/runtime"
	"github.com/aretw0/drilldown/pkg/adapters/memory"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/flow"
	"github.com/aretw0/drilldown/pkg/ports"
	"github.com/aretw0/drilldown/pkg/session"
)

// Version is the library version, reported by the CLI.
const Version = "0.2.0"

// Operator commands consumed by HandleUpdate. The transport strips the
// leading slash before normalizing them into domain.Update.Command.
const (
	CmdStart   = "start"
	CmdDebug   = "debug"
	CmdBack    = "back"
	CmdRestart = "restart"
)

// Replies sent by the operator command layer.
const (
	DebugReply   = "Entering debug mode."
	RestartReply = "Restarting..."
)

// Verdict tells the host's dispatch loop what happened to an update.
type Verdict int

const (
	// Continue means the update was not consumed; the host may route it
	// to its own handlers.
	Continue Verdict = iota

	// Handled means the update was fully processed.
	Handled

	// Rejected means the update failed the allow-list check and must go
	// no further.
	Rejected
)

// Bot is the high-level entry point for the drilldown library. It wires the
// navigation controller, the session manager and the messaging transport
// into a single per-update handler the host's delivery loop calls.
type Bot struct {
	controller *runtime.Controller
	sessions   *session.Manager
	messenger  ports.Messenger

	home       domain.State
	debugState domain.State
	debugData  map[string]any

	allowed map[int64]struct{}

	store         ports.SessionStore
	locker        ports.DistributedLocker
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	keyboardDelay time.Duration

	restarts chan struct{}
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithStore injects a session store (default: in-memory).
func WithStore(store ports.SessionStore) Option {
	return func(b *Bot) {
		b.store = store
	}
}

// WithLocker enables distributed session locking for multi-replica
// deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(b *Bot) {
		b.locker = locker
	}
}

// WithLogger sets a structured logger for the bot and its controller.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks, invoked by the
// controller on state entry, state departure and faults.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithAllowedIDs restricts the bot to the given user ids. Updates from
// anyone else are rejected before any session is touched.
func WithAllowedIDs(ids []int64) Option {
	return func(b *Bot) {
		b.allowed = make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			b.allowed[id] = struct{}{}
		}
	}
}

// WithDebug configures the /debug command: the state it jumps to and the
// data it seeds into the session. Without it /debug starts at the root with
// no seed data.
func WithDebug(state domain.State, data map[string]any) Option {
	return func(b *Bot) {
		b.debugState = state
		b.debugData = data
	}
}

// WithKeyboardDelay overrides the keyboard replace debounce. Tests use 0.
func WithKeyboardDelay(d time.Duration) Option {
	return func(b *Bot) {
		b.keyboardDelay = d
	}
}

// New creates a bot over the given transport, root state and navigation
// graph. The graph is supplied wholesale and never mutated afterwards.
func New(messenger ports.Messenger, home domain.State, graph flow.Graph, opts ...Option) (*Bot, error) {
	if messenger == nil {
		return nil, fmt.Errorf("messenger is required")
	}
	if _, ok := graph[home]; !ok {
		return nil, fmt.Errorf("root state %q has no transition in the graph", home)
	}
	for state := range graph {
		if state.IsSentinel() {
			return nil, fmt.Errorf("sentinel state %q cannot be bound to a transition", state)
		}
	}

	b := &Bot{
		messenger:     messenger,
		home:          home,
		debugState:    home,
		logger:        logging.NewNop(),
		keyboardDelay: flow.DefaultKeyboardDelay,
		restarts:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.store == nil {
		b.store = memory.NewStore()
	}
	managerOpts := []session.Option{session.WithLogger(b.logger)}
	if b.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(b.locker))
	}
	b.sessions = session.NewManager(b.store, managerOpts...)

	b.controller = runtime.NewController(home, graph,
		runtime.WithLogger(b.logger),
		runtime.WithLifecycleHooks(b.hooks),
	)
	return b, nil
}

// Restarts signals that a user requested a process restart. The host owns
// the actual restart: drain the update source, then replace the process.
func (b *Bot) Restarts() <-chan struct{} {
	return b.restarts
}

// Sessions exposes the session manager, e.g. for an operational surface.
func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}

// HandleUpdate processes one inbound update end to end: allow-list check,
// session load, command or input resolution, and session persistence.
//
// The session is persisted only after fault-free handling, so a transition
// fault can never leave a partial stack mutation behind. A returned error is
// always a transport fault; the host decides retry/drop policy.
func (b *Bot) HandleUpdate(ctx context.Context, update domain.Update) (Verdict, error) {
	if len(b.allowed) > 0 {
		if _, ok := b.allowed[update.UserID]; !ok {
			b.logger.Warn("blocked update from user not in allow-list",
				"user_id", update.UserID,
				"chat_id", update.ChatID,
			)
			return Rejected, nil
		}
	}

	key := sessionKey(update)
	var verdict Verdict
	err := b.sessions.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		verdict, err = b.handleLocked(ctx, key, update)
		return err
	})
	return verdict, err
}

// handleLocked runs with the session lock held. All store access goes
// through the raw store: the manager's own helpers would re-lock.
func (b *Bot) handleLocked(ctx context.Context, key string, update domain.Update) (Verdict, error) {
	sess, err := b.loadOrCreate(ctx, key)
	if err != nil {
		return Handled, err
	}

	conv := flow.NewConversation(sess, update, b.messenger,
		flow.WithKeyboard(flow.NewKeyboard(b.messenger, flow.WithDelay(b.keyboardDelay))),
		flow.WithLogger(b.logger),
	)
	if err := conv.Acknowledge(ctx); err != nil {
		return Handled, err
	}

	verdict, result, err := b.dispatch(ctx, conv, update)
	if err != nil {
		return verdict, err
	}
	if result.Faulted {
		// The fault was logged and replied to; the mutated in-memory
		// session is discarded by not persisting it.
		return verdict, nil
	}
	if result.Terminated {
		return verdict, b.store.Delete(ctx, key)
	}
	return verdict, b.store.Save(ctx, key, sess)
}

// dispatch routes one update to the controller.
func (b *Bot) dispatch(ctx context.Context, conv *flow.Conversation, update domain.Update) (Verdict, runtime.Result, error) {
	switch update.Kind {
	case domain.KindCommand:
		return b.dispatchCommand(ctx, conv, update)

	case domain.KindCallback:
		// Navigation shortcuts arrive as keyboard selections.
		switch update.Text {
		case flow.HomeLabel:
			b.logger.Debug("received home shortcut", "user_id", update.UserID)
			result, err := b.controller.Goto(ctx, conv, domain.Home)
			return Handled, result, err
		case flow.BackLabel:
			b.logger.Debug("received back shortcut", "user_id", update.UserID)
			result, err := b.controller.Goto(ctx, conv, domain.Back)
			return Handled, result, err
		}
		result, err := b.controller.HandleInput(ctx, conv)
		return Handled, result, err

	default:
		result, err := b.controller.HandleInput(ctx, conv)
		return Handled, result, err
	}
}

func (b *Bot) dispatchCommand(ctx context.Context, conv *flow.Conversation, update domain.Update) (Verdict, runtime.Result, error) {
	switch update.Command {
	case CmdStart:
		b.logger.Info("received /start",
			"user_name", update.UserName,
			"user_id", update.UserID,
		)
		conv.Reset()
		result, err := b.controller.Goto(ctx, conv, b.home)
		return Handled, result, err

	case CmdDebug:
		b.logger.Info("received /debug",
			"user_name", update.UserName,
			"user_id", update.UserID,
			"debug_state", string(b.debugState),
		)
		conv.Reset()
		conv.EnableDebug(b.debugData)
		if err := conv.Reply(ctx, DebugReply); err != nil {
			return Handled, runtime.Result{}, err
		}
		result, err := b.controller.Goto(ctx, conv, b.debugState)
		return Handled, result, err

	case CmdBack:
		b.logger.Debug("received /back", "user_id", update.UserID)
		result, err := b.controller.Goto(ctx, conv, domain.Back)
		return Handled, result, err

	case CmdRestart:
		b.logger.Info("received /restart",
			"user_name", update.UserName,
			"user_id", update.UserID,
		)
		// Reply first, then signal: the restart must not race the reply
		// out of existence.
		if err := conv.Reply(ctx, RestartReply); err != nil {
			return Handled, runtime.Result{}, err
		}
		select {
		case b.restarts <- struct{}{}:
		default:
		}
		return Handled, runtime.Result{}, nil
	}

	// Unknown command: leave it to the host's own handlers.
	return Continue, runtime.Result{}, nil
}

func (b *Bot) loadOrCreate(ctx context.Context, key string) (*domain.Session, error) {
	sess, err := b.store.Load(ctx, key)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return domain.NewSession(), nil
}

// sessionKey derives the store key for an update. Conversations are scoped
// per chat, matching the transport's notion of a dialog.
func sessionKey(update domain.Update) string {
	return strconv.FormatInt(update.ChatID, 10)
}
