package flow

import (
	"context"

	"github.com/aretw0/drilldown/pkg/domain"
)

// Save prompts for a value, parses it, and stores it into the current
// state's frame before moving on. By default the raw text is stored as-is
// and navigation returns Back, handing the collected value to the previous
// level.
type Save struct {
	prompt  string
	key     string
	next    domain.State
	parse   func(text string) (any, error)
	options func(data map[string]any) []string
	confirm func(data map[string]any) string
}

// SaveOpt configures a Save transition.
type SaveOpt func(*Save)

// WithNext overrides the state navigated to after a successful save
// (default Back).
func WithNext(next domain.State) SaveOpt {
	return func(s *Save) {
		s.next = next
	}
}

// WithParser validates and converts the raw input before it is stored.
// Return a domain.ValidationError to reject the input: its message is sent
// to the user and the prompt is retried. Any other error is a transition
// fault.
func WithParser(fn func(text string) (any, error)) SaveOpt {
	return func(s *Save) {
		s.parse = fn
	}
}

// WithSuggestions computes quick-pick options for the prompt keyboard from
// the aggregated data. Typed free text is accepted either way.
func WithSuggestions(fn func(data map[string]any) []string) SaveOpt {
	return func(s *Save) {
		s.options = fn
	}
}

// WithConfirm sends a confirmation computed from the aggregated data (which
// already contains the value just saved).
func WithConfirm(fn func(data map[string]any) string) SaveOpt {
	return func(s *Save) {
		s.confirm = fn
	}
}

// NewSave creates a save transition storing the parsed input under key.
func NewSave(prompt, key string, opts ...SaveOpt) *Save {
	s := &Save{
		prompt: prompt,
		key:    key,
		next:   domain.Back,
		parse: func(text string) (any, error) {
			return text, nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enter renders the prompt with any dynamically computed suggestions. The
// move is always accepted.
func (s *Save) Enter(ctx context.Context, conv *Conversation) (bool, error) {
	var options []string
	if s.options != nil {
		options = s.options(conv.Data())
	}
	if err := conv.RenderOptions(ctx, s.prompt, options); err != nil {
		return false, err
	}
	return true, nil
}

// Leave parses and saves the input, typed or selected. A validation failure
// is replied to the user and navigation returns Back: the half-entered frame
// is discarded and the prompt re-rendered fresh.
func (s *Save) Leave(ctx context.Context, conv *Conversation) (domain.State, error) {
	value, err := s.parse(conv.Input())
	if err != nil {
		if domain.IsValidation(err) {
			if rerr := conv.Reply(ctx, err.Error()); rerr != nil {
				return "", rerr
			}
			return domain.Back, nil
		}
		return "", err
	}

	conv.SaveData(s.key, value)
	if s.confirm != nil {
		if err := conv.Reply(ctx, s.confirm(conv.Data())); err != nil {
			return "", err
		}
	}
	return s.next, nil
}
