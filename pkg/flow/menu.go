package flow

import (
	"context"

	"github.com/aretw0/drilldown/pkg/domain"
)

// UnrecognizedReply is sent when a menu selection matches no offered option.
const UnrecognizedReply = "Unrecognized selection!"

// MenuOption maps one label to its target state. Order is preserved in the
// rendered keyboard.
type MenuOption struct {
	Label string
	To    domain.State
}

// Menu presents a list of options and navigates to the one the user picks.
type Menu struct {
	title     string
	titleFunc func(data map[string]any) string
	options   []MenuOption
	targets   map[string]domain.State
}

// MenuOpt configures a Menu.
type MenuOpt func(*Menu)

// WithTitleFunc computes the menu title from the aggregated data instead of
// using the static title.
func WithTitleFunc(fn func(data map[string]any) string) MenuOpt {
	return func(m *Menu) {
		m.titleFunc = fn
	}
}

// NewMenu creates a menu transition. An empty title defaults to "Menu".
func NewMenu(title string, options []MenuOption, opts ...MenuOpt) *Menu {
	if title == "" {
		title = "Menu"
	}
	m := &Menu{
		title:   title,
		options: options,
		targets: make(map[string]domain.State, len(options)),
	}
	for _, o := range options {
		m.targets[o.Label] = o.To
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enter renders the option grid. The move is always accepted.
func (m *Menu) Enter(ctx context.Context, conv *Conversation) (bool, error) {
	title := m.title
	if m.titleFunc != nil {
		title = m.titleFunc(conv.Data())
	}
	labels := make([]string, len(m.options))
	for i, o := range m.options {
		labels[i] = o.Label
	}
	if err := conv.RenderOptions(ctx, title, labels); err != nil {
		return false, err
	}
	return true, nil
}

// Leave looks the selection up in the options map. Unknown input gets an
// explanatory reply and stays in the menu; the stack is never touched here.
func (m *Menu) Leave(ctx context.Context, conv *Conversation) (domain.State, error) {
	if to, ok := m.targets[conv.Input()]; ok {
		return to, nil
	}
	if err := conv.Reply(ctx, UnrecognizedReply); err != nil {
		return "", err
	}
	return "", nil
}
