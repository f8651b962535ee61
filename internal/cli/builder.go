package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/drilldown/internal/dto"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/flow"
)

// Sentinel names usable as navigation targets in a declarative graph.
const (
	targetBack = "back"
	targetHome = "home"
	targetEnd  = "end"
)

// BuildGraph turns the declarative state blocks of a config into a runnable
// navigation graph. Every referenced target must be a declared state or one
// of the sentinel names.
func BuildGraph(cfg *Config) (flow.Graph, error) {
	graph := make(flow.Graph, len(cfg.States))

	for name, block := range cfg.States {
		var spec dto.StateSpec
		if err := mapstructure.Decode(block, &spec); err != nil {
			return nil, fmt.Errorf("state %q: %w", name, err)
		}

		transition, err := buildTransition(cfg, name, spec)
		if err != nil {
			return nil, err
		}
		graph[domain.State(name)] = transition
	}
	return graph, nil
}

func buildTransition(cfg *Config, name string, spec dto.StateSpec) (flow.Transition, error) {
	switch spec.Type {
	case "menu":
		if len(spec.Options) == 0 {
			return nil, fmt.Errorf("state %q: menu needs at least one option", name)
		}
		options := make([]flow.MenuOption, len(spec.Options))
		for i, o := range spec.Options {
			target, err := resolveTarget(cfg, name, o.To)
			if err != nil {
				return nil, err
			}
			options[i] = flow.MenuOption{Label: o.Label, To: target}
		}
		return flow.NewMenu(spec.Title, options), nil

	case "save":
		if spec.Key == "" {
			return nil, fmt.Errorf("state %q: save needs a key", name)
		}
		opts := []flow.SaveOpt{}
		if spec.Next != "" {
			target, err := resolveTarget(cfg, name, spec.Next)
			if err != nil {
				return nil, err
			}
			opts = append(opts, flow.WithNext(target))
		}
		if spec.Confirm != "" {
			template := spec.Confirm
			opts = append(opts, flow.WithConfirm(func(data map[string]any) string {
				return Interpolate(template, data)
			}))
		}
		if len(spec.Suggestions) > 0 {
			suggestions := spec.Suggestions
			opts = append(opts, flow.WithSuggestions(func(map[string]any) []string {
				return suggestions
			}))
		}
		return flow.NewSave(spec.Prompt, spec.Key, opts...), nil

	case "reply":
		if spec.Text == "" {
			return nil, fmt.Errorf("state %q: reply needs a text", name)
		}
		template := spec.Text
		return flow.NewNoOp(func(data map[string]any) string {
			return Interpolate(template, data)
		}), nil
	}

	return nil, fmt.Errorf("state %q: unknown type %q", name, spec.Type)
}

// resolveTarget maps a declarative target to a state or sentinel.
func resolveTarget(cfg *Config, from, target string) (domain.State, error) {
	switch strings.ToLower(target) {
	case targetBack:
		return domain.Back, nil
	case targetHome:
		return domain.Home, nil
	case targetEnd:
		return domain.End, nil
	}
	if _, ok := cfg.States[target]; !ok {
		return "", fmt.Errorf("state %q: target %q is not declared", from, target)
	}
	return domain.State(target), nil
}

var placeholder = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Interpolate substitutes {key} placeholders with values from the aggregated
// data. Unknown keys are left in place, so mistakes stay visible.
func Interpolate(template string, data map[string]any) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := data[key]; ok {
			return fmt.Sprint(value)
		}
		return match
	})
}
