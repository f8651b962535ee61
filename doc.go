/*
Package drilldown is a drilldown conversation engine: given a directed graph
of named states and a per-state transition, it drives a user through a nested
menu/prompt flow over a chat-style messaging channel, tracking navigation
history and per-step collected data.

The engine is built around a breadcrumb of visited states paired with a stack
of per-level data frames. Menus descend into submenus, prompts collect values
into the current frame, and going back discards the data produced on the way
down. Transitions read a single aggregated view of everything collected so
far and never touch the transport directly.

A minimal bot:

	graph := flow.Graph{
		"menu": flow.NewMenu("Menu", []flow.MenuOption{
			{Label: "Greet", To: "greet"},
		}),
		"greet": flow.NewSave("What's your name?", "name",
			flow.WithConfirm(func(data map[string]any) string {
				return fmt.Sprintf("Hello, %s!", data["name"])
			})),
	}

	bot, err := drilldown.New(messenger, "menu", graph)

The host's delivery loop feeds every inbound update to Bot.HandleUpdate; the
bot resolves it against the active state's transition, updates the session,
and keeps the single live options keyboard current.

Sub-packages: pkg/flow holds the transition protocol and the keyboard
renderer, pkg/domain the session model, pkg/ports the driven-side interfaces,
pkg/adapters their implementations (memory, redis, telegram), and pkg/session
the per-key locking manager.
*/
package drilldown
