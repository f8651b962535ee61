package drilldown_test

import (
	"context"
	"fmt"

	"github.com/aretw0/drilldown"
	"github.com/aretw0/drilldown/internal/testutils"
	"github.com/aretw0/drilldown/pkg/domain"
	"github.com/aretw0/drilldown/pkg/flow"
)

// Example builds a two-state bot and walks one exchange through it: the user
// starts the conversation, picks the only option, and answers the prompt.
func Example() {
	graph := flow.Graph{
		"menu": flow.NewMenu("Menu", []flow.MenuOption{
			{Label: "Greet", To: "greet"},
		}),
		"greet": flow.NewSave("What's your name?", "name",
			flow.WithConfirm(func(data map[string]any) string {
				return fmt.Sprintf("Hello, %s!", data["name"])
			})),
	}

	messenger := testutils.NewFakeMessenger()
	bot, err := drilldown.New(messenger, "menu", graph,
		drilldown.WithKeyboardDelay(0))
	if err != nil {
		fmt.Println("setup failed:", err)
		return
	}

	ctx := context.Background()
	updates := []domain.Update{
		{Kind: domain.KindCommand, Command: drilldown.CmdStart, UserID: 1, ChatID: 1},
		{Kind: domain.KindCallback, Text: "Greet", CallbackID: "c1", UserID: 1, ChatID: 1},
		{Kind: domain.KindMessage, Text: "Alice", UserID: 1, ChatID: 1},
	}
	for _, u := range updates {
		if _, err := bot.HandleUpdate(ctx, u); err != nil {
			fmt.Println("transport fault:", err)
			return
		}
	}

	for _, text := range messenger.Texts() {
		fmt.Println(text)
	}
	// Output:
	// Menu:
	// Hello, Alice!
	// Menu:
}
