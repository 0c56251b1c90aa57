package command

import (
	"context"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

type HelpCommand struct {
	router    func() []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(router func() []core.Command) *HelpCommand {
	return &HelpCommand{router: router, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List the available commands" }

func (c *HelpCommand) Execute(_ context.Context, _, _ string, _ []string) (string, error) {
	items := make([]string, 0)
	for _, cmd := range c.router() {
		items = append(items, fmt.Sprintf("/%s - %s", cmd.Name(), cmd.Description()))
	}
	items = append(items, "/quit - Leave the chat")
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
	), nil
}
