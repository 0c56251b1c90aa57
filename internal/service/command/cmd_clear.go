package command

import (
	"context"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

type ClearCommand struct {
	store     core.ConversationStore
	formatter *ResponseFormatter
}

func NewClearCommand(store core.ConversationStore) *ClearCommand {
	return &ClearCommand{store: store, formatter: NewResponseFormatter()}
}

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Description() string { return "Wipe this session's conversation history" }

func (c *ClearCommand) Execute(ctx context.Context, sessionID, _ string, _ []string) (string, error) {
	if err := c.store.Clear(ctx, sessionID); err != nil {
		return "", fmt.Errorf("clear session: %w", err)
	}
	return c.formatter.Success("Conversation cleared"), nil
}
