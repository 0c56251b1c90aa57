package core

import "context"

// CmdRouter dispatches slash commands typed into a chat transport. The bool
// reports whether the input was a command at all.
type CmdRouter interface {
	Execute(ctx context.Context, sessionID, userID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID, userID string, args []string) (string, error)
}
