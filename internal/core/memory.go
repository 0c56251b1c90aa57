package core

import "context"

// ConversationStore holds per-session conversation history. The history a
// pipeline turn receives is a snapshot valid only for that turn.
type ConversationStore interface {
	History(ctx context.Context, sessionID string) ([]Message, error)
	Append(ctx context.Context, sessionID string, turns ...Message) error
	Clear(ctx context.Context, sessionID string) error
}
