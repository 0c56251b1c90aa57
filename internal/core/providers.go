package core

import "context"

// ChatProvider is the opaque reasoning/generation capability. Latency and the
// occasional malformed reply are the caller's problem to tolerate.
type ChatProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Message, error)
}

// CapabilityServer is an external process contributing extra capabilities to
// the registry (MCP-style).
type CapabilityServer interface {
	GetTools(ctx context.Context) ([]Tool, error)
	CallTool(ctx context.Context, name string, args string) (string, error)
}
