package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

const thinkSchema = `
{
  "type": "object",
  "properties": {
    "thought": { "type": "string", "description": "The reasoning to record" }
  },
  "required": ["thought"]
}
`

// Thinking gives the loop a scratchpad step. The thought is echoed back as
// the observation and never ends the conversation.
type Thinking struct{}

func NewThinking() *Thinking {
	return &Thinking{}
}

func (t *Thinking) Think(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Thought string `json:"thought"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return errorPayload(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	log.FromCtx(ctx).Debug().Str("thought", input.Thought).Msg("scratchpad")
	return input.Thought, nil
}

func (t *Thinking) GetDefinitions() map[string]struct {
	Description string
	Schema      string
	Handler     func(context.Context, json.RawMessage) (string, error)
} {
	return map[string]struct {
		Description string
		Schema      string
		Handler     func(context.Context, json.RawMessage) (string, error)
	}{
		"thinking": {"Record an intermediate thought before deciding the next step. Use when a request needs multi-step planning.", thinkSchema, t.Think},
	}
}
