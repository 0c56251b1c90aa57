package reason

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// Input is one named value handed to a contract. Order is preserved in the
// rendered prompt so invocations stay deterministic.
type Input struct {
	Name  string
	Value string
}

// Invoke runs one contract against the provider and decodes the reply into
// Out. Providers occasionally wrap JSON in code fences or prose; both are
// tolerated before giving up.
func Invoke[Out any](ctx context.Context, provider core.ChatProvider, c Contract, inputs []Input) (Out, error) {
	var out Out

	messages := []core.Message{
		{Role: core.RoleSystem, Content: systemPrompt(c)},
		{Role: core.RoleUser, Content: renderInputs(inputs)},
	}

	reply, err := provider.Chat(ctx, messages, nil)
	if err != nil {
		return out, fmt.Errorf("contract %s: %w", c.Name, err)
	}

	raw := StripFences(reply.Content)
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// Some providers pad the object with prose. Try the outermost
		// braces before failing.
		if extracted, ok := extractObject(raw); ok {
			if err2 := json.Unmarshal([]byte(extracted), &out); err2 == nil {
				return out, nil
			}
		}
		log.FromCtx(ctx).Debug().Str("contract", c.Name).Str("raw", raw).Msg("contract reply not valid json")
		return out, fmt.Errorf("contract %s: decode reply: %w", c.Name, err)
	}
	return out, nil
}

func systemPrompt(c Contract) string {
	var b strings.Builder
	b.WriteString(c.Task)
	b.WriteString("\n\nRespond with a single JSON object containing exactly these fields:\n")
	for _, f := range c.Outputs {
		fmt.Fprintf(&b, "- %q: %s\n", f.Name, f.Description)
	}
	b.WriteString("Do not include any other text.")
	return b.String()
}

func renderInputs(inputs []Input) string {
	var b strings.Builder
	for i, in := range inputs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.ToUpper(in.Name))
		b.WriteString(":\n")
		b.WriteString(in.Value)
	}
	return b.String()
}

// StripFences removes a surrounding markdown code fence, with or without a
// language tag, leaving other text untouched.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop a language tag like "json" or "sql" on the fence line.
		first := strings.TrimSpace(s[:idx])
		if first != "" && !strings.ContainsAny(first, " \t{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
