package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/reason"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// DefaultMaxIterations bounds the reasoning-and-acting loop. The active
// experiment variant may lower it per turn.
const DefaultMaxIterations = 10

// FinishCapability is the reserved pseudo-capability that terminates the loop.
const FinishCapability = "finish"

// FallbackReply is sent when the reasoning capability fails or the loop ends
// without a usable answer. The user always gets some text.
const FallbackReply = "I'm sorry, I'm having trouble processing your request right now. Please try again in a moment."

// Loop states. Each iteration moves reasoning -> acting -> reasoning until a
// finish action or the iteration cap forces terminated.
type state int

const (
	stateReasoning state = iota
	stateActing
	stateTerminated
)

var actContract = reason.Contract{
	Name: "act-in-loop",
	Task: "You are a customer-service assistant for an event-ticketing platform. Decide the single next step towards answering the user. Pick exactly one capability from the list and give its arguments as a JSON object. When you have enough information to answer, pick \"finish\" with empty arguments. Use the trajectory to see what you already tried; do not repeat a step that already succeeded.",
	Inputs: []reason.Field{
		{Name: "user_message", Description: "the user's request this turn"},
		{Name: "conversation_history", Description: "prior turns"},
		{Name: "page_context", Description: "what the user is currently looking at"},
		{Name: "personalization", Description: "known user preferences, may be empty"},
		{Name: "capabilities", Description: "the capabilities available, with argument schemas"},
		{Name: "trajectory", Description: "capability calls already made this turn and their results"},
	},
	Outputs: []reason.Field{
		{Name: "capability", Description: "name of the one capability to invoke, or \"finish\""},
		{Name: "arguments", Description: "JSON object of arguments for the capability"},
	},
}

type action struct {
	Capability string          `json:"capability"`
	Arguments  json.RawMessage `json:"arguments"`
}

var finalizeContract = reason.Contract{
	Name: "finalize-answer",
	Task: "Compose the final reply to the user from the work done this turn. Be concise and friendly, keep any event links intact, and never mention internal capabilities or queries.",
	Inputs: []reason.Field{
		{Name: "user_message", Description: "the user's request this turn"},
		{Name: "trajectory", Description: "capability calls made this turn and their results"},
	},
	Outputs: []reason.Field{
		{Name: "answer", Description: "the reply to send to the user"},
	},
}

type finalAnswer struct {
	Answer string `json:"answer"`
}

// Input is everything one orchestrated turn sees.
type Input struct {
	Message         string
	History         []core.Message
	PageContext     string
	Personalization string
}

// Orchestrator runs the bounded reasoning-and-acting loop. It never returns
// an error: every failure path degrades to the fixed fallback reply.
type Orchestrator struct {
	provider      core.ChatProvider
	registry      *Registry
	maxIterations int
}

type Option func(*Orchestrator)

// WithMaxIterations overrides the loop bound; values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.maxIterations = n
		}
	}
}

func NewOrchestrator(provider core.ChatProvider, registry *Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:      provider,
		registry:      registry,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run drives the loop for one user turn and returns the final answer text.
func (o *Orchestrator) Run(ctx context.Context, in Input) string {
	logger := log.FromCtx(ctx)

	var trajectory []core.ToolCallRecord
	current := stateReasoning
	capabilities := renderCapabilities(o.registry.Definitions())

	for iteration := 1; iteration <= o.maxIterations; iteration++ {
		act, err := reason.Invoke[action](ctx, o.provider, actContract, []reason.Input{
			{Name: "user_message", Value: in.Message},
			{Name: "conversation_history", Value: renderHistory(in.History)},
			{Name: "page_context", Value: in.PageContext},
			{Name: "personalization", Value: in.Personalization},
			{Name: "capabilities", Value: capabilities},
			{Name: "trajectory", Value: renderTrajectory(trajectory)},
		})
		if err != nil {
			logger.Error().Err(err).Int("iteration", iteration).Msg("reasoning step failed")
			return o.finalize(ctx, in, trajectory)
		}

		if act.Capability == "" || act.Capability == FinishCapability {
			current = stateTerminated
			break
		}

		current = stateActing
		result, err := o.registry.Invoke(ctx, act.Capability, normalizeArguments(act.Arguments))
		if err != nil {
			// A tool fault becomes an observation; the loop goes on.
			logger.Warn().Err(err).Str("capability", act.Capability).Msg("capability invocation failed")
			result = fmt.Sprintf("Error: %v", err)
		}
		trajectory = append(trajectory, core.ToolCallRecord{
			Iteration:  iteration,
			Capability: act.Capability,
			Arguments:  act.Arguments,
			Result:     truncate(result),
		})
		current = stateReasoning
	}

	if current != stateTerminated {
		logger.Info().Err(core.ErrIterationLimit).Int("iterations", o.maxIterations).Msg("forcing termination")
	}
	return o.finalize(ctx, in, trajectory)
}

// finalize composes the reply from the trajectory, degrading to the fixed
// fallback when reasoning fails or nothing usable came back.
func (o *Orchestrator) finalize(ctx context.Context, in Input, trajectory []core.ToolCallRecord) string {
	final, err := reason.Invoke[finalAnswer](ctx, o.provider, finalizeContract, []reason.Input{
		{Name: "user_message", Value: in.Message},
		{Name: "trajectory", Value: renderTrajectory(trajectory)},
	})
	if err != nil || strings.TrimSpace(final.Answer) == "" {
		if err == nil {
			err = core.ErrReasoningFault
		} else {
			err = fmt.Errorf("%w: %v", core.ErrReasoningFault, err)
		}
		log.FromCtx(ctx).Error().Err(err).Msg("finalize failed, using fallback reply")
		return FallbackReply
	}
	return final.Answer
}

// normalizeArguments tolerates models that return arguments as a JSON string
// instead of an object.
func normalizeArguments(args json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(args))
	if trimmed == "" || trimmed == "null" {
		return json.RawMessage(`{}`)
	}
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err == nil && strings.HasPrefix(strings.TrimSpace(inner), "{") {
			return json.RawMessage(inner)
		}
	}
	return args
}

func renderCapabilities(defs []core.Tool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s: end the turn and compose the final answer\n", FinishCapability)
	for _, d := range defs {
		fmt.Fprintf(&b, "- %s: %s\n  arguments schema: %s\n", d.Function.Name, d.Function.Description, string(d.Function.Parameters))
	}
	return b.String()
}

func renderTrajectory(trajectory []core.ToolCallRecord) string {
	if len(trajectory) == 0 {
		return "(no steps taken yet)"
	}
	var b strings.Builder
	for i, rec := range trajectory {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s(%s) -> %s", rec.Iteration, rec.Capability, string(rec.Arguments), rec.Result)
	}
	return b.String()
}

func renderHistory(history []core.Message) string {
	var b strings.Builder
	for i, m := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// truncate keeps tool results inside the prompt budget: head plus tail with
// the cut size noted.
func truncate(input string) string {
	const maxLen = 2000
	if len(input) <= maxLen {
		return input
	}
	head := input[:500]
	tail := input[len(input)-(maxLen-500):]
	return fmt.Sprintf("%s\n\n... [TRUNCATED %d bytes] ...\n\n%s", head, len(input)-maxLen, tail)
}
