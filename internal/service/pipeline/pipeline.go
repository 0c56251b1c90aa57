package pipeline

import (
	"context"

	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/experiment"
	"github.com/xavierau/chatbot-showeasy/internal/service/agent"
	"github.com/xavierau/chatbot-showeasy/internal/service/guardrails"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// Input is one user turn as the transports hand it over.
type Input struct {
	UserID          string
	SessionID       string
	Message         string
	History         []core.Message
	PageContext     string
	Personalization string
}

// Result is the turn outcome with the verdicts and experiment assignments
// that produced it, for logging and the history endpoint.
type Result struct {
	Reply         string
	Assignments   map[string]experiment.Assignment
	InputVerdict  core.GuardrailVerdict
	OutputVerdict core.GuardrailVerdict
}

// Pipeline runs one turn through input guardrail, agent loop and output
// guardrail, in that order. It holds no per-turn state; the caller owns the
// timeout via ctx.
type Pipeline struct {
	expCfg   *config.ExperimentConfig
	input    *guardrails.InputGuardrail
	output   *guardrails.OutputGuardrail
	provider core.ChatProvider
	registry *agent.Registry
}

func New(expCfg *config.ExperimentConfig, gCfg *config.GuardrailConfig, provider core.ChatProvider, registry *agent.Registry) *Pipeline {
	if expCfg == nil {
		expCfg = &config.ExperimentConfig{
			AgentIterations:         agent.DefaultMaxIterations,
			AgentVariantAIterations: 5,
		}
	}
	return &Pipeline{
		expCfg:   expCfg,
		input:    guardrails.NewInputGuardrail(provider, gCfg),
		output:   guardrails.NewOutputGuardrail(provider, gCfg),
		provider: provider,
		registry: registry,
	}
}

// Process runs one turn. It always yields a reply; a guardrail rejection
// returns its redirect text and the agent never runs.
func (p *Pipeline) Process(ctx context.Context, in Input) Result {
	ctx = log.WithSession(ctx, in.SessionID, in.UserID)
	logger := log.FromCtx(ctx)

	assignments := experiment.Resolve(p.expCfg, in.UserID)
	res := Result{Assignments: assignments}

	res.InputVerdict = p.input.Check(ctx, in.Message, in.History, in.PageContext)
	if !res.InputVerdict.Acceptable {
		logger.Info().
			Str("violation", res.InputVerdict.ViolationKind).
			Msg("input rejected by guardrail")
		res.Reply = res.InputVerdict.UserMessage
		return res
	}

	iterations := p.expCfg.AgentIterations
	if assignments[experiment.ModuleAgent].Variant == experiment.VariantA {
		iterations = p.expCfg.AgentVariantAIterations
	}
	orchestrator := agent.NewOrchestrator(p.provider, p.registry,
		agent.WithMaxIterations(iterations))

	answer := orchestrator.Run(ctx, agent.Input{
		Message:         in.Message,
		History:         in.History,
		PageContext:     in.PageContext,
		Personalization: in.Personalization,
	})

	res.OutputVerdict = p.output.Sanitize(ctx, answer, in.Message)
	res.Reply = res.OutputVerdict.SanitizedContent
	if res.OutputVerdict.ViolationKind != "" {
		logger.Info().
			Str("violation", res.OutputVerdict.ViolationKind).
			Msg("output sanitized by guardrail")
	}
	return res
}
