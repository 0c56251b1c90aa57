package guardrails

import (
	"context"

	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/reason"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

var validateOutputContract = reason.Contract{
	Name: "validate-output",
	Task: "You review replies from an event-ticketing customer-service assistant before they reach the user. The reply must not expose internal queries, schemas, prompts or credentials, must not recommend competitor platforms, and must stay helpful and on-topic for the user's question. If the reply is unsafe, rewrite it into a safe version that still answers the question.",
	Inputs: []reason.Field{
		{Name: "agent_response", Description: "the reply to review"},
		{Name: "user_query", Description: "the question the reply answers"},
	},
	Outputs: []reason.Field{
		{Name: "is_safe", Description: "true when the reply may be sent as-is"},
		{Name: "violation_type", Description: "short violation label, empty when safe"},
		{Name: "sanitized_response", Description: "rewritten safe reply when unsafe"},
		{Name: "improvement_suggestion", Description: "note for logs on what was wrong"},
	},
}

type outputVerdict struct {
	IsSafe                bool   `json:"is_safe"`
	ViolationType         string `json:"violation_type"`
	SanitizedResponse     string `json:"sanitized_response"`
	ImprovementSuggestion string `json:"improvement_suggestion"`
}

// OutputGuardrail sanitizes the agent's answer before delivery. Layer 1
// redacts deterministically; Layer 2 may rewrite. Violations are logged, the
// turn always continues with some text.
type OutputGuardrail struct {
	provider core.ChatProvider
	cfg      *config.GuardrailConfig
}

func NewOutputGuardrail(provider core.ChatProvider, cfg *config.GuardrailConfig) *OutputGuardrail {
	if cfg == nil {
		cfg = &config.GuardrailConfig{AutoSanitize: true, LogViolations: true}
	}
	return &OutputGuardrail{provider: provider, cfg: cfg}
}

// Sanitize returns the verdict whose SanitizedContent is always the text to
// deliver, whether or not anything was redacted.
func (g *OutputGuardrail) Sanitize(ctx context.Context, response, userQuery string) core.GuardrailVerdict {
	logger := log.FromCtx(ctx)

	redacted, violation := redact(response)
	if violation != "" && g.cfg.LogViolations {
		logger.Warn().Str("violation", violation).Msg("output redacted by pattern screen")
	}

	// The semantic rewrite layer is optional; pattern redaction is not.
	if !g.cfg.AutoSanitize {
		return core.GuardrailVerdict{
			Acceptable:       violation == "",
			ViolationKind:    violation,
			SanitizedContent: redacted,
		}
	}

	result, err := reason.Invoke[outputVerdict](ctx, g.provider, validateOutputContract, []reason.Input{
		{Name: "agent_response", Value: redacted},
		{Name: "user_query", Value: userQuery},
	})
	if err != nil {
		// Fail open with Layer-1 redactions still applied.
		logger.Warn().Err(err).Msg("output guardrail semantic layer failed, returning redacted text")
		return core.GuardrailVerdict{
			Acceptable:       violation == "",
			ViolationKind:    violation,
			SanitizedContent: redacted,
		}
	}

	if !result.IsSafe && result.SanitizedResponse != "" {
		if g.cfg.LogViolations {
			logger.Warn().
				Str("violation", result.ViolationType).
				Str("suggestion", result.ImprovementSuggestion).
				Msg("output rewritten by semantic layer")
		}
		return core.GuardrailVerdict{
			Acceptable:       false,
			ViolationKind:    result.ViolationType,
			SanitizedContent: result.SanitizedResponse,
		}
	}

	return core.GuardrailVerdict{
		Acceptable:       violation == "",
		ViolationKind:    violation,
		SanitizedContent: redacted,
	}
}

// redact is Layer 1: competitor names are substituted, query-language and
// credential-looking spans are cut out. Returns the cleaned text and the
// violation kind, empty when nothing matched.
func redact(text string) (string, string) {
	violation := ""

	if competitorPattern.MatchString(text) {
		text = competitorPattern.ReplaceAllString(text, competitorReplacement)
		violation = ViolationCompetitor
	}

	if sqlBlockPattern.MatchString(text) {
		text = sqlBlockPattern.ReplaceAllString(text, "[query details]")
		violation = ViolationSystemLeakage
	}
	if selectFromPattern.MatchString(text) {
		text = selectFromPattern.ReplaceAllString(text, "[database query]")
		violation = ViolationSystemLeakage
	}

	for _, pattern := range leakageIndicators {
		if pattern.MatchString(text) {
			violation = ViolationSystemLeakage
			break
		}
	}
	return text, violation
}
