package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/experiment"
)

type VariantCommand struct {
	cfg       *config.ExperimentConfig
	formatter *ResponseFormatter
}

func NewVariantCommand(cfg *config.ExperimentConfig) *VariantCommand {
	return &VariantCommand{cfg: cfg, formatter: NewResponseFormatter()}
}

func (c *VariantCommand) Name() string        { return "variant" }
func (c *VariantCommand) Description() string { return "Show your experiment assignment, optionally for one module" }

func (c *VariantCommand) Execute(_ context.Context, _, userID string, args []string) (string, error) {
	assignments := experiment.Resolve(c.cfg, userID)

	if len(args) > 0 {
		module := strings.ToLower(args[0])
		assignment, ok := assignments[module]
		if !ok {
			return "", fmt.Errorf("unknown module %q, modules are %s, %s, %s",
				module, experiment.ModulePreGuardrails, experiment.ModulePostGuardrails, experiment.ModuleAgent)
		}
		return c.formatter.Label(module, string(assignment.Variant)), nil
	}

	items := make([]string, 0, len(assignments))
	for _, module := range []string{experiment.ModulePreGuardrails, experiment.ModulePostGuardrails, experiment.ModuleAgent} {
		items = append(items, fmt.Sprintf("%s: %s", module, assignments[module].Variant))
	}
	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("Assignments for bucket %d", experiment.Bucket(userID))),
		c.formatter.List(items),
	), nil
}
