package command

import (
	"context"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/service/insights"
)

type InsightsCommand struct {
	generator *insights.Generator
	formatter *ResponseFormatter
}

func NewInsightsCommand(generator *insights.Generator) *InsightsCommand {
	return &InsightsCommand{generator: generator, formatter: NewResponseFormatter()}
}

func (c *InsightsCommand) Name() string        { return "insights" }
func (c *InsightsCommand) Description() string { return "Refresh and show the dataset insights" }

func (c *InsightsCommand) Execute(ctx context.Context, _, _ string, _ []string) (string, error) {
	c.generator.RefreshAll(ctx)
	all := c.generator.Ensure(ctx)

	items := make([]string, 0, len(all))
	for _, kind := range insights.Kinds() {
		insight, ok := all[kind]
		if !ok || insight.Summary == "" {
			items = append(items, fmt.Sprintf("%s: (no data)", kind))
			continue
		}
		items = append(items, fmt.Sprintf("%s: %s", kind, insight.Summary))
	}
	return c.formatter.Combine(
		c.formatter.Info("Dataset insights"),
		c.formatter.List(items),
	), nil
}
