package command

import (
	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/insights"
)

// NewRouter wires the standard command set. Help lists through the router so
// it stays current with whatever is registered.
func NewRouter(
	store core.ConversationStore,
	generator *insights.Generator,
	expCfg *config.ExperimentConfig,
) *Router {
	var router *Router
	commands := []core.Command{
		NewHelpCommand(func() []core.Command { return router.ListCommands() }),
		NewClearCommand(store),
		NewInsightsCommand(generator),
		NewVariantCommand(expCfg),
	}
	router = New(commands)
	return router
}
