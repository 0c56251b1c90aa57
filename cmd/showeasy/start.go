package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
	"github.com/xavierau/chatbot-showeasy/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ShowEasy chatbot services",
	Long:  `Initializes and starts the configured transports (HTTP, Telegram, CLI) and their supporting services.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting showeasy chatbot")

		services := NewServices(ctx)

		srv.StartServices(ctx, services)

		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("showeasy chatbot has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
