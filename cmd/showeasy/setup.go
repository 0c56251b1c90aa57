package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xavierau/chatbot-showeasy/internal/config"
	"github.com/xavierau/chatbot-showeasy/internal/service/installer"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

var setupCmd = &cobra.Command{
	Use:           "setup",
	Short:         "Run the interactive configuration wizard",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting setup wizard")

		_, err := installer.RunWizard()
		if err != nil {
			return err
		}

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Setup complete! You can now run 'showeasy start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
