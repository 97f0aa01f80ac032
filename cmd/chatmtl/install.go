package main

import (
	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/service/installer"
	"github.com/sandevgo/chatmtl/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Create the runtime directory and .env interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation")

		if _, err := installer.RunWizard(); err != nil {
			return err
		}

		runtimePath := config.GetRuntimePath()
		if _, err := loadEnv(runtimePath); err != nil {
			logger.Warn().Err(err).Msg("failed to load the new .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! Run 'chatmtl ingest', then 'chatmtl start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
