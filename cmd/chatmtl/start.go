package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/pkg/log"
	"github.com/sandevgo/chatmtl/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat services",
	Long:  `Loads the category indexes, then starts the conversation session and the configured transports (terminal chat, Telegram).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		envFile, err := loadEnv(config.GetRuntimePath())
		if err != nil {
			return err
		}
		appCfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}

		var flushLog func()
		if appCfg.EnableCLI {
			ctx, flushLog, err = setupFileLogger(ctx, appCfg.GetLogPath())
			if err != nil {
				return err
			}
		} else {
			ctx, flushLog = setupLogger(ctx)
		}
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Str("env", envFile).Str("mode", appCfg.ConversationMode).Msg("starting chatmtl")

		services := NewServices(ctx, appCfg)

		srv.StartServices(ctx, stop, services)
		srv.ShutdownServices(ctx, services)

		logger.Info().Msg("chatmtl has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
