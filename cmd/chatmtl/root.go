package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/service/ui"
	"github.com/sandevgo/chatmtl/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:     "chatmtl",
	Short:   "chatMTL, a chat bot answering from recent Montreal blog content",
	Long:    `chatMTL ingests blog categories into per-category vector indexes and answers questions about them.`,
	Version: core.AppVersion,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, debug || config.IsDebug())
}

// setupFileLogger sends logs to the runtime log file, for when the terminal
// chat owns stdout.
func setupFileLogger(ctx context.Context, path string) (context.Context, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ctx, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	ctx, flush := log.NewContextWithWriter(ctx, debug || config.IsDebug(), f)
	return ctx, func() {
		flush()
		_ = f.Close()
	}, nil
}

// loadEnv loads <runtime>/.env if present. Variables already set win.
func loadEnv(runtimePath string) (string, error) {
	envFile := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	if err := godotenv.Load(envFile); err != nil {
		return "", fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return envFile, nil
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
