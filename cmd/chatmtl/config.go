package main

import (
	"fmt"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/pkg/env"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Print the effective configuration",
	Long:         `Prints the configuration resolved from the environment and the runtime .env file. Secrets are masked.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, err := loadEnv(config.GetRuntimePath())
		if err != nil {
			return err
		}

		appCfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}
		ragCfg, err := config.ParseRAGConfig()
		if err != nil {
			return err
		}
		memCfg, err := config.ParseMemoryConfig()
		if err != nil {
			return err
		}
		llmCfg, err := config.ParseLLMConfig()
		if err != nil {
			return err
		}

		out, err := env.MarshalEnv(appCfg, ragCfg, memCfg, llmCfg)
		if err != nil {
			return err
		}

		if envFile != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", envFile)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
