package cmd

import (
	"fmt"
	"os"

	"pos-backend/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pos-backend",
	Short: "POS Backend Service",
	Long: `POS Backend serves a retail point-of-sale API: product catalog,
invoice billing with stock reconciliation, and sales reporting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// CLI errors go through the structured logger in console format so
		// they read like a CLI tool rather than a JSON stream.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
