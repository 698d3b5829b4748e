package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/templui/goalwizard/cmd/goalctl/cmd"
	"github.com/templui/goalwizard/internal/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "goalctl",
		Short:         "Operator and terminal tools for the goal wizard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Same .env the server reads; flags default from it.
			_ = godotenv.Load()
			logger.Init(os.Getenv("APP_ENV") != "production", "")
		},
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.TokenCmd())
	rootCmd.AddCommand(cmd.WizardCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("goalctl failed", "error", err)
		os.Exit(1)
	}
}
