package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bizdesk/internal/app"
	"bizdesk/internal/config"
	"bizdesk/pkg/logger"
)

var version = "0.1.0"

// cli holds what PersistentPreRunE prepared for the subcommands.
var cli struct {
	cfg *config.Config
	log *logger.Logger
}

var rootCmd = &cobra.Command{
	Use:   "bizdesk",
	Short: "Business dashboard core: documents, ledgers and reports",
	Long: `bizdesk keeps clients, suppliers, products, sales and purchase documents,
bank and cash ledgers in memory and exposes them over a JSON API.

Configuration is read from BIZDESK_* environment variables, optionally
loaded from an env file first.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		log, err := logger.New(logger.Config{
			Level:       cfg.Log.Level,
			Development: cfg.Log.Development,
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cli.cfg = cfg
		cli.log = log
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if cli.log != nil {
			cli.log.WithComponent("cmd").Errorw("command failed", "error", err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "env file to load before reading the environment")
}

// newApp builds the application; demo data is seeded when asked for.
func newApp(cmd *cobra.Command, seedDemo bool) (*app.App, error) {
	a, err := app.New(cli.cfg)
	if err != nil {
		return nil, err
	}
	if seedDemo {
		ctx := logger.WithLogger(cmd.Context(), cli.log)
		if _, err := seedData(ctx, a); err != nil {
			return nil, err
		}
	}
	return a, nil
}
