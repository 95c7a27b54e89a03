package main

import (
	"fmt"

	"github.com/pokt-network/poktroll/pkg/polylog/polyzero"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagLogLevel   string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cosmosclient",
		Short: "Resilient gRPC client for Cosmos SDK chains",
		Long: `cosmosclient talks to a pool of Cosmos SDK node gRPC endpoints with
health-aware failover, and submits transactions with automatic gas
estimation, account sequence management and confirmation polling.`,
		PersistentPreRunE: setupLoggerContext,
	}

	cmd.PersistentFlags().StringVar(
		&flagConfigPath, "config", "client.yaml",
		"path to the client config file",
	)
	cmd.PersistentFlags().StringVar(
		&flagLogLevel, "log-level", "info",
		"log level (debug, info, warn, error)",
	)

	cmd.AddCommand(
		balanceCmd(),
		sendCmd(),
		txCmd(),
		healthCmd(),
	)
	return cmd
}

// setupLoggerContext attaches a leveled logger to the command context so
// every layer below can pull it back out with polylog.Ctx.
func setupLoggerContext(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", flagLogLevel, err)
	}

	logger := polyzero.NewLogger(
		polyzero.WithLevel(polyzero.Level(level)),
		polyzero.WithOutput(cmd.ErrOrStderr()),
	)
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}
