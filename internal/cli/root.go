// Package cli implements the starkverify command tree.
package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/renwickholm/starkverify/internal/config"
	"github.com/renwickholm/starkverify/internal/validation"
	"github.com/renwickholm/starkverify/pkg/client"
)

var (
	flagNetwork string
	flagURL     string
	flagVerbose bool
)

// Execute runs the CLI
func Execute(version string) error {
	rootCmd := &cobra.Command{
		Use:     "starkverify",
		Short:   "Starknet contract class verification CLI",
		Long: `starkverify reduces a Scarb project to the sources required to compile
its declared contracts, checks the reduction still builds, and submits
it for class verification.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagNetwork, "network", "", "target network: mainnet or sepolia (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "custom verification API URL (overrides --network)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(createVerifyCmd())
	rootCmd.AddCommand(createReduceCmd())
	rootCmd.AddCommand(createStatusCmd())
	rootCmd.AddCommand(createHistoryCmd())
	rootCmd.AddCommand(createConfigCmd())

	return rootCmd.Execute()
}

// loadConfig builds the effective configuration for a project directory,
// applying global flags last.
func loadConfig(projectDir string) (*config.Config, error) {
	cfg, err := config.Load(projectDir)
	if err != nil {
		return nil, err
	}
	if flagNetwork != "" {
		if err := validation.ValidateNetwork(flagNetwork); err != nil {
			return nil, err
		}
		cfg.Network.Name = flagNetwork
	}
	if flagURL != "" {
		cfg.Network.URL = flagURL
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the slog logger per the logging configuration.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// apiURL resolves the endpoint for the configured network.
func apiURL(cfg *config.Config) (string, error) {
	u, err := cfg.Network.APIURL()
	if err != nil {
		return "", fmt.Errorf("resolving API endpoint: %w", err)
	}
	return u, nil
}

// newAPIClient builds a verification API client with the configured
// endpoint, request timeout, and poll interval.
func newAPIClient(cfg *config.Config) (*client.Client, error) {
	baseURL, err := apiURL(cfg)
	if err != nil {
		return nil, err
	}
	return client.New(baseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Client.Timeout()}),
		client.WithPollInterval(cfg.Client.PollInterval()),
	)
}
