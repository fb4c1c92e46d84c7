// Package main implements talentctl, the operator CLI for the talentdex
// search engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/app"
	"github.com/kailas-cloud/talentdex/internal/config"
	logpkg "github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "talentctl",
	Short:         "talentdex operator CLI",
	Long:          "talentctl runs searches, converts career blobs and inspects the geodistance cache using the same configuration as the talentdex server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	envName string
	verbose bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "talentctl", version.String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "Config environment (default: $ENV or local)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openApp loads the configuration and assembles the services.
func openApp(cmd *cobra.Command) (*app.App, *zap.Logger, error) {
	env := envName
	if env == "" {
		env = config.GetEnv()
	}
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := logpkg.NewCLI(verbose)
	a, err := app.New(cmd.Context(), &cfg, logger, app.Options{})
	if err != nil {
		return nil, nil, fmt.Errorf("assemble services: %w", err)
	}
	return a, logger, nil
}
