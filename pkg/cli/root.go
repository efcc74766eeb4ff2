// Package cli implements the ddsnap command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ddsnap/ddsnap/pkg/logging"
)

var (
	// Persistent flags available to all subcommands.
	logLevel  string
	logFormat string

	// Version is injected during build.
	Version = "dev"
	// Commit is injected during build.
	Commit = "none"
	// BuildDate is injected during build.
	BuildDate = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ddsnap",
	Short: "ddsnap exports Datadog org configuration to local JSON files",
	Long: `ddsnap is a one-directional backup tool for Datadog organizations.
It reads monitors, dashboards, notebooks, users, roles, teams, tags,
SLOs, on-call routing, restriction policies and software catalog
entities through the management API and writes each resource as a JSON
file under <base>/<site>_org_<org>/<resource_type>/.

Credentials are read from <base>/<site>_org_<org>/.env, which must set
DD_API_KEY and DD_APP_KEY (and optionally DD_SITE).`,
	SilenceUsage:  true,
	SilenceErrors: true, // errors are handled in Execute
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the logger configured by the persistent flags.
func newLogger() *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")
}
