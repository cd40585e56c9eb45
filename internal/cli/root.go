// Package cli implements the courtlog command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
}

// envConfig is the environment-derived default configuration. Flags
// override it.
type envConfig struct {
	Database string `env:"COURTLOG_DB" envDefault:"courtlog.db"`
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the courtlog CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		// Unparseable environment falls back to compiled-in defaults.
		cfg = envConfig{Database: "courtlog.db"}
	}

	cmd := &cobra.Command{
		Use:   "courtlog",
		Short: "courtlog - point-by-point match scoring",
		Long: `courtlog records racquet-sport matches point by point.

Every scored point is appended to an event log; the current score is
always derived from that log, and the last point can be undone.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", cfg.Database, "path to SQLite database (env COURTLOG_DB)")

	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewScoreCommand(opts))
	cmd.AddCommand(NewUndoCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewMatchesCommand(opts))
	cmd.AddCommand(NewSportsCommand(opts))

	return cmd
}

// configureLogging routes slog to stderr so diagnostic output never
// corrupts JSON on stdout. Verbose enables debug level.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
