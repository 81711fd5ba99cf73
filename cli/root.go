// Package cli wires the csig commands: index, search, and the interactive
// browser.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dedbin/csig/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the csig CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "csig",
		Short: "csig - fuzzy C signature search",
		Long: `csig indexes the function signatures of a C/C++ source tree into a
local SQLite database and searches them fuzzily by name and signature.

Query form: 'name :: signature', either part optional.

Example:
  csig index .
  csig search . "add :: int(int,int)"
  csig tui .`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.Verbose)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewIndexCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))

	return cmd
}

func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig loads layered configuration, forcing debug logging on when the
// config asks for it.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Debug && !opts.Verbose {
		configureLogging(true)
	}
	return cfg, nil
}
