package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dedbin/csig/tui"
)

// TUIOptions holds flags for the tui command.
type TUIOptions struct {
	*RootOptions
	DBFile  string
	Workers int
}

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TUIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tui <root>",
		Short: "Browse the index interactively",
		Long: `Open the interactive signature browser for a project. Searches run as
you type, ctrl+r reindexes the project, esc cancels a running index or
clears the query, ctrl+c quits.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.DBFile, "db", "", "index database path (default: <root>/csig.sqlite3)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel parse workers (default: number of CPUs)")

	return cmd
}

func runTUI(opts *TUIOptions, root string) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.Workers > 0 {
		cfg.Index.Workers = opts.Workers
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	dbPath := resolveDBPath(absRoot, opts.DBFile, cfg)

	return tui.Run(absRoot, dbPath, cfg)
}
