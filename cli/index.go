package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dedbin/csig/config"
	"github.com/dedbin/csig/indexer"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Workers int
	DBFile  string
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Build or refresh the signature index",
		Long: `Scan the C/C++ sources under a directory and extract every function
signature into the index database. Files whose size and mtime are unchanged
since the last run are skipped. Interrupting with ctrl-c leaves a consistent
partial index.

Example:
  csig index
  csig index ~/src/libfoo --workers 4`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runIndex(cmd, opts, root)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel parse workers (default: number of CPUs)")
	cmd.Flags().StringVar(&opts.DBFile, "db", "", "index database path (default: <root>/csig.sqlite3)")

	return cmd
}

func runIndex(cmd *cobra.Command, opts *IndexOptions, root string) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	dbPath := resolveDBPath(absRoot, opts.DBFile, cfg)
	workers := cfg.Index.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("indexing", "root", absRoot, "db", dbPath, "workers", workers)

	ix := indexer.New(absRoot, dbPath,
		indexer.WithWorkers(workers),
		indexer.WithProgress(func(p indexer.Progress) {
			if p.Done {
				return
			}
			fmt.Fprintf(os.Stderr, "\r%d parsed, %d skipped, %d failed",
				p.Parsed, p.Skipped, p.Failed)
		}),
	)

	summary, err := ix.Run(ctx)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed root: %s\n", summary.Root)
	fmt.Printf("DB path: %s\n", summary.DBPath)
	fmt.Printf("Workers: %d\n", summary.Workers)
	fmt.Printf("Files total: %d\n", summary.FilesSeen)
	fmt.Printf("Files indexed: %d\n", summary.FilesParsed)
	fmt.Printf("Files skipped: %d\n", summary.FilesSkipped)
	fmt.Printf("Files failed: %d\n", summary.FilesFailed)
	fmt.Printf("Functions indexed: %d\n", summary.Functions)
	fmt.Printf("Duration: %s\n", summary.Duration.Round(time.Millisecond))
	if summary.Canceled {
		fmt.Println("Canceled before completion")
	}
	return nil
}

// resolveDBPath picks the index database location: an explicit flag wins,
// then the configured filename, relative names anchored at the project root.
func resolveDBPath(absRoot, flagValue string, cfg *config.Config) string {
	path := cfg.Index.DBFile
	if flagValue != "" {
		path = flagValue
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(absRoot, path)
}
