package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dedbin/csig/indexer"
	"github.com/dedbin/csig/search"
	"github.com/dedbin/csig/store"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	DBFile  string
	Top     int
	Workers int
	Scores  bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <root> <query>",
		Short: "Fuzzy-search indexed signatures",
		Long: `Search the signature index of a project. The index is refreshed first,
so results always reflect the current sources; unchanged files make the
refresh cheap. The query is a signature, optionally prefixed with a name
and '::'. Results are ranked by edit distance, best first.

Example:
  csig search . "int(int,int)"
  csig search ~/src/libfoo "add :: int(int,int)" --top 5
  csig search . "memcpy_like ::"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.DBFile, "db", "", "index database path (default: <root>/csig.sqlite3)")
	cmd.Flags().IntVar(&opts.Top, "top", 0, "maximum results (default: 20)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "workers used for the refresh (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.Scores, "scores", false, "prefix each result with its distance score")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions, root, raw string) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	query := search.ParseQuery(raw)
	if query.IsEmpty() {
		return fmt.Errorf("empty query")
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

	// Keep the index fresh before querying.
	ix := indexer.New(absRoot, dbPath, indexer.WithWorkers(workers))
	if _, err := ix.Run(cmd.Context()); err != nil {
		return fmt.Errorf("refresh index: %w", err)
	}

	top := cfg.Search.Top
	if opts.Top > 0 {
		top = opts.Top
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open index db: %w", err)
	}
	defer st.Close()

	candidates, err := st.FetchCandidates(cmd.Context(), query.Name, query.Signature, cfg.CandidateLimitFor(top))
	if err != nil {
		return err
	}

	results := search.Rank(query, candidates, top)
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}

	width := terminalWidth()
	for _, r := range results {
		line := search.FormatCandidate(r.Candidate)
		if opts.Scores {
			line = fmt.Sprintf("[%d] %s", r.Score, line)
		}
		fmt.Println(truncateLine(line, width))
	}
	return nil
}

// terminalWidth returns the stdout width, or 0 when stdout is not a
// terminal (piped output is never truncated).
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func truncateLine(line string, width int) string {
	if width <= 3 || len(line) <= width {
		return line
	}
	return line[:width-3] + "..."
}
