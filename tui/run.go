package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dedbin/csig/config"
	"github.com/dedbin/csig/indexer"
	"github.com/dedbin/csig/search"
	"github.com/dedbin/csig/store"
)

// Run opens the index database and runs the browser until the user quits.
func Run(root, dbPath string, cfg *config.Config) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open index db: %w", err)
	}
	defer st.Close()

	searcher := func(ctx context.Context, raw string, top int) ([]search.Result, error) {
		q := search.ParseQuery(raw)
		candidates, err := st.FetchCandidates(ctx, q.Name, q.Signature, cfg.CandidateLimitFor(top))
		if err != nil {
			return nil, err
		}
		return search.Rank(q, candidates, top), nil
	}

	indexFn := func(ctx context.Context, progress indexer.ProgressFunc) (indexer.Summary, error) {
		ix := indexer.New(root, dbPath,
			indexer.WithWorkers(cfg.Index.Workers),
			indexer.WithProgress(progress),
		)
		return ix.Run(ctx)
	}

	model := New(searcher, indexFn,
		WithRoot(root),
		WithDebounce(time.Duration(cfg.TUI.DebounceMs)*time.Millisecond),
		WithResultLimit(cfg.TUI.ResultLimit),
	)

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
