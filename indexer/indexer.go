// Package indexer runs the scan-parse-store pipeline that keeps the
// signature database in sync with a source tree.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dedbin/csig/scanner"
	"github.com/dedbin/csig/store"
)

// ParseFunc turns a source file into its extracted functions.
type ParseFunc func(absPath string) (*scanner.FileAnalysis, error)

// Summary describes a completed (or canceled) index run.
type Summary struct {
	RunID        string
	Root         string
	DBPath       string
	Workers      int
	FilesSeen    int
	FilesParsed  int
	FilesSkipped int
	FilesFailed  int
	Functions    int
	Duration     time.Duration
	Canceled     bool
}

// Indexer scans a project root and writes extracted signatures to the
// index database.
type Indexer struct {
	root     string
	dbPath   string
	workers  int
	parse    ParseFunc
	progress ProgressFunc
	ignorer  *ignore.GitIgnore
	log      *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithWorkers sets the number of parallel parse workers.
func WithWorkers(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// WithProgress installs a callback that receives progress snapshots.
func WithProgress(fn ProgressFunc) Option {
	return func(ix *Indexer) { ix.progress = fn }
}

// WithGitignore overrides the ignore patterns loaded from the root.
func WithGitignore(gi *ignore.GitIgnore) Option {
	return func(ix *Indexer) { ix.ignorer = gi }
}

// WithParser overrides how files are parsed. Used by tests and by callers
// that share a grammar loader.
func WithParser(fn ParseFunc) Option {
	return func(ix *Indexer) { ix.parse = fn }
}

// WithLogger sets the logger for per-file diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(ix *Indexer) { ix.log = log }
}

// New creates an indexer for the project at root, writing to the database
// at dbPath.
func New(root, dbPath string, opts ...Option) *Indexer {
	ix := &Indexer{
		root:    root,
		dbPath:  dbPath,
		workers: runtime.NumCPU(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.ignorer == nil {
		ix.ignorer = scanner.LoadGitignore(root)
	}
	if ix.parse == nil {
		loader := scanner.NewGrammarLoader()
		ix.parse = loader.AnalyzeFile
	}
	return ix
}

// job is one file the discovery loop decided needs parsing.
type job struct {
	absPath string
	relPath string
	mtime   int64
	size    int64
}

// result pairs a job with its parse outcome.
type result struct {
	job      job
	analysis *scanner.FileAnalysis
	err      error
}

// Run walks the tree, parses changed files in parallel, and applies all
// database writes from a single goroutine. Unchanged files (same mtime and
// size as last run) are skipped without parsing. Cancellation via ctx stops
// discovery; in-flight parses finish and their results are still written,
// so a canceled run leaves a consistent partial index.
func (ix *Indexer) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	st, err := store.Open(ix.dbPath)
	if err != nil {
		return Summary{}, fmt.Errorf("open index db: %w", err)
	}
	defer st.Close()

	known, err := st.FileStates()
	if err != nil {
		return Summary{}, fmt.Errorf("load file states: %w", err)
	}

	track := newTracker(ix.progress)
	jobs := make(chan job, ix.workers*2)
	results := make(chan result, ix.workers*2)

	var walkErr error
	go func() {
		defer close(jobs)
		walkErr = ix.discover(ctx, known, jobs, track)
	}()

	var wg sync.WaitGroup
	for i := 0; i < ix.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				analysis, err := ix.parse(j.absPath)
				results <- result{job: j, analysis: analysis, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// All writes happen here, on one goroutine, against the single
	// connection the store holds open.
	for res := range results {
		if err := ix.write(st, res, track); err != nil {
			ix.log.Error("index write failed", "file", res.job.relPath, "error", err)
		}
	}

	track.finish()
	snap := track.snapshot()

	summary := Summary{
		RunID:        uuid.NewString(),
		Root:         ix.root,
		DBPath:       ix.dbPath,
		Workers:      ix.workers,
		FilesSeen:    snap.Discovered + snap.Skipped,
		FilesParsed:  snap.Parsed,
		FilesSkipped: snap.Skipped,
		FilesFailed:  snap.Failed,
		Functions:    snap.Functions,
		Duration:     time.Since(start),
		Canceled:     ctx.Err() != nil,
	}

	if walkErr != nil && ctx.Err() == nil {
		return summary, fmt.Errorf("walk %s: %w", ix.root, walkErr)
	}
	return summary, nil
}

// discover walks the source tree and queues files whose (mtime, size) pair
// differs from the stored state.
func (ix *Indexer) discover(ctx context.Context, known map[string]store.FileState, jobs chan<- job, track *tracker) error {
	opts := scanner.WalkOptions{Gitignore: ix.ignorer, SourceOnly: true}
	return scanner.WalkFiles(ix.root, opts, func(absPath, relPath string, info os.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		mtime := info.ModTime().UnixNano()
		size := info.Size()
		if state, ok := known[relPath]; ok && state.Mtime == mtime && state.Size == size {
			track.skipped()
			return nil
		}

		track.discovered()
		select {
		case jobs <- job{absPath: absPath, relPath: relPath, mtime: mtime, size: size}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// write records one parse result. Parse failures are stored on the file row
// so they surface in status output instead of aborting the run.
func (ix *Indexer) write(st *store.Store, res result, track *tracker) error {
	fileID, err := st.UpsertFile(res.job.relPath, res.job.mtime, res.job.size)
	if err != nil {
		track.failed()
		return err
	}

	if res.err != nil {
		track.failed()
		ix.log.Debug("parse failed", "file", res.job.relPath, "error", res.err)
		return st.MarkError(fileID, res.job.mtime, res.job.size, res.err.Error())
	}

	var fns []scanner.Function
	if res.analysis != nil {
		fns = res.analysis.Functions
	}
	if err := st.ReplaceFunctions(fileID, fns); err != nil {
		track.failed()
		return err
	}
	if err := st.MarkParsed(fileID, res.job.mtime, res.job.size); err != nil {
		track.failed()
		return err
	}

	track.parsed(len(fns))
	return nil
}
