package indexer

import "sync"

// Progress is a point-in-time snapshot of an index run.
type Progress struct {
	Discovered int
	Parsed     int
	Skipped    int
	Failed     int
	Functions  int
	Done       bool
}

// ProgressFunc receives progress snapshots during a run. Calls are
// serialized; the callback must not block for long or the writer stalls.
type ProgressFunc func(Progress)

// tracker counts pipeline events and forwards snapshots to the callback.
type tracker struct {
	mu   sync.Mutex
	p    Progress
	emit ProgressFunc
}

func newTracker(emit ProgressFunc) *tracker {
	return &tracker{emit: emit}
}

func (t *tracker) update(fn func(*Progress)) {
	t.mu.Lock()
	fn(&t.p)
	snapshot := t.p
	t.mu.Unlock()

	if t.emit != nil {
		// A panicking callback must not take the run down with it.
		func() {
			defer func() { _ = recover() }()
			t.emit(snapshot)
		}()
	}
}

func (t *tracker) discovered() { t.update(func(p *Progress) { p.Discovered++ }) }
func (t *tracker) skipped()    { t.update(func(p *Progress) { p.Skipped++ }) }
func (t *tracker) failed()     { t.update(func(p *Progress) { p.Failed++ }) }

func (t *tracker) parsed(functions int) {
	t.update(func(p *Progress) {
		p.Parsed++
		p.Functions += functions
	})
}

func (t *tracker) finish() { t.update(func(p *Progress) { p.Done = true }) }

func (t *tracker) snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}
