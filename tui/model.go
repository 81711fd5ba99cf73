// Package tui implements the interactive signature browser: a query input
// on top, a result table below, live-updated as the user types.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dedbin/csig/indexer"
	"github.com/dedbin/csig/search"
)

// Searcher runs one ranked query. The TUI never touches the store directly
// so tests can substitute a fake.
type Searcher func(ctx context.Context, raw string, top int) ([]search.Result, error)

// IndexFunc starts a full index run, reporting progress through the
// callback.
type IndexFunc func(ctx context.Context, progress indexer.ProgressFunc) (indexer.Summary, error)

type debounceMsg struct {
	token int
}

type resultsMsg struct {
	token   int
	results []search.Result
	err     error
}

type indexProgressMsg struct {
	p indexer.Progress
}

type indexDoneMsg struct {
	summary indexer.Summary
	err     error
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model for the browser.
type Model struct {
	input    textinput.Model
	table    table.Model
	searcher Searcher
	indexFn  IndexFunc

	root        string
	debounce    time.Duration
	resultLimit int

	// searchToken invalidates stale debounce timers and stale results:
	// only messages carrying the current token are applied.
	searchToken int

	results []search.Result
	status  string
	errText string

	indexing    bool
	cancelIndex context.CancelFunc
	progressCh  chan indexer.Progress

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithRoot sets the project root shown in the header.
func WithRoot(root string) Option {
	return func(m *Model) { m.root = root }
}

// WithDebounce sets how long typing must pause before a search fires.
func WithDebounce(d time.Duration) Option {
	return func(m *Model) { m.debounce = d }
}

// WithResultLimit caps how many rows the table shows.
func WithResultLimit(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.resultLimit = n
		}
	}
}

// New builds the browser model. searcher is required; indexFn may be nil,
// which disables the reindex key.
func New(searcher Searcher, indexFn IndexFunc, opts ...Option) Model {
	input := textinput.New()
	input.Placeholder = `signature, or name :: signature  (e.g. add :: int(int,int))`
	input.Focus()

	cols := []table.Column{
		{Title: "Location", Width: 32},
		{Title: "Name", Width: 24},
		{Title: "Signature", Width: 44},
	}
	tbl := table.New(table.WithColumns(cols), table.WithHeight(12))

	m := Model{
		input:       input,
		table:       tbl,
		searcher:    searcher,
		indexFn:     indexFn,
		debounce:    250 * time.Millisecond,
		resultLimit: 50,
		status:      "type to search, ctrl+r to reindex, ctrl+c to quit",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancelIndex != nil {
				m.cancelIndex()
			}
			return m, tea.Quit

		case "ctrl+r":
			return m.startIndex()

		case "esc":
			if m.indexing && m.cancelIndex != nil {
				m.cancelIndex()
				m.status = "canceling index run"
				return m, nil
			}
			m.input.SetValue("")
			m.results = nil
			m.table.SetRows(nil)
			m.errText = ""
			return m, nil

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.searchToken++
			return m, tea.Batch(cmd, m.debounceCmd(m.searchToken))
		}
		return m, cmd

	case debounceMsg:
		if msg.token != m.searchToken {
			return m, nil // superseded by later keystrokes
		}
		return m, m.searchCmd(msg.token, m.input.Value())

	case resultsMsg:
		if msg.token != m.searchToken {
			return m, nil
		}
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.setResults(msg.results)
		return m, nil

	case indexProgressMsg:
		if !m.indexing {
			return m, nil // stale snapshot delivered after the run finished
		}
		done := msg.p.Parsed + msg.p.Skipped + msg.p.Failed
		total := msg.p.Discovered + msg.p.Skipped
		m.status = fmt.Sprintf("indexing %d/%d: %d indexed, %d skipped, %d errors, %d functions",
			done, total, msg.p.Parsed, msg.p.Skipped, msg.p.Failed, msg.p.Functions)
		return m, m.waitForProgress()

	case indexDoneMsg:
		m.indexing = false
		m.cancelIndex = nil
		m.progressCh = nil
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.status = "index failed"
			return m, nil
		}
		verb := "indexed"
		if msg.summary.Canceled {
			verb = "index canceled after"
		}
		m.status = fmt.Sprintf("%s %d files, %d functions in %s",
			verb, msg.summary.FilesParsed, msg.summary.Functions,
			msg.summary.Duration.Round(time.Millisecond))
		// Rerun the current query against the fresh index.
		if m.input.Value() != "" {
			m.searchToken++
			return m, m.searchCmd(m.searchToken, m.input.Value())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	header := headerStyle.Render("csig")
	if m.root != "" {
		header += statusStyle.Render(" " + m.root)
	}
	status := statusStyle.Render(m.status)
	if m.errText != "" {
		status = errorStyle.Render(m.errText)
	}
	return header + "\n" + m.input.View() + "\n\n" + m.table.View() + "\n" + status + "\n"
}

// Results exposes the current result set for tests.
func (m Model) Results() []search.Result {
	return m.results
}

// Status exposes the current status line for tests.
func (m Model) Status() string {
	return m.status
}

func (m *Model) resize() {
	if m.width <= 0 {
		return
	}
	// Name and location get fixed shares, the signature takes the rest.
	nameW := m.width / 5
	locW := m.width / 4
	sigW := m.width - nameW - locW - 6
	if sigW < 20 {
		sigW = 20
	}
	m.table.SetColumns([]table.Column{
		{Title: "Location", Width: locW},
		{Title: "Name", Width: nameW},
		{Title: "Signature", Width: sigW},
	})
	if m.height > 8 {
		m.table.SetHeight(m.height - 6)
	}
}

func (m *Model) setResults(results []search.Result) {
	if len(results) > m.resultLimit {
		results = results[:m.resultLimit]
	}
	m.results = results

	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, table.Row{
			fmt.Sprintf("%s:%d:%d", r.Path, r.Line, r.Column),
			r.Name,
			search.FormatSignature(r.Candidate),
		})
	}
	m.table.SetRows(rows)
	m.status = fmt.Sprintf("%d results", len(results))
}

func (m Model) debounceCmd(token int) tea.Cmd {
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{token: token}
	})
}

func (m Model) searchCmd(token int, raw string) tea.Cmd {
	if search.ParseQuery(raw).IsEmpty() {
		return func() tea.Msg {
			return resultsMsg{token: token}
		}
	}
	searcher := m.searcher
	limit := m.resultLimit
	return func() tea.Msg {
		results, err := searcher(context.Background(), raw, limit)
		return resultsMsg{token: token, results: results, err: err}
	}
}

func (m Model) startIndex() (tea.Model, tea.Cmd) {
	if m.indexFn == nil || m.indexing {
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.indexing = true
	m.cancelIndex = cancel
	m.progressCh = make(chan indexer.Progress, 16)
	m.status = "indexing"

	ch := m.progressCh
	indexFn := m.indexFn
	runCmd := func() tea.Msg {
		summary, err := indexFn(ctx, func(p indexer.Progress) {
			select {
			case ch <- p:
			default: // drop snapshots rather than stall the writer
			}
		})
		close(ch)
		return indexDoneMsg{summary: summary, err: err}
	}
	return m, tea.Batch(runCmd, m.waitForProgress())
}

func (m Model) waitForProgress() tea.Cmd {
	ch := m.progressCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return indexProgressMsg{p: p}
	}
}
