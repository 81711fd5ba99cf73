package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedbin/csig/config"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"index", "search", "tui"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestHelpExamplesCarryRootArgument(t *testing.T) {
	// Every example must be runnable as written; search and tui require a
	// positional root.
	long := NewRootCommand().Long
	assert.Contains(t, long, `csig search . "add :: int(int,int)"`)
	assert.Contains(t, long, "csig tui .")
}

func TestResolveDBPath(t *testing.T) {
	cfg := config.DefaultConfig()
	root := t.TempDir()

	assert.Equal(t, filepath.Join(root, "csig.sqlite3"), resolveDBPath(root, "", cfg))
	assert.Equal(t, filepath.Join(root, "other.db"), resolveDBPath(root, "other.db", cfg))
	assert.Equal(t, "/var/tmp/abs.db", resolveDBPath(root, "/var/tmp/abs.db", cfg))

	cfg.Index.DBFile = "/etc/csig/global.db"
	assert.Equal(t, "/etc/csig/global.db", resolveDBPath(root, "", cfg))
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "short", truncateLine("short", 80))
	assert.Equal(t, "short", truncateLine("short", 0), "no terminal means no truncation")

	long := "src/deeply/nested/path.c:12:3: some_function :: int(int, int)"
	got := truncateLine(long, 20)
	require.Len(t, got, 20)
	assert.Equal(t, "...", got[17:])
}
