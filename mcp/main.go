// MCP Server for csig - exposes the C signature index to LLMs
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dedbin/csig/config"
	"github.com/dedbin/csig/indexer"
	"github.com/dedbin/csig/search"
	"github.com/dedbin/csig/store"
)

// Input types for tools
type StatusInput struct {
	Path string `json:"path,omitempty" jsonschema:"Path to a project directory to report index stats for (optional)"`
}

type IndexInput struct {
	Path    string `json:"path" jsonschema:"Path to the project directory to index"`
	Workers int    `json:"workers,omitempty" jsonschema:"Number of parallel parse workers (default: number of CPUs)"`
}

type SearchInput struct {
	Path  string `json:"path" jsonschema:"Path to an indexed project directory"`
	Query string `json:"query" jsonschema:"Search query: a signature like int(int,int), optionally prefixed with a name and ::, e.g. add :: int(int,int)"`
	Top   int    `json:"top,omitempty" jsonschema:"Maximum number of results (default: 20)"`
}

func main() {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "csig",
		Version: "1.0.0",
	}, nil)

	// Tool: status - Verify MCP connection and report index stats
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Verify the csig MCP connection. With a path, also reports how many files and functions its index holds and how many files failed to parse.",
	}, handleStatus)

	// Tool: index_project - Build or refresh the signature index
	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_project",
		Description: "Index the C/C++ sources under a directory, extracting function signatures into a local SQLite database. Unchanged files are skipped, so repeat runs are fast.",
	}, handleIndexProject)

	// Tool: search_signatures - Fuzzy-search the index
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_signatures",
		Description: "Fuzzy-search indexed function signatures. Query form: a bare signature, or 'name :: signature' with either part optional. Results are ranked by edit distance, best first.",
	}, handleSearchSignatures)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Printf("Server error: %v", err)
	}
}

// validatePath validates and returns the absolute path
func validatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %s", absPath)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", absPath)
	}

	return absPath, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

func dbPathFor(root string) string {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if filepath.IsAbs(cfg.Index.DBFile) {
		return cfg.Index.DBFile
	}
	return filepath.Join(root, cfg.Index.DBFile)
}

func handleStatus(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return textResult("csig MCP server is running"), nil, nil
	}

	absRoot, err := validatePath(input.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	dbPath := dbPathFor(absRoot)
	if _, err := os.Stat(dbPath); err != nil {
		return textResult(fmt.Sprintf("no index at %s; run index_project first", dbPath)), nil, nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return errorResult("Open error: " + err.Error()), nil, nil
	}
	defer st.Close()

	states, err := st.FileStates()
	if err != nil {
		return errorResult("Query error: " + err.Error()), nil, nil
	}
	functions, err := st.FunctionCount()
	if err != nil {
		return errorResult("Query error: " + err.Error()), nil, nil
	}
	failed, err := st.ErrorFileCount()
	if err != nil {
		return errorResult("Query error: " + err.Error()), nil, nil
	}

	return textResult(fmt.Sprintf(
		"index at %s: %d files, %d functions, %d files with parse errors",
		dbPath, len(states), functions, failed)), nil, nil
}

func handleIndexProject(ctx context.Context, req *mcp.CallToolRequest, input IndexInput) (*mcp.CallToolResult, any, error) {
	absRoot, err := validatePath(input.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	opts := []indexer.Option{}
	if input.Workers > 0 {
		opts = append(opts, indexer.WithWorkers(input.Workers))
	}

	ix := indexer.New(absRoot, dbPathFor(absRoot), opts...)
	summary, err := ix.Run(ctx)
	if err != nil {
		return errorResult("Index error: " + err.Error()), nil, nil
	}

	return textResult(fmt.Sprintf(
		"indexed %s: %d files parsed, %d skipped, %d failed, %d functions in %s",
		absRoot, summary.FilesParsed, summary.FilesSkipped, summary.FilesFailed,
		summary.Functions, summary.Duration.Round(time.Millisecond))), nil, nil
}

func handleSearchSignatures(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, any, error) {
	absRoot, err := validatePath(input.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	query := search.ParseQuery(input.Query)
	if query.IsEmpty() {
		return errorResult("query is required"), nil, nil
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	top := input.Top
	if top <= 0 {
		top = cfg.Search.Top
	}

	dbPath := dbPathFor(absRoot)
	if _, err := os.Stat(dbPath); err != nil {
		return errorResult(fmt.Sprintf("no index at %s; run index_project first", dbPath)), nil, nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return errorResult("Open error: " + err.Error()), nil, nil
	}
	defer st.Close()

	candidates, err := st.FetchCandidates(ctx, query.Name, query.Signature, cfg.CandidateLimitFor(top))
	if err != nil {
		return errorResult("Query error: " + err.Error()), nil, nil
	}

	results := search.Rank(query, candidates, top)
	if len(results) == 0 {
		return textResult("no matches"), nil, nil
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "[%d] %s\n", r.Score, search.FormatCandidate(r.Candidate))
	}
	return textResult(b.String()), nil, nil
}
