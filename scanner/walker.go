package scanner

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoredDirs are directories to skip during scanning.
var IgnoredDirs = map[string]bool{
	".git":                true,
	".svn":                true,
	".hg":                 true,
	"node_modules":        true,
	"build":               true,
	"cmake-build-debug":   true,
	"cmake-build-release": true,
	"CMakeFiles":          true,
	"out":                 true,
	"dist":                true,
	".idea":               true,
	".vscode":             true,
	".cache":              true,
	"__pycache__":         true,
	".DS_Store":           true,
}

// WalkOptions configures the file walking behavior.
type WalkOptions struct {
	// Gitignore patterns to apply (can be nil)
	Gitignore *ignore.GitIgnore

	// SourceOnly, if true, only visits C/C++ sources and headers
	SourceOnly bool
}

// WalkFunc is the callback for WalkFiles. It receives the absolute path,
// the path relative to the walk root, and the file info.
// Return filepath.SkipDir to skip a directory, any other error to stop.
type WalkFunc func(absPath, relPath string, info os.FileInfo) error

// WalkFiles walks the directory tree and calls fn for each file. Traversal
// is decoupled from what callers do with the files.
func WalkFiles(root string, opts WalkOptions, fn WalkFunc) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if IgnoredDirs[info.Name()] {
				return filepath.SkipDir
			}
		} else if IgnoredDirs[info.Name()] {
			return nil
		}

		if opts.Gitignore != nil && opts.Gitignore.MatchesPath(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		if opts.SourceOnly && !IsSourceFile(path) {
			return nil
		}

		return fn(path, relPath, info)
	})
}

// LoadGitignore loads .gitignore from root if it exists.
func LoadGitignore(root string) *ignore.GitIgnore {
	gitignorePath := filepath.Join(root, ".gitignore")

	if _, err := os.Stat(gitignorePath); err == nil {
		if gitignore, err := ignore.CompileIgnoreFile(gitignorePath); err == nil {
			return gitignore
		}
	}

	return nil
}
