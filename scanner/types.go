package scanner

import (
	"path/filepath"
	"strings"
)

// Language names used by the grammar loader.
const (
	LangC   = "c"
	LangCPP = "cpp"
)

// Extension sets for the file types the indexer accepts.
var (
	cExtensions      = map[string]bool{".c": true}
	cppExtensions    = map[string]bool{".cc": true, ".cpp": true, ".cxx": true, ".c++": true}
	headerExtensions = map[string]bool{".h": true, ".hh": true, ".hpp": true, ".hxx": true}
)

// DetectLanguage returns the grammar name for a file path, or "" for files
// the scanner does not handle.
func DetectLanguage(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch {
	case cExtensions[ext]:
		return LangC
	case cppExtensions[ext]:
		return LangCPP
	case headerExtensions[ext]:
		return LangC
	default:
		return ""
	}
}

// LanguageCandidates returns the grammars to try for a path, in order.
// Headers can be either language, so both are attempted.
func LanguageCandidates(filePath string) []string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch {
	case cExtensions[ext]:
		return []string{LangC}
	case cppExtensions[ext]:
		return []string{LangCPP}
	case headerExtensions[ext]:
		return []string{LangC, LangCPP}
	default:
		return nil
	}
}

// IsSourceFile reports whether the path has an extension the indexer accepts.
func IsSourceFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return cExtensions[ext] || cppExtensions[ext] || headerExtensions[ext]
}

// Location is a 1-indexed position of a declaration in a file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Param is a single function parameter. Name may be empty for unnamed
// prototype parameters.
type Param struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Function is one extracted function declaration or definition.
type Function struct {
	Name       string   `json:"name"`
	Location   Location `json:"location"`
	ReturnType string   `json:"return_type"`
	Params     []Param  `json:"params"`
	IsVariadic bool     `json:"is_variadic,omitempty"`

	// SignatureNorm is the token-normalized signature, filled in by the
	// scanner once the return type and parameters are known.
	SignatureNorm string `json:"signature_norm,omitempty"`
}

// FileAnalysis holds everything extracted from a single source file.
type FileAnalysis struct {
	Path      string     `json:"path"`
	Language  string     `json:"language"`
	Functions []Function `json:"functions"`
}
