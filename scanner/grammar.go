package scanner

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFiles embed.FS

// LanguageConfig holds a dynamically loaded parser and its capture query.
type LanguageConfig struct {
	Language *tree_sitter.Language
	Query    *tree_sitter.Query
}

// GrammarLoader handles dynamic loading of the C and C++ tree-sitter
// grammars from shared libraries.
type GrammarLoader struct {
	configs    map[string]*LanguageConfig
	grammarDir string
}

// NewGrammarLoader creates a loader that searches known grammar locations.
func NewGrammarLoader() *GrammarLoader {
	loader := &GrammarLoader{
		configs: make(map[string]*LanguageConfig),
	}

	// Env var wins so packaged installs can point anywhere.
	possibleDirs := []string{}
	if envDir := os.Getenv("CSIG_GRAMMAR_DIR"); envDir != "" {
		possibleDirs = append(possibleDirs, envDir)
	}
	possibleDirs = append(possibleDirs,
		filepath.Join(getExecutableDir(), "grammars"),
		filepath.Join(getExecutableDir(), "..", "lib", "grammars"),
		"/usr/local/lib/csig/grammars",
		filepath.Join(os.Getenv("HOME"), ".csig", "grammars"),
		"./grammars",
		"./scanner/grammars",
	)

	for _, dir := range possibleDirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			loader.grammarDir = dir
			break
		}
	}

	return loader
}

// HasGrammars returns true if a grammar directory was found.
func (l *GrammarLoader) HasGrammars() bool {
	return l.grammarDir != ""
}

// GrammarDir returns the grammar directory path (for diagnostics).
func (l *GrammarLoader) GrammarDir() string {
	return l.grammarDir
}

// LoadLanguage dynamically loads a grammar from .so/.dylib/.dll.
func (l *GrammarLoader) LoadLanguage(lang string) error {
	if _, exists := l.configs[lang]; exists {
		return nil
	}

	if l.grammarDir == "" {
		return fmt.Errorf("no grammar directory found")
	}

	var libExt string
	switch runtime.GOOS {
	case "darwin":
		libExt = ".dylib"
	case "windows":
		libExt = ".dll"
	default:
		libExt = ".so"
	}

	libPath := filepath.Join(l.grammarDir, fmt.Sprintf("libtree-sitter-%s%s", lang, libExt))
	lib, err := loadLibrary(libPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", libPath, err)
	}

	langFunc, err := getLanguageFunc(lib, lang)
	if err != nil {
		return fmt.Errorf("get func for %s: %w", lang, err)
	}
	language := tree_sitter.NewLanguage(langFunc())

	queryBytes, err := queryFiles.ReadFile(fmt.Sprintf("queries/%s.scm", lang))
	if err != nil {
		return fmt.Errorf("no query for %s", lang)
	}

	query, qerr := tree_sitter.NewQuery(language, string(queryBytes))
	if qerr != nil {
		return fmt.Errorf("bad query for %s: %v", lang, qerr)
	}

	l.configs[lang] = &LanguageConfig{Language: language, Query: query}
	return nil
}

// AnalyzeFile extracts function declarations from a C/C++ source or header.
// Headers are parsed as C first and retried as C++ when the C parse reports
// syntax errors. The returned error describes why no candidate succeeded.
func (l *GrammarLoader) AnalyzeFile(filePath string) (*FileAnalysis, error) {
	candidates := LanguageCandidates(filePath)
	if len(candidates) == 0 {
		return nil, nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, lang := range candidates {
		if err := l.LoadLanguage(lang); err != nil {
			lastErr = err
			continue
		}

		analysis, err := l.extract(filePath, lang, content)
		if err != nil {
			lastErr = err
			continue
		}
		return analysis, nil
	}

	return nil, fmt.Errorf("parse %s: %w", filePath, lastErr)
}

// extract runs the capture query for one grammar over parsed content.
func (l *GrammarLoader) extract(filePath, lang string, content []byte) (*FileAnalysis, error) {
	config := l.configs[lang]

	parser := tree_sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(config.Language)

	tree := parser.Parse(content, nil)
	defer tree.Close()

	if tree.RootNode().HasError() {
		return nil, fmt.Errorf("%s: syntax errors", lang)
	}

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	analysis := &FileAnalysis{Path: filePath, Language: lang}

	// One builder per query match: captures for a single declaration share
	// a match id.
	builders := make(map[uint]*funcCapture)

	matches := cursor.Matches(config.Query, tree.RootNode(), content)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			captureName := config.Query.CaptureNames()[capture.Index]
			text := capture.Node.Utf8Text(content)
			line := int(capture.Node.StartPosition().Row) + 1
			column := int(capture.Node.StartPosition().Column) + 1
			handleFuncCapture(builders, match.Id(), captureName, text, line, column)
		}
	}

	for _, fc := range builders {
		if fc.name == "" {
			continue
		}
		fn := fc.Build(filePath)
		fn.SignatureNorm = fn.NormalizedSignature()
		analysis.Functions = append(analysis.Functions, fn)
	}

	sortFunctions(analysis.Functions)
	analysis.Functions = dedupeFunctions(analysis.Functions)
	return analysis, nil
}

// funcCapture collects the components of one function declaration.
type funcCapture struct {
	name       string
	result     string
	params     string
	pointerRet int
	line       int
	column     int
}

// handleFuncCapture routes a named capture into the per-match builder.
func handleFuncCapture(builders map[uint]*funcCapture, matchID uint, name, text string, line, column int) {
	if builders[matchID] == nil {
		builders[matchID] = &funcCapture{}
	}
	fc := builders[matchID]

	switch name {
	case "func.name":
		fc.name = text
		fc.line = line
		fc.column = column
	case "func.result":
		fc.result = text
	case "func.params":
		fc.params = text
	case "func.ptr":
		// The declarator wraps a pointer level around the return type.
		fc.pointerRet++
	}
}

// Build constructs a Function from the captured components.
func (fc *funcCapture) Build(filePath string) Function {
	returnType := fc.result
	for i := 0; i < fc.pointerRet; i++ {
		returnType += " *"
	}

	params, variadic := splitParams(fc.params)

	return Function{
		Name: fc.name,
		Location: Location{
			File:   filePath,
			Line:   fc.line,
			Column: fc.column,
		},
		ReturnType: returnType,
		Params:     params,
		IsVariadic: variadic,
	}
}

// dedupeFunctions drops repeated declarations of the same function, keeping
// the first occurrence. A prototype followed by its definition is one entry.
func dedupeFunctions(fns []Function) []Function {
	seen := make(map[string]bool)
	var out []Function
	for _, f := range fns {
		key := f.Name + "\x00" + f.SignatureNorm
		if !seen[key] {
			seen[key] = true
			out = append(out, f)
		}
	}
	return out
}

func getExecutableDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	return "."
}
