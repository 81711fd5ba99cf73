package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWalkFilesSourceOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "int a(void);\n")
	writeFile(t, filepath.Join(root, "b.h"), "int b(void);\n")
	writeFile(t, filepath.Join(root, "sub", "c.cpp"), "int c();\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "hi\n")
	writeFile(t, filepath.Join(root, "build", "gen.c"), "int gen(void);\n")

	var seen []string
	err := WalkFiles(root, WalkOptions{SourceOnly: true}, func(absPath, relPath string, info os.FileInfo) error {
		seen = append(seen, relPath)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkFiles: %v", err)
	}

	want := map[string]bool{"a.c": true, "b.h": true, filepath.Join("sub", "c.cpp"): true}
	if len(seen) != len(want) {
		t.Fatalf("visited %v, want %v", seen, want)
	}
	for _, p := range seen {
		if !want[p] {
			t.Errorf("unexpected file visited: %s", p)
		}
	}
}

func TestWalkFilesRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "generated/\nskip_me.c\n")
	writeFile(t, filepath.Join(root, "keep.c"), "int keep(void);\n")
	writeFile(t, filepath.Join(root, "skip_me.c"), "int skip(void);\n")
	writeFile(t, filepath.Join(root, "generated", "gen.c"), "int gen(void);\n")

	gitignore := LoadGitignore(root)
	if gitignore == nil {
		t.Fatal("LoadGitignore returned nil for a root with .gitignore")
	}

	var seen []string
	err := WalkFiles(root, WalkOptions{Gitignore: gitignore, SourceOnly: true}, func(absPath, relPath string, info os.FileInfo) error {
		seen = append(seen, relPath)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkFiles: %v", err)
	}

	if len(seen) != 1 || seen[0] != "keep.c" {
		t.Errorf("visited %v, want [keep.c]", seen)
	}
}

func TestLoadGitignoreMissing(t *testing.T) {
	if gi := LoadGitignore(t.TempDir()); gi != nil {
		t.Error("expected nil gitignore for empty root")
	}
}

// TestCorpusExtraction needs the C grammar shared library; it is skipped in
// environments without one (see CSIG_GRAMMAR_DIR).
func TestCorpusExtraction(t *testing.T) {
	loader := NewGrammarLoader()
	if !loader.HasGrammars() {
		t.Skip("no tree-sitter grammars available")
	}
	if err := loader.LoadLanguage(LangC); err != nil {
		t.Skipf("C grammar not loadable: %v", err)
	}

	path := filepath.Join("testdata", "corpus", "c", "sample.c")
	analysis, err := loader.AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}

	byName := make(map[string]Function)
	for _, fn := range analysis.Functions {
		byName[fn.Name] = fn
	}

	wantSigs := map[string]string{
		"add":             "int ( int , int )",
		"greet":           "void ( const char * )",
		"strlen_like":     "int ( const char * )",
		"memcpy_like":     "void * ( void * , const void * , size_t )",
		"sum_array":       "int ( int [ ] , size_t )",
		"square_ul":       "ulong_t ( ulong_t )",
		"distance_sq":     "double ( struct Point * )",
		"apply":           "int ( int ( * func ) ( int , int ) , int , int )",
		"sum_variadic":    "int ( int , ... )",
		"internal_helper": "int ( double )",
	}
	for name, wantSig := range wantSigs {
		fn, ok := byName[name]
		if !ok {
			t.Errorf("function %s not extracted", name)
			continue
		}
		if fn.SignatureNorm != wantSig {
			t.Errorf("%s signature = %q, want %q", name, fn.SignatureNorm, wantSig)
		}
		if fn.Location.Line <= 0 || fn.Location.Column <= 0 {
			t.Errorf("%s location not 1-indexed: %+v", name, fn.Location)
		}
	}

	if !byName["sum_variadic"].IsVariadic {
		t.Error("sum_variadic not flagged variadic")
	}
	if byName["add"].IsVariadic {
		t.Error("add flagged variadic")
	}
}
