package scanner

import "testing"

func TestNormalizeDecl(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already spaced", "int ( int , int )", "int ( int , int )"},
		{"compact", "int (int,int)", "int ( int , int )"},
		{"pointer", "const char *", "const char *"},
		{"pointer glued", "const char*s", "const char * s"},
		{"variadic ellipsis", "int (int, ...)", "int ( int , ... )"},
		{"empty", "", ""},
		{"whitespace runs", "unsigned   long\t\tx", "unsigned long x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDecl(tc.in); got != tc.want {
				t.Errorf("NormalizeDecl(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizedSignature(t *testing.T) {
	cases := []struct {
		name string
		fn   Function
		want string
	}{
		{
			"two ints",
			Function{ReturnType: "int", Params: []Param{{Type: "int", Name: "a"}, {Type: "int", Name: "b"}}},
			"int ( int , int )",
		},
		{
			"no params",
			Function{ReturnType: "void"},
			"void ( )",
		},
		{
			"pointer param",
			Function{ReturnType: "int", Params: []Param{{Type: "const char *", Name: "s"}}},
			"int ( const char * )",
		},
		{
			"variadic",
			Function{ReturnType: "int", Params: []Param{{Type: "int", Name: "count"}}, IsVariadic: true},
			"int ( int , ... )",
		},
		{
			"pointer return",
			Function{ReturnType: "void *", Params: []Param{{Type: "void *"}, {Type: "const void *"}, {Type: "size_t"}}},
			"void * ( void * , const void * , size_t )",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn.NormalizedSignature(); got != tc.want {
				t.Errorf("NormalizedSignature() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSplitParams(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		want     []Param
		variadic bool
	}{
		{"empty list", "()", nil, false},
		{"void list", "(void)", nil, false},
		{
			"named ints",
			"(int a, int b)",
			[]Param{{Type: "int", Name: "a"}, {Type: "int", Name: "b"}},
			false,
		},
		{
			"pointer with name",
			"(const char *name)",
			[]Param{{Type: "const char *", Name: "name"}},
			false,
		},
		{
			"unnamed prototype",
			"(int, const char *)",
			[]Param{{Type: "int"}, {Type: "const char *"}},
			false,
		},
		{
			"array parameter",
			"(int arr[], size_t n)",
			[]Param{{Type: "int []", Name: "arr"}, {Type: "size_t", Name: "n"}},
			false,
		},
		{
			"variadic tail",
			"(int count, ...)",
			[]Param{{Type: "int", Name: "count"}},
			true,
		},
		{
			"type keywords only",
			"(unsigned long)",
			[]Param{{Type: "unsigned long"}},
			false,
		},
		{
			"function pointer keeps nested commas",
			"(int (*func)(int, int), int a, int b)",
			[]Param{{Type: "int ( * func ) ( int , int )"}, {Type: "int", Name: "a"}, {Type: "int", Name: "b"}},
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, variadic := splitParams(tc.in)
			if variadic != tc.variadic {
				t.Errorf("variadic = %v, want %v", variadic, tc.variadic)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d params %+v, want %d", len(got), got, len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("param %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"main.c", LangC},
		{"widget.cpp", LangCPP},
		{"widget.cc", LangCPP},
		{"api.h", LangC},
		{"api.hpp", LangC},
		{"README.md", ""},
		{"script.py", ""},
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.path); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestLanguageCandidates(t *testing.T) {
	if got := LanguageCandidates("x.c"); len(got) != 1 || got[0] != LangC {
		t.Errorf("candidates for .c = %v", got)
	}
	if got := LanguageCandidates("x.h"); len(got) != 2 || got[0] != LangC || got[1] != LangCPP {
		t.Errorf("candidates for .h = %v", got)
	}
	if got := LanguageCandidates("x.txt"); got != nil {
		t.Errorf("candidates for .txt = %v", got)
	}
}
