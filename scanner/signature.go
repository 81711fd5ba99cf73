package scanner

import (
	"sort"
	"strings"
)

// NormalizeDecl rewrites a C declaration fragment into canonical token form:
// identifiers and numbers are single tokens, "..." is one token, every other
// punctuation character stands alone, and tokens are joined by single spaces.
// "int (int,int)" and "int ( int , int )" normalize identically.
func NormalizeDecl(s string) string {
	return strings.Join(tokenizeDecl(s), " ")
}

// tokenizeDecl splits a declaration fragment into C-ish tokens.
func tokenizeDecl(s string) []string {
	var tokens []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			tokens = append(tokens, s[i:j])
			i = j
		case c == '.' && strings.HasPrefix(s[i:], "..."):
			tokens = append(tokens, "...")
			i += 3
		default:
			tokens = append(tokens, string(c))
			i++
		}
	}
	return tokens
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// NormalizedSignature returns the canonical "ret ( t1 , t2 )" form used for
// storage and matching. Parameter names are dropped; a variadic declaration
// gets a trailing "..." entry.
func (f Function) NormalizedSignature() string {
	paramTypes := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		paramTypes = append(paramTypes, NormalizeDecl(p.Type))
	}
	if f.IsVariadic {
		paramTypes = append(paramTypes, "...")
	}
	return NormalizeDecl(f.ReturnType) + " ( " + strings.Join(paramTypes, " , ") + " )"
}

// splitParams parses the text of a parameter list, e.g. "(int a, char *b)".
// It returns the parameters and whether the list is variadic. "(void)" and
// "()" both mean no parameters.
func splitParams(list string) ([]Param, bool) {
	s := strings.TrimSpace(list)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)

	if s == "" || s == "void" {
		return nil, false
	}

	var params []Param
	variadic := false
	for _, piece := range splitTopLevel(s) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if piece == "..." {
			variadic = true
			continue
		}
		params = append(params, parseParam(piece))
	}
	return params, variadic
}

// splitTopLevel splits on commas that are not nested inside brackets, so
// "int a, int (*f)(int, int)" yields two pieces.
func splitTopLevel(s string) []string {
	var pieces []string
	depth := 0
	start := 0
	for i, ch := range s {
		switch ch {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case ',':
			if depth == 0 {
				pieces = append(pieces, s[start:i])
				start = i + 1
			}
		}
	}
	pieces = append(pieces, s[start:])
	return pieces
}

// cTypeKeywords are words that can never be a parameter name. Used to tell
// "unsigned long" (type only) apart from "unsigned long x".
var cTypeKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"const": true, "volatile": true, "struct": true, "union": true,
	"enum": true, "restrict": true, "_Bool": true, "bool": true,
	"size_t": true, "ssize_t": true,
}

// parseParam splits one parameter into its type and optional name. The name,
// when present, is the trailing identifier; everything before it (including
// pointer stars and array suffixes after it) belongs to the type.
func parseParam(piece string) Param {
	// Move a trailing array suffix into the type: "int arr[]" -> "int []".
	arraySuffix := ""
	for strings.HasSuffix(piece, "]") {
		open := strings.LastIndex(piece, "[")
		if open < 0 {
			break
		}
		arraySuffix = piece[open:] + arraySuffix
		piece = strings.TrimSpace(piece[:open])
	}

	tokens := tokenizeDecl(piece)
	if len(tokens) == 0 {
		return Param{Type: strings.TrimSpace(piece + " " + arraySuffix)}
	}

	last := tokens[len(tokens)-1]
	isName := len(tokens) > 1 && isIdentToken(last) && !cTypeKeywords[last]

	if !isName {
		return Param{Type: strings.TrimSpace(strings.Join(tokens, " ") + " " + arraySuffix)}
	}

	typeTokens := tokens[:len(tokens)-1]
	return Param{
		Type: strings.TrimSpace(strings.Join(typeTokens, " ") + " " + arraySuffix),
		Name: last,
	}
}

func isIdentToken(tok string) bool {
	if tok == "" {
		return false
	}
	if tok[0] >= '0' && tok[0] <= '9' {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if !isIdentByte(tok[i]) {
			return false
		}
	}
	return true
}

// sortFunctions orders extracted functions by position in the file.
func sortFunctions(fns []Function) {
	sort.Slice(fns, func(i, j int) bool {
		if fns[i].Location.Line != fns[j].Location.Line {
			return fns[i].Location.Line < fns[j].Location.Line
		}
		return fns[i].Location.Column < fns[j].Location.Column
	})
}
