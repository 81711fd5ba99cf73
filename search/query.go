// Package search ranks indexed functions against fuzzy user queries.
package search

import (
	"strings"

	"github.com/dedbin/csig/scanner"
)

// Query is a parsed search input. Either part may be empty.
type Query struct {
	Name      string
	Signature string
}

// ParseQuery parses a raw query. Supported forms:
//
//	"<signature>"
//	"<name> :: <signature>"
//
// The signature part is normalized to canonical token form so
// "int(int,int)" and "int ( int , int )" compare equal. An empty part on
// either side of "::" is allowed: "add ::" searches by name only.
func ParseQuery(raw string) Query {
	name, sig, found := strings.Cut(raw, "::")
	if !found {
		return Query{Signature: normalizeQuerySig(strings.TrimSpace(raw))}
	}
	return Query{
		Name:      strings.TrimSpace(name),
		Signature: normalizeQuerySig(strings.TrimSpace(sig)),
	}
}

// IsEmpty reports whether the query has nothing to match against.
func (q Query) IsEmpty() bool {
	return q.Name == "" && q.Signature == ""
}

func normalizeQuerySig(s string) string {
	if s == "" {
		return ""
	}
	return scanner.NormalizeDecl(s)
}
