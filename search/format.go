package search

import (
	"fmt"
	"strings"

	"github.com/dedbin/csig/store"
)

// FormatCandidate renders one result line in grep-style form:
//
//	path:line:col: name :: ret(type name, type name)
func FormatCandidate(c store.Candidate) string {
	return fmt.Sprintf("%s:%d:%d: %s :: %s",
		c.Path, c.Line, c.Column, c.Name, FormatSignature(c))
}

// FormatSignature renders a readable C-like signature from a candidate's
// stored return type and parameters, e.g. "int(int a, int b)".
func FormatSignature(c store.Candidate) string {
	parts := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		if p.Name != "" {
			parts = append(parts, p.Type+" "+p.Name)
		} else {
			parts = append(parts, p.Type)
		}
	}
	if strings.HasSuffix(c.SignatureNorm, "... )") {
		parts = append(parts, "...")
	}
	return c.ReturnType + "(" + strings.Join(parts, ", ") + ")"
}
