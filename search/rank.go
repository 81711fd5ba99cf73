package search

import (
	"sort"
	"strings"

	"github.com/dedbin/csig/store"
)

// Result is a candidate with its distance from the query. Lower scores are
// better matches.
type Result struct {
	store.Candidate
	Score int
}

// Distance returns the Levenshtein edit distance between a and b, compared
// case-insensitively. Two equal rows of the edit matrix are kept instead of
// the full table.
func Distance(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Rank scores every candidate against the query and returns the top best
// matches. The query's name and signature parts score independently; a
// candidate's total is the sum of the parts the query actually has. Ties
// break by lowercased name, then path, then line, then column, so results
// are stable across runs.
func Rank(q Query, candidates []store.Candidate, top int) []Result {
	if top <= 0 || q.IsEmpty() {
		return nil
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		score := 0
		if q.Name != "" {
			score += Distance(q.Name, c.Name)
		}
		if q.Signature != "" {
			score += Distance(q.Signature, c.SignatureNorm)
		}
		results = append(results, Result{Candidate: c, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		ni, nj := strings.ToLower(results[i].Name), strings.ToLower(results[j].Name)
		if ni != nj {
			return ni < nj
		}
		pi, pj := strings.ToLower(results[i].Path), strings.ToLower(results[j].Path)
		if pi != pj {
			return pi < pj
		}
		if results[i].Line != results[j].Line {
			return results[i].Line < results[j].Line
		}
		return results[i].Column < results[j].Column
	})

	if len(results) > top {
		results = results[:top]
	}
	return results
}
