package search

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedbin/csig/scanner"
	"github.com/dedbin/csig/store"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Query
	}{
		{"bare signature", "int(int,int)", Query{Signature: "int ( int , int )"}},
		{"name and signature", "add :: int(int,int)", Query{Name: "add", Signature: "int ( int , int )"}},
		{"name only", "memcpy_like ::", Query{Name: "memcpy_like"}},
		{"signature only", ":: void(const char*)", Query{Signature: "void ( const char * )"}},
		{"already canonical", "add :: int ( int , int )", Query{Name: "add", Signature: "int ( int , int )"}},
		{"whitespace trimmed", "  greet  ::  void ( )  ", Query{Name: "greet", Signature: "void ( )"}},
		{"empty", "   ", Query{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.raw))
		})
	}
}

func TestQueryIsEmpty(t *testing.T) {
	assert.True(t, ParseQuery("").IsEmpty())
	assert.True(t, ParseQuery(" :: ").IsEmpty())
	assert.False(t, ParseQuery("add ::").IsEmpty())
	assert.False(t, ParseQuery("int(int)").IsEmpty())
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"add", "add", 0},
		{"ADD", "add", 0},
		{"add", "", 3},
		{"", "add", 3},
		{"add", "sub", 3},
		{"kitten", "sitting", 3},
		{"sum_aray", "sum_array", 1},
		{"strlen", "strlen_like", 5},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func testCandidates() []store.Candidate {
	return []store.Candidate{
		{
			Path: "src/math.c", Name: "add", ReturnType: "int",
			Params:        []scanner.Param{{Type: "int", Name: "a"}, {Type: "int", Name: "b"}},
			SignatureNorm: "int ( int , int )", Line: 3, Column: 5,
		},
		{
			Path: "src/math.c", Name: "sum_array", ReturnType: "int",
			Params:        []scanner.Param{{Type: "int [ ]", Name: "arr"}, {Type: "size_t", Name: "n"}},
			SignatureNorm: "int ( int [ ] , size_t )", Line: 20, Column: 5,
		},
		{
			Path: "src/util.c", Name: "sum_variadic", ReturnType: "int",
			Params:        []scanner.Param{{Type: "int", Name: "count"}},
			SignatureNorm: "int ( int , ... )", Line: 40, Column: 5,
		},
		{
			Path: "src/util.c", Name: "greet", ReturnType: "void",
			Params:        []scanner.Param{{Type: "const char *", Name: "name"}},
			SignatureNorm: "void ( const char * )", Line: 8, Column: 6,
		},
	}
}

func TestRankByName(t *testing.T) {
	results := Rank(ParseQuery("sum_aray ::"), testCandidates(), 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "sum_array", results[0].Name)
	assert.Equal(t, 1, results[0].Score)
}

func TestRankBySignature(t *testing.T) {
	results := Rank(ParseQuery("int(int,int)"), testCandidates(), 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "add", results[0].Name)
	assert.Equal(t, 0, results[0].Score)
}

func TestRankCombined(t *testing.T) {
	// Both parts contribute: the exact name with the exact signature wins
	// over a closer name with a worse signature.
	results := Rank(ParseQuery("add :: int(int,int)"), testCandidates(), 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "add", results[0].Name)
	assert.Equal(t, 0, results[0].Score)
}

func TestRankTiesAreDeterministic(t *testing.T) {
	tied := []store.Candidate{
		{Path: "src/b.c", Name: "fn", SignatureNorm: "void ( )", Line: 1, Column: 1},
		{Path: "src/a.c", Name: "fn", SignatureNorm: "void ( )", Line: 9, Column: 1},
		{Path: "src/a.c", Name: "fn", SignatureNorm: "void ( )", Line: 2, Column: 1},
	}

	results := Rank(ParseQuery("fn ::"), tied, 10)
	require.Len(t, results, 3)
	assert.Equal(t, "src/a.c", results[0].Path)
	assert.Equal(t, 2, results[0].Line)
	assert.Equal(t, "src/a.c", results[1].Path)
	assert.Equal(t, 9, results[1].Line)
	assert.Equal(t, "src/b.c", results[2].Path)
}

func TestRankTop(t *testing.T) {
	assert.Len(t, Rank(ParseQuery("sum ::"), testCandidates(), 2), 2)
	assert.Nil(t, Rank(ParseQuery("sum ::"), testCandidates(), 0))
	assert.Nil(t, Rank(ParseQuery(""), testCandidates(), 5))
}

func TestFormatCandidateGolden(t *testing.T) {
	results := Rank(ParseQuery("sum ::"), testCandidates(), 10)
	require.Len(t, results, 4)

	var b strings.Builder
	for _, r := range results {
		b.WriteString(FormatCandidate(r.Candidate))
		b.WriteByte('\n')
	}

	g := goldie.New(t)
	g.Assert(t, "ranked_results", []byte(b.String()))
}
