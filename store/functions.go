package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dedbin/csig/scanner"
)

// Candidate is one indexed function row joined with its file path,
// as returned to the ranking stage.
type Candidate struct {
	ID            int64           `json:"id"`
	Path          string          `json:"path"`
	Name          string          `json:"name"`
	ReturnType    string          `json:"return_type"`
	Params        []scanner.Param `json:"params"`
	SignatureNorm string          `json:"signature_norm"`
	Line          int             `json:"line"`
	Column        int             `json:"column"`
}

const candidateColumns = `
	f.id,
	fi.path AS path,
	f.name,
	f.return_type,
	f.params_json,
	f.signature_norm,
	f.line,
	f.column
`

const candidateOrder = `ORDER BY f.name COLLATE NOCASE, fi.path COLLATE NOCASE, f.line, f.column`

// ReplaceFunctions swaps the stored function rows for a file in one
// transaction. A file with no functions ends up with no rows.
func (s *Store) ReplaceFunctions(fileID int64, fns []scanner.Function) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace for file %d: %w", fileID, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM functions WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("delete functions for file %d: %w", fileID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO functions(file_id, name, return_type, params_json, signature_norm, line, column)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, fn := range fns {
		paramsJSON, err := json.Marshal(fn.Params)
		if err != nil {
			return fmt.Errorf("marshal params for %s: %w", fn.Name, err)
		}

		sig := fn.SignatureNorm
		if sig == "" {
			sig = fn.NormalizedSignature()
		}

		if _, err := stmt.Exec(
			fileID, fn.Name, fn.ReturnType, string(paramsJSON), sig,
			fn.Location.Line, fn.Location.Column,
		); err != nil {
			return fmt.Errorf("insert function %s: %w", fn.Name, err)
		}
	}

	return tx.Commit()
}

// FetchCandidates returns up to limit function rows matching the query
// parts by substring. When a filtered query matches nothing, the filter is
// dropped so ranking still has material to work with; order is
// deterministic either way.
func (s *Store) FetchCandidates(ctx context.Context, name, signature string, limit int) ([]Candidate, error) {
	where := ""
	var args []any

	switch {
	case name != "" && signature != "":
		where = "WHERE f.name LIKE ? OR f.signature_norm LIKE ?"
		args = append(args, "%"+name+"%", "%"+signature+"%")
	case name != "":
		where = "WHERE f.name LIKE ?"
		args = append(args, "%"+name+"%")
	case signature != "":
		where = "WHERE f.signature_norm LIKE ?"
		args = append(args, "%"+signature+"%")
	}

	candidates, err := s.queryCandidates(ctx, where, args, limit)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 && where != "" {
		return s.queryCandidates(ctx, "", nil, limit)
	}
	return candidates, nil
}

func (s *Store) queryCandidates(ctx context.Context, where string, args []any, limit int) ([]Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM functions AS f
		JOIN files AS fi ON fi.id = f.file_id
		%s
		%s
		LIMIT ?
	`, candidateColumns, where, candidateOrder)

	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		var paramsJSON string
		if err := rows.Scan(&c.ID, &c.Path, &c.Name, &c.ReturnType, &paramsJSON, &c.SignatureNorm, &c.Line, &c.Column); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if paramsJSON != "" {
			// Unparsable stored params degrade to an empty list, never
			// a failed search.
			_ = json.Unmarshal([]byte(paramsJSON), &c.Params)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FunctionCount returns the number of indexed functions.
func (s *Store) FunctionCount() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM functions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count functions: %w", err)
	}
	return count, nil
}
