package store

import (
	"database/sql"
	"fmt"
	"time"
)

// FileState is the (mtime, size) pair the indexer compares to decide
// whether a file needs reparsing. Mtime is Unix nanoseconds.
type FileState struct {
	Mtime int64
	Size  int64
}

// UpsertFile inserts or refreshes a file row and returns its id.
func (s *Store) UpsertFile(path string, mtime, size int64) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM files WHERE path = ?", path).Scan(&id)
	switch {
	case err == nil:
		if _, err := s.db.Exec("UPDATE files SET mtime = ?, size = ? WHERE id = ?", mtime, size, id); err != nil {
			return 0, fmt.Errorf("update file %s: %w", path, err)
		}
		return id, nil
	case err != sql.ErrNoRows:
		return 0, fmt.Errorf("look up file %s: %w", path, err)
	}

	res, err := s.db.Exec(
		"INSERT INTO files(path, mtime, size, parsed_at, last_error) VALUES (?, ?, ?, NULL, NULL)",
		path, mtime, size,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file %s: %w", path, err)
	}
	return res.LastInsertId()
}

// MarkParsed records a successful parse and clears any previous error.
func (s *Store) MarkParsed(fileID, mtime, size int64) error {
	_, err := s.db.Exec(
		"UPDATE files SET mtime = ?, size = ?, parsed_at = ?, last_error = NULL WHERE id = ?",
		mtime, size, time.Now().Unix(), fileID,
	)
	if err != nil {
		return fmt.Errorf("mark file %d parsed: %w", fileID, err)
	}
	return nil
}

// MarkError records a failed parse with its error text.
func (s *Store) MarkError(fileID, mtime, size int64, parseErr string) error {
	_, err := s.db.Exec(
		"UPDATE files SET mtime = ?, size = ?, parsed_at = ?, last_error = ? WHERE id = ?",
		mtime, size, time.Now().Unix(), parseErr, fileID,
	)
	if err != nil {
		return fmt.Errorf("mark file %d failed: %w", fileID, err)
	}
	return nil
}

// FileStates returns the known (mtime, size) for every indexed path.
func (s *Store) FileStates() (map[string]FileState, error) {
	rows, err := s.db.Query("SELECT path, mtime, size FROM files")
	if err != nil {
		return nil, fmt.Errorf("query file states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]FileState)
	for rows.Next() {
		var path string
		var state FileState
		if err := rows.Scan(&path, &state.Mtime, &state.Size); err != nil {
			return nil, fmt.Errorf("scan file state: %w", err)
		}
		states[path] = state
	}
	return states, rows.Err()
}

// ErrorFileCount returns how many files failed their last parse.
func (s *Store) ErrorFileCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM files WHERE last_error IS NOT NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count error files: %w", err)
	}
	return count, nil
}
