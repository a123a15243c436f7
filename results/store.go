package results

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists run documents in a SQLite database. The full document
// lives in the payload column; the words table carries a flat index of
// produced words for ad-hoc queries.
type Store struct {
	db *sql.DB
}

var ErrNotFound = errors.New("results: run not found")

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, err
		}
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		source TEXT,
		scope TEXT,
		words INTEGER NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS words (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		kind TEXT NOT NULL,
		word TEXT NOT NULL,
		PRIMARY KEY (run_id, idx)
	);
	`
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Summary is one row of the run index.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Source    string    `json:"source,omitempty"`
	Scope     string    `json:"scope"`
	Words     int       `json:"words"`
}

// SaveRun stores the document and its word index in one transaction.
func (s *Store) SaveRun(run *Run) error {
	payload, err := ToJSON(run)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (id, created_at, source, scope, words, payload) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Source, run.Scope, len(run.Words), payload,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, d := range run.Derivations {
		if _, err := tx.Exec(
			"INSERT INTO words (run_id, idx, kind, word) VALUES (?, ?, ?, ?)",
			run.ID, d.Index, d.Kind, d.Word,
		); err != nil {
			return fmt.Errorf("insert word %d: %w", d.Index, err)
		}
	}
	return tx.Commit()
}

// GetRun loads one run document by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM runs WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return FromJSON(payload)
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns() ([]Summary, error) {
	rows, err := s.db.Query(
		"SELECT id, created_at, source, scope, words FROM runs ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created string
		if err := rows.Scan(&sum.ID, &created, &sum.Source, &sum.Scope, &sum.Words); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			sum.CreatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its word index.
func (s *Store) DeleteRun(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM words WHERE run_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
