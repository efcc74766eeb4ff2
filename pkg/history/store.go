// Package history keeps a per-org record of export runs in a local
// SQLite database, so past backups can be listed without scanning the
// export tree.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DBFileName is the database file kept in each org directory.
const DBFileName = "ddsnap.db"

// Run is one recorded export run.
type Run struct {
	ID         string
	Org        string
	Site       string
	StartedAt  time.Time
	FinishedAt time.Time
	// Resources maps resource kind to exported file count.
	Resources map[string]int
	// Errors is the number of kinds that finished with an error.
	Errors int
}

// Exported returns the total number of files written in this run.
func (r Run) Exported() int {
	n := 0
	for _, c := range r.Resources {
		n += c
	}
	return n
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// The CLI is the only writer; one connection avoids lock churn.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		org TEXT NOT NULL,
		site TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		resources TEXT NOT NULL,
		errors INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores one run.
func (s *Store) Record(run Run) error {
	resources, err := json.Marshal(run.Resources)
	if err != nil {
		return fmt.Errorf("failed to encode resource counts: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO runs (id, org, site, started_at, finished_at, resources, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Org, run.Site,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		string(resources), run.Errors,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 means
// no limit.
func (s *Store) List(limit int) ([]Run, error) {
	query := `SELECT id, org, site, started_at, finished_at, resources, errors
	          FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished, resources string
		if err := rows.Scan(&run.ID, &run.Org, &run.Site, &started, &finished, &resources, &run.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("bad started_at for run %s: %w", run.ID, err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("bad finished_at for run %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(resources), &run.Resources); err != nil {
			return nil, fmt.Errorf("bad resource counts for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
