// Package history persists verification submissions in a local SQLite
// database so past jobs can be listed and re-checked.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("history record not found")

// Record is one verification submission.
type Record struct {
	ID           string
	JobID        string
	ClassHash    string
	ContractName string
	Network      string
	License      string
	Status       string
	CreatedAt    time.Time
}

// Store implements the verification history on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the history database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS verifications (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL UNIQUE,
		class_hash TEXT NOT NULL,
		contract_name TEXT NOT NULL,
		network TEXT NOT NULL,
		license TEXT,
		status TEXT,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_verifications_class_hash ON verifications(class_hash);
	CREATE INDEX IF NOT EXISTS idx_verifications_created_at ON verifications(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Add stores a new submission and returns its generated ID.
func (s *Store) Add(ctx context.Context, r *Record) (string, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO verifications (id, job_id, class_hash, contract_name, network, license, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
	`
	_, err := s.db.ExecContext(ctx, query, id, r.JobID, r.ClassHash, r.ContractName, r.Network, r.License, r.Status)
	if err != nil {
		return "", fmt.Errorf("recording verification: %w", err)
	}
	return id, nil
}

// UpdateStatus sets the status of the record for a job.
func (s *Store) UpdateStatus(ctx context.Context, jobID, status string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE verifications SET status = ? WHERE job_id = ?", status, jobID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByJobID retrieves a record by its remote job ID.
func (s *Store) GetByJobID(ctx context.Context, jobID string) (*Record, error) {
	query := `
		SELECT id, job_id, class_hash, contract_name, network, license, status, created_at
		FROM verifications
		WHERE job_id = ?
	`
	var r Record
	var license, status sql.NullString
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, jobID).Scan(
		&r.ID, &r.JobID, &r.ClassHash, &r.ContractName, &r.Network, &license, &status, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.License = license.String
	r.Status = status.String
	r.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
	return &r, nil
}

// Recent returns the most recent submissions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, job_id, class_hash, contract_name, network, license, status, created_at
		FROM verifications
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var license, status sql.NullString
		var createdAt string
		if err := rows.Scan(&r.ID, &r.JobID, &r.ClassHash, &r.ContractName, &r.Network, &license, &status, &createdAt); err != nil {
			return nil, err
		}
		r.License = license.String
		r.Status = status.String
		r.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}
