// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a log of successful conversions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/markconv/pkg/types"
)

// MaxFieldRunes bounds the stored input and output text.
const MaxFieldRunes = 500

const defaultListLimit = 20

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the conversion history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the history database at path, creating its
// parent directory and schema when missing.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			source_format TEXT NOT NULL,
			target_kind TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT,
			output_file TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores e and returns it as persisted, with ID and CreatedAt
// assigned when empty and text fields truncated.
func (s *Store) Record(ctx context.Context, e types.HistoryEntry) (types.HistoryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.Input = truncateRunes(e.Input, MaxFieldRunes)
	e.Output = truncateRunes(e.Output, MaxFieldRunes)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (id, source_format, target_kind, input, output, output_file, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.SourceFormat), string(e.TargetKind), e.Input, e.Output, e.OutputFile,
		e.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return types.HistoryEntry{}, fmt.Errorf("inserting conversion %s: %w", e.ID, err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. A non-positive limit uses
// the default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_format, target_kind, input, output, output_file, created_at
		 FROM conversions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var (
			e                  types.HistoryEntry
			from, kind         string
			output, outputFile sql.NullString
			created            string
		)
		if err := rows.Scan(&e.ID, &from, &kind, &e.Input, &output, &outputFile, &created); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		e.SourceFormat = types.Format(from)
		e.TargetKind = types.TargetKind(kind)
		e.Output = output.String
		e.OutputFile = outputFile.String
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded conversions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM conversions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting conversions: %w", err)
	}
	return n, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
