// File path: internal/catalog/store.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/lathemind/lathemind/internal/common"
)

// Entry is one recorded generation run.
type Entry struct {
	ID                int64     `db:"id" json:"id"`
	ProgramNumber     string    `db:"program_number" json:"program_number"`
	ProcessName       string    `db:"process_name" json:"process_name"`
	Material          string    `db:"material" json:"material"`
	Provider          string    `db:"provider" json:"provider"`
	ReferencedSamples []string  `db:"-" json:"referenced_samples"`
	SamplesJSON       string    `db:"referenced_samples" json:"-"`
	WarningCount      int       `db:"warning_count" json:"warning_count"`
	GeneratedAt       time.Time `db:"generated_at" json:"generated_at"`
}

// Store keeps the generation history in a local SQLite database. History is
// advisory: failures are logged by callers and never fail a pipeline run.
type Store struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	program_number TEXT NOT NULL DEFAULT '',
	process_name TEXT NOT NULL DEFAULT '',
	material TEXT NOT NULL DEFAULT '',
	provider TEXT NOT NULL DEFAULT '',
	referenced_samples TEXT NOT NULL DEFAULT '[]',
	warning_count INTEGER NOT NULL DEFAULT 0,
	generated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generations_generated_at ON generations (generated_at DESC);
`

// Open constructs a Store backed by the SQLite database at the provided
// path, creating parent directories and migrating the schema as needed.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("catalog path required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", abs)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	common.Logger().Info("catalog: opened", "path", abs)
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record persists one generation run.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if s == nil || s.db == nil {
		return errors.New("catalog not initialized")
	}
	samples := entry.ReferencedSamples
	if samples == nil {
		samples = []string{}
	}
	encoded, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("encode sample ids: %w", err)
	}
	if entry.GeneratedAt.IsZero() {
		entry.GeneratedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO generations (program_number, process_name, material, provider, referenced_samples, warning_count, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ProgramNumber, entry.ProcessName, entry.Material, entry.Provider,
		string(encoded), entry.WarningCount, entry.GeneratedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// Recent returns the newest recorded generations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("catalog not initialized")
	}
	if limit <= 0 {
		limit = 20
	}
	var rows []Entry
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, program_number, process_name, material, provider, referenced_samples, warning_count, generated_at
		 FROM generations ORDER BY generated_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select generations: %w", err)
	}
	for i := range rows {
		if err := json.Unmarshal([]byte(rows[i].SamplesJSON), &rows[i].ReferencedSamples); err != nil {
			rows[i].ReferencedSamples = []string{}
		}
		rows[i].SamplesJSON = ""
	}
	return rows, nil
}
