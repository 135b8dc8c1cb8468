// Package journal keeps the pet's care history in SQLite.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tamatots/internal/pet"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Journal is an append-only log of care entries.
type Journal struct {
	db *sql.DB
}

// KindCount is the number of entries of one kind.
type KindCount struct {
	Kind  string
	Count int
}

// Open opens or creates the journal database and applies migrations.
func Open(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One connection keeps :memory: databases alive across calls.
	db.SetMaxOpenConns(1)
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return j, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY,
			at TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL,
			old_status TEXT NOT NULL DEFAULT '',
			new_status TEXT NOT NULL DEFAULT '',
			stats TEXT NOT NULL DEFAULT '{}'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_at ON entries(at);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_kind ON entries(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record appends e.
func (j *Journal) Record(ctx context.Context, e pet.LogEntry) error {
	stats, err := json.Marshal(e.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if e.Time.IsZero() {
		e.Time = pet.TimeNow()
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO entries (at, kind, detail, old_status, new_status, stats) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time.UTC().Format(timeLayout),
		e.Kind,
		e.Detail,
		e.OldStatus,
		e.NewStatus,
		string(stats),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]pet.LogEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT at, kind, detail, old_status, new_status, stats FROM entries ORDER BY at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []pet.LogEntry
	for rows.Next() {
		var (
			at, stats string
			e         pet.LogEntry
		)
		if err := rows.Scan(&at, &e.Kind, &e.Detail, &e.OldStatus, &e.NewStatus, &stats); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		t, err := time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse entry time %q: %w", at, err)
		}
		e.Time = t
		if err := json.Unmarshal([]byte(stats), &e.Stats); err != nil {
			return nil, fmt.Errorf("decode entry stats: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByKind aggregates entries per kind, most frequent first.
func (j *Journal) CountByKind(ctx context.Context) ([]KindCount, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM entries GROUP BY kind ORDER BY COUNT(*) DESC, kind ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	defer rows.Close()

	var out []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}
