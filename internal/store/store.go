// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/keypunch/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for display history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS displays (
			id INTEGER PRIMARY KEY,
			shown_at TEXT NOT NULL,
			source TEXT NOT NULL,
			text TEXT NOT NULL,
			columns INTEGER NOT NULL,
			holes INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			completed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS display_chars (
			display_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			count INTEGER NOT NULL,
			holes INTEGER NOT NULL,
			PRIMARY KEY (display_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_displays_shown_at ON displays(shown_at);`,
		`CREATE INDEX IF NOT EXISTS idx_display_chars_char ON display_chars(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertDisplay stores a displayed message and its per-character tallies.
func (s *Store) InsertDisplay(ctx context.Context, stats model.DisplayStats, chars []model.CharCount) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	completed := 0
	if stats.Completed {
		completed = 1
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO displays (shown_at, source, text, columns, holes, duration_ms, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stats.ShownAt.Format(time.RFC3339Nano),
		stats.Source,
		stats.Text,
		stats.Columns,
		stats.Holes,
		stats.DurationMs,
		completed,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(chars) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO display_chars (display_id, char, count, holes)
			 VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cc := range chars {
			if _, err := stmt.ExecContext(ctx, id, cc.Char, cc.Count, cc.Holes); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListDisplays returns stored displays filtered by stats config, oldest
// first. The Last window is applied by the caller after filtering.
func (s *Store) ListDisplays(ctx context.Context, cfg model.StatsConfig) ([]model.DisplayAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, cfg.Source)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "shown_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, shown_at, source, text, columns, holes, duration_ms, completed
		FROM displays
		WHERE %s
		ORDER BY shown_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var displays []model.DisplayAggregate
	for rows.Next() {
		var agg model.DisplayAggregate
		var shownAt string
		var completed int64
		if err := rows.Scan(&agg.DisplayID, &shownAt, &agg.Source, &agg.Text, &agg.Columns, &agg.Holes, &agg.DurationMs, &completed); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, shownAt)
		if err != nil {
			return nil, err
		}
		agg.ShownAt = parsed
		agg.Completed = completed != 0
		displays = append(displays, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return displays, nil
}

// CharTotalsForDisplays aggregates per-character tallies across displays.
func (s *Store) CharTotalsForDisplays(ctx context.Context, displayIDs []int64) ([]model.CharAggregate, error) {
	if len(displayIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(displayIDs))
	args := make([]any, len(displayIDs))
	for i, id := range displayIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(count) AS count, SUM(holes) AS holes
		FROM display_chars
		WHERE display_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Count, &agg.Holes); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
