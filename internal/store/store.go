// Package store handles SQLite persistence of fetched averages.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/shomar/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout keeps a fixed fraction width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for snapshot data.
type Store struct {
	db *sql.DB
}

// SnapshotQuery filters ListSnapshots.
type SnapshotQuery struct {
	StatID string
	Since  *time.Time
	Limit  int
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
		`CREATE TABLE IF NOT EXISTS fetches (
			id INTEGER PRIMARY KEY,
			fetched_at TEXT NOT NULL,
			source TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			fetch_id INTEGER NOT NULL,
			stat_id TEXT NOT NULL,
			daily REAL NOT NULL,
			monthly REAL NOT NULL,
			yearly REAL NOT NULL,
			PRIMARY KEY (fetch_id, stat_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_stat_id ON snapshots(stat_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSnapshots records one fetch and the averages it published. All
// snapshots share the fetch time and source of the first element.
func (s *Store) InsertSnapshots(ctx context.Context, snaps []model.Snapshot) (int64, error) {
	if len(snaps) == 0 {
		return 0, nil
	}
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

	res, err := tx.ExecContext(ctx,
		`INSERT INTO fetches (fetched_at, source) VALUES (?, ?)`,
		snaps[0].FetchedAt.UTC().Format(timeLayout),
		snaps[0].Source,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO snapshots (fetch_id, stat_id, daily, monthly, yearly)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, snap := range snaps {
		if _, err = stmt.ExecContext(ctx, id, snap.StatID, snap.Rates.Daily, snap.Rates.Monthly, snap.Rates.Yearly); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSnapshots returns stored snapshots ordered by fetch time, oldest first.
// A positive Limit keeps only the most recent entries.
func (s *Store) ListSnapshots(ctx context.Context, q SnapshotQuery) ([]model.Snapshot, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if q.StatID != "" {
		clauses = append(clauses, "sn.stat_id = ?")
		args = append(args, q.StatID)
	}
	if q.Since != nil {
		clauses = append(clauses, "f.fetched_at >= ?")
		args = append(args, q.Since.UTC().Format(timeLayout))
	}
	limit := ""
	if q.Limit > 0 {
		limit = "LIMIT ?"
	}
	query := fmt.Sprintf(`SELECT fetched_at, source, stat_id, daily, monthly, yearly FROM (
		SELECT f.id AS fetch_id, f.fetched_at, f.source, sn.stat_id, sn.daily, sn.monthly, sn.yearly
		FROM snapshots sn
		JOIN fetches f ON f.id = sn.fetch_id
		WHERE %s
		ORDER BY f.fetched_at DESC, f.id DESC
		%s
	) ORDER BY fetched_at ASC, fetch_id ASC, stat_id ASC`, strings.Join(clauses, " AND "), limit)
	if q.Limit > 0 {
		args = append(args, q.Limit)
	}
	return s.querySnapshots(ctx, query, args...)
}

// LatestSnapshots returns the most recently stored averages of every
// statistic.
func (s *Store) LatestSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	query := `SELECT f.fetched_at, f.source, sn.stat_id, sn.daily, sn.monthly, sn.yearly
		FROM snapshots sn
		JOIN fetches f ON f.id = sn.fetch_id
		WHERE f.id = (
			SELECT f2.id FROM snapshots sn2
			JOIN fetches f2 ON f2.id = sn2.fetch_id
			WHERE sn2.stat_id = sn.stat_id
			ORDER BY f2.fetched_at DESC, f2.id DESC
			LIMIT 1
		)
		ORDER BY sn.stat_id ASC`
	return s.querySnapshots(ctx, query)
}

func (s *Store) querySnapshots(ctx context.Context, query string, args ...any) ([]model.Snapshot, error) {
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

	var result []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		var fetchedAt string
		if err := rows.Scan(&fetchedAt, &snap.Source, &snap.StatID, &snap.Rates.Daily, &snap.Rates.Monthly, &snap.Rates.Yearly); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil {
			return nil, err
		}
		snap.FetchedAt = parsed
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
