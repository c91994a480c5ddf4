package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned by ReadRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded Apply run.
type Run struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Seed          uint64          `json:"seed"`
	ConfigHash    string          `json:"config_hash"`
	MapHashBefore string          `json:"map_hash_before"`
	MapHashAfter  string          `json:"map_hash_after"`
	Passes        int             `json:"passes"`
	Converged     bool            `json:"converged"`
	Stats         json.RawMessage `json:"stats"`
}

// NewRunID generates a time-sortable UUIDv7 run id.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteRun inserts a run record. Run ids are unique; writing the same
// id twice is an error, not an upsert - runs are immutable history.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	stats := run.Stats
	if stats == nil {
		stats = json.RawMessage("{}")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, seed, config_hash, map_hash_before, map_hash_after, passes, converged, stats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		int64(run.Seed),
		run.ConfigHash,
		run.MapHashBefore,
		run.MapHashAfter,
		run.Passes,
		boolToInt(run.Converged),
		string(stats),
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", run.ID, err)
	}
	return nil
}

// ReadRun fetches a run by id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, seed, config_hash, map_hash_before, map_hash_after, passes, converged, stats
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
// limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, seed, config_hash, map_hash_before, map_hash_after, passes, converged, stats
		FROM runs ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func scanRun(scan func(...any) error) (Run, error) {
	var (
		run       Run
		createdAt string
		seed      int64
		converged int
		stats     string
	)
	if err := scan(&run.ID, &createdAt, &seed, &run.ConfigHash, &run.MapHashBefore, &run.MapHashAfter, &run.Passes, &converged, &stats); err != nil {
		return Run{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	run.Seed = uint64(seed)
	run.Converged = converged != 0
	run.Stats = json.RawMessage(stats)
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
