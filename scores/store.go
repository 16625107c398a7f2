// Package scores keeps a history of finished runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver, so no CGO is needed.
package scores

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
	OutcomeQuit Outcome = "quit"
)

// Run is one game from start to a terminal phase or quit.
type Run struct {
	ID        int64
	Frontend  string
	Outcome   Outcome
	Destroyed int
	Bricks    int
	Ticks     int
	Duration  time.Duration
	CreatedAt time.Time
}

type Stats struct {
	Played int
	Won    int
	Lost   int
	// BestTicks is the shortest winning run, 0 when nothing was won.
	BestTicks int
}

type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, creating parent directories
// and the schema as needed. A leading ~ expands to the home directory.
func Open(path string) (*Store, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "scores: expand home directory")
		}
		path = filepath.Join(home, path[1:])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "scores: create directory %s", dir)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "scores: open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "scores: connect")
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "scores: migrate")
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			frontend TEXT NOT NULL,
			outcome TEXT NOT NULL,
			destroyed INTEGER NOT NULL,
			bricks INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun inserts r and returns its ID. A zero CreatedAt is set to now.
func (s *Store) SaveRun(ctx context.Context, r Run) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (frontend, outcome, destroyed, bricks, ticks, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Frontend, string(r.Outcome), r.Destroyed, r.Bricks, r.Ticks,
		r.Duration.Milliseconds(), r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "scores: save run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "scores: inserted id")
	}
	return id, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, frontend, outcome, destroyed, bricks, ticks, duration_ms, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "scores: query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			outcome   string
			durMs     int64
			createdMs int64
		)
		if err := rows.Scan(&r.ID, &r.Frontend, &outcome, &r.Destroyed, &r.Bricks, &r.Ticks, &durMs, &createdMs); err != nil {
			return nil, errors.Wrap(err, "scores: scan run")
		}
		r.Outcome = Outcome(outcome)
		r.Duration = time.Duration(durMs) * time.Millisecond
		r.CreatedAt = time.UnixMilli(createdMs)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "scores: iterate runs")
	}
	return runs, nil
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'lost' THEN 1 ELSE 0 END), 0),
			MIN(CASE WHEN outcome = 'won' THEN ticks END)
		 FROM runs`,
	).Scan(&st.Played, &st.Won, &st.Lost, &best)
	if err != nil {
		return Stats{}, errors.Wrap(err, "scores: stats")
	}
	if best.Valid {
		st.BestTicks = int(best.Int64)
	}
	return st, nil
}
