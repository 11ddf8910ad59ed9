package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNoRuns = errors.New("no runs recorded")

// Run is the outcome of one constructive and improvement pipeline
type Run struct {
	ID           string    `db:"id"`
	Constructive string    `db:"constructive"`
	Improvement  string    `db:"improvement"`
	Seed         int64     `db:"seed"`
	Penalty      int       `db:"penalty"`
	Capacity     int       `db:"capacity"`
	Evening      int       `db:"evening"`
	Conflict     int       `db:"conflict"`
	Iterations   int       `db:"iterations"`
	Runs         int       `db:"runs"`
	DurationMs   int64     `db:"duration_ms"`
	CreatedAt    time.Time `db:"created_at"`
}

// Summary aggregates the runs of an algorithm combination
type Summary struct {
	Constructive string  `db:"constructive"`
	Improvement  string  `db:"improvement"`
	Runs         int     `db:"runs"`
	Best         int     `db:"best"`
	Mean         float64 `db:"mean"`
}

type Store interface {
	Record(ctx context.Context, run *Run) error
	List(ctx context.Context, limit int) ([]Run, error)
	Best(ctx context.Context, constructive, improvement string) (*Run, error)
	Summaries(ctx context.Context) ([]Summary, error)
	Close() error
}

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	constructive TEXT NOT NULL,
	improvement TEXT NOT NULL,
	seed INTEGER NOT NULL,
	penalty INTEGER NOT NULL,
	capacity INTEGER NOT NULL,
	evening INTEGER NOT NULL,
	conflict INTEGER NOT NULL,
	iterations INTEGER NOT NULL,
	runs INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at DATETIME NOT NULL
)`

const runColumns = `id, constructive, improvement, seed, penalty, capacity, evening, conflict, iterations, runs, duration_ms, created_at`

type SQLStore struct {
	db *sqlx.DB
}

// Open creates the SQLite database at path if needed and migrates it
func Open(ctx context.Context, path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create run log directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open run log: %w", err)
	}

	store := NewSQLStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("cannot migrate run log: %w", err)
	}
	return nil
}

// Record stores the run, assigning an id and a creation time when they're missing
func (s *SQLStore) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO runs (` + runColumns + `) VALUES (:id, :constructive, :improvement, :seed, :penalty, :capacity, :evening, :conflict, :iterations, :runs, :duration_ms, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("cannot record run: %w", err)
	}
	return nil
}

// List returns the latest runs first
func (s *SQLStore) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC LIMIT ?`

	runs := make([]Run, 0, limit)
	if err := s.db.SelectContext(ctx, &runs, s.db.Rebind(query), limit); err != nil {
		return nil, fmt.Errorf("cannot list runs: %w", err)
	}
	return runs, nil
}

// Best returns the lowest penalty run of the combination, the earliest one on ties
func (s *SQLStore) Best(ctx context.Context, constructive, improvement string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE constructive = ? AND improvement = ? ORDER BY penalty ASC, created_at ASC LIMIT 1`

	var run Run
	if err := s.db.GetContext(ctx, &run, s.db.Rebind(query), constructive, improvement); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w for %v/%v", ErrNoRuns, constructive, improvement)
		}
		return nil, fmt.Errorf("cannot find best run: %w", err)
	}
	return &run, nil
}

func (s *SQLStore) Summaries(ctx context.Context) ([]Summary, error) {
	query := `SELECT constructive, improvement, COUNT(*) AS runs, MIN(penalty) AS best, AVG(penalty) AS mean
		FROM runs GROUP BY constructive, improvement ORDER BY best ASC, constructive ASC, improvement ASC`

	var summaries []Summary
	if err := s.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("cannot summarize runs: %w", err)
	}
	return summaries, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
