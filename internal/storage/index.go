package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/san-kum/daisyworld/internal/dynamo"

	_ "modernc.org/sqlite"
)

// Record is one row of the run index. Sweeps write one per grid point.
type Record struct {
	RunID       string
	Batch       string
	Label       string
	CreatedAt   time.Time
	Luminosity  float64
	DeathRate   float64
	Heating     float64
	Ticks       int
	Temperature float64
	PeakWhite   float64
	PeakBlack   float64
	Outcome     dynamo.EndReason
}

// RecordFromSummary fills the outcome columns of a record from a summary.
func RecordFromSummary(runID, batch, label string, p dynamo.Params, s dynamo.Summary) Record {
	return Record{
		RunID:       runID,
		Batch:       batch,
		Label:       label,
		CreatedAt:   time.Now().UTC(),
		Luminosity:  p.LuminosityInitial,
		DeathRate:   p.DeathRate,
		Heating:     p.HeatingFactor,
		Ticks:       s.Tick,
		Temperature: s.Temperature,
		PeakWhite:   s.Stats.PeakWhite,
		PeakBlack:   s.Stats.PeakBlack,
		Outcome:     s.Outcome,
	}
}

// Index is a SQLite table of run outcomes, queryable across sweeps.
type Index struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewIndex(path string) *Index {
	return &Index{path: path}
}

func (x *Index) Init(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.path == "" {
		return errors.New("sqlite path is required")
	}
	if x.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", x.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	x.db = db
	return nil
}

func (x *Index) Record(ctx context.Context, r Record) error {
	db, err := x.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (run_id, batch, label, created_at, luminosity, death_rate, heating,
			ticks, temperature, peak_white, peak_black, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			batch = excluded.batch,
			label = excluded.label,
			ticks = excluded.ticks,
			temperature = excluded.temperature,
			peak_white = excluded.peak_white,
			peak_black = excluded.peak_black,
			outcome = excluded.outcome
	`, r.RunID, r.Batch, r.Label, r.CreatedAt.Format(time.RFC3339Nano), r.Luminosity, r.DeathRate, r.Heating,
		r.Ticks, r.Temperature, r.PeakWhite, r.PeakBlack, r.Outcome.String())
	return err
}

// List returns up to limit records, newest first. A non-positive limit
// returns everything.
func (x *Index) List(ctx context.Context, limit int) ([]Record, error) {
	db, err := x.getDB()
	if err != nil {
		return nil, err
	}

	q := selectRuns + ` ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Batch returns the records written by one sweep in insertion order.
func (x *Index) Batch(ctx context.Context, batch string) ([]Record, error) {
	db, err := x.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectRuns+` WHERE batch = ? ORDER BY rowid ASC`, batch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CountByOutcome tallies the outcomes of a batch.
func (x *Index) CountByOutcome(ctx context.Context, batch string) (map[dynamo.EndReason]int, error) {
	db, err := x.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM runs WHERE batch = ? GROUP BY outcome`, batch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[dynamo.EndReason]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		reason, err := dynamo.ParseEndReason(name)
		if err != nil {
			return nil, err
		}
		counts[reason] = n
	}
	return counts, rows.Err()
}

func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.db == nil {
		return nil
	}
	err := x.db.Close()
	x.db = nil
	return err
}

func (x *Index) getDB() (*sql.DB, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.db == nil {
		return nil, errors.New("index is not initialized")
	}
	return x.db, nil
}

const selectRuns = `SELECT run_id, batch, label, created_at, luminosity, death_rate, heating,
	ticks, temperature, peak_white, peak_black, outcome FROM runs`

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		var created, outcome string
		if err := rows.Scan(&r.RunID, &r.Batch, &r.Label, &created, &r.Luminosity, &r.DeathRate, &r.Heating,
			&r.Ticks, &r.Temperature, &r.PeakWhite, &r.PeakBlack, &outcome); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, err
		}
		r.CreatedAt = t
		if r.Outcome, err = dynamo.ParseEndReason(outcome); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			batch TEXT NOT NULL,
			label TEXT NOT NULL,
			created_at TEXT NOT NULL,
			luminosity REAL NOT NULL,
			death_rate REAL NOT NULL,
			heating REAL NOT NULL,
			ticks INTEGER NOT NULL,
			temperature REAL NOT NULL,
			peak_white REAL NOT NULL,
			peak_black REAL NOT NULL,
			outcome TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_batch ON runs (batch);
	`)
	return err
}
