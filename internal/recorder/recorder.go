// Package recorder persists per-tick simulation telemetry to SQLite for
// offline inspection of a run.
package recorder

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Recorder writes one row per simulation tick.
type Recorder struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS ticks (
		tick INTEGER NOT NULL,
		cursor INTEGER NOT NULL,
		mean_displacement DOUBLE NOT NULL,
		reset INTEGER NOT NULL,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// Open opens (or creates) the telemetry database at the given path.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry db %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating telemetry schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

// RecordTick inserts one tick row. It implements sim.TickSink.
func (r *Recorder) RecordTick(tick, cursor int, meanDisplacement float64, reset bool) error {
	_, err := r.db.Exec(
		"INSERT INTO ticks (tick, cursor, mean_displacement, reset) VALUES (?, ?, ?, ?)",
		tick, cursor, meanDisplacement, reset,
	)
	return err
}

// Close closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
