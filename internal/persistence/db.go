// Package persistence stores simulation run metadata, hourly stats
// history, and event logs in sqlite, plus trained policy checkpoints on
// disk.
package persistence

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at DATETIME NOT NULL,
	simulation_mode TEXT NOT NULL,
	initial_num_agents INTEGER NOT NULL,
	frames_per_hour INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS hourly_stats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	year INTEGER NOT NULL,
	day INTEGER NOT NULL,
	hour INTEGER NOT NULL,
	susceptible INTEGER NOT NULL,
	exposed INTEGER NOT NULL,
	infected INTEGER NOT NULL,
	recovered INTEGER NOT NULL,
	homeless INTEGER NOT NULL,
	unemployed INTEGER NOT NULL,
	total_value REAL NOT NULL,
	gini REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	year INTEGER NOT NULL,
	day INTEGER NOT NULL,
	hour INTEGER NOT NULL,
	kind TEXT NOT NULL,
	detail TEXT NOT NULL
);
`

// DB wraps a sqlite-backed store for one or more simulation runs.
type DB struct {
	conn *sqlx.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persistence: open %s: %w", path, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persistence: migrate: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// RunRecord is one simulation run's metadata.
type RunRecord struct {
	ID               int64
	StartedAt        time.Time
	SimulationMode   string
	InitialNumAgents int
	FramesPerHour    int
}

// SaveRun inserts a new run record and returns its assigned id.
func (db *DB) SaveRun(r RunRecord) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO runs (started_at, simulation_mode, initial_num_agents, frames_per_hour) VALUES (?, ?, ?, ?)`,
		r.StartedAt, r.SimulationMode, r.InitialNumAgents, r.FramesPerHour,
	)
	if err != nil {
		return 0, fmt.Errorf("persistence: save run: %w", err)
	}
	return res.LastInsertId()
}

// HourlyStats is one hour's rolled-up observation, persisted for later
// analysis via internal/api.
type HourlyStats struct {
	RunID       int64   `db:"run_id"`
	Year        int     `db:"year"`
	Day         int     `db:"day"`
	Hour        int     `db:"hour"`
	Susceptible int     `db:"susceptible"`
	Exposed     int     `db:"exposed"`
	Infected    int     `db:"infected"`
	Recovered   int     `db:"recovered"`
	Homeless    int     `db:"homeless"`
	Unemployed  int     `db:"unemployed"`
	TotalValue  float64 `db:"total_value"`
	Gini        float64 `db:"gini"`
}

// SaveHourlyStats inserts one hour's rollup row.
func (db *DB) SaveHourlyStats(s HourlyStats) error {
	_, err := db.conn.Exec(
		`INSERT INTO hourly_stats
			(run_id, year, day, hour, susceptible, exposed, infected, recovered, homeless, unemployed, total_value, gini)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Year, s.Day, s.Hour, s.Susceptible, s.Exposed, s.Infected, s.Recovered,
		s.Homeless, s.Unemployed, s.TotalValue, s.Gini,
	)
	if err != nil {
		return fmt.Errorf("persistence: save hourly stats: %w", err)
	}
	return nil
}

// LoadHourlyStats returns every rollup row for a run, oldest first.
func (db *DB) LoadHourlyStats(runID int64) ([]HourlyStats, error) {
	var rows []HourlyStats
	err := db.conn.Select(&rows,
		`SELECT run_id, year, day, hour, susceptible, exposed, infected, recovered, homeless, unemployed, total_value, gini
		 FROM hourly_stats WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("persistence: load hourly stats: %w", err)
	}
	return rows, nil
}

// Event is one notable simulation occurrence (a death spike, a bankruptcy
// wave, a policy change) logged for later inspection.
type Event struct {
	RunID  int64  `db:"run_id"`
	Year   int    `db:"year"`
	Day    int    `db:"day"`
	Hour   int    `db:"hour"`
	Kind   string `db:"kind"`
	Detail string `db:"detail"`
}

// SaveEvent inserts one event row.
func (db *DB) SaveEvent(e Event) error {
	_, err := db.conn.Exec(
		`INSERT INTO events (run_id, year, day, hour, kind, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Year, e.Day, e.Hour, e.Kind, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("persistence: save event: %w", err)
	}
	return nil
}

// LoadEvents returns every event row for a run, oldest first.
func (db *DB) LoadEvents(runID int64) ([]Event, error) {
	var rows []Event
	err := db.conn.Select(&rows,
		`SELECT run_id, year, day, hour, kind, detail FROM events WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("persistence: load events: %w", err)
	}
	return rows, nil
}
