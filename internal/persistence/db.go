// Package persistence keeps a SQLite catalogue of generation runs.
// Only run metadata and statistics are stored, never map layers.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/tidemap/internal/world"
)

// ErrNotFound is returned when a run or metadata key does not exist.
var ErrNotFound = errors.New("persistence: not found")

// Run describes one completed map generation.
type Run struct {
	ID        string
	Seed      int64
	Width     int
	Height    int
	Noise     string // Elevation noise kind
	Stats     world.Stats
	CreatedAt time.Time
}

// NewRun records a generated map under a fresh ID.
func NewRun(m *world.UpperMap, noiseKind string) Run {
	return Run{
		ID:        uuid.NewString(),
		Seed:      m.Stats.Seed,
		Width:     m.Width(),
		Height:    m.Height(),
		Noise:     noiseKind,
		Stats:     m.Stats,
		CreatedAt: time.Now().UTC(),
	}
}

type runRow struct {
	ID           string `db:"id"`
	Seed         int64  `db:"seed"`
	Width        int    `db:"width"`
	Height       int    `db:"height"`
	Noise        string `db:"noise"`
	LandCells    int    `db:"land_cells"`
	SeaCells     int    `db:"sea_cells"`
	CoastCells   int    `db:"coast_cells"`
	TrappedWater int    `db:"trapped_water"`
	StatsJSON    string `db:"stats_json"`
	CreatedAt    int64  `db:"created_at"`
}

func (r runRow) run() (Run, error) {
	out := Run{
		ID:        r.ID,
		Seed:      r.Seed,
		Width:     r.Width,
		Height:    r.Height,
		Noise:     r.Noise,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(r.StatsJSON), &out.Stats); err != nil {
		return Run{}, fmt.Errorf("decode stats for run %s: %w", r.ID, err)
	}
	return out, nil
}

// DB wraps a SQLite connection holding the run catalogue.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		noise TEXT NOT NULL,
		land_cells INTEGER NOT NULL,
		sea_cells INTEGER NOT NULL,
		coast_cells INTEGER NOT NULL,
		trapped_water INTEGER NOT NULL,
		stats_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS catalogue_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun inserts a run. A run without an ID is given one.
func (db *DB) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	statsJSON, err := json.Marshal(r.Stats)
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}

	row := runRow{
		ID:           r.ID,
		Seed:         r.Seed,
		Width:        r.Width,
		Height:       r.Height,
		Noise:        r.Noise,
		LandCells:    r.Stats.LandCells,
		SeaCells:     r.Stats.SeaCells,
		CoastCells:   r.Stats.CoastCells,
		TrappedWater: r.Stats.TrappedWater,
		StatsJSON:    string(statsJSON),
		CreatedAt:    r.CreatedAt.UnixNano(),
	}
	_, err = db.conn.NamedExec(`INSERT INTO runs
		(id, seed, width, height, noise, land_cells, sea_cells, coast_cells,
		 trapped_water, stats_json, created_at)
		VALUES (:id, :seed, :width, :height, :noise, :land_cells, :sea_cells,
		 :coast_cells, :trapped_water, :stats_json, :created_at)`, row)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", r.ID, err)
	}

	slog.Debug("run saved", "id", r.ID, "seed", r.Seed)
	return r.ID, nil
}

// GetRun loads a run by ID.
func (db *DB) GetRun(id string) (Run, error) {
	var row runRow
	err := db.conn.Get(&row, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}
	return row.run()
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var rows []runRow
	err := db.conn.Select(&rows,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		r, err := row.run()
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// RunsForSeed returns every run generated from seed, oldest first.
func (db *DB) RunsForSeed(seed int64) ([]Run, error) {
	var rows []runRow
	if err := db.conn.Select(&rows, "SELECT * FROM runs WHERE seed = ? ORDER BY created_at", seed); err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		r, err := row.run()
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// SaveMeta stores a key-value pair in catalogue metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO catalogue_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM catalogue_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: meta %s", ErrNotFound, key)
	}
	return value, err
}
