package database

import (
	"database/sql"
	"fmt"
)

// schema is applied idempotently at startup. Tile ownership rows are created
// on first claim and never deleted; a tile that drops back to strength 0
// keeps its row as a claim-history anchor.
const schema = `
CREATE TABLE IF NOT EXISTS tile_ownership (
	tile_id    TEXT PRIMARY KEY,
	owner_id   TEXT,
	strength   INTEGER NOT NULL DEFAULT 0,
	flip_count INTEGER NOT NULL DEFAULT 0,
	center_lat REAL NOT NULL,
	center_lng REAL NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tile_ownership_owner  ON tile_ownership(owner_id);
CREATE INDEX IF NOT EXISTS idx_tile_ownership_center ON tile_ownership(center_lat, center_lng);

CREATE TABLE IF NOT EXISTS traces (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	sample_count  INTEGER NOT NULL,
	distance_m    REAL NOT NULL DEFAULT 0,
	total_time_s  REAL NOT NULL DEFAULT 0,
	max_speed_mps REAL NOT NULL DEFAULT 0,
	valid         INTEGER NOT NULL,
	error_codes   TEXT,
	warning_codes TEXT,
	created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_traces_user ON traces(user_id, created_at);

CREATE TABLE IF NOT EXISTS trace_points (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	trace_id     TEXT NOT NULL REFERENCES traces(id),
	seq          INTEGER NOT NULL,
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	timestamp_ms INTEGER NOT NULL,
	accuracy_m   REAL
);

CREATE INDEX IF NOT EXISTS idx_trace_points_trace ON trace_points(trace_id, seq);
`

// initSchema creates all tables and indexes if they do not exist
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
