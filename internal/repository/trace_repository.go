package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tilerun/territory-backend-go/internal/models"
)

// TraceRepository handles database operations for submitted traces.
// Traces are immutable once stored; rejected traces are stored too, with
// their verdict, for audit.
type TraceRepository struct {
	db *sql.DB
}

// NewTraceRepository creates a new trace repository
func NewTraceRepository(db *sql.DB) *TraceRepository {
	return &TraceRepository{db: db}
}

// Save persists a trace, its samples, and its validation verdict in one
// transaction
func (r *TraceRepository) Save(trace models.Trace, verdict models.Verdict) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	valid := 0
	if verdict.Valid {
		valid = 1
	}

	_, err = tx.Exec(`
		INSERT INTO traces (id, user_id, activity_type, sample_count,
			distance_m, total_time_s, max_speed_mps, valid, error_codes, warning_codes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		trace.ID, trace.UserID, string(trace.Activity), len(trace.Samples),
		verdict.Stats.DistanceM, verdict.Stats.TotalTimeSec, verdict.Stats.MaxSpeedMPS,
		valid, joinErrorCodes(verdict.Errors), joinWarningCodes(verdict.Warnings),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trace: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trace_points (trace_id, seq, latitude, longitude, timestamp_ms, accuracy_m)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range trace.Samples {
		var accuracy interface{}
		if s.AccuracyM != nil {
			accuracy = *s.AccuracyM
		}
		if _, err := stmt.Exec(trace.ID, i, s.Lat, s.Lng, s.TimestampMs, accuracy); err != nil {
			return fmt.Errorf("failed to insert trace point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trace: %w", err)
	}
	return nil
}

func joinErrorCodes(codes []models.ErrorCode) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func joinWarningCodes(codes []models.WarningCode) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
