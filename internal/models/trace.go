package models

// GPSSample represents a single GPS fix within a recorded activity
type GPSSample struct {
	Lat         float64  `json:"lat" db:"latitude"`
	Lng         float64  `json:"lng" db:"longitude"`
	TimestampMs int64    `json:"timestampMs" db:"timestamp_ms"` // Unix timestamp in milliseconds
	AccuracyM   *float64 `json:"accuracyMeters,omitempty" db:"accuracy_m"`
}

// Trace is an ordered GPS recording of a single run or ride.
// Samples are ordered by timestamp (ties permitted) and the trace is
// immutable once submitted.
type Trace struct {
	ID       string       `json:"id" db:"id"`
	UserID   string       `json:"userId" db:"user_id"`
	Activity ActivityType `json:"activityType" db:"activity_type"`
	Samples  []GPSSample  `json:"samples"`
}

// TraceSubmission is the request body for submitting an activity
type TraceSubmission struct {
	ActivityType string      `json:"activityType" binding:"required"`
	Samples      []GPSSample `json:"samples" binding:"required"`
}
