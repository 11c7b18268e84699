package models

// ErrorCode marks a trace as unusable for claiming
type ErrorCode string

// WarningCode is advisory and never blocks claiming
type WarningCode string

const (
	ErrMalformedTrace       ErrorCode = "MALFORMED_TRACE"
	ErrUnknownActivityType  ErrorCode = "UNKNOWN_ACTIVITY_TYPE"
	ErrVehicleSpeedDetected ErrorCode = "VEHICLE_SPEED_DETECTED"
	ErrTooManyGpsJumps      ErrorCode = "TOO_MANY_GPS_JUMPS"

	WarnErraticAcceleration     WarningCode = "ERRATIC_ACCELERATION"
	WarnLowGpsAccuracy          WarningCode = "LOW_GPS_ACCURACY"
	WarnInsufficientCaptureTime WarningCode = "INSUFFICIENT_CAPTURE_TIME"
)

// ValidationStats carries the diagnostics accumulated by every check,
// regardless of pass/fail, for observability and audit.
type ValidationStats struct {
	SampleCount       int     `json:"sampleCount"`
	DistanceM         float64 `json:"distanceMeters"`
	MaxSpeedMPS       float64 `json:"maxSpeed"`
	AvgSpeedMPS       float64 `json:"avgSpeed"`
	MedianSpeedMPS    float64 `json:"medianSpeed"`
	P95SpeedMPS       float64 `json:"p95Speed"`
	VehicleSegments   int     `json:"vehicleSegments"`
	SuspiciousAccel   int     `json:"suspiciousAccelerations"`
	GpsJumps          int     `json:"gpsJumps"`
	MeanAccuracyM     float64 `json:"meanAccuracyMeters"`
	Straightness      float64 `json:"straightness"` // straight triples / max(1, n-2)
	TotalTimeSec      float64 `json:"totalTimeSeconds"`
	StationaryTimeSec float64 `json:"stationaryTimeSeconds"`
}

// Verdict is the outcome of anti-cheat validation for one trace.
// Any error makes the trace unusable for claiming; warnings are advisory.
type Verdict struct {
	Valid    bool            `json:"valid"`
	Errors   []ErrorCode     `json:"errors"`
	Warnings []WarningCode   `json:"warnings"`
	Stats    ValidationStats `json:"stats"`
}

// HasError reports whether the verdict contains the given error code
func (v Verdict) HasError(code ErrorCode) bool {
	for _, e := range v.Errors {
		if e == code {
			return true
		}
	}
	return false
}

// HasWarning reports whether the verdict contains the given warning code
func (v Verdict) HasWarning(code WarningCode) bool {
	for _, w := range v.Warnings {
		if w == code {
			return true
		}
	}
	return false
}
