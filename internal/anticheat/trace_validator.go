// Package anticheat decides whether a recorded GPS trace represents genuine
// human movement. Validation is a pure function over the trace: no state is
// kept between calls and no I/O is performed, so traces can be validated
// concurrently without coordination.
package anticheat

import (
	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/spatial"
	"github.com/tilerun/territory-backend-go/internal/stats"
)

// Thresholds defines configurable limits for trace validation
type Thresholds struct {
	VehicleSpeedMPS      float64 // sustained speed above this suggests a vehicle
	VehicleRunLength     int     // consecutive fast segments tolerated before flagging
	MaxAccelMPS2         float64 // plausible human acceleration
	AccelMaxGapS         float64 // segments longer than this are skipped for acceleration
	AccelWindowS         float64 // acceleration only counts against short segments
	MaxSuspiciousAccel   int     // suspicious accelerations tolerated before warning
	JumpDistanceM        float64 // displacement that counts as a GPS jump
	JumpTimeS            float64 // jump window
	MaxJumps             int     // jumps tolerated before flagging
	MaxMeanAccuracyM     float64 // mean reported accuracy above this is a warning
	StraightDeviationDeg float64 // bearing deviation below this counts as straight
	StationaryDistanceM  float64 // segments shorter than this count as stationary
	MinCaptureTimeS      float64 // captures shorter than this are a warning
}

// DefaultThresholds provides the default validation thresholds
var DefaultThresholds = Thresholds{
	VehicleSpeedMPS:      25.0 / 3.6, // 25 km/h
	VehicleRunLength:     5,
	MaxAccelMPS2:         5.0,
	AccelMaxGapS:         10,
	AccelWindowS:         3,
	MaxSuspiciousAccel:   3,
	JumpDistanceM:        100.0,
	JumpTimeS:            5,
	MaxJumps:             5,
	MaxMeanAccuracyM:     50.0,
	StraightDeviationDeg: 5.0,
	StationaryDistanceM:  5.0,
	MinCaptureTimeS:      180,
}

// Validate runs the full anti-cheat analysis with default thresholds
func Validate(trace models.Trace) models.Verdict {
	return ValidateWithThresholds(trace, DefaultThresholds)
}

// ValidateWithThresholds runs the full anti-cheat analysis. Any error in the
// verdict makes the trace unusable for claiming; warnings never do. The shape
// check short-circuits because the later math requires at least two samples
// and a known activity; every other check runs to completion so multiple
// errors can be reported together, and statistics accumulate regardless of
// the outcome.
func ValidateWithThresholds(trace models.Trace, th Thresholds) models.Verdict {
	verdict := models.Verdict{
		Valid:    true,
		Errors:   []models.ErrorCode{},
		Warnings: []models.WarningCode{},
	}
	verdict.Stats.SampleCount = len(trace.Samples)

	// Shape check: precondition for all later analysis
	if len(trace.Samples) < 2 {
		verdict.Valid = false
		verdict.Errors = append(verdict.Errors, models.ErrMalformedTrace)
		return verdict
	}
	if _, ok := trace.Activity.Profile(); !ok {
		verdict.Valid = false
		verdict.Errors = append(verdict.Errors, models.ErrUnknownActivityType)
		return verdict
	}

	samples := trace.Samples
	st := &verdict.Stats

	var (
		speeds          []float64
		prevSpeed       float64
		prevSpeedValid  bool
		consecutiveFast int
	)

	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1], samples[i]
		dist := spatial.Distance(a.Lat, a.Lng, b.Lat, b.Lng)
		dt := float64(b.TimestampMs-a.TimestampMs) / 1000.0

		// Non-decreasing timestamps: ties contribute zero elapsed time
		if dt <= 0 {
			prevSpeedValid = false
			consecutiveFast = 0
			continue
		}

		st.DistanceM += dist
		st.TotalTimeSec += dt
		if dist < th.StationaryDistanceM {
			st.StationaryTimeSec += dt
		}

		speed := dist / dt
		speeds = append(speeds, speed)
		if speed > st.MaxSpeedMPS {
			st.MaxSpeedMPS = speed
		}

		// Sustained vehicle-speed detection: single spikes are GPS noise,
		// a long run of fast segments is not
		if speed > th.VehicleSpeedMPS {
			consecutiveFast++
			if consecutiveFast > th.VehicleRunLength {
				st.VehicleSegments++
			}
		} else {
			consecutiveFast = 0
		}

		// Acceleration analysis over adjacent segment speeds
		if prevSpeedValid && dt <= th.AccelMaxGapS {
			accel := speed - prevSpeed
			if accel < 0 {
				accel = -accel
			}
			if accel/dt > th.MaxAccelMPS2 && dt < th.AccelWindowS {
				st.SuspiciousAccel++
			}
		}
		prevSpeed = speed
		prevSpeedValid = true

		// Jump detection: large displacement in a short window
		if dt < th.JumpTimeS && dist > th.JumpDistanceM {
			st.GpsJumps++
		}
	}

	if len(speeds) > 0 {
		st.AvgSpeedMPS = stats.Mean(speeds)
		st.MedianSpeedMPS = stats.Median(speeds)
		st.P95SpeedMPS = stats.Percentile(speeds, 95)
	}

	// Mean reported accuracy, over samples that report it
	var accSum float64
	var accCount int
	for _, s := range samples {
		if s.AccuracyM != nil {
			accSum += *s.AccuracyM
			accCount++
		}
	}
	if accCount > 0 {
		st.MeanAccuracyM = accSum / float64(accCount)
	}

	// Straightness diagnostic: share of triples whose bearing barely changes.
	// Not a fail condition, retained for anomaly scoring.
	straight := 0
	for i := 1; i < len(samples)-1; i++ {
		in := spatial.Bearing(samples[i-1].Lat, samples[i-1].Lng, samples[i].Lat, samples[i].Lng)
		out := spatial.Bearing(samples[i].Lat, samples[i].Lng, samples[i+1].Lat, samples[i+1].Lng)
		if spatial.BearingDeviation(in, out) < th.StraightDeviationDeg {
			straight++
		}
	}
	triples := len(samples) - 2
	if triples < 1 {
		triples = 1
	}
	st.Straightness = float64(straight) / float64(triples)

	if st.VehicleSegments > 0 {
		verdict.Errors = append(verdict.Errors, models.ErrVehicleSpeedDetected)
	}
	if st.GpsJumps > th.MaxJumps {
		verdict.Errors = append(verdict.Errors, models.ErrTooManyGpsJumps)
	}

	if st.SuspiciousAccel > th.MaxSuspiciousAccel {
		verdict.Warnings = append(verdict.Warnings, models.WarnErraticAcceleration)
	}
	if accCount > 0 && st.MeanAccuracyM > th.MaxMeanAccuracyM {
		verdict.Warnings = append(verdict.Warnings, models.WarnLowGpsAccuracy)
	}
	if st.TotalTimeSec < th.MinCaptureTimeS {
		verdict.Warnings = append(verdict.Warnings, models.WarnInsufficientCaptureTime)
	}

	verdict.Valid = len(verdict.Errors) == 0
	return verdict
}
