package models

// ActivityType is the declared locomotion mode of a trace
type ActivityType string

const (
	ActivityRun   ActivityType = "run"
	ActivityCycle ActivityType = "cycle"
)

// SpeedProfile defines the plausible sustained speed band for an activity type
type SpeedProfile struct {
	MinMetersPerSec float64
	MaxMetersPerSec float64
}

// Profile returns the speed band for the activity type.
// The boolean is false for unrecognized types; the switch is kept exhaustive
// so adding an activity type is a compile-time checked change.
func (a ActivityType) Profile() (SpeedProfile, bool) {
	switch a {
	case ActivityRun:
		return SpeedProfile{MinMetersPerSec: 0.5, MaxMetersPerSec: 7.0}, true
	case ActivityCycle:
		return SpeedProfile{MinMetersPerSec: 1.0, MaxMetersPerSec: 12.0}, true
	}
	return SpeedProfile{}, false
}
