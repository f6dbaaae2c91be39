// Package units provides shared constants and conversion for velocity units.
// Observations are trained and stored in m/s.
package units

import "fmt"

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

const mpsPerMPH = 0.44704 // exact by definition of the international mile

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ToMPS converts a velocity expressed in unit to meters per second.
func ToMPS(v float64, unit string) (float64, error) {
	switch unit {
	case MPS:
		return v, nil
	case MPH:
		return v * mpsPerMPH, nil
	case KMPH, KPH:
		return v / 3.6, nil
	default:
		return 0, fmt.Errorf("invalid velocity unit %q (valid: %s)", unit, GetValidUnitsString())
	}
}
