// Package epoch converts wall-clock instants into Julian day and century
// offsets from J2000.0.
package epoch

import (
	"math"
	"strings"
	"time"

	"cosmossdk.io/errors"

	"github.com/oxygene76/kepler-orbit/internal/types"
)

const (
	// MsPerDay is the number of milliseconds in one day
	MsPerDay = 86_400_000.0
	// UnixEpochJD is the Julian Day of 1970-01-01T00:00:00Z
	UnixEpochJD = 2440587.5
	// J2000OffsetJD is the day count subtracted to express days relative to J2000
	J2000OffsetJD = 2451543.5
	// DaysPerCentury is the length of a Julian century
	DaysPerCentury = 36525.0
)

// baseDateLayouts are tried in order by ParseBaseDate.
var baseDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// JulianDay converts a Unix millisecond timestamp into days since J2000.
// Non-finite input yields a non-finite result.
func JulianDay(instantMs float64) float64 {
	return instantMs/MsPerDay + UnixEpochJD - J2000OffsetJD
}

// JulianCentury converts a day offset into Julian centuries.
func JulianCentury(day float64) float64 {
	return day / DaysPerCentury
}

// CenturiesAt is JulianCentury(JulianDay(instantMs)).
func CenturiesAt(instantMs float64) float64 {
	return JulianCentury(JulianDay(instantMs))
}

// InstantMs returns t as Unix milliseconds including the sub-millisecond fraction.
func InstantMs(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e6
}

// TimeOf converts a millisecond instant back to a UTC time.
// The boolean is false when the instant is not finite.
func TimeOf(instantMs float64) (time.Time, bool) {
	if math.IsNaN(instantMs) || math.IsInf(instantMs, 0) {
		return time.Time{}, false
	}
	sec := math.Floor(instantMs / 1000)
	nsec := (instantMs - sec*1000) * 1e6
	return time.Unix(int64(sec), int64(nsec)).UTC(), true
}

// ParseBaseDate parses the externally supplied date into Unix milliseconds.
// Dates without a zone are read as UTC. An unparsable value yields NaN
// together with ErrInvalidInstant, so callers that ignore the error still
// end up with a non-finite instant.
func ParseBaseDate(value string) (float64, error) {
	value = strings.TrimSpace(value)
	for _, layout := range baseDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return InstantMs(t), nil
		}
	}
	return math.NaN(), errors.Wrapf(types.ErrInvalidInstant, "cannot parse date %q", value)
}
