// Package timectrl provides the continuous time representation used by the
// ephemeris tools: an integer count of whole seconds since 1950-01-01 plus a
// fractional residual, with calendar conversion and fixed-cadence stepping.
package timectrl

import "math"

// Timecode is an instant counted from the 1950-01-01T00:00:00 reference epoch.
//
// The residual is kept in [0, 1) at all times; every constructor and every
// arithmetic method renormalizes so the whole-second count absorbs any carry.
// Timecode is a value type and is safe to copy.
type Timecode struct {
	whole int64
	fract float64
}

// New builds a Timecode from a whole-second count and an arbitrary (possibly
// negative or >1) fractional part.
func New(whole int64, fract float64) Timecode {
	tc := Timecode{whole: whole, fract: fract}
	tc.normalize()
	return tc
}

// Whole returns the whole seconds since the reference epoch.
func (tc Timecode) Whole() int64 { return tc.whole }

// Fract returns the fractional-second residual in [0, 1).
func (tc Timecode) Fract() float64 { return tc.fract }

func (tc *Timecode) normalize() {
	lower := math.Floor(tc.fract)
	tc.whole += int64(lower)
	tc.fract -= lower
	// fract - floor(fract) can round up to exactly 1 for tiny negative inputs.
	if tc.fract >= 1 {
		tc.whole++
		tc.fract -= 1
	}
}

// Add returns tc shifted forward by sec seconds. The integral part of sec is
// applied to the whole-second count directly so that integer shifts are exact.
func (tc Timecode) Add(sec float64) Timecode {
	ws := math.Floor(sec)
	return New(tc.whole+int64(ws), tc.fract+(sec-ws))
}

// Sub returns tc shifted backward by sec seconds.
func (tc Timecode) Sub(sec float64) Timecode {
	return tc.Add(-sec)
}

// Diff returns tc - other in seconds.
func (tc Timecode) Diff(other Timecode) float64 {
	return float64(tc.whole-other.whole) + (tc.fract - other.fract)
}

// Compare returns -1, 0 or +1 as tc is before, equal to, or after other.
func (tc Timecode) Compare(other Timecode) int {
	switch {
	case tc.whole < other.whole:
		return -1
	case tc.whole > other.whole:
		return 1
	case tc.fract < other.fract:
		return -1
	case tc.fract > other.fract:
		return 1
	}
	return 0
}

// Before reports whether tc is strictly earlier than other.
func (tc Timecode) Before(other Timecode) bool { return tc.Compare(other) < 0 }

// After reports whether tc is strictly later than other.
func (tc Timecode) After(other Timecode) bool { return tc.Compare(other) > 0 }

// Equal reports whether both instants are identical.
func (tc Timecode) Equal(other Timecode) bool { return tc.Compare(other) == 0 }
