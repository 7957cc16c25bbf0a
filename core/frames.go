package core

import (
	"fmt"
	"math"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/astro-ephemeris/timectrl"
)

// EarthRotationRate is the mean Earth rotation rate in radians per second.
const EarthRotationRate = 7.2921158553e-5

// gmst returns the Greenwich mean sidereal angle at tc in radians.
func gmst(tc timectrl.Timecode) float64 {
	dt := tc.ToCalendar(-1)
	whole := math.Floor(dt.Sec)
	jd := satellite.JDay(dt.Year, dt.Month, dt.Day, dt.Hour, dt.Min, int(whole))
	jd += (dt.Sec - whole) / 86400
	return satellite.ThetaG_JD(jd)
}

// rotZ is the frame rotation by angle about the Z axis.
func rotZ(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
}

// TEMEToFixed rotates a TEME state into the Earth-fixed frame using GMST
// only (polar motion and the equation of the equinoxes are ignored). The
// velocity picks up the ω×r term of the rotating frame.
func TEMEToFixed(s StateVec) StateVec {
	rot := rotZ(gmst(s.Time))
	pos := rot.MulVec(s.Pos)
	omega := Vec3{Z: EarthRotationRate}
	vel := rot.MulVec(s.Vel).Sub(omega.Cross(pos))
	return StateVec{Time: s.Time, Pos: pos, Vel: vel}
}

// ToFixed converts a TEME ephemeris to the Earth-fixed frame. Acceleration
// is dropped. Ephemerides already in FIXED are returned as a copy; other
// frames are rejected.
func (e Ephemeris) ToFixed() (Ephemeris, error) {
	switch e.CoordSystem {
	case CoordFixed:
		return e.Clone(), nil
	case CoordTEME:
	default:
		return Ephemeris{}, fmt.Errorf("convert %s to FIXED: %w", e.CoordSystem, ErrValidation)
	}
	out := NewEphemeris(CoordFixed, timectrl.Timecode{})
	out.States = make([]StateVec, len(e.States))
	for i, s := range e.States {
		out.States[i] = TEMEToFixed(s)
	}
	return out, nil
}
