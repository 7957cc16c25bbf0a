package core

import (
	"fmt"
	"sort"

	"github.com/signalsfoundry/astro-ephemeris/timectrl"
)

// CoordinateSystem identifies the reference frame of an ephemeris.
type CoordinateSystem int

const (
	CoordFixed CoordinateSystem = iota
	CoordInertial
	CoordTEME
	CoordJ2000
)

var coordNames = map[CoordinateSystem]string{
	CoordFixed:    "FIXED",
	CoordInertial: "INERTIAL",
	CoordTEME:     "TEME",
	CoordJ2000:    "J2000",
}

// STK "CoordinateSystem" keyword values.
var coordSTKNames = map[CoordinateSystem]string{
	CoordFixed:    "FIXED",
	CoordInertial: "ICRF",
	CoordTEME:     "TEMEOfEpoch",
	CoordJ2000:    "J2000",
}

func (c CoordinateSystem) String() string {
	if s, ok := coordNames[c]; ok {
		return s
	}
	return fmt.Sprintf("CoordinateSystem(%d)", int(c))
}

// STKName returns the name used for c in STK ephemeris files.
func (c CoordinateSystem) STKName() (string, bool) {
	s, ok := coordSTKNames[c]
	return s, ok
}

// CoordinateSystemFromSTK maps an STK CoordinateSystem value back to c.
func CoordinateSystemFromSTK(name string) (CoordinateSystem, bool) {
	for c, s := range coordSTKNames {
		if s == name {
			return c, true
		}
	}
	return 0, false
}

// NeedsEpoch reports whether the frame is only defined relative to an epoch.
func (c CoordinateSystem) NeedsEpoch() bool { return c == CoordTEME }

// Ephemeris is a time-ordered set of state samples in one coordinate system.
//
// States must be strictly increasing in time with no duplicates; lookup and
// merging rely on it. Append and Insert keep the invariant; code that fills
// States directly should call Validate. Operations never modify the receiver
// and never return slices that alias it.
type Ephemeris struct {
	CoordSystem CoordinateSystem
	// CoordEpoch is only meaningful when CoordSystem is CoordTEME.
	CoordEpoch        timectrl.Timecode
	AccelerationValid bool
	States            []StateVec
}

// NewEphemeris returns an empty ephemeris in the given frame.
func NewEphemeris(cs CoordinateSystem, csEpoch timectrl.Timecode) Ephemeris {
	return Ephemeris{CoordSystem: cs, CoordEpoch: csEpoch}
}

// WithStates returns an ephemeris with e's metadata and a copy of states.
func (e Ephemeris) WithStates(states []StateVec) Ephemeris {
	out := e
	out.States = append([]StateVec(nil), states...)
	return out
}

// Clone returns a deep copy of e.
func (e Ephemeris) Clone() Ephemeris {
	return e.WithStates(e.States)
}

// Len returns the number of states.
func (e Ephemeris) Len() int { return len(e.States) }

// First returns the earliest state.
func (e Ephemeris) First() (StateVec, error) {
	if len(e.States) == 0 {
		return StateVec{}, ErrEmptyEphemeris
	}
	return e.States[0], nil
}

// Last returns the latest state.
func (e Ephemeris) Last() (StateVec, error) {
	if len(e.States) == 0 {
		return StateVec{}, ErrEmptyEphemeris
	}
	return e.States[len(e.States)-1], nil
}

// Span returns the first and last timestamps.
func (e Ephemeris) Span() (timectrl.Timecode, timectrl.Timecode, error) {
	if len(e.States) == 0 {
		return timectrl.Timecode{}, timectrl.Timecode{}, ErrEmptyEphemeris
	}
	return e.States[0].Time, e.States[len(e.States)-1].Time, nil
}

// Append adds s after the last state. s must be strictly later.
func (e *Ephemeris) Append(s StateVec) error {
	if n := len(e.States); n > 0 && !s.Time.After(e.States[n-1].Time) {
		return fmt.Errorf("append at %s after %s: %w", s.Time, e.States[n-1].Time, ErrNotIncreasing)
	}
	e.States = append(e.States, s)
	return nil
}

// Insert places s in time order. A state with the same timestamp as an
// existing one is rejected.
func (e *Ephemeris) Insert(s StateVec) error {
	i, found := e.search(s.Time)
	if found {
		return fmt.Errorf("insert at %s: duplicate timestamp: %w", s.Time, ErrNotIncreasing)
	}
	e.States = append(e.States, StateVec{})
	copy(e.States[i+1:], e.States[i:])
	e.States[i] = s
	return nil
}

// Validate checks the strictly-increasing time invariant.
func (e Ephemeris) Validate() error {
	for i := 1; i < len(e.States); i++ {
		if !e.States[i].Time.After(e.States[i-1].Time) {
			return fmt.Errorf("state %d at %s follows %s: %w", i, e.States[i].Time, e.States[i-1].Time, ErrNotIncreasing)
		}
	}
	return nil
}

// Index returns the position of the state stamped exactly t.
func (e Ephemeris) Index(t timectrl.Timecode) (int, bool) {
	i, found := e.search(t)
	if !found {
		return -1, false
	}
	return i, true
}

// search returns the first index whose time is not before t, and whether
// that state is stamped exactly t.
func (e Ephemeris) search(t timectrl.Timecode) (int, bool) {
	i := sort.Search(len(e.States), func(i int) bool {
		return !e.States[i].Time.Before(t)
	})
	return i, i < len(e.States) && e.States[i].Time.Equal(t)
}

// Clip returns the states within [start, stop] inclusive.
func (e Ephemeris) Clip(start, stop timectrl.Timecode) Ephemeris {
	lo, _ := e.search(start)
	hi := lo
	for hi < len(e.States) && !e.States[hi].Time.After(stop) {
		hi++
	}
	return e.WithStates(e.States[lo:hi])
}

// Overlap returns the time span covered by both e and other.
func (e Ephemeris) Overlap(other Ephemeris) (timectrl.Timecode, timectrl.Timecode, error) {
	s0, e0, err := e.Span()
	if err != nil {
		return s0, e0, err
	}
	s1, e1, err := other.Span()
	if err != nil {
		return s1, e1, err
	}
	start, stop := s0, e0
	if s1.After(start) {
		start = s1
	}
	if e1.Before(stop) {
		stop = e1
	}
	if start.After(stop) {
		return start, stop, fmt.Errorf("spans [%s, %s] and [%s, %s] are disjoint: %w", s0, e0, s1, e1, ErrOutOfRange)
	}
	return start, stop, nil
}
