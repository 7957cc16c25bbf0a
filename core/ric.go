package core

import (
	"fmt"
	"sort"
)

// RelativeMotion returns RIC offsets between e and other over the union of
// both sample grids.
//
// At each of e's timestamps, other is interpolated and the offset of other
// is taken in the RIC frame of e's own sample. At each of other's timestamps
// that e lacks, e is interpolated instead and the delta runs the other way:
// the offset of the interpolated e state in the RIC frame of other's sample.
// The merged offsets are sorted by time and returned as an ephemeris with e's
// metadata (the states are RIC deltas, not absolute states).
//
// The inputs are not clipped to their common span: if one ephemeris starts
// earlier or ends later than the other, interpolating at those samples fails
// with ErrOutOfRange. Use Overlap and Clip first when that is not wanted.
func (e Ephemeris) RelativeMotion(other Ephemeris, numPoints int) (Ephemeris, error) {
	out := e.WithStates(nil)
	out.AccelerationValid = false
	out.States = make([]StateVec, 0, len(e.States)+len(other.States))

	for _, s := range e.States {
		o, err := other.StateAt(s.Time, numPoints)
		if err != nil {
			return Ephemeris{}, fmt.Errorf("relative motion: other at %s: %w", s.Time, err)
		}
		d, err := s.RelativeTo(o)
		if err != nil {
			return Ephemeris{}, fmt.Errorf("relative motion: %w", err)
		}
		out.States = append(out.States, d)
	}

	for _, o := range other.States {
		if _, found := e.search(o.Time); found {
			continue
		}
		s, err := e.StateAt(o.Time, numPoints)
		if err != nil {
			return Ephemeris{}, fmt.Errorf("relative motion: reference at %s: %w", o.Time, err)
		}
		d, err := o.RelativeTo(s)
		if err != nil {
			return Ephemeris{}, fmt.Errorf("relative motion: %w", err)
		}
		out.States = append(out.States, d)
	}

	sort.SliceStable(out.States, func(i, j int) bool {
		return out.States[i].Less(out.States[j])
	})
	return out, nil
}
