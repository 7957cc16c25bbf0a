package core

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/astro-ephemeris/timectrl"
)

// DefaultInterpPoints is the window size used when callers have no
// preference: a cubic through the four samples around the query.
const DefaultInterpPoints = 4

// StateAt returns the state at t. A query that lands exactly on a stored
// sample returns that sample untouched; anything else is interpolated
// component by component with a Newton polynomial through numPoints samples
// centred on the bracketing pair. Near either end the window slides inward
// rather than shrinking, and an ephemeris with fewer than numPoints samples
// uses all of them. numPoints below 2 is treated as 2.
func (e Ephemeris) StateAt(t timectrl.Timecode, numPoints int) (StateVec, error) {
	n := len(e.States)
	if n == 0 {
		return StateVec{}, ErrEmptyEphemeris
	}

	idx, exact := e.search(t)
	if exact {
		return e.States[idx], nil
	}
	if idx == 0 || idx == n {
		return StateVec{}, fmt.Errorf("state at %s, span [%s, %s]: %w",
			t, e.States[0].Time, e.States[n-1].Time, ErrOutOfRange)
	}

	lo, hi := interpWindow(idx-1, n, numPoints)
	window := e.States[lo:hi]

	// Abscissae are seconds from the first sample so they stay small enough
	// to keep full double precision.
	ref := e.States[0].Time
	xs := make([]float64, len(window))
	for i, s := range window {
		xs[i] = s.Time.Diff(ref)
	}
	xq := t.Diff(ref)

	out := StateVec{Time: t, HasAcc: e.AccelerationValid}
	fx := make([]float64, len(window))
	for c := 0; c < out.Len(); c++ {
		for i, s := range window {
			fx[i] = s.component(c)
		}
		out.setComponent(c, Interpolate(xs, fx, xq))
	}
	return out, nil
}

// interpWindow returns the half-open sample range [lo, hi) used to
// interpolate between samples left and left+1 of an n-sample ephemeris.
func interpWindow(left, n, numPoints int) (int, int) {
	if numPoints < 2 {
		numPoints = 2
	}
	if n <= numPoints {
		return 0, n
	}
	lo := left - (numPoints-2)/2
	if lo < 0 {
		lo = 0
	}
	if lo+numPoints > n {
		lo = n - numPoints
	}
	return lo, lo + numPoints
}

// Resample interpolates e onto a fixed cadence of step seconds starting at
// the first sample. The last output sample is always stamped with e's last
// timestamp, so the result spans exactly the same interval.
func (e Ephemeris) Resample(step float64, numPoints int) (Ephemeris, error) {
	start, stop, err := e.Span()
	if err != nil {
		return Ephemeris{}, err
	}

	out := e.WithStates(nil)
	s := timectrl.NewStepper(start, stop, step)
	s.AddListener(func(tc timectrl.Timecode) error {
		sv, err := e.StateAt(tc, numPoints)
		if err != nil {
			return err
		}
		out.States = append(out.States, sv)
		return nil
	})
	if err := s.Run(); err != nil {
		if errors.Is(err, timectrl.ErrInvalidStep) {
			return Ephemeris{}, fmt.Errorf("resample step %v: %w", step, ErrInvalidStep)
		}
		return Ephemeris{}, fmt.Errorf("resample: %w", err)
	}
	return out, nil
}
