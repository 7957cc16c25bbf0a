package core

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/astro-ephemeris/timectrl"
)

// Propagator produces the state of a trajectory model at an arbitrary time.
type Propagator interface {
	StateAt(t timectrl.Timecode) (StateVec, error)
}

// FrameReporter is implemented by propagators that know which frame their
// states are expressed in.
type FrameReporter interface {
	Frame() (CoordinateSystem, timectrl.Timecode)
}

// PropagatorFunc adapts a plain function to Propagator.
type PropagatorFunc func(t timectrl.Timecode) (StateVec, error)

// StateAt calls f(t).
func (f PropagatorFunc) StateAt(t timectrl.Timecode) (StateVec, error) { return f(t) }

// Generate samples p from start to stop every step seconds, always including
// stop itself. The ephemeris takes its frame from p when p is a
// FrameReporter and is tagged inertial otherwise.
func Generate(p Propagator, start, stop timectrl.Timecode, step float64) (Ephemeris, error) {
	ephem := NewEphemeris(CoordInertial, timectrl.Timecode{})
	if fr, ok := p.(FrameReporter); ok {
		ephem.CoordSystem, ephem.CoordEpoch = fr.Frame()
	}

	s := timectrl.NewStepper(start, stop, step)
	s.AddListener(func(tc timectrl.Timecode) error {
		sv, err := p.StateAt(tc)
		if err != nil {
			return err
		}
		sv.Time = tc
		return ephem.Append(sv)
	})
	if err := s.Run(); err != nil {
		if errors.Is(err, timectrl.ErrInvalidStep) {
			return Ephemeris{}, fmt.Errorf("generate step %v: %w", step, ErrInvalidStep)
		}
		return Ephemeris{}, fmt.Errorf("generate: %w", err)
	}
	return ephem, nil
}
