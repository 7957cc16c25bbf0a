package timectrl

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidStep is returned when a cadence step is not a positive, finite
// number of seconds.
var ErrInvalidStep = errors.New("step must be a positive number of seconds")

// Stepper walks simulation time from Start to Stop at a fixed Step and
// notifies registered listeners at every instant. The final instant is always
// Stop itself, even when Stop does not fall on a step boundary.
//
// Unlike a wall-clock controller the walk is synchronous: Run returns after
// the last listener call.
type Stepper struct {
	Start Timecode
	Stop  Timecode
	Step  float64 // seconds

	listeners []func(Timecode) error
}

// NewStepper constructs a stepper.
func NewStepper(start, stop Timecode, step float64) *Stepper {
	return &Stepper{Start: start, Stop: stop, Step: step}
}

// AddListener registers a callback invoked at every instant. A listener error
// stops the walk and is returned from Run.
func (s *Stepper) AddListener(fn func(Timecode) error) {
	s.listeners = append(s.listeners, fn)
}

// Run walks the cadence. Instants are computed as Start + n*Step rather than
// by accumulation so rounding does not drift. A Stop earlier than Start
// produces no instants.
func (s *Stepper) Run() error {
	if !(s.Step > 0) || math.IsInf(s.Step, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidStep, s.Step)
	}

	count := 0
	tc := s.Start
	for !tc.After(s.Stop) {
		for _, fn := range s.listeners {
			if err := fn(tc); err != nil {
				return err
			}
		}
		count++

		next := s.Start.Add(float64(count) * s.Step)
		if tc.Before(s.Stop) && next.After(s.Stop) {
			tc = s.Stop
		} else {
			tc = next
		}
	}
	return nil
}

// Cadence returns every instant a Stepper over [start, stop] would visit.
func Cadence(start, stop Timecode, step float64) ([]Timecode, error) {
	var out []Timecode
	s := NewStepper(start, stop, step)
	s.AddListener(func(tc Timecode) error {
		out = append(out, tc)
		return nil
	})
	if err := s.Run(); err != nil {
		return nil, err
	}
	return out, nil
}
