package core

import (
	"fmt"

	"github.com/signalsfoundry/astro-ephemeris/timectrl"
)

// StateVec is a single kinematic sample: position and velocity (and
// optionally acceleration) at one instant. Positions are metres and
// velocities metres/second unless the producer says otherwise.
type StateVec struct {
	Time timectrl.Timecode
	Pos  Vec3
	Vel  Vec3
	Acc  Vec3

	// HasAcc marks Acc as meaningful and extends the flat component view
	// from 6 to 9 entries.
	HasAcc bool
}

// Len is the size of the flat component view: 6, or 9 with acceleration.
func (s StateVec) Len() int {
	if s.HasAcc {
		return 9
	}
	return 6
}

// Component returns flat component i: 0..2 position, 3..5 velocity,
// 6..8 acceleration.
func (s StateVec) Component(i int) (float64, error) {
	if i < 0 || i >= s.Len() {
		return 0, fmt.Errorf("component %d of %d: %w", i, s.Len(), ErrIndexOutOfRange)
	}
	return s.component(i), nil
}

// SetComponent returns a copy of s with flat component i replaced.
func (s StateVec) SetComponent(i int, v float64) (StateVec, error) {
	if i < 0 || i >= s.Len() {
		return s, fmt.Errorf("component %d of %d: %w", i, s.Len(), ErrIndexOutOfRange)
	}
	s.setComponent(i, v)
	return s, nil
}

func (s StateVec) component(i int) float64 {
	switch {
	case i < 3:
		return s.Pos.At(i)
	case i < 6:
		return s.Vel.At(i - 3)
	default:
		return s.Acc.At(i - 6)
	}
}

func (s *StateVec) setComponent(i int, v float64) {
	switch {
	case i < 3:
		s.Pos = s.Pos.With(i, v)
	case i < 6:
		s.Vel = s.Vel.With(i-3, v)
	default:
		s.Acc = s.Acc.With(i-6, v)
	}
}

// Less orders samples by time.
func (s StateVec) Less(other StateVec) bool {
	return s.Time.Before(other.Time)
}

// RICFrame returns the rotation from the state's own frame into its
// radial / in-track / cross-track frame. Rows are the R, I and C unit vectors:
// R along position, C along the orbit normal r×v, I = C×R.
func (s StateVec) RICFrame() Mat3 {
	rHat := s.Pos.Unit()
	cHat := s.Pos.Cross(s.Vel).Unit()
	iHat := cHat.Cross(rHat).Unit()
	return MatFromRows(rHat, iHat, cHat)
}

// RelativeTo returns other's position and velocity offsets from s, expressed
// in s's RIC frame. Both samples must carry the same timestamp.
func (s StateVec) RelativeTo(other StateVec) (StateVec, error) {
	if !s.Time.Equal(other.Time) {
		return StateVec{}, fmt.Errorf("relative state at %s vs %s: %w", s.Time, other.Time, ErrTimeMismatch)
	}
	rot := s.RICFrame()
	return StateVec{
		Time: s.Time,
		Pos:  rot.MulVec(other.Pos.Sub(s.Pos)),
		Vel:  rot.MulVec(other.Vel.Sub(s.Vel)),
	}, nil
}

func (s StateVec) String() string {
	return fmt.Sprintf("%s pos=%s vel=%s", s.Time, s.Pos, s.Vel)
}
