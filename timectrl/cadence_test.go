package timectrl

import (
	"errors"
	"testing"
)

func offsets(start Timecode, tcs []Timecode) []float64 {
	out := make([]float64, len(tcs))
	for i, tc := range tcs {
		out[i] = tc.Diff(start)
	}
	return out
}

func TestCadenceForcesFinalInstant(t *testing.T) {
	start := FromCalendar(2017, 7, 8, 0, 0, 0)
	got, err := Cadence(start, start.Add(25), 10)
	if err != nil {
		t.Fatalf("Cadence: %v", err)
	}
	want := []float64{0, 10, 20, 25}
	if off := offsets(start, got); len(off) != len(want) {
		t.Fatalf("Cadence offsets = %v, want %v", off, want)
	} else {
		for i := range want {
			if off[i] != want[i] {
				t.Fatalf("Cadence offsets = %v, want %v", off, want)
			}
		}
	}
}

func TestCadenceOnBoundaryHasNoDuplicate(t *testing.T) {
	start := FromCalendar(2017, 7, 8, 0, 0, 0.5)
	got, err := Cadence(start, start.Add(30), 10)
	if err != nil {
		t.Fatalf("Cadence: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len(Cadence) = %d, want 4 (%v)", len(got), offsets(start, got))
	}
	if !got[3].Equal(start.Add(30)) {
		t.Fatalf("last instant = %v, want %v", got[3], start.Add(30))
	}
}

func TestCadenceDegenerateSpans(t *testing.T) {
	start := FromCalendar(2017, 7, 8, 0, 0, 0)

	single, err := Cadence(start, start, 60)
	if err != nil || len(single) != 1 || !single[0].Equal(start) {
		t.Fatalf("Cadence(start, start) = %v, %v", single, err)
	}

	none, err := Cadence(start, start.Sub(1), 60)
	if err != nil || len(none) != 0 {
		t.Fatalf("Cadence with stop before start = %v, %v", none, err)
	}
}

func TestCadenceRejectsBadStep(t *testing.T) {
	start := FromCalendar(2017, 7, 8, 0, 0, 0)
	for _, step := range []float64{0, -1} {
		if _, err := Cadence(start, start.Add(10), step); !errors.Is(err, ErrInvalidStep) {
			t.Fatalf("Cadence step %v err = %v, want ErrInvalidStep", step, err)
		}
	}
}

func TestStepperListenerErrorStopsWalk(t *testing.T) {
	start := FromCalendar(2017, 7, 8, 0, 0, 0)
	boom := errors.New("boom")
	calls := 0

	s := NewStepper(start, start.Add(100), 10)
	s.AddListener(func(tc Timecode) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	if err := s.Run(); !errors.Is(err, boom) {
		t.Fatalf("Run err = %v, want boom", err)
	}
	if calls != 3 {
		t.Fatalf("listener calls = %d, want 3", calls)
	}
}
