package timectrl

import (
	"math"
	"testing"
)

func TestCalendarRoundTrip(t *testing.T) {
	tc := FromCalendar(2000, 1, 2, 3, 4, 5.678901)
	got := tc.ToCalendar(-1)
	want := DateTime{Year: 2000, Month: 1, Day: 2, Hour: 3, Min: 4, Sec: 5.678901}
	if got != want {
		t.Fatalf("ToCalendar() = %+v, want %+v", got, want)
	}
}

func TestCalendarRoundTripAcrossWindow(t *testing.T) {
	cases := []DateTime{
		{Year: 1950, Month: 1, Day: 1},
		{Year: 1952, Month: 2, Day: 29, Hour: 12},
		{Year: 1999, Month: 12, Day: 31, Hour: 23, Min: 59, Sec: 59.5},
		{Year: 2000, Month: 2, Day: 29, Hour: 6, Min: 30, Sec: 1.25},
		{Year: 2017, Month: 7, Day: 8, Hour: 14, Min: 27, Sec: 39.833568},
		{Year: 2024, Month: 12, Day: 31, Hour: 0, Min: 0, Sec: 0.5},
		{Year: 2099, Month: 12, Day: 31, Hour: 23, Min: 59, Sec: 59},
	}
	for _, dt := range cases {
		if got := FromDateTime(dt).ToCalendar(-1); got != dt {
			t.Fatalf("round trip %+v -> %+v", dt, got)
		}
	}
}

func TestFromCalendarReferenceEpoch(t *testing.T) {
	tc := FromCalendar(1950, 1, 1, 0, 0, 0)
	if tc.Whole() != 0 || tc.Fract() != 0 {
		t.Fatalf("epoch = (%d, %v), want (0, 0)", tc.Whole(), tc.Fract())
	}
	if got := FromCalendar(1950, 1, 2, 0, 0, 0).Whole(); got != secondsPerDay {
		t.Fatalf("1950-01-02 = %d, want %d", got, secondsPerDay)
	}
}

func TestLeapDays(t *testing.T) {
	feb29 := FromCalendar(2000, 2, 29, 0, 0, 0)
	mar1 := FromCalendar(2000, 3, 1, 0, 0, 0)
	if d := mar1.Diff(feb29); d != secondsPerDay {
		t.Fatalf("2000-03-01 - 2000-02-29 = %v, want %v", d, secondsPerDay)
	}

	feb28 := FromCalendar(2001, 2, 28, 0, 0, 0)
	mar1 = FromCalendar(2001, 3, 1, 0, 0, 0)
	if d := mar1.Diff(feb28); d != secondsPerDay {
		t.Fatalf("2001-03-01 - 2001-02-28 = %v, want %v", d, secondsPerDay)
	}

	y2000 := FromCalendar(2000, 1, 1, 0, 0, 0)
	y2001 := FromCalendar(2001, 1, 1, 0, 0, 0)
	if d := y2001.Diff(y2000); d != 366*secondsPerDay {
		t.Fatalf("length of 2000 = %v s, want %v", d, 366*secondsPerDay)
	}
}

func TestFromCalendarResidualNormalized(t *testing.T) {
	tc := FromCalendar(2000, 1, 1, 0, 0, -0.25)
	if tc.Fract() != 0.75 {
		t.Fatalf("Fract() = %v, want 0.75", tc.Fract())
	}
	got := tc.ToCalendar(-1)
	want := DateTime{Year: 1999, Month: 12, Day: 31, Hour: 23, Min: 59, Sec: 59.75}
	if got != want {
		t.Fatalf("ToCalendar() = %+v, want %+v", got, want)
	}
}

func TestMonthOutsideRangeCarriesIntoYear(t *testing.T) {
	if a, b := FromCalendar(2000, 13, 1, 0, 0, 0), FromCalendar(2001, 1, 1, 0, 0, 0); !a.Equal(b) {
		t.Fatalf("month 13 = %v, want %v", a, b)
	}
	if a, b := FromCalendar(2000, 0, 15, 0, 0, 0), FromCalendar(1999, 12, 15, 0, 0, 0); !a.Equal(b) {
		t.Fatalf("month 0 = %v, want %v", a, b)
	}
	if a, b := FromCalendar(2000, 1, 32, 0, 0, 0), FromCalendar(2000, 2, 1, 0, 0, 0); !a.Equal(b) {
		t.Fatalf("day 32 = %v, want %v", a, b)
	}
}

func TestToCalendarRoundingCarries(t *testing.T) {
	tc := FromCalendar(1999, 12, 31, 23, 59, 59.9999996)

	got := tc.ToCalendar(6)
	want := DateTime{Year: 2000, Month: 1, Day: 1, Hour: 0, Min: 0, Sec: 0}
	if got != want {
		t.Fatalf("ToCalendar(6) = %+v, want %+v", got, want)
	}

	raw := tc.ToCalendar(-1)
	if raw.Year != 1999 || raw.Min != 59 || raw.Sec < 59.999999 || raw.Sec >= 60 {
		t.Fatalf("ToCalendar(-1) = %+v, want unrounded 23:59:59.9999996", raw)
	}

	// Rounding must not mutate the receiver.
	if again := tc.ToCalendar(-1); again != raw {
		t.Fatalf("second ToCalendar(-1) = %+v, want %+v", again, raw)
	}
}

func TestAddSubtract(t *testing.T) {
	tc := FromCalendar(2000, 1, 2, 3, 4, 5.678901)

	for _, s := range []float64{0, 10, -10, 86400, -3600, 1e6} {
		if got := tc.Add(s).Sub(s); !got.Equal(tc) {
			t.Fatalf("Add(%v).Sub(%v) = %v/%v, want %v/%v", s, s, got.Whole(), got.Fract(), tc.Whole(), tc.Fract())
		}
	}
	for _, s := range []float64{0.5, -0.25, 10.3, -7200.123456} {
		got := tc.Add(s).Sub(s)
		if d := math.Abs(got.Diff(tc)); d > 1e-9 {
			t.Fatalf("Add(%v).Sub(%v) off by %v", s, s, d)
		}
	}

	tc1 := tc.Add(10)
	if got := tc1.ToCalendar(-1); math.Abs(got.Sec-15.678901) > 1e-12 {
		t.Fatalf("tc+10 seconds field = %v, want 15.678901", got.Sec)
	}
	if d := tc1.Diff(tc); d != 10 {
		t.Fatalf("tc1 - tc = %v, want 10", d)
	}
}

func TestDiffAntisymmetric(t *testing.T) {
	a := FromCalendar(2017, 7, 8, 14, 27, 39.833568)
	b := FromCalendar(2017, 7, 9, 2, 0, 0.125)
	if ab, ba := a.Diff(b), b.Diff(a); ab != -ba {
		t.Fatalf("a-b = %v, b-a = %v", ab, ba)
	}
}

func TestOrdering(t *testing.T) {
	tc := FromCalendar(2000, 1, 2, 3, 4, 5.678901)
	tc1 := tc.Add(10)
	tc2 := tc.Sub(10)

	if !tc1.After(tc) {
		t.Fatalf("tc+10 should be after tc")
	}
	if !tc2.Before(tc) {
		t.Fatalf("tc-10 should be before tc")
	}
	if !tc.Equal(tc) {
		t.Fatalf("tc should equal itself")
	}
	if tc1.Equal(tc2) {
		t.Fatalf("tc+10 should not equal tc-10")
	}
	if tc.Compare(tc.Add(1e-6)) != -1 || tc.Add(1e-6).Compare(tc) != 1 {
		t.Fatalf("sub-second ordering broken")
	}
}
