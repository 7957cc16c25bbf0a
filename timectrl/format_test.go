package timectrl

import (
	"errors"
	"testing"
)

func TestStringRendering(t *testing.T) {
	tc := FromCalendar(2000, 1, 2, 3, 4, 5.67890123456)
	if got, want := tc.String(), "2000-01-02::03:04:05.678901"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := tc.STKString(), "02 Jan 2000 03:04:05.678901"; got != want {
		t.Fatalf("STKString() = %q, want %q", got, want)
	}
}

func TestRenderingCarriesSixtySeconds(t *testing.T) {
	tc := FromCalendar(2016, 6, 30, 23, 59, 59.9999999)
	if got, want := tc.String(), "2016-07-01::00:00:00.000000"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := tc.STKString(), "01 Jul 2016 00:00:00.000000"; got != want {
		t.Fatalf("STKString() = %q, want %q", got, want)
	}
}

func TestParseSTKInvertsRendering(t *testing.T) {
	tc := FromCalendar(2017, 7, 8, 14, 27, 39.833568)
	got, err := ParseSTK(tc.STKString())
	if err != nil {
		t.Fatalf("ParseSTK: %v", err)
	}
	if !got.Equal(tc) {
		t.Fatalf("ParseSTK(%q) = %v, want %v", tc.STKString(), got, tc)
	}

	got, err = ParseSTK("  08   jul 2017  14:27:39.833568 ")
	if err != nil {
		t.Fatalf("ParseSTK with loose spacing: %v", err)
	}
	if !got.Equal(tc) {
		t.Fatalf("ParseSTK loose spacing = %v, want %v", got, tc)
	}
}

func TestParseSTKErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"08 Jul 2017",
		"08 Foo 2017 14:27:39.8",
		"xx Jul 2017 14:27:39.8",
		"08 Jul 2017 14:27",
		"08 Jul 2017 14:aa:39.8",
	} {
		if _, err := ParseSTK(in); !errors.Is(err, ErrMalformedTime) {
			t.Fatalf("ParseSTK(%q) err = %v, want ErrMalformedTime", in, err)
		}
	}
}

func TestParseISO(t *testing.T) {
	want := FromCalendar(2000, 1, 2, 3, 4, 5.678901)
	for _, in := range []string{
		"2000-01-02::03:04:05.678901",
		"2000-01-02T03:04:05.678901",
		"2000-01-02 03:04:05.678901",
	} {
		got, err := ParseISO(in)
		if err != nil {
			t.Fatalf("ParseISO(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseISO(%q) = %v, want %v", in, got, want)
		}
	}

	midnight, err := ParseISO("2021-10-02")
	if err != nil {
		t.Fatalf("ParseISO date only: %v", err)
	}
	if !midnight.Equal(FromCalendar(2021, 10, 2, 0, 0, 0)) {
		t.Fatalf("ParseISO date only = %v", midnight)
	}

	if _, err := ParseISO("2021/10/02"); !errors.Is(err, ErrMalformedTime) {
		t.Fatalf("ParseISO bad date err = %v, want ErrMalformedTime", err)
	}
}
