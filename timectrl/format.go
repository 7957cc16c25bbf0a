package timectrl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedTime is returned when a rendered timestamp cannot be parsed.
var ErrMalformedTime = errors.New("malformed timestamp")

var monthAbbrev = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// renderPlaces is the seconds precision of both string renderings.
const renderPlaces = 6

// String renders tc as YYYY-MM-DD::HH:MM:SS.ssssss.
func (tc Timecode) String() string {
	dt := tc.ToCalendar(renderPlaces)
	return fmt.Sprintf("%04d-%02d-%02d::%02d:%02d:%09.6f",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Min, dt.Sec)
}

// STKString renders tc the way STK ephemeris headers expect it,
// e.g. "02 Jan 2000 03:04:05.678901".
func (tc Timecode) STKString() string {
	dt := tc.ToCalendar(renderPlaces)
	return fmt.Sprintf("%02d %s %04d %02d:%02d:%09.6f",
		dt.Day, monthAbbrev[dt.Month-1], dt.Year, dt.Hour, dt.Min, dt.Sec)
}

// ParseSTK parses the STKString rendering ("DD Mon YYYY HH:MM:SS.ssssss").
// Surrounding whitespace and runs of blanks between fields are accepted.
func ParseSTK(s string) (Timecode, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return Timecode{}, fmt.Errorf("%w: %q: want 4 fields, got %d", ErrMalformedTime, s, len(fields))
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return Timecode{}, fmt.Errorf("%w: %q: day: %v", ErrMalformedTime, s, err)
	}
	month := 0
	for i, abbr := range monthAbbrev {
		if strings.EqualFold(fields[1], abbr) {
			month = i + 1
			break
		}
	}
	if month == 0 {
		return Timecode{}, fmt.Errorf("%w: %q: unknown month %q", ErrMalformedTime, s, fields[1])
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return Timecode{}, fmt.Errorf("%w: %q: year: %v", ErrMalformedTime, s, err)
	}
	hour, min, sec, err := parseClock(fields[3])
	if err != nil {
		return Timecode{}, fmt.Errorf("%w: %q: %v", ErrMalformedTime, s, err)
	}
	return FromCalendar(year, month, day, hour, min, sec), nil
}

// ParseISO parses the String rendering ("YYYY-MM-DD::HH:MM:SS.ssssss"). A
// single "T" or blank is also accepted between date and clock, and the clock
// may be omitted for midnight.
func ParseISO(s string) (Timecode, error) {
	s = strings.TrimSpace(s)
	date, clock := s, ""
	switch {
	case strings.Contains(s, "::"):
		date, clock, _ = strings.Cut(s, "::")
	case strings.ContainsAny(s, "T "):
		i := strings.IndexAny(s, "T ")
		date, clock = s[:i], strings.TrimSpace(s[i+1:])
	}

	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return Timecode{}, fmt.Errorf("%w: %q: want YYYY-MM-DD", ErrMalformedTime, s)
	}
	var ymd [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Timecode{}, fmt.Errorf("%w: %q: %v", ErrMalformedTime, s, err)
		}
		ymd[i] = v
	}

	var (
		hour, min int
		sec       float64
	)
	if clock != "" {
		var err error
		hour, min, sec, err = parseClock(clock)
		if err != nil {
			return Timecode{}, fmt.Errorf("%w: %q: %v", ErrMalformedTime, s, err)
		}
	}
	return FromCalendar(ymd[0], ymd[1], ymd[2], hour, min, sec), nil
}

func parseClock(s string) (int, int, float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("clock %q: want HH:MM:SS", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("hour: %w", err)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("minute: %w", err)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("second: %w", err)
	}
	return hour, min, sec, nil
}
