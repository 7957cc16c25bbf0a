package timectrl

import "math"

// DateTime is a broken-down calendar instant. Sec carries the fractional
// seconds.
type DateTime struct {
	Year, Month, Day int
	Hour, Min        int
	Sec              float64
}

// The leap rule below is "every year divisible by 4". It matches the
// Gregorian calendar from 1901 through 2099; with the 1950 reference epoch and
// the whole-second decomposition in ToCalendar the supported window is
// 1950-01-01 through 2099-12-31. Inputs outside it are not rejected.
const (
	epochYear     = 1950
	secondsPerDay = 86400
	daysPer4Years = 365*4 + 1
)

var monthOffset = [12]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

var monthDays = [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// FromCalendar converts calendar fields to a Timecode.
//
// Fields are not range checked. A month outside 1..12 is folded into the year
// (month 13 of 2000 is January 2001); every other field is added linearly, so
// day 32 of January lands on February 1 and 75 seconds is 1m15s.
func FromCalendar(year, month, day, hour, min int, sec float64) Timecode {
	y := int64(year)
	m := int64(month) - 1
	y += floorDiv(m, 12)
	m = floorMod(m, 12)

	days := (y - epochYear) * 365
	days += (y - (epochYear - 1)) / 4 // leap days since epoch
	days += monthOffset[m]
	if y%4 == 0 && m > 1 {
		days++
	}
	days += int64(day) - 1

	whole := days*24 + int64(hour)
	whole = whole*60 + int64(min)
	whole *= 60
	return New(whole, sec)
}

// FromDateTime converts a DateTime to a Timecode.
func FromDateTime(dt DateTime) Timecode {
	return FromCalendar(dt.Year, dt.Month, dt.Day, dt.Hour, dt.Min, dt.Sec)
}

// ToCalendar breaks tc into calendar fields. When places >= 0 the seconds are
// rounded to that many decimal places first; a residual that rounds up to a
// full second is carried into the whole count before decomposition so the
// result never shows 60 seconds.
func (tc Timecode) ToCalendar(places int) DateTime {
	whole, fract := tc.whole, tc.fract
	if places >= 0 {
		scale := math.Pow(10, float64(places))
		fract = math.Round(fract*scale) / scale
		if fract >= 1 {
			whole++
			fract = 0
		}
	}

	sec := floorMod(whole, 60)
	whole = floorDiv(whole, 60)
	min := floorMod(whole, 60)
	whole = floorDiv(whole, 60)
	hour := floorMod(whole, 24)
	days := floorDiv(whole, 24)

	// Shift the day count to 1948-01-01 so every 4-year block starts on a
	// leap year.
	days += 365 + 366
	year := 1948 + floorDiv(days, daysPer4Years)*4
	days = floorMod(days, daysPer4Years)

	leap := true
	if days > 365 {
		year++
		days -= 366
		year += days / 365
		days %= 365
		leap = false
	}

	month := 0
	for ; month < 11; month++ {
		n := monthDays[month]
		if month == 1 && leap {
			n++
		}
		if days < n {
			break
		}
		days -= n
	}

	return DateTime{
		Year:  int(year),
		Month: month + 1,
		Day:   int(days) + 1,
		Hour:  int(hour),
		Min:   int(min),
		Sec:   float64(sec) + fract,
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
