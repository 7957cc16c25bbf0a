package core

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/astro-ephemeris/timectrl"
)

// go-satellite works in kilometres; states are stored in metres.
const kmToM = 1000.0

// TLE is a parsed two-line element set bound to an SGP4 propagator. States
// come out in the TEME frame of the element epoch.
type TLE struct {
	Name  string
	Line1 string
	Line2 string
	SatID string
	Epoch timectrl.Timecode

	sat satellite.Satellite
}

// ParseTLE validates the two element lines and initialises SGP4 with WGS72
// constants. name is optional.
func ParseTLE(name, line1, line2 string) (*TLE, error) {
	line1 = strings.TrimRight(line1, " \t\r\n")
	line2 = strings.TrimRight(line2, " \t\r\n")
	if len(line1) < 64 || !strings.HasPrefix(line1, "1 ") {
		return nil, fmt.Errorf("line 1 %q: %w", line1, ErrInvalidTLE)
	}
	if len(line2) < 63 || !strings.HasPrefix(line2, "2 ") {
		return nil, fmt.Errorf("line 2 %q: %w", line2, ErrInvalidTLE)
	}

	satID := strings.TrimSpace(line1[2:7])
	if id2 := strings.TrimSpace(line2[2:7]); id2 != satID {
		return nil, fmt.Errorf("catalog numbers %q and %q differ: %w", satID, id2, ErrInvalidTLE)
	}

	epoch, err := parseTLEEpoch(line1[18:32])
	if err != nil {
		return nil, err
	}

	return &TLE{
		Name:  strings.TrimSpace(name),
		Line1: line1,
		Line2: line2,
		SatID: satID,
		Epoch: epoch,
		sat:   satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
	}, nil
}

// parseTLEEpoch decodes the YYDDD.DDDDDDDD epoch field. Two-digit years
// below 57 are 20xx, as in the NORAD convention.
func parseTLEEpoch(field string) (timectrl.Timecode, error) {
	field = strings.TrimSpace(field)
	if len(field) < 5 {
		return timectrl.Timecode{}, fmt.Errorf("epoch %q: %w", field, ErrInvalidTLE)
	}
	yy, err := strconv.Atoi(field[:2])
	if err != nil {
		return timectrl.Timecode{}, fmt.Errorf("epoch year %q: %w", field, ErrInvalidTLE)
	}
	doy, err := strconv.ParseFloat(field[2:], 64)
	if err != nil {
		return timectrl.Timecode{}, fmt.Errorf("epoch day %q: %w", field, ErrInvalidTLE)
	}
	year := 1900 + yy
	if yy < 57 {
		year = 2000 + yy
	}
	return timectrl.FromCalendar(year, 1, 1, 0, 0, 0).Add((doy - 1) * 86400), nil
}

// Frame reports TEME of the element epoch.
func (t *TLE) Frame() (CoordinateSystem, timectrl.Timecode) {
	return CoordTEME, t.Epoch
}

// StateAt propagates the elements to tc.
//
// go-satellite only accepts whole seconds, so the state is propagated to the
// second at or before tc and advanced over the remaining fraction along the
// velocity vector.
func (t *TLE) StateAt(tc timectrl.Timecode) (StateVec, error) {
	dt := tc.ToCalendar(-1)
	whole := math.Floor(dt.Sec)
	frac := dt.Sec - whole

	pos, vel := satellite.Propagate(t.sat, dt.Year, dt.Month, dt.Day, dt.Hour, dt.Min, int(whole))
	p := Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}.Scale(kmToM)
	v := Vec3{X: vel.X, Y: vel.Y, Z: vel.Z}.Scale(kmToM)
	if math.IsNaN(p.Norm()) || math.IsNaN(v.Norm()) || p.Norm() == 0 {
		return StateVec{}, fmt.Errorf("satellite %s at %s: %w", t.SatID, tc, ErrPropagation)
	}

	return StateVec{
		Time: tc,
		Pos:  p.Add(v.Scale(frac)),
		Vel:  v,
	}, nil
}

// ReadTLEs reads every element set from r. Both the bare two-line form and
// the three-line form with a leading name line (optionally "0 "-prefixed)
// are accepted. Lines that are neither names nor element lines are skipped.
func ReadTLEs(r io.Reader) ([]*TLE, error) {
	var (
		out  []*TLE
		name string
		l1   string
	)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")
		switch {
		case strings.TrimSpace(line) == "":
			continue
		case strings.HasPrefix(line, "1 ") && len(line) >= 64:
			l1 = line
		case strings.HasPrefix(line, "2 ") && l1 != "":
			tle, err := ParseTLE(name, l1, line)
			if err != nil {
				return nil, fmt.Errorf("element set ending on line %d: %w", lineNo, err)
			}
			out = append(out, tle)
			name, l1 = "", ""
		default:
			name = strings.TrimPrefix(line, "0 ")
			l1 = ""
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read element sets: %w", err)
	}
	return out, nil
}

// FindTLE returns the element set whose catalog number or name is satID, or
// the first one when satID is empty.
func FindTLE(tles []*TLE, satID string) (*TLE, error) {
	if len(tles) == 0 {
		return nil, ErrTLENotFound
	}
	if satID == "" {
		return tles[0], nil
	}
	want := strings.TrimLeft(strings.TrimSpace(satID), "0")
	for _, t := range tles {
		if strings.TrimLeft(t.SatID, "0") == want || strings.EqualFold(t.Name, satID) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("satellite %q: %w", satID, ErrTLENotFound)
}
