package ephemfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signalsfoundry/astro-ephemeris/core"
	"github.com/signalsfoundry/astro-ephemeris/timectrl"
)

type readerState int

const (
	inHeader readerState = iota
	inData
	done
)

// header collects the keyword values seen before the data section.
type header struct {
	scenarioEpoch    timectrl.Timecode
	hasScenarioEpoch bool
	coordSystem      core.CoordinateSystem
	hasCoordSystem   bool
	coordEpoch       timectrl.Timecode
	hasCoordEpoch    bool
	points           int
	hasPoints        bool
}

// Read parses an STK ephemeris. Header keywords are matched anywhere on a
// line and unrecognised header lines are ignored. Blank lines are skipped
// throughout.
func Read(r io.Reader) (core.Ephemeris, error) {
	var (
		h      header
		ephem  core.Ephemeris
		state  = inHeader
		lineNo int
	)

	sc := bufio.NewScanner(r)
	for state != done && sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		switch state {
		case inHeader:
			if strings.Contains(line, dataMarker) {
				if err := h.check(); err != nil {
					return core.Ephemeris{}, err
				}
				ephem = core.NewEphemeris(h.coordSystem, h.coordEpoch)
				state = inData
				continue
			}
			if err := h.parseLine(lineNo, line); err != nil {
				return core.Ephemeris{}, err
			}

		case inData:
			if strings.Contains(line, endMarker) {
				state = done
				continue
			}
			s, err := parseDataLine(lineNo, line, h.scenarioEpoch)
			if err != nil {
				return core.Ephemeris{}, err
			}
			if err := ephem.Append(s); err != nil {
				return core.Ephemeris{}, fmt.Errorf("ephemeris line %d: %w", lineNo, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return core.Ephemeris{}, fmt.Errorf("read ephemeris: %w", err)
	}

	switch state {
	case inHeader:
		if err := h.check(); err != nil {
			return core.Ephemeris{}, err
		}
		return core.Ephemeris{}, formatErr(0, dataMarker, ErrMissingData)
	case inData:
		return core.Ephemeris{}, formatErr(0, endMarker, ErrMissingEnd)
	}

	if ephem.Len() != h.points {
		return core.Ephemeris{}, formatErr(0, keyNumberOfPoints,
			fmt.Errorf("%w: header says %d, found %d", ErrPointCount, h.points, ephem.Len()))
	}
	return ephem, nil
}

// parseLine records a header keyword value. CoordinateSystemEpoch contains
// CoordinateSystem, so it is tested first.
func (h *header) parseLine(lineNo int, line string) error {
	switch {
	case strings.Contains(line, keyScenarioEpoch):
		tc, err := timectrl.ParseSTK(valueAfter(line, keyScenarioEpoch))
		if err != nil {
			return formatErr(lineNo, keyScenarioEpoch, fmt.Errorf("%w: %v", ErrBadValue, err))
		}
		h.scenarioEpoch, h.hasScenarioEpoch = tc, true

	case strings.Contains(line, keyCoordSystemEpoch):
		tc, err := timectrl.ParseSTK(valueAfter(line, keyCoordSystemEpoch))
		if err != nil {
			return formatErr(lineNo, keyCoordSystemEpoch, fmt.Errorf("%w: %v", ErrBadValue, err))
		}
		h.coordEpoch, h.hasCoordEpoch = tc, true

	case strings.Contains(line, keyCoordSystem):
		name := valueAfter(line, keyCoordSystem)
		cs, ok := core.CoordinateSystemFromSTK(name)
		if !ok {
			return formatErr(lineNo, keyCoordSystem, fmt.Errorf("%w: %q", ErrUnknownFrame, name))
		}
		h.coordSystem, h.hasCoordSystem = cs, true

	case strings.Contains(line, keyNumberOfPoints):
		raw := valueAfter(line, keyNumberOfPoints)
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return formatErr(lineNo, keyNumberOfPoints, fmt.Errorf("%w: %q", ErrBadValue, raw))
		}
		h.points, h.hasPoints = n, true
	}
	return nil
}

// check verifies that every required keyword was seen.
func (h *header) check() error {
	switch {
	case !h.hasScenarioEpoch:
		return formatErr(0, keyScenarioEpoch, ErrMissingField)
	case !h.hasCoordSystem:
		return formatErr(0, keyCoordSystem, ErrMissingField)
	case h.coordSystem.NeedsEpoch() && !h.hasCoordEpoch:
		return formatErr(0, keyCoordSystemEpoch, ErrMissingTEMEEpoch)
	case !h.hasPoints:
		return formatErr(0, keyNumberOfPoints, ErrMissingField)
	}
	return nil
}

func valueAfter(line, key string) string {
	i := strings.Index(line, key)
	return strings.TrimSpace(line[i+len(key):])
}

func parseDataLine(lineNo int, line string, epoch timectrl.Timecode) (core.StateVec, error) {
	fields := strings.Fields(line)
	if len(fields) != valuesPerDataLine {
		return core.StateVec{}, formatErr(lineNo, "",
			fmt.Errorf("%w: got %d", ErrTokenCount, len(fields)))
	}
	var v [valuesPerDataLine]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return core.StateVec{}, formatErr(lineNo, "", fmt.Errorf("%w: %q", ErrBadValue, f))
		}
		v[i] = x
	}
	return core.StateVec{
		Time: epoch.Add(v[0]),
		Pos:  core.Vec3{X: v[1], Y: v[2], Z: v[3]},
		Vel:  core.Vec3{X: v[4], Y: v[5], Z: v[6]},
	}, nil
}
