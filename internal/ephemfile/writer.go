// Package ephemfile reads and writes STK ".e" ephemeris files
// (stk.v.4.3, EphemerisTimePosVel) and the plain-text RIC report.
package ephemfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/signalsfoundry/astro-ephemeris/core"
)

// Header keywords and markers.
const (
	formatTag           = "stk.v.4.3"
	beginMarker         = "BEGIN Ephemeris"
	endMarker           = "END Ephemeris"
	dataMarker          = "EphemerisTimePosVel"
	keyScenarioEpoch    = "ScenarioEpoch"
	keyCoordSystem      = "CoordinateSystem"
	keyCoordSystemEpoch = "CoordinateSystemEpoch"
	keyNumberOfPoints   = "NumberOfEphemerisPoints"
	valuesPerDataLine   = 7
)

// Write renders e in STK ephemeris format. Sample times are written relative
// to the first sample, which also becomes the ScenarioEpoch.
func Write(w io.Writer, e core.Ephemeris) error {
	first, err := e.First()
	if err != nil {
		return fmt.Errorf("write ephemeris: %w", err)
	}
	frame, ok := e.CoordSystem.STKName()
	if !ok {
		return fmt.Errorf("write ephemeris: %v: %w", e.CoordSystem, core.ErrValidation)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", formatTag)
	fmt.Fprintf(bw, "%s\n\n", beginMarker)
	fmt.Fprintf(bw, "%s %s\n", keyScenarioEpoch, first.Time.STKString())
	fmt.Fprintf(bw, "%s %s\n", keyCoordSystem, frame)
	if e.CoordSystem.NeedsEpoch() {
		fmt.Fprintf(bw, "%s %s\n", keyCoordSystemEpoch, e.CoordEpoch.STKString())
	}
	fmt.Fprintf(bw, "%s %d\n", keyNumberOfPoints, len(e.States))

	fmt.Fprintf(bw, "\n%s\n", dataMarker)
	for _, s := range e.States {
		fmt.Fprintf(bw, "%.6f %.12f %.12f %.12f %.12f %.12f %.12f\n",
			s.Time.Diff(first.Time),
			s.Pos.X, s.Pos.Y, s.Pos.Z,
			s.Vel.X, s.Vel.Y, s.Vel.Z,
		)
	}
	fmt.Fprintf(bw, "\n%s\n", endMarker)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ephemeris: %w", err)
	}
	return nil
}
