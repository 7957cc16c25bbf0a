package ephemfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/signalsfoundry/astro-ephemeris/core"
)

// WriteRICReport writes one line per relative-motion sample:
// the time followed by the R, I, C position and velocity offsets.
func WriteRICReport(w io.Writer, e core.Ephemeris) error {
	bw := bufio.NewWriter(w)
	for _, s := range e.States {
		fmt.Fprintf(bw, "%s %f %f %f %f %f %f\n",
			s.Time,
			s.Pos.X, s.Pos.Y, s.Pos.Z,
			s.Vel.X, s.Vel.Y, s.Vel.Z,
		)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write RIC report: %w", err)
	}
	return nil
}
