package scan

import (
	"fmt"
	"io"

	"github.com/roach88/beacon/internal/geom"
)

// Scanner is one sensor's readings in its local frame.
// The beacon list is not modified after parsing.
type Scanner struct {
	ID      int
	Beacons []geom.Point
}

// Header returns the block header line for s.
func (s Scanner) Header() string {
	return fmt.Sprintf("--- scanner %d ---", s.ID)
}

// BeaconCount sums the readings over all scanners.
func BeaconCount(scanners []Scanner) int {
	n := 0
	for _, s := range scanners {
		n += len(s.Beacons)
	}
	return n
}

// Format writes scanners in the same text form Parse reads.
func Format(w io.Writer, scanners []Scanner) error {
	for i, s := range scanners {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, s.Header()); err != nil {
			return err
		}
		for _, b := range s.Beacons {
			if _, err := fmt.Fprintln(w, b.String()); err != nil {
				return err
			}
		}
	}
	return nil
}
