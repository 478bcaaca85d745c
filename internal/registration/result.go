package registration

import (
	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/scan"
)

// Resolution is a scanner placed in the global frame.
type Resolution struct {
	Scanner     scan.Scanner
	Position    geom.Point
	Orientation geom.Orientation

	// Anchor is the ID of the resolved scanner this one was aligned
	// against, or -1 for the origin scanner.
	Anchor int

	// Pass is the pass that placed the scanner; 0 for the origin.
	Pass int

	// Overlap counts beacons shared with the anchor under the accepted
	// alignment. For the origin it is the scanner's own beacon count.
	Overlap int

	// Beacons are the scanner's readings in the global frame.
	Beacons []geom.Point
}

// Result is the resolved set after registration.
//
// It is insert-only while the engine runs and read-only once returned.
type Result struct {
	// Resolved maps scanner ID to its placement.
	Resolved map[int]*Resolution

	// Order lists scanner IDs in the order they were resolved.
	Order []int

	// Passes is the number of fixed-point passes executed.
	Passes int

	Threshold int
	Mode      geom.Mode
}

func newResult(threshold int, mode geom.Mode, capacity int) *Result {
	return &Result{
		Resolved:  make(map[int]*Resolution, capacity),
		Order:     make([]int, 0, capacity),
		Threshold: threshold,
		Mode:      mode,
	}
}

// insert records r. A scanner is placed exactly once.
func (r *Result) insert(res *Resolution) {
	if _, exists := r.Resolved[res.Scanner.ID]; exists {
		panic("registration: scanner resolved twice")
	}
	r.Resolved[res.Scanner.ID] = res
	r.Order = append(r.Order, res.Scanner.ID)
}

// Len returns the number of resolved scanners.
func (r *Result) Len() int {
	return len(r.Order)
}

// Get returns the resolution for a scanner ID.
func (r *Result) Get(id int) (*Resolution, bool) {
	res, ok := r.Resolved[id]
	return res, ok
}

// Resolutions returns placements in resolution order.
func (r *Result) Resolutions() []*Resolution {
	out := make([]*Resolution, len(r.Order))
	for i, id := range r.Order {
		out[i] = r.Resolved[id]
	}
	return out
}

// Positions maps each scanner ID to its global position.
func (r *Result) Positions() map[int]geom.Point {
	out := make(map[int]geom.Point, len(r.Resolved))
	for id, res := range r.Resolved {
		out[id] = res.Position
	}
	return out
}
