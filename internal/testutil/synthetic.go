package testutil

import (
	"math/rand/v2"

	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/scan"
)

// Placement is the ground-truth pose of a synthetic scanner: a reading r
// taken by the scanner lands at r.Apply(Orientation).Add(Position) in the
// global frame.
type Placement struct {
	Orientation geom.Orientation
	Position    geom.Point
}

// Generator builds scanners whose overlap is known exactly.
// Coordinates are drawn from a seeded PCG source so fixtures are stable.
type Generator struct {
	rng  *rand.Rand
	used map[geom.Point]struct{}
}

// Span bounds synthetic coordinates to [-Span, Span].
const Span = 1000

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		used: make(map[geom.Point]struct{}),
	}
}

// Points returns n global points never returned before by this generator.
func (g *Generator) Points(n int) []geom.Point {
	pts := make([]geom.Point, 0, n)
	for len(pts) < n {
		p := geom.Point{
			X: g.rng.IntN(2*Span+1) - Span,
			Y: g.rng.IntN(2*Span+1) - Span,
			Z: g.rng.IntN(2*Span+1) - Span,
		}
		if _, dup := g.used[p]; dup {
			continue
		}
		g.used[p] = struct{}{}
		pts = append(pts, p)
	}
	return pts
}

// Observe returns the local readings a scanner at pl would report for the
// given global points.
func Observe(pl Placement, global []geom.Point) []geom.Point {
	inv := Inverse(pl.Orientation)
	local := make([]geom.Point, len(global))
	for i, p := range global {
		local[i] = p.Sub(pl.Position).Apply(inv)
	}
	return local
}

// Inverse returns the orientation that undoes o.
func Inverse(o geom.Orientation) geom.Orientation {
	var inv geom.Orientation
	for i := 0; i < 3; i++ {
		inv.Perm[o.Perm[i]] = i
		inv.Sign[o.Perm[i]] = o.Sign[i]
	}
	return inv
}

// Pair builds two scanners sharing exactly shared beacons.
// Scanner 0 defines the global frame; scanner 1 sits at pl. Each scanner
// also sees extra beacons the other does not. The returned slice holds the
// global positions of every distinct beacon.
func (g *Generator) Pair(shared, extra int, pl Placement) ([]scan.Scanner, []geom.Point) {
	common := g.Points(shared)
	onlyA := g.Points(extra)
	onlyB := g.Points(extra)

	a := append(append([]geom.Point{}, common...), onlyA...)
	bGlobal := append(append([]geom.Point{}, common...), onlyB...)

	scanners := []scan.Scanner{
		{ID: 0, Beacons: a},
		{ID: 1, Beacons: Observe(pl, bGlobal)},
	}

	all := append(append(append([]geom.Point{}, common...), onlyA...), onlyB...)
	return scanners, all
}

// Isolated returns a scanner whose readings share nothing with any point the
// generator produced before.
func (g *Generator) Isolated(id, n int) scan.Scanner {
	return scan.Scanner{ID: id, Beacons: g.Points(n)}
}
