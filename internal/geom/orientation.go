package geom

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Orientation is a signed axis permutation.
// Output axis i takes input axis Perm[i] multiplied by Sign[i].
type Orientation struct {
	Perm [3]int
	Sign [3]int
}

// Identity leaves every point unchanged.
var Identity = Orientation{Perm: [3]int{0, 1, 2}, Sign: [3]int{1, 1, 1}}

// Mode selects which orientation set registration searches.
type Mode string

const (
	// ModeProper searches the 24 rotations of a cube.
	ModeProper Mode = "proper"
	// ModeAll searches all 48 signed permutations, reflections included.
	ModeAll Mode = "all"
)

// ValidModes lists the accepted orientation mode names.
var ValidModes = []Mode{ModeProper, ModeAll}

// ParseMode validates an orientation mode name.
// The empty string selects ModeProper.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeProper:
		return ModeProper, nil
	case ModeAll:
		return ModeAll, nil
	}
	return "", fmt.Errorf("invalid orientation mode %q: must be one of %v", s, ValidModes)
}

// Matrix returns the 3x3 matrix M with p.Apply(o) == M·p.
func (o Orientation) Matrix() *mat.Dense {
	data := make([]float64, 9)
	for row := 0; row < 3; row++ {
		data[row*3+o.Perm[row]] = float64(o.Sign[row])
	}
	return mat.NewDense(3, 3, data)
}

// Determinant is +1 for rotations and -1 for reflections.
func (o Orientation) Determinant() float64 {
	return mat.Det(o.Matrix())
}

// IsProper reports whether o is a rotation.
func (o Orientation) IsProper() bool {
	return math.Round(o.Determinant()) == 1
}

// Index returns the position of o within AllOrientations, or -1.
func (o Orientation) Index() int {
	for i, candidate := range AllOrientations() {
		if candidate == o {
			return i
		}
	}
	return -1
}

// OrientationAt is the inverse of Index.
func OrientationAt(index int) (Orientation, error) {
	all := AllOrientations()
	if index < 0 || index >= len(all) {
		return Orientation{}, fmt.Errorf("orientation index %d out of range [0,%d)", index, len(all))
	}
	return all[index], nil
}

func (o Orientation) String() string {
	axes := "xyz"
	s := ""
	for i := 0; i < 3; i++ {
		if o.Sign[i] < 0 {
			s += "-"
		} else {
			s += "+"
		}
		s += string(axes[o.Perm[i]])
	}
	return s
}

var (
	orientationsOnce sync.Once
	allOrientations  []Orientation
	properOnly       []Orientation
)

func buildOrientations() {
	perms := [][3]int{
		{0, 1, 2}, {0, 2, 1},
		{1, 0, 2}, {1, 2, 0},
		{2, 0, 1}, {2, 1, 0},
	}
	signs := []int{1, -1}

	for _, perm := range perms {
		for _, sx := range signs {
			for _, sy := range signs {
				for _, sz := range signs {
					o := Orientation{Perm: perm, Sign: [3]int{sx, sy, sz}}
					allOrientations = append(allOrientations, o)
					if o.IsProper() {
						properOnly = append(properOnly, o)
					}
				}
			}
		}
	}
}

// Orientations returns the 24 proper rotations in generation order.
// The returned slice is shared; callers must not modify it.
func Orientations() []Orientation {
	orientationsOnce.Do(buildOrientations)
	return properOnly
}

// AllOrientations returns all 48 signed permutations in generation order.
// The returned slice is shared; callers must not modify it.
func AllOrientations() []Orientation {
	orientationsOnce.Do(buildOrientations)
	return allOrientations
}

// OrientationsFor returns the set searched under mode.
func OrientationsFor(mode Mode) []Orientation {
	if mode == ModeAll {
		return AllOrientations()
	}
	return Orientations()
}
