package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is an integer coordinate triple.
// Points are comparable and can be used directly as map keys.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Origin is the zero point.
var Origin = Point{}

// component returns the i-th coordinate (0=x, 1=y, 2=z).
func (p Point) component(i int) int {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// Apply returns p reoriented by o.
func (p Point) Apply(o Orientation) Point {
	return Point{
		X: p.component(o.Perm[0]) * o.Sign[0],
		Y: p.component(o.Perm[1]) * o.Sign[1],
		Z: p.component(o.Perm[2]) * o.Sign[2],
	}
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y, Z: p.Z - other.Z}
}

// Add returns p translated by offset.
func (p Point) Add(offset Point) Point {
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y, Z: p.Z + offset.Z}
}

// Manhattan returns the L1 distance between p and other.
func (p Point) Manhattan(other Point) int {
	d := p.Sub(other)
	return abs(d.X) + abs(d.Y) + abs(d.Z)
}

// Less orders points by X, then Y, then Z.
func (p Point) Less(other Point) bool {
	if p.X != other.X {
		return p.X < other.X
	}
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.Z < other.Z
}

// String renders the point as "x,y,z", the same form the scanner input uses.
func (p Point) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ParsePoint parses "x,y,z". Whitespace around each component is ignored.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Point{}, fmt.Errorf("expected 3 comma-separated components, got %d", len(parts))
	}
	var v [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Point{}, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = n
	}
	return Point{X: v[0], Y: v[1], Z: v[2]}, nil
}
