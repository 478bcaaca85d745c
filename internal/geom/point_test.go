package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointArithmetic(t *testing.T) {
	a := Point{X: 1, Y: -2, Z: 3}
	b := Point{X: -4, Y: 5, Z: 6}

	assert.Equal(t, Point{X: 5, Y: -7, Z: -3}, a.Sub(b))
	assert.Equal(t, Point{X: -3, Y: 3, Z: 9}, a.Add(b))
	assert.Equal(t, 15, a.Manhattan(b))
	assert.Equal(t, a.Manhattan(b), b.Manhattan(a))
	assert.Equal(t, 0, a.Manhattan(a))
}

func TestPointSubAddRoundTrip(t *testing.T) {
	a := Point{X: 404, Y: -588, Z: -901}
	offset := Point{X: 68, Y: -1246, Z: -43}
	assert.Equal(t, a, a.Add(offset).Sub(offset))
}

func TestPointAsMapKey(t *testing.T) {
	seen := map[Point]int{}
	seen[Point{X: 1, Y: 2, Z: 3}]++
	seen[Point{X: 1, Y: 2, Z: 3}]++
	seen[Point{X: 3, Y: 2, Z: 1}]++
	assert.Len(t, seen, 2)
	assert.Equal(t, 2, seen[Point{X: 1, Y: 2, Z: 3}])
}

func TestPointLess(t *testing.T) {
	assert.True(t, Point{X: 0, Y: 9, Z: 9}.Less(Point{X: 1}))
	assert.True(t, Point{X: 1, Y: 0, Z: 9}.Less(Point{X: 1, Y: 1}))
	assert.True(t, Point{X: 1, Y: 1, Z: 0}.Less(Point{X: 1, Y: 1, Z: 1}))
	assert.False(t, Point{X: 1, Y: 1, Z: 1}.Less(Point{X: 1, Y: 1, Z: 1}))
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("-618,-824,-621")
	require.NoError(t, err)
	assert.Equal(t, Point{X: -618, Y: -824, Z: -621}, p)

	p, err = ParsePoint(" 1, 2 ,3 ")
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: 2, Z: 3}, p)
	assert.Equal(t, "1,2,3", p.String())
}

func TestParsePoint_Errors(t *testing.T) {
	tests := []string{"", "1,2", "1,2,3,4", "1,a,3", "1,,3"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePoint(input)
			assert.Error(t, err)
		})
	}
}
