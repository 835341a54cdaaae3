package advanced

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

// Segments around a closed loop of points.
func loopSoup(points []Point) segmentSoup {
	soup := make(segmentSoup, len(points))
	for i, vertex := range points {
		soup[i] = Segment{vertex, points[CircularIndex(i+1, len(points))]}
	}
	return soup
}

func TestSegmentSoup_ContainsPointByEvenOdd(t *testing.T) {
	soup := loopSoup([]Point{{0, 0}, {4, 0}, {4, 4}, {2, 1}, {0, 4}})

	assert.True(t, soup.ContainsPointByEvenOdd(Point{1, 0.5}))
	assert.True(t, soup.ContainsPointByEvenOdd(Point{3.5, 3}))
	// In the notch
	assert.False(t, soup.ContainsPointByEvenOdd(Point{2, 3}))
	assert.False(t, soup.ContainsPointByEvenOdd(Point{-1, 1}))
	// Ray passes exactly through the notch vertex
	assert.True(t, soup.ContainsPointByEvenOdd(Point{0.5, 1}))
}

func TestSegmentSoup_Unordered(t *testing.T) {
	// Two nested squares given as loose segments in arbitrary order and
	// direction
	soup := segmentSoup{
		{Point{0, 0}, Point{10, 0}},
		{Point{3, 3}, Point{3, 7}},
		{Point{0, 10}, Point{10, 10}},
		{Point{7, 7}, Point{7, 3}},
		{Point{10, 0}, Point{10, 10}},
		{Point{3, 7}, Point{7, 7}},
		{Point{0, 0}, Point{0, 10}},
		{Point{7, 3}, Point{3, 3}},
	}

	assert.True(t, soup.ContainsPointByEvenOdd(Point{1, 5}))
	assert.False(t, soup.ContainsPointByEvenOdd(Point{5, 5}))
	assert.Equal(t, 2, soup.CrossingCount(Point{5, 5}))
	assert.Equal(t, 3, soup.CrossingCount(Point{1, 5}))
	assert.Equal(t, 0, soup.CrossingCount(Point{11, 5}))
}

func TestPolygon_SignedArea(t *testing.T) {
	poly := Polygon{Points: square()}
	assert.Equal(t, 1.0, poly.SignedArea())
	assert.Equal(t, -1.0, poly.Reverse().SignedArea())
}

func TestPolygon_Ring(t *testing.T) {
	ring := Polygon{Points: square()}.Ring()
	assert.Equal(t, orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}, ring)

	closed := Polygon{Points: append(square(), Point{0, 0})}.Ring()
	assert.Equal(t, ring, closed)

	// Clockwise loops are turned around
	clockwise := Polygon{Points: square()}.Reverse()
	assert.Equal(t, ring, clockwise.Ring())
	assert.Equal(t, orb.CCW, clockwise.Ring().Orientation())
}
