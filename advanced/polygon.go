package advanced

import "github.com/paulmach/orb"

// Even-odd point-in-region test against an unordered set of segments. The
// segments need not be connected into loops, which is how constraint edges
// arrive. Used to decide which triangles are enclosed by the constraints.
type segmentSoup []Segment

func (soup segmentSoup) ContainsPointByEvenOdd(p Point) bool {
	return soup.CrossingCount(p)%2 == 1
}

// Number of segments crossed by a ray from p toward +X. The Below convention
// makes vertices exactly at p's height count once.
func (soup segmentSoup) CrossingCount(p Point) int {
	crossingCount := 0
	for _, segment := range soup {
		if segment.IsRightOf(p) && segment.Start.Below(p) != segment.End.Below(p) {
			crossingCount++
		}
	}
	return crossingCount
}

// Whether p lies strictly left of the line through the segment, viewing the
// segment from its lower end to its upper end. Within the segment's height
// range, that means the segment passes to the right of p.
func (s Segment) IsRightOf(p Point) bool {
	lower, upper := s.Start, s.End
	if upper.Below(lower) {
		lower, upper = upper, lower
	}
	return orientation(lower, upper, p) > 0
}

// Positive for counterclockwise polygons.
func (poly Polygon) SignedArea() float64 {
	var sum float64
	for i, p := range poly.Points {
		q := poly.Points[CircularIndex(i+1, len(poly.Points))]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

func (poly Polygon) Reverse() Polygon {
	newPoly := Polygon{}
	for i := len(poly.Points) - 1; i >= 0; i-- {
		newPoly.Points = append(newPoly.Points, poly.Points[i])
	}
	return newPoly
}

// Closed ring in orb's convention: counterclockwise, first point repeated at
// the end.
func (poly Polygon) Ring() orb.Ring {
	if poly.SignedArea() < 0 {
		poly = poly.Reverse()
	}
	ring := make(orb.Ring, 0, len(poly.Points)+1)
	for _, p := range poly.Points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 && !ring[0].Equal(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	return ring
}
