package advanced

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Select the triangles that survive hole removal and, in boundary-only mode,
// the even-odd region formed by the constraint edges. Each triangle is
// classified by its centroid, which can never lie on a constraint edge since
// those are triangle edges themselves.
func (m *mesh) trim(holes [][]int, boundaryOnly bool) []Triangle {
	rings := make([]orb.Ring, len(holes))
	for h, loop := range holes {
		poly := Polygon{Points: make([]Point, len(loop))}
		for k, v := range loop {
			poly.Points[k] = m.points[v]
		}
		rings[h] = poly.Ring()
	}

	var boundary segmentSoup
	if boundaryOnly {
		for key := range m.fixed {
			boundary = append(boundary, Segment{m.points[key.lo], m.points[key.hi]})
		}
	}

	var triangles []Triangle
	for t := 0; t < len(m.triangles); t += 3 {
		tri := Triangle{m.triangles[t], m.triangles[t+1], m.triangles[t+2]}
		a, b, c := m.points[tri[0]], m.points[tri[1]], m.points[tri[2]]
		centroid := Point{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3}

		inHole := false
		for _, ring := range rings {
			if planar.RingContains(ring, orb.Point{centroid.X, centroid.Y}) {
				inHole = true
				break
			}
		}
		if inHole {
			continue
		}
		if boundaryOnly && !boundary.ContainsPointByEvenOdd(centroid) {
			continue
		}
		triangles = append(triangles, tri)
	}
	return triangles
}
