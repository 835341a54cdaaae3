package advanced

import (
	"math"
	"sort"
)

// Sweep-hull Delaunay construction. Points are added in order of distance from
// the circumcenter of a seed triangle; each new point sees part of the current
// convex hull, fans triangles onto it, and legalizes them recursively. The
// hull is a circular linked list, with an angular hash to find a visible edge
// quickly.
//
// The triangulation is stored as halfedges. Halfedge e belongs to triangle
// e/3, starts at vertex triangles[e], and its twin in the adjacent triangle is
// halfedges[e], or -1 on the convex hull.

type hullNode struct {
	i    int // vertex index, -1 once removed from the hull
	t    int // halfedge of the boundary triangle adjacent to this hull edge
	prev *hullNode
	next *hullNode
}

func newHullNode(nodes []hullNode, i int, prev *hullNode) *hullNode {
	n := &nodes[i]
	n.i = i
	if prev == nil {
		n.prev = n
		n.next = n
	} else {
		n.next = prev.next
		n.prev = prev
		prev.next.prev = n
		prev.next = n
	}
	return n
}

func (n *hullNode) remove() *hullNode {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.i = -1
	return n.prev
}

type sweepHull struct {
	points           []Point
	squaredDistances []float64
	ids              []int
	center           Point
	triangles        []int
	halfedges        []int
	trianglesLen     int
	hull             *hullNode
	hash             []*hullNode

	// Points that no hull edge could see. With exact predicates this only
	// happens for points inside the seed triangle; they are inserted afterwards.
	skipped []int
}

func (s *sweepHull) Len() int {
	return len(s.ids)
}

func (s *sweepHull) Swap(i, j int) {
	s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
}

func (s *sweepHull) Less(i, j int) bool {
	d1 := s.squaredDistances[s.ids[i]]
	d2 := s.squaredDistances[s.ids[j]]
	if d1 != d2 {
		return d1 < d2
	}
	p1 := s.points[s.ids[i]]
	p2 := s.points[s.ids[j]]
	if p1.X != p2.X {
		return p1.X < p2.X
	}
	return p1.Y < p2.Y
}

// Build the triangulation. Returns false if every point is collinear, in which
// case no triangle exists.
func (s *sweepHull) triangulate() bool {
	points := s.points
	n := len(points)
	if n < 3 {
		return false
	}

	s.ids = make([]int, n)
	x0, y0 := points[0].X, points[0].Y
	x1, y1 := x0, y0
	for i, p := range points {
		x0 = math.Min(x0, p.X)
		y0 = math.Min(y0, p.Y)
		x1 = math.Max(x1, p.X)
		y1 = math.Max(y1, p.Y)
		s.ids[i] = i
	}

	// Seed point closest to the middle of the bounding box
	var i0, i1, i2 int
	mid := Point{(x0 + x1) / 2, (y0 + y1) / 2}
	minDist := math.Inf(1)
	for i, p := range points {
		if d := p.SquaredDistance(mid); d < minDist {
			i0 = i
			minDist = d
		}
	}

	// Closest point to the seed
	minDist = math.Inf(1)
	for i, p := range points {
		if i == i0 {
			continue
		}
		if d := p.SquaredDistance(points[i0]); d > 0 && d < minDist {
			i1 = i
			minDist = d
		}
	}

	// Third point forming the smallest circumcircle
	minRadius := math.Inf(1)
	for i, p := range points {
		if i == i0 || i == i1 {
			continue
		}
		if r := circumRadius(points[i0], points[i1], p); r < minRadius {
			i2 = i
			minRadius = r
		}
	}

	// The float radius can be finite for points that are exactly collinear, so
	// confirm with the exact predicate and look further if needed.
	if math.IsInf(minRadius, 1) || orientation(points[i0], points[i1], points[i2]) == 0 {
		i2 = -1
		for i, p := range points {
			if orientation(points[i0], points[i1], p) != 0 {
				i2 = i
				break
			}
		}
		if i2 < 0 {
			return false
		}
	}

	if orientation(points[i0], points[i1], points[i2]) < 0 {
		i1, i2 = i2, i1
	}

	s.center = circumCenter(points[i0], points[i1], points[i2])

	s.squaredDistances = make([]float64, n)
	for i, p := range points {
		s.squaredDistances[i] = p.SquaredDistance(s.center)
	}
	sort.Sort(s)

	hashSize := int(math.Ceil(math.Sqrt(float64(n))))
	s.hash = make([]*hullNode, hashSize)

	nodes := make([]hullNode, n)

	e := newHullNode(nodes, i0, nil)
	e.t = 0
	s.hashEdge(e)

	e = newHullNode(nodes, i1, e)
	e.t = 1
	s.hashEdge(e)

	e = newHullNode(nodes, i2, e)
	e.t = 2
	s.hashEdge(e)

	s.hull = e

	maxTriangles := 2*n - 5
	s.triangles = make([]int, maxTriangles*3)
	s.halfedges = make([]int, maxTriangles*3)

	s.addTriangle(i0, i1, i2, -1, -1, -1)

	for k := 0; k < n; k++ {
		i := s.ids[k]
		p := points[i]

		if i == i0 || i == i1 || i == i2 {
			continue
		}

		// Find a visible hull edge, starting from the hash bucket for p's angle
		var start *hullNode
		key := s.hashKey(p)
		for j := 0; j < len(s.hash); j++ {
			start = s.hash[key]
			if start != nil && start.i >= 0 {
				break
			}
			key++
			if key >= len(s.hash) {
				key = 0
			}
		}
		if start == nil || start.i < 0 {
			start = s.hull
		}
		start = start.prev

		e := start
		for orientation(p, points[e.i], points[e.next.i]) >= 0 {
			e = e.next
			if e == start {
				e = nil
				break
			}
		}
		if e == nil {
			s.skipped = append(s.skipped, i)
			continue
		}
		walkBack := e == start

		t := s.addTriangle(e.i, i, e.next.i, -1, -1, e.t)
		e.t = t
		e = newHullNode(nodes, i, e)

		e.t = s.legalize(t + 2)

		// Walk forward through the hull, adding triangles while edges are visible
		q := e.next
		for orientation(p, points[q.i], points[q.next.i]) < 0 {
			t = s.addTriangle(q.i, i, q.next.i, q.prev.t, -1, q.t)
			q.prev.t = s.legalize(t + 2)
			s.hull = q.remove()
			q = q.next
		}

		if walkBack {
			q := e.prev
			for orientation(p, points[q.prev.i], points[q.i]) < 0 {
				t = s.addTriangle(q.prev.i, i, q.i, -1, q.t, q.prev.t)
				s.legalize(t + 2)
				q.prev.t = t
				s.hull = q.remove()
				q = q.prev
			}
		}

		s.hashEdge(e)
		s.hashEdge(e.prev)
	}

	s.triangles = s.triangles[:s.trianglesLen]
	s.halfedges = s.halfedges[:s.trianglesLen]
	return true
}

func (s *sweepHull) hashKey(p Point) int {
	d := p.Sub(s.center)
	// The hull is traversed in the mirrored sense of the angle
	a := pseudoAngle(d.X, -d.Y)
	if math.IsNaN(a) {
		return 0
	}
	return CircularIndex(int(a*float64(len(s.hash))), len(s.hash))
}

func (s *sweepHull) hashEdge(e *hullNode) {
	s.hash[s.hashKey(s.points[e.i])] = e
}

func (s *sweepHull) addTriangle(i0, i1, i2, a, b, c int) int {
	i := s.trianglesLen
	s.triangles[i] = i0
	s.triangles[i+1] = i1
	s.triangles[i+2] = i2
	s.link(i, a)
	s.link(i+1, b)
	s.link(i+2, c)
	s.trianglesLen += 3
	return i
}

func (s *sweepHull) link(a, b int) {
	s.halfedges[a] = b
	if b >= 0 {
		s.halfedges[b] = a
	}
}

// If the pair of triangles on either side of halfedge a does not satisfy the
// Delaunay condition (p1 inside the circumcircle of p0, pr, pl), flip the
// shared edge and recurse on the two edges that may have become illegal.
// Returns the halfedge that now borders the hull side of the fan.
//
//	         pl                    pl
//	        /||\                  /  \
//	     al/ || \bl            al/    \a
//	      /  ||  \              /      \
//	     /  a||b  \    flip    /___ar___\
//	   p0\   ||   /p1   =>   p0\---bl---/p1
//	      \  ||  /              \      /
//	     ar\ || /br             b\    /br
//	        \||/                  \  /
//	         pr                    pr
func (s *sweepHull) legalize(a int) int {
	b := s.halfedges[a]

	a0 := a - a%3
	ar := a0 + (a+2)%3

	if b < 0 {
		return ar
	}

	b0 := b - b%3
	al := a0 + (a+1)%3
	bl := b0 + (b+2)%3

	p0 := s.triangles[ar]
	pr := s.triangles[a]
	pl := s.triangles[al]
	p1 := s.triangles[bl]

	if inCircle(s.points[p0], s.points[pr], s.points[pl], s.points[p1]) <= 0 {
		return ar
	}

	s.triangles[a] = p1
	s.triangles[b] = p0

	// Edge swapped on the other side of the hull, so fix the hull reference
	if s.halfedges[bl] == -1 {
		e := s.hull
		for {
			if e.t == bl {
				e.t = a
				break
			}
			e = e.next
			if e == s.hull {
				break
			}
		}
	}

	s.link(a, s.halfedges[bl])
	s.link(b, s.halfedges[ar])
	s.link(ar, bl)

	br := b0 + (b+1)%3

	s.legalize(a)
	return s.legalize(br)
}
