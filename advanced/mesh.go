package advanced

import (
	"context"
	"log/slog"
)

// The working triangulation. It starts out as the output of the sweep hull
// and is then edited in place by point insertion and edge flips. Halfedge
// conventions are the same as in delaunay.go.
type mesh struct {
	points    []Point
	triangles []int
	halfedges []int

	// One outgoing halfedge per vertex, or -1 for a vertex not yet in the mesh
	incident []int

	// Constrained edges, with the input constraint ids lying on each
	fixed map[edgeKey][]int

	flips    int
	maxFlips int
	log      *slog.Logger
}

// Delaunay triangulate the points. The boolean is false when the points do not
// span any area.
func newMesh(points []Point, options Options) (*mesh, bool) {
	hull := &sweepHull{points: points}
	if !hull.triangulate() {
		return nil, false
	}

	m := &mesh{
		points:    points,
		triangles: hull.triangles,
		halfedges: hull.halfedges,
		incident:  make([]int, len(points)),
		fixed:     make(map[edgeKey][]int),
		maxFlips:  options.MaxFlips,
		log:       options.Logger,
	}
	for i := range m.incident {
		m.incident[i] = -1
	}
	for e, v := range m.triangles {
		m.incident[v] = e
	}

	for _, i := range hull.skipped {
		if m.log.Enabled(context.Background(), slog.LevelDebug) {
			m.log.Debug("inserting point missed by the sweep", "vertex", m.describeVertex(i))
		}
		if !m.insertPoint(i) {
			fatalf("point %d is outside the triangulated hull", i)
		}
	}
	return m, true
}

func (m *mesh) triangleCount() int {
	return len(m.triangles) / 3
}

// Destination vertex of a halfedge.
func (m *mesh) head(e int) int {
	return m.triangles[nextHalfedge(e)]
}

// Vertex opposite a halfedge within its triangle.
func (m *mesh) apex(e int) int {
	return m.triangles[prevHalfedge(e)]
}

// All outgoing halfedges around a vertex, in counterclockwise order when the
// vertex is interior. For hull vertices the clockwise remainder follows.
func (m *mesh) fan(v int) []int {
	start := m.incident[v]
	if start < 0 {
		return nil
	}
	out := []int{start}
	e := start
	for {
		twin := m.halfedges[prevHalfedge(e)]
		if twin < 0 {
			break
		}
		if twin == start {
			return out
		}
		out = append(out, twin)
		e = twin
	}
	e = start
	for {
		twin := m.halfedges[e]
		if twin < 0 {
			break
		}
		e = nextHalfedge(twin)
		out = append(out, e)
	}
	return out
}

// A halfedge lying on the edge between a and b, in either direction, or -1.
func (m *mesh) findEdge(a, b int) int {
	for _, e := range m.fan(a) {
		if m.head(e) == b {
			return e
		}
		if m.apex(e) == b {
			return prevHalfedge(e)
		}
	}
	return -1
}

func (m *mesh) isFixed(e int) bool {
	_, ok := m.fixed[newEdgeKey(m.triangles[e], m.head(e))]
	return ok
}

func (m *mesh) fix(a, b int, ids []int) {
	key := newEdgeKey(a, b)
	m.fixed[key] = unionIDs(m.fixed[key], ids)
}

// Whether the two triangles sharing halfedge a form a strictly convex
// quadrilateral, which is when flipping their diagonal is valid.
func (m *mesh) convex(a int) bool {
	b := m.halfedges[a]
	if b < 0 {
		return false
	}
	p0 := m.points[m.apex(a)]
	pr := m.points[m.triangles[a]]
	pl := m.points[m.head(a)]
	p1 := m.points[m.apex(b)]
	return orientation(p0, p1, pr) < 0 && orientation(p0, p1, pl) > 0
}

// Count a flip against the budget. Returns false once the budget is spent.
func (m *mesh) spendFlip() bool {
	if m.flips >= m.maxFlips {
		return false
	}
	m.flips++
	return true
}

// Replace the diagonal shared by the two triangles around halfedge a. Uses the
// labels from the legalize diagram; afterwards halfedge a runs p1 to pl and
// the new diagonal is prev(a), running p0 to p1.
func (m *mesh) flip(a int) {
	b := m.halfedges[a]
	if b < 0 {
		fatalf("cannot flip hull halfedge %d", a)
	}
	al := nextHalfedge(a)
	ar := prevHalfedge(a)
	br := nextHalfedge(b)
	bl := prevHalfedge(b)

	p0 := m.triangles[ar]
	pr := m.triangles[a]
	pl := m.triangles[al]
	p1 := m.triangles[bl]

	m.triangles[a] = p1
	m.triangles[b] = p0

	outerBL := m.halfedges[bl]
	outerAR := m.halfedges[ar]
	m.link(a, outerBL)
	m.link(b, outerAR)
	m.link(ar, bl)

	m.incident[p1] = a
	m.incident[pl] = al
	m.incident[p0] = ar
	m.incident[pr] = br
}

func (m *mesh) link(a, b int) {
	m.halfedges[a] = b
	if b >= 0 {
		m.halfedges[b] = a
	}
}

func (m *mesh) addTriangle(i0, i1, i2, a, b, c int) int {
	t := len(m.triangles)
	m.triangles = append(m.triangles, i0, i1, i2)
	m.halfedges = append(m.halfedges, -1, -1, -1)
	m.link(t, a)
	m.link(t+1, b)
	m.link(t+2, c)
	return t
}

// Lawson's flip algorithm over the given halfedges. Any unconstrained edge
// whose opposite vertex lies strictly inside the circumcircle is flipped, and
// the four edges around the new diagonal are revisited. Returns false if the
// flip budget ran out.
func (m *mesh) legalize(stack indexStack) bool {
	for !stack.Empty() {
		a := stack.Pop()
		b := m.halfedges[a]
		if b < 0 || m.isFixed(a) {
			continue
		}
		p0 := m.points[m.apex(a)]
		pr := m.points[m.triangles[a]]
		pl := m.points[m.head(a)]
		p1 := m.points[m.apex(b)]
		if inCircle(p0, pr, pl, p1) <= 0 {
			continue
		}
		if !m.convex(a) {
			continue
		}
		if !m.spendFlip() {
			return false
		}
		m.flip(a)
		stack.Push(a)
		stack.Push(nextHalfedge(a))
		stack.Push(b)
		stack.Push(nextHalfedge(b))
	}
	return true
}

// Restore the constrained Delaunay property over the whole mesh.
func (m *mesh) legalizeAll() bool {
	stack := make(indexStack, 0, len(m.halfedges))
	for e, twin := range m.halfedges {
		if twin > e {
			stack.Push(e)
		}
	}
	return m.legalize(stack)
}

// Add vertex v, which must lie inside or on the boundary of the current hull,
// by splitting the triangle or edge containing it. Returns false if no
// triangle contains it.
func (m *mesh) insertPoint(v int) bool {
	p := m.points[v]
	for t := 0; t < len(m.triangles); t += 3 {
		onEdge := -1
		inside := true
		for k := 0; k < 3; k++ {
			e := t + k
			o := orientation(m.points[m.triangles[e]], m.points[m.head(e)], p)
			if o < 0 {
				inside = false
				break
			}
			if o == 0 {
				onEdge = e
			}
		}
		if !inside {
			continue
		}
		var stack indexStack
		if onEdge >= 0 {
			stack = m.splitEdge(onEdge, v)
		} else {
			stack = m.splitTriangle(t, v)
		}
		m.legalize(stack)
		return true
	}
	return false
}

// Split triangle t (a, b, c) into three around v. Returns the outer halfedges.
func (m *mesh) splitTriangle(t, v int) indexStack {
	a, b, c := m.triangles[t], m.triangles[t+1], m.triangles[t+2]
	outerB := m.halfedges[t+1]
	outerC := m.halfedges[t+2]

	// t becomes (a, b, v)
	m.triangles[t+2] = v
	n := m.addTriangle(b, c, v, outerB, -1, t+1)
	o := m.addTriangle(c, a, v, outerC, t+2, n+1)

	m.incident[v] = t + 2
	m.incident[a] = t
	m.incident[b] = n
	m.incident[c] = o
	return indexStack{t, n, o}
}

// Split the edge under halfedge h (a to b) at v, along with the triangle on
// each side of it. Returns the outer halfedges.
func (m *mesh) splitEdge(h, v int) indexStack {
	h1 := nextHalfedge(h)
	h2 := prevHalfedge(h)
	a := m.triangles[h]
	b := m.triangles[h1]
	c := m.triangles[h2]
	g := m.halfedges[h]
	outerH1 := m.halfedges[h1]

	// (a, b, c) becomes (a, v, c) plus a new (v, b, c)
	m.triangles[h1] = v
	n := m.addTriangle(v, b, c, -1, outerH1, h1)

	m.incident[v] = h1
	m.incident[a] = h
	m.incident[b] = n + 1
	m.incident[c] = h2
	stack := indexStack{h2, n + 1}

	if g < 0 {
		m.halfedges[h] = -1
		return stack
	}

	// The twin triangle (b, a, d) becomes (b, v, d) plus a new (v, a, d)
	g1 := nextHalfedge(g)
	g2 := prevHalfedge(g)
	d := m.triangles[g2]
	outerG1 := m.halfedges[g1]

	m.triangles[g1] = v
	u := m.addTriangle(v, a, d, h, outerG1, g1)
	m.link(g, n)

	m.incident[d] = g2
	return append(stack, g2, u+1)
}
