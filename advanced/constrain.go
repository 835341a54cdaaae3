package advanced

import "fmt"

// Constraint insertion. A missing constraint edge is found by walking from
// one endpoint toward the other and collecting the edges it crosses. Those
// crossings are then removed by flipping, one convex quadrilateral at a time,
// until the constraint itself appears as an edge (Sloan's method).

type constraintFailure struct {
	kind    DiagnosticKind
	message string
}

func (f *constraintFailure) Error() string {
	return f.message
}

// Insert the constraint sub-edge a-b, recording ids on every edge that ends up
// carrying it. The segment is split wherever it runs exactly through another
// vertex.
func (m *mesh) constrain(a, b int, ids []int) *constraintFailure {
	pending := [][2]int{{a, b}}
	for len(pending) > 0 {
		a, b := pending[0][0], pending[0][1]
		pending = pending[1:]

		if m.findEdge(a, b) >= 0 {
			m.fix(a, b, ids)
			continue
		}

		crossings, stop, failure := m.trace(a, b)
		if failure != nil {
			return failure
		}
		if stop != b {
			pending = append(pending, [2]int{stop, b})
		}
		if len(crossings) == 0 {
			// a-stop already exists, found during the walk
			m.fix(a, stop, ids)
			continue
		}
		if failure := m.removeCrossings(a, stop, crossings); failure != nil {
			return failure
		}
		m.fix(a, stop, ids)
	}
	return nil
}

// Walk from a toward b through the triangulation. Returns the edges crossed,
// as vertex pairs, up to the first vertex the segment touches. That vertex is
// b unless some other vertex lies exactly on the segment.
func (m *mesh) trace(a, b int) (crossings [][2]int, stop int, failure *constraintFailure) {
	pa, pb := m.points[a], m.points[b]
	direction := pb.Sub(pa)
	onRay := func(v int) bool {
		return m.points[v].Sub(pa).Dot(direction) > 0
	}

	h := -1
	for _, e := range m.fan(a) {
		c, d := m.head(e), m.apex(e)
		if c == b || d == b {
			return nil, b, nil
		}
		oc := orientation(pa, pb, m.points[c])
		od := orientation(pa, pb, m.points[d])
		if oc == 0 && onRay(c) {
			return nil, c, nil
		}
		if od == 0 && onRay(d) {
			return nil, d, nil
		}
		if oc < 0 && od > 0 {
			h = nextHalfedge(e)
			break
		}
	}
	if h < 0 {
		return nil, -1, &constraintFailure{
			kind:    KindConstraintConflict,
			message: fmt.Sprintf("no triangle around %d faces %d", a, b),
		}
	}

	// h always runs from the vertex right of a->b to the vertex left of it
	for {
		u, w := m.triangles[h], m.head(h)
		if m.isFixed(h) {
			return nil, -1, &constraintFailure{
				kind:    KindConstraintConflict,
				message: fmt.Sprintf("crosses constrained edge %d-%d", u, w),
			}
		}
		crossings = append(crossings, [2]int{u, w})

		t := m.halfedges[h]
		if t < 0 {
			return nil, -1, &constraintFailure{
				kind:    KindConstraintConflict,
				message: fmt.Sprintf("left the hull through edge %d-%d", u, w),
			}
		}
		v := m.apex(t)
		if v == b {
			return crossings, b, nil
		}
		switch orientation(pa, pb, m.points[v]) {
		case 0:
			return crossings, v, nil
		case -1:
			h = prevHalfedge(t)
		default:
			h = nextHalfedge(t)
		}
	}
}

// Flip away every edge crossing the segment a-b. Edges sitting in a
// non-convex quadrilateral are put back in the queue; one of the remaining
// crossings is always flippable, so a full pass without a flip means the
// input defeated the predicates or the budget ran out.
func (m *mesh) removeCrossings(a, b int, crossings [][2]int) *constraintFailure {
	pa, pb := m.points[a], m.points[b]
	queue := crossings
	stalled := 0
	for len(queue) > 0 {
		edge := queue[0]
		queue = queue[1:]

		h := m.findEdge(edge[0], edge[1])
		if h < 0 {
			fatalf("crossing edge %d-%d vanished", edge[0], edge[1])
		}
		if !m.convex(h) {
			queue = append(queue, edge)
			stalled++
			if stalled > len(queue) {
				return &constraintFailure{
					kind:    KindNonTermination,
					message: fmt.Sprintf("no flippable crossing left among %d", len(queue)),
				}
			}
			continue
		}
		stalled = 0

		if !m.spendFlip() {
			return &constraintFailure{
				kind:    KindNonTermination,
				message: fmt.Sprintf("flip budget of %d exhausted", m.maxFlips),
			}
		}
		m.flip(h)

		p0, p1 := m.triangles[prevHalfedge(h)], m.triangles[h]
		if p0 == a || p0 == b || p1 == a || p1 == b {
			continue
		}
		if segmentsCross(pa, pb, m.points[p0], m.points[p1]) {
			queue = append(queue, [2]int{p0, p1})
		}
	}
	return nil
}
