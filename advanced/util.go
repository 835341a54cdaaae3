package advanced

import "math"

// Default merge distance when the caller gives an unusable epsilon.
const Tolerance = 1e-6

// A common convention in our geometry is that if two points have the same Y
// value, the one with the smaller X value is "lower". This simulates a slightly
// rotated coordinate system, allowing us to assume Y values are never equal.
func (p Point) Below(otherPoint Point) bool {
	if p.Y == otherPoint.Y {
		return p.X < otherPoint.X
	}
	return p.Y < otherPoint.Y
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

func (p Point) SquaredDistance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Often we want to treat an array as a circular buffer. This gives the modular
// index given length n, but unlike the raw modulo operator, it only gives positive values
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}

// Halfedges are stored three to a triangle, so the neighbors of a halfedge
// within its triangle are found by stepping around its group of three.
func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

func prevHalfedge(e int) int {
	if e%3 == 0 {
		return e + 2
	}
	return e - 1
}

// Undirected edge identity, lower index first.
type edgeKey struct {
	lo, hi int
}

func newEdgeKey(a, b int) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

func (k edgeKey) edge() Edge {
	return Edge{k.lo, k.hi}
}

// Stack of halfedge or vertex indices.
type indexStack []int

func (s *indexStack) Push(i int) {
	*s = append(*s, i)
}

func (s *indexStack) Pop() int {
	if len(*s) == 0 {
		return -1
	}
	i := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return i
}

func (s *indexStack) Empty() bool {
	return len(*s) == 0
}

// Sorted union of two id lists. Both inputs must already be sorted.
func unionIDs(a, b []int) []int {
	result := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next int
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			next = a[i]
			i++
		case i >= len(a) || b[j] < a[i]:
			next = b[j]
			j++
		default:
			next = a[i]
			i++
			j++
		}
		if len(result) == 0 || result[len(result)-1] != next {
			result = append(result, next)
		}
	}
	return result
}
