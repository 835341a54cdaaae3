package advanced

// This contains no actual tests. It is just a helper for testing triangulation
// validity.

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelta = 1e-9

// Helper to check that a triangulation is valid. The rules are:
// 1. The result passes its own structural validation.
// 2. Every finite input point is represented by some output point.
// 3. No two triangles share a directed edge, so none overlap.
// 4. The sum of the triangle areas equals the area of the convex hull, unless
//    regions were trimmed away.
// 5. Every constraint that was not reported in a diagnostic is a chain of
//    output edges between its endpoints.
// 6. No unconstrained edge fails the in-circle test.
func AssertValidTriangulation(t *testing.T, in Input, r *Result) {
	require.NoError(t, r.Validate())

	represented := make(map[int]int)
	for v, origin := range r.PointOrigins {
		for _, i := range origin.Points {
			represented[i] = v
		}
	}
	for i, p := range in.Points {
		if p.IsFinite() {
			_, ok := represented[i]
			require.True(t, ok, "input point %d is missing from the output", i)
		}
	}

	directed := make(map[[2]int]int)
	var area float64
	for k, tri := range r.Triangles {
		area += triangleArea(r.Points, tri)
		for j := 0; j < 3; j++ {
			e := [2]int{tri[j], tri[(j+1)%3]}
			other, ok := directed[e]
			require.False(t, ok, "triangles %d and %d overlap along %v", other, k, e)
			directed[e] = k
		}
	}
	if !in.BoundaryOnly && len(in.Holes) == 0 && r.Status == StatusOK {
		require.InDelta(t, convexHullArea(r.Points), area, testDelta*math.Max(1, area), "sum of triangle areas must equal the hull area")
	}

	reported := make(map[int]bool)
	for _, d := range r.Diagnostics {
		if d.Element == ElementEdge {
			reported[d.Index] = true
		}
	}
	for c, e := range in.Edges {
		if reported[c] {
			continue
		}
		chain := r.ConstraintChain(c)
		require.NotNil(t, chain, "constraint %d %v has no chain", c, e)
		ends := []int{represented[e[0]], represented[e[1]]}
		sort.Ints(ends)
		chainEnds := []int{chain[0], chain[len(chain)-1]}
		sort.Ints(chainEnds)
		assert.Equal(t, ends, chainEnds, "constraint %d chain runs between the wrong points", c)
	}

	AssertConstrainedDelaunay(t, r)
}

func AssertConstrainedDelaunay(t *testing.T, r *Result) {
	opposite := make(map[[2]int]int)
	for _, tri := range r.Triangles {
		for j := 0; j < 3; j++ {
			opposite[[2]int{tri[j], tri[(j+1)%3]}] = tri[(j+2)%3]
		}
	}
	for _, tri := range r.Triangles {
		for j := 0; j < 3; j++ {
			a, b := tri[j], tri[(j+1)%3]
			if r.Constrained(a, b) {
				continue
			}
			d, ok := opposite[[2]int{b, a}]
			if !ok {
				continue
			}
			c := tri[(j+2)%3]
			assert.LessOrEqual(t, inCircle(r.Points[a], r.Points[b], r.Points[c], r.Points[d]), 0,
				"point %d is inside the circumcircle of %v", d, tri)
		}
	}
}

func triangleArea(points []Point, t Triangle) float64 {
	a, b, c := points[t[0]], points[t[1]], points[t[2]]
	return ((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)) / 2
}

func totalArea(r *Result) float64 {
	var area float64
	for _, t := range r.Triangles {
		area += triangleArea(r.Points, t)
	}
	return area
}

// Monotone chain hull, for checking coverage.
func convexHullArea(points []Point) float64 {
	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	halfHull := func(points []Point) []Point {
		var chain []Point
		for _, p := range points {
			for len(chain) >= 2 && orientation(chain[len(chain)-2], chain[len(chain)-1], p) <= 0 {
				chain = chain[:len(chain)-1]
			}
			chain = append(chain, p)
		}
		return chain[:len(chain)-1]
	}
	lower := halfHull(sorted)
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	upper := halfHull(sorted)
	return Polygon{Points: append(lower, upper...)}.SignedArea()
}
