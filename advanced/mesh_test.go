package advanced

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoints(seed int64, n int, size float64) []Point {
	rng := rand.New(rand.NewSource(seed))
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{rng.Float64() * size, rng.Float64() * size}
	}
	return points
}

func testMesh(t *testing.T, points []Point) *mesh {
	m, ok := newMesh(points, newOptions(len(points), nil))
	require.True(t, ok)
	return m
}

// Checks the halfedge structure: twins point back at each other and run in
// opposite directions, triangles are counterclockwise, and each vertex's
// incident halfedge starts at that vertex.
func assertMeshConsistent(t *testing.T, m *mesh) {
	for e, twin := range m.halfedges {
		if twin < 0 {
			continue
		}
		require.Equal(t, e, m.halfedges[twin], "twin of %d does not point back", e)
		require.Equal(t, m.triangles[e], m.head(twin), "halfedge %d and its twin disagree", e)
	}
	for tr := 0; tr < len(m.triangles); tr += 3 {
		a, b, c := m.points[m.triangles[tr]], m.points[m.triangles[tr+1]], m.points[m.triangles[tr+2]]
		require.Equal(t, 1, orientation(a, b, c), "triangle %d is not counterclockwise", tr/3)
	}
	for v, e := range m.incident {
		if e >= 0 {
			require.Equal(t, v, m.triangles[e], "incident halfedge of %d starts elsewhere", v)
		}
	}
}

func assertMeshDelaunay(t *testing.T, m *mesh) {
	for a, b := range m.halfedges {
		if b < 0 || m.isFixed(a) {
			continue
		}
		p0 := m.points[m.apex(a)]
		pr := m.points[m.triangles[a]]
		pl := m.points[m.head(a)]
		p1 := m.points[m.apex(b)]
		assert.LessOrEqual(t, inCircle(p0, pr, pl, p1), 0, "halfedge %d is not locally Delaunay", a)
	}
}

func TestSweepHull_Square(t *testing.T) {
	s := &sweepHull{points: []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}
	require.True(t, s.triangulate())
	assert.Len(t, s.triangles, 6)
	hullEdges := 0
	for _, twin := range s.halfedges[:len(s.triangles)] {
		if twin < 0 {
			hullEdges++
		}
	}
	assert.Equal(t, 4, hullEdges)
}

func TestSweepHull_Collinear(t *testing.T) {
	s := &sweepHull{points: []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}}
	assert.False(t, s.triangulate())

	s = &sweepHull{points: []Point{{0, 0}, {1, 1}}}
	assert.False(t, s.triangulate())
}

func TestNewMesh_Random(t *testing.T) {
	points := randomPoints(1, 300, 100)
	m := testMesh(t, points)

	assertMeshConsistent(t, m)
	assertMeshDelaunay(t, m)
	for v := range points {
		assert.GreaterOrEqual(t, m.incident[v], 0, "vertex %d is not in the mesh", v)
	}
}

func TestNewMesh_Grid(t *testing.T) {
	// Many cocircular quadruples and collinear hull points
	var points []Point
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			points = append(points, Point{float64(x), float64(y)})
		}
	}
	m := testMesh(t, points)
	assertMeshConsistent(t, m)
	assertMeshDelaunay(t, m)
	assert.Equal(t, 50, m.triangleCount())
}

func TestMesh_Fan(t *testing.T) {
	points := []Point{{0, 0}, {2, 0}, {1, 2}, {-1, 1}, {1, -2}, {1, 0.5}}
	m := testMesh(t, points)

	// The middle point is interior, so its fan closes
	center := 5
	fan := m.fan(center)
	neighbors := make(map[int]bool)
	for _, e := range fan {
		assert.Equal(t, center, m.triangles[e])
		neighbors[m.head(e)] = true
	}
	assert.Len(t, fan, len(neighbors))

	// Every edge around the hull vertex 4 is found from either end
	for _, e := range m.fan(4) {
		other := m.head(e)
		assert.GreaterOrEqual(t, m.findEdge(4, other), 0)
		assert.GreaterOrEqual(t, m.findEdge(other, 4), 0)
	}
	assert.Equal(t, -1, m.findEdge(2, 4))
}

func TestMesh_Flip(t *testing.T) {
	m := testMesh(t, []Point{{0, 0}, {2, 0}, {3, 2}, {0, 1}})
	diagonal := m.findEdge(0, 2)
	other := [2]int{1, 3}
	if diagonal < 0 {
		diagonal = m.findEdge(1, 3)
		other = [2]int{0, 2}
	}
	require.GreaterOrEqual(t, diagonal, 0)
	require.True(t, m.convex(diagonal))

	m.flip(diagonal)
	assertMeshConsistent(t, m)
	assert.GreaterOrEqual(t, m.findEdge(other[0], other[1]), 0)
}

func TestMesh_InsertPoint(t *testing.T) {
	points := []Point{{0, 0}, {4, 0}, {0, 4}, {1, 1}, {2, 0}}
	s := &sweepHull{points: points[:3]}
	require.True(t, s.triangulate())
	m := &mesh{
		points:    points,
		triangles: s.triangles,
		halfedges: s.halfedges,
		incident:  []int{0, 1, 2, -1, -1},
		fixed:     make(map[edgeKey][]int),
		maxFlips:  100,
	}
	for e, v := range m.triangles {
		m.incident[v] = e
	}

	// Strictly inside
	require.True(t, m.insertPoint(3))
	assert.Equal(t, 3, m.triangleCount())
	assertMeshConsistent(t, m)

	// On the hull edge from (0, 0) to (4, 0), which borders one triangle
	require.True(t, m.insertPoint(4))
	assert.Equal(t, 4, m.triangleCount())
	assertMeshConsistent(t, m)
	assertMeshDelaunay(t, m)
	assert.Equal(t, -1, m.findEdge(0, 1), "split edge should be gone")
	assert.GreaterOrEqual(t, m.findEdge(0, 4), 0)
	assert.GreaterOrEqual(t, m.findEdge(4, 1), 0)
}

func TestMesh_LegalizeAllKeepsFixedEdges(t *testing.T) {
	// A thin quad where the Delaunay diagonal is 1-3
	points := []Point{{0, 0}, {5, -1}, {10, 0}, {5, 1}}
	m := testMesh(t, points)
	require.GreaterOrEqual(t, m.findEdge(1, 3), 0)

	h := m.findEdge(1, 3)
	m.flip(h)
	m.fix(0, 2, []int{7})
	require.True(t, m.legalizeAll())
	assert.GreaterOrEqual(t, m.findEdge(0, 2), 0, "fixed edge must survive legalization")

	delete(m.fixed, newEdgeKey(0, 2))
	require.True(t, m.legalizeAll())
	assert.GreaterOrEqual(t, m.findEdge(1, 3), 0)
	assertMeshDelaunay(t, m)
}
