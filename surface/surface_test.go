package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/surfaceiso/advanced"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareMesh() *Mesh {
	m := NewMesh()
	m.AddVertex(mgl64.Vec3{0, 0, 0})
	m.AddVertex(mgl64.Vec3{1, 0, 1})
	m.AddVertex(mgl64.Vec3{1, 1, 2})
	m.AddVertex(mgl64.Vec3{0, 1, 1})
	return m
}

// Two iso-lines crossing at (1, 1): one rising from 0 to 2, one level at 5
func crossingMesh() *Mesh {
	m := NewMesh()
	m.AddPolyline([]mgl64.Vec3{{0, 0, 0}, {2, 2, 2}}, false)
	m.AddPolyline([]mgl64.Vec3{{0, 2, 5}, {2, 0, 5}}, false)
	return m
}

func TestProject(t *testing.T) {
	m := squareMesh()
	m.AddEdge(0, 2)
	m.World = mgl64.Translate3D(10, 20, 30)

	points, edges := Project(m)
	assert.Equal(t, []advanced.Point{{X: 10, Y: 20}, {X: 11, Y: 20}, {X: 11, Y: 21}, {X: 10, Y: 21}}, points)
	assert.Equal(t, []advanced.Edge{{0, 2}}, edges)
}

func TestMakeSurface_Square(t *testing.T) {
	m := squareMesh()
	m.AddEdge(0, 2)
	m.Mode = ModeEdit
	m.DeselectAll()
	m.VertexSelected[1] = true
	m.EdgeSelected[0] = true

	report, err := MakeSurface(m)
	require.NoError(t, err)

	assert.Equal(t, ModeEdit, m.Mode, "mode is restored")
	assert.Equal(t, []bool{false, false, false, false}, m.VertexSelected)
	assert.Equal(t, []bool{false}, m.EdgeSelected)

	assert.Equal(t, []int{0, 1}, report.Added)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, m.Faces)
	assert.Equal(t, advanced.StatusOK, report.Result.Status)
}

func TestMakeSurface_WorldTransform(t *testing.T) {
	// Triangulation happens in world space, where this quad is 4 wide and 8
	// tall
	m := NewMesh()
	m.AddVertex(mgl64.Vec3{0, 0, 0})
	m.AddVertex(mgl64.Vec3{4, 0, 0})
	m.AddVertex(mgl64.Vec3{4, 1, 0})
	m.AddVertex(mgl64.Vec3{0, 1, 0})
	m.World = mgl64.Scale3D(1, 8, 1)

	_, err := MakeSurface(m)
	require.NoError(t, err)
	require.Len(t, m.Faces, 2)

	for _, f := range m.Faces {
		a, b, c := m.WorldVertex(f[0]), m.WorldVertex(f[1]), m.WorldVertex(f[2])
		cross := (b.X()-a.X())*(c.Y()-a.Y()) - (c.X()-a.X())*(b.Y()-a.Y())
		assert.Greater(t, cross, 0.0)
	}
}

func TestMakeSurface_SyntheticSkipped(t *testing.T) {
	m := crossingMesh()
	report, err := MakeSurface(m)
	require.NoError(t, err)

	assert.Empty(t, report.Added)
	assert.Empty(t, report.NewVertices)
	require.Len(t, report.Skipped, 4)
	for _, skipped := range report.Skipped {
		assert.Equal(t, SkipSynthetic, skipped.Reason)
	}

	var unresolved int
	for _, d := range report.Result.Diagnostics {
		if d.Kind == advanced.KindUnresolvedFace {
			assert.Equal(t, advanced.ElementTriangle, d.Element)
			unresolved++
		}
	}
	assert.Equal(t, 4, unresolved)
	assert.Len(t, m.Vertices, 4)
}

func TestMakeSurface_SyntheticVertices(t *testing.T) {
	m := crossingMesh()
	m.World = mgl64.Translate3D(10, 0, 0)

	report, err := MakeSurface(m, WithSyntheticVertices(true))
	require.NoError(t, err)

	require.Equal(t, []int{4}, report.NewVertices)
	assert.Empty(t, report.Skipped)
	assert.Len(t, report.Added, 4)

	// Height comes from the first iso-line, halfway along it
	v := m.Vertices[4]
	assert.InDelta(t, 1, v.X(), 1e-9)
	assert.InDelta(t, 1, v.Y(), 1e-9)
	assert.InDelta(t, 1, v.Z(), 1e-9)
	w := m.WorldVertex(4)
	assert.InDelta(t, 11, w.X(), 1e-9)
}

func TestMakeSurface_ExistingFaces(t *testing.T) {
	m := squareMesh()
	_, err := MakeSurface(m)
	require.NoError(t, err)
	require.Len(t, m.Faces, 2)

	report, err := MakeSurface(m)
	require.NoError(t, err)
	assert.Empty(t, report.Added)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, SkipExistingFace, report.Skipped[0].Reason)
	assert.Len(t, m.Faces, 2)
}

func TestMakeSurface_MergedVertices(t *testing.T) {
	m := squareMesh()
	dup := m.AddVertex(mgl64.Vec3{1, 1.001, 7})
	m.AddEdge(dup, 0)

	report, err := MakeSurface(m)
	require.NoError(t, err)

	assert.Equal(t, []int{2, dup}, report.Result.PointOrigins[2].Points)
	for _, f := range m.Faces {
		assert.NotContains(t, f[:], dup)
	}
	assert.True(t, report.Result.Constrained(0, 2))
	assert.Len(t, m.Faces, 2)

	// Below the merge distance nothing is merged
	m = squareMesh()
	m.AddVertex(mgl64.Vec3{1, 1.001, 7})
	report, err = MakeSurface(m, WithEpsilon(1e-6))
	require.NoError(t, err)
	assert.Len(t, report.Result.Points, 5)
}

func TestMakeSurface_Hole(t *testing.T) {
	m := NewMesh()
	m.AddPolyline([]mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}}, true)
	hole := []int{
		m.AddVertex(mgl64.Vec3{4, 4, 1}),
		m.AddVertex(mgl64.Vec3{6, 4, 1}),
		m.AddVertex(mgl64.Vec3{6, 6, 1}),
		m.AddVertex(mgl64.Vec3{4, 6, 1}),
	}
	m.Holes = append(m.Holes, hole)

	report, err := MakeSurface(m)
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Len(t, report.Result.Points, 8)

	s := m.Surface()
	_, err = s.ElevationAt(5, 5)
	assert.Error(t, err)
	_, err = s.ElevationAt(1, 1)
	assert.NoError(t, err)
}

func TestMakeSurface_BoundaryOnly(t *testing.T) {
	m := NewMesh()
	m.AddPolyline([]mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}}, true)
	m.AddVertex(mgl64.Vec3{20, 5, 0})

	_, err := MakeSurface(m, WithBoundaryOnly(true))
	require.NoError(t, err)
	assert.Len(t, m.Faces, 2)
}

func TestMakeSurface_Degenerate(t *testing.T) {
	m := NewMesh()
	m.AddPolyline([]mgl64.Vec3{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}}, false)

	report, err := MakeSurface(m)
	require.NoError(t, err)
	assert.Equal(t, advanced.StatusDegenerate, report.Result.Status)
	assert.Empty(t, m.Faces)
}
