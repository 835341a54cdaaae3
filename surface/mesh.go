package surface

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/surfaceiso/advanced"
	"github.com/pkg/errors"
)

// Mode mirrors the editing state of a host mesh. Faces may only be written in
// object mode, so MakeSurface switches into it and restores the previous mode
// afterwards.
type Mode int

const (
	ModeObject Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeObject:
		return "object"
	case ModeEdit:
		return "edit"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// A host mesh: vertices in local space, placed in the world by World. Edges
// are the iso-lines the surface has to follow. Holes are loops of vertex
// indices whose interior must stay open.
type Mesh struct {
	Vertices []mgl64.Vec3
	Edges    [][2]int
	Faces    [][3]int
	Holes    [][]int

	World mgl64.Mat4
	Mode  Mode

	VertexSelected []bool
	EdgeSelected   []bool
	FaceSelected   []bool

	faceIndex    map[[3]int]int
	indexedFaces int
}

func NewMesh() *Mesh {
	return &Mesh{World: mgl64.Ident4()}
}

func (m *Mesh) AddVertex(v mgl64.Vec3) int {
	m.Vertices = append(m.Vertices, v)
	m.VertexSelected = append(m.VertexSelected, false)
	return len(m.Vertices) - 1
}

func (m *Mesh) AddEdge(a, b int) int {
	m.Edges = append(m.Edges, [2]int{a, b})
	m.EdgeSelected = append(m.EdgeSelected, false)
	return len(m.Edges) - 1
}

// Add a chain of vertices joined by edges. A closed chain also joins the last
// vertex back to the first. Returns the vertex indices.
func (m *Mesh) AddPolyline(points []mgl64.Vec3, closed bool) []int {
	indices := make([]int, len(points))
	for i, p := range points {
		indices[i] = m.AddVertex(p)
		if i > 0 {
			m.AddEdge(indices[i-1], indices[i])
		}
	}
	if closed && len(indices) > 2 {
		m.AddEdge(indices[len(indices)-1], indices[0])
	}
	return indices
}

// Add a face unless it repeats a vertex or a face over the same vertices
// already exists.
func (m *Mesh) AddFace(a, b, c int) (int, error) {
	if a == b || b == c || a == c {
		return -1, errors.Errorf("face %d-%d-%d repeats a vertex", a, b, c)
	}
	for _, v := range []int{a, b, c} {
		if v < 0 || v >= len(m.Vertices) {
			return -1, errors.Errorf("face %d-%d-%d references missing vertex %d", a, b, c, v)
		}
	}
	key := faceKey(a, b, c)
	if existing, ok := m.findFace(key); ok {
		return -1, errors.Errorf("face %d-%d-%d already exists as face %d", a, b, c, existing)
	}
	m.Faces = append(m.Faces, [3]int{a, b, c})
	m.FaceSelected = append(m.FaceSelected, false)
	m.faceIndex[key] = len(m.Faces) - 1
	m.indexedFaces = len(m.Faces)
	return len(m.Faces) - 1, nil
}

// Look up a face by vertex set. Faces may have been edited directly, so the
// index is rebuilt when its size no longer matches or a hit is stale.
func (m *Mesh) findFace(key [3]int) (int, bool) {
	if m.faceIndex == nil || m.indexedFaces != len(m.Faces) {
		m.reindexFaces()
	}
	i, ok := m.faceIndex[key]
	if ok {
		if f := m.Faces[i]; faceKey(f[0], f[1], f[2]) == key {
			return i, true
		}
		m.reindexFaces()
		i, ok = m.faceIndex[key]
	}
	return i, ok
}

func (m *Mesh) reindexFaces() {
	m.faceIndex = make(map[[3]int]int, len(m.Faces))
	for i, f := range m.Faces {
		if _, ok := m.faceIndex[faceKey(f[0], f[1], f[2])]; !ok {
			m.faceIndex[faceKey(f[0], f[1], f[2])] = i
		}
	}
	m.indexedFaces = len(m.Faces)
}

// Vertex set of a face, independent of winding.
func faceKey(a, b, c int) [3]int {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// Switch modes, returning the mode that was active.
func (m *Mesh) SetMode(mode Mode) Mode {
	previous := m.Mode
	m.Mode = mode
	return previous
}

func (m *Mesh) DeselectAll() {
	m.VertexSelected = make([]bool, len(m.Vertices))
	m.EdgeSelected = make([]bool, len(m.Edges))
	m.FaceSelected = make([]bool, len(m.Faces))
}

func (m *Mesh) WorldVertex(i int) mgl64.Vec3 {
	return m.World.Mul4x1(m.Vertices[i].Vec4(1)).Vec3()
}

// Place a world-space position back into the mesh's local space.
func (m *Mesh) LocalPosition(world mgl64.Vec3) mgl64.Vec3 {
	return m.World.Inv().Mul4x1(world.Vec4(1)).Vec3()
}

// Project the mesh onto the world XY plane. Point i is vertex i and edge k is
// edge k, so indices in a triangulation of the projection refer straight back
// to the mesh.
func Project(m *Mesh) ([]advanced.Point, []advanced.Edge) {
	points := make([]advanced.Point, len(m.Vertices))
	for i := range m.Vertices {
		w := m.WorldVertex(i)
		points[i] = advanced.Point{X: w.X(), Y: w.Y()}
	}
	edges := make([]advanced.Edge, len(m.Edges))
	for k, e := range m.Edges {
		edges[k] = advanced.Edge(e)
	}
	return points, edges
}

// Hole loops as projected polygons. Indices outside the mesh are passed
// through as NaN points so the triangulator reports the hole as invalid.
func projectHoles(m *Mesh, points []advanced.Point) []advanced.Polygon {
	holes := make([]advanced.Polygon, len(m.Holes))
	for h, loop := range m.Holes {
		holes[h].Points = make([]advanced.Point, len(loop))
		for j, v := range loop {
			if v < 0 || v >= len(points) {
				holes[h].Points[j] = advanced.Point{X: nan, Y: nan}
				continue
			}
			holes[h].Points[j] = points[v]
		}
	}
	return holes
}
