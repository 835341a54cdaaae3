package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMesh_AddPolyline(t *testing.T) {
	m := NewMesh()
	open := m.AddPolyline([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}, false)
	closed := m.AddPolyline([]mgl64.Vec3{{5, 5, 0}, {6, 5, 0}, {6, 6, 0}}, true)

	assert.Equal(t, []int{0, 1, 2}, open)
	assert.Equal(t, []int{3, 4, 5}, closed)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {3, 4}, {4, 5}, {5, 3}}, m.Edges)
	assert.Len(t, m.EdgeSelected, 5)
}

func TestMesh_AddFace(t *testing.T) {
	m := squareMesh()

	i, err := m.AddFace(0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	// Same vertices in any order
	_, err = m.AddFace(2, 0, 1)
	assert.Error(t, err)
	_, err = m.AddFace(1, 0, 2)
	assert.Error(t, err)

	_, err = m.AddFace(0, 0, 3)
	assert.Error(t, err)
	_, err = m.AddFace(0, 2, 9)
	assert.Error(t, err)

	i, err = m.AddFace(0, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Len(t, m.FaceSelected, 2)
}

func TestMesh_AddFaceSeesExistingFaces(t *testing.T) {
	m := squareMesh()
	m.Faces = [][3]int{{0, 1, 2}}
	_, err := m.AddFace(1, 2, 0)
	assert.Error(t, err)
}

func TestMesh_AddFaceAfterFacesEdited(t *testing.T) {
	m := squareMesh()
	_, err := m.AddFace(0, 1, 2)
	require.NoError(t, err)

	// Cleared directly, the face can be added again
	m.Faces = nil
	m.FaceSelected = nil
	i, err := m.AddFace(0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	// Replaced in place, the old face is gone and the new one is seen
	m.Faces[0] = [3]int{0, 2, 3}
	_, err = m.AddFace(0, 1, 2)
	assert.NoError(t, err)
	_, err = m.AddFace(3, 0, 2)
	assert.Error(t, err)
}

func TestMesh_SetMode(t *testing.T) {
	m := NewMesh()
	assert.Equal(t, ModeObject, m.SetMode(ModeEdit))
	assert.Equal(t, ModeEdit, m.SetMode(ModeObject))
	assert.Equal(t, "object", m.Mode.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestMesh_LocalPosition(t *testing.T) {
	m := squareMesh()
	m.World = mgl64.Translate3D(1, 2, 3).Mul4(mgl64.Scale3D(2, 2, 2))

	w := m.WorldVertex(2)
	assert.True(t, w.ApproxEqual(mgl64.Vec3{3, 4, 7}))
	assert.True(t, m.LocalPosition(w).ApproxEqual(m.Vertices[2]))
}
