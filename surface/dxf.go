package surface

import (
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

const (
	dxfSurfaceLayer = "Surface"
	dxfIsoLayer     = "Iso"
)

// Read iso-lines from the POLYLINE and LWPOLYLINE entities of a DXF drawing,
// including those inside blocks. POLYLINE vertices keep their own height;
// LWPOLYLINE vertices share the entity's elevation.
func ReadDXF(in io.Reader) (*Mesh, error) {
	doc, err := document.DxfDocumentFromStream(in)
	if err != nil {
		return nil, errors.Wrap(err, "parsing dxf")
	}

	m := NewMesh()
	addEntity := func(entity interface{}) {
		if polyline, ok := entity.(*entities.Polyline); ok {
			points := make([]mgl64.Vec3, 0, len(polyline.Vertices))
			for _, vertex := range polyline.Vertices {
				points = append(points, mgl64.Vec3{vertex.Location.X, vertex.Location.Y, vertex.Location.Z})
			}
			addBlock(m, points)
		} else if lwpolyline, ok := entity.(*entities.LWPolyline); ok {
			points := make([]mgl64.Vec3, 0, len(lwpolyline.Points))
			for _, vertex := range lwpolyline.Points {
				points = append(points, mgl64.Vec3{vertex.Point.X, vertex.Point.Y, lwpolyline.Elevation})
			}
			if lwpolyline.Closed && len(points) > 2 {
				m.AddPolyline(points, true)
			} else {
				addBlock(m, points)
			}
		}
	}

	for _, entity := range doc.Entities.Entities {
		addEntity(entity)
	}
	for _, block := range doc.Blocks {
		for _, entity := range block.Entities {
			addEntity(entity)
		}
	}
	return m, nil
}

// Write the mesh faces as 3DFACE entities and its edges as LINEs, in world
// space.
func WriteDXF(m *Mesh, path string) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	d.AddLayer(dxfSurfaceLayer, color.Green, dxf.DefaultLineType, true)
	d.AddLayer(dxfIsoLayer, color.Red, dxf.DefaultLineType, true)

	if err := d.ChangeLayer(dxfSurfaceLayer); err != nil {
		return errors.Wrap(err, "selecting surface layer")
	}
	for _, f := range m.Faces {
		a, b, c := m.WorldVertex(f[0]), m.WorldVertex(f[1]), m.WorldVertex(f[2])
		// Triangles repeat the last corner
		corners := [][]float64{
			{a.X(), a.Y(), a.Z()},
			{b.X(), b.Y(), b.Z()},
			{c.X(), c.Y(), c.Z()},
			{c.X(), c.Y(), c.Z()},
		}
		if _, err := d.ThreeDFace(corners); err != nil {
			return errors.Wrapf(err, "adding face %v", f)
		}
	}

	if err := d.ChangeLayer(dxfIsoLayer); err != nil {
		return errors.Wrap(err, "selecting iso-line layer")
	}
	for _, e := range m.Edges {
		a, b := m.WorldVertex(e[0]), m.WorldVertex(e[1])
		if _, err := d.Line(a.X(), a.Y(), a.Z(), b.X(), b.Y(), b.Z()); err != nil {
			return errors.Wrapf(err, "adding edge %v", e)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}
