// Surfaces from survey points and iso-lines.
//
// This package computes a constrained Delaunay triangulation of a set of
// planar points. Constraint edges (iso-lines) always appear in the output,
// split where they cross each other or pass through other points. Holes can be
// cut out, and the result can be limited to the region the constraints
// enclose.
//
// See the advanced package for provenance, diagnostics and tuning options, and
// the surface package for building faces on a 3D mesh.
package surfaceiso

import "github.com/osuushi/surfaceiso/advanced"

type Point = advanced.Point
type Edge = advanced.Edge
type Triangle = advanced.Triangle
type Polygon = advanced.Polygon
type Result = advanced.Result
type Option = advanced.Option

// Triangulate the points so that every edge is respected.
//
// Points within epsilon of each other are merged. Triangles inside any hole
// are removed, and with boundaryOnly set, so are triangles outside the region
// enclosed by the edges. Problems with the input are reported in the result's
// Diagnostics; an error is only returned for internal failures.
func Triangulate(points []Point, edges []Edge, holes []Polygon, epsilon float64, boundaryOnly bool, opts ...Option) (result *Result, err error) {
	defer func() {
		recoveredErr := advanced.HandleTriangulatePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	return advanced.Triangulate(advanced.Input{
		Points:       points,
		Edges:        edges,
		Holes:        holes,
		Epsilon:      epsilon,
		BoundaryOnly: boundaryOnly,
	}, opts...), nil
}
