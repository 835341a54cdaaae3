package surface

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Height queries over the faces of a mesh, in world space. Heights inside a
// face are interpolated linearly from its corners.
type Surface struct {
	faces []face
}

type face struct {
	a, b, c mgl64.Vec3
	bound   orb.Bound
}

// Snapshot the mesh's faces. Later changes to the mesh are not seen.
func (m *Mesh) Surface() *Surface {
	s := &Surface{faces: make([]face, 0, len(m.Faces))}
	for _, f := range m.Faces {
		a, b, c := m.WorldVertex(f[0]), m.WorldVertex(f[1]), m.WorldVertex(f[2])
		s.faces = append(s.faces, face{
			a: a,
			b: b,
			c: c,
			bound: orb.MultiPoint{
				{a.X(), a.Y()},
				{b.X(), b.Y()},
				{c.X(), c.Y()},
			}.Bound(),
		})
	}
	return s
}

// Barycentric weights of (x, y) for the face's a and b corners. ok is false
// for faces with no area.
func (f *face) barycentric(x, y float64) (wa, wb float64, ok bool) {
	x1, y1 := f.a.X(), f.a.Y()
	x2, y2 := f.b.X(), f.b.Y()
	x3, y3 := f.c.X(), f.c.Y()

	denominator := (y2-y3)*(x1-x3) + (x3-x2)*(y1-y3)
	if math.Abs(denominator) < 1e-10 {
		return 0, 0, false
	}
	wa = ((y2-y3)*(x-x3) + (x3-x2)*(y-y3)) / denominator
	wb = ((y3-y1)*(x-x3) + (x1-x3)*(y-y3)) / denominator
	return wa, wb, true
}

func (s *Surface) ElevationAt(x, y float64) (float64, error) {
	p := orb.Point{x, y}
	for i := range s.faces {
		f := &s.faces[i]
		if !f.bound.Contains(p) {
			continue
		}
		wa, wb, ok := f.barycentric(x, y)
		if !ok {
			continue
		}
		wc := 1 - wa - wb
		// Points on a shared edge can land just outside both faces
		if wa < -1e-12 || wb < -1e-12 || wc < -1e-12 {
			continue
		}
		return wa*f.a.Z() + wb*f.b.Z() + wc*f.c.Z(), nil
	}
	return 0, errors.Errorf("point (%.2f, %.2f) is not on the surface", x, y)
}

// Sample heights on a regular grid covering the given range, row by row from
// minY. Samples off the surface are NaN.
func (s *Surface) ElevationGrid(minX, minY, maxX, maxY, stepX, stepY float64) ([][]float64, error) {
	if stepX <= 0 || stepY <= 0 {
		return nil, errors.New("step size must be positive")
	}
	if maxX < minX || maxY < minY {
		return nil, errors.Errorf("empty range (%v, %v)-(%v, %v)", minX, minY, maxX, maxY)
	}

	nx := int(math.Ceil((maxX-minX)/stepX)) + 1
	ny := int(math.Ceil((maxY-minY)/stepY)) + 1

	grid := make([][]float64, ny)
	for i := range grid {
		grid[i] = make([]float64, nx)
		y := minY + float64(i)*stepY
		for j := range grid[i] {
			x := minX + float64(j)*stepX
			z, err := s.ElevationAt(x, y)
			if err != nil {
				z = math.NaN()
			}
			grid[i][j] = z
		}
	}
	return grid, nil
}

// Slope in radians from horizontal, and aspect in radians clockwise from +Y,
// estimated by central differences delta apart. Samples falling off the
// surface use the height at (x, y). A non-positive delta means 0.1.
func (s *Surface) SlopeAspect(x, y, delta float64) (slope, aspect float64, err error) {
	if delta <= 0 {
		delta = 0.1
	}

	z0, err := s.ElevationAt(x, y)
	if err != nil {
		return 0, 0, err
	}
	sample := func(x, y float64) float64 {
		z, err := s.ElevationAt(x, y)
		if err != nil {
			return z0
		}
		return z
	}

	dzdx := (sample(x+delta, y) - sample(x-delta, y)) / (2 * delta)
	dzdy := (sample(x, y+delta) - sample(x, y-delta)) / (2 * delta)

	slope = math.Atan(math.Hypot(dzdx, dzdy))
	if dzdx != 0 || dzdy != 0 {
		aspect = math.Atan2(dzdx, dzdy)
		if aspect < 0 {
			aspect += 2 * math.Pi
		}
	}
	return slope, aspect, nil
}
