package surface

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/surfaceiso/advanced"
)

// Merge distance used when none is given, in world units.
const DefaultEpsilon = 0.01

var nan = math.NaN()

type Options struct {
	Epsilon      float64
	BoundaryOnly bool
	// Create mesh vertices for intersection points between crossing
	// iso-lines. Without this, faces touching them are skipped.
	Synthetic bool
	MaxFlips  int
	Logger    *slog.Logger
}

type Option func(*Options)

func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		o.Epsilon = eps
	}
}

func WithBoundaryOnly(boundaryOnly bool) Option {
	return func(o *Options) {
		o.BoundaryOnly = boundaryOnly
	}
}

func WithSyntheticVertices(synthetic bool) Option {
	return func(o *Options) {
		o.Synthetic = synthetic
	}
}

func WithMaxFlips(n int) Option {
	return func(o *Options) {
		o.MaxFlips = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

type SkipReason int

const (
	// A triangle corner has no mesh vertex
	SkipUnmapped SkipReason = iota
	// A triangle corner is an intersection point and synthetic vertices are off
	SkipSynthetic
	SkipRepeatedVertex
	SkipExistingFace
)

func (r SkipReason) String() string {
	switch r {
	case SkipUnmapped:
		return "unmapped vertex"
	case SkipSynthetic:
		return "synthetic vertex"
	case SkipRepeatedVertex:
		return "repeated vertex"
	case SkipExistingFace:
		return "face exists"
	}
	return fmt.Sprintf("SkipReason(%d)", int(r))
}

type SkippedFace struct {
	// Index into Result.Triangles
	Triangle int
	Reason   SkipReason
}

type Report struct {
	Result *advanced.Result
	// Indices of the faces added to the mesh
	Added   []int
	Skipped []SkippedFace
	// Vertices created for synthetic points
	NewVertices []int
}

// Build a surface over the mesh's vertices that follows its edges, and add it
// to the mesh as faces. The mesh is projected onto the world XY plane, so
// vertex heights only matter for synthetic vertices, which take their height
// from the iso-line they lie on.
//
// Triangles that cannot be written back are skipped and reported both in the
// Report and as UnresolvedFace diagnostics. The error is only non-nil when
// triangulation hit an internal failure.
func MakeSurface(m *Mesh, opts ...Option) (report *Report, err error) {
	options := Options{Epsilon: DefaultEpsilon}
	for _, opt := range opts {
		opt(&options)
	}
	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	previous := m.SetMode(ModeObject)
	defer m.SetMode(previous)
	defer func() {
		if recoveredErr := advanced.HandleTriangulatePanicRecover(recover()); recoveredErr != nil {
			report = nil
			err = recoveredErr
		}
	}()
	m.DeselectAll()

	points, edges := Project(m)
	in := advanced.Input{
		Points:       points,
		Edges:        edges,
		Holes:        projectHoles(m, points),
		Epsilon:      options.Epsilon,
		BoundaryOnly: options.BoundaryOnly,
	}
	result := advanced.Triangulate(in, advanced.WithMaxFlips(options.MaxFlips), advanced.WithLogger(log))
	report = &Report{Result: result}

	vertexOf := make([]int, len(result.Points))
	for i, origin := range result.PointOrigins {
		vertexOf[i] = -1
		if len(origin.Points) > 0 && origin.Points[0] < len(m.Vertices) {
			vertexOf[i] = origin.Points[0]
		}
	}
	if options.Synthetic {
		ends := constraintEnds(m, points)
		for i := range result.Points {
			if !result.Synthetic(i) {
				continue
			}
			position, ok := syntheticPosition(m, result, i, ends)
			if !ok {
				continue
			}
			vertexOf[i] = m.AddVertex(m.LocalPosition(position))
			report.NewVertices = append(report.NewVertices, vertexOf[i])
		}
	}

	for k, tri := range result.Triangles {
		reason, ok := SkipReason(0), true
		var corners [3]int
		for j, p := range tri {
			corners[j] = vertexOf[p]
			if corners[j] < 0 {
				reason, ok = SkipUnmapped, false
				if result.Synthetic(p) {
					reason = SkipSynthetic
				}
				break
			}
		}
		if ok {
			if _, addErr := m.AddFace(corners[0], corners[1], corners[2]); addErr != nil {
				reason, ok = SkipExistingFace, false
				if corners[0] == corners[1] || corners[1] == corners[2] || corners[0] == corners[2] {
					reason = SkipRepeatedVertex
				}
			} else {
				report.Added = append(report.Added, len(m.Faces)-1)
			}
		}
		if ok {
			continue
		}

		report.Skipped = append(report.Skipped, SkippedFace{Triangle: k, Reason: reason})
		result.Diagnostics = append(result.Diagnostics, advanced.Diagnostic{
			Kind:    advanced.KindUnresolvedFace,
			Element: advanced.ElementTriangle,
			Index:   k,
			Message: fmt.Sprintf("triangle %v skipped: %s", tri, reason),
		})
		log.Debug("skipped face", "triangle", k, "points", tri, "reason", reason)
	}

	log.Info("surface built",
		"faces", len(report.Added),
		"skipped", len(report.Skipped),
		"new_vertices", len(report.NewVertices),
		"status", result.Status,
	)
	return report, nil
}

// Mesh vertex pairs for every constraint id the triangulator saw: mesh edges
// first, then hole loop edges numbered the way advanced.Input numbers them.
func constraintEnds(m *Mesh, points []advanced.Point) [][2]int {
	ends := make([][2]int, 0, len(m.Edges))
	ends = append(ends, m.Edges...)
	for _, loop := range m.Holes {
		n := len(loop)
		loopLen := n
		if n > 1 && validIndex(loop[0], points) && validIndex(loop[n-1], points) && points[loop[0]] == points[loop[n-1]] {
			loopLen = n - 1
		}
		for k := 0; k < n; k++ {
			if k < loopLen {
				ends = append(ends, [2]int{loop[k], loop[(k+1)%loopLen]})
			} else {
				ends = append(ends, [2]int{-1, -1})
			}
		}
	}
	return ends
}

func validIndex(i int, points []advanced.Point) bool {
	return i >= 0 && i < len(points)
}

// World position of synthetic point i, with the height interpolated along the
// lowest numbered iso-line it lies on.
func syntheticPosition(m *Mesh, result *advanced.Result, i int, ends [][2]int) (mgl64.Vec3, bool) {
	p := result.Points[i]
	for _, c := range result.PointOrigins[i].Edges {
		if c >= len(ends) {
			continue
		}
		a, b := ends[c][0], ends[c][1]
		if a < 0 || b < 0 || a >= len(m.Vertices) || b >= len(m.Vertices) {
			continue
		}
		wa, wb := m.WorldVertex(a), m.WorldVertex(b)
		d := wb.Sub(wa).Vec2()
		length2 := d.Dot(d)
		if length2 == 0 {
			continue
		}
		t := mgl64.Vec2{p.X - wa.X(), p.Y - wa.Y()}.Dot(d) / length2
		t = mgl64.Clamp(t, 0, 1)
		z := wa.Z() + t*(wb.Z()-wa.Z())
		return mgl64.Vec3{p.X, p.Y, z}, true
	}
	return mgl64.Vec3{}, false
}
