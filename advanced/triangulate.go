package advanced

import (
	"context"
	"log/slog"
	"sort"
)

// Constrained Delaunay triangulation of the input. Problems with the input are
// reported as diagnostics on the result rather than failing the call; the
// result always holds a valid (possibly empty) triangulation of the usable
// points. Panics only on internal invariant violations, which
// HandleTriangulatePanicRecover turns into an error.
func Triangulate(in Input, opts ...Option) *Result {
	options := newOptions(len(in.Points), opts)
	log := options.Logger
	r := &Result{}

	p := prepare(in, options, r)
	r.Points = p.outputPoints()
	r.PointOrigins = p.origins
	log.Debug("prepared input",
		"points", len(p.points),
		"constraints", len(p.subs),
		"holes", len(p.holes),
		"epsilon", p.eps,
		"scale", p.scale,
	)

	m, ok := newMesh(p.points, options)
	if !ok {
		r.Status = StatusDegenerate
		r.addDiagnostic(KindDegenerate, ElementNone, -1, "%d usable points do not span an area", len(p.points))
		fixed := make(map[edgeKey][]int, len(p.subs))
		for _, s := range p.subs {
			fixed[newEdgeKey(s.a, s.b)] = s.ids
		}
		r.setEdges(nil, fixed)
		return r
	}

	for _, s := range p.subs {
		failure := m.constrain(s.a, s.b, s.ids)
		if failure == nil {
			continue
		}
		r.addDiagnostic(failure.kind, ElementEdge, s.ids[0], "constraint %v from point %d to %d: %s", s.ids, s.a, s.b, failure.message)
		if failure.kind == KindNonTermination {
			r.Status = StatusDegenerate
		}
		if log.Enabled(context.Background(), slog.LevelDebug) {
			log.Debug("constraint not inserted", "edge", m.describeEdge(s.a, s.b), "reason", failure.message)
		}
	}

	if !m.legalizeAll() {
		r.Status = StatusDegenerate
		r.addDiagnostic(KindNonTermination, ElementNone, -1, "flip budget of %d exhausted restoring the Delaunay property", m.maxFlips)
	}
	log.Debug("triangulated", "triangles", m.triangleCount(), "flips", m.flips, "constrained", len(m.fixed))

	triangles := m.trim(p.holes, in.BoundaryOnly)
	sortTriangles(triangles)
	r.Triangles = triangles
	r.setEdges(triangles, m.fixed)
	return r
}

func (r *Result) setEdges(triangles []Triangle, fixed map[edgeKey][]int) {
	keys := make(map[edgeKey]struct{}, len(triangles)*3/2+len(fixed))
	for _, t := range triangles {
		for j := 0; j < 3; j++ {
			keys[newEdgeKey(t[j], t[(j+1)%3])] = struct{}{}
		}
	}
	for key := range fixed {
		keys[key] = struct{}{}
	}

	r.Edges = make([]Edge, 0, len(keys))
	for key := range keys {
		r.Edges = append(r.Edges, key.edge())
	}
	sort.Slice(r.Edges, func(i, j int) bool {
		a, b := r.Edges[i], r.Edges[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})

	r.EdgeOrigins = make([][]int, len(r.Edges))
	for k, e := range r.Edges {
		r.EdgeOrigins[k] = fixed[newEdgeKey(e[0], e[1])]
	}
}
