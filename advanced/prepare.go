package advanced

import (
	"math"
	"sort"
)

// Input preparation turns the raw points, constraints and holes into a clean
// vertex set and a list of constraint sub-edges that meet only at vertices:
//
//  1. Non-finite points are dropped and points within epsilon are merged.
//  2. Constraints are validated and hole loops are appended as constraints.
//  3. Constraints are split at every vertex lying on their interior.
//  4. Crossing constraints are split at a shared intersection vertex, which is
//     synthesized unless an existing vertex is close enough to reuse.
//
// All of this happens in a working frame scaled by a power of two so that
// coordinates lie within [-1, 1]. The scaling is exact, so orientation and
// in-circle answers are those of the input, while distances and intersections
// can no longer overflow or underflow.

// Working coordinates are within [-1, 1], so a larger epsilon merges
// everything anyway.
const maxWorkingEpsilon = 4

// A piece of one or more input constraints between two vertices.
type subEdge struct {
	a, b int
	ids  []int
}

type preparation struct {
	// Working frame positions. Input points keep their original coordinates
	// in input.
	points  []Point
	input   []Point
	scale   float64
	origins []Origin
	subs    []subEdge
	// Vertex loops of the usable holes
	holes [][]int

	eps  float64
	grid *grid
}

func prepare(in Input, options Options, r *Result) *preparation {
	eps := in.Epsilon
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		r.addDiagnostic(KindInvalidInput, ElementNone, -1, "epsilon %v replaced by %v", eps, Tolerance)
		eps = Tolerance
	}

	all := make([]Point, 0, len(in.Points))
	all = append(all, in.Points...)
	for _, hole := range in.Holes {
		all = append(all, hole.Points...)
	}

	maxAbs := 0.0
	for _, point := range all {
		if point.IsFinite() {
			maxAbs = math.Max(maxAbs, math.Max(math.Abs(point.X), math.Abs(point.Y)))
		}
	}
	scale := frameScale(maxAbs)

	var finite []Point
	for _, point := range all {
		if point.IsFinite() {
			finite = append(finite, Point{point.X * scale, point.Y * scale})
		}
	}

	workingEps := math.Min(eps*scale, maxWorkingEpsilon)
	p := &preparation{
		input: all,
		scale: scale,
		eps:   workingEps,
		grid:  newGrid(boundsOf(finite), len(finite), workingEps),
	}

	vertexOf := make([]int, len(all))
	for i, point := range all {
		if !point.IsFinite() {
			r.addDiagnostic(KindInvalidInput, ElementPoint, i, "point %d (%v, %v) is not finite", i, point.X, point.Y)
			vertexOf[i] = -1
			continue
		}
		vertexOf[i] = p.addPoint(Point{point.X * scale, point.Y * scale}, i)
	}

	var subs []subEdge
	for c, e := range in.Edges {
		switch {
		case e[0] < 0 || e[0] >= len(in.Points) || e[1] < 0 || e[1] >= len(in.Points):
			r.addDiagnostic(KindInvalidInput, ElementEdge, c, "edge %d %v references a point outside 0..%d", c, e, len(in.Points)-1)
		case e[0] == e[1]:
			r.addDiagnostic(KindInvalidInput, ElementEdge, c, "edge %d joins point %d to itself", c, e[0])
		case vertexOf[e[0]] < 0 || vertexOf[e[1]] < 0:
			r.addDiagnostic(KindInvalidInput, ElementEdge, c, "edge %d uses a non-finite point", c)
		case vertexOf[e[0]] == vertexOf[e[1]]:
			r.addDiagnostic(KindDegenerate, ElementEdge, c, "edge %d collapsed: its endpoints are within epsilon", c)
		default:
			subs = append(subs, subEdge{vertexOf[e[0]], vertexOf[e[1]], []int{c}})
		}
	}

	offset := 0
	for h, hole := range in.Holes {
		n := len(hole.Points)
		loopLen := n
		if n > 1 && hole.Points[0] == hole.Points[n-1] {
			loopLen = n - 1
		}
		base := len(in.Points) + offset
		edgeBase := len(in.Edges) + offset
		offset += n

		var loop []int
		usable := true
		for k := 0; k < loopLen; k++ {
			v := vertexOf[base+k]
			if v < 0 {
				usable = false
				break
			}
			if len(loop) > 0 && loop[len(loop)-1] == v {
				continue
			}
			loop = append(loop, v)
		}
		if len(loop) > 1 && loop[0] == loop[len(loop)-1] {
			loop = loop[:len(loop)-1]
		}
		if !usable || len(loop) < 3 {
			r.addDiagnostic(KindInvalidInput, ElementHole, h, "hole %d needs at least 3 distinct finite points", h)
			continue
		}
		p.holes = append(p.holes, loop)

		for k := 0; k < loopLen; k++ {
			a, b := vertexOf[base+k], vertexOf[base+(k+1)%loopLen]
			if a != b {
				subs = append(subs, subEdge{a, b, []int{edgeBase + k}})
			}
		}
	}

	subs = dedupeSubEdges(subs)
	subs = p.splitAtVertices(subs)
	p.subs = p.splitCrossings(subs, options.IntersectionPasses)
	return p
}

// A power of two bringing maxAbs into [0.5, 1). Clamped so the scale itself
// stays finite for subnormal input.
func frameScale(maxAbs float64) float64 {
	if maxAbs == 0 {
		return 1
	}
	_, exp := math.Frexp(maxAbs)
	if exp < -1020 {
		exp = -1020
	}
	return math.Ldexp(1, -exp)
}

// Output positions: input points in their original coordinates, synthetic
// points mapped back out of the working frame.
func (p *preparation) outputPoints() []Point {
	out := make([]Point, len(p.points))
	for v, point := range p.points {
		if inputs := p.origins[v].Points; len(inputs) > 0 {
			out[v] = p.input[inputs[0]]
			continue
		}
		out[v] = Point{point.X / p.scale, point.Y / p.scale}
	}
	return out
}

// Add an input point, merging it into an existing vertex within epsilon. Ties
// go to the earliest vertex.
func (p *preparation) addPoint(point Point, input int) int {
	if v := p.nearest(point); v >= 0 {
		p.origins[v].Points = append(p.origins[v].Points, input)
		return v
	}
	v := len(p.points)
	p.points = append(p.points, point)
	p.origins = append(p.origins, Origin{Points: []int{input}})
	p.grid.insert(v, point)
	return v
}

// The closest vertex within epsilon of point, or -1.
func (p *preparation) nearest(point Point) int {
	best := -1
	bestDist := p.eps * p.eps
	p.grid.query(segmentBounds(point, point, p.eps), func(v int) {
		d := p.points[v].SquaredDistance(point)
		if d > bestDist || (d == bestDist && best >= 0 && v > best) {
			return
		}
		best = v
		bestDist = d
	})
	return best
}

type split struct {
	t float64
	v int
}

// Split every sub-edge at the vertices lying within epsilon of its interior.
func (p *preparation) splitAtVertices(subs []subEdge) []subEdge {
	var out []subEdge
	for _, s := range subs {
		a, b := p.points[s.a], p.points[s.b]
		d := b.Sub(a)
		length2 := d.Dot(d)

		var splits []split
		p.grid.query(segmentBounds(a, b, p.eps), func(v int) {
			if v == s.a || v == s.b {
				return
			}
			q := p.points[v]
			t := q.Sub(a).Dot(d) / length2
			if t <= 0 || t >= 1 {
				return
			}
			if orientation(a, b, q) != 0 {
				onLine := Point{a.X + t*d.X, a.Y + t*d.Y}
				if q.SquaredDistance(onLine) > p.eps*p.eps {
					return
				}
			}
			splits = append(splits, split{t, v})
		})
		out = append(out, chain(s, splits)...)
	}
	return dedupeSubEdges(out)
}

// Split sub-edges that properly cross each other. Each pass sweeps the
// sub-edges in order of their left end and pairs up those whose bounds
// overlap. Merging an intersection into a nearby vertex bends the pieces
// slightly, which can create new crossings, so passes repeat until none are
// found or the pass limit is hit. Crossings left after that are reported when
// the constraints are inserted.
func (p *preparation) splitCrossings(subs []subEdge, passes int) []subEdge {
	for pass := 0; pass < passes; pass++ {
		order := make([]int, len(subs))
		for i := range order {
			order[i] = i
		}
		minX := func(s subEdge) float64 {
			return math.Min(p.points[s.a].X, p.points[s.b].X)
		}
		sort.SliceStable(order, func(i, j int) bool {
			return minX(subs[order[i]]) < minX(subs[order[j]])
		})

		splits := make([][]split, len(subs))
		found := false
		for n, i := range order {
			si := subs[i]
			a, b := p.points[si.a], p.points[si.b]
			bi := segmentBounds(a, b, 0)
			for _, j := range order[n+1:] {
				sj := subs[j]
				c, d := p.points[sj.a], p.points[sj.b]
				bj := segmentBounds(c, d, 0)
				if bj.X.Lo > bi.X.Hi {
					break
				}
				if !bi.Intersects(bj) {
					continue
				}
				if si.a == sj.a || si.a == sj.b || si.b == sj.a || si.b == sj.b {
					continue
				}
				if !segmentsCross(a, b, c, d) {
					continue
				}
				point, t, u := lineIntersection(a, b, c, d)
				if !point.IsFinite() {
					// Left for constraint insertion to report
					continue
				}
				v := p.intersectionVertex(point, unionIDs(si.ids, sj.ids))
				splits[i] = append(splits[i], split{t, v})
				splits[j] = append(splits[j], split{u, v})
				found = true
			}
		}
		if !found {
			return subs
		}

		var out []subEdge
		for i, s := range subs {
			out = append(out, chain(s, splits[i])...)
		}
		subs = dedupeSubEdges(out)
	}
	return subs
}

// Reuse the nearest vertex within epsilon of an intersection, or create a
// synthetic one.
func (p *preparation) intersectionVertex(point Point, ids []int) int {
	if v := p.nearest(point); v >= 0 {
		if len(p.origins[v].Points) == 0 {
			p.origins[v].Edges = unionIDs(p.origins[v].Edges, ids)
		}
		return v
	}
	v := len(p.points)
	p.points = append(p.points, point)
	p.origins = append(p.origins, Origin{Edges: ids})
	p.grid.insert(v, point)
	return v
}

// Break a sub-edge into consecutive pieces through the given split vertices.
// Merged intersections can put the same vertex at two places along the
// sub-edge; the path is then cut back to its first visit so it never doubles
// back on itself.
func chain(s subEdge, splits []split) []subEdge {
	if len(splits) == 0 {
		return []subEdge{s}
	}
	sort.Slice(splits, func(i, j int) bool {
		if splits[i].t != splits[j].t {
			return splits[i].t < splits[j].t
		}
		return splits[i].v < splits[j].v
	})

	path := []int{s.a}
	visited := map[int]int{s.a: 0}
	visit := func(v int) {
		if at, ok := visited[v]; ok {
			for _, dropped := range path[at+1:] {
				delete(visited, dropped)
			}
			path = path[:at+1]
			return
		}
		visited[v] = len(path)
		path = append(path, v)
	}
	for _, sp := range splits {
		visit(sp.v)
	}
	visit(s.b)

	out := make([]subEdge, 0, len(path)-1)
	for k := 1; k < len(path); k++ {
		out = append(out, subEdge{path[k-1], path[k], s.ids})
	}
	return out
}

// Merge sub-edges joining the same two vertices and drop collapsed ones,
// keeping first-seen order.
func dedupeSubEdges(subs []subEdge) []subEdge {
	index := make(map[edgeKey]int, len(subs))
	out := subs[:0:0]
	for _, s := range subs {
		if s.a == s.b {
			continue
		}
		key := newEdgeKey(s.a, s.b)
		if k, ok := index[key]; ok {
			out[k].ids = unionIDs(out[k].ids, s.ids)
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}
