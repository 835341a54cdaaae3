package advanced

import (
	"math"

	"github.com/golang/geo/r2"
)

// Uniform bucket grid over point indices, used for the proximity queries in
// input preparation (merging, vertex-on-segment and intersection reuse).
type grid struct {
	bounds r2.Rect
	cell   float64
	cells  map[[2]int][]int
}

// Cells are sized so that roughly one point lands in each, but never smaller
// than minCell, so an epsilon query touches at most a few cells.
func newGrid(bounds r2.Rect, n int, minCell float64) *grid {
	size := bounds.Size()
	cell := math.Max(size.X, size.Y) / math.Max(1, math.Ceil(math.Sqrt(float64(n))))
	cell = math.Max(cell, minCell)
	if cell <= 0 || math.IsInf(cell, 0) || math.IsNaN(cell) {
		cell = 1
	}
	return &grid{
		bounds: bounds,
		cell:   cell,
		cells:  make(map[[2]int][]int),
	}
}

func (g *grid) key(x, y float64) [2]int {
	return [2]int{
		int(math.Floor((x - g.bounds.X.Lo) / g.cell)),
		int(math.Floor((y - g.bounds.Y.Lo) / g.cell)),
	}
}

func (g *grid) insert(i int, p Point) {
	k := g.key(p.X, p.Y)
	g.cells[k] = append(g.cells[k], i)
}

// Call fn for every index whose cell overlaps r. Candidates still need an exact
// distance check.
func (g *grid) query(r r2.Rect, fn func(i int)) {
	lo := g.key(r.X.Lo, r.Y.Lo)
	hi := g.key(r.X.Hi, r.Y.Hi)
	span := (hi[0] - lo[0] + 1) * (hi[1] - lo[1] + 1)
	if span > len(g.cells) {
		for k, indices := range g.cells {
			if k[0] < lo[0] || k[0] > hi[0] || k[1] < lo[1] || k[1] > hi[1] {
				continue
			}
			for _, i := range indices {
				fn(i)
			}
		}
		return
	}
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for _, i := range g.cells[[2]int{x, y}] {
				fn(i)
			}
		}
	}
}

func toR2(p Point) r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

func boundsOf(points []Point) r2.Rect {
	rect := r2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(toR2(p))
	}
	return rect
}

func segmentBounds(a, b Point, margin float64) r2.Rect {
	return r2.RectFromPoints(toR2(a), toR2(b)).ExpandedByMargin(margin)
}
