package advanced

import (
	"math"
	"math/big"
)

// Geometric predicates. Each one first evaluates the determinant in floating
// point and accepts the sign when it is larger than the worst case rounding
// error. Otherwise the determinant is recomputed exactly with rationals, so the
// answer is always the sign of the true determinant of the given coordinates.

const machineEpsilon = 1.1102230246251565e-16 // 2^-53

var (
	orientErrorBound   = (3 + 16*machineEpsilon) * machineEpsilon
	inCircleErrorBound = (10 + 96*machineEpsilon) * machineEpsilon
)

// Sign of the area of triangle abc: 1 if counterclockwise, -1 if clockwise, 0
// if collinear.
func orientation(a, b, c Point) int {
	detLeft := (a.X - c.X) * (b.Y - c.Y)
	detRight := (a.Y - c.Y) * (b.X - c.X)
	det := detLeft - detRight
	bound := orientErrorBound * (math.Abs(detLeft) + math.Abs(detRight))
	if det > bound {
		return 1
	}
	if -det > bound {
		return -1
	}
	return orientationExact(a, b, c)
}

func orientationExact(a, b, c Point) int {
	acx := ratSub(a.X, c.X)
	acy := ratSub(a.Y, c.Y)
	bcx := ratSub(b.X, c.X)
	bcy := ratSub(b.Y, c.Y)
	left := new(big.Rat).Mul(acx, bcy)
	right := new(big.Rat).Mul(acy, bcx)
	return left.Cmp(right)
}

// For a counterclockwise triangle abc, returns 1 if d lies strictly inside its
// circumcircle, -1 if strictly outside and 0 if the four points are
// cocircular. Cocircular points are never treated as inside, which is what
// keeps flip loops from cycling.
func inCircle(a, b, c, d Point) int {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y

	bdxcdy, cdxbdy := bdx*cdy, cdx*bdy
	cdxady, adxcdy := cdx*ady, adx*cdy
	adxbdy, bdxady := adx*bdy, bdx*ady

	alift := adx*adx + ady*ady
	blift := bdx*bdx + bdy*bdy
	clift := cdx*cdx + cdy*cdy

	det := alift*(bdxcdy-cdxbdy) + blift*(cdxady-adxcdy) + clift*(adxbdy-bdxady)
	permanent := (math.Abs(bdxcdy)+math.Abs(cdxbdy))*alift +
		(math.Abs(cdxady)+math.Abs(adxcdy))*blift +
		(math.Abs(adxbdy)+math.Abs(bdxady))*clift
	bound := inCircleErrorBound * permanent
	if det > bound {
		return 1
	}
	if -det > bound {
		return -1
	}
	return inCircleExact(a, b, c, d)
}

func inCircleExact(a, b, c, d Point) int {
	adx, ady := ratSub(a.X, d.X), ratSub(a.Y, d.Y)
	bdx, bdy := ratSub(b.X, d.X), ratSub(b.Y, d.Y)
	cdx, cdy := ratSub(c.X, d.X), ratSub(c.Y, d.Y)

	lift := func(x, y *big.Rat) *big.Rat {
		xx := new(big.Rat).Mul(x, x)
		yy := new(big.Rat).Mul(y, y)
		return xx.Add(xx, yy)
	}

	det := new(big.Rat).Mul(lift(adx, ady), ratCross(bdx, bdy, cdx, cdy))
	det.Add(det, new(big.Rat).Mul(lift(bdx, bdy), ratCross(cdx, cdy, adx, ady)))
	det.Add(det, new(big.Rat).Mul(lift(cdx, cdy), ratCross(adx, ady, bdx, bdy)))
	return det.Sign()
}

func ratCross(x1, y1, x2, y2 *big.Rat) *big.Rat {
	l := new(big.Rat).Mul(x1, y2)
	r := new(big.Rat).Mul(x2, y1)
	return l.Sub(l, r)
}

func ratSub(a, b float64) *big.Rat {
	r := new(big.Rat).SetFloat64(a)
	return r.Sub(r, new(big.Rat).SetFloat64(b))
}

// True if the open segments ab and cd cross at a single interior point.
// Touching at an endpoint or overlapping collinearly does not count.
func segmentsCross(a, b, c, d Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	if o1 == 0 || o2 == 0 || o1 == o2 {
		return false
	}
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)
	return o3 != 0 && o4 != 0 && o3 != o4
}

// Intersection of the lines through ab and cd, with the parameters of the
// point along each segment. Only meaningful when segmentsCross is true. When
// the float result overflows or lands off either segment, it is recomputed
// exactly and rounded once.
func lineIntersection(a, b, c, d Point) (p Point, t, u float64) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.X*s.Y - r.Y*s.X
	ca := c.Sub(a)
	t = (ca.X*s.Y - ca.Y*s.X) / denom
	u = (ca.X*r.Y - ca.Y*r.X) / denom
	p = Point{a.X + t*r.X, a.Y + t*r.Y}
	if p.IsFinite() && t >= 0 && t <= 1 && u >= 0 && u <= 1 {
		return p, t, u
	}
	return lineIntersectionExact(a, b, c, d)
}

// Returns a non-finite point for parallel lines.
func lineIntersectionExact(a, b, c, d Point) (p Point, t, u float64) {
	rx, ry := ratSub(b.X, a.X), ratSub(b.Y, a.Y)
	sx, sy := ratSub(d.X, c.X), ratSub(d.Y, c.Y)
	cax, cay := ratSub(c.X, a.X), ratSub(c.Y, a.Y)

	denom := ratCross(rx, ry, sx, sy)
	if denom.Sign() == 0 {
		nan := math.NaN()
		return Point{nan, nan}, nan, nan
	}
	tr := new(big.Rat).Quo(ratCross(cax, cay, sx, sy), denom)
	ur := new(big.Rat).Quo(ratCross(cax, cay, rx, ry), denom)

	x := new(big.Rat).Mul(tr, rx)
	x.Add(x, new(big.Rat).SetFloat64(a.X))
	y := new(big.Rat).Mul(tr, ry)
	y.Add(y, new(big.Rat).SetFloat64(a.Y))

	p.X, _ = x.Float64()
	p.Y, _ = y.Float64()
	t, _ = tr.Float64()
	u, _ = ur.Float64()
	return p, t, u
}

// Squared radius of the circle through a, b and c, infinite when they are
// collinear.
func circumRadius(a, b, c Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ex := c.X - a.X
	ey := c.Y - a.Y

	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	d := dx*ey - dy*ex
	if bl == 0 || cl == 0 || d == 0 {
		return math.Inf(1)
	}

	x := (ey*bl - dy*cl) * 0.5 / d
	y := (dx*cl - ex*bl) * 0.5 / d
	return x*x + y*y
}

func circumCenter(a, b, c Point) Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ex := c.X - a.X
	ey := c.Y - a.Y

	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	d := dx*ey - dy*ex

	x := a.X + (ey*bl-dy*cl)*0.5/d
	y := a.Y + (dx*cl-ex*bl)*0.5/d
	return Point{x, y}
}

// Monotonic in the angle of (dx, dy), in [0, 1). Cheaper than atan2 and good
// enough for bucketing hull edges.
func pseudoAngle(dx, dy float64) float64 {
	p := dx / (math.Abs(dx) + math.Abs(dy))
	if dy > 0 {
		return (3 - p) / 4
	}
	return (1 + p) / 4
}
