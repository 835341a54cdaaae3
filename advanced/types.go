package advanced

import "log/slog"

type Point struct {
	X float64
	Y float64
}

// Edge is an unordered pair of point indices. In an Input it refers to
// Input.Points, in a Result it refers to Result.Points.
type Edge [2]int

// Triangle holds three point indices, always wound counterclockwise.
type Triangle [3]int

// Segments are only used transiently for geometric tests. Unlike edges, they
// carry coordinates rather than indices.
type Segment struct {
	Start Point
	End   Point
}

// A closed loop of points. The last point should not repeat the first, but if
// it does the duplicate is merged away like any other coincident point.
type Polygon struct {
	Points []Point
}

// Everything a single triangulation call needs. Hole loops are appended to the
// point and edge index space after the input points and edges, in order, so a
// hole point k positions into the flattened holes gets index len(Points)+k and
// the edge leaving it gets index len(Edges)+k.
type Input struct {
	Points []Point
	Edges  []Edge
	Holes  []Polygon

	// Points closer than this are merged. Zero merges exact duplicates only.
	// Negative or non-finite values fall back to Tolerance.
	Epsilon float64

	// Keep only triangles enclosed by the constraint edges (even-odd rule).
	BoundaryOnly bool
}

type Options struct {
	// Upper bound on edge flips across constraint insertion and Delaunay
	// restoration. Zero selects a bound proportional to the input.
	MaxFlips int

	// Number of passes used to split crossing constraints. Each pass can
	// introduce new crossings when intersection points are merged.
	IntersectionPasses int

	Logger *slog.Logger
}

type Option func(*Options)

func WithMaxFlips(n int) Option {
	return func(o *Options) {
		o.MaxFlips = n
	}
}

func WithIntersectionPasses(n int) Option {
	return func(o *Options) {
		o.IntersectionPasses = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

const (
	defaultIntersectionPasses = 4
	minFlipBudget             = 1 << 16
	flipsPerVertex            = 256
)

func newOptions(vertexCount int, opts []Option) Options {
	o := Options{IntersectionPasses: defaultIntersectionPasses}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxFlips <= 0 {
		o.MaxFlips = max(minFlipBudget, flipsPerVertex*vertexCount)
	}
	if o.IntersectionPasses <= 0 {
		o.IntersectionPasses = defaultIntersectionPasses
	}
	if o.Logger == nil {
		o.Logger = slog.New(discardHandler{})
	}
	return o
}
