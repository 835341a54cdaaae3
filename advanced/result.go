package advanced

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type Status int

const (
	StatusOK Status = iota
	// Returned when the input spans no area, or when constraint insertion
	// had to give up. The triangles present are still valid.
	StatusDegenerate
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegenerate:
		return "degenerate"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type DiagnosticKind int

const (
	KindInvalidInput DiagnosticKind = iota
	KindDegenerate
	// Produced by consumers mapping triangles back onto their own vertices
	KindUnresolvedFace
	KindNonTermination
	KindConstraintConflict
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindDegenerate:
		return "degenerate"
	case KindUnresolvedFace:
		return "unresolved face"
	case KindNonTermination:
		return "non-termination"
	case KindConstraintConflict:
		return "constraint conflict"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// What a diagnostic's Index refers to.
type Element int

const (
	ElementNone Element = iota
	// Input point, in the index space extended by hole points
	ElementPoint
	// Input constraint, in the index space extended by hole edges
	ElementEdge
	ElementHole
	// Output triangle
	ElementTriangle
)

func (e Element) String() string {
	switch e {
	case ElementNone:
		return "none"
	case ElementPoint:
		return "point"
	case ElementEdge:
		return "edge"
	case ElementHole:
		return "hole"
	case ElementTriangle:
		return "triangle"
	}
	return fmt.Sprintf("Element(%d)", int(e))
}

// Something the triangulation skipped or worked around. Index points at the
// offending element of the given kind, or is -1.
type Diagnostic struct {
	Kind    DiagnosticKind
	Element Element
	Index   int
	Message string
}

func (d Diagnostic) String() string {
	switch {
	case d.Index < 0:
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	case d.Element == ElementNone:
		return fmt.Sprintf("%s [%d]: %s", d.Kind, d.Index, d.Message)
	}
	return fmt.Sprintf("%s [%s %d]: %s", d.Kind, d.Element, d.Index, d.Message)
}

// Where an output point came from. Points lists every input point merged into
// it, first occurrence first. A synthetic point has no input points; Edges then
// lists the input constraints whose crossing created it.
type Origin struct {
	Points []int
	Edges  []int
}

type Result struct {
	Points    []Point
	Edges     []Edge
	Triangles []Triangle

	PointOrigins []Origin
	// Input constraint ids lying on each output edge. Empty for unconstrained
	// edges.
	EdgeOrigins [][]int

	Status      Status
	Diagnostics []Diagnostic
}

func (r *Result) addDiagnostic(kind DiagnosticKind, element Element, index int, format string, args ...interface{}) {
	if index < 0 {
		element = ElementNone
	}
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Kind:    kind,
		Element: element,
		Index:   index,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *Result) Synthetic(i int) bool {
	return len(r.PointOrigins[i].Points) == 0
}

// Whether the output edge between points i and j is constrained.
func (r *Result) Constrained(i, j int) bool {
	k := r.edgeIndex(i, j)
	return k >= 0 && len(r.EdgeOrigins[k]) > 0
}

func (r *Result) edgeIndex(i, j int) int {
	want := newEdgeKey(i, j).edge()
	k := sort.Search(len(r.Edges), func(k int) bool {
		e := r.Edges[k]
		return e[0] > want[0] || (e[0] == want[0] && e[1] >= want[1])
	})
	if k < len(r.Edges) && r.Edges[k] == want {
		return k
	}
	return -1
}

// The output points along input constraint c, from one end to the other.
// Returns nil when c is not represented by a single connected chain, which
// happens when the constraint was dropped or could not be inserted.
func (r *Result) ConstraintChain(c int) []int {
	adjacent := make(map[int][]int)
	for k, ids := range r.EdgeOrigins {
		i := sort.SearchInts(ids, c)
		if i == len(ids) || ids[i] != c {
			continue
		}
		e := r.Edges[k]
		adjacent[e[0]] = append(adjacent[e[0]], e[1])
		adjacent[e[1]] = append(adjacent[e[1]], e[0])
	}
	if len(adjacent) == 0 {
		return nil
	}

	// A chain has exactly two ends; start from the lower one for determinism
	start := -1
	for v, next := range adjacent {
		switch len(next) {
		case 1:
			if start < 0 || v < start {
				start = v
			}
		case 2:
		default:
			return nil
		}
	}
	if start < 0 {
		return nil
	}

	chain := []int{start}
	prev, current := -1, start
	for {
		next := -1
		for _, v := range adjacent[current] {
			if v != prev {
				next = v
			}
		}
		if next < 0 {
			break
		}
		chain = append(chain, next)
		prev, current = current, next
	}
	if len(chain) != len(adjacent) {
		return nil
	}
	return chain
}

func (r *Result) InputErrors() []Diagnostic {
	var result []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == KindInvalidInput {
			result = append(result, d)
		}
	}
	return result
}

// Non-nil if any part of the input was rejected.
func (r *Result) Err() error {
	invalid := r.InputErrors()
	if len(invalid) == 0 {
		return nil
	}
	messages := make([]string, len(invalid))
	for i, d := range invalid {
		messages[i] = d.String()
	}
	return errors.Errorf("%d invalid input elements: %s", len(invalid), strings.Join(messages, "; "))
}

// Check the structural guarantees of the result: valid indices, positive
// winding, no repeated triangles, and every edge of every triangle listed.
func (r *Result) Validate() error {
	edges := make(map[Edge]bool, len(r.Edges))
	for k, e := range r.Edges {
		if e[0] >= e[1] || e[0] < 0 || e[1] >= len(r.Points) {
			return errors.Errorf("edge %d %v is not normalized", k, e)
		}
		if edges[e] {
			return errors.Errorf("edge %v listed twice", e)
		}
		edges[e] = true
	}

	seen := make(map[Triangle]bool, len(r.Triangles))
	for k, t := range r.Triangles {
		for _, i := range t {
			if i < 0 || i >= len(r.Points) {
				return errors.Errorf("triangle %d %v has index out of range", k, t)
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return errors.Errorf("triangle %d %v repeats a vertex", k, t)
		}
		if orientation(r.Points[t[0]], r.Points[t[1]], r.Points[t[2]]) <= 0 {
			return errors.Errorf("triangle %d %v is not counterclockwise", k, t)
		}
		canonical := canonicalTriangle(t)
		if seen[canonical] {
			return errors.Errorf("triangle %v listed twice", t)
		}
		seen[canonical] = true
		for j := 0; j < 3; j++ {
			if !edges[newEdgeKey(t[j], t[(j+1)%3]).edge()] {
				return errors.Errorf("edge %d-%d of triangle %d is missing", t[j], t[(j+1)%3], k)
			}
		}
	}
	return nil
}

// Rotate so the smallest index comes first, keeping the winding.
func canonicalTriangle(t Triangle) Triangle {
	switch {
	case t[1] < t[0] && t[1] < t[2]:
		return Triangle{t[1], t[2], t[0]}
	case t[2] < t[0] && t[2] < t[1]:
		return Triangle{t[2], t[0], t[1]}
	}
	return t
}

func sortTriangles(triangles []Triangle) {
	for i, t := range triangles {
		triangles[i] = canonicalTriangle(t)
	}
	sort.Slice(triangles, func(i, j int) bool {
		a, b := triangles[i], triangles[j]
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
}
