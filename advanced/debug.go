package advanced

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/surfaceiso/dbg"
)

// Helpers for debug logging. Vertices get readable names so that traces of a
// single run are easy to follow by eye.

func (m *mesh) describeVertex(v int) string {
	if v < 0 || v >= len(m.points) {
		return "Ø"
	}
	return fmt.Sprintf("%s(%d)", dbg.Name(&m.points[v]), v)
}

// Constrained edges are red, free edges green and edges missing from the mesh
// cyan.
func (m *mesh) describeEdge(a, b int) string {
	name := fmt.Sprintf("%s→%s", m.describeVertex(a), m.describeVertex(b))
	if _, ok := m.fixed[newEdgeKey(a, b)]; ok {
		return aurora.Red(name).String()
	}
	if m.findEdge(a, b) < 0 {
		return aurora.Cyan(name).String()
	}
	return aurora.Green(name).String()
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
