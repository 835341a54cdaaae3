package advanced

import (
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
)

// Debug rendering of a result. Triangles are filled green, free edges drawn in
// cyan, constrained edges in orange, and synthetic points marked in red.

const dbgDrawPadding = 10

func (r *Result) Draw(scale float64) *gg.Context {
	bounds := boundsOf(r.Points)
	if bounds.IsEmpty() {
		return gg.NewContext(dbgDrawPadding*2, dbgDrawPadding*2)
	}
	size := bounds.Size()

	// Set up the context
	width := int(scale*size.X) + dbgDrawPadding*2
	height := int(scale*size.Y) + dbgDrawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)

	c.Translate(dbgDrawPadding, dbgDrawPadding)
	c.Scale(scale, scale)
	c.Translate(-bounds.X.Lo, -bounds.Y.Lo)

	for _, t := range r.Triangles {
		a, b, d := r.Points[t[0]], r.Points[t[1]], r.Points[t[2]]
		c.MoveTo(a.X, a.Y)
		c.LineTo(b.X, b.Y)
		c.LineTo(d.X, d.Y)
		c.ClosePath()
	}
	c.SetRGB(0, 0.5, 0)
	c.Fill()

	for k, e := range r.Edges {
		a, b := r.Points[e[0]], r.Points[e[1]]
		c.MoveTo(a.X, a.Y)
		c.LineTo(b.X, b.Y)
		if len(r.EdgeOrigins[k]) > 0 {
			c.SetRGB(1, 0.6, 0)
			c.SetLineWidth(3)
		} else {
			c.SetRGB(0, 1, 1)
			c.SetLineWidth(1)
		}
		c.Stroke()
	}

	// Paths are transformed but line widths are not, so the marker radius is
	// given in scaled units
	c.SetRGB(1, 0, 0)
	for i, p := range r.Points {
		if r.Synthetic(i) {
			c.DrawCircle(p.X, p.Y, 3/scale)
			c.Fill()
		}
	}
	return c
}

func (r *Result) SavePNG(path string, scale float64) error {
	if err := r.Draw(scale).SavePNG(path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

// Render to a temporary PNG and print it inline on terminals that support
// it.
func (r *Result) CatPNG(scale float64) error {
	path := filepath.Join(os.TempDir(), "surfaceiso_result.png")
	if err := r.SavePNG(path, scale); err != nil {
		return err
	}
	imgcat.CatFile(path, os.Stdout)
	return nil
}
