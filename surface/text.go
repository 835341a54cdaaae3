package surface

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Read newline separated points in the form "x y" or "x y z", with each
// iso-line separated by an extra newline. A block holding a single point is a
// loose point. A block whose last point repeats its first is a closed loop.
// Lines starting with # are ignored.
func ReadText(in io.Reader) (*Mesh, error) {
	m := NewMesh()
	scanner := bufio.NewScanner(in)
	points := []mgl64.Vec3{}
	flush := func() {
		if len(points) > 0 {
			addBlock(m, points)
			points = []mgl64.Vec3{}
		}
	}

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}

		// If it's empty, and we collected any points, this is the end of the line
		if line == "" {
			flush()
			continue
		}

		point, err := parsePoint(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading points")
	}

	// Handle trailing block if any
	flush()
	return m, nil
}

func addBlock(m *Mesh, points []mgl64.Vec3) {
	closed := len(points) > 3 && points[0] == points[len(points)-1]
	if closed {
		points = points[:len(points)-1]
	}
	m.AddPolyline(points, closed)
}

func parsePoint(line string) (mgl64.Vec3, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 && len(parts) != 3 {
		return mgl64.Vec3{}, errors.Errorf("expected 2 or 3 coordinates, got %q", line)
	}
	var point mgl64.Vec3
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return mgl64.Vec3{}, errors.Wrapf(err, "coordinate %d", i)
		}
		point[i] = v
	}
	return point, nil
}

// Write the mesh as a Wavefront OBJ: world-space vertices, then faces and
// the remaining edges as lines.
func WriteOBJ(out io.Writer, m *Mesh) error {
	w := bufio.NewWriter(out)
	for i := range m.Vertices {
		v := m.WorldVertex(i)
		fmt.Fprintf(w, "v %s %s %s\n", formatFloat(v.X()), formatFloat(v.Y()), formatFloat(v.Z()))
	}
	for _, f := range m.Faces {
		fmt.Fprintf(w, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	for _, e := range m.Edges {
		fmt.Fprintf(w, "l %d %d\n", e[0]+1, e[1]+1)
	}
	return errors.Wrap(w.Flush(), "writing obj")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
