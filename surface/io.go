package surface

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type Format string

const (
	FormatAuto    Format = "auto"
	FormatText    Format = "text"
	FormatGeoJSON Format = "geojson"
	FormatDXF     Format = "dxf"
)

var Formats = []string{string(FormatAuto), string(FormatText), string(FormatGeoJSON), string(FormatDXF)}

// Guess a format from the file extension, defaulting to text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return FormatGeoJSON
	case ".dxf":
		return FormatDXF
	}
	return FormatText
}

func ReadFile(path string, format Format) (*Mesh, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}
	defer f.Close()

	var m *Mesh
	switch format {
	case FormatText:
		m, err = ReadText(f)
	case FormatDXF:
		m, err = ReadDXF(f)
	case FormatGeoJSON:
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			m, err = ReadGeoJSON(data)
		}
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return m, nil
}

// Write the mesh in the format implied by the path's extension: .obj, .dxf,
// or GeoJSON for .geojson and .json.
func WriteFile(m *Mesh, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dxf":
		return WriteDXF(m, path)
	case ".geojson", ".json":
		data, err := WriteGeoJSON(m)
		if err != nil {
			return err
		}
		return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing %s", path)
	case ".obj":
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		if err := WriteOBJ(f, m); err != nil {
			f.Close()
			return err
		}
		return errors.Wrapf(f.Close(), "closing %s", path)
	}
	return errors.Errorf("unsupported output extension %q", filepath.Ext(path))
}
