package surface

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// Read survey points and iso-lines from a GeoJSON feature collection.
//
// Point and MultiPoint features become loose vertices with their height taken
// from the "z" or "elevation" property, as orb keeps only 2D coordinates.
// LineString and MultiLineString features become iso-lines at their
// "elevation". Polygon rings become closed iso-lines, or holes when the
// feature has "hole": true.
func ReadGeoJSON(data []byte) (*Mesh, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing geojson")
	}

	m := NewMesh()
	for i, feature := range fc.Features {
		if feature.Geometry == nil {
			continue
		}
		z := elevationOf(feature)
		switch geom := feature.Geometry.(type) {
		case orb.Point:
			m.AddVertex(vec3(geom, z))
		case orb.MultiPoint:
			for _, p := range geom {
				m.AddVertex(vec3(p, z))
			}
		case orb.LineString:
			addLineString(m, geom, z)
		case orb.MultiLineString:
			for _, ls := range geom {
				addLineString(m, ls, z)
			}
		case orb.Polygon:
			addPolygon(m, geom, z, feature.Properties.MustBool("hole", false))
		case orb.MultiPolygon:
			for _, poly := range geom {
				addPolygon(m, poly, z, feature.Properties.MustBool("hole", false))
			}
		default:
			return nil, errors.Errorf("feature %d: unsupported geometry %s", i, feature.Geometry.GeoJSONType())
		}
	}
	return m, nil
}

func elevationOf(feature *geojson.Feature) float64 {
	if z, ok := feature.Properties["z"]; ok {
		if v, ok := z.(float64); ok {
			return v
		}
	}
	return feature.Properties.MustFloat64("elevation", 0)
}

func vec3(p orb.Point, z float64) mgl64.Vec3 {
	return mgl64.Vec3{p.X(), p.Y(), z}
}

func addLineString(m *Mesh, ls orb.LineString, z float64) {
	points := make([]mgl64.Vec3, len(ls))
	for i, p := range ls {
		points[i] = vec3(p, z)
	}
	addBlock(m, points)
}

// Every ring is a loop on its own; inner rings of a hole polygon are islands
// and are kept as closed iso-lines.
func addPolygon(m *Mesh, poly orb.Polygon, z float64, hole bool) {
	for r, ring := range poly {
		if len(ring) > 1 && ring.Closed() {
			ring = ring[:len(ring)-1]
		}
		points := make([]mgl64.Vec3, len(ring))
		for i, p := range ring {
			points[i] = vec3(p, z)
		}
		if hole && r == 0 {
			loop := make([]int, len(points))
			for i, p := range points {
				loop[i] = m.AddVertex(p)
			}
			m.Holes = append(m.Holes, loop)
			continue
		}
		m.AddPolyline(points, true)
	}
}

// The mesh faces as a feature collection of world-space triangles, each
// carrying its vertex indices and mean elevation.
func WriteGeoJSON(m *Mesh) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for i, f := range m.Faces {
		a, b, c := m.WorldVertex(f[0]), m.WorldVertex(f[1]), m.WorldVertex(f[2])
		ring := orb.Ring{
			{a.X(), a.Y()},
			{b.X(), b.Y()},
			{c.X(), c.Y()},
			{a.X(), a.Y()},
		}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["face"] = i
		feature.Properties["vertices"] = []int{f[0], f[1], f[2]}
		feature.Properties["elevation"] = (a.Z() + b.Z() + c.Z()) / 3
		fc.Append(feature)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "encoding geojson")
	}
	return data, nil
}
