package convert

import (
	"encoding/json"

	shp "github.com/jonas-p/go-shp"

	"github.com/tabkit/tabkit/internal/cell"
)

// FromShapefile reads a .shp/.dbf pair via jonas-p/go-shp and flattens it
// into a cell.Table the same way FromGeoJSON does: attributes become
// columns, geometry is re-serialized into a trailing "geojson" column.
// Grounded on internal/importer/shapefile.go's ImportShapefile, which
// built an in-memory FeatureCollection and delegated to the GeoJSON
// importer — the same "build a canonical document, then reuse the other
// translator" shape this function follows, retargeted at FromGeoJSON
// instead of a SQL importer.
func FromShapefile(path string, opts Options) (*cell.Table, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	fields := r.Fields()
	var features []map[string]any

	for r.Next() {
		idx, shape := r.Shape()
		props := make(map[string]any, len(fields))
		for fi, fld := range fields {
			props[fld.String()] = r.ReadAttribute(idx, fi)
		}

		var geom any
		switch s := shape.(type) {
		case *shp.Point:
			geom = map[string]any{"type": "Point", "coordinates": []float64{s.X, s.Y}}
		case *shp.PolyLine:
			geom = map[string]any{"type": "LineString", "coordinates": pointsToCoords(s.Points)}
		case *shp.Polygon:
			geom = map[string]any{"type": "Polygon", "coordinates": []any{pointsToCoords(s.Points)}}
		default:
			geom = nil
		}

		features = append(features, map[string]any{
			"type":       "Feature",
			"properties": props,
			"geometry":   geom,
		})
	}

	fc := map[string]any{"type": "FeatureCollection", "features": features}
	raw, err := json.Marshal(fc)
	if err != nil {
		return nil, err
	}
	return FromGeoJSON(raw, opts)
}

func pointsToCoords(points []shp.Point) [][]float64 {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.X, p.Y}
	}
	return coords
}
