package emit

import (
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tabkit/tabkit/internal/cell"
)

// GeoJSON writes table as a FeatureCollection, treating lonCol/latCol as
// the point coordinates and every other column as a feature property. The
// collection's bbox is the bounding box of all its points.
// This is the inverse of convert.FromGeoJSON's flattening, completing the
// "produced" direction of the GeoJSON format, the inverse of
// convert.FromGeoJSON's flattening.
func GeoJSON(w io.Writer, table *cell.Table, lonCol, latCol string) error {
	lonIdx := colIndex(table.Header, lonCol)
	latIdx := colIndex(table.Header, latCol)

	fc := geojson.NewFeatureCollection()
	for _, row := range table.Rows {
		props := map[string]any{}
		var lon, lat float64
		for i, h := range table.Header {
			if i == lonIdx || i == latIdx {
				continue
			}
			if i < len(row) {
				props[h] = row[i].Decoded(table.Src)
			}
		}
		if lonIdx >= 0 && lonIdx < len(row) {
			lon = parseFloatOrZero(row[lonIdx].Decoded(table.Src))
		}
		if latIdx >= 0 && latIdx < len(row) {
			lat = parseFloatOrZero(row[latIdx].Decoded(table.Src))
		}

		f := geojson.NewFeature(orb.Point{lon, lat})
		f.Properties = props
		fc.Append(f)
	}
	if len(fc.Features) > 0 {
		bound := fc.Features[0].Geometry.Bound()
		for _, f := range fc.Features[1:] {
			bound = bound.Union(f.Geometry.Bound())
		}
		fc.BBox = geojson.NewBBox(bound)
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func colIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func parseFloatOrZero(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
