package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"github.com/tabkit/tabkit/internal/cell"
)

// FromGeoJSON flattens a FeatureCollection (or a single Feature, or
// NDJSON-style one-feature-per-line) into a cell.Table: one column per
// property key (union across features in order of first appearance,
// grounded on internal/importer/geojson.go's ImportGeoJSON; the order of
// keys first seen in the same feature is not defined, since properties
// are decoded into a map) plus a trailing "geojson"
// column holding each feature's geometry re-serialized to GeoJSON text.
// Point geometries additionally populate "longitude"/"latitude" columns,
// matching the original's special-casing of the most common geometry type.
func FromGeoJSON(raw []byte, opts Options) (*cell.Table, error) {
	utf8Bytes, err := decodeToUTF8(raw, opts.Encoding)
	if err != nil {
		return nil, err
	}

	features, err := parseFeatures(utf8Bytes)
	if err != nil {
		return nil, err
	}

	header := []string{}
	seen := map[string]bool{}
	hasPoint := false
	for _, f := range features {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
		if f.Geometry != nil && f.Geometry.GeoJSONType() == "Point" {
			hasPoint = true
		}
	}
	if hasPoint {
		header = append(header, "longitude", "latitude")
	}
	header = append(header, "geojson")

	var buf bytes.Buffer
	for i, h := range header {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(csvQuote(h))
	}
	buf.WriteByte('\n')

	for _, f := range features {
		for i, h := range header {
			if i > 0 {
				buf.WriteByte(',')
			}
			switch h {
			case "longitude", "latitude":
				lon, lat, ok := pointLonLat(f)
				if !ok {
					continue
				}
				if h == "longitude" {
					buf.WriteString(strconv.FormatFloat(lon, 'g', -1, 64))
				} else {
					buf.WriteString(strconv.FormatFloat(lat, 'g', -1, 64))
				}
			case "geojson":
				geomJSON, _ := geojson.NewGeometry(f.Geometry).MarshalJSON()
				buf.WriteString(csvQuote(string(geomJSON)))
			default:
				buf.WriteString(csvQuote(jsonValueToString(f.Properties[h])))
			}
		}
		buf.WriteByte('\n')
	}

	return FromCSV(buf.Bytes(), Options{})
}

func pointLonLat(f *geojson.Feature) (float64, float64, bool) {
	if f.Geometry == nil || f.Geometry.GeoJSONType() != "Point" {
		return 0, 0, false
	}
	point, isPoint := geojsonPoint(f)
	if !isPoint {
		return 0, 0, false
	}
	return point[0], point[1], true
}

func geojsonPoint(f *geojson.Feature) ([2]float64, bool) {
	b, err := geojson.NewGeometry(f.Geometry).MarshalJSON()
	if err != nil {
		return [2]float64{}, false
	}
	var raw struct {
		Coordinates [2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return [2]float64{}, false
	}
	return raw.Coordinates, true
}

func parseFeatures(b []byte) ([]*geojson.Feature, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return parseNDJSONFeatures(b)
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			return nil, fmt.Errorf("decoding FeatureCollection: %w", err)
		}
		return fc.Features, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			return nil, fmt.Errorf("decoding Feature: %w", err)
		}
		return []*geojson.Feature{f}, nil
	default:
		return nil, fmt.Errorf("unrecognized GeoJSON root type %q", probe.Type)
	}
}

func parseNDJSONFeatures(b []byte) ([]*geojson.Feature, error) {
	var features []*geojson.Feature
	for _, line := range bytes.Split(b, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		f, err := geojson.UnmarshalFeature(line)
		if err != nil {
			return nil, fmt.Errorf("decoding NDJSON feature: %w", err)
		}
		features = append(features, f)
	}
	return features, nil
}
