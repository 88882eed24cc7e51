// Package emit implements the CSV, JSON, and GeoJSON output printers,
// grounded on
// internal/exporter/exporter.go's valueToString/ExportCSV/ExportJSON
// dispatch, generalized from engine.ResultSet rows to cell.Table.
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tabkit/tabkit/internal/cell"
)

// CSV writes table to w in RFC 4180 form, quoting any field that contains
// the delimiter, a quote, or a newline.
func CSV(w io.Writer, table *cell.Table, delim byte) error {
	if err := writeCSVRow(w, table.Header, delim); err != nil {
		return err
	}
	for _, row := range table.Rows {
		fields := make([]string, len(row))
		for i, c := range row {
			fields[i] = c.Decoded(table.Src)
		}
		if err := writeCSVRow(w, fields, delim); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVRow(w io.Writer, fields []string, delim byte) error {
	for i, f := range fields {
		if i > 0 {
			if _, err := w.Write([]byte{delim}); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, csvField(f, delim)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func csvField(s string, delim byte) string {
	if strings.ContainsAny(s, string(delim)+"\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// JSON writes table as an array of objects keyed by header, mirroring
// exporter.go's ExportJSON.
func JSON(w io.Writer, table *cell.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	objects := make([]map[string]string, len(table.Rows))
	for i, row := range table.Rows {
		obj := make(map[string]string, len(table.Header))
		for j, h := range table.Header {
			if j < len(row) {
				obj[h] = row[j].Decoded(table.Src)
			}
		}
		objects[i] = obj
	}
	return enc.Encode(objects)
}

// NDJSON writes one JSON object per line, no enclosing array.
func NDJSON(w io.Writer, table *cell.Table) error {
	enc := json.NewEncoder(w)
	for _, row := range table.Rows {
		obj := make(map[string]string, len(table.Header))
		for j, h := range table.Header {
			if j < len(row) {
				obj[h] = row[j].Decoded(table.Src)
			}
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}

// valueToString mirrors exporter.go's type-switch stringify for
// already-decoded Go values rather than raw cell text. Nothing in this
// package calls it at present.
func valueToString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
