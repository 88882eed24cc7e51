package convert

import (
	"strconv"
	"strings"

	"github.com/tabkit/tabkit/internal/cell"
)

// FixedWidthColumn describes one field of a fixed-width schema: its
// header name, 0-based starting scalar offset, and scalar length,
// grounded on original_source's in2csv_fixed.cpp schema-as-CSV convention
// (column,start,length rows).
type FixedWidthColumn struct {
	Name   string
	Start  int
	Length int
}

// ParseFixedWidthSchema reads a CSV-formatted schema description (header
// "column,start,length", one data row per field) the way
// original_source/suite/src/in2csv/in2csv_fixed.cpp does, and returns the
// parsed field list in file order. Starts are returned 0-based: when the
// smallest start in the schema is 1, every start is reduced by one.
func ParseFixedWidthSchema(schemaRaw []byte) ([]FixedWidthColumn, error) {
	table, err := FromCSV(schemaRaw, Options{})
	if err != nil {
		return nil, err
	}
	nameIdx, startIdx, lenIdx := -1, -1, -1
	for i, h := range table.Header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "column", "field", "name":
			nameIdx = i
		case "start":
			startIdx = i
		case "length":
			lenIdx = i
		}
	}
	if nameIdx < 0 || startIdx < 0 || lenIdx < 0 {
		return nil, &schemaError{"fixed-width schema must have column, start, length headers"}
	}

	cols := make([]FixedWidthColumn, 0, len(table.Rows))
	for _, row := range table.Rows {
		start, _ := strconv.Atoi(strings.TrimSpace(row[startIdx].Decoded(table.Src)))
		length, _ := strconv.Atoi(strings.TrimSpace(row[lenIdx].Decoded(table.Src)))
		cols = append(cols, FixedWidthColumn{
			Name:   row[nameIdx].Decoded(table.Src),
			Start:  start,
			Length: length,
		})
	}
	// A schema whose smallest start is 1 is 1-based; shift it to 0-based.
	if len(cols) > 0 {
		minStart := cols[0].Start
		for _, c := range cols[1:] {
			if c.Start < minStart {
				minStart = c.Start
			}
		}
		if minStart == 1 {
			for i := range cols {
				cols[i].Start--
			}
		}
	}
	return cols, nil
}

type schemaError struct{ msg string }

func (e *schemaError) Error() string { return e.msg }

// FromFixedWidth extracts each record's fields by scalar (not byte) offset
// per the schema, then re-parses the synthesized CSV buffer through
// FromCSV — the same "build an in-memory CSV then re-type it" shape
// original_source's in2csv_dbf.cpp uses for DBF.
func FromFixedWidth(dataRaw []byte, schema []FixedWidthColumn, opts Options) (*cell.Table, error) {
	utf8Bytes, err := decodeToUTF8(dataRaw, opts.Encoding)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	for i, col := range schema {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(csvQuote(col.Name))
	}
	buf.WriteByte('\n')

	for _, line := range splitLinesKeepNonEmpty(utf8Bytes) {
		runes := []rune(string(line))
		for i, col := range schema {
			if i > 0 {
				buf.WriteByte(',')
			}
			field := extractRunes(runes, col.Start, col.Length)
			buf.WriteString(csvQuote(strings.TrimRight(field, " ")))
		}
		buf.WriteByte('\n')
	}

	return FromCSV([]byte(buf.String()), Options{NoHeader: opts.NoHeader, FieldSizeLimit: opts.FieldSizeLimit})
}

func extractRunes(runes []rune, start, length int) string {
	if start < 0 || start >= len(runes) {
		return ""
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

func csvQuote(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func splitLinesKeepNonEmpty(b []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(b); i++ {
		if b[i] == '\n' {
			line := b[start:i]
			line = stripCR(line)
			if len(line) > 0 {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	if start < len(b) {
		line := stripCR(b[start:])
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

func stripCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}
