// Package convert implements the Converter Pipeline (C6): translators from
// fixed-width, DBF, XLSX, JSON, NDJSON, and GeoJSON into the canonical
// in-memory cell.Table, each funneling through the same C1 reader
// (FromCSV) the native-CSV fast path uses. The translators do not run C3
// type inference themselves; the returned table holds untyped cells.
package convert

import (
	"bytes"

	tabkit "github.com/tabkit/tabkit"
	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/encoding"
)

// Options configures every translator in this package.
type Options struct {
	// Delimiter is the field separator for CSV/TSV input; 0 triggers
	// auto-detection via cell.DetectDelimiter.
	Delimiter byte

	// Encoding is the iconv-style label for the input's byte encoding; ""
	// means UTF-8 (BOM still stripped, UTF-16 BOM still auto-detected).
	Encoding string

	// NoHeader treats the first data row as an ordinary row and generates
	// letter-style column names (a, b, c, ...), grounded on
	// original_source's common_excel.h generate_header/letter_name.
	NoHeader bool

	// FieldSizeLimit bounds a field's scalar-value count; 0 is unbounded.
	FieldSizeLimit int

	// SkipLines is the number of leading lines to discard before parsing
	// begins (e.g. a report banner above the real header).
	SkipLines int
}

// FromCSV decodes raw CSV/TSV bytes into a cell.Table, resolving encoding
// and delimiter first. This is the "already canonical" fast path: no
// re-typing translator is needed, C1 reads directly.
func FromCSV(raw []byte, opts Options) (*cell.Table, error) {
	utf8Bytes, err := decodeToUTF8(raw, opts.Encoding)
	if err != nil {
		return nil, err
	}

	if opts.SkipLines > 0 {
		utf8Bytes = skipLines(utf8Bytes, opts.SkipLines)
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = cell.DetectDelimiter(utf8Bytes, []byte{',', '\t', ';', '|'}, 25)
	}

	r := cell.NewReader(utf8Bytes, delim)
	rows, err := r.ReadAll(cell.Options{FieldSizeLimit: opts.FieldSizeLimit})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &cell.Table{Src: utf8Bytes}, nil
	}

	var header []string
	var dataRows []cell.Row
	if opts.NoHeader {
		header = letterNames(len(rows[0]))
		dataRows = rows
	} else {
		header = make([]string, len(rows[0]))
		for i, c := range rows[0] {
			header[i] = c.Decoded(utf8Bytes)
		}
		dataRows = rows[1:]
	}

	return &cell.Table{Src: utf8Bytes, Header: header, Rows: dataRows}, nil
}

func decodeToUTF8(raw []byte, label string) ([]byte, error) {
	if utf8Bytes, matched, err := encoding.DetectUTF16(raw); err != nil {
		return nil, err
	} else if matched {
		return utf8Bytes, nil
	}

	var out []byte
	if label == "" {
		out = encoding.StripBOM(raw)
	} else {
		decoded, err := encoding.ToUTF8(raw, label)
		if err != nil {
			return nil, err
		}
		out = decoded
	}

	if ok, offset := encoding.Validate(out); !ok {
		return nil, tabkit.Newf(tabkit.EncodingError, "invalid UTF-8 sequence at byte offset %d", offset)
	}
	return out, nil
}

func skipLines(b []byte, n int) []byte {
	for i := 0; i < n; i++ {
		idx := bytes.IndexByte(b, '\n')
		if idx < 0 {
			return nil
		}
		b = b[idx+1:]
	}
	return b
}

// letterNames generates Excel-style column letters (a, b, ..., z, aa, ab,
// ...) for headerless input, grounded on common_excel.h's letter_name/
// generate_header.
func letterNames(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = letterName(i)
	}
	return out
}

func letterName(i int) string {
	var b []byte
	i++
	for i > 0 {
		i--
		b = append([]byte{byte('a' + i%26)}, b...)
		i /= 26
	}
	return string(b)
}
