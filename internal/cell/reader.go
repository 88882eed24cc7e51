package cell

import (
	"bytes"
	"math"
	"unicode/utf8"

	"github.com/tabkit/tabkit/internal/encoding"
)

// Reader tokenizes a CSV/TSV byte buffer into Cell spans, honoring RFC 4180
// quoting including embedded newlines inside a quoted field. It is a
// generalization of the line-at-a-time splitter used
// (internal/importer/csv.go's naiveSplitOutsideQuotes/
// countDelimsOutsideQuotes): instead of pre-splitting on '\n' and then
// scanning each line for unbalanced quotes, Reader scans the whole buffer
// once so a quoted field may legally contain '\n'/'\r\n'.
type Reader struct {
	src   []byte
	delim byte
	pos   int
}

// NewReader constructs a Reader over src using delim as the field
// separator (detected by DetectDelimiter if the caller doesn't already
// know it).
func NewReader(src []byte, delim byte) *Reader {
	return &Reader{src: src, delim: delim}
}

// FieldSizeLimit, when non-zero, bounds the number of UTF-8 scalar values
// (not bytes) a single field may contain:
// Σ[byte & 0xC0 != 0x80] over the field's raw bytes. Zero means unbounded.
type Options struct {
	FieldSizeLimit int
}

// ReadAll tokenizes the entire buffer into rows of Cell spans. Every row,
// including any header line, is returned as a data row; splitting off a
// header or naming the columns of a headerless file is left to the caller.
func (r *Reader) ReadAll(opts Options) (rows []Row, err error) {
	n := len(r.src)
	for r.pos < n {
		row, rowErr := r.readRow(opts)
		if rowErr != nil {
			return rows, rowErr
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Reader) readRow(opts Options) (Row, error) {
	src := r.src
	n := len(src)
	if r.pos >= n {
		return nil, nil
	}

	var row Row
	fieldStart := r.pos
	quoted := false
	inQuotes := false
	fieldRunes := 0

	flush := func(end int) {
		row = append(row, Cell{Start: fieldStart, End: end, Quoted: quoted})
	}

	i := r.pos
	for i < n {
		c := src[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < n && src[i+1] == '"' {
					i += 2
					fieldRunes++
					continue
				}
				inQuotes = false
				i++
				continue
			}
			if utf8.RuneStart(c) {
				fieldRunes++
			}
			i++
		case c == '"' && i == fieldStart:
			quoted = true
			inQuotes = true
			i++
		case c == r.delim:
			if opts.FieldSizeLimit > 0 && fieldRunes > opts.FieldSizeLimit {
				return nil, fieldTooLong(fieldStart, i)
			}
			flush(i)
			i++
			fieldStart = i
			quoted = false
			fieldRunes = 0
		case c == '\n':
			if opts.FieldSizeLimit > 0 && fieldRunes > opts.FieldSizeLimit {
				return nil, fieldTooLong(fieldStart, i)
			}
			flush(i)
			end := i + 1
			r.pos = end
			return trimCR(row, src), nil
		case c == '\r':
			if i+1 < n && src[i+1] == '\n' {
				if opts.FieldSizeLimit > 0 && fieldRunes > opts.FieldSizeLimit {
					return nil, fieldTooLong(fieldStart, i)
				}
				flush(i)
				r.pos = i + 2
				return row, nil
			}
			if utf8.RuneStart(c) {
				fieldRunes++
			}
			i++
		default:
			if utf8.RuneStart(c) {
				fieldRunes++
			}
			i++
		}
	}

	// Last row with no trailing newline.
	if opts.FieldSizeLimit > 0 && fieldRunes > opts.FieldSizeLimit {
		return nil, fieldTooLong(fieldStart, n)
	}
	flush(n)
	r.pos = n
	return trimCR(row, src), nil
}

func trimCR(row Row, src []byte) Row {
	if len(row) == 0 {
		return row
	}
	last := &row[len(row)-1]
	if last.End > last.Start && !last.Quoted && src[last.End-1] == '\r' {
		last.End--
	}
	return row
}

type fieldTooLongError struct{ start, end int }

func (e *fieldTooLongError) Error() string { return "field exceeds configured size limit" }

func fieldTooLong(start, end int) error { return &fieldTooLongError{start, end} }

// DetectDelimiter scores candidate delimiters over the first few lines by
// consistency of occurrence count outside quotes, grounded on the
// detectDelimiter/meanStd scoring (lowest coefficient of variation wins,
// ties broken by candidate priority order).
func DetectDelimiter(src []byte, candidates []byte, sampleLines int) byte {
	lines := bytes.SplitN(src, []byte("\n"), sampleLines+1)
	if len(candidates) == 0 {
		candidates = []byte{',', '\t', ';', '|'}
	}
	best := candidates[0]
	bestScore := -1.0
	for _, d := range candidates {
		counts := make([]int, 0, len(lines))
		for _, ln := range lines {
			counts = append(counts, countOutsideQuotes(ln, d))
		}
		mean, std := meanStd(counts)
		if mean == 0 {
			continue
		}
		cv := std / mean
		if bestScore < 0 || cv < bestScore {
			bestScore = cv
			best = d
		}
	}
	return best
}

func countOutsideQuotes(line []byte, delim byte) int {
	inQ := false
	count := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			if inQ && i+1 < len(line) && line[i+1] == '"' {
				i++
				continue
			}
			inQ = !inQ
			continue
		}
		if !inQ && c == delim {
			count++
		}
	}
	return count
}

func meanStd(vals []int) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	mean := float64(sum) / float64(len(vals))
	var variance float64
	for _, v := range vals {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(vals))
	return mean, math.Sqrt(variance)
}

// RuneCount implements the field-size-limit invariant directly (exposed for
// callers outside the hot tokenizer loop, e.g. fixed-width extraction).
func RuneCount(b []byte) int { return encoding.RuneCount(b) }
