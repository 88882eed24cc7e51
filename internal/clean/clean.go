// Package clean implements the Cleaner (C8 cleaner half): row-arity
// validation and the strict-vs-forgiving split between rejecting malformed
// rows and coercing them, grounded on
// original_source/suite/csvclean.cpp (row length vs. header length check,
// _out.csv/_err.csv split, dry-run reporting) and
// internal/importer/fuzzy.go's forgiving-import idea for the opt-in
// coercion path.
package clean

import (
	"fmt"

	"github.com/tabkit/tabkit/internal/cell"
)

// Report summarizes one clean pass over a table.
type Report struct {
	TotalRows   int
	ValidRows   []cell.Row
	InvalidRows []InvalidRow
}

// InvalidRow records why a row was rejected along with its 1-based
// position in the source. Rows repaired in CoerceRagged mode are not
// recorded here.
type InvalidRow struct {
	LineNumber int
	Row        cell.Row
	Reason     string
}

// Options controls how row-arity mismatches are handled.
type Options struct {
	// CoerceRagged pads short rows with empty cells and truncates long
	// rows to the header width instead of rejecting them, matching the
	// teacher's normalizeRecords behavior (fuzzy.go); false matches
	// csvclean.cpp's strict split into valid/invalid streams.
	CoerceRagged bool
}

// Clean validates every row of table against the header width, splitting
// into valid and invalid sets (or coercing ragged rows in place when
// opts.CoerceRagged is set).
func Clean(table *cell.Table, opts Options) Report {
	width := len(table.Header)
	report := Report{TotalRows: len(table.Rows)}

	for i, row := range table.Rows {
		lineNumber := i + 2 // +1 for 1-based, +1 for the header row itself
		switch {
		case len(row) == width:
			report.ValidRows = append(report.ValidRows, row)
		case opts.CoerceRagged:
			report.ValidRows = append(report.ValidRows, coerce(row, width))
		default:
			report.InvalidRows = append(report.InvalidRows, InvalidRow{
				LineNumber: lineNumber,
				Row:        row,
				Reason:     fmt.Sprintf("Expected %d columns, found %d columns", width, len(row)),
			})
		}
	}
	return report
}

func coerce(row cell.Row, width int) cell.Row {
	if len(row) == width {
		return row
	}
	if len(row) > width {
		return row[:width]
	}
	out := make(cell.Row, width)
	copy(out, row)
	return out
}
