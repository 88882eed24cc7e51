package convert

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tabkit/tabkit/internal/cell"
)

// ExcelOptions extends Options with the sheet-selection, sheet-export, and
// serial-date fields specific to spreadsheet input, grounded on
// _examples/invertedv-toch/toch.go's -sheet flag and
// original_source/suite/src/in2csv/in2csv_xlsx.cpp / common_excel.h's
// impl_args (names/sheet/write_sheets/use_sheet_names/d_excel/dt_excel/
// is1904).
type ExcelOptions struct {
	Options
	Sheet  string // sheet name; "" means the first sheet
	Is1904 bool   // workbook uses the 1904 date system instead of 1900

	// DExcel / DTExcel are comma-separated column identifiers (1-based
	// index or header name) whose numeric cells are Excel serial dates/
	// datetimes to project into Date/DateTime text before C3 sees them,
	// per §4.6.3. "" or "none" disables the projection.
	DExcel  string
	DTExcel string

	// WriteSheets names the sheets to export to sibling sheets_<i>.csv (or
	// sheets_<name>.csv when UseSheetNames is set) files, comma-separated
	// by 1-based index or name, or "-" for every sheet. "" disables
	// sheet export.
	WriteSheets   string
	UseSheetNames bool
}

// SheetNames lists a workbook's sheet names in order, for the §4.6.3
// "names" mode (print sheet names and exit, no table is produced).
func SheetNames(r io.ReaderAt, size int64) ([]string, error) {
	f, err := excelize.OpenReader(sectionReader(r, size))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var names []string
	for _, n := range f.GetSheetList() {
		if n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// FromXLSX consumes github.com/xuri/excelize/v2 as the external row
// iterator for .xlsx (legacy .xls requires an out-of-scope external
// pre-conversion to .xlsx, consistent with toch.go's own documented
// limitation), then funnels rows through FromCSV's
// header/body split so downstream inference is identical across formats.
func FromXLSX(r io.ReaderAt, size int64, opts ExcelOptions) (*cell.Table, error) {
	f, err := excelize.OpenReader(sectionReader(r, size))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fromOpenedXLSX(f, opts.Sheet, opts)
}

// FromXLSXSheet converts one named sheet of the workbook, reopening the
// reader fresh — the §4.6.3 --write-sheets path calls this once per
// requested sheet.
func FromXLSXSheet(r io.ReaderAt, size int64, sheet string, opts ExcelOptions) (*cell.Table, error) {
	f, err := excelize.OpenReader(sectionReader(r, size))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fromOpenedXLSX(f, sheet, opts)
}

func fromOpenedXLSX(f *excelize.File, sheet string, opts ExcelOptions) (*cell.Table, error) {
	if sheet == "" {
		sheet = f.GetSheetList()[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &cell.Table{}, nil
	}

	header := letterNames(len(rows[0]))
	if !opts.NoHeader {
		header = append([]string(nil), rows[0]...)
	}
	dateCols, err := resolveColumnIdentifiers(opts.DExcel, header)
	if err != nil {
		return nil, err
	}
	dtCols, err := resolveColumnIdentifiers(opts.DTExcel, header)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	for ri, row := range rows {
		isHeaderRow := ri == 0 && !opts.NoHeader
		for i, v := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			if !isHeaderRow {
				v = projectExcelSerial(v, i, dateCols, dtCols, opts.Is1904)
			}
			buf.WriteString(csvQuote(v))
		}
		buf.WriteByte('\n')
	}

	return FromCSV([]byte(buf.String()), opts.Options)
}

// projectExcelSerial rewrites a serial-numbered cell in a d_excel/dt_excel
// column into its Date/DateTime text form, per §4.6.3: the 1900-mode
// <60/>=60 leap-bug split (handled inside excelSerialToTime) and the
// 1904 epoch both apply. Cells that don't parse as a bare number are left
// untouched (already-formatted date strings pass through as-is).
func projectExcelSerial(v string, col int, dateCols, dtCols map[int]bool, is1904 bool) string {
	isDate := dateCols[col]
	isDT := dtCols[col]
	if !isDate && !isDT {
		return v
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v
	}
	t := excelSerialToTime(f, is1904)
	if isDT {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02")
}

// resolveColumnIdentifiers parses a comma-separated list of 1-based column
// indices or header names into the set of 0-based column positions it
// names. "" and "none" (the original's "no columns selected" spelling)
// resolve to the empty set.
func resolveColumnIdentifiers(spec string, header []string) (map[int]bool, error) {
	set := map[int]bool{}
	if spec == "" || spec == "none" {
		return set, nil
	}
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			idx := n - 1
			if idx < 0 || idx >= len(header) {
				return nil, fmt.Errorf("column identifier %d out of range", n)
			}
			set[idx] = true
			continue
		}
		found := false
		for i, h := range header {
			if h == tok {
				set[i] = true
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown column identifier %q", tok)
		}
	}
	return set, nil
}

// ResolveWriteSheets expands the --write-sheets spec ("-" for every sheet,
// else a comma-separated list of 1-based indices and/or names) into the
// ordered list of actual sheet names to export, per common_excel.h's
// print_sheets.
func ResolveWriteSheets(r io.ReaderAt, size int64, spec string) ([]string, error) {
	all, err := SheetNames(r, size)
	if err != nil {
		return nil, err
	}
	if spec == "-" {
		return all, nil
	}
	var out []string
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			idx := n - 1
			if idx < 0 || idx >= len(all) {
				return nil, fmt.Errorf("sheet index %d out of range", n)
			}
			out = append(out, all[idx])
			continue
		}
		found := false
		for _, name := range all {
			if name == tok {
				out = append(out, name)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown sheet %q", tok)
		}
	}
	return out, nil
}

// excelSerialToTime converts an Excel date serial to a time.Time,
// resolving the 1900-epoch leap-bug boundary:
// serials < 60 are days since 1899-12-31; serials >= 60 are days since
// 1899-12-30 (absorbing the fictitious Feb 29 1900); Is1904 workbooks use
// 1904-01-01 with no leap-bug adjustment at all.
func excelSerialToTime(serial float64, is1904 bool) time.Time {
	var epoch time.Time
	switch {
	case is1904:
		epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	case serial < 60:
		epoch = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	default:
		epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	}
	days := int64(serial)
	frac := serial - float64(days)
	return epoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * float64(24*time.Hour)))
}

func sectionReader(r io.ReaderAt, size int64) io.Reader {
	return io.NewSectionReader(r, 0, size)
}
