// Command csvclean validates row arity against the header width,
// splitting a CSV into a <base>_out.csv valid stream and a <base>_err.csv
// rejected-rows report, per original_source/suite/csvclean.cpp's
// dry-run / _out / _err split.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tabkit "github.com/tabkit/tabkit"
	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/clean"
	"github.com/tabkit/tabkit/internal/cliutil"
	"github.com/tabkit/tabkit/internal/convert"
	"github.com/tabkit/tabkit/internal/emit"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("csvclean", flag.ContinueOnError)
	common := cliutil.Register(fs)
	coerce := fs.Bool("coerce", false, "pad/truncate ragged rows instead of rejecting them")
	dryRun := fs.Bool("n", false, "do not create output files, only report to stderr")
	fs.BoolVar(dryRun, "dry-run", false, "do not create output files, only report to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := "-"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return cliutil.Fail("csvclean", tabkit.Wrap(tabkit.IoError, err, "reading input"))
	}

	table, err := convert.FromCSV(raw, convert.Options{Delimiter: common.DelimiterByte(), Encoding: common.Encoding, SkipLines: common.SkipLines})
	if err != nil {
		return cliutil.Fail("csvclean", err)
	}

	report := clean.Clean(table, clean.Options{CoerceRagged: *coerce})
	stem := outputStem(path)

	if *dryRun {
		for _, bad := range report.InvalidRows {
			fmt.Fprintf(os.Stderr, "Line %d: %s\n", bad.LineNumber, bad.Reason)
		}
		common.Logf("%d total, %d valid, %d invalid", report.TotalRows, len(report.ValidRows), len(report.InvalidRows))
		if len(report.InvalidRows) > 0 {
			return 1
		}
		return 0
	}

	outPath := stem + "_out.csv"
	outFile, err := os.Create(outPath)
	if err != nil {
		return cliutil.Fail("csvclean", tabkit.Wrap(tabkit.IoError, err, "creating "+outPath))
	}
	cleaned := &cell.Table{Src: table.Src, Header: table.Header, Rows: report.ValidRows}
	writeErr := emit.CSV(outFile, cleaned, ',')
	closeErr := outFile.Close()
	if writeErr != nil {
		return cliutil.Fail("csvclean", writeErr)
	}
	if closeErr != nil {
		return cliutil.Fail("csvclean", tabkit.Wrap(tabkit.IoError, closeErr, "closing "+outPath))
	}

	if len(report.InvalidRows) > 0 {
		errPath := stem + "_err.csv"
		errFile, err := os.Create(errPath)
		if err != nil {
			return cliutil.Fail("csvclean", tabkit.Wrap(tabkit.IoError, err, "creating "+errPath))
		}
		errTable := buildErrorTable(table, report.InvalidRows)
		writeErr := emit.CSV(errFile, errTable, ',')
		closeErr := errFile.Close()
		if writeErr != nil {
			return cliutil.Fail("csvclean", writeErr)
		}
		if closeErr != nil {
			return cliutil.Fail("csvclean", tabkit.Wrap(tabkit.IoError, closeErr, "closing "+errPath))
		}
		fmt.Fprintf(os.Stdout, "%d error", len(report.InvalidRows))
		if len(report.InvalidRows) > 1 {
			fmt.Fprint(os.Stdout, "s")
		}
		fmt.Fprintf(os.Stdout, " logged to %s\n", errPath)
	} else {
		fmt.Fprintln(os.Stdout, "No errors.")
	}

	common.Logf("%d total, %d valid, %d invalid", report.TotalRows, len(report.ValidRows), len(report.InvalidRows))
	if len(report.InvalidRows) > 0 {
		return 1
	}
	return 0
}

// outputStem derives the "<base>" in "<base>_out.csv"/"<base>_err.csv" from
// the input path, mirroring csvclean.cpp's args.file.stem(); stdin input has
// no path to derive from, so it falls back to a fixed name.
func outputStem(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// buildErrorTable materializes the rejected-rows report as a table whose
// header is line_number,msg,<original header> and whose rows carry the
// "Expected N columns, found M columns" diagnostic followed by the
// malformed row's own original cells, per csvclean.cpp's
// erroneous_header_printer/to_stream("Expected ", columns, " columns,
// found ", cols, " columns") line format.
func buildErrorTable(table *cell.Table, invalid []clean.InvalidRow) *cell.Table {
	header := append([]string{"line_number", "msg"}, table.Header...)
	var src []byte
	rows := make([]cell.Row, len(invalid))
	for i, bad := range invalid {
		row := make(cell.Row, 0, 2+len(bad.Row))
		row = append(row, appendField(&src, strconv.Itoa(bad.LineNumber)))
		row = append(row, appendField(&src, bad.Reason))
		for _, c := range bad.Row {
			row = append(row, appendField(&src, c.Decoded(table.Src)))
		}
		rows[i] = row
	}
	return &cell.Table{Header: header, Src: src, Rows: rows}
}

func appendField(src *[]byte, s string) cell.Cell {
	start := len(*src)
	*src = append(*src, s...)
	return cell.Cell{Start: start, End: len(*src)}
}
