// Command in2csv converts fixed-width, DBF, XLSX, JSON, NDJSON, GeoJSON,
// or shapefile input into canonical CSV, funneling every format through
// internal/convert so the rest of the toolkit only ever sees CSV.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tabkit "github.com/tabkit/tabkit"
	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/cliutil"
	"github.com/tabkit/tabkit/internal/convert"
	"github.com/tabkit/tabkit/internal/emit"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("in2csv", flag.ContinueOnError)
	common := cliutil.Register(fs)
	format := fs.String("f", "csv", "input format: csv, fixed, dbf, xlsx, json, ndjson, geojson, shapefile")
	schemaPath := fs.String("schema", "", "fixed-width schema CSV (column,start,length)")
	sheet := fs.String("sheet", "", "XLSX sheet name (default: first sheet)")
	is1904 := fs.Bool("1904", false, "XLSX workbook uses the 1904 date epoch")
	namesMode := fs.Bool("names", false, "XLSX: print sheet names and exit")
	writeSheets := fs.String("write-sheets", "", "XLSX: export sheets to sheets_<i>.csv, comma-separated indices/names or \"-\" for all")
	useSheetNames := fs.Bool("use-sheet-names", false, "XLSX: name --write-sheets output files after the sheet instead of its index")
	dExcel := fs.String("d-excel", "", "XLSX: comma-separated columns (index or name) holding Excel serial dates")
	dtExcel := fs.String("dt-excel", "", "XLSX: comma-separated columns (index or name) holding Excel serial datetimes")
	key := fs.String("key", "", "JSON: nested array field to flatten instead of the document root")
	noHeader := fs.Bool("no-header", false, "treat the first row as data, not a header")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := "-"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	opts := convert.Options{
		Delimiter: common.DelimiterByte(),
		Encoding:  common.Encoding,
		NoHeader:  *noHeader,
		SkipLines: common.SkipLines,
	}

	if *format == "xlsx" {
		return runXLSX(path, opts, xlsxFlags{
			sheet:         *sheet,
			is1904:        *is1904,
			namesMode:     *namesMode,
			writeSheets:   *writeSheets,
			useSheetNames: *useSheetNames,
			dExcel:        *dExcel,
			dtExcel:       *dtExcel,
		}, common)
	}

	table, err := convertInput(path, *format, opts, *schemaPath, *key)
	if err != nil {
		return cliutil.Fail("in2csv", err)
	}

	if err := emit.CSV(os.Stdout, table, ','); err != nil {
		return cliutil.Fail("in2csv", err)
	}
	common.Logf("wrote %d rows", len(table.Rows))
	return 0
}

type xlsxFlags struct {
	sheet         string
	is1904        bool
	namesMode     bool
	writeSheets   string
	useSheetNames bool
	dExcel        string
	dtExcel       string
}

// runXLSX handles the §4.6.3 XLSX-specific modes (--names short-circuits
// entirely; --write-sheets runs alongside the normal single-sheet-to-stdout
// conversion), grounded on in2csv_xlsx.cpp's convert_impl/print_sheets.
func runXLSX(path string, opts convert.Options, flags xlsxFlags, common *cliutil.CommonFlags) int {
	if path == "-" {
		return cliutil.Fail("in2csv", tabkit.New(tabkit.FormatError, "xlsx input cannot be read from stdin, a seekable file is required"))
	}
	f, info, err := openSeekable(path)
	if err != nil {
		return cliutil.Fail("in2csv", err)
	}
	defer f.Close()

	if flags.namesMode {
		names, err := convert.SheetNames(f, info.Size())
		if err != nil {
			return cliutil.Fail("in2csv", err)
		}
		for _, n := range names {
			fmt.Fprintln(os.Stdout, n)
		}
		return 0
	}

	excelOpts := convert.ExcelOptions{
		Options: opts,
		Sheet:   flags.sheet,
		Is1904:  flags.is1904,
		DExcel:  flags.dExcel,
		DTExcel: flags.dtExcel,
	}

	table, err := convert.FromXLSX(f, info.Size(), excelOpts)
	if err != nil {
		return cliutil.Fail("in2csv", err)
	}
	if err := emit.CSV(os.Stdout, table, ','); err != nil {
		return cliutil.Fail("in2csv", err)
	}
	common.Logf("wrote %d rows", len(table.Rows))

	if flags.writeSheets != "" {
		sheets, err := convert.ResolveWriteSheets(f, info.Size(), flags.writeSheets)
		if err != nil {
			return cliutil.Fail("in2csv", err)
		}
		for i, name := range sheets {
			filename := fmt.Sprintf("sheets_%d.csv", i)
			if flags.useSheetNames {
				filename = "sheets_" + name + ".csv"
			}
			sheetTable, err := convert.FromXLSXSheet(f, info.Size(), name, excelOpts)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			if err := writeSheetFile(filename, sheetTable); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
	return 0
}

func writeSheetFile(filename string, table *cell.Table) error {
	out, err := os.Create(filename)
	if err != nil {
		return tabkit.Wrap(tabkit.IoError, err, "creating "+filename)
	}
	defer out.Close()
	return emit.CSV(out, table, ',')
}

func convertInput(path, format string, opts convert.Options, schemaPath, key string) (*cell.Table, error) {
	switch format {
	case "csv":
		raw, err := readAll(path)
		if err != nil {
			return nil, err
		}
		return convert.FromCSV(raw, opts)

	case "fixed":
		if schemaPath == "" {
			return nil, tabkit.New(tabkit.FormatError, "fixed-width input requires -schema")
		}
		schemaRaw, err := readAll(schemaPath)
		if err != nil {
			return nil, err
		}
		cols, err := convert.ParseFixedWidthSchema(schemaRaw)
		if err != nil {
			return nil, err
		}
		raw, err := readAll(path)
		if err != nil {
			return nil, err
		}
		return convert.FromFixedWidth(raw, cols, opts)

	case "dbf":
		if path == "-" {
			return nil, tabkit.New(tabkit.FormatError, "dbf input cannot be read from stdin, a seekable file is required")
		}
		f, info, err := openSeekable(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return convert.FromDBF(f, info.Size(), opts)

	case "shapefile":
		if path == "-" {
			return nil, tabkit.New(tabkit.FormatError, "shapefile input cannot be read from stdin, a path to the .shp file is required")
		}
		return convert.FromShapefile(path, opts)

	case "json":
		raw, err := readAll(path)
		if err != nil {
			return nil, err
		}
		return convert.FromJSON(raw, convert.JSONOptions{Options: opts, Key: key})

	case "ndjson":
		raw, err := readAll(path)
		if err != nil {
			return nil, err
		}
		return convert.FromNDJSON(raw, convert.JSONOptions{Options: opts, Key: key})

	case "geojson":
		raw, err := readAll(path)
		if err != nil {
			return nil, err
		}
		return convert.FromGeoJSON(raw, opts)

	default:
		return nil, tabkit.Newf(tabkit.FormatError, "unrecognized input format %q", format)
	}
}

func openSeekable(path string) (*os.File, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, tabkit.Wrap(tabkit.IoError, err, "opening "+path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, tabkit.Wrap(tabkit.IoError, err, "stat "+path)
	}
	return f, info, nil
}

func readAll(path string) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, tabkit.Wrap(tabkit.IoError, err, "reading stdin")
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, tabkit.Wrap(tabkit.IoError, err, "reading "+path)
	}
	return b, nil
}
