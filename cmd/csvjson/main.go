// Command csvjson is a convenience alias over internal/convert for the
// JSON/NDJSON/GeoJSON input formats, named after the historical tool of
// the same name rather than requiring -f json on in2csv.
package main

import (
	"flag"
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
	fs := flag.NewFlagSet("csvjson", flag.ContinueOnError)
	common := cliutil.Register(fs)
	ndjson := fs.Bool("ndjson", false, "input is newline-delimited JSON instead of a JSON array")
	geo := fs.Bool("geojson", false, "input is GeoJSON instead of plain JSON")
	key := fs.String("key", "", "nested array field to flatten instead of the document root")
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
		return cliutil.Fail("csvjson", tabkit.Wrap(tabkit.IoError, err, "reading input"))
	}

	opts := convert.Options{Encoding: common.Encoding, SkipLines: common.SkipLines}
	var table *cell.Table
	switch {
	case *geo:
		table, err = convert.FromGeoJSON(raw, opts)
	case *ndjson:
		table, err = convert.FromNDJSON(raw, convert.JSONOptions{Options: opts, Key: *key})
	default:
		table, err = convert.FromJSON(raw, convert.JSONOptions{Options: opts, Key: *key})
	}
	if err != nil {
		return cliutil.Fail("csvjson", err)
	}

	if err := emit.CSV(os.Stdout, table, ','); err != nil {
		return cliutil.Fail("csvjson", err)
	}
	common.Logf("wrote %d rows", len(table.Rows))
	return 0
}
