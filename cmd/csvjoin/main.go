// Command csvjoin reduces two or more CSV files into one, using
// internal/join's relational join executor.
package main

import (
	"flag"
	"os"
	"strings"

	tabkit "github.com/tabkit/tabkit"
	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/cliutil"
	"github.com/tabkit/tabkit/internal/convert"
	"github.com/tabkit/tabkit/internal/emit"
	"github.com/tabkit/tabkit/internal/join"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("csvjoin", flag.ContinueOnError)
	common := cliutil.Register(fs)
	columns := fs.String("c", "", "comma-separated join column per file, in file order (ignored for -mode union)")
	mode := fs.String("mode", "inner", "inner, left, right, outer, union")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() < 2 {
		return cliutil.Fail("csvjoin", tabkit.New(tabkit.JoinError, "at least two input files are required"))
	}

	var joinMode join.Mode
	switch *mode {
	case "inner":
		joinMode = join.Inner
	case "left":
		joinMode = join.Left
	case "right":
		joinMode = join.Right
	case "outer":
		joinMode = join.Outer
	case "union":
		joinMode = join.Union
	default:
		return cliutil.Fail("csvjoin", tabkit.Newf(tabkit.JoinError, "unrecognized mode %q", *mode))
	}

	opts := convert.Options{Delimiter: common.DelimiterByte(), Encoding: common.Encoding, SkipLines: common.SkipLines}

	tables := make([]*cell.Table, fs.NArg())
	for i := 0; i < fs.NArg(); i++ {
		raw, err := os.ReadFile(fs.Arg(i))
		if err != nil {
			return cliutil.Fail("csvjoin", tabkit.Wrap(tabkit.IoError, err, "reading "+fs.Arg(i)))
		}
		t, err := convert.FromCSV(raw, opts)
		if err != nil {
			return cliutil.Fail("csvjoin", err)
		}
		tables[i] = t
	}

	var specs []join.ColumnSpec
	if joinMode != join.Union {
		if *columns == "" {
			return cliutil.Fail("csvjoin", tabkit.New(tabkit.JoinError, "-c is required for non-union joins"))
		}
		names := strings.Split(*columns, ",")
		if len(names) != 1 && len(names) != len(tables) {
			return cliutil.Fail("csvjoin", tabkit.Newf(tabkit.JoinError, "-c names %d columns for %d files", len(names), len(tables)))
		}
		for _, n := range names {
			specs = append(specs, join.ColumnSpec{Column: strings.TrimSpace(n)})
		}
	}

	result, err := join.Reduce(tables, specs, joinMode, common.LocaleContext())
	if err != nil {
		return cliutil.Fail("csvjoin", tabkit.Wrap(tabkit.JoinError, err, "joining"))
	}

	if err := emit.CSV(os.Stdout, result, ','); err != nil {
		return cliutil.Fail("csvjoin", err)
	}
	common.Logf("wrote %d rows from %d files", len(result.Rows), len(tables))
	return 0
}
