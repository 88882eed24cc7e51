// Command csvsort sorts a CSV by one or more columns, type-aware via
// internal/infer's inferred schema and internal/compare's null-policy
// comparators.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"

	tabkit "github.com/tabkit/tabkit"
	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/cliutil"
	"github.com/tabkit/tabkit/internal/convert"
	"github.com/tabkit/tabkit/internal/emit"
	"github.com/tabkit/tabkit/internal/infer"
	"github.com/tabkit/tabkit/internal/locale"
	"github.com/tabkit/tabkit/internal/sortx"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("csvsort", flag.ContinueOnError)
	common := cliutil.Register(fs)
	columns := fs.String("c", "", "comma-separated sort columns; prefix a name with '-' for descending")
	fuzzyThreshold := fs.Float64("fuzzy", 0, "vote threshold (0..1) for fuzzy type inference; 0 disables fuzzy mode")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *columns == "" {
		return cliutil.Fail("csvsort", tabkit.New(tabkit.ValueError, "-c is required"))
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
		return cliutil.Fail("csvsort", tabkit.Wrap(tabkit.IoError, err, "reading input"))
	}

	lctx := common.LocaleContext()
	table, err := convert.FromCSV(raw, convert.Options{Delimiter: common.DelimiterByte(), Encoding: common.Encoding, SkipLines: common.SkipLines})
	if err != nil {
		return cliutil.Fail("csvsort", err)
	}

	var keys []sortx.Key
	for _, name := range strings.Split(*columns, ",") {
		name = strings.TrimSpace(name)
		desc := strings.HasPrefix(name, "-")
		if desc {
			name = name[1:]
		}
		keys = append(keys, sortx.Key{Column: name, Descending: desc})
	}

	schema, err := inferSchema(table, lctx, *fuzzyThreshold)
	if err != nil {
		return cliutil.Fail("csvsort", err)
	}

	if err := sortx.Sort(table, keys, schema, lctx); err != nil {
		return cliutil.Fail("csvsort", err)
	}

	if err := emit.CSV(os.Stdout, table, ','); err != nil {
		return cliutil.Fail("csvsort", err)
	}
	common.Logf("sorted %d rows", len(table.Rows))
	return 0
}

func inferSchema(table *cell.Table, lctx *locale.Context, fuzzyThreshold float64) ([]cell.ColumnSchema, error) {
	samples := make([][]string, table.NumCols())
	for i := range samples {
		samples[i] = table.Column(i)
	}
	var fuzzy *infer.FuzzyOptions
	if fuzzyThreshold > 0 {
		fuzzy = &infer.FuzzyOptions{Threshold: fuzzyThreshold}
	}
	results, err := infer.Columns(context.Background(), samples, lctx, fuzzy)
	if err != nil {
		return nil, err
	}
	schema := make([]cell.ColumnSchema, len(results))
	for i, r := range results {
		schema[i] = cell.ColumnSchema{Name: table.Header[i], Kind: int(r.Kind), HasBlanks: r.HasBlanks, MaxPrecision: r.MaxPrecision, MaxTextLength: r.MaxTextLength}
	}
	return schema, nil
}
