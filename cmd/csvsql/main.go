// Command csvsql creates a table from a CSV's inferred schema and bulk
// loads it, optionally running a query against the freshly loaded table
// and printing the result — the write side of internal/sqlproj paired
// with internal/infer.
package main

import (
	"context"
	"database/sql"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	tabkit "github.com/tabkit/tabkit"
	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/cliutil"
	"github.com/tabkit/tabkit/internal/convert"
	"github.com/tabkit/tabkit/internal/emit"
	"github.com/tabkit/tabkit/internal/infer"
	"github.com/tabkit/tabkit/internal/locale"
	"github.com/tabkit/tabkit/internal/sqlproj"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("csvsql", flag.ContinueOnError)
	common := cliutil.Register(fs)
	driver := fs.String("driver", "sqlite", "database/sql driver name (default: modernc.org/sqlite)")
	dsn := fs.String("db", ":memory:", "data source name / connection string")
	dialectName := fs.String("dialect", "sqlite", "DDL/type-name dialect: generic, mysql, postgresql, sqlite, firebird, oracle")
	table := fs.String("table", "", "destination table name (default: input file's base name)")
	query := fs.String("query", "", "run this query against the loaded table instead of only loading it")
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
		return cliutil.Fail("csvsql", tabkit.Wrap(tabkit.IoError, err, "reading input"))
	}

	tableName := *table
	if tableName == "" {
		tableName = tableNameFromPath(path)
	}

	dialect, ok := sqlproj.Lookup(*dialectName)
	if !ok {
		return cliutil.Fail("csvsql", tabkit.Newf(tabkit.FormatError, "unrecognized dialect %q", *dialectName))
	}

	lctx := common.LocaleContext()
	src, err := convert.FromCSV(raw, convert.Options{Delimiter: common.DelimiterByte(), Encoding: common.Encoding, SkipLines: common.SkipLines})
	if err != nil {
		return cliutil.Fail("csvsql", err)
	}

	schema, err := inferSchema(src, lctx)
	if err != nil {
		return cliutil.Fail("csvsql", err)
	}

	db, err := sql.Open(*driver, *dsn)
	if err != nil {
		return cliutil.Fail("csvsql", tabkit.Wrap(tabkit.IoError, err, "opening "+*driver))
	}
	defer db.Close()

	ctx := context.Background()
	if err := sqlproj.CreateAndLoad(ctx, db, dialect, tableName, src, schema, lctx); err != nil {
		return cliutil.Fail("csvsql", err)
	}
	common.Logf("loaded %d rows into %s", len(src.Rows), tableName)

	if *query == "" {
		return 0
	}

	result, err := sqlproj.ReadBack(ctx, db, *query)
	if err != nil {
		return cliutil.Fail("csvsql", tabkit.Wrap(tabkit.ValueError, err, "running query"))
	}
	if err := emit.CSV(os.Stdout, result, ','); err != nil {
		return cliutil.Fail("csvsql", err)
	}
	return 0
}

func inferSchema(table *cell.Table, lctx *locale.Context) ([]cell.ColumnSchema, error) {
	samples := make([][]string, table.NumCols())
	for i := range samples {
		samples[i] = table.Column(i)
	}
	results, err := infer.Columns(context.Background(), samples, lctx, nil)
	if err != nil {
		return nil, err
	}
	schema := make([]cell.ColumnSchema, len(results))
	for i, r := range results {
		schema[i] = cell.ColumnSchema{Name: table.Header[i], Kind: int(r.Kind), HasBlanks: r.HasBlanks, MaxPrecision: r.MaxPrecision, MaxTextLength: r.MaxTextLength}
	}
	return schema, nil
}

func tableNameFromPath(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
