// Command sql2csv runs a query against a database/sql data source and
// prints the result as CSV, the read side of internal/sqlproj.
package main

import (
	"context"
	"database/sql"
	"flag"
	"io"
	"os"

	_ "modernc.org/sqlite"

	tabkit "github.com/tabkit/tabkit"
	"github.com/tabkit/tabkit/internal/cliutil"
	"github.com/tabkit/tabkit/internal/emit"
	"github.com/tabkit/tabkit/internal/sqlproj"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sql2csv", flag.ContinueOnError)
	common := cliutil.Register(fs)
	driver := fs.String("driver", "sqlite", "database/sql driver name (default: modernc.org/sqlite)")
	dsn := fs.String("db", "", "data source name / connection string")
	queryFile := fs.String("query-file", "", "path to a SQL file; default reads the query from stdin or the -query flag")
	query := fs.String("query", "", "SQL query text")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *dsn == "" {
		return cliutil.Fail("sql2csv", tabkit.New(tabkit.ValueError, "-db is required"))
	}

	sqlText, err := resolveQuery(*query, *queryFile)
	if err != nil {
		return cliutil.Fail("sql2csv", err)
	}

	db, err := sql.Open(*driver, *dsn)
	if err != nil {
		return cliutil.Fail("sql2csv", tabkit.Wrap(tabkit.IoError, err, "opening "+*driver))
	}
	defer db.Close()

	ctx := context.Background()
	result, err := sqlproj.ReadBack(ctx, db, sqlText)
	if err != nil {
		return cliutil.Fail("sql2csv", tabkit.Wrap(tabkit.ValueError, err, "running query"))
	}

	if err := emit.CSV(os.Stdout, result, ','); err != nil {
		return cliutil.Fail("sql2csv", err)
	}
	common.Logf("wrote %d rows", len(result.Rows))
	return 0
}

func resolveQuery(query, queryFile string) (string, error) {
	if query != "" {
		return query, nil
	}
	if queryFile != "" {
		b, err := os.ReadFile(queryFile)
		if err != nil {
			return "", tabkit.Wrap(tabkit.IoError, err, "reading "+queryFile)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", tabkit.Wrap(tabkit.IoError, err, "reading query from stdin")
	}
	return string(b), nil
}
