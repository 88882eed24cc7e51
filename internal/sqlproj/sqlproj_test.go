package sqlproj

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/convert"
	"github.com/tabkit/tabkit/internal/locale"
	"github.com/tabkit/tabkit/internal/types"
)

func TestDialectLookup(t *testing.T) {
	for _, name := range []string{"generic", "mysql", "postgresql", "postgres", "sqlite", "firebird", "oracle"} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("expected dialect %q to be known", name)
		}
	}
	if _, ok := Lookup("not-a-dialect"); ok {
		t.Error("expected unknown dialect to miss")
	}
}

func TestCreateTableDDL(t *testing.T) {
	table := &cell.Table{Header: []string{"id", "name"}}
	schema := []cell.ColumnSchema{{Kind: int(types.Number)}, {Kind: int(types.Text)}}
	ddl := CreateTableDDL(SQLite, "people", table, schema)
	if !strings.Contains(ddl, `"people"`) || !strings.Contains(ddl, `"id"`) {
		t.Fatalf("unexpected DDL: %s", ddl)
	}
}

func TestCreateTableDDLVarcharSizing(t *testing.T) {
	table := &cell.Table{Header: []string{"name"}}
	schema := []cell.ColumnSchema{{Kind: int(types.Text), MaxTextLength: 12}}
	ddl := CreateTableDDL(Generic, "people", table, schema)
	if !strings.Contains(ddl, "VARCHAR(12)") {
		t.Fatalf("expected VARCHAR sized from MaxTextLength, got: %s", ddl)
	}

	blank := []cell.ColumnSchema{{Kind: int(types.Text)}}
	ddl = CreateTableDDL(Generic, "people", table, blank)
	if !strings.Contains(ddl, "VARCHAR(1)") {
		t.Fatalf("expected a floor VARCHAR width for an all-blank column, got: %s", ddl)
	}
}

func TestCreateAndLoadSqlite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	table, err := convert.FromCSV([]byte("id,name,active\n1,alice,true\n2,bob,false\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	lctx := locale.Default()
	schema := []cell.ColumnSchema{
		{Kind: int(types.Number)},
		{Kind: int(types.Text)},
		{Kind: int(types.Bool)},
	}

	ctx := context.Background()
	if err := CreateAndLoad(ctx, db, SQLite, "people", table, schema, lctx); err != nil {
		t.Fatal(err)
	}

	result, err := ReadBack(ctx, db, "SELECT id, name FROM people ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows back, got %d", len(result.Rows))
	}
	if got := result.Rows[0][1].Decoded(result.Src); got != "alice" {
		t.Errorf("expected alice, got %q", got)
	}
}
