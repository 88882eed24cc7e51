package sortx

import (
	"context"
	"testing"

	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/convert"
	"github.com/tabkit/tabkit/internal/infer"
	"github.com/tabkit/tabkit/internal/locale"
)

func buildSchema(t *testing.T, table *cell.Table, lctx *locale.Context) []cell.ColumnSchema {
	t.Helper()
	samples := make([][]string, table.NumCols())
	for i := range samples {
		samples[i] = table.Column(i)
	}
	results, err := infer.Columns(context.Background(), samples, lctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	schema := make([]cell.ColumnSchema, len(results))
	for i, r := range results {
		schema[i] = cell.ColumnSchema{Kind: int(r.Kind), HasBlanks: r.HasBlanks, MaxPrecision: r.MaxPrecision}
	}
	return schema
}

func TestSortNumeric(t *testing.T) {
	table, err := convert.FromCSV([]byte("id,value\n3,c\n1,a\n2,b\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	lctx := locale.Default()
	schema := buildSchema(t, table, lctx)

	if err := Sort(table, []Key{{Column: "id"}}, schema, lctx); err != nil {
		t.Fatal(err)
	}
	got := []string{
		table.Rows[0][0].Decoded(table.Src),
		table.Rows[1][0].Decoded(table.Src),
		table.Rows[2][0].Decoded(table.Src),
	}
	want := []string{"1", "2", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSortDescending(t *testing.T) {
	table, err := convert.FromCSV([]byte("id\n1\n3\n2\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	lctx := locale.Default()
	schema := buildSchema(t, table, lctx)

	if err := Sort(table, []Key{{Column: "id", Descending: true}}, schema, lctx); err != nil {
		t.Fatal(err)
	}
	if table.Rows[0][0].Decoded(table.Src) != "3" {
		t.Fatalf("expected descending sort to put 3 first, got %v", table.Rows[0][0].Decoded(table.Src))
	}
}

func TestSortUnknownColumn(t *testing.T) {
	table, err := convert.FromCSV([]byte("id\n1\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	lctx := locale.Default()
	schema := buildSchema(t, table, lctx)
	if err := Sort(table, []Key{{Column: "nope"}}, schema, lctx); err == nil {
		t.Fatal("expected error for unknown column")
	}
}
