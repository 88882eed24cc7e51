package join

import (
	"testing"

	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/convert"
	"github.com/tabkit/tabkit/internal/locale"
)

func mustTable(t *testing.T, csv string) *cell.Table {
	t.Helper()
	tb, err := convert.FromCSV([]byte(csv), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func TestRenameHeaders(t *testing.T) {
	got := renameHeaders([]string{"id", "name"}, []string{"id", "name", "age"})
	want := []string{"id_2", "name_2", "age"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestInnerJoin(t *testing.T) {
	left := mustTable(t, "id,name\n1,alice\n2,bob\n")
	right := mustTable(t, "id,age\n1,30\n3,40\n")
	result, err := Reduce([]*cell.Table{left, right}, []ColumnSpec{{Column: "id"}, {Column: "id"}}, Inner, locale.Default())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 matching row, got %d", len(result.Rows))
	}
}

func TestLeftJoin(t *testing.T) {
	left := mustTable(t, "id,name\n1,alice\n2,bob\n")
	right := mustTable(t, "id,age\n1,30\n")
	result, err := Reduce([]*cell.Table{left, right}, []ColumnSpec{{Column: "id"}, {Column: "id"}}, Left, locale.Default())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows (bob unmatched kept), got %d", len(result.Rows))
	}
}

func TestUnion(t *testing.T) {
	// Spec §8 scenario 3: Union join of h1/abc, h2/abc,def, h3/,ghi.
	a := mustTable(t, "h1\nabc\n")
	b := mustTable(t, "h2\nabc\ndef\n")
	c := mustTable(t, "h3\n\nghi\n")
	result, err := Reduce([]*cell.Table{a, b, c}, nil, Union, locale.Default())
	if err != nil {
		t.Fatal(err)
	}
	wantHeader := []string{"h1", "h2", "h3"}
	for i, h := range wantHeader {
		if result.Header[i] != h {
			t.Fatalf("header[%d] = %q, want %q (header=%v)", i, result.Header[i], h, result.Header)
		}
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	row0 := []string{"abc", "abc", ""}
	row1 := []string{"", "def", "ghi"}
	for i, want := range row0 {
		if got := result.Rows[0][i].Decoded(result.Src); got != want {
			t.Fatalf("row0[%d] = %q, want %q", i, got, want)
		}
	}
	for i, want := range row1 {
		if got := result.Rows[1][i].Decoded(result.Src); got != want {
			t.Fatalf("row1[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestInnerJoinNumericKeyNormalization(t *testing.T) {
	// "02" and "2" are the same Number join key once both columns infer
	// as Number, even though their decoded text differs byte-for-byte.
	left := mustTable(t, "id,name\n02,alice\n")
	right := mustTable(t, "id,age\n2,30\n")
	result, err := Reduce([]*cell.Table{left, right}, []ColumnSpec{{Column: "id"}, {Column: "id"}}, Inner, locale.Default())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 matching row under numeric key normalization, got %d", len(result.Rows))
	}
}

func TestOuterJoinKeepsUnmatchedKey(t *testing.T) {
	// Spec §8 scenario 5: Outer(a,b) of a,b/1,x/2,y ⋈ a,c/2,z/3,w yields
	// 1,x, / 2,y,z / 3,,w — the right-only row must still carry its key.
	left := mustTable(t, "a,b\n1,x\n2,y\n")
	right := mustTable(t, "a,c\n2,z\n3,w\n")
	result, err := Reduce([]*cell.Table{left, right}, []ColumnSpec{{Column: "a"}, {Column: "a"}}, Outer, locale.Default())
	if err != nil {
		t.Fatal(err)
	}
	wantHeader := []string{"a", "b", "c"}
	for i, h := range wantHeader {
		if result.Header[i] != h {
			t.Fatalf("header = %v, want %v", result.Header, wantHeader)
		}
	}
	if len(result.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(result.Rows))
	}
	want := [][]string{
		{"1", "x", ""},
		{"2", "y", "z"},
		{"3", "", "w"},
	}
	for ri, wantRow := range want {
		for ci, want := range wantRow {
			if got := result.Rows[ri][ci].Decoded(result.Src); got != want {
				t.Fatalf("row %d col %d = %q, want %q (row=%v)", ri, ci, got, want, result.Rows[ri])
			}
		}
	}
}

func TestHeaderCollisionJoin(t *testing.T) {
	left := mustTable(t, "id,value\n1,a\n")
	right := mustTable(t, "id,value\n1,b\n")
	result, err := Reduce([]*cell.Table{left, right}, []ColumnSpec{{Column: "id"}, {Column: "id"}}, Inner, locale.Default())
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, h := range result.Header {
		if h == "value_2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected renamed collision column value_2, got %v", result.Header)
	}
}
