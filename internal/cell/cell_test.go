package cell

import "testing"

func TestCellDecodedUnquoted(t *testing.T) {
	src := []byte("hello,world")
	c := Cell{Start: 0, End: 5}
	if got := c.Decoded(src); got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCellDecodedQuoted(t *testing.T) {
	src := []byte(`"say ""hi"""`)
	c := Cell{Start: 0, End: len(src), Quoted: true}
	if got := c.Decoded(src); got != `say "hi"` {
		t.Errorf("got %q, want %q", got, `say "hi"`)
	}
}

func TestCellDecodedQuotedNoEscapes(t *testing.T) {
	src := []byte(`"plain"`)
	c := Cell{Start: 0, End: len(src), Quoted: true}
	if got := c.Decoded(src); got != "plain" {
		t.Errorf("got %q, want %q", got, "plain")
	}
}

func TestCellRawIncludesQuotes(t *testing.T) {
	src := []byte(`"quoted"`)
	c := Cell{Start: 0, End: len(src), Quoted: true}
	if got := string(c.Raw(src)); got != `"quoted"` {
		t.Errorf("got %q, want raw with quotes intact", got)
	}
}

func TestTableNumCols(t *testing.T) {
	tbl := &Table{Header: []string{"a", "b", "c"}}
	if tbl.NumCols() != 3 {
		t.Errorf("got %d, want 3", tbl.NumCols())
	}
}

func TestTableColumn(t *testing.T) {
	src := []byte("1,2\n3,4\n")
	tbl := &Table{
		Src:    src,
		Header: []string{"a", "b"},
		Rows: []Row{
			{{Start: 0, End: 1}, {Start: 2, End: 3}},
			{{Start: 4, End: 5}, {Start: 6, End: 7}},
		},
	}
	got := tbl.Column(0)
	want := []string{"1", "3"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTableColumnShortRow(t *testing.T) {
	// A row with fewer cells than the header (ragged input not yet cleaned)
	// yields a zero Cell, which decodes to the empty string rather than
	// panicking on an out-of-range index.
	tbl := &Table{
		Src:    []byte("1"),
		Header: []string{"a", "b"},
		Rows:   []Row{{{Start: 0, End: 1}}},
	}
	got := tbl.Column(1)
	if len(got) != 1 || got[0] != "" {
		t.Errorf("got %v, want [\"\"]", got)
	}
}
