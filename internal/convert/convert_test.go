package convert

import (
	"strings"
	"testing"
	"time"
)

func TestFromCSVBasic(t *testing.T) {
	table, err := FromCSV([]byte("a,b,c\n1,2,3\n4,5,6\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Header) != 3 || table.Header[0] != "a" {
		t.Fatalf("unexpected header: %v", table.Header)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestFromCSVNoHeader(t *testing.T) {
	table, err := FromCSV([]byte("1,2,3\n4,5,6\n"), Options{NoHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(table.Header, ",") != "a,b,c" {
		t.Fatalf("expected generated letter header a,b,c, got %v", table.Header)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows when no header, got %d", len(table.Rows))
	}
}

func TestLetterNames(t *testing.T) {
	names := letterNames(28)
	if names[0] != "a" || names[25] != "z" || names[26] != "aa" || names[27] != "ab" {
		t.Fatalf("unexpected letter names: %v", names[:5])
	}
}

func TestFromFixedWidth(t *testing.T) {
	schema := []byte("column,start,length\nname,0,5\nage,5,3\n")
	cols, err := ParseFixedWidthSchema(schema)
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("alice 30\nbob    7\n")
	table, err := FromFixedWidth(data, cols, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if table.Header[0] != "name" || table.Header[1] != "age" {
		t.Fatalf("unexpected header: %v", table.Header)
	}
	if got := table.Rows[0][0].Decoded(table.Src); got != "alice" {
		t.Errorf("expected 'alice', got %q", got)
	}
}

func TestFromJSON(t *testing.T) {
	raw := []byte(`[{"a":1,"b":"x"},{"a":2,"c":"y"}]`)
	table, err := FromJSON(raw, JSONOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(table.Header, ",") != "a,b,c" {
		t.Fatalf("expected ordered union header a,b,c, got %v", table.Header)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestFromJSONWithKey(t *testing.T) {
	raw := []byte(`{"results":[{"a":1},{"a":2}],"meta":{}}`)
	table, err := FromJSON(raw, JSONOptions{Key: "results"})
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows from nested key, got %d", len(table.Rows))
	}
}

func TestFromNDJSON(t *testing.T) {
	raw := []byte("{\"a\":1}\n{\"a\":2}\n\n{\"a\":3}\n")
	table, err := FromNDJSON(raw, JSONOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows (blank line skipped), got %d", len(table.Rows))
	}
}

func TestFromGeoJSONFeatureCollection(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"name":"a"},"geometry":{"type":"Point","coordinates":[1.5,2.5]}},
		{"type":"Feature","properties":{"name":"b"},"geometry":{"type":"Point","coordinates":[3,4]}}
	]}`)
	table, err := FromGeoJSON(raw, Options{})
	if err != nil {
		t.Fatal(err)
	}
	foundLon := false
	for _, h := range table.Header {
		if h == "longitude" {
			foundLon = true
		}
	}
	if !foundLon {
		t.Fatalf("expected longitude column for Point geometries, got %v", table.Header)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestExcelSerialToTime(t *testing.T) {
	// Serial 1 is Jan 1 1900 in Excel's (buggy) 1900 system.
	got := excelSerialToTime(1, false)
	want := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("serial 1 (pre-bug range): got %v, want %v", got, want)
	}

	// Serial 61 is March 1 1900 (post-leap-bug range): Excel's phantom
	// Feb 29 1900 is absorbed, so the post-60 epoch shifts back one day.
	got = excelSerialToTime(61, false)
	want = time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("serial 61 (post-bug range): got %v, want %v", got, want)
	}

	got1904 := excelSerialToTime(0, true)
	want1904 := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got1904.Equal(want1904) {
		t.Errorf("1904 epoch: got %v, want %v", got1904, want1904)
	}
}

func TestResolveColumnIdentifiers(t *testing.T) {
	header := []string{"id", "created", "updated"}

	byName, err := resolveColumnIdentifiers("created,updated", header)
	if err != nil {
		t.Fatal(err)
	}
	if !byName[1] || !byName[2] || byName[0] {
		t.Errorf("got %v, want columns 1 and 2 selected", byName)
	}

	byIndex, err := resolveColumnIdentifiers("2", header)
	if err != nil {
		t.Fatal(err)
	}
	if !byIndex[1] {
		t.Errorf("1-based index 2 should select 0-based column 1, got %v", byIndex)
	}

	empty, err := resolveColumnIdentifiers("none", header)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("\"none\" should select no columns, got %v", empty)
	}

	if _, err := resolveColumnIdentifiers("nope", header); err == nil {
		t.Error("expected an error for an unknown column name")
	}
}

func TestProjectExcelSerial(t *testing.T) {
	dateCols := map[int]bool{1: true}
	dtCols := map[int]bool{2: true}

	if got := projectExcelSerial("61", 1, dateCols, dtCols, false); got != "1900-03-01" {
		t.Errorf("date projection: got %q, want 1900-03-01", got)
	}
	if got := projectExcelSerial("61.5", 2, dateCols, dtCols, false); got != "1900-03-01T12:00:00" {
		t.Errorf("datetime projection: got %q, want 1900-03-01T12:00:00", got)
	}
	if got := projectExcelSerial("hello", 1, dateCols, dtCols, false); got != "hello" {
		t.Errorf("non-numeric cell should pass through unchanged, got %q", got)
	}
	if got := projectExcelSerial("61", 0, dateCols, dtCols, false); got != "61" {
		t.Errorf("column not in either set should pass through unchanged, got %q", got)
	}
}
