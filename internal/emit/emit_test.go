package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tabkit/tabkit/internal/convert"
)

func TestCSVRoundTrip(t *testing.T) {
	table, err := convert.FromCSV([]byte("a,b\n1,\"x,y\"\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := CSV(&buf, table, ','); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"x,y"`) {
		t.Fatalf("expected quoted field with embedded delimiter, got %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	table, err := convert.FromCSV([]byte("a,b\n1,2\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := JSON(&buf, table); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"a": "1"`) {
		t.Fatalf("unexpected JSON output: %s", buf.String())
	}
}

func TestGeoJSONOutput(t *testing.T) {
	table, err := convert.FromCSV([]byte("lon,lat,name\n1.5,2.5,a\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := GeoJSON(&buf, table, "lon", "lat"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "FeatureCollection") || !strings.Contains(out, `"name":"a"`) {
		t.Fatalf("unexpected GeoJSON output: %s", out)
	}
}
