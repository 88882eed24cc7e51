package clean

import (
	"testing"

	"github.com/tabkit/tabkit/internal/convert"
)

func TestCleanStrictRejectsRagged(t *testing.T) {
	table, err := convert.FromCSV([]byte("a,b,c\n1,2,3\n4,5\n6,7,8,9\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	report := Clean(table, Options{})
	if len(report.ValidRows) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(report.ValidRows))
	}
	if len(report.InvalidRows) != 2 {
		t.Fatalf("expected 2 invalid rows, got %d", len(report.InvalidRows))
	}
	if report.InvalidRows[0].LineNumber != 3 {
		t.Errorf("expected line number 3, got %d", report.InvalidRows[0].LineNumber)
	}
}

func TestCleanCoerceRagged(t *testing.T) {
	table, err := convert.FromCSV([]byte("a,b,c\n1,2,3\n4,5\n6,7,8,9\n"), convert.Options{})
	if err != nil {
		t.Fatal(err)
	}
	report := Clean(table, Options{CoerceRagged: true})
	if len(report.ValidRows) != 3 {
		t.Fatalf("expected all 3 rows coerced to valid, got %d", len(report.ValidRows))
	}
	if len(report.InvalidRows) != 0 {
		t.Fatalf("expected 0 invalid rows in coerce mode, got %d", len(report.InvalidRows))
	}
}
