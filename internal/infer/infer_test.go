package infer

import (
	"context"
	"testing"

	"github.com/tabkit/tabkit/internal/locale"
	"github.com/tabkit/tabkit/internal/types"
)

func TestColumnsStrict(t *testing.T) {
	lctx := locale.Default()
	samples := [][]string{
		{"1", "2", "3"},
		{"true", "false", "yes"},
		{"1", "two", "3"},
		{"", "", ""},
		{"2024-01-02", "2024-03-04", ""},
	}
	results, err := Columns(context.Background(), samples, lctx, nil)
	if err != nil {
		t.Fatalf("Columns error: %v", err)
	}
	want := []types.Kind{types.Number, types.Bool, types.Text, types.Bool, types.Date}
	for i, r := range results {
		if r.Kind != want[i] {
			t.Errorf("col %d: got %v, want %v", i, r.Kind, want[i])
		}
	}
	if !results[4].HasBlanks {
		t.Errorf("col 4 should have blanks")
	}
}

func TestColumnsPrecision(t *testing.T) {
	lctx := locale.Default()
	samples := [][]string{{"1.50", "2.125", "3"}}
	results, err := Columns(context.Background(), samples, lctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Kind != types.Number {
		t.Fatalf("expected Number, got %v", results[0].Kind)
	}
	if results[0].MaxPrecision != 3 {
		t.Errorf("expected max precision 3, got %d", results[0].MaxPrecision)
	}
}

func TestColumnsFuzzy(t *testing.T) {
	lctx := locale.Default()
	samples := [][]string{{"1", "2", "three", "4"}}
	strict, _ := Columns(context.Background(), samples, lctx, nil)
	if strict[0].Kind != types.Text {
		t.Fatalf("strict mode should demote to Text, got %v", strict[0].Kind)
	}
	fuzzy, _ := Columns(context.Background(), samples, lctx, &FuzzyOptions{Threshold: 0.7})
	if fuzzy[0].Kind != types.Number {
		t.Errorf("fuzzy mode at 0.7 threshold should keep Number, got %v", fuzzy[0].Kind)
	}
}

func TestColumnsAllBlank(t *testing.T) {
	// Spec §4.3 tie-break: an all-null column becomes Bool under normal
	// inference (the vacuous first candidate), matching §8 scenario 2
	// ("without --blanks, inferred as Bool column with all-null").
	lctx := locale.Default()
	samples := [][]string{{"", "", ""}}
	results, err := Columns(context.Background(), samples, lctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Kind != types.Bool {
		t.Errorf("all-blank column should default to Bool under inference, got %v", results[0].Kind)
	}
	if !results[0].HasBlanks {
		t.Error("expected HasBlanks true")
	}
}

func TestColumnsAllBlankNoInference(t *testing.T) {
	lctx := locale.Default()
	lctx.NoInference = true
	samples := [][]string{{"", "", ""}}
	results, err := Columns(context.Background(), samples, lctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Kind != types.Text {
		t.Errorf("all-blank column under no-inference should be Text, got %v", results[0].Kind)
	}
}
