package types

import (
	"testing"
	"time"

	"github.com/tabkit/tabkit/internal/locale"
)

func TestClassifyPrecedence(t *testing.T) {
	ctx := locale.Default()
	cases := []struct {
		raw  string
		want Kind
	}{
		{"", Null},
		{"na", Null},
		{"true", Bool},
		{"no", Bool},
		{"15:04:05", Timedelta},
		{"2024-01-02T15:04:05", DateTime},
		{"2024-01-02", Date},
		{"42", Number},
		{"3.14", Number},
		{"hello", Text},
	}
	for _, c := range cases {
		if got := Classify(c.raw, ctx); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestClassifyNoInferenceForcesText(t *testing.T) {
	ctx := locale.Default()
	ctx.NoInference = true
	if got := Classify("42", ctx); got != Text {
		t.Errorf("got %v, want Text with NoInference set", got)
	}
}

func TestDecodeNumberWasInt(t *testing.T) {
	ctx := locale.Default()
	tc, err := Decode("42", Number, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !tc.WasInt() || tc.Int != 42 {
		t.Errorf("got Int=%d WasInt=%v, want Int=42 WasInt=true", tc.Int, tc.WasInt())
	}
}

func TestDecodeNumberFractional(t *testing.T) {
	ctx := locale.Default()
	tc, err := Decode("3.50", Number, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tc.WasInt() {
		t.Error("3.50 should not take the integer path")
	}
	if tc.Precision != 2 {
		t.Errorf("got Precision=%d, want 2", tc.Precision)
	}
}

func TestDecodeRejectsMismatchedKind(t *testing.T) {
	ctx := locale.Default()
	if _, err := Decode("not a number", Number, ctx); err == nil {
		t.Error("expected a decode error for a non-numeric literal forced as Number")
	}
}

func TestDecodeNullShortCircuits(t *testing.T) {
	ctx := locale.Default()
	tc, err := Decode("na", Number, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tc.Kind != Null {
		t.Errorf("got Kind=%v, want Null", tc.Kind)
	}
}

func TestNoLeadingZeroesDemotesToText(t *testing.T) {
	ctx := locale.Default()
	ctx.NoLeadingZeroes = true
	if got := Classify("02139", ctx); got != Text {
		t.Errorf("Classify(%q) = %v, want Text under NoLeadingZeroes", "02139", got)
	}
	// A non-leading-zero number is unaffected.
	if got := Classify("2139", ctx); got != Number {
		t.Errorf("Classify(%q) = %v, want Number", "2139", got)
	}
}

func TestDecodeTimedeltaWordForm(t *testing.T) {
	ctx := locale.Default()
	tc, err := Decode("2 weeks, 3 days, 1 hour, 5 min 2.5s", Timedelta, ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := 2*7*24*time.Hour + 3*24*time.Hour + time.Hour + 5*time.Minute + 2500*time.Millisecond
	if tc.Duration != want {
		t.Errorf("got %v, want %v", tc.Duration, want)
	}
}

func TestDecodeTimedeltaColonForms(t *testing.T) {
	ctx := locale.Default()
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"5:30", 5*time.Minute + 30*time.Second},
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"2:01:02:03", 2*24*time.Hour + time.Hour + 2*time.Minute + 3*time.Second},
		{"0:00:01.500", 1500 * time.Millisecond},
	}
	for _, c := range cases {
		tc, err := Decode(c.raw, Timedelta, ctx)
		if err != nil {
			t.Fatalf("Decode(%q): %v", c.raw, err)
		}
		if tc.Duration != c.want {
			t.Errorf("Decode(%q).Duration = %v, want %v", c.raw, tc.Duration, c.want)
		}
	}
}

func TestTimedeltaUnitMustBeDescending(t *testing.T) {
	ctx := locale.Default()
	if _, err := Decode("5 min 2 hours", Timedelta, ctx); err == nil {
		t.Error("expected an error when a smaller unit precedes a larger one")
	}
}

func TestTimedeltaWordFormRejectsRepeatedUnit(t *testing.T) {
	ctx := locale.Default()
	if _, err := Decode("1 min 2 min", Timedelta, ctx); err == nil {
		t.Error("expected an error when the same unit category repeats")
	}
}

func TestResetClearsPayload(t *testing.T) {
	tc := TypedCell{Kind: Number, Float: 5, Int: 5}
	tc.Reset()
	if tc.Kind != Unknown || tc.Float != 0 || tc.Int != 0 {
		t.Error("Reset must zero the whole cell")
	}
}
