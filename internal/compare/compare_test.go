package compare

import (
	"math"
	"testing"

	"github.com/tabkit/tabkit/internal/types"
)

func num(f float64) types.TypedCell { return types.TypedCell{Kind: types.Number, Float: f} }
func null() types.TypedCell         { return types.TypedCell{Kind: types.Null} }
func text(s string) types.TypedCell { return types.TypedCell{Kind: types.Text, Text: s} }

func TestNativeCompareNoBlanks(t *testing.T) {
	c := New(types.Number, Options{})
	if c.Compare(num(1), num(2)) >= 0 {
		t.Error("expected 1 < 2")
	}
	if c.Compare(num(2), num(2)) != 0 {
		t.Error("expected 2 == 2")
	}
}

func TestNullsLastPolicy(t *testing.T) {
	c := New(types.Number, Options{HasBlanks: true})
	if c.Compare(null(), num(1)) <= 0 {
		t.Error("null should sort after non-null")
	}
	if c.Compare(num(1), null()) >= 0 {
		t.Error("non-null should sort before null")
	}
	if c.Compare(null(), null()) != 0 {
		t.Error("null should equal null")
	}
}

func TestBlanksPolicyUsesText(t *testing.T) {
	c := New(types.Number, Options{Blanks: true, HasBlanks: true})
	a := types.TypedCell{Kind: types.Null, Text: ""}
	b := types.TypedCell{Kind: types.Number, Text: "5", Float: 5}
	if c.Compare(a, b) == 0 {
		t.Error("blanks policy should not silently equate null and 5")
	}
}

func TestNaNOrdering(t *testing.T) {
	c := New(types.Number, Options{})
	nan1 := num(math.NaN())
	nan2 := num(math.NaN())
	if c.Compare(nan1, nan2) != 0 {
		t.Error("NaN should equal NaN for stable sort ordering")
	}
	if c.Compare(nan1, num(1)) <= 0 {
		t.Error("NaN should sort greater than ordinary numbers")
	}
	if c.Hash(nan1) != c.Hash(nan2) {
		t.Error("hash must agree with compare for NaN")
	}
}

func TestHashConsistency(t *testing.T) {
	c := New(types.Text, Options{})
	a := text("hello")
	b := text("hello")
	if c.Compare(a, b) != 0 {
		t.Fatal("expected equal")
	}
	if c.Hash(a) != c.Hash(b) {
		t.Error("equal values must hash equal")
	}
}

func TestBoolCompare(t *testing.T) {
	c := New(types.Bool, Options{})
	tr := types.TypedCell{Kind: types.Bool, Bool: true}
	fl := types.TypedCell{Kind: types.Bool, Bool: false}
	if c.Compare(fl, tr) >= 0 {
		t.Error("false should sort before true")
	}
}
