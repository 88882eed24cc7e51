package types

import (
	"strings"
	"time"

	"github.com/tabkit/tabkit/internal/locale"
)

// TypedCell is the decoded form of a single cell, produced by Decode. The
// payload field matching Kind holds the value; for every non-null kind
// Text also holds the raw literal. Reset clears the decoded payload so a
// cell can be decoded against a different column verdict (e.g. after an
// outer join widens a column to Text).
type TypedCell struct {
	Kind      Kind
	Bool      bool
	Int       int64
	Float     float64
	Time      time.Time
	Duration  time.Duration
	Precision int // number of digits after the decimal point, for Number cells
	Text      string
	wasInt    bool // Number cells that parsed via the integer path; read through WasInt
}

// WasInt reports whether a Number cell's raw literal had no decimal point
// or exponent (so Int holds an exact value as well as Float).
func (t TypedCell) WasInt() bool { return t.wasInt }

// Reset clears a TypedCell back to Unknown so it can be re-resolved.
func (t *TypedCell) Reset() { *t = TypedCell{} }

// Classify determines the most specific Kind that raw parses as, following
// the fixed precedence Null -> Bool -> Timedelta -> DateTime -> Date ->
// Number -> Text. raw is NOT trimmed by Classify; callers pass the cell's
// already-whitespace-stripped raw text since the decoder's own edge-space
// stripping rules only apply inside Number (leading and trailing
// whitespace around the numeric token is trimmed).
func Classify(raw string, ctx *locale.Context) Kind {
	if ctx.IsNull(raw) {
		return Null
	}
	if ctx.NoInference {
		return Text
	}
	if isBool(raw, ctx) {
		return Bool
	}
	if _, ok := parseTimedelta(raw, ctx); ok {
		return Timedelta
	}
	if _, ok := parseDateTime(raw, ctx); ok {
		return DateTime
	}
	if _, ok := parseDate(raw, ctx); ok {
		return Date
	}
	if _, _, _, ok := scanNumber(raw, ctx); ok {
		return Number
	}
	return Text
}

// Decode fully resolves a TypedCell for the given forced
// kind (normally the column's already-decided schema kind, not the result
// of re-running Classify). Decode never falls back silently: if raw cannot
// be parsed as kind, it returns an error — callers with a strict-mode
// contract (types must validate after a column kind is picked) should treat
// this as a bug in the inference step, not a recoverable condition.
// For every non-null kind, Text on the returned TypedCell holds raw (a
// null cell comes back as TypedCell{Kind: Null} with an empty Text): the
// blanks-mode comparator (internal/compare) falls back to textual
// comparison even for numeric/date/timedelta columns, and it reads this
// field rather than re-deriving a string from the typed payload.
func Decode(raw string, kind Kind, ctx *locale.Context) (TypedCell, error) {
	if kind == Null || ctx.IsNull(raw) {
		return TypedCell{Kind: Null}, nil
	}
	switch kind {
	case Bool:
		b, ok := parseBoolValue(raw, ctx)
		if !ok {
			return TypedCell{}, &decodeError{kind, raw}
		}
		return TypedCell{Kind: Bool, Bool: b, Text: raw}, nil
	case Timedelta:
		d, ok := parseTimedelta(raw, ctx)
		if !ok {
			return TypedCell{}, &decodeError{kind, raw}
		}
		return TypedCell{Kind: Timedelta, Duration: d, Text: raw}, nil
	case DateTime:
		t, ok := parseDateTime(raw, ctx)
		if !ok {
			return TypedCell{}, &decodeError{kind, raw}
		}
		return TypedCell{Kind: DateTime, Time: t, Text: raw}, nil
	case Date:
		t, ok := parseDate(raw, ctx)
		if !ok {
			return TypedCell{}, &decodeError{kind, raw}
		}
		return TypedCell{Kind: Date, Time: t, Text: raw}, nil
	case Number:
		f, i, prec, ok := scanNumber(raw, ctx)
		if !ok {
			return TypedCell{}, &decodeError{kind, raw}
		}
		return TypedCell{Kind: Number, Float: f, Int: i, Precision: prec, wasInt: prec == 0, Text: raw}, nil
	default:
		return TypedCell{Kind: Text, Text: raw}, nil
	}
}

type decodeError struct {
	kind Kind
	raw  string
}

func (e *decodeError) Error() string {
	return "cannot decode " + quote(e.raw) + " as " + e.kind.String()
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
	return b.String()
}

func isBool(raw string, ctx *locale.Context) bool {
	_, ok := parseBoolValue(raw, ctx)
	return ok
}

func parseBoolValue(raw string, ctx *locale.Context) (bool, bool) {
	lower := strings.ToLower(raw)
	for _, t := range ctx.TrueLiterals {
		if lower == strings.ToLower(t) {
			return true, true
		}
	}
	for _, f := range ctx.FalseLiterals {
		if lower == strings.ToLower(f) {
			return false, true
		}
	}
	return false, false
}
