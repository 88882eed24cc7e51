// Package types implements the Typed Value Decoder (C2): classification of
// a single raw cell string into a Kind, plus the decoded payload for each
// kind. Classification is a pure function of the string and a
// *locale.Context; no column-level state lives here — internal/infer is the
// only caller that aggregates per-cell classifications into a column
// verdict.
package types

// Kind enumerates the column/cell types, ordered exactly as the
// classification precedence requires: Null is most specific, Text is the
// catch-all.
type Kind int

const (
	Unknown Kind = iota
	Null
	Bool
	Timedelta
	DateTime
	Date
	Number
	Text
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Timedelta:
		return "Timedelta"
	case DateTime:
		return "DateTime"
	case Date:
		return "Date"
	case Number:
		return "Number"
	case Text:
		return "Text"
	default:
		return "Unknown"
	}
}
