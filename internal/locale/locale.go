// Package locale holds the explicit parse context (null values, boolean
// literals, date/time formats, and number formatting) that the type decoder
// and inference engine need. There is no process-wide singleton: every
// caller constructs and threads its own *Context, per the redesign note that
// calls for eliminating implicit global state.
package locale

// Context bundles every locale-dependent parsing rule used by
// internal/types and internal/infer.
type Context struct {
	// NullValues is the set of raw strings (already lower-cased, already
	// trimmed) that denote a missing value. The empty string is always
	// treated as null regardless of this set's contents.
	NullValues []string

	// TrueLiterals / FalseLiterals are the accepted case-insensitive
	// spellings for boolean cells.
	TrueLiterals  []string
	FalseLiterals []string

	// DateFormats / DateTimeFormats are Go reference-time layouts tried in
	// order. Timedelta literals are not layout-driven (see
	// internal/types.parseTimedelta's word-form/colon-form lexer).
	DateFormats     []string
	DateTimeFormats []string

	// DecimalPoint / ThousandsSep normalize locale-formatted numbers to the
	// C-locale form strconv expects. CurrencySymbol, if non-empty, is
	// stripped from the front or back of a numeric literal before parsing.
	DecimalPoint   byte
	ThousandsSep   byte
	CurrencySymbol string

	// NoInference (--no-inference / -I) disables type inference
	// entirely: every column is Text.
	NoInference bool

	// Blanks (--blanks) keeps the literal blank cell distinct from
	// NullValues-driven nulls in the compare/hash null-policy matrix.
	Blanks bool

	// NoLeadingZeroes (--no-leading-zeroes) demotes a would-be Number cell
	// back to String when its first significant character is '0'.
	NoLeadingZeroes bool
}

// DefaultNullValues is the default NullValueSet: "", NA, N/A, NONE, NULL, ".".
var DefaultNullValues = []string{
	"", "na", "n/a", "none", "null", ".",
}

var defaultTrue = []string{"true", "yes", "1"}
var defaultFalse = []string{"false", "no", "0"}

var defaultDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
}

var defaultDateTimeFormats = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02T15:04:05.999999999Z07:00",
}

// Default returns a Context with the historical csvkit defaults: the
// standard null spellings, true/false/yes/no/1/0 booleans, ISO-ish date and
// datetime formats, '.' decimal point, no thousands separator, inference
// enabled, blanks folded into null.
func Default() *Context {
	return &Context{
		NullValues:      append([]string(nil), DefaultNullValues...),
		TrueLiterals:    append([]string(nil), defaultTrue...),
		FalseLiterals:   append([]string(nil), defaultFalse...),
		DateFormats:     append([]string(nil), defaultDateFormats...),
		DateTimeFormats: append([]string(nil), defaultDateTimeFormats...),
		DecimalPoint:    '.',
	}
}

// IsNull reports whether raw (already whitespace-trimmed by the caller)
// should be treated as a null cell under this context's policy.
func (c *Context) IsNull(raw string) bool {
	if raw == "" {
		return true
	}
	if c.Blanks {
		// --blanks: only the empty string counts as null.
		return false
	}
	lower := toLower(raw)
	for _, nv := range c.NullValues {
		if lower == toLower(nv) {
			return true
		}
	}
	return false
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
