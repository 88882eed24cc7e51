package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/tabkit/tabkit/internal/locale"
)

// scanNumber implements the number grammar: an optional sign, digits, at
// most one decimal point, at most one exponent, with leading and trailing
// whitespace trimmed (strings.TrimSpace) before the scan; internal
// whitespace is not skipped. Locale thousands separators are removed and the
// locale decimal point is normalized to '.' before strconv takes over.
// Currency symbols configured on the context are stripped from either end.
//
// Returns the float64 value, the exact int64 value when the literal has no
// fractional part or exponent (prec == 0), the number of digits after the
// decimal point (0 for integers), and whether raw is a valid number at
// all.
func scanNumber(raw string, ctx *locale.Context) (f float64, i int64, prec int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, 0, 0, false
	}

	if ctx.CurrencySymbol != "" {
		s = strings.TrimPrefix(s, ctx.CurrencySymbol)
		s = strings.TrimSuffix(s, ctx.CurrencySymbol)
		s = strings.TrimSpace(s)
	}

	// Leading-zero suppression (--no-leading-zeroes): a value whose first
	// significant character is '0' reverts to String rather than Number,
	// so zip codes and SKUs like "02139" don't get silently reparsed as 2139.
	if ctx.NoLeadingZeroes && len(s) > 0 && s[0] == '0' {
		return 0, 0, 0, false
	}

	if v, isNaNInf := specialFloat(s); isNaNInf {
		return v, 0, 1, true // prec=1 forces the float path, not the int path
	}

	normalized := normalizeLocaleNumber(s, ctx)
	if normalized == "" {
		return 0, 0, 0, false
	}

	if !looksLikeNumber(normalized) {
		return 0, 0, 0, false
	}

	prec = fractionDigits(normalized)
	if prec == 0 && !strings.ContainsAny(normalized, "eE") {
		if iv, err := strconv.ParseInt(normalized, 10, 64); err == nil {
			fv, _ := strconv.ParseFloat(normalized, 64)
			return fv, iv, 0, true
		}
	}

	fv, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, 0, 0, false
	}
	if prec == 0 {
		prec = 1 // has an exponent but no literal fraction digits: still a Number, not an Int path
	}
	return fv, 0, prec, true
}

// specialFloat recognizes NaN/Inf spellings case-insensitively, including
// the signed-word forms ("+Infinity") that strconv.ParseFloat rejects.
func specialFloat(s string) (float64, bool) {
	lower := strings.ToLower(s)
	switch lower {
	case "nan":
		return math.NaN(), true
	case "inf", "+inf", "infinity", "+infinity":
		return math.Inf(1), true
	case "-inf", "-infinity":
		return math.Inf(-1), true
	}
	return 0, false
}

// normalizeLocaleNumber strips thousands separators and converts the
// locale decimal point to '.'.
func normalizeLocaleNumber(s string, ctx *locale.Context) string {
	if ctx.ThousandsSep != 0 {
		s = strings.ReplaceAll(s, string(ctx.ThousandsSep), "")
	}
	dp := ctx.DecimalPoint
	if dp == 0 {
		dp = '.'
	}
	if dp != '.' {
		s = strings.ReplaceAll(s, string(dp), ".")
	}
	return s
}

func looksLikeNumber(s string) bool {
	i := 0
	n := len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	sawDigit := false
	sawPoint := false
	for i < n && (isDigit(s[i]) || s[i] == '.') {
		if s[i] == '.' {
			if sawPoint {
				return false
			}
			sawPoint = true
		} else {
			sawDigit = true
		}
		i++
	}
	if !sawDigit {
		return false
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigit := false
		for i < n && isDigit(s[i]) {
			expDigit = true
			i++
		}
		if !expDigit {
			return false
		}
	}
	return i == n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func fractionDigits(s string) int {
	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return 0
	}
	end := len(s)
	if e := strings.IndexAny(s, "eE"); e >= 0 {
		end = e
	}
	return end - idx - 1
}
