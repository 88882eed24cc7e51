package types

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tabkit/tabkit/internal/locale"
)

func parseDateTime(raw string, ctx *locale.Context) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range ctx.DateTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDate(raw string, ctx *locale.Context) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range ctx.DateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// colonForm matches only digits, dots, and colons, rejecting anything that
// also looks like a word-form literal (reader-bridge-impl.hpp's time_parser
// bails out whenever a colon form also contains a unit letter).
var colonForm = regexp.MustCompile(`^\d+(:\d+){1,3}(\.\d+)?$`)

// timedeltaUnit is one word-form lexer category, tried in descending
// magnitude order exactly like time_parser's sym_deq so "5 min 2s" accepts
// but "2s 5 min" does not (a smaller unit cannot be followed by a larger
// one).
type timedeltaUnit struct {
	seconds float64
	names   []string
}

var timedeltaUnits = []timedeltaUnit{
	{604800, []string{"weeks", "week", "wk", "w"}},
	{86400, []string{"days", "day", "d"}},
	{3600, []string{"hours", "hour", "hrs", "hr", "h"}},
	{60, []string{"minutes", "minute", "mins", "min", "m"}},
	{1, []string{"seconds", "second", "secs", "sec", "s"}},
}

// timedeltaToken splits "2 weeks, 3 days, 1 hour, 5 min 2.5s" into
// alternating number/word tokens, treating whitespace and commas as
// separators (a unit may also abut its number directly, "5min").
var timedeltaToken = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)

// parseTimedelta recognizes both the word-form duration literal ("2 weeks,
// 3 days, 1 hour, 5 min 2.5s") and the colon-separated d:h:m:s / h:m:s / m:s
// forms (with an optional fractional-second suffix on the final part), per
// §4.2, converting either to a time.Duration. It deliberately does not
// accept bare dates that happen to also match a time.Parse layout — the
// classification order relies on Timedelta being tried strictly before
// DateTime/Date so an ambiguous literal like "10:30" resolves as a duration,
// not a time-of-day.
func parseTimedelta(raw string, ctx *locale.Context) (time.Duration, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = strings.TrimSpace(s[1:])
	}

	var total float64
	var ok bool
	if colonForm.MatchString(s) {
		total, ok = parseColonTimedelta(s)
	} else {
		total, ok = parseWordTimedelta(s)
	}
	if !ok {
		return 0, false
	}

	d := time.Duration(total * float64(time.Second))
	if neg {
		d = -d
	}
	return d, true
}

// parseColonTimedelta handles m:s, h:m:s, and d:h:m:s, where the last part
// may carry a fractional-second suffix.
func parseColonTimedelta(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	multipliers := []float64{86400, 3600, 60, 1}
	multipliers = multipliers[len(multipliers)-len(parts):]

	var total float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		total += v * multipliers[i]
	}
	return total, true
}

// parseWordTimedelta handles the "2 weeks, 3 days, 1 hour, 5 min 2.5s"
// literal: each (number, unit) pair is matched in turn, with each unit
// category (w/d/h/m/s) usable at most once and only in descending order.
func parseWordTimedelta(s string) (float64, bool) {
	matches := timedeltaToken.FindAllStringSubmatch(s, -1)
	if matches == nil {
		return 0, false
	}
	// Reject leftover characters the token regexp didn't account for: only
	// spaces, tabs and commas may remain between tokens.
	stripped := timedeltaToken.ReplaceAllString(s, "")
	if strings.Trim(stripped, " \t,") != "" {
		return 0, false
	}

	var total float64
	unitIdx := 0
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		word := strings.ToLower(m[2])

		found := false
		for unitIdx < len(timedeltaUnits) {
			u := timedeltaUnits[unitIdx]
			unitIdx++
			for _, name := range u.names {
				if name == word {
					total += v * u.seconds
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return total, true
}
