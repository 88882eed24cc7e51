// Package infer implements the Type Inference Engine (C3): deciding, for
// each column, the single Kind every non-null cell must validate against.
// Inference is strict by default — a column becomes Text the moment a
// single cell fails every more-specific kind ("one failing cell demotes
// the whole column"). A looser,
// vote-based FuzzyOptions path is offered for csvsort's -fuzzy flag,
// grounded on internal/importer/fuzzy.go's
// consistency-threshold heuristic.
package infer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tabkit/tabkit/internal/locale"
	"github.com/tabkit/tabkit/internal/types"
)

// ColumnResult is the decided schema for one column.
type ColumnResult struct {
	Kind         types.Kind
	HasBlanks    bool
	MaxPrecision int

	// MaxTextLength is the widest non-null raw value in the column, in
	// Unicode scalar values (runes, not bytes) — sqlproj sizes a dialect's
	// VARCHAR column from this instead of a fixed width.
	MaxTextLength int
}

// FuzzyOptions switches Columns into vote-based classification: a column is
// assigned the most specific kind that at least Threshold (0..1) of its
// non-null sampled cells parse as, instead of requiring unanimous
// agreement. Threshold 0 means "use the strict contract" (Columns ignores
// a nil *FuzzyOptions entirely).
type FuzzyOptions struct {
	Threshold float64
}

// Columns classifies every column of samples in parallel, one goroutine
// per column over an errgroup pool limited to runtime.GOMAXPROCS(0)
// concurrent columns. Results are
// written into a pre-sized slice indexed by column so there is no shared
// mutable state between goroutines and result order is deterministic
// regardless of completion order. The first error from any column is
// returned only after every column has finished: no early cancellation.
func Columns(ctx context.Context, samples [][]string, lctx *locale.Context, fuzzy *FuzzyOptions) ([]ColumnResult, error) {
	results := make([]ColumnResult, len(samples))
	var g errgroup.Group // no WithContext: every column must finish regardless of sibling errors
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range samples {
		i := i
		g.Go(func() error {
			r, err := classifyColumn(samples[i], lctx, fuzzy)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return results, ctx.Err()
	default:
	}
	return results, nil
}

func classifyColumn(values []string, lctx *locale.Context, fuzzy *FuzzyOptions) (ColumnResult, error) {
	if fuzzy != nil && fuzzy.Threshold > 0 {
		return classifyColumnFuzzy(values, lctx, fuzzy.Threshold), nil
	}
	return classifyColumnStrict(values, lctx), nil
}

// strictCandidates is the fixed attempt order from §4.3: a candidate kind
// succeeds iff every non-null cell in the column decodes under it. The
// first candidate that the whole column agrees on wins; Text is the
// universal fallback. This is deliberately NOT per-cell majority voting:
// a column like {"1", "2.5"} has "1" classify alone as Bool and "2.5" as
// Number, but the column-wide Number candidate matches both, so the
// column is Number, not Text.
var strictCandidates = []types.Kind{types.Bool, types.Timedelta, types.DateTime, types.Date, types.Number}

// classifyColumnStrict tries each candidate kind, in order, against every
// non-null value in the column, keeping the first one every value decodes
// under. A column with no non-null values matches every candidate
// vacuously and so becomes Bool (the first candidate) — the "all-blank
// column becomes Bool" tie-break from §4.3. Under NoInference every
// column (including all-null ones) is forced to Text instead, per the
// "No-inference mode" paragraph.
func classifyColumnStrict(values []string, lctx *locale.Context) ColumnResult {
	hasBlanks := false
	maxTextLength := 0
	for _, raw := range values {
		if lctx.IsNull(raw) {
			hasBlanks = true
			continue
		}
		if n := runeLen(raw); n > maxTextLength {
			maxTextLength = n
		}
	}

	if lctx.NoInference {
		return ColumnResult{Kind: types.Text, HasBlanks: hasBlanks, MaxTextLength: maxTextLength}
	}

	for _, k := range strictCandidates {
		allMatch := true
		for _, raw := range values {
			if lctx.IsNull(raw) {
				continue
			}
			if _, err := types.Decode(raw, k, lctx); err != nil {
				allMatch = false
				break
			}
		}
		if !allMatch {
			continue
		}
		result := ColumnResult{Kind: k, HasBlanks: hasBlanks, MaxTextLength: maxTextLength}
		if k == types.Number {
			maxPrecision := 0
			for _, raw := range values {
				if lctx.IsNull(raw) {
					continue
				}
				if _, _, prec, ok := numberPrecision(raw, lctx); ok && prec > maxPrecision {
					maxPrecision = prec
				}
			}
			result.MaxPrecision = maxPrecision
		}
		return result
	}
	return ColumnResult{Kind: types.Text, HasBlanks: hasBlanks, MaxTextLength: maxTextLength}
}

// numberPrecision re-decodes a Number cell just to recover its fractional
// digit count; classifyColumnStrict only needs this for Number columns, so
// the extra decode is cheap relative to re-running Classify per candidate
// kind.
func numberPrecision(raw string, lctx *locale.Context) (float64, int64, int, bool) {
	tc, err := types.Decode(raw, types.Number, lctx)
	if err != nil {
		return 0, 0, 0, false
	}
	return tc.Float, tc.Int, tc.Precision, true
}

// classifyColumnFuzzy picks the most specific kind meeting threshold of
// non-null votes, falling back to Text — grounded on
// internal/importer/fuzzy.go's fuzzyInferColumnTypes/fuzzyDetectType.
func classifyColumnFuzzy(values []string, lctx *locale.Context, threshold float64) ColumnResult {
	votes := map[types.Kind]int{}
	total := 0
	hasBlanks := false
	maxPrecision := 0
	maxTextLength := 0

	order := []types.Kind{types.Bool, types.Timedelta, types.DateTime, types.Date, types.Number}
	for _, raw := range values {
		if lctx.IsNull(raw) {
			hasBlanks = true
			continue
		}
		if n := runeLen(raw); n > maxTextLength {
			maxTextLength = n
		}
		total++
		// A cell votes for every kind it decodes under, so "1" counts
		// toward both Bool and Number.
		for _, k := range order {
			if _, err := types.Decode(raw, k, lctx); err != nil {
				continue
			}
			votes[k]++
			if k == types.Number {
				if _, _, prec, ok := numberPrecision(raw, lctx); ok && prec > maxPrecision {
					maxPrecision = prec
				}
			}
		}
	}
	if total == 0 || lctx.NoInference {
		return ColumnResult{Kind: types.Text, HasBlanks: hasBlanks, MaxTextLength: maxTextLength}
	}

	for _, k := range order {
		if float64(votes[k])/float64(total) >= threshold {
			return ColumnResult{Kind: k, HasBlanks: hasBlanks, MaxPrecision: maxPrecision, MaxTextLength: maxTextLength}
		}
	}
	return ColumnResult{Kind: types.Text, HasBlanks: hasBlanks, MaxTextLength: maxTextLength}
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
