// Package compare implements the Polymorphic Compare/Hash engine (C4): one
// Comparator per column Kind, chosen from a 4-way null-policy matrix
// (blanks x no-inference x has-blanks), ported from
// original_source/suite/include/cli-compare.h's common_compare_impl /
// bool_compare_impl / num_compare_impl / datetime_compare_impl /
// date_compare_impl / timedelta_compare_impl / text_compare_impl.
package compare

import (
	"hash/fnv"
	"strings"

	"github.com/tabkit/tabkit/internal/types"
)

// Options mirrors the three booleans that select a null policy in the
// original cli-compare.h table: NoInference is args.no_inference (-I),
// Blanks is args.blanks (--blanks), and HasBlanks is the column's own
// ColumnResult.HasBlanks.
type Options struct {
	NoInference bool
	Blanks      bool
	HasBlanks   bool
}

// Comparator bundles a type-aware Compare and a Hash consistent with it:
// Compare(a,b)==0 implies Hash(a)==Hash(b).
type Comparator struct {
	compareFn func(a, b types.TypedCell) int
	hashFn    func(a types.TypedCell) uint64
}

// Compare orders a and b; 0 means equal, <0 means a<b, >0 means a>b.
func (c Comparator) Compare(a, b types.TypedCell) int { return c.compareFn(a, b) }

// Hash returns a to a stable 64-bit digest consistent with Compare.
func (c Comparator) Hash(a types.TypedCell) uint64 { return c.hashFn(a) }

// New builds the Comparator for kind under the null policy selected by
// opts, following the same four-branch dispatch as
// cli-compare.h's common_compare_impl constructor:
//
//	!I && !hasBlanks           -> native compare (blanks collapse naturally)
//	!blanks && !I && hasBlanks -> nulls sort last, compare natively otherwise
//	!blanks && I && hasBlanks  -> nulls sort last, compare as text otherwise
//	otherwise (blanks)         -> compare as text, nulls included literally
func New(kind types.Kind, opts Options) Comparator {
	native := nativeCompare(kind)
	textual := textCompare

	var cmp func(a, b types.TypedCell) int
	switch {
	case !opts.NoInference && !opts.HasBlanks:
		cmp = native
	case !opts.Blanks && !opts.NoInference && opts.HasBlanks:
		cmp = nullsLast(native)
	case !opts.Blanks && opts.NoInference && opts.HasBlanks:
		cmp = nullsLast(textual)
	default:
		cmp = textual
	}

	return Comparator{compareFn: cmp, hashFn: hashFor(kind)}
}

func nullsLast(native func(a, b types.TypedCell) int) func(a, b types.TypedCell) int {
	return func(a, b types.TypedCell) int {
		aNull := a.Kind == types.Null
		bNull := b.Kind == types.Null
		switch {
		case aNull && bNull:
			return 0
		case aNull:
			return 1
		case bNull:
			return -1
		default:
			return native(a, b)
		}
	}
}

func textCompare(a, b types.TypedCell) int {
	return strings.Compare(canonicalText(a), canonicalText(b))
}

// canonicalText returns the raw decoded string backing t, for the
// blanks-mode and no-inference-fallback comparators. types.Decode
// populates Text for every kind, not just Text cells, specifically so this
// works regardless of t.Kind.
func canonicalText(t types.TypedCell) string {
	return t.Text
}

func nativeCompare(kind types.Kind) func(a, b types.TypedCell) int {
	switch kind {
	case types.Bool:
		return boolCompare
	case types.Timedelta:
		return timedeltaCompare
	case types.DateTime, types.Date:
		return timeCompare
	case types.Number:
		return numberCompare
	default:
		return textCompare
	}
}

func boolCompare(a, b types.TypedCell) int {
	switch {
	case a.Bool == b.Bool:
		return 0
	case !a.Bool:
		return -1
	default:
		return 1
	}
}

func timedeltaCompare(a, b types.TypedCell) int {
	switch {
	case a.Duration == b.Duration:
		return 0
	case a.Duration < b.Duration:
		return -1
	default:
		return 1
	}
}

func timeCompare(a, b types.TypedCell) int {
	switch {
	case a.Time.Equal(b.Time):
		return 0
	case a.Time.Before(b.Time):
		return -1
	default:
		return 1
	}
}

func hashFor(kind types.Kind) func(t types.TypedCell) uint64 {
	switch kind {
	case types.Bool:
		return func(t types.TypedCell) uint64 {
			if t.Bool {
				return 1
			}
			return 0
		}
	case types.Timedelta:
		return func(t types.TypedCell) uint64 { return fnvHash(int64Bytes(int64(t.Duration))) }
	case types.DateTime, types.Date:
		return func(t types.TypedCell) uint64 { return fnvHash(int64Bytes(t.Time.UnixNano())) }
	case types.Number:
		return func(t types.TypedCell) uint64 { return fnvHash([]byte(canonicalNumber(t.Float))) }
	default:
		return func(t types.TypedCell) uint64 { return fnvHash([]byte(canonicalText(t))) }
	}
}

func fnvHash(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

func int64Bytes(v int64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}
