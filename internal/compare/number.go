package compare

import (
	"math"
	"strconv"

	"github.com/tabkit/tabkit/internal/types"
)

// numberCompare orders floats with a single canonical NaN treated as
// greater than every other value (including +Inf) and equal to itself, so
// that sort.Slice's strict-weak-order requirement holds even when NaN
// values are present, so NaN sorts greater than every non-NaN value and
// hashes consistently with itself.
func numberCompare(a, b types.TypedCell) int {
	af, bf := a.Float, b.Float
	aNaN, bNaN := math.IsNaN(af), math.IsNaN(bf)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case af == bf:
		return 0
	case af < bf:
		return -1
	default:
		return 1
	}
}

// canonicalNumber renders a float for hashing such that all NaN payloads
// collapse to one canonical string (hash must agree with the NaN-equals-NaN
// compare rule above).
func canonicalNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
