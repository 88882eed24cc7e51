// Package sortx implements the Sorter (C8 sorter half): a multi-key stable
// sort composed from per-column compare.Comparators. For large inputs the
// key cells are decoded in parallel over golang.org/x/sync/errgroup,
// reusing C3's goroutine-pool idiom (internal/infer.Columns); the sort
// itself is a single sequential sort.SliceStable pass.
package sortx

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/compare"
	"github.com/tabkit/tabkit/internal/locale"
	"github.com/tabkit/tabkit/internal/types"
)

// Key names one sort column and its direction.
type Key struct {
	Column     string
	Descending bool
}

// parallelThreshold is the row count at or above which Sort decodes the key
// cells in concurrent chunks; below it they are decoded sequentially. The
// comparison sort runs in a single goroutine either way.
const parallelThreshold = 50_000

// Sort reorders table.Rows in place according to keys, decoding each key
// column's cells against schema (one ColumnSchema per table column, in
// table column order) to get type-aware ordering from internal/compare
// instead of raw byte comparison.
func Sort(table *cell.Table, keys []Key, schema []cell.ColumnSchema, lctx *locale.Context) error {
	if len(table.Rows) <= 1 || len(keys) == 0 {
		return nil
	}

	keyIdx := make([]int, len(keys))
	comparators := make([]compare.Comparator, len(keys))
	for i, k := range keys {
		idx := colIndex(table.Header, k.Column)
		if idx < 0 {
			return &unknownColumnError{k.Column}
		}
		keyIdx[i] = idx
		cs := schema[idx]
		comparators[i] = compare.New(types.Kind(cs.Kind), compare.Options{
			NoInference: lctx.NoInference,
			Blanks:      lctx.Blanks,
			HasBlanks:   cs.HasBlanks,
		})
	}

	decoded := make([][]types.TypedCell, len(table.Rows))
	if len(table.Rows) >= parallelThreshold {
		if err := decodeParallel(table, keyIdx, schema, lctx, decoded); err != nil {
			return err
		}
	} else {
		decodeSequential(table, keyIdx, schema, lctx, decoded)
	}

	less := func(i, j int) bool {
		for k := range keys {
			c := comparators[k].Compare(decoded[i][k], decoded[j][k])
			if c == 0 {
				continue
			}
			if keys[k].Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	}

	order := make([]int, len(table.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return less(order[a], order[b]) })

	newRows := make([]cell.Row, len(table.Rows))
	for i, idx := range order {
		newRows[i] = table.Rows[idx]
	}
	table.Rows = newRows
	return nil
}

func decodeSequential(table *cell.Table, keyIdx []int, schema []cell.ColumnSchema, lctx *locale.Context, out [][]types.TypedCell) {
	for i, row := range table.Rows {
		out[i] = decodeRowKeys(row, table.Src, keyIdx, schema, lctx)
	}
}

func decodeParallel(table *cell.Table, keyIdx []int, schema []cell.ColumnSchema, lctx *locale.Context, out [][]types.TypedCell) error {
	const chunks = 8
	n := len(table.Rows)
	chunkSize := (n + chunks - 1) / chunks

	var g errgroup.Group
	for c := 0; c < chunks; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = decodeRowKeys(table.Rows[i], table.Src, keyIdx, schema, lctx)
			}
			return nil
		})
	}
	return g.Wait()
}

func decodeRowKeys(row cell.Row, src []byte, keyIdx []int, schema []cell.ColumnSchema, lctx *locale.Context) []types.TypedCell {
	out := make([]types.TypedCell, len(keyIdx))
	for k, idx := range keyIdx {
		if idx >= len(row) {
			out[k] = types.TypedCell{Kind: types.Null}
			continue
		}
		raw := row[idx].Decoded(src)
		tc, err := types.Decode(raw, types.Kind(schema[idx].Kind), lctx)
		if err != nil {
			tc = types.TypedCell{Kind: types.Text, Text: raw}
		}
		out[k] = tc
	}
	return out
}

func colIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

type unknownColumnError struct{ name string }

func (e *unknownColumnError) Error() string { return "sort: unknown column " + e.name }
