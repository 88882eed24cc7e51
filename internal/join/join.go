// Package join implements the Join Executor (C7): union/inner/left/right/
// outer joins over cell.Table values, with header-collision renaming
// ported from original_source/suite/include/csvjoin/cycle_cleanup.h's
// concat_headers/cycle_cleanup left-fold.
package join

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/compare"
	"github.com/tabkit/tabkit/internal/infer"
	"github.com/tabkit/tabkit/internal/locale"
	"github.com/tabkit/tabkit/internal/types"
)

// Mode selects the join semantics.
type Mode int

const (
	Inner Mode = iota
	Left
	Right
	Outer
	Union
)

// ColumnSpec names, per source table, which column participates in the
// join key. For Union, Column is ignored: tables are concatenated side by
// side, row by row.
type ColumnSpec struct {
	Column string
}

// Reduce left-folds tables into one, exactly like cycle_cleanup's two-
// element deque consumption: join(join(join(t0,t1),t2),t3)... Header
// collisions are resolved by appending the smallest "_k" (k>=2) suffix that
// makes the name unique, per concat_headers. lctx drives the join-column
// comparator (§4.4/C4): each pair's key columns are re-inferred and
// compared/hashed through internal/compare rather than raw byte equality,
// so "02" and "2" match under a Number join column the same way they
// would sort equal, and a null on either side is treated consistently.
func Reduce(tables []*cell.Table, specs []ColumnSpec, mode Mode, lctx *locale.Context) (*cell.Table, error) {
	if len(tables) == 0 {
		return &cell.Table{}, nil
	}
	if mode != Union {
		switch len(specs) {
		case 1:
			broadcast := make([]ColumnSpec, len(tables))
			for i := range broadcast {
				broadcast[i] = specs[0]
			}
			specs = broadcast
		case len(tables):
			// already one per table
		default:
			return nil, fmt.Errorf("join: column-spec cardinality must be 1 or %d, got %d", len(tables), len(specs))
		}
	}

	acc := tables[0]
	for i := 1; i < len(tables); i++ {
		var err error
		if mode == Union {
			acc, err = unionTwo(acc, tables[i])
		} else {
			leftCol := specs[0].Column
			rightCol := specs[i].Column
			acc, err = joinTwo(acc, tables[i], leftCol, rightCol, mode, lctx)
		}
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// renameHeaders applies concat_headers: for every name in right that
// already exists in left, append the smallest "_k" (k>=2) suffix that is
// still unique within the combined header.
func renameHeaders(left, right []string) []string {
	combined := append([]string(nil), left...)
	existing := map[string]bool{}
	for _, h := range combined {
		existing[h] = true
	}
	out := make([]string, len(right))
	for i, name := range right {
		final := name
		if existing[final] {
			k := 2
			for {
				candidate := name + "_" + strconv.Itoa(k)
				if !existing[candidate] {
					final = candidate
					break
				}
				k++
			}
		}
		existing[final] = true
		out[i] = final
		combined = append(combined, final)
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

// unionTwo stacks a and b horizontally (side by side), per union_join.h:
// headers concatenate (renamed on collision) and column counts add; the
// row count is max(a.rows(), b.rows()), with the shorter side's missing
// rows padded by blank cells for every one of its columns.
func unionTwo(a, b *cell.Table) (*cell.Table, error) {
	renamedRightHeader := renameHeaders(a.Header, b.Header)
	header := append(append([]string(nil), a.Header...), renamedRightHeader...)

	numRows := len(a.Rows)
	if len(b.Rows) > numRows {
		numRows = len(b.Rows)
	}

	emptyLeftRow := make(cell.Row, len(a.Header))
	emptyRightRow := make(cell.Row, len(b.Header))

	var srcBuf []byte
	rows := make([]cell.Row, numRows)
	for i := 0; i < numRows; i++ {
		lrow := emptyLeftRow
		if i < len(a.Rows) {
			lrow = a.Rows[i]
		}
		rrow := emptyRightRow
		if i < len(b.Rows) {
			rrow = b.Rows[i]
		}
		var lsrc, rsrc []byte
		if i < len(a.Rows) {
			lsrc = a.Src
		}
		if i < len(b.Rows) {
			rsrc = b.Src
		}
		combined, newSrc := combineRow(lrow, lsrc, rrow, rsrc, &srcBuf)
		srcBuf = newSrc
		rows[i] = combined
	}

	return &cell.Table{Header: header, Src: srcBuf, Rows: rows}, nil
}

// joinTwo performs the requested relational join between a and b on named
// columns, excluding the right table's join column from the output
// (cycle_cleanup's default exclude_c_column::yes behavior for non-union
// joins). Equality between join-key cells is decided by a
// internal/compare.Comparator built for the key's inferred kind, per
// §4.7's "Algorithms" paragraph, not raw byte/string equality — so a
// Number join column matches "2" against "02", and §4.7's "Blank-policy
// alignment" paragraph is honored (has_blanks is the max of both sides).
func joinTwo(a, b *cell.Table, leftCol, rightCol string, mode Mode, lctx *locale.Context) (*cell.Table, error) {
	li := colIndex(a.Header, leftCol)
	ri := colIndex(b.Header, rightCol)
	if li < 0 {
		return nil, fmt.Errorf("join: column %q not found in left table", leftCol)
	}
	if ri < 0 {
		return nil, fmt.Errorf("join: column %q not found in right table", rightCol)
	}

	rightHeaderNoKey := dropIndex(b.Header, ri)
	renamedRight := renameHeaders(a.Header, rightHeaderNoKey)
	header := append(append([]string(nil), a.Header...), renamedRight...)

	cmp, leftDecoded, rightDecoded := joinKeyComparator(a, li, b, ri, lctx)

	index := map[uint64][]int{}
	for i, tc := range rightDecoded {
		h := cmp.Hash(tc)
		index[h] = append(index[h], i)
	}

	var srcBuf []byte
	var rows []cell.Row
	matchedRight := map[int]bool{}

	emptyRightRow := make(cell.Row, len(rightHeaderNoKey))

	for li2, lrow := range a.Rows {
		ltc := leftDecoded[li2]
		var matches []int
		for _, ri2 := range index[cmp.Hash(ltc)] {
			if cmp.Compare(ltc, rightDecoded[ri2]) == 0 {
				matches = append(matches, ri2)
			}
		}
		if len(matches) == 0 {
			if mode == Left || mode == Outer {
				combined, newSrc := combineRow(lrow, a.Src, emptyRightRow, nil, &srcBuf)
				srcBuf = newSrc
				rows = append(rows, combined)
			}
			continue
		}
		for _, ri2 := range matches {
			matchedRight[ri2] = true
			rrow := dropIndex(b.Rows[ri2], ri)
			combined, newSrc := combineRow(lrow, a.Src, rrow, b.Src, &srcBuf)
			srcBuf = newSrc
			rows = append(rows, combined)
		}
	}

	if mode == Right || mode == Outer {
		for i, rrow := range b.Rows {
			if matchedRight[i] {
				continue
			}
			// The right row's own join-key value fills the left table's key
			// column instead of being dropped, so an unmatched right row still
			// carries its key (§8 scenario 5: "3,,w" keeps a=3) rather than
			// losing it the way an all-blank left row would.
			keyRow := make(cell.Row, len(a.Header))
			keyRow[li] = rrow[ri]
			dropped := dropIndex(rrow, ri)
			combined, newSrc := combineRow(keyRow, b.Src, dropped, b.Src, &srcBuf)
			srcBuf = newSrc
			rows = append(rows, combined)
		}
	}

	return &cell.Table{Header: header, Src: srcBuf, Rows: rows}, nil
}

// joinKeyComparator infers the left and right join columns independently
// (each is re-inferred fresh for this one pairing, since a.Header's kind
// may itself already be the product of an earlier join in the Reduce
// fold), picks the shared kind when both sides agree or falls back to
// Text when they don't ("promoted to Text if the two sides disagree on
// kind and cannot be compared"), and decodes every row's key cell under
// that kind up front so the join loop only hashes/compares TypedCells.
func joinKeyComparator(a *cell.Table, li int, b *cell.Table, ri int, lctx *locale.Context) (compare.Comparator, []types.TypedCell, []types.TypedCell) {
	leftVals := a.Column(li)
	rightVals := b.Column(ri)

	results, err := infer.Columns(context.Background(), [][]string{leftVals, rightVals}, lctx, nil)
	var leftRes, rightRes infer.ColumnResult
	if err == nil && len(results) == 2 {
		leftRes, rightRes = results[0], results[1]
	} else {
		leftRes = infer.ColumnResult{Kind: types.Text}
		rightRes = infer.ColumnResult{Kind: types.Text}
	}

	kind := leftRes.Kind
	if leftRes.Kind != rightRes.Kind {
		kind = types.Text
	}
	hasBlanks := leftRes.HasBlanks || rightRes.HasBlanks

	cmp := compare.New(kind, compare.Options{
		NoInference: lctx.NoInference,
		Blanks:      lctx.Blanks,
		HasBlanks:   hasBlanks,
	})

	decodeCol := func(vals []string) []types.TypedCell {
		out := make([]types.TypedCell, len(vals))
		for i, raw := range vals {
			tc, err := types.Decode(raw, kind, lctx)
			if err != nil {
				tc, _ = types.Decode(raw, types.Text, lctx)
			}
			out[i] = tc
		}
		return out
	}

	return cmp, decodeCol(leftVals), decodeCol(rightVals)
}

func dropIndex(row cell.Row, idx int) cell.Row {
	out := make(cell.Row, 0, len(row)-1)
	for i, c := range row {
		if i == idx {
			continue
		}
		out = append(out, c)
	}
	return out
}

// combineRow materializes the decoded text of both row halves into a
// growing shared buffer (srcBuf) and returns fresh spans into it, since the
// two input rows come from different source buffers and cell.Cell spans
// are only meaningful relative to one buffer.
func combineRow(left cell.Row, leftSrc []byte, right cell.Row, rightSrc []byte, srcBuf *[]byte) (cell.Row, []byte) {
	buf := *srcBuf
	out := make(cell.Row, 0, len(left)+len(right))
	for _, c := range left {
		start := len(buf)
		if leftSrc != nil {
			buf = append(buf, c.Decoded(leftSrc)...)
		}
		out = append(out, cell.Cell{Start: start, End: len(buf)})
	}
	for _, c := range right {
		start := len(buf)
		if rightSrc != nil {
			buf = append(buf, c.Decoded(rightSrc)...)
		}
		out = append(out, cell.Cell{Start: start, End: len(buf)})
	}
	return out, buf
}
