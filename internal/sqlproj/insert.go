package sqlproj

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/locale"
	"github.com/tabkit/tabkit/internal/types"
)

// CreateAndLoad creates tableName (dropping-and-recreating is the caller's
// decision, not this function's) and bulk-inserts every row of table,
// decoding each cell against schema so DECIMAL/NUMERIC columns get
// shopspring/decimal's exact-scale formatting instead of float64's lossy
// round-tripping.
func CreateAndLoad(ctx context.Context, db *sql.DB, d Dialect, tableName string, table *cell.Table, schema []cell.ColumnSchema, lctx *locale.Context) error {
	ddl := CreateTableDDL(d, tableName, table, schema)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	insertSQL := InsertStatement(d, tableName, table.Header)
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", tableName, err)
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		args := make([]any, len(table.Header))
		for i := range table.Header {
			var raw string
			if i < len(row) {
				raw = row[i].Decoded(table.Src)
			}
			args[i], err = cellSQLValue(raw, types.Kind(schema[i].Kind), schema[i].MaxPrecision, lctx)
			if err != nil {
				return fmt.Errorf("row value for column %s: %w", table.Header[i], err)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", tableName, err)
		}
	}

	return tx.Commit()
}

func cellSQLValue(raw string, kind types.Kind, maxPrecision int, lctx *locale.Context) (any, error) {
	if lctx.IsNull(raw) {
		return nil, nil
	}
	tc, err := types.Decode(raw, kind, lctx)
	if err != nil {
		return nil, err
	}
	switch kind {
	case types.Bool:
		return tc.Bool, nil
	case types.Number:
		if maxPrecision > 0 {
			d, dErr := decimal.NewFromString(raw)
			if dErr != nil {
				return tc.Float, nil
			}
			return d.StringFixed(int32(maxPrecision)), nil
		}
		if tc.WasInt() {
			return tc.Int, nil
		}
		return tc.Float, nil
	case types.Date, types.DateTime:
		return tc.Time, nil
	case types.Timedelta:
		return tc.Duration.String(), nil
	default:
		return tc.Text, nil
	}
}

// ReadBack executes query against db and returns it as a cell.Table whose
// rows are materialized as plain UTF-8 text cells — the read-back path
// only needs to print rows, not re-type them.
func ReadBack(ctx context.Context, db *sql.DB, query string) (*cell.Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &cell.Table{Header: cols}
	scanBuf := make([]any, len(cols))
	scanPtrs := make([]any, len(cols))
	for i := range scanBuf {
		scanPtrs[i] = &scanBuf[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanPtrs...); err != nil {
			return nil, err
		}
		row := make(cell.Row, len(cols))
		for i, v := range scanBuf {
			start := len(table.Src)
			table.Src = append(table.Src, []byte(sqlValueToString(v))...)
			row[i] = cell.Cell{Start: start, End: len(table.Src)}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, rows.Err()
}

func sqlValueToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
