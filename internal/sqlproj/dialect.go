// Package sqlproj implements the SQL Projection (C8 SQL half): DDL
// generation and bulk insert across six dialects, targeting
// database/sql generically — the driver itself is an external
// collaborator — with modernc.org/sqlite wired as the real
// driver exercised by this package's own integration tests and by
// cmd/csvsql/cmd/sql2csv. Grounded on internal/importer/types.go's
// convertValue type-to-Go-value mapping, retargeted from tinySQL's
// in-process engine to generic SQL text generation, and
// internal/storage/decimal.go's decimal-handling idea, now implemented
// with github.com/shopspring/decimal instead of raw math/big.Rat.
package sqlproj

import (
	"fmt"
	"strings"

	"github.com/tabkit/tabkit/internal/cell"
	"github.com/tabkit/tabkit/internal/types"
)

// Dialect is a table-driven description of one SQL dialect's quoting and
// type-name rules.
type Dialect struct {
	Name                string
	QuoteIdent          func(name string) string
	TypeName            func(k types.Kind, maxPrecision, maxTextLength int) string
	Placeholder         func(argIndex int) string
	SupportsIfNotExists bool
}

// varcharLen picks a VARCHAR length from a column's widest observed text
// value, per §4.8 ("VARCHAR length from max text symbols"), with a floor so
// an all-blank or all-null text column still gets a usable column width.
func varcharLen(maxTextLength int) int {
	if maxTextLength < 1 {
		return 1
	}
	return maxTextLength
}

var Generic = Dialect{
	Name:       "generic",
	QuoteIdent: doubleQuote,
	TypeName:   genericTypeName,
	Placeholder: func(int) string { return "?" },
	SupportsIfNotExists: true,
}

var MySQL = Dialect{
	Name:       "mysql",
	QuoteIdent: backtickQuote,
	TypeName:   mysqlTypeName,
	Placeholder: func(int) string { return "?" },
	SupportsIfNotExists: true,
}

var PostgreSQL = Dialect{
	Name:       "postgresql",
	QuoteIdent: doubleQuote,
	TypeName:   postgresTypeName,
	Placeholder: func(i int) string { return fmt.Sprintf("$%d", i+1) },
	SupportsIfNotExists: true,
}

var SQLite = Dialect{
	Name:       "sqlite",
	QuoteIdent: doubleQuote,
	TypeName:   sqliteTypeName,
	Placeholder: func(int) string { return "?" },
	SupportsIfNotExists: true,
}

var Firebird = Dialect{
	Name:       "firebird",
	QuoteIdent: doubleQuote,
	TypeName:   genericTypeName,
	Placeholder: func(int) string { return "?" },
	SupportsIfNotExists: false,
}

var Oracle = Dialect{
	Name:       "oracle",
	QuoteIdent: doubleQuote,
	TypeName:   oracleTypeName,
	Placeholder: func(i int) string { return fmt.Sprintf(":%d", i+1) },
	SupportsIfNotExists: false,
}

var byName = map[string]Dialect{
	"generic":    Generic,
	"mysql":      MySQL,
	"postgresql": PostgreSQL,
	"postgres":   PostgreSQL,
	"sqlite":     SQLite,
	"firebird":   Firebird,
	"oracle":     Oracle,
}

// Lookup finds a dialect by name, case-insensitively.
func Lookup(name string) (Dialect, bool) {
	d, ok := byName[strings.ToLower(name)]
	return d, ok
}

func doubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func backtickQuote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func genericTypeName(k types.Kind, maxPrecision, maxTextLength int) string {
	switch k {
	case types.Bool:
		return "BOOLEAN"
	case types.Number:
		if maxPrecision > 0 {
			return fmt.Sprintf("DECIMAL(38,%d)", maxPrecision)
		}
		return "BIGINT"
	case types.Date:
		return "DATE"
	case types.DateTime:
		return "TIMESTAMP"
	case types.Timedelta:
		return "VARCHAR(32)"
	default:
		return fmt.Sprintf("VARCHAR(%d)", varcharLen(maxTextLength))
	}
}

func mysqlTypeName(k types.Kind, maxPrecision, maxTextLength int) string {
	switch k {
	case types.Bool:
		return "TINYINT(1)"
	case types.Number:
		if maxPrecision > 0 {
			return fmt.Sprintf("DECIMAL(38,%d)", maxPrecision)
		}
		return "BIGINT"
	case types.Date:
		return "DATE"
	case types.DateTime:
		return "DATETIME"
	case types.Timedelta:
		return "TIME"
	default:
		return "TEXT"
	}
}

func postgresTypeName(k types.Kind, maxPrecision, maxTextLength int) string {
	switch k {
	case types.Bool:
		return "BOOLEAN"
	case types.Number:
		if maxPrecision > 0 {
			return fmt.Sprintf("NUMERIC(38,%d)", maxPrecision)
		}
		return "BIGINT"
	case types.Date:
		return "DATE"
	case types.DateTime:
		return "TIMESTAMP"
	case types.Timedelta:
		return "INTERVAL"
	default:
		return "TEXT"
	}
}

func sqliteTypeName(k types.Kind, maxPrecision, maxTextLength int) string {
	switch k {
	case types.Bool:
		return "BOOLEAN"
	case types.Number:
		if maxPrecision > 0 {
			return "NUMERIC"
		}
		return "INTEGER"
	case types.Date, types.DateTime:
		return "TEXT"
	case types.Timedelta:
		return "TEXT"
	default:
		return "TEXT"
	}
}

func oracleTypeName(k types.Kind, maxPrecision, maxTextLength int) string {
	switch k {
	case types.Bool:
		return "NUMBER(1)"
	case types.Number:
		if maxPrecision > 0 {
			return fmt.Sprintf("NUMBER(38,%d)", maxPrecision)
		}
		return "NUMBER(19)"
	case types.Date:
		return "DATE"
	case types.DateTime:
		return "TIMESTAMP"
	case types.Timedelta:
		return "VARCHAR2(32)"
	default:
		n := varcharLen(maxTextLength)
		if n > 4000 {
			n = 4000
		}
		return fmt.Sprintf("VARCHAR2(%d)", n)
	}
}

// CreateTableDDL builds a CREATE TABLE statement for table, using schema
// (one ColumnSchema per column, in table column order) to pick per-column
// type names.
func CreateTableDDL(d Dialect, tableName string, table *cell.Table, schema []cell.ColumnSchema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if d.SupportsIfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(d.QuoteIdent(tableName))
	b.WriteString(" (\n")
	for i, col := range table.Header {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(d.QuoteIdent(col))
		b.WriteString(" ")
		b.WriteString(d.TypeName(types.Kind(schema[i].Kind), schema[i].MaxPrecision, schema[i].MaxTextLength))
	}
	b.WriteString("\n)")
	return b.String()
}

// InsertStatement builds a parameterized INSERT for one row's worth of
// placeholders.
func InsertStatement(d Dialect, tableName string, header []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.QuoteIdent(tableName))
	b.WriteString(" (")
	for i, col := range header {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.QuoteIdent(col))
	}
	b.WriteString(") VALUES (")
	for i := range header {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Placeholder(i))
	}
	b.WriteString(")")
	return b.String()
}
