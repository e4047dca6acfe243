package common

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

// Column is a table column with its provider-specific SQL type.
type Column struct {
	Name string
	Type string
}

// Columns resolves the SQL type of every table column through typeMap, which
// is keyed by the logical dataset types.
func Columns(t *dataset.Table, typeMap map[string]string) []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, name := range t.Columns {
		cols = append(cols, Column{
			Name: name,
			Type: typeMap[t.ColumnType(name)],
		})
	}
	return cols
}

// Rows converts the records into positional values in column order.
func Rows(t *dataset.Table, convert func(any) any) [][]any {
	rows := make([][]any, 0, len(t.Records))
	for _, r := range t.Records {
		row := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = convert(r[col])
		}
		rows = append(rows, row)
	}
	return rows
}

// CheckIdentifiers rejects a namespace or table name that cannot be spliced
// into DDL unquoted, and column names that cannot be quoted safely.
func CheckIdentifiers(namespace string, t *dataset.Table) error {
	if !dataset.ValidIdentifier(namespace) {
		return fmt.Errorf("invalid namespace %q", namespace)
	}
	if !dataset.ValidIdentifier(t.Name) {
		return fmt.Errorf("invalid table name %q", t.Name)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", t.Name)
	}
	for _, col := range t.Columns {
		if !ValidColumnName(col) {
			return fmt.Errorf("invalid column name %q in table %s", col, t.Name)
		}
	}
	return nil
}

func CreateTableSQL(qualified string, cols []Column, quote func(string) string) string {
	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, fmt.Sprintf("%s %s", quote(c.Name), c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", qualified, strings.Join(defs, ",\n  "))
}

// BatchSize is the number of rows per multi-row INSERT that keeps the bind
// parameter count under maxParams.
func BatchSize(maxParams, columns int) int {
	if columns <= 0 {
		return 1
	}
	return max(1, min(1000, maxParams/columns))
}

func QuoteDouble(name string) string {
	return `"` + name + `"`
}

func QuoteBacktick(name string) string {
	return "`" + name + "`"
}

// ValidColumnName reports whether name can be written as a quoted column
// identifier by every provider. Columns are always quoted, so a leading
// digit is allowed.
func ValidColumnName(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	return !strings.ContainsAny(name, "\"`'\x00")
}
