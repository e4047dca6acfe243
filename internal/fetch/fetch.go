// Package fetch runs ad-hoc SQL against a database holding generated tables.
package fetch

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/Lumos-Labs-HQ/banksynth/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/banksynth/internal/database/sqlite"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

// Open connects with the database/sql driver matching provider.
func Open(provider, url string) (*sqlx.DB, error) {
	var driver, dsn string
	switch provider {
	case "postgresql", "postgres":
		driver, dsn = "postgres", url
	case "mysql":
		driver, dsn = "mysql", mysql.DSN(url)
	case "sqlite", "sqlite3":
		driver, dsn = "sqlite3", sqlite.Path(url)
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", provider)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", provider, err)
	}
	return db, nil
}

// Data runs query and returns the result as a table named "result" with the
// columns in select order.
func Data(ctx context.Context, db *sqlx.DB, query string, args ...any) (*dataset.Table, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	table := dataset.NewTable("result", columns)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(dataset.Record, len(columns))
		for i, col := range columns {
			record[col] = normalize(values[i])
		}
		table.Append(record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return table, nil
}

// normalize turns driver byte slices into strings and widens integers.
func normalize(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int32:
		return int64(val)
	case int:
		return int64(val)
	default:
		return val
	}
}
