package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

// Writer persists generated tables into a namespace of a database. The
// namespace is a postgres schema, a mysql database or a sqlite table prefix.
type Writer interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// ReplaceTable drops the table if it exists, recreates it from the
	// table's columns and loads every record.
	ReplaceTable(ctx context.Context, namespace string, table *dataset.Table) error

	CountRows(ctx context.Context, namespace, table string) (int64, error)
}
