package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Lumos-Labs-HQ/banksynth/internal/database/common"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

const maxParams = 32766

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

var typeMap = map[string]string{
	dataset.TypeInteger:   "INTEGER",
	dataset.TypeFloat:     "REAL",
	dataset.TypeDecimal:   "NUMERIC",
	dataset.TypeText:      "TEXT",
	dataset.TypeBoolean:   "INTEGER",
	dataset.TypeDate:      "TEXT",
	dataset.TypeTimestamp: "TEXT",
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Path strips the sqlite:// scheme and adds the shared-cache WAL options
// unless the URL carries its own query.
func Path(url string) string {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?cache=shared&_journal_mode=WAL"
	}
	return dbPath
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("sqlite3", Path(url))
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// TableName is the physical name of a table; sqlite has no schemas, so the
// namespace becomes a prefix.
func TableName(namespace, table string) string {
	return namespace + "_" + table
}

// value stores dates and timestamps as ISO text.
func value(v any) any {
	switch val := v.(type) {
	case dataset.Date:
		return val.String()
	case time.Time:
		return val.Format(dataset.TimestampLayout)
	default:
		return dataset.SQLValue(v)
	}
}

func (s *Adapter) ReplaceTable(ctx context.Context, namespace string, table *dataset.Table) error {
	if err := common.CheckIdentifiers(namespace, table); err != nil {
		return err
	}

	name := TableName(namespace, table.Name)
	qualified := common.QuoteDouble(name)
	cols := common.Columns(table, typeMap)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified),
		common.CreateTableSQL(qualified, cols, common.QuoteDouble),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare table %s: %w", name, err)
		}
	}

	quoted := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		quoted[i] = common.QuoteDouble(c)
	}

	rows := common.Rows(table, value)
	batch := common.BatchSize(maxParams, len(table.Columns))
	for start := 0; start < len(rows); start += batch {
		end := min(start+batch, len(rows))

		insert := s.qb.Insert(qualified).Columns(quoted...)
		for _, row := range rows[start:end] {
			insert = insert.Values(row...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d into %s: %w", start+1, end, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", name, err)
	}
	return nil
}

func (s *Adapter) CountRows(ctx context.Context, namespace, table string) (int64, error) {
	name := TableName(namespace, table)
	query, args, err := s.qb.Select("COUNT(*)").From(common.QuoteDouble(name)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", name, err)
	}
	return count, nil
}
