package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"

	"github.com/Lumos-Labs-HQ/banksynth/internal/database/common"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

const maxParams = 65535

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

var typeMap = map[string]string{
	dataset.TypeInteger:   "BIGINT",
	dataset.TypeFloat:     "DOUBLE",
	dataset.TypeDecimal:   "DECIMAL(18,2)",
	dataset.TypeText:      "TEXT",
	dataset.TypeBoolean:   "BOOLEAN",
	dataset.TypeDate:      "DATE",
	dataset.TypeTimestamp: "DATETIME",
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// DSN converts a mysql:// URL into the driver's user@tcp(host)/db form.
// Anything else is returned unchanged.
func DSN(url string) string {
	dsn := url
	if strings.HasPrefix(url, "mysql://") {
		dsn = strings.TrimPrefix(url, "mysql://")

		atIndex := strings.Index(dsn, "@")
		if atIndex > 0 {
			credentials := dsn[:atIndex]
			remainder := dsn[atIndex+1:]

			slashIndex := strings.Index(remainder, "/")
			if slashIndex > 0 {
				hostPort := remainder[:slashIndex]
				dbAndParams := remainder[slashIndex+1:]

				dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=REQUIRED", "tls=skip-verify")
				dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=DISABLED", "tls=false")
				dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=VERIFY_CA", "tls=true")
				dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=VERIFY_IDENTITY", "tls=true")
				dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=require", "tls=skip-verify")
				dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=disable", "tls=false")
				dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=verify-ca", "tls=true")
				dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=verify-full", "tls=true")

				dsn = fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
			}
		}
	}

	// DATE and DATETIME columns scan into time.Time only with parseTime.
	if !strings.Contains(dsn, "parseTime=") {
		if strings.Contains(dsn, "?") {
			dsn += "&parseTime=true"
		} else {
			dsn += "?parseTime=true"
		}
	}
	return dsn
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("mysql", DSN(url))
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func qualify(namespace, table string) string {
	return common.QuoteBacktick(namespace) + "." + common.QuoteBacktick(table)
}

// ReplaceTable writes into the database named by namespace. MySQL commits DDL
// implicitly, so only the inserts share a transaction.
func (m *Adapter) ReplaceTable(ctx context.Context, namespace string, table *dataset.Table) error {
	if err := common.CheckIdentifiers(namespace, table); err != nil {
		return err
	}

	qualified := qualify(namespace, table.Name)
	cols := common.Columns(table, typeMap)

	stmts := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", common.QuoteBacktick(namespace)),
		fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified),
		common.CreateTableSQL(qualified, cols, common.QuoteBacktick),
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare table %s: %w", qualified, err)
		}
	}

	if table.Len() == 0 {
		return nil
	}

	quoted := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		quoted[i] = common.QuoteBacktick(c)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows := common.Rows(table, dataset.SQLValue)
	batch := common.BatchSize(maxParams, len(table.Columns))
	for start := 0; start < len(rows); start += batch {
		end := min(start+batch, len(rows))

		insert := m.qb.Insert(qualified).Columns(quoted...)
		for _, row := range rows[start:end] {
			insert = insert.Values(row...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for %s: %w", qualified, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d into %s: %w", start+1, end, qualified, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", qualified, err)
	}
	return nil
}

func (m *Adapter) CountRows(ctx context.Context, namespace, table string) (int64, error) {
	query, args, err := m.qb.Select("COUNT(*)").From(qualify(namespace, table)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s.%s: %w", namespace, table, err)
	}
	return count, nil
}
