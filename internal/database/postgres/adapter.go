package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lumos-Labs-HQ/banksynth/internal/database/common"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

var typeMap = map[string]string{
	dataset.TypeInteger:   "BIGINT",
	dataset.TypeFloat:     "DOUBLE PRECISION",
	dataset.TypeDecimal:   "NUMERIC(18,2)",
	dataset.TypeText:      "TEXT",
	dataset.TypeBoolean:   "BOOLEAN",
	dataset.TypeDate:      "DATE",
	dataset.TypeTimestamp: "TIMESTAMP",
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// ReplaceTable recreates the table inside one transaction and bulk loads it
// with COPY.
func (p *Adapter) ReplaceTable(ctx context.Context, namespace string, table *dataset.Table) error {
	if err := common.CheckIdentifiers(namespace, table); err != nil {
		return err
	}

	qualified := pgx.Identifier{namespace, table.Name}.Sanitize()
	cols := common.Columns(table, typeMap)

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmts := []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{namespace}.Sanitize()),
		fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified),
		common.CreateTableSQL(qualified, cols, common.QuoteDouble),
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare table %s: %w", qualified, err)
		}
	}

	if table.Len() > 0 {
		rows := common.Rows(table, dataset.SQLValue)
		copied, err := tx.CopyFrom(ctx, pgx.Identifier{namespace, table.Name}, table.Columns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy rows into %s: %w", qualified, err)
		}
		if copied != int64(len(rows)) {
			return fmt.Errorf("copied %d of %d rows into %s", copied, len(rows), qualified)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", qualified, err)
	}
	return nil
}

func (p *Adapter) CountRows(ctx context.Context, namespace, table string) (int64, error) {
	query, args, err := p.qb.Select("COUNT(*)").
		From(pgx.Identifier{namespace, table}.Sanitize()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s.%s: %w", namespace, table, err)
	}
	return count, nil
}
