//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

func TestReplaceTableAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test requiring Docker")
	}

	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("banking"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	a := New()
	require.NoError(t, a.Connect(ctx, connStr))
	defer a.Close()
	require.NoError(t, a.Ping(ctx))

	table := dataset.NewTable("transactions", []string{"transaction_id", "amount", "transaction_date", "is_fraud", "description"})
	for i := 1; i <= 50; i++ {
		table.Append(dataset.Record{
			"transaction_id":   int64(i),
			"amount":           decimal.NewFromFloat(-19.99),
			"transaction_date": time.Date(2023, 3, 1, 10, i, 0, 0, time.UTC),
			"is_fraud":         i == 7,
			"description":      nil,
		})
	}

	require.NoError(t, a.ReplaceTable(ctx, "bronze", table))
	require.NoError(t, a.ReplaceTable(ctx, "bronze", table))

	count, err := a.CountRows(ctx, "bronze", "transactions")
	require.NoError(t, err)
	assert.Equal(t, int64(50), count)

	var amount string
	var fraud bool
	err = a.pool.QueryRow(ctx,
		`SELECT amount::text, is_fraud FROM bronze.transactions WHERE transaction_id = 7`,
	).Scan(&amount, &fraud)
	require.NoError(t, err)
	assert.Equal(t, "-19.99", amount)
	assert.True(t, fraud)
}
