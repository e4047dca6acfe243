package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

func newAdapter(t *testing.T) *Adapter {
	t.Helper()
	a := New()
	require.NoError(t, a.Connect(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "bank.db")))
	t.Cleanup(func() { a.Close() })
	require.NoError(t, a.Ping(context.Background()))
	return a
}

func accountsTable(n int) *dataset.Table {
	table := dataset.NewTable("accounts", []string{"account_id", "balance", "open_date", "is_primary", "close_date"})
	for i := 1; i <= n; i++ {
		table.Append(dataset.Record{
			"account_id": int64(i),
			"balance":    decimal.NewFromFloat(12.5).Mul(decimal.NewFromInt(int64(i))),
			"open_date":  dataset.NewDate(2020, 1, i),
			"is_primary": i%2 == 0,
			"close_date": nil,
		})
	}
	return table
}

func TestReplaceTable(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	require.NoError(t, a.ReplaceTable(ctx, "bronze", accountsTable(5)))

	count, err := a.CountRows(ctx, "bronze", "accounts")
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	var openDate string
	var balance float64
	var closeDate *string
	err = a.db.QueryRowContext(ctx,
		`SELECT open_date, balance, close_date FROM "bronze_accounts" WHERE account_id = 3`,
	).Scan(&openDate, &balance, &closeDate)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-03", openDate)
	assert.InDelta(t, 37.5, balance, 0.001)
	assert.Nil(t, closeDate)
}

func TestReplaceTableReplacesExistingRows(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	require.NoError(t, a.ReplaceTable(ctx, "bronze", accountsTable(10)))
	require.NoError(t, a.ReplaceTable(ctx, "bronze", accountsTable(3)))

	count, err := a.CountRows(ctx, "bronze", "accounts")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestReplaceTableEmpty(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	require.NoError(t, a.ReplaceTable(ctx, "bronze", dataset.NewTable("fraud_alerts", []string{"alert_id", "notes"})))

	count, err := a.CountRows(ctx, "bronze", "fraud_alerts")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReplaceTableBatches(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	table := dataset.NewTable("economic_indicators", []string{"indicator_id", "value"})
	for i := 1; i <= 2500; i++ {
		table.Append(dataset.Record{"indicator_id": int64(i), "value": float64(i) / 10})
	}
	require.NoError(t, a.ReplaceTable(ctx, "bronze", table))

	count, err := a.CountRows(ctx, "bronze", "economic_indicators")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), count)
}

func TestReplaceTableRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	err := a.ReplaceTable(ctx, "bronze; DROP", accountsTable(1))
	assert.Error(t, err)

	bad := dataset.NewTable("accounts", []string{"account id"})
	assert.Error(t, a.ReplaceTable(ctx, "bronze", bad))
}

func TestPath(t *testing.T) {
	assert.Equal(t, "data/bank.db?cache=shared&_journal_mode=WAL", Path("sqlite://data/bank.db"))
	assert.Equal(t, "bank.db?mode=ro", Path("bank.db?mode=ro"))
}

func TestReplaceTableDigitLeadingColumn(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(t)

	table := dataset.NewTable("economic_indicators", []string{"date", "10yr_treasury_yield"})
	table.Append(dataset.Record{"date": dataset.NewDate(2024, 1, 2), "10yr_treasury_yield": 4.05})
	require.NoError(t, a.ReplaceTable(ctx, "bronze", table))

	var yield float64
	err := a.db.QueryRowContext(ctx, `SELECT "10yr_treasury_yield" FROM "bronze_economic_indicators"`).Scan(&yield)
	require.NoError(t, err)
	assert.InDelta(t, 4.05, yield, 0.0001)
}
