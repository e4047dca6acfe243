package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/banksynth/internal/config"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/geo"
	"github.com/Lumos-Labs-HQ/banksynth/internal/integrity"
	"github.com/Lumos-Labs-HQ/banksynth/internal/metrics"
)

var (
	testStart   = dataset.NewDate(2015, time.January, 1)
	testHorizon = dataset.NewDate(2024, time.December, 31)
)

func testContext(t *testing.T) *BuildContext {
	t.Helper()
	locations, err := geo.Load("")
	require.NoError(t, err)

	bc := NewBuildContext(testStart, testHorizon, locations)
	bc.Customers = 50
	bc.Transactions = 200
	bc.Volumes = config.Volumes{
		Merchants:          20,
		CreditApplications: 20,
		Interactions:       30,
		Campaigns:          5,
		Branches:           5,
		ATMs:               10,
	}
	return bc
}

func runDefault(t *testing.T, seed int64) *dataset.Set {
	t.Helper()
	set, err := NewDefault(Options{Seed: seed, Quiet: true}).Run(context.Background(), testContext(t))
	require.NoError(t, err)
	return set
}

func TestOrder(t *testing.T) {
	order, err := NewDefault(Options{}).Order()
	require.NoError(t, err)

	assert.Equal(t, []string{
		TableProducts, TableMerchants, TableCustomers, TableAccounts, TableTransactions,
		TableCreditApplications, TableFraudAlerts, TableInteractions, TableEconomic,
		TableCampaigns, TableLoanPayments, TableBranches, TableATMs, TableRiskAssessments,
		TableAccountEvents, TableRegulatoryReports, TableSegmentHistory,
	}, order)
}

func TestBuilderSeed(t *testing.T) {
	assert.Equal(t, BuilderSeed(42, "accounts"), BuilderSeed(42, "accounts"))
	assert.NotEqual(t, BuilderSeed(42, "accounts"), BuilderSeed(42, "transactions"))
	assert.NotEqual(t, BuilderSeed(42, "accounts"), BuilderSeed(43, "accounts"))
}

func TestRunEndToEnd(t *testing.T) {
	collector := metrics.NewCollector(nil)
	bc := testContext(t)

	set, err := NewDefault(Options{Seed: 42, Quiet: true, Metrics: collector}).Run(context.Background(), bc)
	require.NoError(t, err)
	require.Len(t, set.Names(), 17)

	customers := set.MustGet(TableCustomers)
	accounts := set.MustGet(TableAccounts)
	transactions := set.MustGet(TableTransactions)

	assert.GreaterOrEqual(t, customers.Len(), 50)
	assert.GreaterOrEqual(t, accounts.Len(), 50)
	assert.LessOrEqual(t, accounts.Len(), 250)
	assert.GreaterOrEqual(t, transactions.Len(), 200)
	assert.LessOrEqual(t, transactions.Len(), 400)
	assert.Equal(t, 10, set.MustGet(TableProducts).Len())

	assert.Empty(t, integrity.Check(set, testHorizon))

	for _, table := range set.Tables() {
		for _, r := range table.Records {
			for col := range r {
				assert.Contains(t, table.Columns, col, "%s has unexpected column %s", table.Name, col)
			}
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first := runDefault(t, 7)
	second := runDefault(t, 7)

	for _, name := range first.Names() {
		a, b := first.MustGet(name), second.MustGet(name)
		require.Equal(t, a.Len(), b.Len(), name)
		for i := range a.Records {
			for _, col := range a.Columns {
				require.Equal(t, dataset.FormatValue(a.Records[i][col]), dataset.FormatValue(b.Records[i][col]), "%s[%d].%s", name, i, col)
			}
		}
	}
}

func TestTransactionsSortedAndWindowed(t *testing.T) {
	set := runDefault(t, 11)
	accounts := set.MustGet(TableAccounts).Index("account_id")

	var prev dataset.Date
	for i, tr := range set.MustGet(TableTransactions).Records {
		date := tr.Date("transaction_date")
		if i > 0 {
			assert.False(t, date.Before(prev), "transactions out of order at %d", i)
		}
		prev = date

		account := accounts[tr.Int("account_id")]
		require.NotNil(t, account)
		assert.Equal(t, StatusActive, account.String("account_status"))
		assert.False(t, date.Before(account.Date("open_date")))
		assert.False(t, date.After(testHorizon))
	}
}

func TestSegmentHistoryFinalised(t *testing.T) {
	set := runDefault(t, 5)
	history := set.MustGet(TableSegmentHistory)

	current := map[int64]int{}
	for _, r := range history.Records {
		if r.Bool("is_current") {
			current[r.Int("customer_id")]++
			assert.True(t, r.IsNull("end_date"))
		} else {
			assert.False(t, r.IsNull("end_date"))
		}
	}
	for customer, n := range current {
		assert.Equal(t, 1, n, "customer %d", customer)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefault(Options{Quiet: true}).Run(ctx, testContext(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyUpstream(t *testing.T) {
	bc := testContext(t)
	gen := NewDefault(Options{Quiet: true})

	_, err := gen.Build(bc, TableAccounts)
	assert.ErrorIs(t, err, ErrEmptyUpstream)
}

func TestNoActiveAccounts(t *testing.T) {
	bc := testContext(t)
	gen := NewDefault(Options{Quiet: true})

	for _, name := range []string{TableProducts, TableMerchants, TableCustomers, TableAccounts} {
		table, err := gen.Build(bc, name)
		require.NoError(t, err)
		bc.put(table)
	}
	for _, a := range bc.Optional(TableAccounts).Records {
		a["account_status"] = StatusDormant
	}

	_, err := gen.Build(bc, TableTransactions)
	assert.ErrorIs(t, err, ErrNoActiveAccounts)
}

func TestZeroFraudIsNotAnError(t *testing.T) {
	bc := testContext(t)
	transactions := dataset.NewTable(TableTransactions, []string{"transaction_id", "is_fraud"})
	transactions.Append(dataset.Record{"transaction_id": int64(1), "is_fraud": false})
	bc.put(transactions)

	alerts, err := NewDefault(Options{}).Build(bc, TableFraudAlerts)
	require.NoError(t, err)
	assert.Equal(t, 0, alerts.Len())
	assert.Contains(t, alerts.Columns, "alert_date")
}

func TestContextFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.StartDate = "2020-01-01"
	cfg.EndDate = "2021-06-30"
	cfg.Customers = 12

	locations, err := geo.Load("")
	require.NoError(t, err)

	bc, err := ContextFromConfig(cfg, locations, time.Now())
	require.NoError(t, err)
	assert.Equal(t, dataset.NewDate(2020, time.January, 1), bc.Start)
	assert.Equal(t, dataset.NewDate(2021, time.June, 30), bc.Horizon)
	assert.Equal(t, 12, bc.Customers)

	_, err = ContextFromConfig(cfg, nil, time.Now())
	assert.ErrorIs(t, err, geo.ErrNoLocations)
}

func TestLoanPaymentsStopAtClose(t *testing.T) {
	set := runDefault(t, 13)
	accounts := set.MustGet(TableAccounts).Index("account_id")

	for _, p := range set.MustGet(TableLoanPayments).Records {
		account := accounts[p.Int("account_id")]
		require.NotNil(t, account)
		_, end := activeWindow(account, testHorizon)
		assert.False(t, p.Date("scheduled_date").After(end),
			"payment %d scheduled after account %d closed", p.Int("payment_id"), account.Int("account_id"))
	}
}
