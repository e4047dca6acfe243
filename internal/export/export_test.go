package export

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/banksynth/internal/database"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/metrics"
)

func sampleSet() *dataset.Set {
	set := dataset.NewSet()

	customers := dataset.NewTable("customers", []string{"customer_id", "first_name", "signup_date"})
	customers.Append(dataset.Record{"customer_id": int64(1), "first_name": "Ada, Jr.", "signup_date": dataset.NewDate(2015, 3, 9)})
	customers.Append(dataset.Record{"customer_id": int64(2), "first_name": "Grace", "signup_date": dataset.NewDate(2016, 11, 30)})
	set.Put(customers)

	accounts := dataset.NewTable("accounts", []string{"account_id", "customer_id", "balance", "close_date"})
	accounts.Append(dataset.Record{"account_id": int64(1), "customer_id": int64(1), "balance": decimal.NewFromFloat(-42.5), "close_date": nil})
	set.Put(accounts)

	set.Put(dataset.NewTable("fraud_alerts", []string{"alert_id", "transaction_id"}))
	return set
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestToCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ingestion")
	collector := metrics.NewCollector(nil)

	paths, err := ToCSV(dir, sampleSet(), Options{Metrics: collector, Quiet: true})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "customers.csv"), paths[0])

	assert.Equal(t, [][]string{
		{"customer_id", "first_name", "signup_date"},
		{"1", "Ada, Jr.", "2015-03-09"},
		{"2", "Grace", "2016-11-30"},
	}, readCSV(t, paths[0]))

	assert.Equal(t, [][]string{
		{"account_id", "customer_id", "balance", "close_date"},
		{"1", "1", "-42.50", ""},
	}, readCSV(t, paths[1]))

	assert.Equal(t, [][]string{{"alert_id", "transaction_id"}}, readCSV(t, paths[2]))

	expected := `
# HELP banksynth_tables_written_total Tables persisted per sink
# TYPE banksynth_tables_written_total counter
banksynth_tables_written_total{sink="csv"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "banksynth_tables_written_total"))
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	generatedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewManifest(sampleSet(), 42, dataset.NewDate(2010, 1, 1), dataset.NewDate(2024, 5, 31), generatedAt)

	path, err := WriteManifest(dir, m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFile), path)

	got, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, "2010-01-01", got.StartDate)
	assert.Equal(t, "2024-05-31", got.EndDate)
	assert.True(t, generatedAt.Equal(got.GeneratedAt))
	assert.Equal(t, map[string]int{"customers": 2, "accounts": 1, "fraud_alerts": 0}, got.Rows())
	assert.Equal(t, []string{"customer_id", "first_name", "signup_date"}, got.Tables[0].Columns)
}

func TestReadManifestMissing(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	assert.Error(t, err)
}

func TestToDatabaseSQLite(t *testing.T) {
	ctx := context.Background()
	w, err := database.NewWriter("sqlite")
	require.NoError(t, err)
	require.NoError(t, w.Connect(ctx, "sqlite://"+filepath.Join(t.TempDir(), "bank.db")))
	defer w.Close()

	set := sampleSet()
	collector := metrics.NewCollector(nil)
	require.NoError(t, ToDatabase(ctx, w, "bronze", set, Options{Metrics: collector, Quiet: true}))

	for _, table := range set.Tables() {
		count, err := w.CountRows(ctx, "bronze", table.Name)
		require.NoError(t, err)
		assert.Equal(t, int64(table.Len()), count, table.Name)
	}

	expected := `
# HELP banksynth_tables_written_total Tables persisted per sink
# TYPE banksynth_tables_written_total counter
banksynth_tables_written_total{sink="database"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "banksynth_tables_written_total"))
}

type failingWriter struct {
	failOn  string
	written []string
}

func (f *failingWriter) Connect(ctx context.Context, url string) error { return nil }
func (f *failingWriter) Close() error                                  { return nil }
func (f *failingWriter) Ping(ctx context.Context) error                 { return nil }

func (f *failingWriter) ReplaceTable(ctx context.Context, namespace string, table *dataset.Table) error {
	if table.Name == f.failOn {
		return errors.New("connection reset")
	}
	f.written = append(f.written, table.Name)
	return nil
}

func (f *failingWriter) CountRows(ctx context.Context, namespace, table string) (int64, error) {
	return 0, nil
}

func TestToDatabaseStopsAtFirstFailure(t *testing.T) {
	w := &failingWriter{failOn: "accounts"}

	err := ToDatabase(context.Background(), w, "bronze", sampleSet(), Options{Quiet: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accounts")
	assert.Equal(t, []string{"customers"}, w.written)
}
