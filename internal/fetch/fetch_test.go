package fetch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/banksynth/internal/database"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

func TestData(t *testing.T) {
	ctx := context.Background()
	url := "sqlite://" + filepath.Join(t.TempDir(), "bank.db")

	w, err := database.NewWriter("sqlite")
	require.NoError(t, err)
	require.NoError(t, w.Connect(ctx, url))
	defer w.Close()

	branches := dataset.NewTable("branches", []string{"branch_id", "branch_name", "state"})
	branches.Append(dataset.Record{"branch_id": int64(1), "branch_name": "Downtown", "state": "NY"})
	branches.Append(dataset.Record{"branch_id": int64(2), "branch_name": "Harbor", "state": "CA"})
	branches.Append(dataset.Record{"branch_id": int64(3), "branch_name": "Uptown", "state": "NY"})
	require.NoError(t, w.ReplaceTable(ctx, "bronze", branches))

	db, err := Open("sqlite", url)
	require.NoError(t, err)
	defer db.Close()

	result, err := Data(ctx, db, `SELECT state, COUNT(*) AS n FROM bronze_branches GROUP BY state ORDER BY state`)
	require.NoError(t, err)
	assert.Equal(t, []string{"state", "n"}, result.Columns)
	require.Equal(t, 2, result.Len())
	assert.Equal(t, "CA", result.Records[0].String("state"))
	assert.Equal(t, int64(1), result.Records[0].Int("n"))
	assert.Equal(t, "NY", result.Records[1].String("state"))
	assert.Equal(t, int64(2), result.Records[1].Int("n"))
}

func TestDataWithArgs(t *testing.T) {
	db, err := Open("sqlite3", filepath.Join(t.TempDir(), "products.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE products (product_id INTEGER, product_name TEXT)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO products VALUES (1, 'Basic Checking'), (2, 'Platinum Card')`)
	require.NoError(t, err)

	result, err := Data(ctx, db, `SELECT product_name FROM products WHERE product_id = ?`, 2)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
	assert.Equal(t, "Platinum Card", result.Records[0].String("product_name"))
}

func TestDataBadQuery(t *testing.T) {
	db, err := Open("sqlite3", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = Data(context.Background(), db, `SELECT * FROM missing_table`)
	assert.Error(t, err)
}

func TestOpenUnknownProvider(t *testing.T) {
	_, err := Open("oracle", "oracle://localhost")
	assert.Error(t, err)
}
