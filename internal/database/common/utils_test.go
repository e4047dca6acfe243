package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

func TestColumnsAndRows(t *testing.T) {
	table := dataset.NewTable("loan_payments", []string{"payment_id", "scheduled_date", "actual_date"})
	table.Append(dataset.Record{"payment_id": int64(1), "scheduled_date": dataset.NewDate(2021, 5, 1), "actual_date": nil})

	typeMap := map[string]string{
		dataset.TypeInteger: "BIGINT",
		dataset.TypeDate:    "DATE",
		dataset.TypeText:    "TEXT",
	}
	cols := Columns(table, typeMap)
	assert.Equal(t, []Column{
		{Name: "payment_id", Type: "BIGINT"},
		{Name: "scheduled_date", Type: "DATE"},
		{Name: "actual_date", Type: "TEXT"},
	}, cols)

	rows := Rows(table, dataset.SQLValue)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0][0])
	assert.Nil(t, rows[0][2])

	sql := CreateTableSQL(`"bronze"."loan_payments"`, cols, QuoteDouble)
	assert.Contains(t, sql, `CREATE TABLE "bronze"."loan_payments"`)
	assert.Contains(t, sql, `"scheduled_date" DATE`)
}

func TestCheckIdentifiers(t *testing.T) {
	ok := dataset.NewTable("accounts", []string{"account_id"})
	assert.NoError(t, CheckIdentifiers("bronze", ok))
	assert.Error(t, CheckIdentifiers("", ok))
	assert.Error(t, CheckIdentifiers("bronze", dataset.NewTable("accounts", nil)))
	assert.Error(t, CheckIdentifiers("bronze", dataset.NewTable("x-y", []string{"a"})))

	indicators := dataset.NewTable("economic_indicators", []string{"date", "10yr_treasury_yield"})
	assert.NoError(t, CheckIdentifiers("bronze", indicators))
	assert.Error(t, CheckIdentifiers("10yr", indicators))
	assert.Error(t, CheckIdentifiers("bronze", dataset.NewTable("accounts", []string{`bad"col`})))
}

func TestValidColumnName(t *testing.T) {
	assert.True(t, ValidColumnName("10yr_treasury_yield"))
	assert.True(t, ValidColumnName("account_id"))
	assert.False(t, ValidColumnName(""))
	assert.False(t, ValidColumnName(strings.Repeat("a", 64)))
	assert.False(t, ValidColumnName("a`b"))
	assert.False(t, ValidColumnName(`a"b`))
	assert.False(t, ValidColumnName("a'b"))
	assert.False(t, ValidColumnName("a\x00b"))
}

func TestBatchSize(t *testing.T) {
	assert.Equal(t, 1000, BatchSize(65535, 10))
	assert.Equal(t, 327, BatchSize(32766, 100))
	assert.Equal(t, 1, BatchSize(10, 100))
	assert.Equal(t, 1, BatchSize(10, 0))
}
