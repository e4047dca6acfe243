package dataset

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetKeepsInsertionOrder(t *testing.T) {
	s := NewSet()
	s.Put(NewTable("b", nil))
	s.Put(NewTable("a", nil))
	s.Put(NewTable("b", []string{"x"}))

	assert.Equal(t, []string{"b", "a"}, s.Names())
	b, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, b.Columns)

	missing := s.MustGet("nope")
	assert.Equal(t, 0, missing.Len())
}

func TestRecordAccessors(t *testing.T) {
	day := NewDate(2024, time.March, 9)
	stamp := time.Date(2024, time.March, 9, 13, 5, 0, 0, time.UTC)
	r := Record{
		"id":     int64(7),
		"amount": decimal.RequireFromString("-12.50"),
		"ratio":  0.25,
		"name":   "Ada",
		"flag":   true,
		"day":    day,
		"at":     stamp,
		"empty":  nil,
	}

	assert.Equal(t, int64(7), r.Int("id"))
	assert.Equal(t, "-12.50", r.Decimal("amount").StringFixed(2))
	assert.Equal(t, -12.5, r.Float("amount"))
	assert.Equal(t, 0.25, r.Float("ratio"))
	assert.Equal(t, "Ada", r.String("name"))
	assert.True(t, r.Bool("flag"))
	assert.Equal(t, day, r.Date("day"))
	assert.Equal(t, day, r.Date("at"))
	assert.Equal(t, stamp, r.Time("at"))
	assert.True(t, r.IsNull("empty"))
	assert.True(t, r.IsNull("absent"))
	assert.Equal(t, "", r.String("empty"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "0.125", FormatValue(0.125))
	assert.Equal(t, "3.10", FormatValue(decimal.NewFromFloat(3.1)))
	assert.Equal(t, "2024-03-09", FormatValue(NewDate(2024, time.March, 9)))
	assert.Equal(t, "2024-03-09 13:05:00", FormatValue(time.Date(2024, time.March, 9, 13, 5, 0, 0, time.UTC)))
}

func TestDateArithmetic(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, 2, d.DaysUntil(d.AddDays(2)))
	assert.Equal(t, -2, d.DaysUntil(d.AddDays(-2)))
	assert.Equal(t, d, MinDate(d, d.AddDays(1)))
	assert.Equal(t, d.AddDays(1), MaxDate(d, d.AddDays(1)))

	_, err = ParseDate("28/02/2024")
	assert.Error(t, err)
}

func TestColumnType(t *testing.T) {
	table := NewTable("t", []string{"a", "b", "c", "d", "e"})
	table.Append(Record{"a": nil, "b": decimal.Zero, "c": NewDate(2024, 1, 1), "d": "x"})
	table.Append(Record{"a": int64(1), "b": decimal.Zero, "c": NewDate(2024, 1, 1), "d": "y"})

	assert.Equal(t, TypeInteger, table.ColumnType("a"))
	assert.Equal(t, TypeDecimal, table.ColumnType("b"))
	assert.Equal(t, TypeDate, table.ColumnType("c"))
	assert.Equal(t, TypeText, table.ColumnType("d"))
	assert.Equal(t, TypeText, table.ColumnType("e"))
}

func TestSQLValue(t *testing.T) {
	day := NewDate(2024, 1, 1)
	assert.Equal(t, day.Time, SQLValue(day))
	assert.Equal(t, 1.5, SQLValue(decimal.NewFromFloat(1.5)))
	assert.Equal(t, int64(3), SQLValue(3))
	assert.Nil(t, SQLValue(nil))
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("bronze"))
	assert.True(t, ValidIdentifier("_raw_2"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("2fast"))
	assert.False(t, ValidIdentifier("bronze; drop"))
}
