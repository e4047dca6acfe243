package dataset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Date is a calendar date stored as UTC midnight.
type Date struct {
	time.Time
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysUntil is the whole number of days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// FormatValue renders a cell the way the CSV export and console print it.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case decimal.Decimal:
		return val.StringFixed(2)
	case Date:
		return val.String()
	case time.Time:
		return val.Format(TimestampLayout)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Logical column types used by the database writers.
const (
	TypeInteger   = "integer"
	TypeFloat     = "float"
	TypeDecimal   = "decimal"
	TypeText      = "text"
	TypeBoolean   = "boolean"
	TypeDate      = "date"
	TypeTimestamp = "timestamp"
)

// ColumnType infers the logical type of a column from its first non-nil value.
func (t *Table) ColumnType(col string) string {
	for _, r := range t.Records {
		switch r[col].(type) {
		case nil:
			continue
		case int64, int, int32:
			return TypeInteger
		case float64:
			return TypeFloat
		case decimal.Decimal:
			return TypeDecimal
		case bool:
			return TypeBoolean
		case Date:
			return TypeDate
		case time.Time:
			return TypeTimestamp
		default:
			return TypeText
		}
	}
	return TypeText
}

// SQLValue converts a cell to a value database/sql drivers accept.
func SQLValue(v any) any {
	switch val := v.(type) {
	case Date:
		return val.Time
	case decimal.Decimal:
		return val.InexactFloat64()
	case int:
		return int64(val)
	default:
		return val
	}
}
