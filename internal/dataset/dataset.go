package dataset

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one generated row keyed by column name.
type Record map[string]any

// Table is a named, column-ordered set of records.
type Table struct {
	Name    string
	Columns []string
	Records []Record
}

func NewTable(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: columns,
		Records: []Record{},
	}
}

func (t *Table) Append(r Record) {
	t.Records = append(t.Records, r)
}

func (t *Table) Len() int {
	return len(t.Records)
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Filter returns the records matching keep, in table order.
func (t *Table) Filter(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range t.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Index maps the int64 value of column to its record. Later duplicates win.
func (t *Table) Index(column string) map[int64]Record {
	idx := make(map[int64]Record, len(t.Records))
	for _, r := range t.Records {
		if r.IsNull(column) {
			continue
		}
		idx[r.Int(column)] = r
	}
	return idx
}

// Set is the ordered collection of tables produced by one generation run.
type Set struct {
	order  []string
	tables map[string]*Table
}

func NewSet() *Set {
	return &Set{tables: make(map[string]*Table)}
}

// Put adds or replaces a table, keeping its first insertion position.
func (s *Set) Put(t *Table) {
	if _, exists := s.tables[t.Name]; !exists {
		s.order = append(s.order, t.Name)
	}
	s.tables[t.Name] = t
}

func (s *Set) Get(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// MustGet returns the named table or an empty one.
func (s *Set) MustGet(name string) *Table {
	if t, ok := s.tables[name]; ok {
		return t
	}
	return NewTable(name, nil)
}

func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Tables() []*Table {
	out := make([]*Table, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tables[name])
	}
	return out
}

func (r Record) IsNull(col string) bool {
	v, ok := r[col]
	return !ok || v == nil
}

func (r Record) Int(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case decimal.Decimal:
		return v.IntPart()
	default:
		return 0
	}
}

func (r Record) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

func (r Record) Decimal(col string) decimal.Decimal {
	switch v := r[col].(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		return decimal.Zero
	}
}

func (r Record) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return FormatValue(v)
	}
}

func (r Record) Bool(col string) bool {
	b, _ := r[col].(bool)
	return b
}

// Time returns the column as a time.Time; dates convert to UTC midnight.
func (r Record) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v
	case Date:
		return v.Time
	default:
		return time.Time{}
	}
}

// Date returns the calendar date of a date or timestamp column.
func (r Record) Date(col string) Date {
	return DateOf(r.Time(col))
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (t *Table) String() string {
	return fmt.Sprintf("%s (%d rows)", t.Name, len(t.Records))
}

// ValidIdentifier reports whether s is safe to splice into SQL as a bare
// schema or table name.
func ValidIdentifier(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for i, ch := range s {
		switch {
		case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
