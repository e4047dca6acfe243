package seeder

import (
	"errors"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

var ErrInvalidSchema = errors.New("invalid column schema")

// Kind selects how a column value is produced.
type Kind int

const (
	KindRowNumber Kind = iota
	KindList
	KindIntRange
	KindFloatRange
	KindMoneyRange
	KindDateRange
	KindBool
	KindConst
	KindFake
	KindPattern
	KindDerived
)

func (k Kind) String() string {
	switch k {
	case KindRowNumber:
		return "row_number"
	case KindList:
		return "list"
	case KindIntRange:
		return "int_range"
	case KindFloatRange:
		return "float_range"
	case KindMoneyRange:
		return "money_range"
	case KindDateRange:
		return "date_range"
	case KindBool:
		return "bool"
	case KindConst:
		return "const"
	case KindFake:
		return "fake"
	case KindPattern:
		return "pattern"
	case KindDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// DeriveFunc computes a column from the generator and the columns built so far.
type DeriveFunc func(g *DataGenerator, row dataset.Record) any

// Column is one entry of a table schema. Only the fields of its Kind are used.
type Column struct {
	Label    string
	Kind     Kind
	Values   []any
	Min, Max float64
	Decimals int
	From, To dataset.Date
	Fake     FakeKind
	Format   string
	Value    any
	Derive   DeriveFunc
	// Blank is the probability of emitting nil instead of a value.
	Blank float64
}

// Scratch columns feed later derived columns and are dropped from the output.
func (c Column) Scratch() bool {
	return len(c.Label) > 0 && c.Label[0] == '_'
}

func (c Column) WithBlank(p float64) Column {
	c.Blank = p
	return c
}

func RowNumber(label string) Column {
	return Column{Label: label, Kind: KindRowNumber}
}

func List(label string, values ...string) Column {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Column{Label: label, Kind: KindList, Values: vals}
}

func IntList(label string, values ...int64) Column {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Column{Label: label, Kind: KindList, Values: vals}
}

func FloatList(label string, values ...float64) Column {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Column{Label: label, Kind: KindList, Values: vals}
}

func IntRange(label string, min, max int64) Column {
	return Column{Label: label, Kind: KindIntRange, Min: float64(min), Max: float64(max)}
}

func FloatRange(label string, min, max float64, decimals int) Column {
	return Column{Label: label, Kind: KindFloatRange, Min: min, Max: max, Decimals: decimals}
}

func MoneyRange(label string, min, max float64) Column {
	return Column{Label: label, Kind: KindMoneyRange, Min: min, Max: max, Decimals: 2}
}

func DateRange(label string, from, to dataset.Date) Column {
	return Column{Label: label, Kind: KindDateRange, From: from, To: to}
}

func Bool(label string) Column {
	return Column{Label: label, Kind: KindBool}
}

func Const(label string, value any) Column {
	return Column{Label: label, Kind: KindConst, Value: value}
}

func Fake(label string, kind FakeKind) Column {
	return Column{Label: label, Kind: KindFake, Fake: kind}
}

// Pattern fills '^' with an upper-case letter and '#' with a digit.
func Pattern(label, format string) Column {
	return Column{Label: label, Kind: KindPattern, Format: format}
}

func Derived(label string, fn DeriveFunc) Column {
	return Column{Label: label, Kind: KindDerived, Derive: fn}
}
