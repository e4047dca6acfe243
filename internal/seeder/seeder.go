package seeder

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

// Crafter turns a column schema into rows.
type Crafter struct {
	gen     *DataGenerator
	columns []Column
	output  []string
}

func NewCrafter(gen *DataGenerator, columns []Column) (*Crafter, error) {
	if err := validateSchema(columns); err != nil {
		return nil, err
	}

	var output []string
	for _, col := range columns {
		if !col.Scratch() {
			output = append(output, col.Label)
		}
	}

	return &Crafter{
		gen:     gen,
		columns: columns,
		output:  output,
	}, nil
}

func validateSchema(columns []Column) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}

	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.Label == "" {
			return fmt.Errorf("%w: column without label", ErrInvalidSchema)
		}
		if seen[col.Label] {
			return fmt.Errorf("%w: duplicate column %s", ErrInvalidSchema, col.Label)
		}
		seen[col.Label] = true

		if col.Blank < 0 || col.Blank > 1 {
			return fmt.Errorf("%w: column %s blank probability %v outside [0,1]", ErrInvalidSchema, col.Label, col.Blank)
		}

		switch col.Kind {
		case KindList:
			if len(col.Values) == 0 {
				return fmt.Errorf("%w: list column %s has no values", ErrInvalidSchema, col.Label)
			}
		case KindIntRange, KindFloatRange, KindMoneyRange:
			if col.Min > col.Max {
				return fmt.Errorf("%w: column %s min %v > max %v", ErrInvalidSchema, col.Label, col.Min, col.Max)
			}
		case KindDateRange:
			if col.From.After(col.To) {
				return fmt.Errorf("%w: column %s from %s after to %s", ErrInvalidSchema, col.Label, col.From, col.To)
			}
		case KindPattern:
			if col.Format == "" {
				return fmt.Errorf("%w: pattern column %s has no format", ErrInvalidSchema, col.Label)
			}
		case KindDerived:
			if col.Derive == nil {
				return fmt.Errorf("%w: derived column %s has no function", ErrInvalidSchema, col.Label)
			}
		case KindRowNumber, KindBool, KindConst, KindFake:
		default:
			return fmt.Errorf("%w: column %s has unknown kind %d", ErrInvalidSchema, col.Label, col.Kind)
		}
	}
	return nil
}

// Columns lists the output columns in schema order.
func (c *Crafter) Columns() []string {
	out := make([]string, len(c.output))
	copy(out, c.output)
	return out
}

// Many builds a table of n rows numbered from 1.
func (c *Crafter) Many(name string, n int) *dataset.Table {
	table := dataset.NewTable(name, c.Columns())
	table.Records = make([]dataset.Record, 0, n)
	for i := 1; i <= n; i++ {
		table.Append(c.One(int64(i)))
	}
	return table
}

// One builds a single row.
func (c *Crafter) One(rowNumber int64) dataset.Record {
	row := make(dataset.Record, len(c.columns))
	for _, col := range c.columns {
		row[col.Label] = c.value(col, row, rowNumber)
	}
	for _, col := range c.columns {
		if col.Scratch() {
			delete(row, col.Label)
		}
	}
	return row
}

func (c *Crafter) value(col Column, row dataset.Record, rowNumber int64) any {
	g := c.gen
	if col.Blank > 0 && g.Chance(col.Blank) {
		return nil
	}

	switch col.Kind {
	case KindRowNumber:
		return rowNumber
	case KindList:
		return Choose(g, col.Values)
	case KindIntRange:
		return int64(g.IntBetween(int(col.Min), int(col.Max)))
	case KindFloatRange:
		return Round(g.Uniform(col.Min, col.Max), col.Decimals)
	case KindMoneyRange:
		return g.Money(col.Min, col.Max)
	case KindDateRange:
		return g.DateBetween(col.From, col.To)
	case KindBool:
		return g.Chance(0.5)
	case KindConst:
		return col.Value
	case KindFake:
		return g.Fake(col.Fake)
	case KindPattern:
		return g.Pattern(col.Format)
	case KindDerived:
		return col.Derive(g, row)
	default:
		return nil
	}
}
