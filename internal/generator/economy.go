package generator

import (
	"time"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

type cadence int

const (
	daily cadence = iota
	weekly
	monthly
	quarterly
)

// due reports whether a series with this cadence publishes a new value on d.
func (c cadence) due(d dataset.Date) bool {
	switch c {
	case daily:
		return true
	case weekly:
		return d.Weekday() == time.Thursday
	case monthly:
		return d.Day() == 1
	case quarterly:
		return d.Day() == 1 && (d.Month()-1)%3 == 0
	}
	return false
}

// indicator is a bounded random walk. Relative walks step by a fraction of
// the current value, absolute walks by a fixed amount.
type indicator struct {
	column   string
	start    float64
	low      float64
	high     float64
	step     float64
	relative bool
	decimals int
	cadence  cadence
}

var indicators = []indicator{
	{column: "gdp_growth_rate", start: 2.0, low: -8, high: 8, step: 0.8, decimals: 2, cadence: quarterly},
	{column: "unemployment_rate", start: 9.5, low: 3, high: 15, step: 0.2, decimals: 1, cadence: monthly},
	{column: "inflation_rate", start: 2.0, low: -2, high: 10, step: 0.3, decimals: 2, cadence: monthly},
	{column: "federal_funds_rate", start: 0.25, low: 0, high: 6, step: 0.15, decimals: 2, cadence: monthly},
	{column: "sp500_index", start: 1100, low: 600, high: 7000, step: 0.012, relative: true, decimals: 2, cadence: daily},
	{column: "vix_index", start: 20, low: 9, high: 80, step: 1.2, decimals: 2, cadence: daily},
	{column: "consumer_confidence_index", start: 75, low: 50, high: 110, step: 2, decimals: 1, cadence: monthly},
	{column: "housing_price_index", start: 145, low: 100, high: 350, step: 0.006, relative: true, decimals: 3, cadence: monthly},
	{column: "10yr_treasury_yield", start: 3.5, low: 0.5, high: 5.5, step: 0.04, decimals: 2, cadence: daily},
	{column: "mortgage_rate_30yr", start: 4.8, low: 2.5, high: 8, step: 0.06, decimals: 2, cadence: weekly},
}

func (ind indicator) next(g *seeder.DataGenerator, v float64) float64 {
	delta := g.Uniform(-ind.step, ind.step)
	if ind.relative {
		delta *= v
	}
	return min(ind.high, max(ind.low, v+delta))
}

func buildEconomicIndicators(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	columns := []string{"date"}
	values := make([]float64, len(indicators))
	for i, ind := range indicators {
		columns = append(columns, ind.column)
		values[i] = ind.next(g, ind.start)
	}

	t := dataset.NewTable(TableEconomic, columns)
	for d := bc.Start; !d.After(bc.Horizon); d = d.AddDays(1) {
		row := dataset.Record{"date": d}
		for i, ind := range indicators {
			if d.After(bc.Start) && ind.cadence.due(d) {
				values[i] = ind.next(g, values[i])
			}
			row[ind.column] = seeder.Round(values[i], ind.decimals)
		}
		t.Append(row)
	}
	return t, nil
}
