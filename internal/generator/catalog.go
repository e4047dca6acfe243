package generator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Lumos-Labs-HQ/banksynth/internal/amount"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/geo"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

type product struct {
	id             int64
	name           string
	category       string
	interestRate   float64
	minBalance     int64
	monthlyFee     int64
	overdraftLimit int64
	tier           string
	premium        bool
}

var catalogue = []product{
	{1, "Checking Account", amount.CategoryDeposit, 0.01, 0, 0, 100, "Basic", false},
	{2, "Savings Account", amount.CategoryDeposit, 0.03, 100, 0, 0, "Basic", false},
	{3, "Credit Card", amount.CategoryCredit, 0.18, 0, 0, 0, "Standard", false},
	{4, "Personal Loan", amount.CategoryLoan, 0.08, 0, 0, 0, "Standard", false},
	{5, "Mortgage", amount.CategoryLoan, 0.045, 0, 0, 0, "Premium", true},
	{6, "Investment Account", amount.CategoryInvestment, 0.0, 1000, 25, 0, "Premium", true},
	{7, "Business Checking", amount.CategoryDeposit, 0.015, 1000, 15, 500, "Business", true},
	{8, "Auto Loan", amount.CategoryLoan, 0.055, 0, 0, 0, "Standard", false},
	{9, "Premium Credit Card", amount.CategoryCredit, 0.15, 0, 95, 0, "Premium", true},
	{10, "Money Market Account", amount.CategoryDeposit, 0.04, 2500, 0, 0, "Premium", true},
}

func buildProducts(_ *BuildContext, _ *seeder.DataGenerator) (*dataset.Table, error) {
	t := dataset.NewTable(TableProducts, []string{
		"product_id", "product_name", "category", "interest_rate", "min_balance",
		"monthly_fee", "overdraft_limit", "product_tier", "is_premium",
	})
	for _, p := range catalogue {
		t.Append(dataset.Record{
			"product_id":      p.id,
			"product_name":    p.name,
			"category":        p.category,
			"interest_rate":   p.interestRate,
			"min_balance":     decimal.NewFromInt(p.minBalance),
			"monthly_fee":     decimal.NewFromInt(p.monthlyFee),
			"overdraft_limit": decimal.NewFromInt(p.overdraftLimit),
			"product_tier":    p.tier,
			"is_premium":      p.premium,
		})
	}
	return t, nil
}

func locationColumn(bc *BuildContext) seeder.Column {
	return seeder.Derived("_location", func(g *seeder.DataGenerator, _ dataset.Record) any {
		return bc.Location(g)
	})
}

func fromLocation(label string, field func(geo.Location) any) seeder.Column {
	return seeder.Derived(label, func(_ *seeder.DataGenerator, row dataset.Record) any {
		loc, _ := row["_location"].(geo.Location)
		return field(loc)
	})
}

func cityOf(l geo.Location) any  { return l.City }
func stateOf(l geo.Location) any { return l.StateID }
func zipOf(l geo.Location) any   { return l.Zip }
func latOf(l geo.Location) any   { return l.Lat }
func lngOf(l geo.Location) any   { return l.Lng }

// ref returns the upstream record stashed in a scratch column.
func ref(row dataset.Record, label string) dataset.Record {
	r, _ := row[label].(dataset.Record)
	return r
}

func pickFrom(label string, records []dataset.Record) seeder.Column {
	return seeder.Derived(label, func(g *seeder.DataGenerator, _ dataset.Record) any {
		return seeder.Choose(g, records)
	})
}

func craft(g *seeder.DataGenerator, name string, n int, columns []seeder.Column) (*dataset.Table, error) {
	c, err := seeder.NewCrafter(g, columns)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s schema: %w", name, err)
	}
	return c.Many(name, n), nil
}

var merchantCategories = []string{
	"Grocery", "Restaurant", "Gas Station", "Retail", "Entertainment",
	"Healthcare", "Utilities", "Travel", "Online Shopping", "Services",
}

func buildMerchants(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	columns := []seeder.Column{
		locationColumn(bc),
		seeder.RowNumber("merchant_id"),
		seeder.Fake("merchant_name", seeder.FakeCompany),
		seeder.List("category", merchantCategories...),
		seeder.IntRange("mcc_code", 1000, 9999),
		fromLocation("city", cityOf),
		fromLocation("state", stateOf),
		seeder.Const("country", "USA"),
		fromLocation("latitude", latOf),
		fromLocation("longitude", lngOf),
		seeder.List("risk_rating", "Low", "Medium", "High"),
		seeder.MoneyRange("avg_transaction_amount", 5, 1000),
		seeder.Bool("is_online"),
		seeder.DateRange("established_date", dataset.NewDate(2000, 1, 1), bc.Horizon),
	}
	return craft(g, TableMerchants, Between(g, bc.Volumes.Merchants, 2), columns)
}
