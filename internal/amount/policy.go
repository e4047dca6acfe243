package amount

import (
	"github.com/shopspring/decimal"

	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

type Sign int

const (
	Either   Sign = 0
	Positive Sign = 1
	Negative Sign = -1
)

// tolerance absorbs the 2-dp rounding of drawn amounts.
var tolerance = decimal.NewFromFloat(0.01)

// Rule bounds the magnitude of an amount and fixes its sign.
type Rule struct {
	Sign Sign
	Low  float64
	High float64
}

// Draw picks a magnitude uniformly in [Low, High) and applies the sign.
func (r Rule) Draw(g *seeder.DataGenerator) decimal.Decimal {
	v := seeder.RoundMoney(g.Uniform(r.Low, r.High))
	switch r.Sign {
	case Negative:
		return v.Neg()
	case Either:
		if g.Chance(0.5) {
			return v.Neg()
		}
	}
	return v
}

// Allows reports whether v satisfies the rule's sign and magnitude bounds.
func (r Rule) Allows(v decimal.Decimal) bool {
	switch r.Sign {
	case Positive:
		if v.IsNegative() {
			return false
		}
	case Negative:
		if v.IsPositive() {
			return false
		}
	}
	mag := v.Abs()
	low := decimal.NewFromFloat(r.Low).Sub(tolerance)
	high := decimal.NewFromFloat(r.High).Add(tolerance)
	return mag.GreaterThanOrEqual(low) && mag.LessThanOrEqual(high)
}

const (
	CategoryDeposit    = "Deposit"
	CategoryCredit     = "Credit"
	CategoryLoan       = "Loan"
	CategoryInvestment = "Investment"
)

// creditUtilisation caps a credit balance at this share of the limit.
const creditUtilisation = 0.7

var balanceRules = map[string]Rule{
	CategoryDeposit:    {Sign: Positive, Low: 100, High: 100000},
	CategoryLoan:       {Sign: Negative, Low: 5000, High: 500000},
	CategoryInvestment: {Sign: Positive, Low: 1000, High: 500000},
}

var otherBalance = Rule{Sign: Positive, Low: 1000, High: 500000}

// Balance returns the opening-balance rule of a product category. Credit
// balances depend on the account's limit.
func Balance(category string, creditLimit decimal.Decimal) Rule {
	if category == CategoryCredit {
		return Rule{Sign: Negative, Low: 0, High: creditLimit.InexactFloat64() * creditUtilisation}
	}
	if r, ok := balanceRules[category]; ok {
		return r
	}
	return otherBalance
}

var transactionRules = map[string]Rule{
	"Purchase":       {Sign: Negative, Low: 5, High: 2000},
	"ATM Withdrawal": {Sign: Negative, Low: 5, High: 2000},
	"Fee":            {Sign: Negative, Low: 5, High: 2000},
	"Deposit":        {Sign: Positive, Low: 50, High: 5000},
	"Refund":         {Sign: Positive, Low: 50, High: 5000},
}

var otherTransaction = Rule{Sign: Either, Low: 10, High: 3000}

var TransactionTypes = []string{"Purchase", "ATM Withdrawal", "Transfer", "Payment", "Deposit", "Refund", "Fee"}

func Transaction(transactionType string) Rule {
	if r, ok := transactionRules[transactionType]; ok {
		return r
	}
	return otherTransaction
}
