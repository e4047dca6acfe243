package generator

import (
	"github.com/shopspring/decimal"

	"github.com/Lumos-Labs-HQ/banksynth/internal/amount"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

// LoanPaymentStep is the fixed spacing of scheduled loan payments, in days.
const LoanPaymentStep = 30

var loanPaymentColumns = []string{
	"payment_id", "account_id", "customer_id", "scheduled_date", "actual_date",
	"scheduled_amount", "actual_amount", "is_late", "days_late", "late_fee",
	"payment_method", "outstanding_balance",
}

func buildLoanPayments(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	accounts, err := bc.Upstream(TableAccounts)
	if err != nil {
		return nil, err
	}
	products, err := bc.Upstream(TableProducts)
	if err != nil {
		return nil, err
	}
	categories := productsByCategory(products)

	t := dataset.NewTable(TableLoanPayments, loanPaymentColumns)
	var id int64
	for _, account := range accounts.Records {
		if categories[account.Int("product_id")] != amount.CategoryLoan {
			continue
		}

		principal := account.Decimal("current_balance").Abs()
		scheduled := principal.Mul(decimal.NewFromFloat(0.02)).Round(2)
		open, end := activeWindow(account, bc.Horizon)
		dates := walk(g, open, end, g.IntBetween(6, 60), fixedStep(LoanPaymentStep))

		for _, due := range dates {
			isLate := g.Chance(0.15)
			paid := due
			daysLate := int64(0)
			lateFee := decimal.Zero
			if isLate {
				daysLate = int64(g.IntBetween(1, 15))
				paid = due.AddDays(int(daysLate))
				lateFee = g.Money(25, 50)
			}

			var actualDate any = paid
			if g.Chance(0.05) || paid.After(bc.Horizon) {
				actualDate = nil
			}

			actualAmount := decimal.Zero
			if !g.Chance(0.05) {
				actualAmount = seeder.RoundMoney(scheduled.InexactFloat64() * g.Uniform(0.9, 1.1))
			}

			id++
			t.Append(dataset.Record{
				"payment_id":          id,
				"account_id":          account.Int("account_id"),
				"customer_id":         account.Int("customer_id"),
				"scheduled_date":      due,
				"actual_date":         actualDate,
				"scheduled_amount":    scheduled,
				"actual_amount":       actualAmount,
				"is_late":             isLate,
				"days_late":           daysLate,
				"late_fee":            lateFee.Round(2),
				"payment_method":      seeder.Pick(g, "ACH", "Check", "Online", "Wire Transfer"),
				"outstanding_balance": seeder.RoundMoney(principal.InexactFloat64() * g.Uniform(0.5, 1.0)),
			})
		}
	}
	return t, nil
}
