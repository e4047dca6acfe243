package generator

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Lumos-Labs-HQ/banksynth/internal/amount"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

const (
	StatusActive  = "Active"
	StatusDormant = "Dormant"
	StatusClosed  = "Closed"
)

var accountColumns = []string{
	"account_id", "customer_id", "product_id", "account_number", "account_status",
	"open_date", "close_date", "current_balance", "available_balance", "credit_limit",
	"currency", "interest_rate", "minimum_payment", "payment_due_date",
	"last_statement_date", "autopay_enabled", "overdraft_protection", "primary_account",
}

// closeDateFor draws a close date in (open, horizon], preferring at least 30
// days of life. It fails when the account opens on the horizon.
func closeDateFor(g *seeder.DataGenerator, open, horizon dataset.Date) (dataset.Date, bool) {
	room := open.DaysUntil(horizon)
	if room < 1 {
		return dataset.Date{}, false
	}
	return open.AddDays(g.IntBetween(min(30, room), min(1000, room))), true
}

func buildAccounts(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	customers, err := bc.Upstream(TableCustomers)
	if err != nil {
		return nil, err
	}
	products, err := bc.Upstream(TableProducts)
	if err != nil {
		return nil, err
	}

	t := dataset.NewTable(TableAccounts, accountColumns)
	var id int64
	for _, customer := range customers.Records {
		signup := customer.Date("signup_date")
		count := g.IntBetween(1, 5)

		for i := 0; i < count; i++ {
			product := seeder.Choose(g, products.Records)
			category := product.String("category")

			room := max(0, signup.DaysUntil(bc.Horizon))
			open := signup.AddDays(g.IntBetween(0, min(365, room)))

			var limit decimal.Decimal
			var creditLimit, minimumPayment any
			if category == amount.CategoryCredit {
				limit = seeder.RoundMoney(g.Uniform(1000, 50000))
				creditLimit = limit
			}
			balance := amount.Balance(category, limit).Draw(g)
			if category == amount.CategoryCredit {
				minimumPayment = balance.Abs().Mul(decimal.NewFromFloat(0.02)).Round(2)
			}

			available := balance
			if balance.IsPositive() {
				available = seeder.RoundMoney(balance.InexactFloat64() * g.Uniform(0.8, 1.0))
			}

			status := seeder.Pick(g, StatusActive, StatusActive, StatusActive, StatusDormant, StatusClosed)
			var closeDate any
			if status == StatusClosed || g.Chance(0.1) {
				if d, ok := closeDateFor(g, open, bc.Horizon); ok {
					closeDate = d
				} else if status == StatusClosed {
					status = StatusActive
				}
			}

			var paymentDue any
			if category == amount.CategoryCredit || category == amount.CategoryLoan {
				paymentDue = bc.Horizon.AddDays(g.IntBetween(1, 30))
			}

			overdraft := false
			if category == amount.CategoryDeposit {
				overdraft = g.Chance(0.5)
			}

			id++
			t.Append(dataset.Record{
				"account_id":           id,
				"customer_id":          customer.Int("customer_id"),
				"product_id":           product.Int("product_id"),
				"account_number":       strconv.FormatInt(g.Int64Between(100000000000, 1000000000000000), 10),
				"account_status":       status,
				"open_date":            open,
				"close_date":           closeDate,
				"current_balance":      balance,
				"available_balance":    available,
				"credit_limit":         creditLimit,
				"currency":             "USD",
				"interest_rate":        seeder.Round(product.Float("interest_rate")*g.Uniform(0.9, 1.1), 4),
				"minimum_payment":      minimumPayment,
				"payment_due_date":     paymentDue,
				"last_statement_date":  g.DateBetween(open, bc.Horizon),
				"autopay_enabled":      g.Chance(0.5),
				"overdraft_protection": overdraft,
				"primary_account":      g.Chance(0.5),
			})
		}
	}
	return t, nil
}

// activeWindow is the span in which an account can carry activity.
func activeWindow(account dataset.Record, horizon dataset.Date) (dataset.Date, dataset.Date) {
	end := horizon
	if !account.IsNull("close_date") {
		end = dataset.MinDate(end, account.Date("close_date"))
	}
	return account.Date("open_date"), end
}

func productsByCategory(products *dataset.Table) map[int64]string {
	out := make(map[int64]string, products.Len())
	for _, p := range products.Records {
		out[p.Int("product_id")] = p.String("category")
	}
	return out
}
