package generator

import (
	"fmt"
	"sort"
	"time"

	"github.com/Lumos-Labs-HQ/banksynth/internal/amount"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

const fraudRate = 0.001

var declineReasons = []any{nil, nil, nil, "Insufficient Funds", "Invalid Card", "Fraud Suspected"}

func buildTransactions(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	accounts, err := bc.Upstream(TableAccounts)
	if err != nil {
		return nil, err
	}
	merchants, err := bc.Upstream(TableMerchants)
	if err != nil {
		return nil, err
	}

	active := accounts.Filter(func(r dataset.Record) bool {
		return r.String("account_status") == StatusActive
	})
	if len(active) == 0 {
		return nil, ErrNoActiveAccounts
	}

	columns := []seeder.Column{
		pickFrom("_account", active),
		pickFrom("_merchant", merchants.Records),
		seeder.RowNumber("transaction_id"),
		seeder.Derived("account_id", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_account").Int("account_id")
		}),
		seeder.Derived("customer_id", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_account").Int("customer_id")
		}),
		seeder.Derived("merchant_id", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_merchant").Int("merchant_id")
		}),
		seeder.Derived("transaction_date", func(g *seeder.DataGenerator, row dataset.Record) any {
			from, to := activeWindow(ref(row, "_account"), bc.Horizon)
			return g.DateBetween(from, to)
		}),
		seeder.List("transaction_type", amount.TransactionTypes...),
		seeder.Derived("amount", func(g *seeder.DataGenerator, row dataset.Record) any {
			return amount.Transaction(row.String("transaction_type")).Draw(g)
		}),
		seeder.Const("currency", "USD"),
		seeder.List("channel", "Online", "Mobile", "ATM", "Branch", "POS"),
		seeder.Derived("merchant_category", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_merchant")["category"]
		}),
		seeder.Derived("mcc_code", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_merchant")["mcc_code"]
		}),
		seeder.Derived("description", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return fmt.Sprintf("%s at %s", row.String("transaction_type"), ref(row, "_merchant").String("merchant_name"))
		}),
		seeder.Derived("is_fraud", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return g.Chance(fraudRate)
		}),
		seeder.Derived("fraud_score", func(g *seeder.DataGenerator, row dataset.Record) any {
			if row.Bool("is_fraud") {
				return seeder.Round(g.Uniform(0, 1), 4)
			}
			return seeder.Round(g.Uniform(0, 0.3), 4)
		}),
		seeder.Derived("location_city", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_merchant")["city"]
		}),
		seeder.Derived("location_state", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_merchant")["state"]
		}),
		seeder.Derived("location_country", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_merchant")["country"]
		}),
		seeder.Derived("latitude", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_merchant")["latitude"]
		}),
		seeder.Derived("longitude", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_merchant")["longitude"]
		}),
		seeder.Fake("device_id", seeder.FakeUUID).WithBlank(0.3),
		seeder.Fake("ip_address", seeder.FakeIPv4).WithBlank(0.2),
		seeder.Bool("is_international"),
		seeder.Pattern("authorization_code", "^^######"),
		seeder.Derived("card_last_four", func(g *seeder.DataGenerator, row dataset.Record) any {
			switch row.String("transaction_type") {
			case "Purchase", "ATM Withdrawal":
				return int64(g.IntBetween(0, 9999))
			}
			return nil
		}),
		seeder.Derived("is_recurring", func(g *seeder.DataGenerator, row dataset.Record) any {
			return row.String("transaction_type") == "Purchase" && g.Chance(0.5)
		}),
		seeder.IntRange("hour_of_day", 0, 23),
		seeder.Derived("day_of_week", func(_ *seeder.DataGenerator, row dataset.Record) any {
			// Monday is 0.
			return int64((row.Date("transaction_date").Weekday() + 6) % 7)
		}),
		seeder.Derived("is_weekend", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return row.Int("day_of_week") >= 5
		}),
		seeder.FloatRange("distance_from_home_km", 0, 500, 2),
		seeder.FloatRange("merchant_risk_score", 0, 1, 2),
		seeder.IntRange("velocity_24h", 1, 10),
		seeder.FloatRange("amount_deviation_score", 0, 1, 2),
		seeder.IntRange("processing_time_ms", 100, 5000),
		seeder.Derived("decline_reason", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return seeder.Choose(g, declineReasons)
		}),
	}

	t, err := craft(g, TableTransactions, Between(g, bc.Transactions, 2), columns)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(t.Records, func(i, j int) bool {
		return t.Records[i].Date("transaction_date").Before(t.Records[j].Date("transaction_date"))
	})
	return t, nil
}

func buildFraudAlerts(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	transactions, err := bc.Upstream(TableTransactions)
	if err != nil {
		return nil, err
	}

	// The current transaction is read by the derived columns below.
	var trans dataset.Record
	columns := []seeder.Column{
		seeder.RowNumber("alert_id"),
		seeder.Derived("transaction_id", func(*seeder.DataGenerator, dataset.Record) any { return trans.Int("transaction_id") }),
		seeder.Derived("customer_id", func(*seeder.DataGenerator, dataset.Record) any { return trans.Int("customer_id") }),
		seeder.Derived("account_id", func(*seeder.DataGenerator, dataset.Record) any { return trans.Int("account_id") }),
		seeder.Derived("alert_date", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return trans.Time("transaction_date").Add(time.Duration(g.IntBetween(1, 120)) * time.Minute)
		}),
		seeder.List("alert_type", "Unusual Spending", "Geographic Anomaly", "Velocity Check", "High Risk Merchant"),
		seeder.List("alert_severity", "Low", "Medium", "High", "Critical"),
		seeder.List("investigation_status", "Open", "Under Review", "Resolved - Fraud", "Resolved - Legitimate", "False Positive"),
		seeder.Derived("resolution_date", func(g *seeder.DataGenerator, row dataset.Record) any {
			if !g.Chance(0.7) {
				return nil
			}
			resolved := row.Time("alert_date").AddDate(0, 0, g.IntBetween(1, 30))
			if dataset.DateOf(resolved).After(bc.Horizon) {
				return nil
			}
			return resolved
		}),
		seeder.Derived("amount_recovered", func(g *seeder.DataGenerator, _ dataset.Record) any {
			if !g.Chance(0.5) {
				return seeder.RoundMoney(0)
			}
			return seeder.RoundMoney(trans.Decimal("amount").Abs().InexactFloat64() * g.Float64())
		}),
		seeder.Fake("assigned_to", seeder.FakeFullName),
		seeder.Derived("notes", func(*seeder.DataGenerator, dataset.Record) any {
			return "Suspicious activity detected: " + trans.String("description")
		}),
	}

	c, err := seeder.NewCrafter(g, columns)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s schema: %w", TableFraudAlerts, err)
	}

	t := dataset.NewTable(TableFraudAlerts, c.Columns())
	var id int64
	for _, r := range transactions.Records {
		if !r.Bool("is_fraud") {
			continue
		}
		trans = r
		id++
		t.Append(c.One(id))
	}
	return t, nil
}
