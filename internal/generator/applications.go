package generator

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/banksynth/internal/amount"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

type decisionDraw struct {
	decision    string
	probability float64
}

// creditDecision applies the credit-score decision table.
func creditDecision(g *seeder.DataGenerator, score int64) (string, float64) {
	switch {
	case score >= 720:
		return "Approved", 0.9
	case score >= 650:
		return seeder.Pick(g, "Approved", "Approved", "Pending", "Declined"), 0.6
	default:
		return seeder.Pick(g, "Declined", "Declined", "Pending"), 0.2
	}
}

func lendingProducts(products *dataset.Table) []int64 {
	var ids []int64
	for _, p := range products.Records {
		switch p.String("category") {
		case amount.CategoryCredit, amount.CategoryLoan:
			ids = append(ids, p.Int("product_id"))
		}
	}
	return ids
}

func buildCreditApplications(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	customers, err := bc.Upstream(TableCustomers)
	if err != nil {
		return nil, err
	}
	products, err := bc.Upstream(TableProducts)
	if err != nil {
		return nil, err
	}
	lending := lendingProducts(products)
	if len(lending) == 0 {
		return nil, fmt.Errorf("%w: no credit or loan products", ErrEmptyUpstream)
	}

	columns := []seeder.Column{
		pickFrom("_customer", customers.Records),
		seeder.RowNumber("application_id"),
		seeder.Derived("customer_id", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_customer").Int("customer_id")
		}),
		seeder.Derived("product_id", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return seeder.Choose(g, lending)
		}),
		seeder.Derived("application_date", func(g *seeder.DataGenerator, row dataset.Record) any {
			return g.DateBetween(ref(row, "_customer").Date("signup_date"), bc.Horizon)
		}),
		seeder.IntRange("requested_amount", 1000, 100000),
		seeder.IntList("requested_term_months", 12, 24, 36, 48, 60, 120, 360),
		seeder.Derived("credit_score_at_application", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_customer").Int("credit_score")
		}),
		seeder.Derived("annual_income", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_customer").Int("annual_income")
		}),
		seeder.FloatRange("debt_to_income_ratio", 0.1, 0.6, 1),
		seeder.IntRange("employment_length_years", 0, 30),
		seeder.Derived("_decision", func(g *seeder.DataGenerator, row dataset.Record) any {
			decision, probability := creditDecision(g, row.Int("credit_score_at_application"))
			return decisionDraw{decision, probability}
		}),
		seeder.Derived("decision", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return row["_decision"].(decisionDraw).decision
		}),
		seeder.Derived("decision_date", func(g *seeder.DataGenerator, row dataset.Record) any {
			return dataset.MinDate(row.Date("application_date").AddDays(g.IntBetween(1, 14)), bc.Horizon)
		}),
		seeder.Derived("approved_amount", func(g *seeder.DataGenerator, row dataset.Record) any {
			if row.String("decision") != "Approved" {
				return nil
			}
			return g.Money(1000, 100000)
		}),
		seeder.Derived("approved_rate", func(g *seeder.DataGenerator, row dataset.Record) any {
			if row.String("decision") != "Approved" {
				return nil
			}
			return seeder.Round(g.Uniform(0.04, 0.20), 2)
		}),
		seeder.List("application_channel", "Online", "Branch", "Phone", "Mobile"),
		seeder.Derived("approval_probability_score", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return row["_decision"].(decisionDraw).probability
		}),
		seeder.List("risk_grade", "A", "B", "C", "D", "E", "F", "G"),
	}
	return craft(g, TableCreditApplications, Between(g, bc.Volumes.CreditApplications, 2), columns)
}

func interactionNotes(sentiment float64, reason string) string {
	reason = strings.ToLower(reason)
	switch {
	case sentiment < -0.3:
		return fmt.Sprintf("Customer contacted support regarding %s and was dissatisfied.", reason)
	case sentiment > 0.3:
		return fmt.Sprintf("Customer contacted support regarding %s and was satisfied.", reason)
	default:
		return fmt.Sprintf("Customer contacted support regarding %s.", reason)
	}
}

func buildInteractions(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	customers, err := bc.Upstream(TableCustomers)
	if err != nil {
		return nil, err
	}

	columns := []seeder.Column{
		pickFrom("_customer", customers.Records),
		seeder.RowNumber("interaction_id"),
		seeder.Derived("customer_id", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ref(row, "_customer").Int("customer_id")
		}),
		seeder.Derived("interaction_date", func(g *seeder.DataGenerator, row dataset.Record) any {
			return g.DateBetween(ref(row, "_customer").Date("signup_date"), bc.Horizon)
		}),
		seeder.List("interaction_type", "Phone Call", "Email", "Chat", "Branch Visit", "Social Media"),
		seeder.List("reason", "Account Inquiry", "Transaction Dispute", "Product Information",
			"Technical Support", "Complaint", "Fraud Report", "Service Request"),
		seeder.IntRange("duration_minutes", 2, 120),
		seeder.FloatRange("sentiment_score", -1, 1, 2),
		seeder.IntRange("satisfaction_rating", 1, 5).WithBlank(0.3),
		seeder.Bool("resolved"),
		seeder.Derived("escalated", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return g.Chance(0.1) && g.Chance(0.5)
		}),
		seeder.Fake("agent_id", seeder.FakeUUID),
		seeder.Derived("notes", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return interactionNotes(row.Float("sentiment_score"), row.String("reason"))
		}),
	}
	return craft(g, TableInteractions, Between(g, bc.Volumes.Interactions, 2), columns)
}

func buildCampaigns(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	products, err := bc.Upstream(TableProducts)
	if err != nil {
		return nil, err
	}

	columns := []seeder.Column{
		seeder.RowNumber("campaign_id"),
		seeder.Fake("campaign_name", seeder.FakeCatchPhrase),
		seeder.List("campaign_type", "Email", "Social Media", "Direct Mail", "TV", "Radio", "Online Display"),
		seeder.DateRange("start_date", bc.Start, bc.Horizon),
		seeder.Derived("end_date", func(g *seeder.DataGenerator, row dataset.Record) any {
			return row.Date("start_date").AddDays(g.IntBetween(7, 90))
		}),
		seeder.List("target_segment", segments...),
		seeder.MoneyRange("budget", 10000, 500000),
		seeder.IntRange("impressions", 10000, 1000000),
		seeder.IntRange("clicks", 1000, 50000),
		seeder.IntRange("conversions", 50, 5000),
		seeder.MoneyRange("cost_per_acquisition", 50, 500),
		seeder.FloatRange("roi", -0.5, 3.0, 2),
		seeder.Derived("product_promoted", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return seeder.Choose(g, products.Records).Int("product_id")
		}),
	}
	return craft(g, TableCampaigns, Between(g, bc.Volumes.Campaigns, 2), columns)
}
