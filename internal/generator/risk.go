package generator

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

var riskAssessmentColumns = []string{
	"assessment_id", "customer_id", "assessment_date", "valid_until", "is_current",
	"assessment_type", "risk_rating", "risk_score", "credit_risk", "fraud_risk", "aml_risk",
	"kyc_status", "kyc_last_updated", "pep_flag", "sanctions_flag", "adverse_media_flag",
	"high_value_customer", "transaction_volume_last_90d", "num_accounts", "years_as_customer",
	"employment_verified", "income_verified", "address_verified", "regulatory_concerns",
	"next_review_date", "assessor_id", "assessment_notes", "requires_enhanced_due_diligence",
}

var regulatoryConcerns = []any{nil, nil, nil, "OFAC Match", "Structuring Pattern"}

// riskRating applies the credit-score and risk-score rating table and draws
// the matching AML risk.
func riskRating(g *seeder.DataGenerator, creditScore int64, riskScore float64) (string, string) {
	switch {
	case creditScore >= 750 && riskScore < 0.3:
		return "Low", seeder.Pick(g, "Low", "Low", "Low", "Medium")
	case creditScore >= 650 && riskScore < 0.6:
		return "Medium", seeder.Pick(g, "Low", "Medium", "Medium", "High")
	default:
		return "High", seeder.Pick(g, "Medium", "High", "High", "Critical")
	}
}

func buildRiskAssessments(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	customers, err := bc.Upstream(TableCustomers)
	if err != nil {
		return nil, err
	}
	accounts, err := bc.Upstream(TableAccounts)
	if err != nil {
		return nil, err
	}
	accountCounts := make(map[int64]int64)
	for _, a := range accounts.Records {
		accountCounts[a.Int("customer_id")]++
	}

	t := dataset.NewTable(TableRiskAssessments, riskAssessmentColumns)
	var id int64
	for _, customer := range customers.Records {
		if !customer.Bool("is_active") {
			continue
		}
		customerID := customer.Int("customer_id")
		signup := customer.Date("signup_date")

		for _, assessed := range walk(g, signup, bc.Horizon, g.IntBetween(1, 4), stepBetween(90, 365)) {
			creditScore := customer.Int("credit_score")
			riskScore := seeder.Round(g.Float64(), 3)
			rating, aml := riskRating(g, creditScore, riskScore)

			kycUpdated := dataset.MaxDate(signup, assessed.AddDays(-g.IntBetween(0, 365)))

			id++
			t.Append(dataset.Record{
				"assessment_id":   id,
				"customer_id":     customerID,
				"assessment_date": assessed,
				"assessment_type": seeder.Pick(g, "Periodic Review", "Account Opening", "Transaction Triggered",
					"Annual Review", "High Risk Review"),
				"risk_rating":                     rating,
				"risk_score":                      riskScore,
				"credit_risk":                     seeder.Choose(g, risks),
				"fraud_risk":                      seeder.Pick(g, "Low", "Low", "Medium", "High"),
				"aml_risk":                        aml,
				"kyc_status":                      seeder.Pick(g, "Verified", "Verified", "Verified", "Pending", "Expired"),
				"kyc_last_updated":                kycUpdated,
				"pep_flag":                        g.Chance(0.05),
				"sanctions_flag":                  g.Chance(0.02),
				"adverse_media_flag":              g.Chance(0.10),
				"high_value_customer":             customer.Int("customer_lifetime_value") > 50000,
				"transaction_volume_last_90d":     g.Money(1000, 50000),
				"num_accounts":                    accountCounts[customerID],
				"years_as_customer":               seeder.Round(float64(signup.DaysUntil(assessed))/365, 2),
				"employment_verified":             g.Chance(0.75),
				"income_verified":                 g.Chance(2.0 / 3.0),
				"address_verified":                g.Chance(0.75),
				"regulatory_concerns":             seeder.Choose(g, regulatoryConcerns),
				"next_review_date":                assessed.AddDays(g.IntBetween(180, 365)),
				"assessor_id":                     fmt.Sprintf("ASSR%d", g.IntBetween(1000, 9999)),
				"assessment_notes":                fmt.Sprintf("Risk assessment completed for %s customer", customer.String("customer_segment")),
				"requires_enhanced_due_diligence": rating == "High" || aml == "High" || aml == "Critical",
			})
		}
	}

	finalize(t, "customer_id", "assessment_date", "valid_until", "is_current")
	return t, nil
}
