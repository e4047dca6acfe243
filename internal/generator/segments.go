package generator

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

var segmentHistoryColumns = []string{
	"segment_history_id", "customer_id", "effective_date", "end_date", "is_current",
	"customer_segment", "previous_segment", "loyalty_tier", "previous_tier", "risk_segment",
	"previous_risk", "change_type", "change_reason", "triggered_by", "total_accounts",
	"total_balance", "avg_monthly_transactions", "products_held", "customer_lifetime_value",
	"tenure_days", "credit_score", "annual_income", "last_interaction_days",
	"digital_engagement_score", "branch_visits_last_90d", "online_logins_last_90d",
	"eligible_for_premium", "churn_risk", "cross_sell_opportunity", "notes", "updated_by",
}

var segmentTransitions = map[string][]string{
	"Mass Market": {"Mass Market", "Affluent", "Affluent"},
	"Affluent":    {"Mass Market", "Affluent", "Premium", "Premium"},
	"Premium":     {"Affluent", "Premium", "Premium", "Business"},
	"Business":    {"Business", "Premium"},
}

func tierIndex(tier string) int {
	for i, t := range tiers {
		if t == tier {
			return i
		}
	}
	return 0
}

// moveTier shifts a loyalty tier one step, up with probability 0.7.
func moveTier(g *seeder.DataGenerator, tier string) string {
	i := tierIndex(tier)
	if g.Chance(0.7) {
		return tiers[min(i+1, len(tiers)-1)]
	}
	return tiers[max(i-1, 0)]
}

type segmentState struct {
	segment string
	tier    string
	risk    string
}

// changeReason names at most two reasons for a state change.
func changeReason(g *seeder.DataGenerator, prev, next segmentState) string {
	var reasons []string

	if prev.segment != next.segment {
		switch {
		case prev.segment == "Mass Market" && next.segment == "Affluent":
			reasons = append(reasons, "Income Growth")
		case (prev.segment == "Affluent" || prev.segment == "Premium") && next.segment == "Mass Market":
			reasons = append(reasons, "Balance Decline")
		case next.segment == "Premium":
			reasons = append(reasons, "High Value Customer")
		case next.segment == "Business":
			reasons = append(reasons, "Business Account Conversion")
		}
	}

	if prev.tier != next.tier {
		if tierIndex(next.tier) > tierIndex(prev.tier) {
			reasons = append(reasons, "Loyalty Upgrade")
		} else {
			reasons = append(reasons, "Tier Downgrade")
		}
	}

	if prev.risk != next.risk {
		switch next.risk {
		case "High":
			reasons = append(reasons, "Risk Flag Triggered")
		case "Low":
			reasons = append(reasons, "Risk Assessment Improved")
		}
	}

	if len(reasons) == 0 {
		return seeder.Pick(g, "Periodic Review", "Model Update", "Policy Change")
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return strings.Join(reasons, ", ")
}

func buildSegmentHistory(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	customers, err := bc.Upstream(TableCustomers)
	if err != nil {
		return nil, err
	}

	t := dataset.NewTable(TableSegmentHistory, segmentHistoryColumns)
	var id int64
	for _, customer := range customers.Records {
		signup := customer.Date("signup_date")
		state := segmentState{
			segment: customer.String("customer_segment"),
			tier:    customer.String("loyalty_tier"),
			risk:    customer.String("risk_segment"),
		}

		for i, effective := range walk(g, signup, bc.Horizon, g.IntBetween(1, 5), stepBetween(180, 540)) {
			changeType := seeder.Pick(g, "Segment Change", "Segment Change", "Tier Change", "Risk Change", "Multiple Changes")
			prev := state

			if changeType == "Segment Change" || changeType == "Multiple Changes" {
				if options, ok := segmentTransitions[state.segment]; ok {
					state.segment = seeder.Choose(g, options)
				}
			}
			if changeType == "Tier Change" || changeType == "Multiple Changes" {
				state.tier = moveTier(g, state.tier)
			}
			if changeType == "Risk Change" || changeType == "Multiple Changes" {
				state.risk = seeder.Choose(g, risks)
			}

			var prevSegment, prevTier, prevRisk any
			if i > 0 {
				prevSegment, prevTier, prevRisk = prev.segment, prev.tier, prev.risk
			}

			tenure := signup.DaysUntil(effective)
			ltv := customer.Float("customer_lifetime_value") * (float64(tenure) / 365 / 10)
			creditScore := min(850, max(300, customer.Int("credit_score")+int64(g.IntBetween(-50, 50))))

			id++
			t.Append(dataset.Record{
				"segment_history_id": id,
				"customer_id":        customer.Int("customer_id"),
				"effective_date":     effective,
				"end_date":           nil,
				"is_current":         false,
				"customer_segment":   state.segment,
				"previous_segment":   prevSegment,
				"loyalty_tier":       state.tier,
				"previous_tier":      prevTier,
				"risk_segment":       state.risk,
				"previous_risk":      prevRisk,
				"change_type":        changeType,
				"change_reason":      changeReason(g, prev, state),
				"triggered_by": seeder.Pick(g, "Automated Rule", "Manual Review", "Relationship Manager",
					"Risk Assessment", "Behavioral Model", "Campaign Response"),
				"total_accounts":           int64(g.IntBetween(1, 8)),
				"total_balance":            g.Money(1000, 500000),
				"avg_monthly_transactions": int64(g.IntBetween(5, 150)),
				"products_held":            int64(g.IntBetween(1, 6)),
				"customer_lifetime_value":  seeder.RoundMoney(ltv),
				"tenure_days":              int64(tenure),
				"credit_score":             creditScore,
				"annual_income":            seeder.RoundMoney(customer.Float("annual_income") * g.Uniform(0.8, 1.5)),
				"last_interaction_days":    int64(g.IntBetween(0, 90)),
				"digital_engagement_score": seeder.Round(g.Float64(), 3),
				"branch_visits_last_90d":   int64(g.IntBetween(0, 12)),
				"online_logins_last_90d":   int64(g.IntBetween(0, 90)),
				"eligible_for_premium":     state.segment != "Mass Market",
				"churn_risk":               seeder.Choose(g, risks),
				"cross_sell_opportunity":   g.Chance(0.5),
				"notes":                    fmt.Sprintf("%s from %s to %s", changeType, prev.segment, state.segment),
				"updated_by":               fmt.Sprintf("SYS%d", g.IntBetween(100, 999)),
			})
		}
	}

	finalize(t, "customer_id", "effective_date", "end_date", "is_current")
	return t, nil
}
