package generator

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

const CategoryClosure = "Account Closure"

var (
	setupEvents = []string{
		"Account Opened", "Initial Deposit", "Card Activated",
		"Online Banking Enrolled", "Mobile App Activated",
	}
	closedEvents = []string{
		"Account Closed", "Account Closed - Customer Request",
		"Account Closed - Inactivity", "Account Closed - Fraud",
	}
	lifecycleEvents = []string{
		"Balance Threshold Crossed", "Overdraft Occurred",
		"Credit Limit Increased", "Credit Limit Decreased",
		"Interest Rate Changed", "Fees Waived",
		"Account Upgraded", "Account Downgraded",
		"Autopay Enabled", "Autopay Disabled",
		"Statement Delivery Changed", "Contact Info Updated",
		"Beneficiary Added", "Joint Owner Added",
		"Dormancy Warning", "Reactivated",
		"Large Deposit Received", "Large Withdrawal Made",
		"Returned Payment", "NSF Fee Charged",
		"Maintenance Fee Waived", "Promotional Rate Applied",
	}
)

var accountEventColumns = []string{
	"event_id", "account_id", "customer_id", "product_id", "event_date", "event_type",
	"event_category", "old_value", "new_value", "triggered_by", "channel", "processed_by",
	"notes", "is_reversible", "requires_approval", "approval_status",
}

// CategorizeEvent maps an event type to its reporting category.
func CategorizeEvent(eventType string) string {
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(eventType, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("Opened", "Activated", "Enrolled"):
		return "Account Setup"
	case has("Closed"):
		return CategoryClosure
	case has("Limit", "Rate"):
		return "Terms Change"
	case has("Upgraded", "Downgraded"):
		return "Product Change"
	case has("Fee"):
		return "Fee Related"
	case has("Overdraft", "NSF", "Returned"):
		return "Payment Issue"
	case has("Dormancy", "Reactivated"):
		return "Activity Status"
	default:
		return "Account Modification"
	}
}

// eventValues derives the before/after values an event changes.
func eventValues(g *seeder.DataGenerator, eventType string, account dataset.Record) (any, any) {
	switch {
	case strings.Contains(eventType, "Credit Limit"):
		if account.IsNull("credit_limit") {
			return nil, nil
		}
		old := account.Float("credit_limit")
		change := g.Uniform(0.1, 0.5)
		if strings.Contains(eventType, "Increased") {
			return old, seeder.Round(old*(1+change), 2)
		}
		return old, seeder.Round(old*(1-change), 2)
	case strings.Contains(eventType, "Interest Rate"):
		old := account.Float("interest_rate")
		return old, seeder.Round(old*g.Uniform(0.8, 1.2), 4)
	case strings.Contains(eventType, "Balance"):
		return nil, account.Float("current_balance")
	}
	return nil, nil
}

func buildAccountEvents(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	accounts, err := bc.Upstream(TableAccounts)
	if err != nil {
		return nil, err
	}
	products, err := bc.Upstream(TableProducts)
	if err != nil {
		return nil, err
	}
	productNames := make(map[int64]string, products.Len())
	for _, p := range products.Records {
		productNames[p.Int("product_id")] = p.String("product_name")
	}

	t := dataset.NewTable(TableAccountEvents, accountEventColumns)
	var id int64
	for _, account := range accounts.Records {
		open, limit := activeWindow(account, bc.Horizon)
		closed := account.String("account_status") == StatusClosed

		type draft struct {
			date      dataset.Date
			eventType string
		}
		var drafts []draft
		for _, d := range walk(g, open, limit, g.IntBetween(1, 8), stepBetween(30, 180)) {
			eventType := seeder.Choose(g, lifecycleEvents)
			if open.DaysUntil(d) < 30 {
				eventType = seeder.Choose(g, setupEvents)
			}
			drafts = append(drafts, draft{d, eventType})
		}

		if closed {
			closeDate := account.Date("close_date")
			kept := drafts[:0]
			for _, dr := range drafts {
				if dr.date.Before(closeDate) {
					kept = append(kept, dr)
				}
			}
			drafts = append(kept, draft{closeDate, seeder.Choose(g, closedEvents)})
		}

		for _, dr := range drafts {
			oldValue, newValue := eventValues(g, dr.eventType, account)

			var processedBy any
			if g.Chance(0.5) {
				processedBy = fmt.Sprintf("EMP%d", g.IntBetween(1000, 9999))
			}

			var approval any
			if dr.eventType == "Credit Limit Increased" || dr.eventType == "Account Upgraded" {
				approval = seeder.Pick(g, "Approved", "Approved", "Approved", "Pending", "Rejected")
			}

			category := CategorizeEvent(dr.eventType)
			id++
			t.Append(dataset.Record{
				"event_id":       id,
				"account_id":     account.Int("account_id"),
				"customer_id":    account.Int("customer_id"),
				"product_id":     account.Int("product_id"),
				"event_date":     dr.date,
				"event_type":     dr.eventType,
				"event_category": category,
				"old_value":      oldValue,
				"new_value":      newValue,
				"triggered_by": seeder.Pick(g, "Customer Request", "System Automated", "Bank Policy",
					"Regulatory Requirement", "Risk Management", "Promotional Offer"),
				"channel":           seeder.Pick(g, "Online", "Mobile", "Branch", "Phone", "Mail", "System"),
				"processed_by":      processedBy,
				"notes":             fmt.Sprintf("%s for %s account", dr.eventType, productNames[account.Int("product_id")]),
				"is_reversible":     category != CategoryClosure && g.Chance(0.5),
				"requires_approval": dr.eventType == "Credit Limit Increased" || dr.eventType == "Account Upgraded" || dr.eventType == "Fees Waived",
				"approval_status":   approval,
			})
		}
	}
	return t, nil
}
