package generator

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

type reportType struct {
	code      string
	name      string
	frequency string
	regulator string
}

var reportTypes = []reportType{
	{"SAR", "Suspicious Activity Report", "As Needed", "FinCEN"},
	{"CTR", "Currency Transaction Report", "As Needed", "FinCEN"},
	{"CIP", "Customer Identification Program", "As Needed", "FinCEN"},
	{"OFAC", "OFAC Sanctions Screening", "Daily", "OFAC"},
	{"BSA", "Bank Secrecy Act Report", "Quarterly", "FinCEN"},
	{"HMDA", "Home Mortgage Disclosure Act", "Annual", "CFPB"},
	{"CRA", "Community Reinvestment Act", "Annual", "FDIC"},
	{"FFIEC", "Call Report", "Quarterly", "FFIEC"},
	{"FDIC", "Deposit Insurance Report", "Quarterly", "FDIC"},
	{"FR-Y9C", "Bank Holding Company Report", "Quarterly", "Federal Reserve"},
	{"AML", "Anti-Money Laundering Report", "Monthly", "FinCEN"},
	{"KYC", "Know Your Customer Review", "As Needed", "Internal"},
}

var reportFindings = []string{
	"No Issues Found", "No Issues Found", "No Issues Found",
	"Minor Issues - Corrected", "Discrepancy Noted",
	"Requires Additional Review", "Escalated to Management",
}

var regulatoryReportColumns = []string{
	"report_id", "report_type_code", "report_type_name", "report_period_start",
	"report_period_end", "filing_date", "due_date", "actual_filing_date", "filing_status",
	"report_frequency", "regulator", "customer_id", "account_id", "transaction_id",
	"amount_reported", "risk_level", "requires_follow_up", "follow_up_date", "assigned_to",
	"reviewed_by", "approval_date", "filing_method", "confirmation_number", "findings",
	"internal_notes", "is_amended", "original_report_id", "penalty_amount",
}

func reportRiskLevel(g *seeder.DataGenerator, code string) string {
	switch code {
	case "SAR", "CTR", "OFAC":
		return seeder.Pick(g, "High", "High", "Critical", "Medium")
	case "AML", "BSA":
		return seeder.Pick(g, "High", "Medium", "Medium", "Low")
	default:
		return seeder.Pick(g, "Low", "Low", "Low", "Medium")
	}
}

// optionalID returns a random id from ids with probability p, else nil.
func optionalID(g *seeder.DataGenerator, ids []int64, p float64) any {
	if !g.Chance(p) {
		return nil
	}
	return seeder.Choose(g, ids)
}

func columnIDs(t *dataset.Table, column string) []int64 {
	ids := make([]int64, 0, t.Len())
	for _, r := range t.Records {
		ids = append(ids, r.Int(column))
	}
	return ids
}

// buildRegulatoryReports walks from the start date to the horizon in 7-30 day
// steps, filing one to three reports per step.
func buildRegulatoryReports(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	customers, err := bc.Upstream(TableCustomers)
	if err != nil {
		return nil, err
	}
	accounts, err := bc.Upstream(TableAccounts)
	if err != nil {
		return nil, err
	}
	transactions, err := bc.Upstream(TableTransactions)
	if err != nil {
		return nil, err
	}
	customerIDs := columnIDs(customers, "customer_id")
	accountIDs := columnIDs(accounts, "account_id")
	transactionIDs := columnIDs(transactions, "transaction_id")

	settled := bc.Horizon.AddDays(-30)

	t := dataset.NewTable(TableRegulatoryReports, regulatoryReportColumns)
	var id int64
	for current := bc.Start; !current.After(bc.Horizon); current = current.AddDays(g.IntBetween(7, 30)) {
		for n := g.IntBetween(1, 3); n > 0; n-- {
			info := seeder.Choose(g, reportTypes)

			customerID := optionalID(g, customerIDs, 0.7)
			transactionID := optionalID(g, transactionIDs, 0.6)
			accountID := optionalID(g, accountIDs, 0.5)

			var status string
			var actualFiling any
			if current.Before(settled) {
				status = seeder.Pick(g, "Filed", "Filed", "Filed", "Filed", "Filed", "Late Filed", "Amended", "Withdrawn")
				actualFiling = dataset.MinDate(current.AddDays(g.IntBetween(0, 45)), bc.Horizon)
			} else {
				status = seeder.Pick(g, "Filed", "Pending", "In Review")
				if status == "Filed" {
					actualFiling = current
				}
			}
			filed := status == "Filed"

			risk := reportRiskLevel(g, info.code)

			var amountReported any
			if g.Chance(0.5) {
				amountReported = g.Money(10000, 5000000)
			}

			var followUp any
			if risk == "Critical" {
				followUp = current.AddDays(g.IntBetween(30, 90))
			}

			var reviewedBy, approvalDate, confirmation any
			if filed {
				reviewedBy = fmt.Sprintf("COMP%d", g.IntBetween(100, 999))
				approvalDate = actualFiling
				confirmation = fmt.Sprintf("CONF%d", g.IntBetween(100000, 999999))
			}

			var original any
			if status == "Amended" && id > 0 {
				original = g.Int64Between(1, id)
			}

			var penalty any
			if status == "Late Filed" && g.Chance(0.3) {
				penalty = g.Money(1000, 50000)
			}

			id++
			t.Append(dataset.Record{
				"report_id":           id,
				"report_type_code":    info.code,
				"report_type_name":    info.name,
				"report_period_start": current.AddDays(-90),
				"report_period_end":   current,
				"filing_date":         current,
				"due_date":            current.AddDays(g.IntBetween(15, 90)),
				"actual_filing_date":  actualFiling,
				"filing_status":       status,
				"report_frequency":    info.frequency,
				"regulator":           info.regulator,
				"customer_id":         customerID,
				"account_id":          accountID,
				"transaction_id":      transactionID,
				"amount_reported":     amountReported,
				"risk_level":          risk,
				"requires_follow_up":  (risk == "High" || risk == "Critical") && g.Chance(0.5),
				"follow_up_date":      followUp,
				"assigned_to":         fmt.Sprintf("COMP%d", g.IntBetween(100, 999)),
				"reviewed_by":         reviewedBy,
				"approval_date":       approvalDate,
				"filing_method":       seeder.Pick(g, "Electronic", "Electronic", "Electronic", "Paper"),
				"confirmation_number": confirmation,
				"findings":            seeder.Choose(g, reportFindings),
				"internal_notes":      fmt.Sprintf("%s for period ending %s", info.name, current),
				"is_amended":          status == "Amended",
				"original_report_id":  original,
				"penalty_amount":      penalty,
			})
		}
	}
	return t, nil
}
