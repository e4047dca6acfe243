package integrity

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Lumos-Labs-HQ/banksynth/internal/amount"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

var ErrViolations = errors.New("referential integrity violated")

type Violation struct {
	Check  string
	Table  string
	Row    int64
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s row %d: %s", v.Check, v.Table, v.Row, v.Detail)
}

// Error folds violations into one error wrapping ErrViolations, or nil.
func Error(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	shown := violations
	if len(shown) > 5 {
		shown = shown[:5]
	}
	lines := make([]string, len(shown))
	for i, v := range shown {
		lines[i] = v.String()
	}
	return fmt.Errorf("%w: %d violations, first: %s", ErrViolations, len(violations), strings.Join(lines, "; "))
}

// Reference is a foreign key from Table.Column to Parent.ParentColumn. Null
// values are allowed.
type Reference struct {
	Table        string
	Column       string
	Parent       string
	ParentColumn string
}

var References = []Reference{
	{"accounts", "customer_id", "customers", "customer_id"},
	{"accounts", "product_id", "products", "product_id"},
	{"transactions", "account_id", "accounts", "account_id"},
	{"transactions", "customer_id", "customers", "customer_id"},
	{"transactions", "merchant_id", "merchants", "merchant_id"},
	{"credit_applications", "customer_id", "customers", "customer_id"},
	{"credit_applications", "product_id", "products", "product_id"},
	{"fraud_alerts", "transaction_id", "transactions", "transaction_id"},
	{"fraud_alerts", "customer_id", "customers", "customer_id"},
	{"fraud_alerts", "account_id", "accounts", "account_id"},
	{"customer_interactions", "customer_id", "customers", "customer_id"},
	{"marketing_campaigns", "product_promoted", "products", "product_id"},
	{"loan_payments", "account_id", "accounts", "account_id"},
	{"loan_payments", "customer_id", "customers", "customer_id"},
	{"atm_locations", "branch_id", "branch_locations", "branch_id"},
	{"risk_assessments", "customer_id", "customers", "customer_id"},
	{"account_events", "account_id", "accounts", "account_id"},
	{"account_events", "customer_id", "customers", "customer_id"},
	{"account_events", "product_id", "products", "product_id"},
	{"regulatory_reports", "customer_id", "customers", "customer_id"},
	{"regulatory_reports", "account_id", "accounts", "account_id"},
	{"regulatory_reports", "transaction_id", "transactions", "transaction_id"},
	{"regulatory_reports", "original_report_id", "regulatory_reports", "report_id"},
	{"customer_segments_history", "customer_id", "customers", "customer_id"},
}

// primaryKeys names the id column of each table, used to label violations.
var primaryKeys = map[string]string{
	"products":                  "product_id",
	"merchants":                 "merchant_id",
	"customers":                 "customer_id",
	"accounts":                  "account_id",
	"transactions":              "transaction_id",
	"credit_applications":       "application_id",
	"fraud_alerts":              "alert_id",
	"customer_interactions":     "interaction_id",
	"marketing_campaigns":       "campaign_id",
	"loan_payments":             "payment_id",
	"branch_locations":          "branch_id",
	"atm_locations":             "atm_id",
	"risk_assessments":          "assessment_id",
	"account_events":            "event_id",
	"regulatory_reports":        "report_id",
	"customer_segments_history": "segment_history_id",
}

type checker struct {
	set     *dataset.Set
	horizon dataset.Date
	out     []Violation
}

func (c *checker) add(check, table string, r dataset.Record, format string, args ...any) {
	c.out = append(c.out, Violation{
		Check:  check,
		Table:  table,
		Row:    r.Int(primaryKeys[table]),
		Detail: fmt.Sprintf(format, args...),
	})
}

func (c *checker) table(name string) (*dataset.Table, bool) {
	return c.set.Get(name)
}

// Check runs every integrity rule over a generated set. Tables missing from
// the set are skipped.
func Check(set *dataset.Set, horizon dataset.Date) []Violation {
	c := &checker{set: set, horizon: horizon}
	c.references()
	c.accounts()
	c.transactions()
	c.loanPayments()
	c.intervals("customer_segments_history", "effective_date", "end_date")
	c.intervals("risk_assessments", "assessment_date", "valid_until")
	c.accountEvents()
	c.fraudAlerts()
	return c.out
}

func (c *checker) references() {
	for _, ref := range References {
		child, ok := c.table(ref.Table)
		if !ok {
			continue
		}
		parent, ok := c.table(ref.Parent)
		if !ok {
			continue
		}
		keys := make(map[int64]bool, parent.Len())
		for _, r := range parent.Records {
			keys[r.Int(ref.ParentColumn)] = true
		}
		for _, r := range child.Records {
			if r.IsNull(ref.Column) {
				continue
			}
			if !keys[r.Int(ref.Column)] {
				c.add("orphan", ref.Table, r, "%s=%d has no %s.%s", ref.Column, r.Int(ref.Column), ref.Parent, ref.ParentColumn)
			}
		}
	}
}

func categories(set *dataset.Set) map[int64]string {
	out := make(map[int64]string)
	if products, ok := set.Get("products"); ok {
		for _, p := range products.Records {
			out[p.Int("product_id")] = p.String("category")
		}
	}
	return out
}

func (c *checker) accounts() {
	accounts, ok := c.table("accounts")
	if !ok {
		return
	}
	customers := c.set.MustGet("customers").Index("customer_id")
	productCategory := categories(c.set)

	for _, a := range accounts.Records {
		open := a.Date("open_date")
		if owner, ok := customers[a.Int("customer_id")]; ok && open.Before(owner.Date("signup_date")) {
			c.add("account_window", "accounts", a, "open_date %s before signup %s", open, owner.Date("signup_date"))
		}
		if open.After(c.horizon) {
			c.add("account_window", "accounts", a, "open_date %s after horizon", open)
		}
		if !a.IsNull("close_date") {
			closed := a.Date("close_date")
			if !closed.After(open) {
				c.add("account_window", "accounts", a, "close_date %s not after open_date %s", closed, open)
			}
			if closed.After(c.horizon) {
				c.add("account_window", "accounts", a, "close_date %s after horizon", closed)
			}
		} else if a.String("account_status") == "Closed" {
			c.add("account_window", "accounts", a, "closed account without close_date")
		}

		category, ok := productCategory[a.Int("product_id")]
		if !ok {
			continue
		}
		rule := amount.Balance(category, a.Decimal("credit_limit"))
		if balance := a.Decimal("current_balance"); !rule.Allows(balance) {
			c.add("amount_policy", "accounts", a, "%s balance %s outside policy", category, balance)
		}
	}
}

func (c *checker) transactions() {
	transactions, ok := c.table("transactions")
	if !ok {
		return
	}
	accounts := c.set.MustGet("accounts").Index("account_id")

	for _, tr := range transactions.Records {
		date := tr.Date("transaction_date")
		if date.After(c.horizon) {
			c.add("transaction_window", "transactions", tr, "date %s after horizon", date)
		}
		if a, ok := accounts[tr.Int("account_id")]; ok {
			if date.Before(a.Date("open_date")) {
				c.add("transaction_window", "transactions", tr, "date %s before account open %s", date, a.Date("open_date"))
			}
			if !a.IsNull("close_date") && date.After(a.Date("close_date")) {
				c.add("transaction_window", "transactions", tr, "date %s after account close %s", date, a.Date("close_date"))
			}
			if a.Int("customer_id") != tr.Int("customer_id") {
				c.add("transaction_owner", "transactions", tr, "customer %d does not own account %d", tr.Int("customer_id"), a.Int("account_id"))
			}
		}

		rule := amount.Transaction(tr.String("transaction_type"))
		if amt := tr.Decimal("amount"); !rule.Allows(amt) {
			c.add("amount_policy", "transactions", tr, "%s amount %s outside policy", tr.String("transaction_type"), amt)
		}
	}
}

// groupBy splits records by an owner column, keeping table order in each group.
func groupBy(t *dataset.Table, column string) map[int64][]dataset.Record {
	groups := make(map[int64][]dataset.Record)
	for _, r := range t.Records {
		groups[r.Int(column)] = append(groups[r.Int(column)], r)
	}
	return groups
}

const loanPaymentStep = 30

func (c *checker) loanPayments() {
	payments, ok := c.table("loan_payments")
	if !ok {
		return
	}
	accounts := c.set.MustGet("accounts").Index("account_id")

	for accountID, group := range groupBy(payments, "account_id") {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date("scheduled_date").Before(group[j].Date("scheduled_date"))
		})
		if a, ok := accounts[accountID]; ok && !group[0].Date("scheduled_date").Equal(a.Date("open_date")) {
			c.add("loan_schedule", "loan_payments", group[0], "first payment %s is not the open date %s", group[0].Date("scheduled_date"), a.Date("open_date"))
		}
		for i, p := range group {
			due := p.Date("scheduled_date")
			if due.After(c.horizon) {
				c.add("loan_schedule", "loan_payments", p, "scheduled %s after horizon", due)
			}
			if a, ok := accounts[accountID]; ok && !a.IsNull("close_date") && due.After(a.Date("close_date")) {
				c.add("loan_schedule", "loan_payments", p, "scheduled %s after close date %s", due, a.Date("close_date"))
			}
			if i > 0 {
				if gap := group[i-1].Date("scheduled_date").DaysUntil(due); gap != loanPaymentStep {
					c.add("loan_schedule", "loan_payments", p, "step of %d days, want %d", gap, loanPaymentStep)
				}
			}
		}
	}
}

// intervals checks that each owner's records chain end-to-start with exactly
// one current record, the last.
func (c *checker) intervals(table, startCol, endCol string) {
	t, ok := c.table(table)
	if !ok {
		return
	}
	for _, group := range groupBy(t, "customer_id") {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date(startCol).Before(group[j].Date(startCol))
		})
		current := 0
		last := len(group) - 1
		for i, r := range group {
			if r.Date(startCol).After(c.horizon) {
				c.add("interval", table, r, "%s %s after horizon", startCol, r.Date(startCol))
			}
			if r.Bool("is_current") {
				current++
				if i != last {
					c.add("interval", table, r, "current record is not the latest")
				}
			}
			if i < last {
				if r.IsNull(endCol) || !r.Date(endCol).Equal(group[i+1].Date(startCol)) {
					c.add("interval", table, r, "%s does not meet the next %s", endCol, startCol)
				}
				if !group[i+1].Date(startCol).After(r.Date(startCol)) {
					c.add("interval", table, r, "overlapping %s", startCol)
				}
			} else if !r.IsNull(endCol) {
				c.add("interval", table, r, "last record has %s set", endCol)
			}
		}
		if current != 1 {
			c.add("interval", table, group[0], "%d current records for owner", current)
		}
	}
}

func (c *checker) accountEvents() {
	events, ok := c.table("account_events")
	if !ok {
		return
	}
	accounts := c.set.MustGet("accounts").Index("account_id")

	for accountID, group := range groupBy(events, "account_id") {
		a, ok := accounts[accountID]
		if !ok {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date("event_date").Before(group[j].Date("event_date"))
		})

		closed := a.String("account_status") == "Closed"
		last := len(group) - 1
		for i, e := range group {
			date := e.Date("event_date")
			if date.Before(a.Date("open_date")) || date.After(c.horizon) {
				c.add("event_window", "account_events", e, "event_date %s outside [%s, horizon]", date, a.Date("open_date"))
			}
			isClosure := e.String("event_category") == "Account Closure"
			switch {
			case isClosure && !closed:
				c.add("event_terminal", "account_events", e, "closure event on %s account", a.String("account_status"))
			case isClosure && i != last:
				c.add("event_terminal", "account_events", e, "closure event is not the last event")
			case closed && i == last && !isClosure:
				c.add("event_terminal", "account_events", e, "closed account ends with %q", e.String("event_type"))
			}
		}
		if closed && !group[last].Date("event_date").Equal(a.Date("close_date")) {
			c.add("event_terminal", "account_events", group[last], "closure dated %s, account closed %s", group[last].Date("event_date"), a.Date("close_date"))
		}
	}
}

func (c *checker) fraudAlerts() {
	alerts, ok := c.table("fraud_alerts")
	if !ok {
		return
	}
	transactions := c.set.MustGet("transactions").Index("transaction_id")

	for _, alert := range alerts.Records {
		tr, ok := transactions[alert.Int("transaction_id")]
		if !ok {
			continue
		}
		if !tr.Bool("is_fraud") {
			c.add("fraud_alert", "fraud_alerts", alert, "transaction %d is not flagged as fraud", tr.Int("transaction_id"))
		}
		if !alert.Time("alert_date").After(tr.Time("transaction_date")) {
			c.add("fraud_alert", "fraud_alerts", alert, "alert_date not after transaction_date")
		}
	}
}
