package generator

const (
	TableProducts           = "products"
	TableMerchants          = "merchants"
	TableCustomers          = "customers"
	TableAccounts           = "accounts"
	TableTransactions       = "transactions"
	TableCreditApplications = "credit_applications"
	TableFraudAlerts        = "fraud_alerts"
	TableInteractions       = "customer_interactions"
	TableEconomic           = "economic_indicators"
	TableCampaigns          = "marketing_campaigns"
	TableLoanPayments       = "loan_payments"
	TableBranches           = "branch_locations"
	TableATMs               = "atm_locations"
	TableRiskAssessments    = "risk_assessments"
	TableAccountEvents      = "account_events"
	TableRegulatoryReports  = "regulatory_reports"
	TableSegmentHistory     = "customer_segments_history"
)

// Builders lists every table builder in registration order, which is also
// the build order since each entry only depends on earlier ones.
func Builders() []Builder {
	return []Builder{
		{Name: TableProducts, Build: buildProducts},
		{Name: TableMerchants, Build: buildMerchants},
		{Name: TableCustomers, Build: buildCustomers},
		{Name: TableAccounts, DependsOn: []string{TableCustomers, TableProducts}, Build: buildAccounts},
		{Name: TableTransactions, DependsOn: []string{TableAccounts, TableMerchants}, Build: buildTransactions},
		{Name: TableCreditApplications, DependsOn: []string{TableCustomers, TableProducts}, Build: buildCreditApplications},
		{Name: TableFraudAlerts, DependsOn: []string{TableTransactions}, Build: buildFraudAlerts},
		{Name: TableInteractions, DependsOn: []string{TableCustomers}, Build: buildInteractions},
		{Name: TableEconomic, Build: buildEconomicIndicators},
		{Name: TableCampaigns, DependsOn: []string{TableProducts}, Build: buildCampaigns},
		{Name: TableLoanPayments, DependsOn: []string{TableAccounts, TableProducts}, Build: buildLoanPayments},
		{Name: TableBranches, Build: buildBranches},
		{Name: TableATMs, DependsOn: []string{TableBranches}, Build: buildATMs},
		{Name: TableRiskAssessments, DependsOn: []string{TableCustomers, TableAccounts}, Build: buildRiskAssessments},
		{Name: TableAccountEvents, DependsOn: []string{TableAccounts, TableProducts}, Build: buildAccountEvents},
		{Name: TableRegulatoryReports, DependsOn: []string{TableCustomers, TableAccounts, TableTransactions}, Build: buildRegulatoryReports},
		{Name: TableSegmentHistory, DependsOn: []string{TableCustomers}, Build: buildSegmentHistory},
	}
}
