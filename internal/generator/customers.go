package generator

import (
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

var (
	segments = []string{"Mass Market", "Affluent", "Premium", "Business"}
	tiers    = []string{"Bronze", "Silver", "Gold", "Platinum"}
	risks    = []string{"Low", "Medium", "High"}
)

// ageOn returns the whole years between birth and on.
func ageOn(birth, on dataset.Date) int64 {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return int64(age)
}

func buildCustomers(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	oldest := dataset.Date{Time: bc.Horizon.AddDate(-70, 0, 0)}
	youngest := dataset.Date{Time: bc.Horizon.AddDate(-18, 0, 0)}

	columns := []seeder.Column{
		locationColumn(bc),
		seeder.RowNumber("customer_id"),
		seeder.Fake("first_name", seeder.FakeFirstName),
		seeder.Fake("last_name", seeder.FakeLastName),
		seeder.Fake("email", seeder.FakeEmail),
		seeder.Fake("phone", seeder.FakePhone),
		seeder.DateRange("date_of_birth", oldest, youngest),
		seeder.Derived("age", func(_ *seeder.DataGenerator, row dataset.Record) any {
			return ageOn(row.Date("date_of_birth"), bc.Horizon)
		}),
		seeder.Fake("ssn", seeder.FakeSSN),
		seeder.Fake("address", seeder.FakeStreetAddress),
		fromLocation("city", cityOf),
		fromLocation("state", stateOf),
		fromLocation("zip_code", zipOf),
		seeder.Const("country", "USA"),
		seeder.DateRange("signup_date", bc.Start, bc.Horizon),
		seeder.IntRange("credit_score", 300, 800),
		seeder.IntRange("annual_income", 20000, 500000),
		seeder.List("employment_status", "Employed", "Self-Employed", "Retired", "Student", "Unemployed"),
		seeder.Fake("employer", seeder.FakeCompany).WithBlank(0.2),
		seeder.Fake("job_title", seeder.FakeJobTitle).WithBlank(0.2),
		seeder.List("education_level", "High School", "Associate", "Bachelor", "Master", "Doctorate"),
		seeder.List("marital_status", "Single", "Married", "Divorced", "Widowed"),
		seeder.IntRange("number_of_dependents", 0, 5),
		seeder.List("home_ownership", "Own", "Rent", "Mortgage"),
		seeder.List("customer_segment", segments...),
		seeder.List("life_stage", "Young Professional", "Family", "Empty Nester", "Retiree", "Student"),
		seeder.List("risk_segment", risks...),
		seeder.Derived("is_active", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return g.Chance(0.75)
		}),
		seeder.List("preferred_channel", "Online", "Mobile", "Branch", "Phone"),
		seeder.Bool("marketing_opt_in"),
		seeder.List("loyalty_tier", tiers...),
		seeder.IntRange("customer_lifetime_value", 1000, 100000),
		seeder.FloatRange("churn_risk_score", 0, 1, 2),
		seeder.Derived("last_login_date", func(g *seeder.DataGenerator, row dataset.Record) any {
			return g.DateBetween(row.Date("signup_date"), bc.Horizon)
		}).WithBlank(0.1),
		seeder.List("acquisition_channel", "Online", "Branch", "Referral", "Partner", "Marketing Campaign"),
	}
	return craft(g, TableCustomers, bc.Customers, columns)
}
