package generator

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/geo"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

func buildBranches(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	columns := []seeder.Column{
		locationColumn(bc),
		seeder.RowNumber("branch_id"),
		fromLocation("branch_name", func(l geo.Location) any { return fmt.Sprintf("%s Branch", l.City) }),
		seeder.Pattern("branch_code", "BR#####"),
		seeder.List("branch_type", "Full Service", "Limited Service", "Drive-Through Only", "Commercial"),
		seeder.Fake("address", seeder.FakeStreetAddress),
		fromLocation("city", cityOf),
		fromLocation("state", stateOf),
		fromLocation("zip_code", zipOf),
		seeder.Const("country", "USA"),
		fromLocation("latitude", latOf),
		fromLocation("longitude", lngOf),
		seeder.Fake("phone", seeder.FakePhone),
		seeder.DateRange("open_date", dataset.NewDate(1990, 1, 1), bc.Horizon),
		seeder.Derived("is_active", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return g.Chance(0.8)
		}),
		seeder.IntRange("square_footage", 1000, 10000),
		seeder.IntRange("num_employees", 3, 25),
		seeder.IntRange("avg_daily_customers", 50, 500),
		seeder.Bool("has_safe_deposit"),
		seeder.Bool("has_notary"),
		seeder.Bool("has_coin_counter"),
		seeder.Bool("wheelchair_accessible"),
		seeder.List("operating_hours", "9AM-5PM Mon-Fri", "9AM-6PM Mon-Fri", "9AM-2PM Sat", "24/7"),
		seeder.Fake("manager_name", seeder.FakeFullName),
		seeder.List("region", "Northeast", "Southeast", "Midwest", "Southwest", "West"),
	}
	return craft(g, TableBranches, Between(g, bc.Volumes.Branches, 1.5), columns)
}

func buildATMs(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error) {
	branches, err := bc.Upstream(TableBranches)
	if err != nil {
		return nil, err
	}

	columns := []seeder.Column{
		locationColumn(bc),
		seeder.RowNumber("atm_id"),
		seeder.Pattern("atm_code", "ATM######"),
		seeder.List("location_name", "Shopping Mall", "Gas Station", "Airport", "Train Station",
			"Casino", "Hotel", "University", "Hospital", "Grocery Store"),
		seeder.List("location_type", "Branch", "Off-Site", "Third-Party"),
		seeder.Fake("address", seeder.FakeStreetAddress),
		fromLocation("city", cityOf),
		fromLocation("state", stateOf),
		fromLocation("zip_code", zipOf),
		seeder.Const("country", "USA"),
		fromLocation("latitude", latOf),
		fromLocation("longitude", lngOf),
		seeder.DateRange("install_date", dataset.NewDate(2000, 1, 1), bc.Horizon),
		seeder.Derived("is_operational", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return g.Chance(0.8)
		}),
		seeder.Bool("is_deposit_enabled"),
		seeder.Derived("is_cash_only", func(g *seeder.DataGenerator, _ dataset.Record) any {
			return g.Chance(0.25)
		}),
		seeder.IntList("max_withdrawal_amount", 200, 300, 500, 1000),
		seeder.IntRange("daily_transaction_limit", 5, 50),
		seeder.IntRange("avg_daily_transactions", 10, 200),
		seeder.IntRange("cash_capacity", 50000, 200000),
		seeder.DateRange("last_refill_date", bc.Horizon.AddDays(-7), bc.Horizon),
		seeder.DateRange("last_maintenance_date", bc.Horizon.AddDays(-30), bc.Horizon),
		seeder.FloatList("surcharge_fee", 0, 1.5, 2, 2.5, 3),
		seeder.Bool("is_24_hour"),
		seeder.Const("has_camera", true),
		seeder.Derived("branch_id", func(g *seeder.DataGenerator, _ dataset.Record) any {
			if !g.Chance(0.4) {
				return nil
			}
			return seeder.Choose(g, branches.Records).Int("branch_id")
		}),
	}
	return craft(g, TableATMs, Between(g, bc.Volumes.ATMs, 1.5), columns)
}
