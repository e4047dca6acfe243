package generator

import (
	"sort"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

// walk returns up to count dates starting at anchor, advancing by step days
// after each one. It stops as soon as a date passes limit, so an anchor
// beyond limit yields nothing.
func walk(g *seeder.DataGenerator, anchor, limit dataset.Date, count int, step func(g *seeder.DataGenerator) int) []dataset.Date {
	dates := make([]dataset.Date, 0, count)
	current := anchor
	for i := 0; i < count; i++ {
		if i > 0 {
			current = current.AddDays(step(g))
		}
		if current.After(limit) {
			break
		}
		dates = append(dates, current)
	}
	return dates
}

func fixedStep(days int) func(*seeder.DataGenerator) int {
	return func(*seeder.DataGenerator) int { return days }
}

func stepBetween(min, max int) func(*seeder.DataGenerator) int {
	return func(g *seeder.DataGenerator) int { return g.IntBetween(min, max) }
}

// finalize groups records by owner, orders each group by dateCol and links
// the group into an interval chain: endCol takes the next record's dateCol
// (nil on the last) and only the last record is current. The table is left
// sorted by owner then date.
func finalize(t *dataset.Table, ownerCol, dateCol, endCol, currentCol string) {
	groups := make(map[int64][]dataset.Record)
	var owners []int64
	for _, r := range t.Records {
		owner := r.Int(ownerCol)
		if _, seen := groups[owner]; !seen {
			owners = append(owners, owner)
		}
		groups[owner] = append(groups[owner], r)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })

	ordered := make([]dataset.Record, 0, len(t.Records))
	for _, owner := range owners {
		records := groups[owner]
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Date(dateCol).Before(records[j].Date(dateCol))
		})
		last := len(records) - 1
		for i, r := range records {
			if i < last {
				r[endCol] = records[i+1][dateCol]
				r[currentCol] = false
			} else {
				r[endCol] = nil
				r[currentCol] = true
			}
		}
		ordered = append(ordered, records...)
	}
	t.Records = ordered
}
