package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

func TestWalkStopsAtLimit(t *testing.T) {
	g := seeder.NewDataGenerator(1)
	anchor := dataset.NewDate(2024, time.January, 1)
	limit := dataset.NewDate(2024, time.March, 15)

	dates := walk(g, anchor, limit, 10, fixedStep(30))
	require.Len(t, dates, 3)
	assert.Equal(t, anchor, dates[0])
	assert.Equal(t, anchor.AddDays(60), dates[2])
}

func TestWalkAnchorBeyondLimit(t *testing.T) {
	g := seeder.NewDataGenerator(1)
	anchor := dataset.NewDate(2025, time.January, 1)

	assert.Empty(t, walk(g, anchor, anchor.AddDays(-1), 5, fixedStep(30)))
}

func TestWalkRespectsCount(t *testing.T) {
	g := seeder.NewDataGenerator(1)
	anchor := dataset.NewDate(2000, time.January, 1)

	dates := walk(g, anchor, anchor.AddDays(10000), 4, stepBetween(30, 180))
	require.Len(t, dates, 4)
	for i := 1; i < len(dates); i++ {
		gap := dates[i-1].DaysUntil(dates[i])
		assert.GreaterOrEqual(t, gap, 30)
		assert.LessOrEqual(t, gap, 180)
	}
}

func TestFinalize(t *testing.T) {
	d := func(day int) dataset.Date { return dataset.NewDate(2024, time.January, day) }

	table := dataset.NewTable("history", []string{"id", "owner", "start", "end", "current"})
	table.Append(dataset.Record{"id": int64(1), "owner": int64(2), "start": d(10)})
	table.Append(dataset.Record{"id": int64(2), "owner": int64(1), "start": d(5)})
	table.Append(dataset.Record{"id": int64(3), "owner": int64(2), "start": d(3)})
	table.Append(dataset.Record{"id": int64(4), "owner": int64(2), "start": d(20)})

	finalize(table, "owner", "start", "end", "current")

	var ids []int64
	for _, r := range table.Records {
		ids = append(ids, r.Int("id"))
	}
	assert.Equal(t, []int64{2, 3, 1, 4}, ids)

	byID := table.Index("id")
	assert.Nil(t, byID[2]["end"])
	assert.Equal(t, true, byID[2]["current"])
	assert.Equal(t, d(10), byID[3]["end"])
	assert.Equal(t, false, byID[3]["current"])
	assert.Equal(t, d(20), byID[1]["end"])
	assert.Nil(t, byID[4]["end"])
	assert.Equal(t, true, byID[4]["current"])
}
