package generator

import (
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/banksynth/internal/config"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/geo"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

var (
	ErrEmptyUpstream    = errors.New("upstream table is empty")
	ErrNoActiveAccounts = errors.New("no active accounts to attach transactions to")
)

// BuildContext is what a builder may read: the generation window, sizing,
// reference locations and the tables built before it.
type BuildContext struct {
	Start        dataset.Date
	Horizon      dataset.Date
	Customers    int
	Transactions int
	Volumes      config.Volumes
	Locations    []geo.Location

	tables *dataset.Set
}

func NewBuildContext(start, horizon dataset.Date, locations []geo.Location) *BuildContext {
	return &BuildContext{
		Start:        start,
		Horizon:      horizon,
		Customers:    config.DefaultCustomers,
		Transactions: config.DefaultTransactions,
		Volumes:      config.DefaultVolumes(),
		Locations:    locations,
		tables:       dataset.NewSet(),
	}
}

// Upstream returns a previously built table, failing when it is missing or empty.
func (c *BuildContext) Upstream(name string) (*dataset.Table, error) {
	t, ok := c.tables.Get(name)
	if !ok || t.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyUpstream, name)
	}
	return t, nil
}

// Optional returns a previously built table that may legitimately be empty.
func (c *BuildContext) Optional(name string) *dataset.Table {
	return c.tables.MustGet(name)
}

func (c *BuildContext) Tables() *dataset.Set {
	return c.tables
}

func (c *BuildContext) put(t *dataset.Table) {
	c.tables.Put(t)
}

// Location picks a reference location for a row.
func (c *BuildContext) Location(g *seeder.DataGenerator) geo.Location {
	return seeder.Choose(g, c.Locations)
}

// Between draws a row count in [n, n*factor].
func Between(g *seeder.DataGenerator, n int, factor float64) int {
	return g.IntBetween(n, int(float64(n)*factor))
}
