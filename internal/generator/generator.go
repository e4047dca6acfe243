package generator

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/banksynth/internal/config"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/geo"
	"github.com/Lumos-Labs-HQ/banksynth/internal/integrity"
	"github.com/Lumos-Labs-HQ/banksynth/internal/metrics"
	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

// BuildFunc builds one table from the context. It must not modify upstream tables.
type BuildFunc func(bc *BuildContext, g *seeder.DataGenerator) (*dataset.Table, error)

type Builder struct {
	Name      string
	DependsOn []string
	Build     BuildFunc
}

type Options struct {
	Seed    int64
	Logger  *zap.Logger
	Metrics *metrics.Collector
	Quiet   bool
}

// Generator runs registered builders in dependency order.
type Generator struct {
	builders map[string]Builder
	graph    *seeder.DependencyGraph
	seed     int64
	logger   *zap.Logger
	metrics  *metrics.Collector
	quiet    bool
}

func New(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		builders: make(map[string]Builder),
		graph:    seeder.NewDependencyGraph(),
		seed:     opts.Seed,
		logger:   logger,
		metrics:  opts.Metrics,
		quiet:    opts.Quiet,
	}
}

// NewDefault returns a generator with every banking table registered.
func NewDefault(opts Options) *Generator {
	g := New(opts)
	for _, b := range Builders() {
		g.Register(b)
	}
	return g
}

func (gen *Generator) Register(b Builder) {
	gen.builders[b.Name] = b
	gen.graph.Add(b.Name, b.DependsOn...)
}

// Order is the sequence Run will build tables in.
func (gen *Generator) Order() ([]string, error) {
	return gen.graph.BuildOrder()
}

// BuilderSeed derives the generator seed of one builder, so a builder's output
// depends only on the run seed and its upstream tables.
func BuilderSeed(seed int64, name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return seed ^ int64(h.Sum64())
}

// Build runs a single registered builder against the context.
func (gen *Generator) Build(bc *BuildContext, name string) (*dataset.Table, error) {
	b, ok := gen.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown builder: %s", name)
	}

	t, err := b.Build(bc, seeder.NewDataGenerator(BuilderSeed(gen.seed, name)))
	if err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

func (gen *Generator) Run(ctx context.Context, bc *BuildContext) (*dataset.Set, error) {
	order, err := gen.graph.BuildOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to order builders: %w", err)
	}

	gen.printf(color.Cyan, "🏦 Generating banking dataset (seed %d, %s → %s)", gen.seed, bc.Start, bc.Horizon)

	for i, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		label := strings.ReplaceAll(name, "_", " ")
		gen.printf(color.Cyan, "[%d/%d] Generating %s...", i+1, len(order), label)

		started := time.Now()
		t, err := gen.Build(bc, name)
		if err != nil {
			gen.logger.Error("builder failed", zap.String("table", name), zap.Error(err))
			return nil, fmt.Errorf("failed to generate %s: %w", name, err)
		}
		elapsed := time.Since(started)
		bc.put(t)

		gen.printf(color.Green, "    Created %d %s", t.Len(), label)
		gen.logger.Info("table generated",
			zap.String("table", name),
			zap.Int("rows", t.Len()),
			zap.Duration("duration", elapsed))
		if gen.metrics != nil {
			gen.metrics.RecordBuild(name, t.Len(), elapsed)
		}
	}

	violations := integrity.Check(bc.Tables(), bc.Horizon)
	if len(violations) > 0 {
		for i, v := range violations {
			if i == 20 {
				break
			}
			gen.logger.Error("integrity violation", zap.String("check", v.Check), zap.String("table", v.Table), zap.Int64("row", v.Row), zap.String("detail", v.Detail))
		}
		return nil, integrity.Error(violations)
	}

	gen.printf(color.Green, "✅ Generated %d tables", len(order))
	return bc.Tables(), nil
}

func (gen *Generator) printf(print func(string, ...interface{}), format string, args ...interface{}) {
	if gen.quiet {
		return
	}
	print(format, args...)
}

// ContextFromConfig builds the context of a run from configuration.
func ContextFromConfig(cfg *config.Config, locations []geo.Location, now time.Time) (*BuildContext, error) {
	start, horizon, err := cfg.Window(now)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, geo.ErrNoLocations
	}

	bc := NewBuildContext(start, horizon, locations)
	bc.Customers = cfg.Customers
	bc.Transactions = cfg.Transactions
	bc.Volumes = cfg.Volumes
	return bc, nil
}
