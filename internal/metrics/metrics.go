package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

type Collector struct {
	registry        *prometheus.Registry
	rowsGenerated   *prometheus.CounterVec
	builderDuration *prometheus.HistogramVec
	tablesWritten   *prometheus.CounterVec
	mu              sync.Mutex
	logger          *zap.Logger
}

func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		rowsGenerated: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "banksynth_rows_generated_total",
			Help: "Rows produced per generated table",
		}, []string{"table"}),
		builderDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "banksynth_builder_duration_seconds",
			Help:    "Time taken by each table builder",
			Buckets: prometheus.DefBuckets,
		}, []string{"builder"}),
		tablesWritten: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "banksynth_tables_written_total",
			Help: "Tables persisted per sink",
		}, []string{"sink"}),
		logger: logger,
	}
}

func (c *Collector) RecordBuild(table string, rows int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rowsGenerated.WithLabelValues(table).Add(float64(rows))
	c.builderDuration.WithLabelValues(table).Observe(duration.Seconds())
}

func (c *Collector) RecordWrite(sink string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tablesWritten.WithLabelValues(sink).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	c.logger.Info("metrics written", zap.String("path", path))
	return nil
}
