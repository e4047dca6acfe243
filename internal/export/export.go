package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/banksynth/internal/database"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/metrics"
)

const (
	SinkCSV      = "csv"
	SinkDatabase = "database"
)

type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Collector
	Quiet   bool
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) recordWrite(sink string) {
	if o.Metrics != nil {
		o.Metrics.RecordWrite(sink)
	}
}

// ToCSV writes every table of the set to <dir>/<table>.csv and returns the
// file paths in set order.
func ToCSV(dir string, set *dataset.Set, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var paths []string
	for _, table := range set.Tables() {
		path, err := WriteTableCSV(dir, table)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
		opts.recordWrite(SinkCSV)
		opts.logger().Debug("table exported",
			zap.String("sink", SinkCSV),
			zap.String("table", table.Name),
			zap.Int("rows", table.Len()),
			zap.String("path", path))
	}

	if !opts.Quiet {
		color.Green("✅ Wrote %d CSV files to %s", len(paths), dir)
	}
	return paths, nil
}

// WriteTableCSV writes one table to <dir>/<table>.csv.
func WriteTableCSV(dir string, table *dataset.Table) (string, error) {
	filePath := filepath.Join(dir, fmt.Sprintf("%s.csv", table.Name))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file for %s: %w", table.Name, err)
	}
	defer file.Close()

	if err := EncodeCSV(file, table); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close CSV file for %s: %w", table.Name, err)
	}
	return filePath, nil
}

// EncodeCSV writes a header row followed by every record. Empty tables
// produce the header only.
func EncodeCSV(w io.Writer, table *dataset.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header for %s: %w", table.Name, err)
	}

	values := make([]string, len(table.Columns))
	for _, row := range table.Records {
		for i, col := range table.Columns {
			values[i] = dataset.FormatValue(row[col])
		}
		if err := writer.Write(values); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", table.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV for %s: %w", table.Name, err)
	}
	return nil
}

// ToDatabase replaces every table of the set inside namespace. Tables are
// written one at a time; a failure leaves earlier tables in place.
func ToDatabase(ctx context.Context, w database.Writer, namespace string, set *dataset.Set, opts Options) error {
	if err := w.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	tables := set.Tables()
	for i, table := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !opts.Quiet {
			color.Cyan("[%d/%d] Writing %s.%s...", i+1, len(tables), namespace, table.Name)
		}

		if err := w.ReplaceTable(ctx, namespace, table); err != nil {
			return fmt.Errorf("failed to write table %s: %w", table.Name, err)
		}
		opts.recordWrite(SinkDatabase)
		opts.logger().Info("table exported",
			zap.String("sink", SinkDatabase),
			zap.String("namespace", namespace),
			zap.String("table", table.Name),
			zap.Int("rows", table.Len()))
	}

	if !opts.Quiet {
		color.Green("✅ Wrote %d tables to schema %s", len(tables), namespace)
	}
	return nil
}
