package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

const ManifestFile = "manifest.yaml"

// Manifest describes one generation run next to its CSV files.
type Manifest struct {
	Seed        int64           `yaml:"seed"`
	StartDate   string          `yaml:"start_date"`
	EndDate     string          `yaml:"end_date"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Tables      []ManifestTable `yaml:"tables"`
}

type ManifestTable struct {
	Name    string   `yaml:"name"`
	Rows    int      `yaml:"rows"`
	Columns []string `yaml:"columns"`
}

func NewManifest(set *dataset.Set, seed int64, start, horizon dataset.Date, generatedAt time.Time) *Manifest {
	m := &Manifest{
		Seed:        seed,
		StartDate:   start.String(),
		EndDate:     horizon.String(),
		GeneratedAt: generatedAt.UTC(),
	}
	for _, t := range set.Tables() {
		m.Tables = append(m.Tables, ManifestTable{
			Name:    t.Name,
			Rows:    t.Len(),
			Columns: append([]string(nil), t.Columns...),
		})
	}
	return m
}

// Rows maps table name to row count.
func (m *Manifest) Rows() map[string]int {
	out := make(map[string]int, len(m.Tables))
	for _, t := range m.Tables {
		out[t.Name] = t.Rows
	}
	return out
}

func WriteManifest(dir string, m *Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}

	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
