package geo

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed us_sample.csv
var defaultLocations []byte

var ErrNoLocations = errors.New("location reference is empty")

type Location struct {
	City    string
	StateID string
	Zip     string
	Lat     float64
	Lng     float64
}

// Load reads a location reference CSV. An empty path loads the bundled sample.
func Load(path string) ([]Location, error) {
	if path == "" {
		return Parse(bytes.NewReader(defaultLocations))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open location file %s: %w", path, err)
	}
	defer f.Close()

	locations, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse location file %s: %w", path, err)
	}
	return locations, nil
}

// Parse reads city, state_id, zip (or zips), lat and lng columns by header name.
func Parse(r io.Reader) ([]Location, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["zip"]; !ok {
		if zi, ok := idx["zips"]; ok {
			idx["zip"] = zi
		}
	}
	for _, required := range []string{"city", "state_id", "zip", "lat", "lng"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var locations []Location
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		lat, err := strconv.ParseFloat(field(rec, idx["lat"]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid lat: %w", line, err)
		}
		lng, err := strconv.ParseFloat(field(rec, idx["lng"]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid lng: %w", line, err)
		}

		zip := field(rec, idx["zip"])
		if parts := strings.Fields(zip); len(parts) > 0 {
			zip = parts[0]
		}

		locations = append(locations, Location{
			City:    field(rec, idx["city"]),
			StateID: field(rec, idx["state_id"]),
			Zip:     zip,
			Lat:     lat,
			Lng:     lng,
		})
	}

	if len(locations) == 0 {
		return nil, ErrNoLocations
	}
	return locations, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
