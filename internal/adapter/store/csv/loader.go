// Package csv provides CSV-based SST field loading and index series export.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.ngs.io/sst-indices/internal/domain"
)

var expectedHeaders = []string{"time", "lat", "lon", "value"}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// FieldStore reads a long-format SST CSV (time,lat,lon,value) into a dense
// time x lat x lon field.
type FieldStore struct {
	path     string
	timeName string
	latName  string
	lonName  string
}

// NewFieldStore creates a new CSV-based field store. The axis names are the
// names exposed on the loaded field.
func NewFieldStore(path, timeName, latName, lonName string) *FieldStore {
	return &FieldStore{
		path:     path,
		timeName: timeName,
		latName:  latName,
		lonName:  lonName,
	}
}

// LoadField reads the CSV file.
func (s *FieldStore) LoadField() (*domain.Field, error) {
	//nolint:gosec // G304: path comes from configuration.
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", s.path, err)
	}
	defer func() { _ = file.Close() }()

	return ReadField(file, s.timeName, s.latName, s.lonName)
}

type cell struct {
	t, lat, lon int
	value       float64
}

// ReadField parses long-format rows. Coordinates keep their order of first
// appearance; cells absent from the file are NaN.
func ReadField(r io.Reader, timeName, latName, lonName string) (*domain.Field, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// Read header.
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Validate header.
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid CSV header: expected %v, got %v", expectedHeaders, header)
	}
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) != expectedHeaders[i] {
			return nil, fmt.Errorf("invalid CSV header: expected column %d to be %s, got %s", i, expectedHeaders[i], h)
		}
	}

	var times []time.Time
	var lats, lons []float64
	timeIdx := map[time.Time]int{}
	latIdx := map[float64]int{}
	lonIdx := map[float64]int{}
	var cells []cell

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		t, err := parseTime(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid time: %w", line, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid lat: %w", line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid lon: %w", line, err)
		}
		value := math.NaN()
		if v := strings.TrimSpace(record[3]); v != "" {
			if value, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("line %d: invalid value: %w", line, err)
			}
		}

		ti, ok := timeIdx[t]
		if !ok {
			ti = len(times)
			timeIdx[t] = ti
			times = append(times, t)
		}
		li, ok := latIdx[lat]
		if !ok {
			li = len(lats)
			latIdx[lat] = li
			lats = append(lats, lat)
		}
		oi, ok := lonIdx[lon]
		if !ok {
			oi = len(lons)
			lonIdx[lon] = oi
			lons = append(lons, lon)
		}
		cells = append(cells, cell{t: ti, lat: li, lon: oi, value: value})
	}

	if len(cells) == 0 {
		return nil, errors.New("no SST records found in CSV")
	}

	data := make([]float64, len(times)*len(lats)*len(lons))
	seen := make([]bool, len(data))
	for i := range data {
		data[i] = math.NaN()
	}
	for _, c := range cells {
		k := (c.t*len(lats)+c.lat)*len(lons) + c.lon
		if seen[k] {
			return nil, fmt.Errorf("duplicate record for time %s, lat %v, lon %v",
				times[c.t].Format(time.RFC3339), lats[c.lat], lons[c.lon])
		}
		seen[k] = true
		data[k] = c.value
	}

	return domain.NewField([]domain.Axis{
		{Name: timeName, Times: times},
		{Name: latName, Values: lats},
		{Name: lonName, Values: lons},
	}, data)
}

// WriteSeries writes an index series as time,value rows. Missing values are
// written as empty cells.
func WriteSeries(w io.Writer, s *domain.Series) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"time", "value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, t := range s.Times {
		value := ""
		if v := s.Values[i]; !math.IsNaN(v) {
			value = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := writer.Write([]string{t.Format("2006-01-02"), value}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
