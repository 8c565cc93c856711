package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func newTestSeries(t *testing.T, values []float64) *Series {
	t.Helper()
	s, err := NewSeries("test", monthlyTimes(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), len(values)), values)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	return s
}

func TestSeries_ClimatologyAndAnomalies(t *testing.T) {
	// Two years; each month m has values m and m+2.
	values := make([]float64, 24)
	for i := range values {
		values[i] = float64(i%12) + 2*float64(i/12)
	}
	s := newTestSeries(t, values)

	clim := s.Climatology()
	for m := 0; m < 12; m++ {
		if math.Abs(clim[m]-(float64(m)+1)) > 1e-12 {
			t.Errorf("climatology[%d] = %v, want %v", m, clim[m], float64(m)+1)
		}
	}

	anom := s.Anomalies()
	for i, v := range anom.Values {
		want := -1.0
		if i >= 12 {
			want = 1.0
		}
		if math.Abs(v-want) > 1e-12 {
			t.Errorf("anomaly[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestSeries_ClimatologySkipsNaN(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = 10
	}
	values[0] = math.NaN()
	values[13] = math.NaN()
	values[1] = 8 // February: mean of 8 and 10.

	clim := newTestSeries(t, values).Climatology()
	if clim[0] != 10 {
		t.Errorf("January climatology = %v, want 10", clim[0])
	}
	if math.Abs(clim[1]-8) > 1e-12 {
		t.Errorf("February climatology = %v, want 8 (13th sample is NaN)", clim[1])
	}
}

func TestSeries_RollingIsTrailing(t *testing.T) {
	s := newTestSeries(t, []float64{1, 2, 3, 4, 5, math.NaN(), 7, 8, 9})

	got, err := s.Rolling(3)
	if err != nil {
		t.Fatalf("Rolling: %v", err)
	}
	nan := math.NaN()
	want := []float64{nan, nan, 2, 3, 4, nan, nan, nan, 8}
	if !sameFloats(got.Values, want, 1e-12) {
		t.Errorf("Rolling(3) = %v, want %v", got.Values, want)
	}
	if s.Values[2] != 3 {
		t.Errorf("Rolling modified its input")
	}
}

func TestSeries_RollingWindowEdgeCases(t *testing.T) {
	s := newTestSeries(t, []float64{1, 2, 3})

	none, err := s.Rolling(0)
	if err != nil {
		t.Fatalf("Rolling(0): %v", err)
	}
	if !sameFloats(none.Values, s.Values, 0) {
		t.Errorf("Rolling(0) = %v, want unchanged", none.Values)
	}

	if _, err := s.Rolling(-1); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Rolling(-1) error = %v, want ErrInvalidWindow", err)
	}

	long, err := s.Rolling(5)
	if err != nil {
		t.Fatalf("Rolling(5): %v", err)
	}
	for i, v := range long.Values {
		if !math.IsNaN(v) {
			t.Errorf("Rolling(5)[%d] = %v, want NaN", i, v)
		}
	}
}

func TestSeries_StdIsPopulation(t *testing.T) {
	s := newTestSeries(t, []float64{2, 4, 4, 4, 5, 5, 7, 9, math.NaN()})
	if got := s.Std(); math.Abs(got-2) > 1e-12 {
		t.Errorf("Std() = %v, want 2", got)
	}
}

func TestSeries_Standardize(t *testing.T) {
	s := newTestSeries(t, []float64{2, 4, 4, 4, 5, 5, 7, 9})
	got, err := s.Standardize()
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	if math.Abs(got.Std()-1) > 1e-12 {
		t.Errorf("standardized std = %v, want 1", got.Std())
	}
	if math.Abs(got.Values[0]-1) > 1e-12 {
		t.Errorf("first value = %v, want 1 (2 / std 2)", got.Values[0])
	}

	tests := []struct {
		name   string
		values []float64
	}{
		{"constant", []float64{3, 3, 3}},
		{"all missing", []float64{math.NaN(), math.NaN()}},
		{"empty", []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestSeries(t, tt.values).Standardize()
			if !errors.Is(err, ErrDegenerateSeries) {
				t.Errorf("Standardize() error = %v, want ErrDegenerateSeries", err)
			}
		})
	}
}

func TestSeries_SubRequiresSameTimes(t *testing.T) {
	a := newTestSeries(t, []float64{5, 6, 7})
	b := newTestSeries(t, []float64{1, 1, 2})

	d, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if !sameFloats(d.Values, []float64{4, 5, 5}, 0) {
		t.Errorf("Sub = %v", d.Values)
	}

	shifted := b.Clone()
	shifted.Times[1] = shifted.Times[1].Add(time.Hour)
	if _, err := a.Sub(shifted); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Sub() error = %v, want ErrShapeMismatch", err)
	}
	if _, err := a.Sub(newTestSeries(t, []float64{1})); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Sub() error = %v, want ErrShapeMismatch", err)
	}
}
