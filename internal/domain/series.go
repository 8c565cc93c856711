package domain

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Series is a one-dimensional time series. Missing samples are NaN.
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// NewSeries creates a series from parallel timestamp and value slices.
func NewSeries(name string, times []time.Time, values []float64) (*Series, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps for %d values", ErrShapeMismatch, len(times), len(values))
	}
	return &Series{Name: name, Times: times, Values: values}, nil
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Values)
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	return &Series{
		Name:   s.Name,
		Times:  append([]time.Time(nil), s.Times...),
		Values: append([]float64(nil), s.Values...),
	}
}

// ValidValues returns the non-NaN samples in time order.
func (s *Series) ValidValues() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the mean of the valid samples, or NaN if there are none.
func (s *Series) Mean() float64 {
	valid := s.ValidValues()
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// Std returns the population (ddof=0) standard deviation of the valid
// samples, or NaN if there are none.
func (s *Series) Std() float64 {
	valid := s.ValidValues()
	if len(valid) == 0 {
		return math.NaN()
	}
	_, std := stat.PopMeanStdDev(valid, nil)
	return std
}

// Climatology holds one baseline value per calendar month, January first.
// Months with no valid sample are NaN.
type Climatology [12]float64

// At returns the baseline for the month of t.
func (c Climatology) At(t time.Time) float64 {
	return c[t.Month()-1]
}

// Climatology groups the series by calendar month and averages each group.
func (s *Series) Climatology() Climatology {
	var groups [12][]float64
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		m := s.Times[i].Month() - 1
		groups[m] = append(groups[m], v)
	}
	var c Climatology
	for m, g := range groups {
		if len(g) == 0 {
			c[m] = math.NaN()
			continue
		}
		c[m] = stat.Mean(g, nil)
	}
	return c
}

// Anomalies subtracts the series' own monthly climatology from every sample.
func (s *Series) Anomalies() *Series {
	clim := s.Climatology()
	out := s.Clone()
	for i, t := range out.Times {
		out.Values[i] -= clim.At(t)
	}
	return out
}

// Rolling applies a trailing moving average of the given window. A sample is
// NaN until window samples have accumulated, and whenever the window holds a
// NaN. A window of 0 returns an unsmoothed copy.
func (s *Series) Rolling(window int) (*Series, error) {
	if window < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	out := s.Clone()
	if window == 0 {
		return out, nil
	}
	for i := range s.Values {
		if i+1 < window {
			out.Values[i] = math.NaN()
			continue
		}
		w := s.Values[i+1-window : i+1]
		if hasNaN(w) {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = stat.Mean(w, nil)
	}
	return out, nil
}

// Standardize divides every sample by the series' standard deviation.
func (s *Series) Standardize() (*Series, error) {
	std := s.Std()
	if math.IsNaN(std) || std == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDegenerateSeries, s.Name)
	}
	out := s.Clone()
	for i := range out.Values {
		out.Values[i] /= std
	}
	return out, nil
}

// Sub returns the elementwise difference s - o. Both series must share the
// same time axis.
func (s *Series) Sub(o *Series) (*Series, error) {
	if len(s.Times) != len(o.Times) {
		return nil, fmt.Errorf("%w: series lengths %d and %d differ", ErrShapeMismatch, len(s.Times), len(o.Times))
	}
	out := s.Clone()
	for i, t := range s.Times {
		if !t.Equal(o.Times[i]) {
			return nil, fmt.Errorf("%w: time axes differ at %d (%s vs %s)", ErrShapeMismatch, i, t.Format(time.RFC3339), o.Times[i].Format(time.RFC3339))
		}
		out.Values[i] -= o.Values[i]
	}
	return out, nil
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
