package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewField_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		axes []Axis
		data []float64
	}{
		{
			name: "too few samples",
			axes: []Axis{{Name: "lat", Values: []float64{0, 1}}, {Name: "lon", Values: []float64{0, 1, 2}}},
			data: []float64{1, 2, 3, 4, 5},
		},
		{
			name: "duplicate axis",
			axes: []Axis{{Name: "lat", Values: []float64{0}}, {Name: "lat", Values: []float64{1}}},
			data: []float64{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewField(tt.axes, tt.data)
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("NewField() error = %v, want ErrShapeMismatch", err)
			}
		})
	}
}

func TestField_SelectRangeIsInclusive(t *testing.T) {
	f, err := NewField([]Axis{
		{Name: "lat", Values: []float64{-10, -5, 0, 5, 10}},
		{Name: "lon", Values: []float64{150, 160, 170}},
	}, seq(0, 14, 1))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	sub, err := f.SelectRange("lat", -5, 5)
	if err != nil {
		t.Fatalf("SelectRange: %v", err)
	}
	lat, _ := sub.Axis("lat")
	if !sameFloats(lat.Values, []float64{-5, 0, 5}, 0) {
		t.Errorf("lat labels = %v, want [-5 0 5]", lat.Values)
	}
	// Rows 1..3 of a 5x3 grid.
	if !sameFloats(sub.Data, seq(3, 11, 1), 0) {
		t.Errorf("data = %v", sub.Data)
	}
}

func TestField_MeanSkipsNaN(t *testing.T) {
	times := monthlyTimes(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	f, err := NewField([]Axis{
		{Name: "time", Times: times},
		{Name: "lat", Values: []float64{0, 1}},
		{Name: "lon", Values: []float64{0, 1}},
	}, []float64{
		1, 2, 3, math.NaN(),
		math.NaN(), math.NaN(), math.NaN(), math.NaN(),
	})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	m, err := f.Mean("lat", "lon")
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	if len(m.Axes) != 1 || m.Axes[0].Name != "time" {
		t.Fatalf("remaining axes = %v, want [time]", m.AxisNames())
	}
	if math.Abs(m.Data[0]-2) > 1e-12 {
		t.Errorf("mean[0] = %v, want 2", m.Data[0])
	}
	if !math.IsNaN(m.Data[1]) {
		t.Errorf("mean[1] = %v, want NaN for all-missing cell", m.Data[1])
	}
}

func TestField_MeanMiddleAxis(t *testing.T) {
	f, err := NewField([]Axis{
		{Name: "a", Values: []float64{0, 1}},
		{Name: "b", Values: []float64{0, 1, 2}},
		{Name: "c", Values: []float64{0, 1}},
	}, seq(0, 11, 1))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	m, err := f.Mean("b")
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	// a=0: c=0 -> (0+2+4)/3, c=1 -> (1+3+5)/3; a=1 adds 6.
	want := []float64{2, 3, 8, 9}
	if !sameFloats(m.Data, want, 1e-12) {
		t.Errorf("Mean(b) = %v, want %v", m.Data, want)
	}
}

func TestField_TakeRejectsOutOfRange(t *testing.T) {
	f, _ := NewField([]Axis{{Name: "lon", Values: []float64{0, 1}}}, []float64{1, 2})
	if _, err := f.Take("lon", []int{2}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Take() error = %v, want ErrShapeMismatch", err)
	}
	if _, err := f.Take("lat", []int{0}); !errors.Is(err, ErrAxisNotFound) {
		t.Errorf("Take() error = %v, want ErrAxisNotFound", err)
	}
}

func TestField_SeriesRequiresOnlyTimeAxis(t *testing.T) {
	f := buildField(t, 3, []float64{0}, []float64{0, 1}, func(i int, _ time.Time, _, _ float64) float64 { return float64(i) })
	if _, err := f.Series("time"); !errors.Is(err, ErrTimeAxis) {
		t.Errorf("Series() error = %v, want ErrTimeAxis", err)
	}

	m, err := f.Mean("lat", "lon")
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	s, err := m.Series("time")
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if !sameFloats(s.Values, []float64{0, 1, 2}, 0) {
		t.Errorf("series = %v", s.Values)
	}
}

func TestField_SqueezeDropsSingletonAxes(t *testing.T) {
	f, err := NewField([]Axis{
		{Name: "time", Times: monthlyTimes(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 1)},
		{Name: "lev", Values: []float64{0}},
		{Name: "lat", Values: []float64{-5, 5}},
	}, []float64{1, 2})
	if err != nil {
		t.Fatal(err)
	}

	got := f.Squeeze("time")
	names := got.AxisNames()
	if len(names) != 2 || names[0] != "time" || names[1] != "lat" {
		t.Errorf("Squeeze(time) axes = %v, want [time lat]", names)
	}
	if !sameFloats(got.Data, []float64{1, 2}, 0) {
		t.Errorf("Squeeze changed data: %v", got.Data)
	}

	if names := f.Squeeze().AxisNames(); len(names) != 1 || names[0] != "lat" {
		t.Errorf("Squeeze() axes = %v, want [lat]", names)
	}
	if len(f.Axes) != 3 {
		t.Errorf("Squeeze modified its input")
	}
}
