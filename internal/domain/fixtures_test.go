package domain

import (
	"math"
	"testing"
	"time"
)

// monthlyTimes returns n first-of-month timestamps starting at start.
func monthlyTimes(start time.Time, n int) []time.Time {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.AddDate(0, i, 0)
	}
	return times
}

// seq returns lo, lo+step, ... up to and including hi.
func seq(lo, hi, step float64) []float64 {
	var out []float64
	for v := lo; v <= hi+1e-9; v += step {
		out = append(out, v)
	}
	return out
}

// buildField creates a time x lat x lon field filled by fn.
func buildField(t *testing.T, nTime int, lats, lons []float64, fn func(i int, tm time.Time, lat, lon float64) float64) *Field {
	t.Helper()
	times := monthlyTimes(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), nTime)
	data := make([]float64, 0, nTime*len(lats)*len(lons))
	for i, tm := range times {
		for _, lat := range lats {
			for _, lon := range lons {
				data = append(data, fn(i, tm, lat, lon))
			}
		}
	}
	f, err := NewField([]Axis{
		{Name: "time", Times: times},
		{Name: "lat", Values: append([]float64(nil), lats...)},
		{Name: "lon", Values: append([]float64(nil), lons...)},
	}, data)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

// syntheticSST has a seasonal cycle plus a longitude-dependent anomaly, so
// every Niño box and TNI get a non-trivial series.
func syntheticSST(i int, tm time.Time, lat, lon float64) float64 {
	seasonal := 2 * math.Cos(2*math.Pi*float64(tm.Month()-1)/12)
	anomaly := math.Sin(0.31*float64(i)+lon/37) + 0.5*math.Cos(0.07*float64(i)*float64(1+int(lon)%7))
	return 26 + seasonal + anomaly + 0.05*lat
}

func sameFloats(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			if math.IsNaN(a[i]) != math.IsNaN(b[i]) {
				return false
			}
			continue
		}
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
