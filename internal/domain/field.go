// Package domain implements the SST climate index core: a labeled gridded
// field, grid normalization, and the Niño/TNI index computation.
package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Axis is a named coordinate axis of a Field.
// Spatial axes carry numeric Values; time axes carry Times.
type Axis struct {
	Name   string
	Values []float64
	Times  []time.Time
}

// Len returns the number of coordinate labels on the axis.
func (a Axis) Len() int {
	if len(a.Times) > len(a.Values) {
		return len(a.Times)
	}
	return len(a.Values)
}

// IsTime reports whether the axis is labeled with timestamps.
func (a Axis) IsTime() bool {
	return len(a.Times) > 0
}

// Min returns the smallest numeric coordinate, or NaN for an empty axis.
func (a Axis) Min() float64 {
	if len(a.Values) == 0 {
		return math.NaN()
	}
	m := a.Values[0]
	for _, v := range a.Values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest numeric coordinate, or NaN for an empty axis.
func (a Axis) Max() float64 {
	if len(a.Values) == 0 {
		return math.NaN()
	}
	m := a.Values[0]
	for _, v := range a.Values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Decreasing reports whether the first numeric coordinate exceeds the last.
func (a Axis) Decreasing() bool {
	n := len(a.Values)
	return n > 0 && a.Values[0] > a.Values[n-1]
}

func (a Axis) clone() Axis {
	out := Axis{Name: a.Name}
	if a.Values != nil {
		out.Values = append([]float64(nil), a.Values...)
	}
	if a.Times != nil {
		out.Times = append([]time.Time(nil), a.Times...)
	}
	return out
}

func (a Axis) take(idx []int) Axis {
	out := Axis{Name: a.Name}
	if len(a.Values) > 0 {
		out.Values = make([]float64, len(idx))
		for k, i := range idx {
			out.Values[k] = a.Values[i]
		}
	}
	if len(a.Times) > 0 {
		out.Times = make([]time.Time, len(idx))
		for k, i := range idx {
			out.Times[k] = a.Times[i]
		}
	}
	return out
}

// Field is an N-dimensional array with named, labeled axes.
// Data is stored row-major in the order of Axes.
type Field struct {
	Axes []Axis
	Data []float64
}

// NewField builds a Field and checks that the data length matches the axes.
func NewField(axes []Axis, data []float64) (*Field, error) {
	seen := make(map[string]bool, len(axes))
	size := 1
	for _, a := range axes {
		if seen[a.Name] {
			return nil, fmt.Errorf("%w: duplicate axis %q", ErrShapeMismatch, a.Name)
		}
		seen[a.Name] = true
		if len(a.Values) > 0 && len(a.Times) > 0 && len(a.Values) != len(a.Times) {
			return nil, fmt.Errorf("%w: axis %q has %d values and %d times", ErrShapeMismatch, a.Name, len(a.Values), len(a.Times))
		}
		size *= a.Len()
	}
	if size != len(data) {
		return nil, fmt.Errorf("%w: axes describe %d samples, data has %d", ErrShapeMismatch, size, len(data))
	}
	return &Field{Axes: axes, Data: data}, nil
}

// AxisNames returns the axis names in storage order.
func (f *Field) AxisNames() []string {
	names := make([]string, len(f.Axes))
	for i, a := range f.Axes {
		names[i] = a.Name
	}
	return names
}

// AxisIndex returns the position of the named axis, or -1.
func (f *Field) AxisIndex(name string) int {
	for i, a := range f.Axes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Axis returns the named axis.
func (f *Field) Axis(name string) (Axis, bool) {
	if i := f.AxisIndex(name); i >= 0 {
		return f.Axes[i], true
	}
	return Axis{}, false
}

// Shape returns the length of every axis.
func (f *Field) Shape() []int {
	shape := make([]int, len(f.Axes))
	for i, a := range f.Axes {
		shape[i] = a.Len()
	}
	return shape
}

func (f *Field) mustIndex(name string) (int, error) {
	i := f.AxisIndex(name)
	if i < 0 {
		return -1, &AxisNotFoundError{Name: name, Available: f.AxisNames()}
	}
	return i, nil
}

// Take returns a new field holding the given positions of the named axis,
// in the given order.
func (f *Field) Take(name string, idx []int) (*Field, error) {
	d, err := f.mustIndex(name)
	if err != nil {
		return nil, err
	}
	shape := f.Shape()
	n := shape[d]
	for _, i := range idx {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("%w: index %d out of range for axis %q of length %d", ErrShapeMismatch, i, name, n)
		}
	}
	return f.take(d, idx), nil
}

func (f *Field) take(d int, idx []int) *Field {
	shape := f.Shape()
	outer, inner := 1, 1
	for _, s := range shape[:d] {
		outer *= s
	}
	for _, s := range shape[d+1:] {
		inner *= s
	}
	n := shape[d]

	data := make([]float64, outer*len(idx)*inner)
	for o := 0; o < outer; o++ {
		for k, src := range idx {
			dst := (o*len(idx) + k) * inner
			from := (o*n + src) * inner
			copy(data[dst:dst+inner], f.Data[from:from+inner])
		}
	}

	axes := make([]Axis, len(f.Axes))
	for i, a := range f.Axes {
		if i == d {
			axes[i] = a.take(idx)
		} else {
			axes[i] = a.clone()
		}
	}
	return &Field{Axes: axes, Data: data}
}

// SortBy returns a new field reordered so the named axis is non-decreasing.
// The sort is stable: equal coordinates keep their relative order.
func (f *Field) SortBy(name string) (*Field, error) {
	d, err := f.mustIndex(name)
	if err != nil {
		return nil, err
	}
	return f.sortAxis(d), nil
}

func (f *Field) sortAxis(d int) *Field {
	a := f.Axes[d]
	idx := make([]int, a.Len())
	for i := range idx {
		idx[i] = i
	}
	if a.IsTime() {
		sort.SliceStable(idx, func(i, j int) bool { return a.Times[idx[i]].Before(a.Times[idx[j]]) })
	} else {
		sort.SliceStable(idx, func(i, j int) bool { return a.Values[idx[i]] < a.Values[idx[j]] })
	}
	return f.take(d, idx)
}

// AssignCoords returns a copy of the field with new numeric labels on the
// named axis. The data is not reordered.
func (f *Field) AssignCoords(name string, values []float64) (*Field, error) {
	d, err := f.mustIndex(name)
	if err != nil {
		return nil, err
	}
	if len(values) != f.Axes[d].Len() {
		return nil, fmt.Errorf("%w: %d labels for axis %q of length %d", ErrShapeMismatch, len(values), name, f.Axes[d].Len())
	}
	return f.relabel(d, values), nil
}

// relabel copies the field with new numeric labels on axis d. len(values)
// must equal the axis length.
func (f *Field) relabel(d int, values []float64) *Field {
	axes := make([]Axis, len(f.Axes))
	for i, a := range f.Axes {
		axes[i] = a.clone()
	}
	axes[d].Values = append([]float64(nil), values...)
	return &Field{Axes: axes, Data: append([]float64(nil), f.Data...)}
}

// SelectRange keeps the positions of the named axis whose coordinate lies in
// the closed interval [lo, hi].
func (f *Field) SelectRange(name string, lo, hi float64) (*Field, error) {
	d, err := f.mustIndex(name)
	if err != nil {
		return nil, err
	}
	var idx []int
	for i, v := range f.Axes[d].Values {
		if v >= lo && v <= hi {
			idx = append(idx, i)
		}
	}
	return f.take(d, idx), nil
}

// Mean averages the field over the named axes, skipping NaN samples.
// Cells with no valid sample are NaN.
func (f *Field) Mean(names ...string) (*Field, error) {
	reduce := make([]bool, len(f.Axes))
	for _, name := range names {
		d, err := f.mustIndex(name)
		if err != nil {
			return nil, err
		}
		reduce[d] = true
	}

	shape := f.Shape()
	outStride := make([]int, len(shape))
	outSize := 1
	for d := len(shape) - 1; d >= 0; d-- {
		if !reduce[d] {
			outStride[d] = outSize
			outSize *= shape[d]
		}
	}

	sums := make([]float64, outSize)
	counts := make([]int, outSize)
	pos := make([]int, len(shape))
	for _, v := range f.Data {
		o := 0
		for d, p := range pos {
			o += p * outStride[d]
		}
		if !math.IsNaN(v) {
			sums[o] += v
			counts[o]++
		}
		for d := len(pos) - 1; d >= 0; d-- {
			pos[d]++
			if pos[d] < shape[d] {
				break
			}
			pos[d] = 0
		}
	}

	data := make([]float64, outSize)
	for i := range data {
		if counts[i] == 0 {
			data[i] = math.NaN()
			continue
		}
		data[i] = sums[i] / float64(counts[i])
	}

	axes := make([]Axis, 0, len(f.Axes))
	for d, a := range f.Axes {
		if !reduce[d] {
			axes = append(axes, a.clone())
		}
	}
	return &Field{Axes: axes, Data: data}, nil
}

// Squeeze drops every length-1 axis not named in keep. The data layout is
// unchanged.
func (f *Field) Squeeze(keep ...string) *Field {
	axes := make([]Axis, 0, len(f.Axes))
	for _, a := range f.Axes {
		if a.Len() == 1 && !containsName(keep, a.Name) {
			continue
		}
		axes = append(axes, a.clone())
	}
	return &Field{Axes: axes, Data: append([]float64(nil), f.Data...)}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Series converts a field that has been reduced to its time axis into a
// Series.
func (f *Field) Series(timeName string) (*Series, error) {
	d, err := f.mustIndex(timeName)
	if err != nil {
		return nil, err
	}
	if len(f.Axes) != 1 {
		return nil, fmt.Errorf("%w: field still has axes %v, want only %q", ErrTimeAxis, f.AxisNames(), timeName)
	}
	a := f.Axes[d]
	if len(a.Times) != len(f.Data) {
		return nil, fmt.Errorf("%w: axis %q has %d timestamps for %d samples", ErrTimeAxis, timeName, len(a.Times), len(f.Data))
	}
	return &Series{
		Times:  append([]time.Time(nil), a.Times...),
		Values: append([]float64(nil), f.Data...),
	}, nil
}
