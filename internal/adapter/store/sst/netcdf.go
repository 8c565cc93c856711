// Package sst loads gridded sea surface temperature fields from NetCDF files.
package sst

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/sst-indices/internal/domain"
)

// FileConfig names the variables expected in an SST NetCDF file.
type FileConfig struct {
	Variable string // E.g., "sst", "tos", "analysed_sst".
	LonName  string // Axis name exposed to the index computation.
	LatName  string
	TimeName string
}

// DefaultConfig returns the conventional SST file configuration.
func DefaultConfig() FileConfig {
	return FileConfig{
		Variable: "sst",
		LonName:  "lon",
		LatName:  "lat",
		TimeName: "time",
	}
}

// Dimension name aliases mapped onto the configured axis names.
var (
	lonAliases  = []string{"lon", "longitude", "x"}
	latAliases  = []string{"lat", "latitude", "y"}
	timeAliases = []string{"time", "t"}
)

// Store reads an SST field from a single NetCDF file. It does not cache;
// callers hold on to the loaded field.
type Store struct {
	path   string
	config FileConfig
}

// NewStore creates a new SST NetCDF store.
func NewStore(path string, config FileConfig) *Store {
	return &Store{
		path:   path,
		config: config,
	}
}

// LoadField opens the file and reads the SST variable and its coordinates.
func (s *Store) LoadField() (*domain.Field, error) {
	return loadNetCDFField(s.path, s.config)
}

// loadNetCDFField reads an N-D data variable into a domain.Field.
func loadNetCDFField(path string, config FileConfig) (*domain.Field, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	dataNames := []string{}
	if config.Variable != "" {
		dataNames = append(dataNames, config.Variable)
	}
	dataNames = append(dataNames, "sst", "SST", "tos", "analysed_sst")

	var dataVar netcdf.Var
	var dataFound bool
	for _, name := range dataNames {
		if v, err := nc.Var(name); err == nil {
			dataVar = v
			dataFound = true
			break
		}
	}
	if !dataFound {
		return nil, fmt.Errorf("data variable not found (tried: %v)", dataNames)
	}

	dims, err := dataVar.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) == 0 {
		return nil, errors.New("data variable is a scalar")
	}

	dimNames := make([]string, len(dims))
	for i, d := range dims {
		if dimNames[i], err = d.Name(); err != nil {
			return nil, fmt.Errorf("failed to get dimension name: %w", err)
		}
	}

	axes := make([]domain.Axis, len(dims))
	total := 1
	for i, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, fmt.Errorf("failed to get length of %s: %w", dimNames[i], err)
		}
		axis, err := readAxis(nc, dimNames[i], int(n))
		if err != nil {
			return nil, err
		}
		axis.Name = axisName(dimNames[i], dimNames, config)
		axes[i] = axis
		total *= int(n)
	}

	values, err := readFloat64s(dataVar, total)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	unpack(dataVar, values)

	f, err := domain.NewField(axes, values)
	if err != nil {
		return nil, fmt.Errorf("invalid SST field: %w", err)
	}
	return f, nil
}

// axisName maps a dimension onto the configured lon/lat/time name when it
// is a known alias and the configured name is not itself a dimension.
func axisName(dim string, dimNames []string, config FileConfig) string {
	for _, m := range []struct {
		target  string
		aliases []string
	}{
		{config.LonName, lonAliases},
		{config.LatName, latAliases},
		{config.TimeName, timeAliases},
	} {
		if m.target == "" || m.target == dim || contains(dimNames, m.target) {
			continue
		}
		for _, alias := range m.aliases {
			if strings.EqualFold(dim, alias) {
				return m.target
			}
		}
	}
	return dim
}

// readAxis reads the coordinate variable for a dimension, falling back to
// 0..n-1 when the file has none. Coordinates with CF time units become
// time axes.
func readAxis(nc netcdf.Dataset, dim string, n int) (domain.Axis, error) {
	v, err := nc.Var(dim)
	if err != nil {
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(i)
		}
		return domain.Axis{Values: values}, nil
	}

	coords, err := readFloat64s(v, n)
	if err != nil {
		return domain.Axis{}, fmt.Errorf("failed to read coordinate %s: %w", dim, err)
	}

	units, ok := attrString(v, "units")
	if !ok || !strings.Contains(units, " since ") {
		return domain.Axis{Values: coords}, nil
	}

	calendar, _ := attrString(v, "calendar")
	if err := checkCalendar(calendar); err != nil {
		return domain.Axis{}, fmt.Errorf("coordinate %s: %w", dim, err)
	}
	tu, err := ParseTimeUnits(units)
	if err != nil {
		return domain.Axis{}, fmt.Errorf("coordinate %s: %w", dim, err)
	}
	times, err := tu.Decode(coords)
	if err != nil {
		return domain.Axis{}, fmt.Errorf("coordinate %s: %w", dim, err)
	}
	return domain.Axis{Times: times}, nil
}

// unpack replaces fill values with NaN and applies scale_factor/add_offset.
func unpack(v netcdf.Var, values []float64) {
	var fills []float64
	for _, name := range []string{"_FillValue", "missing_value"} {
		if fv, ok := attrFloat64(v, name); ok {
			fills = append(fills, fv)
		}
	}
	scale, hasScale := attrFloat64(v, "scale_factor")
	offset, hasOffset := attrFloat64(v, "add_offset")

	for i, x := range values {
		if isFill(x, fills) {
			values[i] = math.NaN()
			continue
		}
		if hasScale {
			x *= scale
		}
		if hasOffset {
			x += offset
		}
		values[i] = x
	}
}

func isFill(x float64, fills []float64) bool {
	for _, fv := range fills {
		if x == fv || (math.IsNaN(fv) && math.IsNaN(x)) {
			return true
		}
	}
	return false
}

// attrFloat64 returns a numeric attribute as float64 if present.
func attrFloat64(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	n, err := a.Len()
	if err != nil || n == 0 {
		return 0, false
	}
	buf64 := make([]float64, n)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, n)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	bufi := make([]int32, n)
	if err := a.ReadInt32s(bufi); err == nil {
		return float64(bufi[0]), true
	}
	bufs := make([]int16, n)
	if err := a.ReadInt16s(bufs); err == nil {
		return float64(bufs[0]), true
	}
	return 0, false
}

// attrString returns a text attribute if present.
func attrString(v netcdf.Var, name string) (string, bool) {
	a := v.Attr(name)
	n, err := a.Len()
	if err != nil || n == 0 {
		return "", false
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", false
	}
	return strings.TrimRight(string(buf), "\x00"), true
}

// readFloat64s reads n values of a numeric NetCDF variable as float64.
func readFloat64s(v netcdf.Var, n int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}

	out := make([]float64, n)
	switch t {
	case netcdf.DOUBLE:
		if err := v.ReadFloat64s(out); err != nil {
			return nil, err
		}
	case netcdf.FLOAT:
		tmp := make([]float32, n)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, n)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, n)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
