package store

import (
	"fmt"

	"go.ngs.io/sst-indices/internal/adapter/store/csv"
	"go.ngs.io/sst-indices/internal/adapter/store/sst"
)

// Supported SST formats.
const (
	FormatNetCDF = "netcdf"
	FormatCSV    = "csv"
)

// Source describes where and how an SST field is stored.
type Source struct {
	Path     string
	Format   string // "netcdf" or "csv".
	Variable string // NetCDF data variable.
	LonName  string
	LatName  string
	TimeName string
}

// Open returns the FieldLoader for a source.
func Open(src Source) (FieldLoader, error) {
	switch src.Format {
	case FormatNetCDF:
		return sst.NewStore(src.Path, sst.FileConfig{
			Variable: src.Variable,
			LonName:  src.LonName,
			LatName:  src.LatName,
			TimeName: src.TimeName,
		}), nil
	case FormatCSV:
		return csv.NewFieldStore(src.Path, src.TimeName, src.LatName, src.LonName), nil
	default:
		return nil, fmt.Errorf("unsupported SST format %q (expected %s or %s)", src.Format, FormatNetCDF, FormatCSV)
	}
}
