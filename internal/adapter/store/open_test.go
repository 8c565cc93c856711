package store

import (
	"testing"

	"go.ngs.io/sst-indices/internal/adapter/store/csv"
	"go.ngs.io/sst-indices/internal/adapter/store/sst"
)

func TestOpen(t *testing.T) {
	src := Source{Path: "sst.nc", Variable: "sst", LonName: "lon", LatName: "lat", TimeName: "time"}

	src.Format = FormatNetCDF
	loader, err := Open(src)
	if err != nil {
		t.Fatalf("Open(netcdf): %v", err)
	}
	if _, ok := loader.(*sst.Store); !ok {
		t.Errorf("Open(netcdf) = %T, want *sst.Store", loader)
	}

	src.Format = FormatCSV
	loader, err = Open(src)
	if err != nil {
		t.Fatalf("Open(csv): %v", err)
	}
	if _, ok := loader.(*csv.FieldStore); !ok {
		t.Errorf("Open(csv) = %T, want *csv.FieldStore", loader)
	}

	src.Format = "grib"
	if _, err := Open(src); err == nil {
		t.Errorf("Open(grib) expected error")
	}
}
