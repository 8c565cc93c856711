// Command nino computes one standardized Niño or TNI index from an SST file
// and writes it as CSV.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.ngs.io/sst-indices/internal/adapter/store"
	"go.ngs.io/sst-indices/internal/adapter/store/csv"
	"go.ngs.io/sst-indices/internal/config"
	"go.ngs.io/sst-indices/internal/domain"
	"go.ngs.io/sst-indices/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "nino: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	defaults := domain.DefaultOptions()

	fs := flag.NewFlagSet("nino", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "SST file (NetCDF or long-format CSV)")
	variable := fs.String("var", "sst", "NetCDF data variable")
	format := fs.String("format", "", "netcdf or csv (default: from file extension)")
	region := fs.String("region", defaults.Region, "index: 1+2, 3, 4, 3.4, oni or tni")
	window := fs.Int("window", defaults.Window, "trailing moving-average window in months (0 disables)")
	lonName := fs.String("lon", defaults.Lon, "longitude axis name")
	latName := fs.String("lat", defaults.Lat, "latitude axis name")
	timeName := fs.String("time", defaults.Time, "time axis name")
	out := fs.String("out", "", "output CSV file (default: stdout)")
	logLevel := fs.String("log-level", "warn", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" {
		fs.Usage()
		return fmt.Errorf("-in is required")
	}
	if *format == "" {
		*format = config.InferFormat(*in)
	}

	loader, err := store.Open(store.Source{
		Path:     *in,
		Format:   *format,
		Variable: *variable,
		LonName:  *lonName,
		LatName:  *latName,
		TimeName: *timeName,
	})
	if err != nil {
		return err
	}
	field, err := loader.LoadField()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", *in, err)
	}

	logger := observability.NewLoggerTo(stderr, *logLevel, "text")
	series, err := domain.NewComputer(logger).Compute(field, domain.Options{
		Lon:    *lonName,
		Lat:    *latName,
		Time:   *timeName,
		Window: *window,
		Region: *region,
	})
	if err != nil {
		return err
	}

	w := stdout
	if *out != "" {
		//nolint:gosec // G304: output path is a user-supplied flag.
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return csv.WriteSeries(w, series)
}
