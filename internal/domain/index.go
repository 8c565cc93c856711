package domain

import (
	"fmt"
	"log/slog"
)

// Options selects the axes, smoothing window and index for Compute.
type Options struct {
	Lon    string // Longitude axis name.
	Lat    string // Latitude axis name.
	Time   string // Time axis name.
	Window int    // Trailing moving-average length in samples; 0 disables smoothing.
	Region string // One of IndexNames().
}

// DefaultOptions returns the conventional axis names, a 5-month window and
// Niño 3.4.
func DefaultOptions() Options {
	return Options{
		Lon:    "lon",
		Lat:    "lat",
		Time:   "time",
		Window: 5,
		Region: "3.4",
	}
}

// Computer produces standardized Niño and TNI index series.
type Computer struct {
	logger *slog.Logger

	// OnNormalize, if set, is called with the axes that were rearranged
	// before reduction. An empty name means the axis was left alone.
	OnNormalize func(lonName, latName string)
}

// NewComputer creates a Computer. A nil logger uses slog.Default().
func NewComputer(logger *slog.Logger) *Computer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Computer{logger: logger}
}

// Compute returns the standardized anomaly series for opts.Region.
//
// Fields whose longitude is negative or tops out at 180 degrees, or whose
// latitude decreases, are normalized first and a warning is logged.
//
// For TNI the 1+2 and 4 anomaly series are differenced without smoothing,
// then the difference is smoothed and standardized on its own.
func (c *Computer) Compute(sst *Field, opts Options) (*Series, error) {
	if err := ValidateIndexName(opts.Region); err != nil {
		return nil, err
	}
	if opts.Window < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, opts.Window)
	}

	lon, err := requireAxis(sst, opts.Lon)
	if err != nil {
		return nil, err
	}
	lat, err := requireAxis(sst, opts.Lat)
	if err != nil {
		return nil, err
	}
	if _, err := requireAxis(sst, opts.Time); err != nil {
		return nil, err
	}

	var lonName, latName string
	if lon.Min() < 0 || lon.Max() <= 180 {
		lonName = opts.Lon
	}
	if lat.Decreasing() {
		latName = opts.Lat
	}
	if lonName != "" || latName != "" {
		c.logger.Warn("re-arranging SST to be in domain [0,360] x [-90,90]",
			"lon_axis", lonName,
			"lat_axis", latName,
			"lon_min", lon.Min(),
			"lon_max", lon.Max(),
		)
		sst = Normalize(sst, lonName, latName)
		if c.OnNormalize != nil {
			c.OnNormalize(lonName, latName)
		}
	}

	if opts.Region == TNI {
		return c.tni(sst, opts)
	}
	return c.regionAverage(sst, opts.Region, opts)
}

func (c *Computer) tni(sst *Field, opts Options) (*Series, error) {
	n12, err := c.reduceRaw(sst, "1+2", opts)
	if err != nil {
		return nil, err
	}
	n4, err := c.reduceRaw(sst, "4", opts)
	if err != nil {
		return nil, err
	}
	diff, err := n12.Sub(n4)
	if err != nil {
		return nil, err
	}
	diff.Name = TNI
	smoothed, err := diff.Rolling(opts.Window)
	if err != nil {
		return nil, err
	}
	return smoothed.Standardize()
}

// regionAverage reduces the field to the region's anomaly series, smooths it
// and standardizes it.
func (c *Computer) regionAverage(sst *Field, region string, opts Options) (*Series, error) {
	anomalies, err := c.reduceRaw(sst, region, opts)
	if err != nil {
		return nil, err
	}
	smoothed, err := anomalies.Rolling(opts.Window)
	if err != nil {
		return nil, err
	}
	return smoothed.Standardize()
}

// reduceRaw box-averages the field over a region and removes the monthly
// climatology. No smoothing or standardization is applied.
func (c *Computer) reduceRaw(sst *Field, region string, opts Options) (*Series, error) {
	box, _ := LookupRegion(region)

	sub, err := sst.SelectRange(opts.Lon, box.LonMin, box.LonMax)
	if err != nil {
		return nil, err
	}
	sub, err = sub.SelectRange(opts.Lat, box.LatMin, box.LatMax)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{opts.Lon, opts.Lat} {
		if a, _ := sub.Axis(name); a.Len() == 0 {
			return nil, fmt.Errorf("%w: %s has no %s labels in [%g, %g] x [%g, %g]",
				ErrEmptyRegion, region, name, box.LonMin, box.LonMax, box.LatMin, box.LatMax)
		}
	}

	avg, err := sub.Mean(opts.Lon, opts.Lat)
	if err != nil {
		return nil, err
	}
	// Singleton extra axes such as a surface level carry no extent.
	series, err := avg.Squeeze(opts.Time).Series(opts.Time)
	if err != nil {
		return nil, err
	}
	series.Name = region

	c.logger.Debug("reduced region", "region", region, "samples", series.Len())
	return series.Anomalies(), nil
}

func requireAxis(f *Field, name string) (Axis, error) {
	a, ok := f.Axis(name)
	if !ok {
		return Axis{}, &AxisNotFoundError{Name: name, Available: f.AxisNames()}
	}
	return a, nil
}
