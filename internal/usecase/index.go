package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"gonum.org/v1/gonum/floats"

	"go.ngs.io/sst-indices/internal/adapter/store"
	"go.ngs.io/sst-indices/internal/domain"
	"go.ngs.io/sst-indices/internal/observability"
)

// MaxWindow bounds the smoothing window accepted from requests.
const MaxWindow = 60

// ErrInvalidRequest marks request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// IndexRequest encapsulates an index computation request.
type IndexRequest struct {
	Region string // Empty uses the configured default.
	Window *int   // Nil uses the configured default.
}

// IndexResponse contains a computed index series.
type IndexResponse struct {
	Index       string            `json:"index"`
	Description string            `json:"description"`
	Window      int               `json:"window"`
	RegionBox   *RegionBox        `json:"region_box,omitempty"`
	Points      []IndexPoint      `json:"points"`
	Stats       IndexStats        `json:"stats"`
	Meta        map[string]string `json:"meta"`
}

// IndexPoint is one sample of the index. Value is null where the series is
// undefined (before the smoothing window fills, or missing data).
type IndexPoint struct {
	Time  string   `json:"time"`
	Value *float64 `json:"value"`
}

// IndexStats summarizes the defined samples of a series.
type IndexStats struct {
	Count int      `json:"count"`
	Valid int      `json:"valid"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

// RegionBox is a lon/lat box in the [0,360] x [-90,90] convention.
type RegionBox struct {
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
}

// RegionInfo describes one computable index.
type RegionInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Box         *RegionBox `json:"box,omitempty"`
	Definition  string     `json:"definition,omitempty"`
}

const tniDescription = "Trans-Niño Index"

const tniDefinition = "standardize(rolling(anomaly(1+2) - anomaly(4), window))"

// IndexUseCase orchestrates index computation over a single SST source.
type IndexUseCase struct {
	loader   store.FieldLoader
	computer *domain.Computer
	defaults domain.Options
	metrics  *observability.Metrics
	logger   *slog.Logger
	clock    clockwork.Clock

	field *domain.Field // Cache loaded field.
	mu    sync.RWMutex  // Protect cache.
}

// NewIndexUseCase creates a new index use case. Axis names and the default
// region and window come from defaults. A nil metrics records into
// unregistered collectors.
func NewIndexUseCase(
	loader store.FieldLoader,
	defaults domain.Options,
	metrics *observability.Metrics,
	logger *slog.Logger,
	clock clockwork.Clock,
) *IndexUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	computer := domain.NewComputer(logger)
	computer.OnNormalize = func(_, _ string) {
		metrics.GridNormalizations.Inc()
	}
	return &IndexUseCase{
		loader:   loader,
		computer: computer,
		defaults: defaults,
		metrics:  metrics,
		logger:   logger,
		clock:    clock,
	}
}

// Validate checks if the request is valid.
func (r *IndexRequest) Validate() error {
	if r.Region != "" {
		if err := domain.ValidateIndexName(r.Region); err != nil {
			return err
		}
	}
	if r.Window != nil {
		if *r.Window < 0 || *r.Window > MaxWindow {
			return fmt.Errorf("%w: window must be between 0 and %d", domain.ErrInvalidWindow, MaxWindow)
		}
	}
	return nil
}

// Execute computes the requested index.
func (uc *IndexUseCase) Execute(req IndexRequest) (*IndexResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	opts := uc.defaults
	if req.Region != "" {
		opts.Region = req.Region
	}
	if req.Window != nil {
		opts.Window = *req.Window
	}

	field, err := uc.loadField()
	if err != nil {
		uc.metrics.IndexComputations.WithLabelValues(opts.Region, observability.OutcomeError).Inc()
		return nil, err
	}

	start := uc.clock.Now()
	series, err := uc.computer.Compute(field, opts)
	elapsed := uc.clock.Since(start)
	uc.metrics.IndexDuration.WithLabelValues(opts.Region).Observe(elapsed.Seconds())
	if err != nil {
		uc.metrics.IndexComputations.WithLabelValues(opts.Region, observability.OutcomeError).Inc()
		uc.logger.Error("index computation failed", "region", opts.Region, "window", opts.Window, "error", err)
		return nil, fmt.Errorf("failed to compute index %s: %w", opts.Region, err)
	}
	uc.metrics.IndexComputations.WithLabelValues(opts.Region, observability.OutcomeSuccess).Inc()
	uc.logger.Info("index computed",
		"region", opts.Region,
		"window", opts.Window,
		"samples", series.Len(),
		"duration_ms", elapsed.Milliseconds(),
	)

	return buildResponse(series, opts), nil
}

// ListRegions returns every computable index in canonical order.
func (uc *IndexUseCase) ListRegions() []RegionInfo {
	regions := domain.Regions()
	out := make([]RegionInfo, 0, len(regions)+1)
	for _, r := range regions {
		out = append(out, RegionInfo{
			Name:        r.Name,
			Description: r.Description,
			Box:         boxOf(r),
		})
	}
	return append(out, RegionInfo{
		Name:        domain.TNI,
		Description: tniDescription,
		Definition:  tniDefinition,
	})
}

// loadField returns the cached field, loading it on first use. Failed
// loads are retried on the next request.
func (uc *IndexUseCase) loadField() (*domain.Field, error) {
	uc.mu.RLock()
	if uc.field != nil {
		f := uc.field
		uc.mu.RUnlock()
		return f, nil
	}
	uc.mu.RUnlock()

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.field != nil {
		return uc.field, nil
	}

	f, err := uc.loader.LoadField()
	if err != nil {
		uc.metrics.FieldLoaded.Set(0)
		return nil, fmt.Errorf("failed to load SST field: %w", err)
	}
	uc.field = f
	uc.metrics.FieldLoaded.Set(1)
	uc.logger.Info("SST field loaded", "axes", f.AxisNames(), "shape", f.Shape())
	return f, nil
}

func buildResponse(series *domain.Series, opts domain.Options) *IndexResponse {
	points := make([]IndexPoint, series.Len())
	for i, t := range series.Times {
		points[i] = IndexPoint{Time: t.UTC().Format(time.RFC3339)}
		if v := series.Values[i]; !math.IsNaN(v) {
			rounded := roundToDecimal(v, 4)
			points[i].Value = &rounded
		}
	}

	stats := IndexStats{Count: series.Len()}
	if valid := series.ValidValues(); len(valid) > 0 {
		lo := roundToDecimal(floats.Min(valid), 4)
		hi := roundToDecimal(floats.Max(valid), 4)
		stats.Valid = len(valid)
		stats.Min = &lo
		stats.Max = &hi
	}

	resp := &IndexResponse{
		Index:  opts.Region,
		Window: opts.Window,
		Points: points,
		Stats:  stats,
		Meta: map[string]string{
			"climatology":     "monthly, full record",
			"standardization": "population std",
			"smoothing":       "trailing moving average",
		},
	}
	if r, ok := domain.LookupRegion(opts.Region); ok {
		resp.Description = r.Description
		resp.RegionBox = boxOf(r)
	} else {
		resp.Description = tniDescription
		resp.Meta["definition"] = tniDefinition
	}
	if opts.Window == 0 {
		resp.Meta["smoothing"] = "none"
	}
	return resp
}

func boxOf(r domain.Region) *RegionBox {
	return &RegionBox{LonMin: r.LonMin, LonMax: r.LonMax, LatMin: r.LatMin, LatMax: r.LatMax}
}

// roundToDecimal rounds half away from zero.
func roundToDecimal(val float64, precision int) float64 {
	multiplier := math.Pow(10, float64(precision))
	return math.Round(val*multiplier) / multiplier
}

// Preload reads the SST field ahead of the first request.
func (uc *IndexUseCase) Preload() error {
	_, err := uc.loadField()
	return err
}
