// Package main provides the SST climate index HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"go.ngs.io/sst-indices/internal/adapter/store"
	"go.ngs.io/sst-indices/internal/config"
	httpHandler "go.ngs.io/sst-indices/internal/http"
	"go.ngs.io/sst-indices/internal/observability"
	"go.ngs.io/sst-indices/internal/usecase"
)

const (
	version         = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("sst-indices version %s\n", version)
		return
	}

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	logger.Info("starting SST index server",
		"version", version,
		"sst_path", cfg.SSTPath,
		"sst_format", cfg.SSTFormat,
		"default_region", cfg.DefaultRegion,
		"default_window", cfg.DefaultWindow,
	)

	// Initialize store.
	loader, err := store.Open(store.Source{
		Path:     cfg.SSTPath,
		Format:   cfg.SSTFormat,
		Variable: cfg.SSTVariable,
		LonName:  cfg.LonName,
		LatName:  cfg.LatName,
		TimeName: cfg.TimeName,
	})
	if err != nil {
		logger.Error("failed to open SST store", "error", err)
		os.Exit(1)
	}

	// Initialize use case.
	clock := clockwork.NewRealClock()
	indexUC := usecase.NewIndexUseCase(loader, cfg.IndexDefaults(), metrics, logger, clock)

	go func() {
		if err := indexUC.Preload(); err != nil {
			logger.Error("SST preload failed; will retry on first request", "error", err)
		}
	}()

	// Setup router.
	router := httpHandler.SetupRouter(indexUC, cfg.CORSAllowedOrigins, clock)
	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("SST Index Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  sst-indices [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES (also read from .env):")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  SST_PATH                SST NetCDF or CSV file (required)")
	fmt.Println("  SST_FORMAT              netcdf or csv (default: from file extension)")
	fmt.Println("  SST_VARIABLE            NetCDF data variable (default: sst)")
	fmt.Println("  LON_NAME                Longitude axis name (default: lon)")
	fmt.Println("  LAT_NAME                Latitude axis name (default: lat)")
	fmt.Println("  TIME_NAME               Time axis name (default: time)")
	fmt.Println("  DEFAULT_WINDOW          Moving-average window in months (default: 5)")
	fmt.Println("  DEFAULT_REGION          Index used when none is given (default: 3.4)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Println("  LOG_FORMAT              json or text (default: json)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Serve indices from NOAA OISST monthly means")
	fmt.Println("  SST_PATH=./data/sst.mnmean.nc sst-indices")
	fmt.Println()
	fmt.Println("  # Start server on custom port")
	fmt.Println("  PORT=3000 SST_PATH=./data/sst.csv sst-indices")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                         Health check")
	fmt.Println("  GET /metrics                        Prometheus metrics")
	fmt.Println("  GET /v1/regions                     List Niño regions and TNI")
	fmt.Println("  GET /v1/indices/:region?window=N    Compute a standardized index")
	fmt.Println()
}
