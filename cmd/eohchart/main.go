package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/speedwagon-io/eohchart/internal/api"
	"github.com/speedwagon-io/eohchart/internal/chart"
	"github.com/speedwagon-io/eohchart/internal/config"
	"github.com/speedwagon-io/eohchart/internal/dataset"
	"github.com/speedwagon-io/eohchart/internal/health"
	"github.com/speedwagon-io/eohchart/internal/lib/logger/sl"
	"github.com/speedwagon-io/eohchart/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log := sl.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	log.Info("starting EOH chart service",
		slog.String("env", cfg.Env),
		slog.String("render_backend", cfg.Render.Backend),
		slog.Int("min_units", cfg.Fleet.MinUnits),
		slog.Int("max_units", cfg.Fleet.MaxUnits),
	)

	rasterOpts := api.RasterOptions(cfg.Render)

	checkCtx, checkCancel := context.WithTimeout(context.Background(), cfg.Render.Timeout)
	if err := chart.CheckBackend(checkCtx, rasterOpts); err != nil {
		// PNG export stays broken until the backend is fixed; HTML export works.
		log.Warn("raster backend unavailable", slog.String("backend", cfg.Render.Backend), sl.Err(err))
	}
	checkCancel()

	m := metrics.New()
	builder := dataset.NewBuilder(cfg.Fleet)

	healthServer := health.NewServer(log, cfg.Health)
	healthServer.AddChecker(health.NewRendererHealthChecker(cfg.Render.Backend, func(ctx context.Context) error {
		return chart.CheckBackend(ctx, rasterOpts)
	}))

	if err := healthServer.Start(); err != nil {
		log.Error("failed to start health server", sl.Err(err))
		os.Exit(1)
	}

	apiServer := api.NewServer(log, cfg, builder, m)
	if err := apiServer.Start(); err != nil {
		log.Error("failed to start api server", sl.Err(err))
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop api server", sl.Err(err))
	}

	if err := healthServer.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop health server", sl.Err(err))
	}

	log.Info("service stopped")
}
