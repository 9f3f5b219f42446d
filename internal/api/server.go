package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/speedwagon-io/eohchart/internal/chart"
	"github.com/speedwagon-io/eohchart/internal/config"
	"github.com/speedwagon-io/eohchart/internal/dataset"
	"github.com/speedwagon-io/eohchart/internal/lib/logger/sl"
	"github.com/speedwagon-io/eohchart/internal/metrics"
)

type Server struct {
	log          *slog.Logger
	address      string
	readTimeout  time.Duration
	writeTimeout time.Duration
	maxBody      int64
	defaultUnits int
	builder      *dataset.Builder
	metrics      *metrics.Metrics
	raster       chart.RasterOptions
	markup       chart.MarkupOptions
	server       *http.Server
}

func NewServer(log *slog.Logger, cfg *config.Config, builder *dataset.Builder, m *metrics.Metrics) *Server {
	return &Server{
		log:          log,
		address:      cfg.HTTP.Address,
		readTimeout:  cfg.HTTP.ReadTimeout,
		writeTimeout: cfg.HTTP.WriteTimeout,
		maxBody:      cfg.HTTP.MaxBodyBytes,
		defaultUnits: cfg.Fleet.DefaultUnits,
		builder:      builder,
		metrics:      m,
		raster:       RasterOptions(cfg.Render),
		markup: chart.MarkupOptions{
			Width:  cfg.Render.Width,
			Height: cfg.Render.Height,
		},
	}
}

// RasterOptions maps the render config section onto the raster export
// options.
func RasterOptions(cfg config.RenderConfig) chart.RasterOptions {
	return chart.RasterOptions{
		Backend:  cfg.Backend,
		Width:    cfg.Width,
		Height:   cfg.Height,
		FontPath: cfg.FontPath,
		Timeout:  cfg.Timeout,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logMiddleware(s.log))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/dataset", s.handleDataset)
		r.Post("/chart", s.handleChart)
		r.Post("/chart.png", s.handleRaster)
		r.Get("/chart.png", s.handleRaster)
		r.Post("/chart.html", s.handleMarkup)
		r.Get("/chart.html", s.handleMarkup)
	})

	r.Handle("/metrics", s.metrics.Handler())

	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.address,
		Handler:      s.Routes(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	s.log.Info("starting api server", slog.String("address", s.address))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("api server error", sl.Err(err))
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
