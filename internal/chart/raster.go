package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"
)

const (
	BackendGonum   = "gonum"
	BackendGoChart = "gochart"

	DefaultWidth  = 1200
	DefaultHeight = 700
)

var ErrUnknownBackend = errors.New("unknown raster backend")

// RenderError is returned by ExportRaster whenever the raster backend
// could not be acquired or failed to produce an image.
type RenderError struct {
	Backend string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Backend, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// RasterOptions selects and configures the raster backend.
type RasterOptions struct {
	Backend string
	Width   int
	Height  int
	// FontPath points to a TrueType font used by backends that need one.
	FontPath string
	Timeout  time.Duration
}

func (o RasterOptions) withDefaults() RasterOptions {
	if o.Backend == "" {
		o.Backend = BackendGonum
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// rasterBackend is an acquired renderer. Close releases whatever Open
// acquired.
type rasterBackend interface {
	Render(ctx context.Context, spec *ChartSpec, w io.Writer) error
	Close() error
}

type backendFactory func(opts RasterOptions) (rasterBackend, error)

var backends = map[string]backendFactory{
	BackendGonum:   openGonumBackend,
	BackendGoChart: openGoChartBackend,
}

// Backends lists the registered raster backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExportRaster renders spec to PNG. Every failure is a *RenderError.
func ExportRaster(ctx context.Context, spec *ChartSpec, opts RasterOptions) (data []byte, err error) {
	opts = opts.withDefaults()

	open, ok := backends[opts.Backend]
	if !ok {
		return nil, &RenderError{Backend: opts.Backend, Err: ErrUnknownBackend}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	backend, err := open(opts)
	if err != nil {
		return nil, &RenderError{Backend: opts.Backend, Err: fmt.Errorf("acquire: %w", err)}
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil && err == nil {
			data, err = nil, &RenderError{Backend: opts.Backend, Err: fmt.Errorf("release: %w", cerr)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, &RenderError{Backend: opts.Backend, Err: err}
	}

	var buf bytes.Buffer
	if err := backend.Render(ctx, spec, &buf); err != nil {
		return nil, &RenderError{Backend: opts.Backend, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, &RenderError{Backend: opts.Backend, Err: err}
	}

	return buf.Bytes(), nil
}
