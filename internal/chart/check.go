package chart

import (
	"context"

	"github.com/speedwagon-io/eohchart/internal/model"
)

var checkDataset = model.Dataset{
	Units: []model.UnitRecord{{
		ID:           "check",
		CurrentHours: 1,
		Thresholds:   model.Thresholds{CI: 1, HGPI: 2, MI: 3, RLE: 4},
	}},
}

// CheckBackend renders a one-unit chart through the configured raster backend.
func CheckBackend(ctx context.Context, opts RasterOptions) error {
	spec, err := Compose(&checkDataset)
	if err != nil {
		return err
	}
	opts.Width, opts.Height = 160, 120
	_, err = ExportRaster(ctx, spec, opts)
	return err
}
