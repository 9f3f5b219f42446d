package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/speedwagon-io/eohchart/internal/model"
)

const (
	Title       = "Gas Turbine EOH Chart"
	XAxisTitle  = "Hours"
	YAxisTitle  = "Gas Turbine (GT)"
	LegendTitle = "Legend"
	BarName     = "Current EOH"
)

var ErrEmptyDataset = errors.New("dataset has no units")

type SeriesKind string

const (
	KindBar  SeriesKind = "bar"
	KindLine SeriesKind = "line"
)

// Series is one drawable trace. X holds hours, Y the unit ids; the two are
// parallel.
type Series struct {
	Kind   SeriesKind `json:"kind"`
	Name   string     `json:"name"`
	X      []float64  `json:"x"`
	Y      []string   `json:"y"`
	Labels []string   `json:"labels,omitempty"`
	Style  LineStyle  `json:"style"`
}

// ChartSpec describes everything needed to render the chart. Series are in
// draw and legend order.
type ChartSpec struct {
	Title       string   `json:"title"`
	XAxisTitle  string   `json:"x_axis_title"`
	YAxisTitle  string   `json:"y_axis_title"`
	LegendTitle string   `json:"legend_title"`
	Horizontal  bool     `json:"horizontal"`
	Categories  []string `json:"categories"`
	Theme       Theme    `json:"theme"`
	Series      []Series `json:"series"`
}

func Compose(ds *model.Dataset) (*ChartSpec, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if ds.Extra != nil && len(ds.Extra.Values) != ds.Len() {
		return nil, fmt.Errorf("extra column %q has %d values for %d units", ds.Extra.Name, len(ds.Extra.Values), ds.Len())
	}

	ids := ds.IDs()

	spec := &ChartSpec{
		Title:       Title,
		XAxisTitle:  XAxisTitle,
		YAxisTitle:  YAxisTitle,
		LegendTitle: LegendTitle,
		Horizontal:  true,
		Categories:  ids,
		Theme:       defaultTheme,
		Series:      make([]Series, 0, 2+len(model.ThresholdKeys)),
	}

	bar := Series{
		Kind:   KindBar,
		Name:   BarName,
		X:      make([]float64, ds.Len()),
		Y:      append([]string(nil), ids...),
		Labels: make([]string, ds.Len()),
		Style:  barStyle,
	}
	for i, u := range ds.Units {
		bar.X[i] = u.CurrentHours
		bar.Labels[i] = strconv.FormatFloat(math.Round(u.CurrentHours), 'f', 0, 64)
	}
	spec.Series = append(spec.Series, bar)

	for _, ts := range thresholdStyles {
		line := Series{
			Kind:  KindLine,
			Name:  string(ts.Key),
			X:     make([]float64, ds.Len()),
			Y:     append([]string(nil), ids...),
			Style: ts.Style,
		}
		for i, u := range ds.Units {
			line.X[i] = u.Thresholds.Value(ts.Key)
		}
		spec.Series = append(spec.Series, line)
	}

	if ds.Extra != nil {
		spec.Series = append(spec.Series, Series{
			Kind:  KindLine,
			Name:  ds.Extra.Name,
			X:     append([]float64(nil), ds.Extra.Values...),
			Y:     append([]string(nil), ids...),
			Style: extraStyle,
		})
	}

	return spec, nil
}

// MaxX returns the largest hour value across all series.
func (s *ChartSpec) MaxX() float64 {
	var hi float64
	for _, series := range s.Series {
		for _, x := range series.X {
			if x > hi {
				hi = x
			}
		}
	}
	return hi
}

// MinX returns the smallest hour value across all series, capped at zero.
func (s *ChartSpec) MinX() float64 {
	var lo float64
	for _, series := range s.Series {
		for _, x := range series.X {
			if x < lo {
				lo = x
			}
		}
	}
	return lo
}
