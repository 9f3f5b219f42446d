package chart

import (
	"context"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

const dpi = 96

func pixelsToLength(px int) vg.Length {
	return vg.Length(px) * vg.Inch / dpi
}

func dashes(d Dash) []vg.Length {
	pattern := d.Pattern()
	if pattern == nil {
		return nil
	}
	out := make([]vg.Length, len(pattern))
	for i, p := range pattern {
		out[i] = vg.Points(p)
	}
	return out
}

// newGonumPlot lays the spec out on a gonum plot. height is the canvas
// height the plot will be drawn on and sizes the bars.
func newGonumPlot(spec *ChartSpec, height vg.Length) (*plot.Plot, error) {
	theme := spec.Theme
	n := len(spec.Categories)
	if n == 0 {
		return nil, ErrEmptyDataset
	}

	p := plot.New()
	p.BackgroundColor = theme.Background.RGBA()

	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(theme.TitleFontSize)
	p.Title.TextStyle.Color = theme.TextColor.RGBA()

	p.X.Label.Text = spec.XAxisTitle
	p.X.Label.TextStyle.Font.Size = vg.Points(theme.AxisFontSize)
	p.X.Label.TextStyle.Color = theme.TextColor.RGBA()
	p.X.Tick.Label.Font.Size = vg.Points(theme.TickFontSize)
	p.X.Tick.Label.Color = theme.TextColor.RGBA()

	p.Y.Label.Text = spec.YAxisTitle
	p.Y.Label.TextStyle.Font.Size = vg.Points(theme.AxisFontSize)
	p.Y.Label.TextStyle.Color = theme.TextColor.RGBA()
	p.Y.Tick.Label.Font.Size = vg.Points(theme.TickFontSize)
	p.Y.Tick.Label.Color = theme.TextColor.RGBA()

	grid := plotter.NewGrid()
	grid.Vertical.Color = theme.GridColor.RGBA()
	grid.Horizontal.Color = nil
	p.Add(grid)

	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(theme.LegendFontSize)
	p.Legend.TextStyle.Color = theme.TextColor.RGBA()
	p.Legend.Add(spec.LegendTitle)

	barWidth := height * 0.7 / vg.Length(n) * vg.Length(1-theme.BarGap)

	for _, s := range spec.Series {
		switch s.Kind {
		case KindBar:
			bar, err := plotter.NewBarChart(plotter.Values(s.X), barWidth)
			if err != nil {
				return nil, fmt.Errorf("bar %q: %w", s.Name, err)
			}
			bar.Horizontal = true
			bar.Color = s.Style.Color.RGBA()
			bar.LineStyle.Width = 0
			p.Add(bar)
			p.Legend.Add(s.Name, bar)

			if len(s.Labels) > 0 {
				labels, err := barLabels(s, theme)
				if err != nil {
					return nil, err
				}
				p.Add(labels)
			}
		case KindLine:
			xys := make(plotter.XYs, len(s.X))
			for i, x := range s.X {
				xys[i] = plotter.XY{X: x, Y: float64(i)}
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("line %q: %w", s.Name, err)
			}
			line.LineStyle.Color = s.Style.Color.RGBA()
			line.LineStyle.Width = vg.Points(s.Style.Width)
			line.LineStyle.Dashes = dashes(s.Style.Dash)
			p.Add(line)
			p.Legend.Add(s.Name, line)
		default:
			return nil, fmt.Errorf("series %q: unknown kind %q", s.Name, s.Kind)
		}
	}

	p.NominalY(spec.Categories...)
	p.Y.Min = -0.5
	p.Y.Max = float64(n) - 0.5
	p.X.Min = spec.MinX()
	p.X.Max = spec.MaxX() * 1.08
	if p.X.Max <= p.X.Min {
		p.X.Max = p.X.Min + 1
	}

	return p, nil
}

func barLabels(s Series, theme Theme) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(s.X))
	for i, x := range s.X {
		xys[i] = plotter.XY{X: x, Y: float64(i)}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: s.Labels})
	if err != nil {
		return nil, fmt.Errorf("bar labels: %w", err)
	}

	labels.Offset = vg.Point{X: vg.Points(4)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(theme.LabelFontSize)
		labels.TextStyle[i].Color = theme.TextColor.RGBA()
		labels.TextStyle[i].XAlign = draw.XLeft
		labels.TextStyle[i].YAlign = draw.YCenter
	}

	return labels, nil
}

type gonumBackend struct {
	width  vg.Length
	height vg.Length
}

func openGonumBackend(opts RasterOptions) (rasterBackend, error) {
	return &gonumBackend{
		width:  pixelsToLength(opts.Width),
		height: pixelsToLength(opts.Height),
	}, nil
}

func (b *gonumBackend) Render(ctx context.Context, spec *ChartSpec, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gonum plot panicked: %v", r)
		}
	}()

	p, err := newGonumPlot(spec, b.height)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	c := vgimg.NewWith(vgimg.UseWH(b.width, b.height), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	return nil
}

func (b *gonumBackend) Close() error {
	return nil
}

// renderSVG draws spec on a gonum vector canvas.
func renderSVG(spec *ChartSpec, width, height int, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gonum plot panicked: %v", r)
		}
	}()

	h := pixelsToLength(height)
	p, err := newGonumPlot(spec, h)
	if err != nil {
		return err
	}

	c := vgsvg.New(pixelsToLength(width), h)
	p.Draw(draw.New(c))

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("encode svg: %w", err)
	}

	return nil
}
