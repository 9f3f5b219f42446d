package chart

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func hoursFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(math.Round(f), 'f', 0, 64)
	}
	return ""
}

// hbarSeries draws one horizontal bar per category. go-chart only ships
// vertical bar charts, which cannot share axes with line series.
type hbarSeries struct {
	Name   string
	Style  gochart.Style
	Values []float64
	Labels []string
	Gap    float64
}

func (b hbarSeries) GetName() string                { return b.Name }
func (b hbarSeries) GetStyle() gochart.Style        { return b.Style }
func (b hbarSeries) GetYAxis() gochart.YAxisType    { return gochart.YAxisPrimary }
func (b hbarSeries) Len() int                       { return len(b.Values) }
func (b hbarSeries) GetValues(i int) (x, y float64) { return b.Values[i], float64(i) }

func (b hbarSeries) Validate() error {
	if len(b.Values) == 0 {
		return fmt.Errorf("bar series %q has no values", b.Name)
	}
	if len(b.Labels) > 0 && len(b.Labels) != len(b.Values) {
		return fmt.Errorf("bar series %q has %d labels for %d values", b.Name, len(b.Labels), len(b.Values))
	}
	return nil
}

func (b hbarSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := b.Style.InheritFrom(defaults)

	unit := float64(canvasBox.Height()) / yrange.GetDelta()
	half := int(unit * 0.8 * (1 - b.Gap) / 2)
	if half < 1 {
		half = 1
	}

	x0 := canvasBox.Left + xrange.Translate(xrange.GetMin())
	for i, v := range b.Values {
		x1 := canvasBox.Left + xrange.Translate(v)
		yc := canvasBox.Bottom - yrange.Translate(float64(i))

		r.SetFillColor(style.StrokeColor)
		r.MoveTo(x0, yc-half)
		r.LineTo(x1, yc-half)
		r.LineTo(x1, yc+half)
		r.LineTo(x0, yc+half)
		r.Close()
		r.Fill()

		if i < len(b.Labels) {
			style.WriteTextOptionsToRenderer(r)
			tb := r.MeasureText(b.Labels[i])
			r.Text(b.Labels[i], x1+4, yc+tb.Height()/2)
		}
	}
}

type goChartBackend struct {
	width  int
	height int
	font   *truetype.Font
}

func openGoChartBackend(opts RasterOptions) (rasterBackend, error) {
	b := &goChartBackend{width: opts.Width, height: opts.Height}
	if opts.FontPath == "" {
		return b, nil
	}

	data, err := os.ReadFile(opts.FontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", opts.FontPath, err)
	}
	b.font = font

	return b, nil
}

func (b *goChartBackend) Render(ctx context.Context, spec *ChartSpec, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("go-chart panicked: %v", r)
		}
	}()

	ch, err := b.newChart(spec)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return ch.Render(gochart.PNG, w)
}

func (b *goChartBackend) newChart(spec *ChartSpec) (*gochart.Chart, error) {
	theme := spec.Theme
	n := len(spec.Categories)
	if n == 0 {
		return nil, ErrEmptyDataset
	}

	textColor := toDrawing(theme.TextColor.RGBA())

	ticks := make([]gochart.Tick, n)
	for i, id := range spec.Categories {
		ticks[i] = gochart.Tick{Value: float64(i), Label: id}
	}

	maxX := spec.MaxX() * 1.08
	minX := spec.MinX()
	if maxX <= minX {
		maxX = minX + 1
	}

	ch := &gochart.Chart{
		Title:      spec.Title,
		TitleStyle: gochart.Style{FontSize: theme.TitleFontSize, FontColor: textColor},
		Width:      b.width,
		Height:     b.height,
		DPI:        dpi,
		Font:       b.font,
		Background: gochart.Style{
			FillColor: toDrawing(theme.Background.RGBA()),
			Padding:   gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           spec.XAxisTitle,
			NameStyle:      gochart.Style{FontSize: theme.AxisFontSize, FontColor: textColor},
			Style:          gochart.Style{FontSize: theme.TickFontSize, FontColor: textColor},
			Range:          &gochart.ContinuousRange{Min: minX, Max: maxX},
			ValueFormatter: hoursFormatter,
			GridMajorStyle: gochart.Style{
				StrokeColor: toDrawing(theme.GridColor.RGBA()),
				StrokeWidth: 1,
			},
		},
		YAxis: gochart.YAxis{
			Name:      spec.YAxisTitle,
			NameStyle: gochart.Style{FontSize: theme.AxisFontSize, FontColor: textColor},
			Style:     gochart.Style{FontSize: theme.TickFontSize, FontColor: textColor},
			Range:     &gochart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Ticks:     ticks,
		},
	}

	for _, s := range spec.Series {
		switch s.Kind {
		case KindBar:
			ch.Series = append(ch.Series, hbarSeries{
				Name:   s.Name,
				Values: s.X,
				Labels: s.Labels,
				Gap:    theme.BarGap,
				Style: gochart.Style{
					StrokeColor: toDrawing(s.Style.Color.RGBA()),
					StrokeWidth: 8,
					FontSize:    theme.LabelFontSize,
					FontColor:   textColor,
				},
			})
		case KindLine:
			ys := make([]float64, len(s.X))
			for i := range ys {
				ys[i] = float64(i)
			}
			ch.Series = append(ch.Series, gochart.ContinuousSeries{
				Name:    s.Name,
				XValues: s.X,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor:     toDrawing(s.Style.Color.RGBA()),
					StrokeWidth:     s.Style.Width,
					StrokeDashArray: s.Style.Dash.Pattern(),
				},
			})
		default:
			return nil, fmt.Errorf("series %q: unknown kind %q", s.Name, s.Kind)
		}
	}

	ch.Elements = []gochart.Renderable{gochart.Legend(ch, gochart.Style{FontSize: theme.LegendFontSize})}

	return ch, nil
}

func (b *goChartBackend) Close() error {
	b.font = nil
	return nil
}
