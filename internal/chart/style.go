package chart

import (
	"image/color"

	"github.com/speedwagon-io/eohchart/internal/model"
)

type Color string

const (
	ColorGreen     Color = "green"
	ColorOrange    Color = "orange"
	ColorRed       Color = "red"
	ColorBlue      Color = "blue"
	ColorPurple    Color = "purple"
	ColorGrey      Color = "grey"
	ColorLightGrey Color = "lightgrey"
	ColorBlack     Color = "black"
	ColorWhite     Color = "white"
)

var palette = map[Color]color.RGBA{
	ColorGreen:     {R: 0x00, G: 0x80, B: 0x00, A: 0xff},
	ColorOrange:    {R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
	ColorRed:       {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	ColorBlue:      {R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	ColorPurple:    {R: 0x80, G: 0x00, B: 0x80, A: 0xff},
	ColorGrey:      {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	ColorLightGrey: {R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff},
	ColorBlack:     {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	ColorWhite:     {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// RGBA resolves a named color. Unknown names resolve to black.
func (c Color) RGBA() color.RGBA {
	if rgba, ok := palette[c]; ok {
		return rgba
	}
	return palette[ColorBlack]
}

type Dash string

const (
	DashSolid   Dash = "solid"
	DashDash    Dash = "dash"
	DashDot     Dash = "dot"
	DashDashDot Dash = "dashdot"
)

// Pattern returns the on/off stroke lengths in points. Solid is nil.
func (d Dash) Pattern() []float64 {
	switch d {
	case DashDash:
		return []float64{6, 4}
	case DashDot:
		return []float64{2, 3}
	case DashDashDot:
		return []float64{6, 3, 2, 3}
	default:
		return nil
	}
}

type LineStyle struct {
	Color Color   `json:"color"`
	Dash  Dash    `json:"dash"`
	Width float64 `json:"width"`
}

const lineWidth = 2

var thresholdStyles = [...]struct {
	Key   model.ThresholdKey
	Style LineStyle
}{
	{model.ThresholdCI, LineStyle{Color: ColorGreen, Dash: DashDash, Width: lineWidth}},
	{model.ThresholdHGPI, LineStyle{Color: ColorOrange, Dash: DashDot, Width: lineWidth}},
	{model.ThresholdMI, LineStyle{Color: ColorRed, Dash: DashSolid, Width: lineWidth}},
	{model.ThresholdRLE, LineStyle{Color: ColorBlue, Dash: DashDash, Width: lineWidth}},
}

var (
	barStyle   = LineStyle{Color: ColorGrey, Dash: DashSolid}
	extraStyle = LineStyle{Color: ColorPurple, Dash: DashDashDot, Width: lineWidth}
)

// ThresholdStyle returns the fixed style of a threshold line.
func ThresholdStyle(key model.ThresholdKey) (LineStyle, bool) {
	for _, ts := range thresholdStyles {
		if ts.Key == key {
			return ts.Style, true
		}
	}
	return LineStyle{}, false
}

func ExtraStyle() LineStyle {
	return extraStyle
}

// Theme is the fixed chart chrome.
type Theme struct {
	Background     Color   `json:"background"`
	GridColor      Color   `json:"grid_color"`
	TextColor      Color   `json:"text_color"`
	FontFamily     string  `json:"font_family"`
	TitleFontSize  float64 `json:"title_font_size"`
	AxisFontSize   float64 `json:"axis_font_size"`
	TickFontSize   float64 `json:"tick_font_size"`
	LegendFontSize float64 `json:"legend_font_size"`
	LabelFontSize  float64 `json:"label_font_size"`
	BarGap         float64 `json:"bar_gap"`
}

var defaultTheme = Theme{
	Background:     ColorWhite,
	GridColor:      ColorLightGrey,
	TextColor:      ColorBlack,
	FontFamily:     "Arial",
	TitleFontSize:  18,
	AxisFontSize:   16,
	TickFontSize:   14,
	LegendFontSize: 14,
	LabelFontSize:  14,
	BarGap:         0.1,
}
