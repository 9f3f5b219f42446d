package chart

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

//go:embed templates/chart.html.tmpl
var markupTemplateText string

var markupTemplate = template.Must(template.New("chart").Parse(markupTemplateText))

type MarkupOptions struct {
	Width  int
	Height int
	// FullDocument wraps the fragment in an html document.
	FullDocument bool
}

type markupTable struct {
	Columns []string
	Rows    []markupRow
}

type markupRow struct {
	ID     string
	Values []string
}

type markupView struct {
	FullDocument bool
	Title        string
	Width        int
	Height       int
	SVG          template.HTML
	Table        markupTable
	Spec         *ChartSpec
}

// ExportMarkup renders spec to a self-contained html fragment: an inline
// SVG of the chart, the data table and the spec as JSON. It never touches
// the raster backend.
func ExportMarkup(spec *ChartSpec, opts MarkupOptions) (string, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	var svg bytes.Buffer
	if err := renderSVG(spec, opts.Width, opts.Height, &svg); err != nil {
		return "", fmt.Errorf("render svg: %w", err)
	}

	view := markupView{
		FullDocument: opts.FullDocument,
		Title:        spec.Title,
		Width:        opts.Width,
		Height:       opts.Height,
		SVG:          template.HTML(stripXMLProlog(svg.String())),
		Table:        tableOf(spec),
		Spec:         spec,
	}

	var out strings.Builder
	if err := markupTemplate.Execute(&out, view); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return out.String(), nil
}

func stripXMLProlog(svg string) string {
	if i := strings.Index(svg, "<svg"); i > 0 {
		return svg[i:]
	}
	return svg
}

func tableOf(spec *ChartSpec) markupTable {
	t := markupTable{
		Columns: make([]string, 0, len(spec.Series)),
		Rows:    make([]markupRow, len(spec.Categories)),
	}
	for _, s := range spec.Series {
		t.Columns = append(t.Columns, s.Name)
	}
	for i, id := range spec.Categories {
		row := markupRow{ID: id, Values: make([]string, len(spec.Series))}
		for j, s := range spec.Series {
			if i < len(s.X) {
				row.Values[j] = strconv.FormatFloat(s.X[i], 'f', -1, 64)
			}
		}
		t.Rows[i] = row
	}
	return t
}
