package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	chartcfg "herdboard/internal/charts"
	"herdboard/internal/dom"
)

// EChartsPage is a standalone interactive page for one chart
type EChartsPage struct {
	TargetID string
	Name     string
	HTML     []byte
}

// EChartsDrawer renders every config as a standalone go-echarts page
type EChartsDrawer struct {
	theme  string
	width  string
	height string
	pages  []EChartsPage
}

// NewEChartsDrawer creates a drawer using the named echarts theme
func NewEChartsDrawer(theme string) *EChartsDrawer {
	if theme == "" {
		theme = types.ThemeWesteros
	}
	return &EChartsDrawer{theme: theme, width: "900px", height: "420px"}
}

// Pages returns the pages rendered so far
func (d *EChartsDrawer) Pages() []EChartsPage {
	return d.pages
}

// Draw renders cfg; the target only names the page
func (d *EChartsDrawer) Draw(target *dom.Node, cfg chartcfg.Config) error {
	id := target.ID()
	page, err := d.RenderPage(id, cfg)
	if err != nil {
		return err
	}
	d.pages = append(d.pages, page)
	return nil
}

// RenderPage builds the go-echarts page for cfg without recording it
func (d *EChartsDrawer) RenderPage(id string, cfg chartcfg.Config) (EChartsPage, error) {
	if len(cfg.Data.Datasets) == 0 {
		return EChartsPage{}, fmt.Errorf("chart %s has no dataset", id)
	}
	ds := cfg.Data.Datasets[0]
	init := opts.Initialization{
		PageTitle: ds.Label,
		Theme:     d.theme,
		Width:     d.width,
		Height:    d.height,
	}

	var buf bytes.Buffer
	switch cfg.Type {
	case chartcfg.KindBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(init),
			charts.WithTitleOpts(opts.Title{Title: ds.Label}),
			charts.WithLegendOpts(opts.Legend{Show: true}),
		)
		items := make([]opts.BarData, len(ds.Data))
		for i, v := range ds.Data {
			items[i] = opts.BarData{Value: v, ItemStyle: &opts.ItemStyle{Color: ds.BackgroundColor.At(i)}}
		}
		bar.SetXAxis(cfg.Data.Labels).AddSeries(ds.Label, items)
		if err := bar.Render(&buf); err != nil {
			return EChartsPage{}, fmt.Errorf("failed to render bar chart %s: %w", id, err)
		}

	case chartcfg.KindDoughnut, chartcfg.KindPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithInitializationOpts(init),
			charts.WithTitleOpts(opts.Title{Title: ds.Label}),
			charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
		)
		items := make([]opts.PieData, len(ds.Data))
		for i, v := range ds.Data {
			items[i] = opts.PieData{Name: cfg.Data.Labels[i], Value: v, ItemStyle: &opts.ItemStyle{Color: ds.BackgroundColor.At(i)}}
		}
		radius := interface{}("70%")
		if cfg.Type == chartcfg.KindDoughnut {
			radius = []string{cfg.Options.Cutout, "75%"}
		}
		pie.AddSeries(ds.Label, items).SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{Radius: radius}))
		if err := pie.Render(&buf); err != nil {
			return EChartsPage{}, fmt.Errorf("failed to render pie chart %s: %w", id, err)
		}

	case chartcfg.KindLine:
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(init),
			charts.WithTitleOpts(opts.Title{Title: ds.Label}),
			charts.WithLegendOpts(opts.Legend{Show: true}),
		)
		items := make([]opts.LineData, len(ds.Data))
		for i, v := range ds.Data {
			items[i] = opts.LineData{Value: v}
		}
		line.SetXAxis(cfg.Data.Labels).
			AddSeries(ds.Label, items).
			SetSeriesOptions(
				charts.WithLineChartOpts(opts.LineChart{Smooth: ds.Tension > 0}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.BorderColor}),
				charts.WithAreaStyleOpts(opts.AreaStyle{Color: ds.BackgroundColor.At(0)}),
			)
		if err := line.Render(&buf); err != nil {
			return EChartsPage{}, fmt.Errorf("failed to render line chart %s: %w", id, err)
		}

	default:
		return EChartsPage{}, fmt.Errorf("unsupported chart kind %q", cfg.Type)
	}

	return EChartsPage{TargetID: id, Name: id + ".html", HTML: buf.Bytes()}, nil
}
