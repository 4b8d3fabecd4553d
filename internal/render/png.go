package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	chartcfg "herdboard/internal/charts"
	"herdboard/internal/dom"
)

// ErrNothingToDraw marks a config whose values leave nothing visible, such as an all-zero pie
var ErrNothingToDraw = errors.New("nothing to draw")

// PNGImage is a static rendering of one chart
type PNGImage struct {
	TargetID string
	Name     string
	Data     []byte
}

// PNGDrawer renders every config to a PNG with go-chart
type PNGDrawer struct {
	width  int
	height int
	images []PNGImage
}

// NewPNGDrawer creates a drawer producing images of the given size
func NewPNGDrawer(width, height int) *PNGDrawer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	return &PNGDrawer{width: width, height: height}
}

// Images returns the images rendered so far
func (d *PNGDrawer) Images() []PNGImage {
	return d.images
}

// Draw renders cfg; the target only names the image. Configs with nothing visible produce no image
func (d *PNGDrawer) Draw(target *dom.Node, cfg chartcfg.Config) error {
	id := target.ID()
	data, err := d.RenderPNG(cfg)
	if errors.Is(err, ErrNothingToDraw) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart %s: %w", cfg.Type, id, err)
	}
	d.images = append(d.images, PNGImage{TargetID: id, Name: id + ".png", Data: data})
	return nil
}

// RenderPNG draws cfg into PNG bytes
func (d *PNGDrawer) RenderPNG(cfg chartcfg.Config) ([]byte, error) {
	if len(cfg.Data.Datasets) == 0 || len(cfg.Data.Datasets[0].Data) == 0 {
		return nil, fmt.Errorf("no data to draw")
	}
	ds := cfg.Data.Datasets[0]
	if (cfg.Type == chartcfg.KindPie || cfg.Type == chartcfg.KindDoughnut) && !anyPositive(ds.Data) {
		return nil, ErrNothingToDraw
	}

	var buf bytes.Buffer
	var err error
	switch cfg.Type {
	case chartcfg.KindBar:
		err = d.barChart(cfg.Data.Labels, ds).Render(chart.PNG, &buf)
	case chartcfg.KindDoughnut:
		graph := chart.DonutChart{
			Title:  ds.Label,
			Width:  d.width,
			Height: d.height,
			Values: segmentValues(cfg.Data.Labels, ds),
		}
		err = graph.Render(chart.PNG, &buf)
	case chartcfg.KindPie:
		graph := chart.PieChart{
			Title:  ds.Label,
			Width:  d.width,
			Height: d.height,
			Values: segmentValues(cfg.Data.Labels, ds),
		}
		err = graph.Render(chart.PNG, &buf)
	case chartcfg.KindLine:
		err = d.lineChart(cfg.Data.Labels, ds).Render(chart.PNG, &buf)
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *PNGDrawer) barChart(labels []string, ds chartcfg.Dataset) chart.BarChart {
	bars := make([]chart.Value, len(ds.Data))
	for i, v := range ds.Data {
		bars[i] = chart.Value{
			Label: labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   cssColor(ds.BackgroundColor.At(i)),
				StrokeColor: cssColor(ds.BorderColor),
				StrokeWidth: float64(ds.BorderWidth),
			},
		}
	}
	return chart.BarChart{
		Title:    ds.Label,
		Width:    d.width,
		Height:   d.height,
		BarWidth: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(ds.Data)},
		},
		Bars: bars,
	}
}

func (d *PNGDrawer) lineChart(labels []string, ds chartcfg.Dataset) chart.Chart {
	xs := make([]float64, len(ds.Data))
	ticks := make([]chart.Tick, len(labels))
	for i := range ds.Data {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: labels[i]}
	}

	stroke := cssColor(ds.BorderColor)
	fill := cssColor(ds.BackgroundColor.At(0))
	if !ds.Fill {
		fill = drawing.ColorTransparent
	}
	dot := float64(ds.PointRadius)

	// go-chart takes the x range from the ticks and rejects a zero-width one,
	// so a lone point gets blank ticks on either side and is drawn as a dot
	if len(xs) == 1 {
		ticks = []chart.Tick{{Value: -0.5}, ticks[0], {Value: 0.5}}
		fill = drawing.ColorTransparent
		dot = math.Max(dot, 4)
	}

	return chart.Chart{
		Title:  ds.Label,
		Width:  d.width,
		Height: d.height,
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(xs)) - 0.5},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(ds.Data)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    ds.Label,
				XValues: xs,
				YValues: ds.Data,
				Style: chart.Style{
					StrokeColor: stroke,
					StrokeWidth: 2,
					FillColor:   fill,
					DotColor:    stroke,
					DotWidth:    dot,
				},
			},
		},
	}
}

func segmentValues(labels []string, ds chartcfg.Dataset) []chart.Value {
	values := make([]chart.Value, len(ds.Data))
	for i, v := range ds.Data {
		values[i] = chart.Value{
			Label: labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   cssColor(ds.BackgroundColor.At(i)),
				StrokeColor: cssColor(ds.BorderColor),
				StrokeWidth: float64(ds.BorderWidth),
			},
		}
	}
	return values
}

func anyPositive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}

// upperBound returns a y-axis maximum leaving headroom above the largest value
func upperBound(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		max = math.Max(max, v)
	}
	if max <= 0 {
		return 1
	}
	return max * 1.1
}

// cssColor converts a theme color to a go-chart color; unknown strings become transparent
func cssColor(s string) drawing.Color {
	c, err := chartcfg.ParseRGBA(s)
	if err != nil {
		return drawing.ColorTransparent
	}
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}
