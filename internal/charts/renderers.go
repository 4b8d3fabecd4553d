package charts

import (
	"fmt"

	"herdboard/internal/models"
)

// Renderer turns one series into a drawable configuration
type Renderer func(series *models.AggregateSeries, label string, theme Theme) Config

// renderers is the presentation vocabulary
var renderers = map[Kind]Renderer{
	KindBar:      buildBarConfig,
	KindDoughnut: buildDoughnutConfig,
	KindPie:      buildPieConfig,
	KindLine:     buildLineConfig,
}

// BuildConfig builds the configuration of the given kind for a renderable series
func BuildConfig(kind Kind, series *models.AggregateSeries, label string, theme Theme) (Config, error) {
	render, ok := renderers[kind]
	if !ok {
		return Config{}, fmt.Errorf("unknown chart kind %q", kind)
	}
	if !series.Renderable() {
		return Config{}, fmt.Errorf("series for %q is empty or malformed", label)
	}
	return render(series, label, theme), nil
}

func baseOptions(theme Theme) Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins: Plugins{
			Legend: Legend{
				Labels: LegendLabels{
					Color: theme.LegendColor,
					Font:  Font{Size: theme.LegendFontSize},
				},
			},
		},
	}
}

func axisScales(theme Theme) *Scales {
	return &Scales{
		X: Axis{
			Ticks: AxisColor{Color: theme.TickColor},
			Grid:  AxisColor{Color: theme.GridColor},
		},
		Y: Axis{
			Ticks:       AxisColor{Color: theme.TickColor},
			Grid:        AxisColor{Color: theme.GridColor},
			BeginAtZero: true,
		},
	}
}

// seriesData copies labels and values so configs never alias the payload
func seriesData(series *models.AggregateSeries) ([]string, []float64) {
	labels := make([]string, len(series.Labels))
	copy(labels, series.Labels)
	values := make([]float64, len(series.Values))
	copy(values, series.Values)
	return labels, values
}

func buildBarConfig(series *models.AggregateSeries, label string, theme Theme) Config {
	labels, values := seriesData(series)
	options := baseOptions(theme)
	options.Scales = axisScales(theme)

	return Config{
		Type: KindBar,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           label,
				Data:            values,
				BackgroundColor: Paint{Single: theme.Accent},
				BorderColor:     theme.Accent,
				BorderWidth:     1,
				BorderRadius:    6,
			}},
		},
		Options: options,
	}
}

func segmentDataset(series *models.AggregateSeries, label string, theme Theme) Data {
	labels, values := seriesData(series)
	return Data{
		Labels: labels,
		Datasets: []Dataset{{
			Label:           label,
			Data:            values,
			BackgroundColor: Paint{Each: theme.PaletteColors(len(labels))},
			BorderColor:     theme.SegmentBorder,
			BorderWidth:     2,
		}},
	}
}

func buildDoughnutConfig(series *models.AggregateSeries, label string, theme Theme) Config {
	data := segmentDataset(series, label, theme)
	options := baseOptions(theme)
	options.Cutout = "60%"
	return Config{Type: KindDoughnut, Data: data, Options: options}
}

func buildPieConfig(series *models.AggregateSeries, label string, theme Theme) Config {
	data := segmentDataset(series, label, theme)
	return Config{Type: KindPie, Data: data, Options: baseOptions(theme)}
}

func buildLineConfig(series *models.AggregateSeries, label string, theme Theme) Config {
	labels, values := seriesData(series)
	options := baseOptions(theme)
	options.Scales = axisScales(theme)

	return Config{
		Type: KindLine,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:                label,
				Data:                 values,
				BorderColor:          theme.Accent,
				BackgroundColor:      Paint{Single: theme.AccentLight},
				Fill:                 true,
				Tension:              0.4,
				PointRadius:          4,
				PointBackgroundColor: theme.Accent,
			}},
		},
		Options: options,
	}
}
