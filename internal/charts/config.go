package charts

import "encoding/json"

// Kind is the presentation a series is drawn with
type Kind string

const (
	KindBar      Kind = "bar"
	KindDoughnut Kind = "doughnut"
	KindPie      Kind = "pie"
	KindLine     Kind = "line"
)

// Config is the value handed to the drawing primitive.
// It marshals to the {type, data, options} shape understood by Chart.js.
type Config struct {
	Type    Kind    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data holds the category labels and the datasets drawn against them
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series of values with its styling
type Dataset struct {
	Label                string    `json:"label"`
	Data                 []float64 `json:"data"`
	BackgroundColor      Paint     `json:"backgroundColor"`
	BorderColor          string    `json:"borderColor,omitempty"`
	BorderWidth          int       `json:"borderWidth,omitempty"`
	BorderRadius         int       `json:"borderRadius,omitempty"`
	Fill                 bool      `json:"fill,omitempty"`
	Tension              float64   `json:"tension,omitempty"`
	PointRadius          int       `json:"pointRadius,omitempty"`
	PointBackgroundColor string    `json:"pointBackgroundColor,omitempty"`
}

// Paint is either one color for the whole dataset or one color per point
type Paint struct {
	Single string
	Each   []string
}

// MarshalJSON encodes per-point colors as an array and a single color as a string
func (p Paint) MarshalJSON() ([]byte, error) {
	if p.Each != nil {
		return json.Marshal(p.Each)
	}
	return json.Marshal(p.Single)
}

// At returns the color used for point i
func (p Paint) At(i int) string {
	if p.Each != nil {
		if i >= 0 && i < len(p.Each) {
			return p.Each[i]
		}
		return ""
	}
	return p.Single
}

// Options are the presentation options shared by every chart kind
type Options struct {
	Responsive          bool    `json:"responsive"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	Plugins             Plugins `json:"plugins"`
	Scales              *Scales `json:"scales,omitempty"`
	Cutout              string  `json:"cutout,omitempty"`
}

type Plugins struct {
	Legend Legend `json:"legend"`
}

type Legend struct {
	Labels LegendLabels `json:"labels"`
}

type LegendLabels struct {
	Color string `json:"color"`
	Font  Font   `json:"font"`
}

type Font struct {
	Size int `json:"size"`
}

// Scales configures the axes of bar and line charts
type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

type Axis struct {
	Ticks       AxisColor `json:"ticks"`
	Grid        AxisColor `json:"grid"`
	BeginAtZero bool      `json:"beginAtZero,omitempty"`
}

type AxisColor struct {
	Color string `json:"color"`
}

// JSON returns the config encoded for the drawing engine
func (c Config) JSON() ([]byte, error) {
	return json.Marshal(c)
}
