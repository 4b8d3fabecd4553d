// Package page is the per-document entry point that runs the chart binder and the cascading filter.
package page

import (
	"strings"

	"herdboard/internal/charts"
	"herdboard/internal/dom"
	"herdboard/internal/filter"
	"herdboard/internal/logger"
)

// Data element ids
const (
	ChartsDataID  = "charts-data"
	FilterDataID  = "tracking-animals-data"
	componentName = "page"
)

// Options configure Initialize
type Options struct {
	Drawer       charts.Drawer
	Theme        *charts.Theme
	FilterLabels *filter.Labels
	Logger       *logger.Logger
}

// Diagnostic is one contained failure
type Diagnostic struct {
	Component string `json:"component"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
}

// Result reports what Initialize did to the document
type Result struct {
	Charts      *charts.Result    `json:"charts,omitempty"`
	Filters     []*filter.Binding `json:"-"`
	FilterForms int               `json:"filter_forms"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
}

// Initialize binds the charts and filter forms of doc.
// A page without a data element simply does not use that feature. A malformed payload disables
// its own binder only and is recorded as a diagnostic; nothing is returned as an error.
func Initialize(doc *dom.Node, opts Options) Result {
	log := opts.Logger
	if log == nil {
		log = logger.Component(componentName)
	}

	var result Result

	if raw, ok := dataText(doc, ChartsDataID); ok && opts.Drawer != nil {
		binder := charts.NewBinder(opts.Drawer).WithLogger(log.WithComponent("charts"))
		if opts.Theme != nil {
			binder = binder.WithTheme(*opts.Theme)
		}
		chartResult, err := binder.BindJSON(doc, []byte(raw))
		if err != nil {
			log.Error("charts disabled for page", err)
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Component: "charts", Level: logger.ERROR.String(), Message: "charts disabled for page", Error: err.Error(),
			})
		} else {
			result.Charts = &chartResult
			log.Info("charts bound", logger.Fields{"drawn": len(chartResult.Drawn), "skipped": len(chartResult.Skipped)})
		}
	}

	if raw, ok := dataText(doc, FilterDataID); ok {
		binder := filter.NewBinder().WithLogger(log.WithComponent("filter"))
		if opts.FilterLabels != nil {
			binder = binder.WithLabels(*opts.FilterLabels)
		}
		bindings, err := binder.BindJSON(doc, []byte(raw))
		if err != nil {
			log.Debug("filters disabled for page", logger.Fields{"error": err.Error()})
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Component: "filter", Level: logger.DEBUG.String(), Message: "filters disabled for page", Error: err.Error(),
			})
		} else {
			result.Filters = bindings
			result.FilterForms = len(bindings)
		}
	}

	return result
}

func dataText(doc *dom.Node, id string) (string, bool) {
	el := doc.GetElementByID(id)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.TextContent()), true
}
