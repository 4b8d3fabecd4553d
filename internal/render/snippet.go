// Package render holds the drawing primitives the chart binder draws through.
package render

import (
	"encoding/json"
	"fmt"

	"herdboard/internal/charts"
	"herdboard/internal/dom"
)

// DefaultChartJSURL is the Chart.js build loaded by rendered dashboards
const DefaultChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

const (
	attrChartFor   = "data-chart-for"
	attrChartJSLib = "data-chartjs"
)

// SnippetDrawer draws by inserting a Chart.js init script right after the target element
type SnippetDrawer struct {
	libraryURL string
	drawn      int
}

// NewSnippetDrawer creates a drawer loading Chart.js from libraryURL
func NewSnippetDrawer(libraryURL string) *SnippetDrawer {
	if libraryURL == "" {
		libraryURL = DefaultChartJSURL
	}
	return &SnippetDrawer{libraryURL: libraryURL}
}

// Draw places the init script for cfg after target, replacing a script drawn earlier for the same target
func (d *SnippetDrawer) Draw(target *dom.Node, cfg charts.Config) error {
	id := target.ID()
	if id == "" {
		return fmt.Errorf("chart target has no id")
	}
	if target.Parent() == nil {
		return fmt.Errorf("chart target %s is detached", id)
	}

	body, err := InitScript(id, cfg)
	if err != nil {
		return err
	}

	for _, old := range target.Parent().FindAll(func(n *dom.Node) bool {
		v, ok := n.Attr(attrChartFor)
		return ok && v == id
	}) {
		old.Remove()
	}

	script := dom.NewElement("script", attrChartFor, id)
	script.AppendChild(dom.NewText(body))
	target.Parent().InsertAfter(script, target)

	d.drawn++
	return nil
}

// InjectLibrary adds the Chart.js script tag to the document head once, if anything was drawn
func (d *SnippetDrawer) InjectLibrary(doc *dom.Node) {
	if d.drawn == 0 || doc.QueryAttr(attrChartJSLib) != nil {
		return
	}
	host := doc.Find(func(n *dom.Node) bool { return n.Tag() == "head" })
	if host == nil {
		host = doc.Find(func(n *dom.Node) bool { return n.Tag() == "body" })
	}
	if host == nil {
		host = doc
	}
	host.AppendChild(dom.NewElement("script", "src", d.libraryURL, attrChartJSLib, ""))
}

// InitScript returns the Chart.js init code drawing cfg on the canvas with the given id.
// The id is embedded as an escaped JS string, so it cannot close the script element.
func InitScript(id string, cfg charts.Config) (string, error) {
	cfgJSON, err := cfg.JSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode chart %s: %w", id, err)
	}
	idJSON, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("failed to encode chart id %s: %w", id, err)
	}
	return fmt.Sprintf(`(function(){var el=document.getElementById(%s);if(!el)return;new Chart(el,%s);})();`, idJSON, cfgJSON), nil
}
