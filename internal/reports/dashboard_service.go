package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"herdboard/internal/charts"
	"herdboard/internal/dom"
	"herdboard/internal/filter"
	"herdboard/internal/logger"
	"herdboard/internal/page"
	"herdboard/internal/render"
)

// Options configure dashboard rendering
type Options struct {
	ChartJSURL    string
	RenderPNG     bool
	RenderECharts bool
	EChartsTheme  string
	Notes         string
	FilterLabels  *filter.Labels
}

// Rendered is one finished dashboard page and its artifacts
type Rendered struct {
	Tab    string
	HTML   string
	Result page.Result
	Files  *GeneratedFiles
}

// DashboardService turns backend pages into finished dashboards
type DashboardService struct {
	opts        Options
	htmlBuilder *HTMLBuilder
	storage     *StorageOrchestrator
	log         *logger.Logger
}

// NewDashboardService creates a dashboard service; orchestrator may be nil when nothing is stored
func NewDashboardService(opts Options, orchestrator *StorageOrchestrator) *DashboardService {
	return &DashboardService{
		opts:        opts,
		htmlBuilder: NewHTMLBuilder(),
		storage:     orchestrator,
		log:         logger.Component("reports"),
	}
}

// HTMLBuilder returns the builder used for notes and the snapshot index
func (s *DashboardService) HTMLBuilder() *HTMLBuilder {
	return s.htmlBuilder
}

// Storage returns the orchestrator, or nil
func (s *DashboardService) Storage() *StorageOrchestrator {
	return s.storage
}

// Render initializes the charts and filters of a backend page and returns the finished HTML.
// Payload problems only show up in Result.Diagnostics; an error means the page itself was unusable.
func (s *DashboardService) Render(tab string, pageHTML []byte) (*Rendered, error) {
	start := time.Now()

	doc, err := dom.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard page: %w", err)
	}

	var artifactDiags []page.Diagnostic
	snippets := render.NewSnippetDrawer(s.opts.ChartJSURL)
	drawers := render.MultiDrawer{
		Primary: snippets,
		OnSecondaryError: func(targetID string, err error) {
			s.log.Warn("chart artifact skipped", logger.Fields{"target": targetID, "error": err.Error()})
			artifactDiags = append(artifactDiags, page.Diagnostic{
				Component: "render", Level: logger.WARN.String(), Message: "chart artifact skipped for " + targetID, Error: err.Error(),
			})
		},
	}
	var echarts *render.EChartsDrawer
	var pngs *render.PNGDrawer
	if s.opts.RenderECharts {
		echarts = render.NewEChartsDrawer(s.opts.EChartsTheme)
		drawers.Secondary = append(drawers.Secondary, echarts)
	}
	if s.opts.RenderPNG {
		pngs = render.NewPNGDrawer(0, 0)
		drawers.Secondary = append(drawers.Secondary, pngs)
	}

	var drawer charts.Drawer = drawers
	if len(drawers.Secondary) == 0 {
		drawer = snippets
	}

	result := page.Initialize(doc, page.Options{
		Drawer:       drawer,
		FilterLabels: s.opts.FilterLabels,
		Logger:       s.log.WithComponent("page"),
	})
	result.Diagnostics = append(result.Diagnostics, artifactDiags...)
	snippets.InjectLibrary(doc)

	if err := s.htmlBuilder.InsertNotes(doc, s.opts.Notes); err != nil {
		s.log.Warn("notes section skipped", logger.Fields{"error": err.Error()})
	}

	htmlContent, err := dom.RenderString(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render dashboard page: %w", err)
	}

	var echartsPages []render.EChartsPage
	if echarts != nil {
		echartsPages = echarts.Pages()
	}
	var images []render.PNGImage
	if pngs != nil {
		images = pngs.Images()
	}
	files, err := newGeneratedFiles(htmlContent, result, echartsPages, images)
	if err != nil {
		return nil, err
	}

	s.log.Info("dashboard rendered", logger.Fields{
		"tab":         tab,
		"filters":     result.FilterForms,
		"diagnostics": len(result.Diagnostics),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return &Rendered{Tab: tab, HTML: htmlContent, Result: result, Files: files}, nil
}

// Snapshot renders a page and stores its artifacts, returning the snapshot folder
func (s *DashboardService) Snapshot(ctx context.Context, tab string, pageHTML []byte, now time.Time) (*Rendered, string, error) {
	if s.storage == nil {
		return nil, "", fmt.Errorf("artifact storage is not configured")
	}
	rendered, err := s.Render(tab, pageHTML)
	if err != nil {
		return nil, "", err
	}
	folder, err := s.storage.StoreAllFiles(ctx, rendered.Files, tab, now)
	if err != nil {
		return nil, "", fmt.Errorf("failed to store snapshot: %w", err)
	}
	return rendered, folder, nil
}
