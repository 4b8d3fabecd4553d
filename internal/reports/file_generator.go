package reports

import (
	"encoding/json"
	"fmt"
	"sort"

	"herdboard/internal/page"
	"herdboard/internal/render"
)

// GeneratedFiles contains every artifact of one rendered dashboard
type GeneratedFiles struct {
	HTMLContent string
	JSONFiles   map[string][]byte
	AssetFiles  map[string][]byte // echarts pages and PNG images
	FolderPath  string
}

// newGeneratedFiles collects the artifacts produced by one render pass
func newGeneratedFiles(htmlContent string, result page.Result, echarts []render.EChartsPage, images []render.PNGImage) (*GeneratedFiles, error) {
	files := &GeneratedFiles{
		HTMLContent: htmlContent,
		JSONFiles:   make(map[string][]byte),
		AssetFiles:  make(map[string][]byte),
	}

	summary, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode render summary: %w", err)
	}
	files.JSONFiles["charts.json"] = summary

	for _, p := range echarts {
		files.AssetFiles["echarts/"+p.Name] = p.HTML
	}
	for _, img := range images {
		files.AssetFiles["png/"+img.Name] = img.Data
	}
	return files, nil
}

// Names lists every file name, index first
func (f *GeneratedFiles) Names() []string {
	names := []string{"index.html"}
	var rest []string
	for name := range f.JSONFiles {
		rest = append(rest, name)
	}
	for name := range f.AssetFiles {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	return append(names, rest...)
}
