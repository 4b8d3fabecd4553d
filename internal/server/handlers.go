package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"herdboard/internal/charts"
	"herdboard/internal/config"
	"herdboard/internal/fetchers"
	"herdboard/internal/filter"
	"herdboard/internal/logger"
	"herdboard/internal/models"
	"herdboard/internal/reports"
	"herdboard/internal/storage"
)

// HandleRoot redirects to the latest stored snapshot, or to the first dashboard when none exists
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target := "/dashboards/" + fetchers.Tabs[0]
	entries, err := s.Dashboards.Storage().ListSnapshots(r.Context(), 1)
	if err != nil {
		s.log.Warn("failed to list snapshots", logger.Fields{"error": err.Error()})
	} else if len(entries) > 0 {
		target = "/files/" + entries[0].Path
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"storage": string(s.DeploymentMode),
			"config":  "ok",
		},
	})
}

// HandleRender initializes the charts and filters of a posted page and returns the finished HTML
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "page HTML required")
		return
	}

	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = "page"
	}
	s.serveRendered(r.Context(), w, tab, body)
}

// HandleDashboard fetches a dashboard page from the backend and serves it rendered
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tab := strings.Trim(strings.TrimPrefix(r.URL.Path, "/dashboards/"), "/")
	if !fetchers.IsTab(tab) {
		http.NotFound(w, r)
		return
	}

	page, err := s.loadDashboard(r.Context(), tab)
	if err != nil {
		s.log.Error("dashboard fetch failed", err, logger.Fields{"tab": tab})
		writeError(w, http.StatusBadGateway, "failed to fetch dashboard: "+err.Error())
		return
	}
	s.serveRendered(r.Context(), w, tab, page.HTML)
}

func (s *Server) loadDashboard(ctx context.Context, tab string) (*fetchers.Page, error) {
	if s.MockService != nil {
		return s.MockService.LoadPage(tab)
	}
	return s.Fetcher.FetchDashboard(ctx, tab)
}

func (s *Server) serveRendered(ctx context.Context, w http.ResponseWriter, tab string, pageHTML []byte) {
	var (
		rendered *reports.Rendered
		folder   string
		err      error
	)
	if s.Config.StoreArtifacts {
		s.snapshotMutex.Lock()
		rendered, folder, err = s.Dashboards.Snapshot(ctx, tab, pageHTML, time.Now().UTC())
		s.snapshotMutex.Unlock()
	} else {
		rendered, err = s.Dashboards.Render(tab, pageHTML)
	}
	if err != nil {
		s.log.Error("dashboard render failed", err, logger.Fields{"tab": tab})
		writeError(w, http.StatusInternalServerError, "failed to render dashboard: "+err.Error())
		return
	}

	drawn := 0
	if rendered.Result.Charts != nil {
		drawn = len(rendered.Result.Charts.Drawn)
	}
	w.Header().Set("X-Charts-Drawn", strconv.Itoa(drawn))
	w.Header().Set("X-Filter-Forms", strconv.Itoa(rendered.Result.FilterForms))
	w.Header().Set("X-Diagnostics", strconv.Itoa(len(rendered.Result.Diagnostics)))
	if folder != "" {
		w.Header().Set("X-Snapshot-Folder", folder)
	}
	writeHTML(w, rendered.HTML)
}

// HandleCharts builds the chart configurations for a posted charts payload
func (s *Server) HandleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload, _, err := models.ParseChartsPayload(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := charts.NewBinder(nil).WithLogger(s.log.WithComponent("charts")).Configs(payload)
	if result.Drawn == nil {
		result.Drawn = []charts.SlotConfig{}
	}
	if result.Skipped == nil {
		result.Skipped = []charts.Skipped{}
	}
	writeJSON(w, http.StatusOK, result)
}

type filterOptionsRequest struct {
	Entities  json.RawMessage   `json:"entities"`
	Parent    models.Identifier `json:"parent"`
	Persisted models.Identifier `json:"persisted"`
}

// HandleFilterOptions computes the dependent options for a parent value
func (s *Server) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req filterOptionsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if len(req.Entities) == 0 {
		writeError(w, http.StatusBadRequest, "entities required")
		return
	}
	entities, err := models.ParseEntities(req.Entities)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set := filter.Options(entities, req.Parent.String(), req.Persisted.String(), filter.DefaultLabels())
	writeJSON(w, http.StatusOK, set)
}

// HandleListSnapshots lists stored snapshots as an HTML index, or as JSON with format=json
func (s *Server) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := s.Dashboards.Storage().ListSnapshots(r.Context(), parseLimit(r))
	if err != nil {
		s.log.Error("failed to list snapshots", err)
		writeError(w, http.StatusInternalServerError, "failed to list snapshots: "+err.Error())
		return
	}

	if r.URL.Query().Get("format") == "json" {
		if entries == nil {
			entries = []reports.SnapshotEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"snapshots": entries,
			"count":     len(entries),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	index, err := s.Dashboards.HTMLBuilder().BuildSnapshotIndex(entries)
	if err != nil {
		s.log.Error("failed to build snapshot index", err)
		http.Error(w, "Failed to build snapshot index", http.StatusInternalServerError)
		return
	}
	writeHTML(w, index)
}

// HandleFileProxy serves stored artifacts from local storage or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := s.Storage.GetFile(r.Context(), filePath)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("failed to get file from storage", err, logger.Fields{"path": filePath})
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
