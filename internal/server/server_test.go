package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"herdboard/internal/config"
)

const herdPage = `<!DOCTYPE html>
<html><head><title>Herd</title></head><body>
<canvas id="chart-by-batch"></canvas>
<script id="charts-data" type="application/json">{"by-batch": {"labels": ["North", "South"], "values": [12, 7]}}</script>
<script id="tracking-animals-data" type="application/json">[{"id": 1, "batch": 10, "label": "Cow-1"}]</script>
<form data-tracking-filter-form>
  <select data-filter-batch><option value="">-</option><option value="10">North</option></select>
  <select data-filter-animal></select>
</form>
</body></html>`

func newTestServer(t *testing.T, backendURL string, store bool) *Server {
	t.Helper()
	cfg := &config.Config{
		Port:              "8981",
		BackendURL:        backendURL,
		DeploymentMode:    "local",
		LocalArtifactsDir: t.TempDir(),
		StoreArtifacts:    store,
		Environment:       "test",
	}
	srv, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	srv.SetupRoutes().ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, "http://localhost:0", false)

	rr := serve(srv, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("invalid health response: %v", err)
	}
	if health["status"] != "healthy" || health["version"] == "" {
		t.Errorf("handler returned unexpected body: %v", health)
	}

	if rr := serve(srv, http.MethodPost, "/health", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST /health, got %d", rr.Code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	srv := newTestServer(t, "http://localhost:0", false)

	rr := serve(srv, http.MethodPost, "/render?tab=herd", herdPage)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `data-chart-for="chart-by-batch"`) {
		t.Errorf("Expected chart script in rendered page")
	}
	if !strings.Contains(body, "Select a batch first") {
		t.Errorf("Expected dependent control placeholder in rendered page")
	}
	if got := rr.Header().Get("X-Charts-Drawn"); got != "1" {
		t.Errorf("Expected X-Charts-Drawn 1, got %q", got)
	}
	if got := rr.Header().Get("X-Filter-Forms"); got != "1" {
		t.Errorf("Expected X-Filter-Forms 1, got %q", got)
	}
	if rr.Header().Get("X-Snapshot-Folder") != "" {
		t.Error("Expected no snapshot without STORE_ARTIFACTS")
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Unexpected content type %s", rr.Header().Get("Content-Type"))
	}
}

func TestRenderEndpointErrors(t *testing.T) {
	srv := newTestServer(t, "http://localhost:0", false)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"empty body", http.MethodPost, "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := serve(srv, tt.method, "/render", tt.body); rr.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rr.Code)
			}
		})
	}

	broken := strings.Replace(herdPage, `[12, 7]}}`, `[12, 7]}`, 1)
	rr := serve(srv, http.MethodPost, "/render", broken)
	if rr.Code != http.StatusOK {
		t.Fatalf("Malformed payload must still render, got %d", rr.Code)
	}
	if rr.Header().Get("X-Charts-Drawn") != "0" || rr.Header().Get("X-Diagnostics") != "1" {
		t.Errorf("Unexpected headers %v", rr.Header())
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	srv := newTestServer(t, "http://localhost:0", true)

	rr := serve(srv, http.MethodPost, "/render?tab=herd", herdPage)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	folder := rr.Header().Get("X-Snapshot-Folder")
	if !strings.HasPrefix(folder, "snapshots/") || !strings.Contains(folder, "/herd-") {
		t.Fatalf("Unexpected snapshot folder %q", folder)
	}

	file := serve(srv, http.MethodGet, "/files/"+folder+"/index.html", "")
	if file.Code != http.StatusOK {
		t.Fatalf("Expected stored index, got %d", file.Code)
	}
	if file.Body.String() != rr.Body.String() {
		t.Error("Stored index differs from the served page")
	}
	if !strings.HasPrefix(file.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Unexpected content type %s", file.Header().Get("Content-Type"))
	}

	index := serve(srv, http.MethodGet, "/snapshots", "")
	if index.Code != http.StatusOK || !strings.Contains(index.Body.String(), `href="/files/`+folder+`/index.html"`) {
		t.Errorf("Expected snapshot link in index, got %d %s", index.Code, index.Body.String())
	}

	listing := serve(srv, http.MethodGet, "/snapshots?format=json&limit=5", "")
	var resp struct {
		Count     int `json:"count"`
		Snapshots []struct {
			Tab  string `json:"tab"`
			Path string `json:"path"`
		} `json:"snapshots"`
	}
	if err := json.Unmarshal(listing.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid listing: %v", err)
	}
	if resp.Count != 1 || resp.Snapshots[0].Tab != "herd" {
		t.Errorf("Unexpected listing %+v", resp)
	}

	root := serve(srv, http.MethodGet, "/", "")
	if root.Code != http.StatusFound || root.Header().Get("Location") != "/files/"+folder+"/index.html" {
		t.Errorf("Expected redirect to latest snapshot, got %d %s", root.Code, root.Header().Get("Location"))
	}
}

func TestChartsEndpoint(t *testing.T) {
	srv := newTestServer(t, "http://localhost:0", false)

	rr := serve(srv, http.MethodPost, "/api/charts", `{"by-batch": {"labels": ["North"], "values": [3]}, "by-sex": null}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Charts []struct {
			Slot struct {
				Target string `json:"target"`
			} `json:"slot"`
			Config struct {
				Type string `json:"type"`
			} `json:"config"`
		} `json:"charts"`
		Skipped []struct {
			Reason string `json:"reason"`
		} `json:"skipped"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Charts) != 2 {
		t.Fatalf("Expected by-batch to feed two slots, got %d", len(resp.Charts))
	}
	if resp.Charts[0].Slot.Target != "chart-by-batch" || resp.Charts[1].Slot.Target != "chart-by-batch-expenses" {
		t.Errorf("Unexpected targets %+v", resp.Charts)
	}
	if resp.Charts[0].Config.Type != "bar" {
		t.Errorf("Expected bar config, got %s", resp.Charts[0].Config.Type)
	}
	if len(resp.Skipped) != 6 {
		t.Errorf("Expected 6 skipped slots, got %d", len(resp.Skipped))
	}

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"malformed payload", http.MethodPost, `{"by-batch": `, http.StatusBadRequest},
		{"not an object", http.MethodPost, `[1, 2]`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := serve(srv, tt.method, "/api/charts", tt.body); rr.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

func TestFilterOptionsEndpoint(t *testing.T) {
	srv := newTestServer(t, "http://localhost:0", false)
	entities := `[{"id": 1, "batch": 10, "label": "Cow-1"}, {"id": "2", "batch": "11", "label": "Cow-2"}, {"id": 3, "batch": 10, "label": "Cow-3"}]`

	type option struct {
		Value    string `json:"value"`
		Text     string `json:"text"`
		Disabled bool   `json:"disabled"`
	}
	type optionSet struct {
		State    string   `json:"state"`
		Options  []option `json:"options"`
		Selected string   `json:"selected"`
		Disabled bool     `json:"disabled"`
	}

	tests := []struct {
		name     string
		body     string
		state    string
		values   []string
		selected string
		disabled bool
	}{
		{"no parent", `{"entities": ` + entities + `}`, "no-parent-selected", []string{""}, "", true},
		{"numeric parent", `{"entities": ` + entities + `, "parent": 10}`, "parent-selected", []string{"", "1", "3"}, "", false},
		{"persisted kept", `{"entities": ` + entities + `, "parent": "10", "persisted": 3}`, "parent-selected", []string{"", "1", "3"}, "3", false},
		{"stale persisted", `{"entities": ` + entities + `, "parent": "11", "persisted": "3"}`, "parent-selected", []string{"", "2"}, "", false},
		{"unknown parent", `{"entities": ` + entities + `, "parent": "99"}`, "parent-selected", []string{""}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(srv, http.MethodPost, "/api/filter/options", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
			}
			var set optionSet
			if err := json.Unmarshal(rr.Body.Bytes(), &set); err != nil {
				t.Fatalf("invalid response: %v", err)
			}
			if set.State != tt.state || set.Selected != tt.selected || set.Disabled != tt.disabled {
				t.Errorf("Unexpected option set %+v", set)
			}
			var values []string
			for _, o := range set.Options {
				values = append(values, o.Value)
			}
			if strings.Join(values, ",") != strings.Join(tt.values, ",") {
				t.Errorf("Expected values %v, got %v", tt.values, values)
			}
		})
	}

	for name, body := range map[string]string{
		"missing entities":   `{"parent": "10"}`,
		"malformed entities": `{"entities": {"id": 1}}`,
		"malformed body":     `{"entities": [`,
	} {
		t.Run(name, func(t *testing.T) {
			if rr := serve(srv, http.MethodPost, "/api/filter/options", body); rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestDashboardEndpoint(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/herd/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(herdPage))
	}))
	defer backend.Close()
	srv := newTestServer(t, backend.URL, false)

	rr := serve(srv, http.MethodGet, "/dashboards/herd", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "chart.umd.min.js") {
		t.Error("Expected Chart.js library in rendered dashboard")
	}

	tests := []struct {
		path   string
		status int
	}{
		{"/dashboards/reports", http.StatusNotFound},
		{"/dashboards/", http.StatusNotFound},
		{"/dashboards/tracking", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if rr := serve(srv, http.MethodGet, tt.path, ""); rr.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

func TestFileProxyAndRoot(t *testing.T) {
	srv := newTestServer(t, "http://localhost:0", false)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"empty path", "/files/", http.StatusBadRequest},
		{"missing file", "/files/snapshots/nope/index.html", http.StatusNotFound},
		{"unknown route", "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := serve(srv, http.MethodGet, tt.path, ""); rr.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rr.Code)
			}
		})
	}

	rr := httptest.NewRecorder()
	srv.HandleFileProxy(rr, httptest.NewRequest(http.MethodGet, "/files/a/../../etc/passwd", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for traversal, got %d", rr.Code)
	}

	root := serve(srv, http.MethodGet, "/", "")
	if root.Code != http.StatusFound || root.Header().Get("Location") != "/dashboards/herd" {
		t.Errorf("Expected redirect to first dashboard, got %d %s", root.Code, root.Header().Get("Location"))
	}
}

func TestNewServerNotes(t *testing.T) {
	notes := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(notes, []byte("Weighing day is **Friday**."), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{DeploymentMode: "local", LocalArtifactsDir: t.TempDir(), NotesFile: notes}

	srv, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer srv.Close()

	rr := serve(srv, http.MethodPost, "/render", herdPage)
	if !strings.Contains(rr.Body.String(), "<strong>Friday</strong>") {
		t.Errorf("Expected notes in rendered page, got %s", rr.Body.String())
	}

	cfg.NotesFile = filepath.Join(t.TempDir(), "missing.md")
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Error("Expected error for a missing notes file")
	}

	if _, err := NewServer(context.Background(), &config.Config{DeploymentMode: "ftp"}); err == nil {
		t.Error("Expected error for an unsupported deployment mode")
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", defaultListLimit},
		{"limit=5", 5},
		{"limit=0", defaultListLimit},
		{"limit=abc", defaultListLimit},
		{"limit=1000", maxListLimit},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/snapshots?"+tt.query, nil)
			if got := parseLimit(r); got != tt.want {
				t.Errorf("parseLimit(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestDashboardEndpointMockupMode(t *testing.T) {
	cfg := &config.Config{
		BackendURL:        "http://localhost:0",
		DeploymentMode:    "local",
		LocalArtifactsDir: t.TempDir(),
		MockupMode:        true,
		MocksDir:          filepath.Join("..", "mocks"),
	}
	srv, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer srv.Close()

	rr := serve(srv, http.MethodGet, "/dashboards/costs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Charts-Drawn"); got != "3" {
		t.Errorf("Expected 3 charts from the costs fixture, got %s", got)
	}
}
