package fetchers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFetcher(url string) *PageFetcher {
	f := NewPageFetcher(url)
	f.Client().SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(5 * time.Millisecond)
	return f
}

func TestFetchDashboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/herd/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><canvas id="chart-by-batch"></canvas></body></html>`))
	}))
	defer server.Close()

	page, err := newTestFetcher(server.URL+"/").FetchDashboard(context.Background(), "herd")
	if err != nil {
		t.Fatalf("FetchDashboard failed: %v", err)
	}
	if page.Tab != "herd" || !strings.Contains(string(page.HTML), "chart-by-batch") {
		t.Errorf("Unexpected page %+v", page)
	}
	if !strings.HasSuffix(page.URL, "/dashboard/herd/") {
		t.Errorf("Unexpected URL %s", page.URL)
	}
	if page.FetchedAt.IsZero() {
		t.Error("Expected fetch time to be set")
	}
}

func TestFetchDashboardErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Path {
		case "/dashboard/costs/":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()
	fetcher := newTestFetcher(server.URL)

	tests := []struct {
		name string
		tab  string
	}{
		{"unknown tab", "reports"},
		{"client error", "herd"},
		{"server error", "costs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fetcher.FetchDashboard(context.Background(), tt.tab); err == nil {
				t.Errorf("Expected error for %s", tt.tab)
			}
		})
	}

	// one call for the 403, four for the retried 500
	if got := atomic.LoadInt32(&calls); got != 5 {
		t.Errorf("Expected 5 backend calls, got %d", got)
	}
}

func TestFetchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dashboard/tracking/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	}))
	defer server.Close()
	fetcher := newTestFetcher(server.URL)

	pages, err := fetcher.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(pages) != 2 || pages[0].Tab != "herd" || pages[1].Tab != "costs" {
		t.Errorf("Expected herd and costs in order, got %d pages", len(pages))
	}

	if _, err := fetcher.FetchAll(context.Background(), "tracking"); err == nil {
		t.Error("Expected error when every tab fails")
	}
}
