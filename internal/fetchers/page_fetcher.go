package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"herdboard/internal/logger"
)

// Tabs are the dashboard pages served by the backend
var Tabs = []string{"herd", "tracking", "costs"}

// Page is one fetched dashboard page
type Page struct {
	Tab       string
	URL       string
	HTML      []byte
	FetchedAt time.Time
}

// PageFetcher downloads dashboard pages from the backend
type PageFetcher struct {
	client *resty.Client
	log    *logger.Logger
}

// NewPageFetcher creates a fetcher for the backend at baseURL
func NewPageFetcher(baseURL string) *PageFetcher {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})
	client.SetHeader("Accept", "text/html")

	return &PageFetcher{client: client, log: logger.Component("fetchers")}
}

// Client exposes the underlying resty client
func (f *PageFetcher) Client() *resty.Client {
	return f.client
}

// FetchDashboard fetches the page of one dashboard tab
func (f *PageFetcher) FetchDashboard(ctx context.Context, tab string) (*Page, error) {
	if !IsTab(tab) {
		return nil, fmt.Errorf("unknown dashboard tab %q", tab)
	}
	return f.FetchPath(ctx, tab, "/dashboard/"+tab+"/")
}

// FetchPath fetches an arbitrary backend page and labels it with tab
func (f *PageFetcher) FetchPath(ctx context.Context, tab, path string) (*Page, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if resp.StatusCode() != http.StatusOK {
		body := resp.Body()
		if len(body) > 200 {
			body = body[:200]
		}
		f.log.Warn("backend returned error status", logger.Fields{"path": path, "status": resp.StatusCode(), "body": string(body)})
		return nil, fmt.Errorf("backend returned status %d for %s", resp.StatusCode(), path)
	}

	f.log.Debug("page fetched", logger.Fields{"path": path, "bytes": len(resp.Body()), "duration_ms": resp.Time().Milliseconds()})
	return &Page{
		Tab:       tab,
		URL:       resp.Request.URL,
		HTML:      resp.Body(),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// FetchAll fetches the given tabs concurrently.
// A failing tab is logged and left out; an error is returned only when every tab fails.
func (f *PageFetcher) FetchAll(ctx context.Context, tabs ...string) ([]*Page, error) {
	if len(tabs) == 0 {
		tabs = Tabs
	}

	pages := make([]*Page, len(tabs))
	errs := make([]error, len(tabs))
	var wg sync.WaitGroup
	for i, tab := range tabs {
		wg.Add(1)
		go func(i int, tab string) {
			defer wg.Done()
			pages[i], errs[i] = f.FetchDashboard(ctx, tab)
		}(i, tab)
	}
	wg.Wait()

	var out []*Page
	var lastErr error
	for i, p := range pages {
		if errs[i] != nil {
			f.log.Error("dashboard fetch failed", errs[i], logger.Fields{"tab": tabs[i]})
			lastErr = errs[i]
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 && lastErr != nil {
		return nil, fmt.Errorf("failed to fetch any dashboard: %w", lastErr)
	}
	return out, nil
}

// IsTab reports whether tab is one of the known dashboard tabs
func IsTab(tab string) bool {
	for _, t := range Tabs {
		if t == tab {
			return true
		}
	}
	return false
}
