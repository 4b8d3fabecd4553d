// Command snapshot renders one dashboard page and stores its artifacts.
//
// Usage:
//
//	snapshot [-tab name] <page.html|url|tab>
//
// The argument is read as a file when it exists, fetched when it is an http(s) URL,
// and fetched from BACKEND_URL (or loaded from the fixtures in mockup mode) when it names a dashboard tab.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"herdboard/internal/config"
	"herdboard/internal/fetchers"
	"herdboard/internal/logger"
	"herdboard/internal/mocks"
	"herdboard/internal/reports"
	"herdboard/internal/storage"
)

func main() {
	tab := flag.String("tab", "", "tab name used for the snapshot folder")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: snapshot [-tab name] <page.html|url|tab>")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, flag.Arg(0), *tab); err != nil {
		logger.Fatal("snapshot failed", err)
	}
}

func run(ctx context.Context, source, tab string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	pageHTML, sourceTab, err := loadPage(ctx, cfg, source)
	if err != nil {
		return err
	}
	if tab == "" {
		tab = sourceTab
	}

	client, err := storage.NewStorageClient(ctx, storage.DeploymentMode(strings.ToLower(cfg.DeploymentMode)), cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	var notes string
	if cfg.NotesFile != "" {
		data, err := os.ReadFile(cfg.NotesFile)
		if err != nil {
			return fmt.Errorf("failed to read notes file: %w", err)
		}
		notes = string(data)
	}

	service := reports.NewDashboardService(reports.Options{
		ChartJSURL:    cfg.ChartJSURL,
		RenderPNG:     cfg.RenderPNG,
		RenderECharts: cfg.RenderECharts,
		EChartsTheme:  cfg.EChartsTheme,
		Notes:         notes,
	}, reports.NewStorageOrchestrator(client))

	rendered, folder, err := service.Snapshot(ctx, tab, pageHTML, time.Now().UTC())
	if err != nil {
		return err
	}

	for _, d := range rendered.Result.Diagnostics {
		logger.Warn("page diagnostic", logger.Fields{"component": d.Component, "message": d.Message})
	}
	logger.Info("snapshot stored", logger.Fields{
		"tab":    tab,
		"folder": folder,
		"files":  len(rendered.Files.Names()),
	})
	fmt.Println(folder)
	return nil
}

// loadPage reads source as a local file, an absolute URL or a dashboard tab
func loadPage(ctx context.Context, cfg *config.Config, source string) ([]byte, string, error) {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read page: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		return data, name, nil
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		page, err := fetchers.NewPageFetcher("").FetchPath(ctx, "page", source)
		if err != nil {
			return nil, "", err
		}
		return page.HTML, page.Tab, nil
	}

	if fetchers.IsTab(source) && cfg.MockupMode {
		page, err := mocks.NewMockService(cfg.MocksDir).LoadPage(source)
		if err != nil {
			return nil, "", err
		}
		return page.HTML, page.Tab, nil
	}

	if fetchers.IsTab(source) {
		page, err := fetchers.NewPageFetcher(cfg.BackendURL).FetchDashboard(ctx, source)
		if err != nil {
			return nil, "", err
		}
		return page.HTML, page.Tab, nil
	}

	return nil, "", fmt.Errorf("%q is neither a file, a URL nor a dashboard tab", source)
}
