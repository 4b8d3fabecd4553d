package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"herdboard/internal/config"
	"herdboard/internal/fetchers"
	"herdboard/internal/logger"
	"herdboard/internal/mocks"
	"herdboard/internal/reports"
	"herdboard/internal/storage"
)

// Server represents the dashboard service
type Server struct {
	Config         *config.Config
	Fetcher        *fetchers.PageFetcher
	Dashboards     *reports.DashboardService
	Storage        storage.StorageClient
	MockService    *mocks.MockService
	DeploymentMode storage.DeploymentMode

	snapshotMutex sync.Mutex
	log           *logger.Logger
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	mode := storage.DeploymentMode(strings.ToLower(cfg.DeploymentMode))
	client, err := storage.NewStorageClient(ctx, mode, cfg)
	if err != nil {
		return nil, err
	}

	notes, err := loadNotes(cfg.NotesFile)
	if err != nil {
		client.Close()
		return nil, err
	}

	server := &Server{
		Config:         cfg,
		Fetcher:        fetchers.NewPageFetcher(cfg.BackendURL),
		Storage:        client,
		DeploymentMode: mode,
		log:            logger.Component("server"),
	}
	if cfg.MockupMode {
		server.MockService = mocks.NewMockService(cfg.MocksDir)
		server.log.Info("mockup mode enabled", logger.Fields{"dir": server.MockService.Dir()})
	}
	server.Dashboards = reports.NewDashboardService(reports.Options{
		ChartJSURL:    cfg.ChartJSURL,
		RenderPNG:     cfg.RenderPNG,
		RenderECharts: cfg.RenderECharts,
		EChartsTheme:  cfg.EChartsTheme,
		Notes:         notes,
	}, reports.NewStorageOrchestrator(client))

	server.log.Info("server initialized", logger.Fields{
		"deployment_mode": string(mode),
		"backend_url":     cfg.BackendURL,
		"store_artifacts": cfg.StoreArtifacts,
	})
	return server, nil
}

func loadNotes(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read notes file: %w", err)
	}
	return string(data), nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/render", s.HandleRender)
	mux.HandleFunc("/api/charts", s.HandleCharts)
	mux.HandleFunc("/api/filter/options", s.HandleFilterOptions)
	mux.HandleFunc("/dashboards/", s.HandleDashboard)
	mux.HandleFunc("/snapshots", s.HandleListSnapshots)
	mux.HandleFunc("/files/", s.HandleFileProxy)

	// catch-all
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
