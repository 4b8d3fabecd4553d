package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the dashboard service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Backend that serves the dashboard pages
	BackendURL string `env:"BACKEND_URL,default=http://localhost:8000"`

	// Artifact storage
	DeploymentMode    string `env:"DEPLOYMENT_MODE,default=local"`
	LocalArtifactsDir string `env:"LOCAL_ARTIFACTS_DIR,default=./artifacts"`
	GCSBucket         string `env:"GCS_BUCKET"`
	StoreArtifacts    bool   `env:"STORE_ARTIFACTS,default=false"`

	// Rendering
	RenderPNG     bool   `env:"RENDER_PNG,default=false"`
	RenderECharts bool   `env:"RENDER_ECHARTS,default=false"`
	ChartJSURL    string `env:"CHARTJS_URL,default=https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"`
	EChartsTheme  string `env:"ECHARTS_THEME,default=westeros"`
	NotesFile     string `env:"NOTES_FILE"`

	// Mockup mode serves fixture pages instead of calling the backend
	MockupMode bool   `env:"MOCKUP_MODE,default=false"`
	MocksDir   string `env:"MOCKS_DIR,default=internal/mocks"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations the env tags cannot express
func (c *Config) Validate() error {
	switch strings.ToLower(c.DeploymentMode) {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when DEPLOYMENT_MODE is gcs")
		}
	default:
		return fmt.Errorf("unsupported DEPLOYMENT_MODE %q", c.DeploymentMode)
	}
	return nil
}
