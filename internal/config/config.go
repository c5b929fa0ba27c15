package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloo-solutions/docsearch/internal/domain"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug bool `envconfig:"DEBUG" default:"false"`

	SearchURL       string `envconfig:"UPSTASH_SEARCH_REST_URL"`
	SearchToken     string `envconfig:"UPSTASH_SEARCH_REST_TOKEN"`
	SearchReadToken string `envconfig:"UPSTASH_SEARCH_READONLY_REST_TOKEN"`
	Namespace       string `envconfig:"UPSTASH_SEARCH_INDEX_NAMESPACE" default:"@upstash/docusaurus-theme-ai-search"`

	DocsPath        string `envconfig:"DOCS_PATH" default:"docs"`
	DocsRoutePrefix string `envconfig:"DOCS_ROUTE_PREFIX" default:"docs"`

	ChunkMaxSize int `envconfig:"CHUNK_MAX_SIZE" default:"1200"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"200"`

	LoadConcurrency      int  `envconfig:"LOAD_CONCURRENCY" default:"16"`
	IndexConcurrency     int  `envconfig:"INDEX_CONCURRENCY" default:"1"`
	IndexHeadinglessDocs bool `envconfig:"INDEX_HEADINGLESS_DOCS" default:"true"`

	SearchLimit       int           `envconfig:"SEARCH_LIMIT" default:"15"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND" default:"0"`

	WatchDebounce time.Duration `envconfig:"WATCH_DEBOUNCE" default:"500ms"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

// Load reads the configuration from the environment, loading a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// ValidateForIndex checks the settings an indexing run needs.
func (c *Config) ValidateForIndex() error {
	if strings.TrimSpace(c.SearchURL) == "" {
		return domain.ErrMissingSearchURL
	}
	if strings.TrimSpace(c.SearchToken) == "" {
		return domain.ErrMissingSearchToken
	}
	if strings.TrimSpace(c.Namespace) == "" {
		return domain.ErrMissingNamespace
	}
	if strings.TrimSpace(c.DocsPath) == "" {
		return domain.ErrMissingDocsPath
	}
	return nil
}

// ValidateForSearch checks the settings a search needs.
func (c *Config) ValidateForSearch() error {
	if strings.TrimSpace(c.SearchURL) == "" {
		return domain.ErrMissingSearchURL
	}
	if c.ReadToken() == "" {
		return domain.ErrMissingReadToken
	}
	if strings.TrimSpace(c.Namespace) == "" {
		return domain.ErrMissingNamespace
	}
	return nil
}

// ReadToken prefers the read-only token and falls back to the write token.
func (c *Config) ReadToken() string {
	if token := strings.TrimSpace(c.SearchReadToken); token != "" {
		return token
	}
	return strings.TrimSpace(c.SearchToken)
}

// HasSentry reports whether error reporting is configured.
func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
