// Package config loads the digest configuration from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amityadav/newsdigest/internal/composio"
	"github.com/amityadav/newsdigest/internal/feed"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Backends
const (
	BackendComposio = "composio"
	BackendDirect   = "direct"
)

// ConfigFileEnv names the environment variable pointing at a YAML override file
const ConfigFileEnv = "NEWSDIGEST_CONFIG"

// Configuration validation errors.
var (
	ErrMissingRecipient        = errors.New("TARGET_EMAIL is required")
	ErrMissingTopic            = errors.New("DIGEST_TOPIC must not be empty")
	ErrMissingComposioKey      = errors.New("COMPOSIO_API_KEY is required for the composio backend")
	ErrNoSearchProvider        = errors.New("the direct backend needs SERPAPI_API_KEY, TAVILY_API_KEY or GOOGLE_NEWS_RSS")
	ErrMissingGmailCredentials = errors.New("GMAIL_CREDENTIALS_FILE and GMAIL_TOKEN_FILE are required for the direct backend")
	ErrInvalidRecencyWindow    = errors.New("RECENCY_WINDOW_HOURS must be at least 1")
	ErrInvalidMaxResults       = errors.New("SEARCH_MAX_RESULTS must be at least 1")
	ErrInvalidTimeout          = errors.New("timeouts must be at least 1 second")
	ErrInvalidBackend          = errors.New("DIGEST_BACKEND must be one of: composio, direct")
	ErrInvalidLogLevel         = errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	ErrInvalidLogFormat        = errors.New("LOG_FORMAT must be one of: text, json")
)

// Config holds all application configuration
type Config struct {
	Topic              string `yaml:"topic"`
	NewsQuery          string `yaml:"news_query"`
	WebQuery           string `yaml:"web_query"`
	TargetEmail        string `yaml:"target_email"`
	RecencyWindowHours int    `yaml:"recency_window_hours"`
	SearchDepth        string `yaml:"search_depth"`
	SearchMaxResults   int    `yaml:"search_max_results"`

	Backend         string `yaml:"backend"`
	ComposioAPIKey  string `yaml:"composio_api_key"`
	ComposioBaseURL string `yaml:"composio_base_url"`
	SerpAPIKey      string `yaml:"serpapi_api_key"`
	TavilyAPIKey    string `yaml:"tavily_api_key"`
	GoogleNewsRSS   bool   `yaml:"google_news_rss"`

	GmailCredentialsFile string `yaml:"gmail_credentials_file"`
	GmailTokenFile       string `yaml:"gmail_token_file"`
	GmailUser            string `yaml:"gmail_user"`

	HTTPTimeoutSeconds   int `yaml:"http_timeout_seconds"`
	SearchTimeoutSeconds int `yaml:"search_timeout_seconds"`

	Schedule     string `yaml:"schedule"`
	HTTPAddr     string `yaml:"http_addr"`
	DigestAPIKey string `yaml:"digest_api_key"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Topic:                feed.DefaultTopic,
		RecencyWindowHours:   feed.DefaultRecencyWindowHours,
		SearchDepth:          feed.DefaultSearchDepth,
		SearchMaxResults:     feed.SearchMaxResults,
		Backend:              BackendComposio,
		ComposioBaseURL:      composio.DefaultBaseURL,
		GmailUser:            "me",
		HTTPTimeoutSeconds:   feed.DefaultHTTPTimeoutSeconds,
		SearchTimeoutSeconds: feed.DefaultSearchTimeoutSeconds,
		Schedule:             feed.DefaultSchedule,
		HTTPAddr:             ":8080",
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// Load builds the configuration from defaults, the YAML file named by
// NEWSDIGEST_CONFIG (if any) and environment variables, in that order
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
		log.Infof("[Config] Loaded overrides from %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.fillDerived()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Topic = getEnv("DIGEST_TOPIC", c.Topic)
	c.NewsQuery = getEnv("DIGEST_NEWS_QUERY", c.NewsQuery)
	c.WebQuery = getEnv("DIGEST_WEB_QUERY", c.WebQuery)
	c.TargetEmail = getEnv("TARGET_EMAIL", c.TargetEmail)
	c.SearchDepth = getEnv("SEARCH_DEPTH", c.SearchDepth)
	c.Backend = strings.ToLower(getEnv("DIGEST_BACKEND", c.Backend))
	c.ComposioAPIKey = getEnv("COMPOSIO_API_KEY", c.ComposioAPIKey)
	c.ComposioBaseURL = getEnv("COMPOSIO_BASE_URL", c.ComposioBaseURL)
	c.SerpAPIKey = getEnv("SERPAPI_API_KEY", c.SerpAPIKey)
	c.TavilyAPIKey = getEnv("TAVILY_API_KEY", c.TavilyAPIKey)
	c.GmailCredentialsFile = getEnv("GMAIL_CREDENTIALS_FILE", c.GmailCredentialsFile)
	c.GmailTokenFile = getEnv("GMAIL_TOKEN_FILE", c.GmailTokenFile)
	c.GmailUser = getEnv("GMAIL_USER", c.GmailUser)
	c.Schedule = getEnv("DIGEST_SCHEDULE", c.Schedule)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.DigestAPIKey = getEnv("DIGEST_API_KEY", c.DigestAPIKey)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))

	var err error
	if c.GoogleNewsRSS, err = getEnvBool("GOOGLE_NEWS_RSS", c.GoogleNewsRSS); err != nil {
		return err
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"RECENCY_WINDOW_HOURS", &c.RecencyWindowHours},
		{"SEARCH_MAX_RESULTS", &c.SearchMaxResults},
		{"HTTP_TIMEOUT_SECONDS", &c.HTTPTimeoutSeconds},
		{"SEARCH_TIMEOUT_SECONDS", &c.SearchTimeoutSeconds},
	}
	for _, v := range ints {
		if *v.dst, err = getEnvInt(v.key, *v.dst); err != nil {
			return err
		}
	}
	return nil
}

// fillDerived sets the queries that default to values built from the topic
func (c *Config) fillDerived() {
	c.Topic = strings.TrimSpace(c.Topic)
	if c.Topic == "" {
		return
	}
	if c.NewsQuery == "" {
		c.NewsQuery = c.Topic
	}
	if c.WebQuery == "" {
		c.WebQuery = fmt.Sprintf("%s news updates events security legal last %d hours", c.Topic, c.RecencyWindowHours)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TargetEmail) == "" {
		return ErrMissingRecipient
	}
	if strings.TrimSpace(c.Topic) == "" {
		return ErrMissingTopic
	}
	if c.RecencyWindowHours < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidRecencyWindow, c.RecencyWindowHours)
	}
	if c.SearchMaxResults < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxResults, c.SearchMaxResults)
	}
	if c.HTTPTimeoutSeconds < 1 || c.SearchTimeoutSeconds < 1 {
		return ErrInvalidTimeout
	}

	switch c.Backend {
	case BackendComposio:
		if c.ComposioAPIKey == "" {
			return ErrMissingComposioKey
		}
	case BackendDirect:
		if c.SerpAPIKey == "" && c.TavilyAPIKey == "" && !c.GoogleNewsRSS {
			return ErrNoSearchProvider
		}
		if c.GmailCredentialsFile == "" || c.GmailTokenFile == "" {
			return ErrMissingGmailCredentials
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidBackend, c.Backend)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.LogFormat)
	}
	return nil
}

// HTTPTimeout returns the per-request timeout for provider calls
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// SearchTimeout returns the deadline for the whole search step
func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid integer for environment variable %s: %q", key, value)
	}
	return i, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid boolean for environment variable %s: %q", key, value)
	}
	return b, nil
}
