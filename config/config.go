// Package config loads gemtui settings from defaults, an optional YAML file,
// a .env file and the process environment, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultAPIURL = "http://localhost:8000/api/v1"

// Config holds all gemtui configuration.
type Config struct {
	// Backend base URL, including the API version prefix.
	APIURL string `yaml:"api_url"`
	// Base for bundled assets; empty derives "<api origin>/static/".
	AssetBaseURL string `yaml:"asset_base_url"`
	// Placeholder image, relative to the asset base unless absolute.
	Placeholder string `yaml:"placeholder"`
	// Currency symbol prefixed to prices.
	Currency string `yaml:"currency"`
	// Transport timeout for backend calls; zero means none.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	MCP MCPConfig `yaml:"mcp"`
}

// MCPConfig configures the MCP bridge binaries.
type MCPConfig struct {
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Stateless      bool          `yaml:"stateless"`
	EnableAdmin    bool          `yaml:"enable_admin"`
	APIKey         string        `yaml:"api_key"`
	RPS            float64       `yaml:"rps"`
	Burst          int           `yaml:"burst"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		Placeholder: "images/placeholder.png",
		Currency:    "₹",
		LogLevel:    "info",
		MCP: MCPConfig{
			Port:           "8080",
			RPS:            2,
			Burst:          5,
			SessionTimeout: 15 * time.Minute,
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// GEMTUI_CONFIG is consulted. envFiles default to ".env"; missing env files
// are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("GEMTUI_CONFIG"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.APIURL = parseString(os.Getenv("GEMTUI_API_URL"), cfg.APIURL)
	cfg.AssetBaseURL = parseString(os.Getenv("GEMTUI_ASSET_BASE_URL"), cfg.AssetBaseURL)
	cfg.Placeholder = parseString(os.Getenv("GEMTUI_PLACEHOLDER"), cfg.Placeholder)
	cfg.Currency = parseString(os.Getenv("GEMTUI_CURRENCY"), cfg.Currency)
	cfg.HTTPTimeout = parseDuration(os.Getenv("GEMTUI_HTTP_TIMEOUT"), cfg.HTTPTimeout)
	cfg.LogFile = parseString(os.Getenv("GEMTUI_LOG_FILE"), cfg.LogFile)
	cfg.LogLevel = parseString(os.Getenv("GEMTUI_LOG_LEVEL"), cfg.LogLevel)

	cfg.MCP.Port = parseString(os.Getenv("PORT"), cfg.MCP.Port)
	if origins := parseCSV(os.Getenv("GEMTUI_MCP_ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.MCP.AllowedOrigins = origins
	}
	cfg.MCP.Stateless = parseBool(os.Getenv("GEMTUI_MCP_STATELESS"), cfg.MCP.Stateless)
	cfg.MCP.EnableAdmin = parseBool(os.Getenv("GEMTUI_MCP_ENABLE_ADMIN"), cfg.MCP.EnableAdmin)
	cfg.MCP.APIKey = parseString(os.Getenv("GEMTUI_MCP_API_KEY"), cfg.MCP.APIKey)
	cfg.MCP.RPS = parseFloat(os.Getenv("GEMTUI_MCP_RPS"), cfg.MCP.RPS)
	cfg.MCP.Burst = parseInt(os.Getenv("GEMTUI_MCP_BURST"), cfg.MCP.Burst)
	cfg.MCP.SessionTimeout = parseDuration(os.Getenv("GEMTUI_MCP_SESSION_TIMEOUT"), cfg.MCP.SessionTimeout)

	if cfg.MCP.RPS <= 0 {
		cfg.MCP.RPS = 2
	}
	if cfg.MCP.Burst <= 0 {
		cfg.MCP.Burst = 5
	}
}

// Validate checks the fields that would otherwise fail at first use.
func (c Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.APIURL))
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api url %q: missing host", c.APIURL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}

// AssetBase returns the configured asset base, or "<api origin>/static/"
// when none is set.
func (c Config) AssetBase() string {
	if v := strings.TrimSpace(c.AssetBaseURL); v != "" {
		return v
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/static/"
}

func parseString(raw, fallback string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	return v
}

func parseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseBool(raw string, fallback bool) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func parseInt(raw string, fallback int) int {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(raw string, fallback float64) float64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
