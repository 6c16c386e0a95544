// Save as: internal/config/environment.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port       int    `yaml:"port"`
	DBPath     string `yaml:"dbPath"`
	StaticPath string `yaml:"staticPath"`

	// BaseURL is the address this service is reachable at, used for the
	// self links embedded in generated feeds.
	BaseURL string `yaml:"baseUrl"`

	// CORSAllowHostnames lists hostnames whose origins may read the feeds
	// cross-origin. A hostname also admits its subdomains.
	CORSAllowHostnames []string `yaml:"corsAllowHostnames"`

	// UserAgent identifies the service to upstream feeds. When empty, one
	// is derived from BaseURL at startup.
	UserAgent string `yaml:"userAgent"`

	// Sources tunes individual catalogue entries, keyed by
	// "<category>/<slug>". Zero fields keep the compiled defaults.
	Sources map[string]SourceOverride `yaml:"sources"`
}

type SourceOverride struct {
	FreshnessMinutes int `yaml:"freshnessMinutes"`
	MaxItems         int `yaml:"maxItems"`
}

func GetConfig() Config {
	config := Config{
		Port:       8000,
		DBPath:     "data/feedbender.db",
		StaticPath: "static",
		BaseURL:    "http://localhost:8000",
	}

	// Override with environment variables if present
	if port := os.Getenv("FEEDBENDER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}

	if dbPath := os.Getenv("FEEDBENDER_DB_PATH"); dbPath != "" {
		config.DBPath = dbPath
	}

	if staticPath := os.Getenv("FEEDBENDER_STATIC_PATH"); staticPath != "" {
		config.StaticPath = staticPath
	}

	if baseURL := os.Getenv("FEEDBENDER_BASE_URL"); baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if hostnames := os.Getenv("FEEDBENDER_CORS_ALLOW_HOSTNAMES"); hostnames != "" {
		config.CORSAllowHostnames = splitHostnames(hostnames)
	}

	if agent := os.Getenv("FEEDBENDER_USER_AGENT"); agent != "" {
		config.UserAgent = agent
	}

	return config
}

// LoadFile overlays settings from a YAML file onto cfg. Unset fields in the
// file keep their current values.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

// splitHostnames accepts both commas and semicolons between entries.
func splitHostnames(s string) []string {
	var out []string
	for _, h := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

func (c Config) GetAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}
