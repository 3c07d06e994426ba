package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides. Nested keys use a double
// underscore: PDFCHAT_SERVER__ADDR -> server.addr.
const EnvPrefix = "PDFCHAT_"

type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Backend BackendConfig `yaml:"backend" koanf:"backend"`
	Client  ClientConfig  `yaml:"client" koanf:"client"`
	Tabs    []TabConfig   `yaml:"tabs" koanf:"tabs"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// ServerConfig configures the web frontend.
type ServerConfig struct {
	Addr        string `yaml:"addr" koanf:"addr"`
	UploadDir   string `yaml:"upload_dir" koanf:"upload_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb" koanf:"max_upload_mb"`
	CSRF        bool   `yaml:"csrf" koanf:"csrf"`
}

// BackendConfig points the frontend at the upstream QA service. An empty URL
// leaves the frontend without a backend.
type BackendConfig struct {
	URL       string        `yaml:"url" koanf:"url"`
	CSRFToken string        `yaml:"csrf_token" koanf:"csrf_token"`
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
}

// ClientConfig is used by the pdfchat command line client.
type ClientConfig struct {
	BaseURL   string        `yaml:"base_url" koanf:"base_url"`
	CSRFToken string        `yaml:"csrf_token" koanf:"csrf_token"`
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
}

// TabConfig declares one tab button and the panel it shows.
type TabConfig struct {
	ID      string `yaml:"id" koanf:"id"`
	Label   string `yaml:"label" koanf:"label"`
	Visible bool   `yaml:"visible" koanf:"visible"`
	// Content is "chat", "upload" or empty for a plain panel.
	Content string `yaml:"content" koanf:"content"`
}

type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

// DefaultConfig returns the configuration used when no file or env override
// sets a value.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			UploadDir:   "data/pdfs",
			MaxUploadMB: 32,
			CSRF:        true,
		},
		Backend: BackendConfig{
			Timeout: 2 * time.Minute,
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 2 * time.Minute,
		},
		Tabs: []TabConfig{
			{ID: "panel-chat", Label: "Chat", Visible: true, Content: "chat"},
			{ID: "panel-upload", Label: "Upload", Content: "upload"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PDFCHAT_*). A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// mapstructure merges into an existing slice instead of replacing it.
	if k.Exists("tabs") {
		cfg.Tabs = nil
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.UploadDir == "" {
		return fmt.Errorf("server.upload_dir is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	if c.Backend.Timeout < 0 || c.Client.Timeout < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}
	if len(c.Tabs) == 0 {
		return fmt.Errorf("at least one tab is required")
	}
	seen := make(map[string]bool, len(c.Tabs))
	for _, t := range c.Tabs {
		if t.ID == "" {
			return fmt.Errorf("tab id is required")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate tab id %q", t.ID)
		}
		seen[t.ID] = true
		switch t.Content {
		case "", "chat", "upload":
		default:
			return fmt.Errorf("tab %q: unknown content %q", t.ID, t.Content)
		}
	}
	return nil
}
