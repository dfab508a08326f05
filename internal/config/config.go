package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL string `json:"api_base_url" yaml:"api_base_url"`
	AIBaseURL  string `json:"ai_base_url" yaml:"ai_base_url"`

	PageSize int    `json:"page_size" yaml:"page_size"`
	SortBy   string `json:"sort_by" yaml:"sort_by"`
	SortDir  string `json:"sort_dir" yaml:"sort_dir"`

	RequestTimeoutMS int `json:"request_timeout_ms" yaml:"request_timeout_ms"`
	SearchDebounceMS int `json:"search_debounce_ms" yaml:"search_debounce_ms"`
	ToastDurationMS  int `json:"toast_duration_ms" yaml:"toast_duration_ms"`

	// Storage selects the local key-value backend: "sqlite", "json" or "memory".
	Storage  string `json:"storage" yaml:"storage"`
	StateDir string `json:"state_dir" yaml:"state_dir"`

	// ExportDir receives markdown exports. Defaults to <state_dir>/exports.
	ExportDir string `json:"export_dir" yaml:"export_dir"`

	Editor string `json:"editor" yaml:"editor"`

	AI AIConfig `json:"ai" yaml:"ai"`
}

type AIConfig struct {
	// ClearHistoryOnDelete drops a note's stored conversation when the note is deleted.
	ClearHistoryOnDelete bool `json:"clear_history_on_delete" yaml:"clear_history_on_delete"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIBaseURL:       "http://localhost:8080/api/notes",
		AIBaseURL:        "http://localhost:8080/api/ai",
		PageSize:         PageSize,
		SortBy:           "updatedAt",
		SortDir:          "desc",
		RequestTimeoutMS: 60000,
		SearchDebounceMS: 500,
		ToastDurationMS:  3000,
		Storage:          "sqlite",
		StateDir:         defaultStateDir(),
		Editor:           defaultEditor(),
	}
}

// Load reads the config from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads config from path. An empty path checks config.yaml then
// config.json under the XDG config dir. Missing files yield defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		dir := filepath.Join(xdgConfig(), "studynotes")
		for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := decode(path, data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STUDYNOTES_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("STUDYNOTES_AI_URL"); v != "" {
		cfg.AIBaseURL = v
	}
	if v := os.Getenv("STUDYNOTES_STORAGE"); v != "" {
		cfg.Storage = v
	}
}

// Validate checks the config and fills zero values left by partial files.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"api_base_url": c.APIBaseURL, "ai_base_url": c.AIBaseURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: invalid URL %q", name, raw)
		}
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	c.AIBaseURL = strings.TrimRight(c.AIBaseURL, "/")

	if c.PageSize <= 0 {
		c.PageSize = PageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	if c.SortBy == "" {
		c.SortBy = "updatedAt"
	}
	switch strings.ToLower(c.SortDir) {
	case "asc", "desc":
		c.SortDir = strings.ToLower(c.SortDir)
	case "":
		c.SortDir = "desc"
	default:
		return fmt.Errorf("sort_dir: must be asc or desc, got %q", c.SortDir)
	}
	if c.RequestTimeoutMS <= 0 {
		c.RequestTimeoutMS = 60000
	}
	if c.SearchDebounceMS <= 0 {
		c.SearchDebounceMS = 500
	}
	if c.ToastDurationMS <= 0 {
		c.ToastDurationMS = 3000
	}
	switch c.Storage {
	case "sqlite", "json", "memory":
	case "":
		c.Storage = "sqlite"
	default:
		return fmt.Errorf("storage: unknown backend %q", c.Storage)
	}
	if c.StateDir == "" {
		c.StateDir = defaultStateDir()
	}
	if c.ExportDir == "" {
		c.ExportDir = filepath.Join(c.StateDir, "exports")
	}
	if c.Editor == "" {
		c.Editor = defaultEditor()
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastDurationMS) * time.Millisecond
}

// Save writes cfg as YAML to the default config location.
func Save(cfg *Config) error {
	dir := filepath.Join(xdgConfig(), "studynotes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644)
}

func xdgConfig() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return d
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

func defaultStateDir() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, "studynotes")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "studynotes")
}

func defaultEditor() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	if e := os.Getenv("VISUAL"); e != "" {
		return e
	}
	return "vim"
}
