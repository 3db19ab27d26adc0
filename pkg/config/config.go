package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Build-time defaults. Distributions override these with
// -ldflags "-X .../pkg/config.DefaultBackendURL=..." so a fresh
// install can reach the control plane without a config file.
var (
	DefaultBackendURL = "https://app.prioritylivinglabs.com"
	DefaultAnonKey    = ""
)

const (
	// DefaultPollInterval is the agent poll interval in seconds.
	DefaultPollInterval = 5

	// DefaultListenAddr is where the local dashboard binds.
	DefaultListenAddr = "127.0.0.1:8420"

	configFile = "config.yaml"
	envFile    = ".env"
)

// Config holds all operator-settable configuration. It lives as YAML in
// the data directory and every field can be overridden by a PL_*
// environment variable (optionally loaded from <data-dir>/.env).
type Config struct {
	BackendURL      string `yaml:"backend_url"`
	AnonKey         string `yaml:"anon_key"`
	BridgeKey       string `yaml:"bridge_key,omitempty"`
	ConnectionToken string `yaml:"connection_token,omitempty"`
	PollInterval    int    `yaml:"poll_interval,omitempty"`
	GitHubRepoOwner string `yaml:"github_repo_owner,omitempty"`
	ListenAddr      string `yaml:"listen_addr,omitempty"`
	LogLevel        string `yaml:"log_level,omitempty"`
	Interpreter     string `yaml:"interpreter,omitempty"`

	dir string
}

// DefaultDir returns the data directory (~/.priority-living).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".priority-living"
	}
	return filepath.Join(home, ".priority-living")
}

// Load reads the config file from dir, overlays PL_* environment
// variables, and fills defaults. A missing file is not an error; the
// returned config is then defaults plus environment.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultDir()
	}

	// Optional .env next to the config file. Ignore if absent.
	_ = godotenv.Load(filepath.Join(dir, envFile))

	cfg := &Config{dir: dir}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BackendURL = getEnv("PL_BACKEND_URL", c.BackendURL)
	c.AnonKey = getEnv("PL_ANON_KEY", c.AnonKey)
	c.BridgeKey = getEnv("PL_BRIDGE_KEY", c.BridgeKey)
	c.ConnectionToken = getEnv("PL_CONNECTION_TOKEN", c.ConnectionToken)
	c.PollInterval = getEnvInt("PL_POLL_INTERVAL", c.PollInterval)
	c.GitHubRepoOwner = getEnv("PL_GITHUB_REPO_OWNER", c.GitHubRepoOwner)
	c.ListenAddr = getEnv("PL_LISTEN_ADDR", c.ListenAddr)
	c.LogLevel = getEnv("PL_LOG_LEVEL", c.LogLevel)
	c.Interpreter = getEnv("PL_INTERPRETER", c.Interpreter)
}

func (c *Config) applyDefaults() {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.AnonKey == "" {
		c.AnonKey = DefaultAnonKey
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Interpreter == "" {
		c.Interpreter = "python3"
	}
}

// Dir returns the data directory this config was loaded from.
func (c *Config) Dir() string {
	if c.dir == "" {
		return DefaultDir()
	}
	return c.dir
}

// QueuePath returns the offline queue database path.
func (c *Config) QueuePath() string {
	return filepath.Join(c.Dir(), "queue.db")
}

// AgentsDir returns the directory holding agent PID markers.
func (c *Config) AgentsDir() string {
	return filepath.Join(c.Dir(), "agents")
}

// ModelsDir returns the directory holding locally installed models.
func (c *Config) ModelsDir() string {
	return filepath.Join(c.Dir(), "models")
}

// Save writes the config back to <dir>/config.yaml, creating the data
// directory if needed.
func (c *Config) Save() error {
	dir := c.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Set updates a single key by its YAML name. Used by `pl config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend_url":
		c.BackendURL = value
	case "anon_key":
		c.AnonKey = value
	case "bridge_key":
		c.BridgeKey = value
	case "connection_token":
		c.ConnectionToken = value
	case "poll_interval":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("poll_interval must be a positive integer, got %q", value)
		}
		c.PollInterval = n
	case "github_repo_owner":
		c.GitHubRepoOwner = value
	case "listen_addr":
		c.ListenAddr = value
	case "log_level":
		c.LogLevel = value
	case "interpreter":
		c.Interpreter = value
	default:
		return fmt.Errorf("unknown config key %q (known: %v)", key, Keys())
	}
	return nil
}

// Get returns the value of a single key by its YAML name.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend_url":
		return c.BackendURL, nil
	case "anon_key":
		return c.AnonKey, nil
	case "bridge_key":
		return c.BridgeKey, nil
	case "connection_token":
		return c.ConnectionToken, nil
	case "poll_interval":
		return strconv.Itoa(c.PollInterval), nil
	case "github_repo_owner":
		return c.GitHubRepoOwner, nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "log_level":
		return c.LogLevel, nil
	case "interpreter":
		return c.Interpreter, nil
	default:
		return "", fmt.Errorf("unknown config key %q (known: %v)", key, Keys())
	}
}

// Keys lists the settable config keys in sorted order.
func Keys() []string {
	keys := []string{
		"backend_url",
		"anon_key",
		"bridge_key",
		"connection_token",
		"poll_interval",
		"github_repo_owner",
		"listen_addr",
		"log_level",
		"interpreter",
	}
	sort.Strings(keys)
	return keys
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
