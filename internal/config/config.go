package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Agent    Agent    `yaml:"agent"`
	Composio Composio `yaml:"composio"`
	Learning Learning `yaml:"learning"`
	Memory   Memory   `yaml:"memory"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Agent struct {
	Model          string `yaml:"model"`
	ThumbnailModel string `yaml:"thumbnail_model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	DevMode        bool   `yaml:"dev_mode"`
	SampleDataFile string `yaml:"sample_data_file"`
}

type Composio struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	UserID    string `yaml:"user_id"`
}

type Learning struct {
	Schedule  string `yaml:"schedule"`
	MaxVideos int    `yaml:"max_videos"`
}

type Memory struct {
	File     string `yaml:"file"`
	MaxLines int    `yaml:"max_lines"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port          int `yaml:"port"`
	RatePerMinute int `yaml:"rate_per_minute"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for tubewise.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "tubewise")
}

// DataDir returns the XDG data directory for tubewise.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "tubewise")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/tubewise/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'tubewise init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file. A .env file in the working
// directory is loaded first so api_key_env lookups resolve.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Agent: Agent{
			Model:          "gemini-2.5-flash",
			ThumbnailModel: "gemini-2.5-flash-image",
			APIKeyEnv:      "GEMINI_API_KEY",
			SampleDataFile: "sample_data.json",
		},
		Composio: Composio{
			BaseURL:   "https://backend.composio.dev",
			APIKeyEnv: "COMPOSIO_API_KEY",
			UserID:    "default",
		},
		Learning: Learning{MaxVideos: 500},
		Memory:   Memory{MaxLines: 20},
		Server:   Server{Port: 4000, RatePerMinute: 60},
		Logging:  Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GeminiAPIKey returns the Gemini API key from the configured env var.
func (c *Config) GeminiAPIKey() string {
	return os.Getenv(c.Agent.APIKeyEnv)
}

// ComposioAPIKey returns the Composio API key from the configured env var.
func (c *Config) ComposioAPIKey() string {
	return os.Getenv(c.Composio.APIKeyEnv)
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// MemoryFile returns the effective memory log path.
func (c *Config) MemoryFile() string {
	if c.Memory.File != "" {
		return c.Memory.File
	}
	return filepath.Join(c.GetDataDir(), "memory.txt")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
