package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Engine        EngineConfig     `yaml:"engine"`
	SQLDatabase   DatabaseConfig   `yaml:"sql_database"`   // SQLite for templates and provider state
	NoSQLDatabase DatabaseConfig   `yaml:"nosql_database"` // MongoDB for validation and probe history
	Providers     []ProviderConfig `yaml:"providers,omitempty"`
	ProbeCron     string           `yaml:"probe_cron,omitempty"`  // latency probe cadence
	ReportCron    string           `yaml:"report_cron,omitempty"` // daily review report
	CORSOrigin    string           `yaml:"cors_origin,omitempty"`
	LogLevel      string           `yaml:"log_level,omitempty"`
}

// EngineConfig points at the external classification engine
type EngineConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
	RatePerSecond  float64 `yaml:"rate_per_second,omitempty"` // request rate cap towards the engine
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Provider string            `yaml:"provider"` // sqlite, mongodb
	URI      string            `yaml:"uri"`
	Database string            `yaml:"database"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// ProviderConfig holds probe credentials for one LLM provider backend
type ProviderConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name,omitempty"`
	Kind    string `yaml:"kind"` // openai, anthropic, google, ollama, perplexity
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			BaseURL:        "http://localhost:3001",
			TimeoutSeconds: 30,
			RatePerSecond:  5,
		},
		SQLDatabase: DatabaseConfig{
			Provider: "sqlite",
			URI:      "~/.rainbowd/rainbowd.db",
			Database: "rainbowd",
		},
		NoSQLDatabase: DatabaseConfig{
			Provider: "mongodb",
			URI:      "mongodb://localhost:27017",
			Database: "rainbowd",
		},
		ProbeCron:  "*/15 * * * *",
		ReportCron: "0 9 * * *",
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rainbowd/config.yaml"
	}
	return filepath.Join(home, ".rainbowd", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
