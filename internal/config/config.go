package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Advisor   AdvisorConfig   `yaml:"advisor"`
	Assets    []AssetConfig   `yaml:"assets"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// IngestionConfig controls the price-refresh scheduler.
type IngestionConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// AdvisorConfig configures the text-generation collaborator. An empty
// APIKey is not an error: the key is also looked up in the process
// environment, and when absent the pipeline uses its fallback text.
type AdvisorConfig struct {
	APIKey         string `yaml:"api_key,omitempty"`
	Endpoint       string `yaml:"endpoint,omitempty"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AssetConfig is one row of the supported-asset table.
type AssetConfig struct {
	CoinID string `yaml:"coin_id"`
	Symbol string `yaml:"symbol"`
	Market string `yaml:"market"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "coinfolio.db"
	}
	if c.Ingestion.IntervalSeconds <= 0 {
		c.Ingestion.IntervalSeconds = 10
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "gpt-4o-mini"
	}
	if c.Advisor.TimeoutSeconds <= 0 {
		c.Advisor.TimeoutSeconds = 15
	}
	if len(c.Assets) == 0 {
		c.Assets = []AssetConfig{
			{CoinID: "bitcoin", Symbol: "BTC", Market: "BTCEUR"},
			{CoinID: "ethereum", Symbol: "ETH", Market: "ETHEUR"},
			{CoinID: "solana", Symbol: "SOL", Market: "SOLEUR"},
		}
	}
}

// LoadConfig loads configuration from a YAML file, filling in defaults for
// any omitted section.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
