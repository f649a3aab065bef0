package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Mode string `yaml:"mode"` // "debug" or "release"
	} `yaml:"server"`

	Database struct {
		URL            string `yaml:"url"`
		MaxConnections int    `yaml:"maxConnections"`
		MigrationsPath string `yaml:"migrationsPath"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		ExpiryDays int    `yaml:"expiryDays"`
	} `yaml:"jwt"`

	Openai struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Cors struct {
		AllowOrigins []string `yaml:"allowOrigins"`
	} `yaml:"cors"`
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Database.MaxConnections == 0 {
		cfg.Database.MaxConnections = 10
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "./migrations"
	}
	if cfg.JWT.ExpiryDays == 0 {
		cfg.JWT.ExpiryDays = 7
	}
	if cfg.Openai.Model == "" {
		cfg.Openai.Model = "gpt-3.5-turbo"
	}

	return &cfg, nil
}
