package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transport  string           `yaml:"transport"`
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	Workflow   WorkflowConfig   `yaml:"workflow"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DBConfig points at the optional local state store. An empty path disables
// it; state instructions are then returned to the caller unexecuted.
type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// WorkflowConfig tunes the propose/confirm workflow.
type WorkflowConfig struct {
	ProposalTTL         time.Duration `yaml:"proposal_ttl"`
	RecentTaskLimit     int           `yaml:"recent_task_limit"`
	RecentDecisionLimit int           `yaml:"recent_decision_limit"`
}

// ClassifierConfig tunes intent classification confidence levels.
type ClassifierConfig struct {
	ExplicitSwitch float64 `yaml:"explicit_switch"`
	Continuation   float64 `yaml:"continuation"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: "stdio",
		Log: LogConfig{
			Level: "info",
		},
		Workflow: WorkflowConfig{
			ProposalTTL:         5 * time.Minute,
			RecentTaskLimit:     5,
			RecentDecisionLimit: 3,
		},
	}

	if path := os.Getenv("BRAIN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if transport := os.Getenv("BRAIN_TRANSPORT"); transport != "" {
		cfg.Transport = transport
	}
	if host := os.Getenv("BRAIN_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("BRAIN_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BRAIN_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("BRAIN_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("BRAIN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("BRAIN_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if ttlStr := os.Getenv("BRAIN_PROPOSAL_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BRAIN_PROPOSAL_TTL: %w", err)
		}
		cfg.Workflow.ProposalTTL = ttl
	}

	if cfg.Transport != "stdio" && cfg.Transport != "http" {
		return Config{}, fmt.Errorf("invalid transport %q: must be stdio or http", cfg.Transport)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
