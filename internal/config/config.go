// Package config loads application configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Data struct {
		IndexInfo  string `yaml:"index_info"`
		IndexData  string `yaml:"index_data"`
		Store      string `yaml:"store"` // "memory" or "sqlite"
		SQLitePath string `yaml:"sqlite_path"`
		Watch      bool   `yaml:"watch"`
	} `yaml:"data"`
	LLM struct {
		Provider       string `yaml:"provider"` // "gemini" or "ollama"
		Model          string `yaml:"model"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	Context struct {
		RecordsPerSymbol int `yaml:"records_per_symbol"`
		MaxTotalRecords  int `yaml:"max_total_records"`
	} `yaml:"context"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("INDEX_INFO_PATH"); v != "" {
		cfg.Data.IndexInfo = v
	}
	if v := os.Getenv("INDEX_DATA_PATH"); v != "" {
		cfg.Data.IndexData = v
	}
	if v := os.Getenv("DATA_STORE"); v != "" {
		cfg.Data.Store = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Data.SQLitePath = v
	}
	if v := os.Getenv("DATA_WATCH"); v != "" {
		cfg.Data.Watch = v == "true" || v == "1"
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.TimeoutSeconds = n
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Data.IndexInfo == "" {
		cfg.Data.IndexInfo = "data/indexInfo.csv"
	}
	if cfg.Data.IndexData == "" {
		cfg.Data.IndexData = "data/indexData.csv"
	}
	if cfg.Data.Store == "" {
		cfg.Data.Store = "memory"
	}
	if cfg.Data.SQLitePath == "" {
		cfg.Data.SQLitePath = "data/market.db"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 60
	}
	if cfg.Context.RecordsPerSymbol == 0 {
		cfg.Context.RecordsPerSymbol = 10
	}
	if cfg.Context.MaxTotalRecords == 0 {
		cfg.Context.MaxTotalRecords = 30
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Data.IndexInfo == "" || c.Data.IndexData == "" {
		return fmt.Errorf("data.index_info and data.index_data are required")
	}
	switch c.Data.Store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("data.store must be %q or %q, got %q", "memory", "sqlite", c.Data.Store)
	}
	switch c.LLM.Provider {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", "gemini", "ollama", c.LLM.Provider)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive")
	}
	return nil
}
