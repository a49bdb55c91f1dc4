package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Signal is one configurable ghost-job keyword rule.
type Signal struct {
	Type     string   `yaml:"type"` // red_flag | warning | positive
	Reason   string   `yaml:"reason"`
	Weight   float64  `yaml:"weight"`
	Severity float64  `yaml:"severity"`
	Any      []string `yaml:"any"`
}

type GhostConfig struct {
	Baseline float64  `yaml:"baseline"`
	Signals  []Signal `yaml:"signals"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Fetch struct {
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"fetch"`

	Validator struct {
		Local struct {
			Enabled   bool   `yaml:"enabled"`
			ServerURL string `yaml:"server_url"`
			Model     string `yaml:"model"`
		} `yaml:"local"`
		Remote struct {
			Endpoint          string  `yaml:"endpoint"`
			RequestsPerSecond float64 `yaml:"requests_per_second"`
		} `yaml:"remote"`
	} `yaml:"validator"`

	Learning struct {
		PatternTTLSeconds int `yaml:"pattern_ttl_seconds"`
	} `yaml:"learning"`

	// ParsersFile points at an optional YAML overlay of extra platform
	// profiles; a missing file means built-ins only.
	ParsersFile string `yaml:"parsers_file"`

	History struct {
		RecentLimit int `yaml:"recent_limit"`
	} `yaml:"history"`

	Ghost GhostConfig `yaml:"ghost"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills zero values so a sparse user config still runs.
func (c *Config) ApplyDefaults() {
	if c.App.Port == 0 {
		c.App.Port = 8754
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		c.Fetch.RequestsPerSecond = 2
	}
	if c.Fetch.Burst <= 0 {
		c.Fetch.Burst = 4
	}
	if c.Validator.Remote.RequestsPerSecond <= 0 {
		c.Validator.Remote.RequestsPerSecond = 1
	}
	if c.Learning.PatternTTLSeconds <= 0 {
		c.Learning.PatternTTLSeconds = 30
	}
	if c.History.RecentLimit <= 0 {
		c.History.RecentLimit = 200
	}
}
