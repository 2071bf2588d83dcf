// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Detection DetectionConfig `yaml:"detection"`
	Models    []ModelConfig   `yaml:"models"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host   string `yaml:"host"`    // listen address
	Port   int    `yaml:"port"`    // listen port
	APIKey string `yaml:"api_key"` // optional X-API-Key value; empty disables the check
}

// DetectionConfig holds the pipeline settings.
type DetectionConfig struct {
	SampleRate     int      `yaml:"sample_rate"`            // target waveform rate, Hz
	MaxAudioBytes  int      `yaml:"max_audio_bytes"`        // decoded payload cap
	MaxConcurrency int      `yaml:"max_concurrency"`        // in-flight inference cap across requests
	WarmUpTimeout  int      `yaml:"warmup_timeout_seconds"` // startup warm-up deadline
	Languages      []string `yaml:"languages"`              // accepted values of the request language field
}

// ModelConfig identifies one classification backend.
type ModelConfig struct {
	Name    string `yaml:"name"`            // short name used in logs and votes
	ID      string `yaml:"id"`              // hub identifier the backend serves
	URL     string `yaml:"url"`             // full endpoint URL
	Token   string `yaml:"token"`           // optional bearer token
	Timeout int    `yaml:"timeout_seconds"` // per-call HTTP timeout
}

// EnsembleSize is the number of backends the aggregation contract assumes.
const EnsembleSize = 4

// DefaultLanguages is the language set accepted when the config names none.
var DefaultLanguages = []string{"Tamil", "English", "Hindi", "Malayalam", "Telugu"}

// Load reads and validates the configuration file. PORT and API_KEY environment
// variables override their file counterparts.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(&config)
	applyEnv(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Detection.SampleRate == 0 {
		config.Detection.SampleRate = 16000
	}
	if config.Detection.MaxAudioBytes == 0 {
		config.Detection.MaxAudioBytes = 10 << 20 // 10 MiB
	}
	if config.Detection.MaxConcurrency == 0 {
		config.Detection.MaxConcurrency = 8
	}
	if config.Detection.WarmUpTimeout == 0 {
		config.Detection.WarmUpTimeout = 120
	}
	if len(config.Detection.Languages) == 0 {
		config.Detection.Languages = DefaultLanguages
	}
	for i := range config.Models {
		if config.Models[i].Timeout == 0 {
			config.Models[i].Timeout = 60
		}
	}
}

func applyEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if key := os.Getenv("API_KEY"); key != "" {
		config.Server.APIKey = key
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", config.Server.Port)
	}
	if config.Detection.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive")
	}
	if config.Detection.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive")
	}

	// The aggregation contract assumes exactly four votes; refuse to start
	// with any other ensemble size.
	if len(config.Models) != EnsembleSize {
		return fmt.Errorf("exactly %d models required, got %d", EnsembleSize, len(config.Models))
	}
	for i, m := range config.Models {
		if m.Name == "" {
			return fmt.Errorf("model %d: name must not be empty", i)
		}
		if m.URL == "" {
			return fmt.Errorf("model %q: url must not be empty", m.Name)
		}
	}
	return nil
}

// WarmUpDeadline returns the warm-up timeout as a duration.
func (d DetectionConfig) WarmUpDeadline() time.Duration {
	return time.Duration(d.WarmUpTimeout) * time.Second
}

// HTTPTimeout returns the per-call timeout as a duration.
func (m ModelConfig) HTTPTimeout() time.Duration {
	return time.Duration(m.Timeout) * time.Second
}

// SupportsLanguage reports whether lang is in the accepted set.
func (c *Config) SupportsLanguage(lang string) bool {
	for _, l := range c.Detection.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
