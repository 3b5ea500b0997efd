// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package browser

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/alusearch/services/browser/telemetry"
)

// Config holds the browser service configuration. Values come from an
// optional YAML file with ALUSEARCH_* environment overrides applied on top,
// so container deployments can skip the file entirely.
type Config struct {
	// ListenAddr is the HTTP bind address, e.g. ":8080".
	ListenAddr string `yaml:"listen_addr"`

	// DatasetPath is the aluminum alloy CSV location. Empty means the
	// data/ directory next to the executable.
	DatasetPath string `yaml:"dataset_path"`

	// CounterPath is the visit counter file location.
	CounterPath string `yaml:"counter_path"`

	// SessionDir is the badger directory for session state. Empty selects
	// an in-memory store, which resets visitor dedup on restart.
	SessionDir string `yaml:"session_dir"`

	// SessionTTL is how long a browser session suppresses re-counting.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// WatchDataset enables reloading the dataset when the CSV changes on
	// disk.
	WatchDataset bool `yaml:"watch_dataset"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is one of auto, text, json.
	LogFormat string `yaml:"log_format"`

	// RateLimit is the sustained query requests per second. Zero disables
	// limiting.
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the rate limiter bucket depth.
	RateBurst int `yaml:"rate_burst"`

	// Telemetry configures tracing and metrics export.
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		ListenAddr:   ":8080",
		DatasetPath:  "",
		CounterPath:  "counter.txt",
		SessionDir:   "",
		SessionTTL:   24 * time.Hour,
		WatchDataset: true,
		LogLevel:     "info",
		LogFormat:    "auto",
		RateLimit:    20,
		RateBurst:    40,
		Telemetry:    telemetry.DefaultConfig(),
	}
}

// LoadConfig builds the effective configuration: defaults, then the YAML
// file at path (skipped when path is empty or the file does not exist),
// then environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.ListenAddr == "" {
		return cfg, fmt.Errorf("listen_addr cannot be empty")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return cfg, nil
}

// applyEnvOverrides layers ALUSEARCH_* environment variables over cfg.
// Unparseable numeric or boolean values are ignored rather than fatal.
func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("ALUSEARCH_LISTEN_ADDR", &cfg.ListenAddr)
	setString("ALUSEARCH_DATASET_PATH", &cfg.DatasetPath)
	setString("ALUSEARCH_COUNTER_PATH", &cfg.CounterPath)
	setString("ALUSEARCH_SESSION_DIR", &cfg.SessionDir)
	setString("ALUSEARCH_LOG_LEVEL", &cfg.LogLevel)
	setString("ALUSEARCH_LOG_FORMAT", &cfg.LogFormat)

	if v, ok := os.LookupEnv("ALUSEARCH_SESSION_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if v, ok := os.LookupEnv("ALUSEARCH_WATCH_DATASET"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.WatchDataset = b
		}
	}
	if v, ok := os.LookupEnv("ALUSEARCH_RATE_LIMIT"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit = f
		}
	}
	if v, ok := os.LookupEnv("ALUSEARCH_RATE_BURST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateBurst = n
		}
	}
}
