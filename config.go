// config.go: Dispatcher configuration, defaults and file loading
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agilira/argus"
	"gopkg.in/yaml.v3"
)

// Config controls the main-context Dispatcher.
//
// Example YAML:
//
//	queue_size: 256
//	blocking_timeout: 5s
//	recover_panics: true
//	log_level: info
type Config struct {
	// QueueSize is the number of jobs that may wait for the main context.
	QueueSize int `json:"queue_size" yaml:"queue_size"`

	// BlockingTimeout bounds OnMainBlocking in addition to its context.
	// Zero after ApplyDefaults means the default; use a context to wait
	// longer.
	BlockingTimeout time.Duration `json:"blocking_timeout" yaml:"blocking_timeout"`

	// RecoverPanics turns panics in main-context jobs into logged errors.
	RecoverPanics bool `json:"recover_panics" yaml:"recover_panics"`

	// LogLevel is used by NewZapLogger when the caller builds a logger
	// from the configuration.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

const (
	defaultQueueSize       = 256
	defaultBlockingTimeout = 5 * time.Second
	defaultLogLevel        = "info"
	maxQueueSize           = 1 << 16
)

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		QueueSize:       defaultQueueSize,
		BlockingTimeout: defaultBlockingTimeout,
		RecoverPanics:   true,
		LogLevel:        defaultLogLevel,
	}
}

// ApplyDefaults fills zero values. RecoverPanics is a bool, so it is left
// as given; start from DefaultConfig to get it enabled.
func (c *Config) ApplyDefaults() {
	if c.QueueSize == 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.BlockingTimeout == 0 {
		c.BlockingTimeout = defaultBlockingTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.QueueSize < 0 {
		return NewConfigValidationError("queue_size cannot be negative", nil)
	}
	if c.QueueSize > maxQueueSize {
		return NewConfigValidationError(fmt.Sprintf("queue_size cannot exceed %d", maxQueueSize), nil)
	}
	if c.BlockingTimeout < 0 {
		return NewConfigValidationError("blocking_timeout cannot be negative", nil)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return NewConfigValidationError("invalid log_level, must be one of: debug, info, warn, error", nil)
	}

	return nil
}

// LoadConfigFromFile reads a Config from a JSON, YAML or TOML file. The
// format is detected from the file extension. Values missing from the file
// keep their DefaultConfig value.
//
//	cfg, err := weechat.LoadConfigFromFile("weechat-go.yaml")
func LoadConfigFromFile(path string) (Config, error) {
	config := DefaultConfig()

	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean) // #nosec G304 -- path is chosen by the plugin author
	if err != nil {
		if os.IsNotExist(err) {
			return config, NewConfigNotFoundError(clean)
		}
		return config, NewConfigParseError(clean, err)
	}

	if err := parseConfig(data, argus.DetectFormat(clean), &config); err != nil {
		return config, NewConfigParseError(clean, err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// parseConfig uses yaml.v3 for YAML so durations like "5s" decode, and
// argus for every other format.
func parseConfig(data []byte, format argus.ConfigFormat, config *Config) error {
	if format == argus.FormatYAML {
		return yaml.Unmarshal(data, config)
	}

	configMap, err := argus.ParseConfig(data, format)
	if err != nil {
		return err
	}
	return bindConfig(configMap, config)
}

// bindConfig converts a parsed map into a Config. Durations in map-based
// formats may be given as strings ("5s") or as nanoseconds.
func bindConfig(configMap map[string]interface{}, config *Config) error {
	if configMap == nil {
		return fmt.Errorf("configuration map is nil")
	}

	if raw, ok := configMap["blocking_timeout"].(string); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid blocking_timeout %q: %w", raw, err)
		}
		configMap["blocking_timeout"] = int64(d)
	}

	jsonBytes, err := json.Marshal(configMap)
	if err != nil {
		return fmt.Errorf("failed to marshal config map to JSON: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}
