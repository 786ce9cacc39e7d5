// config.go: registry configuration with validation and file loading
//
// Copyright (c) 2026 AURIA Developers and Contributors
// SPDX-License-Identifier: MPL-2.0

package plugins

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/agilira/argus"
	"gopkg.in/yaml.v3"
)

const maxConfigFileSize = 10 * 1024 * 1024 // 10MB

// RegistryConfig configures registry lifecycle behavior.
//
// Duration fields are nanosecond integers when loaded from YAML or JSON
// files, matching encoding/json semantics for time.Duration.
type RegistryConfig struct {
	// InitTimeout bounds each plugin's Initialize call during
	// InitializeAll. Zero disables the per-plugin timeout.
	InitTimeout time.Duration `json:"init_timeout" yaml:"init_timeout"`

	// ShutdownTimeout bounds each plugin's Shutdown call during
	// ShutdownAll. Zero disables the per-plugin timeout.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`

	// AbortOnShutdownError makes ShutdownAll stop at the first failing
	// plugin instead of the default best-effort pass over all plugins.
	AbortOnShutdownError bool `json:"abort_on_shutdown_error" yaml:"abort_on_shutdown_error"`

	// Logging
	Logger Logger `json:"-" yaml:"-"`
}

// setRegistryConfigDefaults fills in zero-valued fields with defaults.
func setRegistryConfigDefaults(config *RegistryConfig) {
	if config.InitTimeout == 0 {
		config.InitTimeout = 30 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = DefaultLogger()
	}
}

// Validate checks the configuration for invalid values.
func (c *RegistryConfig) Validate() error {
	if c.InitTimeout < 0 {
		return NewConfigValidationError("init_timeout cannot be negative")
	}
	if c.ShutdownTimeout < 0 {
		return NewConfigValidationError("shutdown_timeout cannot be negative")
	}
	return nil
}

// LoadRegistryConfig reads a registry configuration from a YAML or JSON
// file. The format is detected from the file path. Defaults are applied to
// fields the file leaves unset, and the result is validated.
func LoadRegistryConfig(path string) (RegistryConfig, error) {
	var config RegistryConfig

	if err := validateConfigFilePath(path); err != nil {
		return config, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return config, NewConfigFileError(path, err)
	}
	if len(content) == 0 {
		return config, NewConfigParseError(path, fmt.Errorf("config file is empty"))
	}

	switch argus.DetectFormat(path) {
	case argus.FormatJSON:
		if err := json.Unmarshal(content, &config); err != nil {
			return RegistryConfig{}, NewConfigParseError(path, err)
		}
	case argus.FormatYAML:
		if err := yaml.Unmarshal(content, &config); err != nil {
			return RegistryConfig{}, NewConfigParseError(path, err)
		}
	default:
		return config, NewConfigParseError(path, fmt.Errorf("unsupported config format"))
	}

	setRegistryConfigDefaults(&config)
	if err := config.Validate(); err != nil {
		return RegistryConfig{}, err
	}

	return config, nil
}

// validateConfigFilePath ensures the path points at a readable regular file
// of reasonable size before it is parsed.
func validateConfigFilePath(path string) error {
	if path == "" {
		return NewConfigFileError(path, fmt.Errorf("empty config file path"))
	}

	info, err := os.Stat(path)
	if err != nil {
		return NewConfigFileError(path, err)
	}

	if !info.Mode().IsRegular() {
		return NewConfigFileError(path, fmt.Errorf("config path is not a regular file"))
	}

	if info.Size() > maxConfigFileSize {
		return NewConfigFileError(path, fmt.Errorf("config file too large: %d bytes", info.Size()))
	}

	return nil
}
