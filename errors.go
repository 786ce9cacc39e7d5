// errors.go: structured error definitions for the plugin system
//
// Copyright (c) 2026 AURIA Developers and Contributors
// SPDX-License-Identifier: MPL-2.0

package plugins

import (
	"strings"

	"github.com/agilira/go-errors"
)

// Error codes for the plugin system
const (
	// Registration errors (1000-1099)
	ErrCodeInvalidPluginName   = "PLUGIN_1001"
	ErrCodeDuplicatePluginName = "PLUGIN_1002"
	ErrCodeNilPlugin           = "PLUGIN_1003"

	// Lifecycle errors (1200-1299)
	ErrCodePluginNotFound        = "PLUGIN_1201"
	ErrCodePluginInitializeError = "PLUGIN_1202"
	ErrCodePluginShutdownError   = "PLUGIN_1203"

	// Registry errors (1900-1999)
	ErrCodeRegistryClosed = "REGISTRY_1901"

	// Configuration errors (1700-1799)
	ErrCodeConfigFileError       = "CONFIG_1701"
	ErrCodeConfigParseError      = "CONFIG_1702"
	ErrCodeConfigValidationError = "CONFIG_1703"
	ErrCodeConfigWatcherError    = "CONFIG_1704"
)

// Registration error constructors

func NewInvalidPluginNameError(name string) *errors.Error {
	return errors.New(ErrCodeInvalidPluginName, "Invalid plugin name").
		WithUserMessage("Plugin name is required and cannot be empty").
		WithContext("provided_name", name).
		WithSeverity("error")
}

func NewDuplicatePluginNameError(name string) *errors.Error {
	return errors.New(ErrCodeDuplicatePluginName, "Duplicate plugin name").
		WithUserMessage("Plugin names must be unique within a registry").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

func NewNilPluginError() *errors.Error {
	return errors.New(ErrCodeNilPlugin, "Nil plugin").
		WithUserMessage("A non-nil plugin instance is required").
		WithSeverity("error")
}

// Lifecycle error constructors

func NewPluginNotFoundError(name string) *errors.Error {
	return errors.New(ErrCodePluginNotFound, "Plugin not found").
		WithUserMessage("No plugin with the given name is registered").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

func NewPluginInitializeError(name string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodePluginInitializeError, "Plugin initialization failed").
		WithUserMessage("The plugin failed to initialize").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

func NewPluginShutdownError(name string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodePluginShutdownError, "Plugin shutdown failed").
		WithUserMessage("The plugin failed to shut down cleanly").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

// NewShutdownAllError aggregates a best-effort ShutdownAll pass in which one
// or more plugins failed to shut down. The first failure is carried as the
// cause; all failing plugin names are listed in context.
func NewShutdownAllError(failed []string, firstCause error) *errors.Error {
	return errors.Wrap(firstCause, ErrCodePluginShutdownError, "Plugin shutdown failed").
		WithUserMessage("One or more plugins failed to shut down cleanly").
		WithContext("failed_plugins", strings.Join(failed, ",")).
		WithContext("failed_count", len(failed)).
		WithSeverity("error")
}

// Registry error constructors

func NewRegistryClosedError() *errors.Error {
	return errors.New(ErrCodeRegistryClosed, "Registry closed").
		WithUserMessage("The registry has been shut down and no longer accepts registrations").
		WithSeverity("error")
}

// Configuration error constructors

func NewConfigFileError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeConfigFileError, "Configuration file error").
		WithUserMessage("The configuration file could not be accessed").
		WithContext("path", path).
		WithSeverity("error")
}

func NewConfigParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeConfigParseError, "Configuration parse error").
		WithUserMessage("The configuration file could not be parsed").
		WithContext("path", path).
		WithSeverity("error")
}

func NewConfigValidationError(detail string) *errors.Error {
	return errors.New(ErrCodeConfigValidationError, "Configuration validation error").
		WithUserMessage("The configuration contains invalid values").
		WithContext("detail", detail).
		WithSeverity("error")
}

func NewConfigWatcherError(detail string, cause error) *errors.Error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeConfigWatcherError, "Configuration watcher error").
			WithUserMessage("The configuration watcher encountered an error").
			WithContext("detail", detail).
			WithSeverity("error")
	}
	return errors.New(ErrCodeConfigWatcherError, "Configuration watcher error").
		WithUserMessage("The configuration watcher encountered an error").
		WithContext("detail", detail).
		WithSeverity("error")
}
