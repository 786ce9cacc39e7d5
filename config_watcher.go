// config_watcher.go: hot reload of registry lifecycle tunables via Argus
//
// Watches a YAML or JSON configuration file and applies changes to the
// registry's lifecycle tunables (timeouts, shutdown policy) without
// restarting the embedding application. The plugin set itself is never
// driven by configuration; only the tunables reload.
//
// Copyright (c) 2026 AURIA Developers and Contributors
// SPDX-License-Identifier: MPL-2.0

package plugins

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// RegistryConfigWatcher hot-reloads registry lifecycle tunables from a file.
//
// Usage example:
//
//	watcher := NewRegistryConfigWatcher(registry, "/etc/auria/plugins.yaml", DefaultWatcherOptions())
//	if err := watcher.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer watcher.Stop()
type RegistryConfigWatcher struct {
	registry *Registry
	logger   Logger

	watcher    *argus.Watcher
	configPath string
	current    atomic.Pointer[RegistryConfig]

	// Lifecycle management
	enabled  atomic.Bool // running state
	stopped  atomic.Bool // permanent stop flag, prevents restart
	stopOnce sync.Once
	mutex    sync.Mutex // protects start/stop transitions

	options WatcherOptions
}

// WatcherOptions customizes config watcher behavior.
type WatcherOptions struct {
	// PollInterval controls how often the file is checked for changes.
	PollInterval time.Duration

	// CacheTTL bounds the staleness of cached file stat results.
	CacheTTL time.Duration

	// ErrorHandler receives file watching errors. Optional; errors are
	// always logged through the registry's logger as well.
	ErrorHandler func(err error, filepath string)
}

// DefaultWatcherOptions returns sensible defaults for registry tunables,
// which change far less often than plugin traffic.
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{
		PollInterval: 10 * time.Second,
		CacheTTL:     5 * time.Second,
	}
}

// NewRegistryConfigWatcher creates a watcher bound to a registry and a
// configuration file path. The watcher does not touch the file until Start.
func NewRegistryConfigWatcher(registry *Registry, configPath string, options WatcherOptions) *RegistryConfigWatcher {
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultWatcherOptions().PollInterval
	}
	if options.CacheTTL <= 0 {
		options.CacheTTL = DefaultWatcherOptions().CacheTTL
	}

	return &RegistryConfigWatcher{
		registry:   registry,
		logger:     registry.logger,
		configPath: configPath,
		options:    options,
	}
}

// Start loads the configuration file, applies it to the registry, and
// begins watching for changes.
//
// Returns an error if the watcher is already running or was permanently
// stopped, if the initial load or apply fails, or if the underlying Argus
// watcher cannot start.
func (w *RegistryConfigWatcher) Start(ctx context.Context) error {
	if w.stopped.Load() {
		return NewConfigWatcherError("watcher has been permanently stopped and cannot be restarted", nil)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.enabled.CompareAndSwap(false, true) {
		return NewConfigWatcherError("watcher is already running", nil)
	}

	initial, err := LoadRegistryConfig(w.configPath)
	if err != nil {
		w.enabled.Store(false)
		return err
	}
	if err := w.registry.ApplyConfig(initial); err != nil {
		w.enabled.Store(false)
		return err
	}
	w.current.Store(&initial)

	w.watcher = argus.New(argus.Config{
		PollInterval:         w.options.PollInterval,
		CacheTTL:             w.options.CacheTTL,
		OptimizationStrategy: argus.OptimizationSingleEvent,
		ErrorHandler: func(err error, filepath string) {
			if w.options.ErrorHandler != nil {
				w.options.ErrorHandler(err, filepath)
			}
			w.logger.Error("Config file watching error", "error", err, "file", filepath)
		},
	})

	if err := w.watcher.Watch(w.configPath, w.handleChange); err != nil {
		w.enabled.Store(false)
		return NewConfigWatcherError("failed to watch config file", err)
	}
	if err := w.watcher.Start(); err != nil {
		w.enabled.Store(false)
		return NewConfigWatcherError("failed to start config watcher", err)
	}

	w.logger.Info("Registry config watcher started",
		"path", w.configPath,
		"poll_interval", w.options.PollInterval)

	return nil
}

// Stop permanently stops the watcher. Safe to call multiple times; the
// watcher cannot be restarted afterwards.
func (w *RegistryConfigWatcher) Stop() error {
	var stopErr error

	w.stopOnce.Do(func() {
		w.mutex.Lock()
		defer w.mutex.Unlock()

		w.stopped.Store(true)
		w.enabled.Store(false)

		if w.watcher != nil {
			if err := w.watcher.Stop(); err != nil {
				stopErr = NewConfigWatcherError("failed to stop config watcher", err)
				return
			}
		}

		w.logger.Info("Registry config watcher stopped", "path", w.configPath)
	})

	return stopErr
}

// Reload forces an immediate reload of the configuration file, bypassing
// the poll interval. The current configuration is kept when the reload
// fails.
func (w *RegistryConfigWatcher) Reload() error {
	if !w.enabled.Load() {
		return NewConfigWatcherError("watcher is not running", nil)
	}

	config, err := LoadRegistryConfig(w.configPath)
	if err != nil {
		w.logger.Error("Config reload failed, keeping current configuration",
			"path", w.configPath,
			"error", err)
		return err
	}

	if err := w.registry.ApplyConfig(config); err != nil {
		return err
	}

	old := w.current.Swap(&config)
	w.logChanges(old, &config)
	return nil
}

// CurrentConfig returns the most recently applied configuration, or false
// if the watcher has not loaded one yet.
func (w *RegistryConfigWatcher) CurrentConfig() (RegistryConfig, bool) {
	config := w.current.Load()
	if config == nil {
		return RegistryConfig{}, false
	}
	return *config, true
}

// handleChange is the Argus callback for config file change events.
func (w *RegistryConfigWatcher) handleChange(event argus.ChangeEvent) {
	if !w.enabled.Load() {
		return
	}

	if event.IsDelete {
		w.logger.Warn("Config file was deleted, keeping current configuration",
			"path", event.Path)
		return
	}

	config, err := LoadRegistryConfig(event.Path)
	if err != nil {
		w.logger.Error("Config reload failed, keeping current configuration",
			"path", event.Path,
			"error", err)
		return
	}

	if err := w.registry.ApplyConfig(config); err != nil {
		w.logger.Error("Config apply failed, keeping current configuration",
			"path", event.Path,
			"error", err)
		return
	}

	old := w.current.Swap(&config)
	w.logChanges(old, &config)
}

func (w *RegistryConfigWatcher) logChanges(old, updated *RegistryConfig) {
	changes := make([]string, 0, 3)
	if old == nil {
		changes = append(changes, "initial_configuration")
	} else {
		if old.InitTimeout != updated.InitTimeout {
			changes = append(changes, "init_timeout")
		}
		if old.ShutdownTimeout != updated.ShutdownTimeout {
			changes = append(changes, "shutdown_timeout")
		}
		if old.AbortOnShutdownError != updated.AbortOnShutdownError {
			changes = append(changes, "abort_on_shutdown_error")
		}
	}

	w.logger.Info("Registry configuration reloaded",
		"path", w.configPath,
		"changes", changes)
}
