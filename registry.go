// registry.go: plugin registry and bulk lifecycle management
//
// The registry owns plugin instances once registered and drives their
// lifecycle transitions. Initialization is sequential in registration order
// and fail-fast; shutdown walks the plugins in reverse registration order
// and is best-effort by default, so every initialized plugin gets its
// teardown call even when an earlier one fails.
//
// Copyright (c) 2026 AURIA Developers and Contributors
// SPDX-License-Identifier: MPL-2.0

package plugins

import (
	"context"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

// pluginEntry tracks one registered plugin and its lifecycle record.
type pluginEntry struct {
	plugin Plugin
	name   string

	state            PluginState
	registeredAt     time.Time
	initializedAt    time.Time
	shutDownAt       time.Time
	initDuration     time.Duration
	shutdownDuration time.Duration
	lastErr          error
}

// Registry holds plugin instances and drives bulk lifecycle transitions.
//
// Plugins are kept in registration order. Names must be non-empty and
// unique within a registry. The registry is safe for concurrent use;
// lifecycle passes serialize with registration, so a Register call observed
// before InitializeAll starts is included in the pass and one issued during
// the pass waits for it to finish.
//
// Once ShutdownAll has been called the registry is closed: further
// Register, InitializeAll, and ShutdownAll calls are rejected.
type Registry struct {
	config RegistryConfig
	logger Logger

	mu      sync.RWMutex
	entries []*pluginEntry
	byName  map[string]*pluginEntry
	closed  bool
}

// RegistryStats provides aggregate counts over the registered plugins.
type RegistryStats struct {
	Total   int                 `json:"total"`
	ByState map[PluginState]int `json:"by_state"`
}

// NewRegistry creates an empty registry. Zero-valued config fields are
// replaced with defaults (30s init timeout, 10s shutdown timeout, no-op
// logger).
func NewRegistry(config RegistryConfig) *Registry {
	setRegistryConfigDefaults(&config)

	return &Registry{
		config: config,
		logger: config.Logger,
		byName: make(map[string]*pluginEntry),
	}
}

// Register appends a plugin to the registry, transferring ownership of the
// instance to it. The plugin's name must be non-empty and not already
// registered. Registration does not touch the plugin beyond reading its
// identity.
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil {
		return NewNilPluginError()
	}

	name := plugin.Name()
	if name == "" {
		return NewInvalidPluginNameError(name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return NewRegistryClosedError()
	}
	if _, exists := r.byName[name]; exists {
		return NewDuplicatePluginNameError(name)
	}

	entry := &pluginEntry{
		plugin:       plugin,
		name:         name,
		state:        StateRegistered,
		registeredAt: timecache.CachedTime(),
	}
	r.entries = append(r.entries, entry)
	r.byName[name] = entry

	r.logger.Debug("Plugin registered",
		"plugin", name,
		"version", plugin.Version(),
		"position", len(r.entries)-1)

	return nil
}

// InitializeAll initializes every registered plugin sequentially, in
// registration order, applying the configured per-plugin timeout. The pass
// is fail-fast: the first failure is returned and the remaining plugins are
// left untouched in StateRegistered.
//
// Plugins already in StateInitialized are skipped, so the call may be
// repeated after a partial failure to initialize the remainder. An empty
// registry initializes trivially.
func (r *Registry) InitializeAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return NewRegistryClosedError()
	}

	for _, entry := range r.entries {
		if entry.state == StateInitialized {
			continue
		}

		r.logger.Debug("Initializing plugin",
			"plugin", entry.name,
			"version", entry.plugin.Version())

		start := timecache.CachedTime()
		err := r.callWithTimeout(ctx, r.config.InitTimeout, entry.plugin.Initialize)
		entry.initDuration = time.Since(start)

		if err != nil {
			entry.state = StateFailed
			entry.lastErr = err
			r.logger.Error("Plugin initialization failed",
				"plugin", entry.name,
				"error", err,
				"duration", entry.initDuration)
			return NewPluginInitializeError(entry.name, err)
		}

		entry.state = StateInitialized
		entry.initializedAt = timecache.CachedTime()
		r.logger.Info("Plugin initialized",
			"plugin", entry.name,
			"version", entry.plugin.Version(),
			"duration", entry.initDuration)
	}

	return nil
}

// ShutdownAll shuts down every initialized plugin in reverse registration
// order, applying the configured per-plugin timeout, and closes the
// registry. Plugins that never initialized (or already shut down) are
// skipped.
//
// By default the pass is best-effort: a failing plugin is recorded and the
// walk continues, with all failures aggregated into the returned error.
// With AbortOnShutdownError set, the pass stops at the first failure.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return NewRegistryClosedError()
	}
	r.closed = true

	var (
		failed     []string
		firstCause error
		shutDown   int
	)

	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if entry.state != StateInitialized {
			continue
		}

		r.logger.Debug("Shutting down plugin", "plugin", entry.name)

		start := timecache.CachedTime()
		err := r.callWithTimeout(ctx, r.config.ShutdownTimeout, entry.plugin.Shutdown)
		entry.shutdownDuration = time.Since(start)

		if err != nil {
			entry.state = StateFailed
			entry.lastErr = err
			r.logger.Error("Plugin shutdown failed",
				"plugin", entry.name,
				"error", err,
				"duration", entry.shutdownDuration)

			if r.config.AbortOnShutdownError {
				return NewPluginShutdownError(entry.name, err)
			}
			failed = append(failed, entry.name)
			if firstCause == nil {
				firstCause = err
			}
			continue
		}

		entry.state = StateShutDown
		entry.shutDownAt = timecache.CachedTime()
		shutDown++
		r.logger.Info("Plugin shut down",
			"plugin", entry.name,
			"duration", entry.shutdownDuration)
	}

	if len(failed) > 0 {
		return NewShutdownAllError(failed, firstCause)
	}

	r.logger.Info("Registry shutdown complete", "plugins", shutDown)
	return nil
}

// callWithTimeout runs a lifecycle operation under the registry's per-plugin
// timeout. A zero timeout passes ctx through unchanged.
func (r *Registry) callWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	if timeout <= 0 {
		return op(ctx)
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return op(opCtx)
}

// Get returns the registered plugin with the given name.
func (r *Registry) Get(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byName[name]
	if !ok {
		return nil, NewPluginNotFoundError(name)
	}
	return entry.plugin, nil
}

// Info returns a lifecycle snapshot for the plugin with the given name.
func (r *Registry) Info(name string) (PluginInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byName[name]
	if !ok {
		return PluginInfo{}, NewPluginNotFoundError(name)
	}
	return entry.snapshot(), nil
}

// Infos returns lifecycle snapshots for all plugins in registration order.
func (r *Registry) Infos() []PluginInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]PluginInfo, 0, len(r.entries))
	for _, entry := range r.entries {
		infos = append(infos, entry.snapshot())
	}
	return infos
}

// Names returns the registered plugin names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.name)
	}
	return names
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Stats returns aggregate counts of plugins by lifecycle state.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		Total:   len(r.entries),
		ByState: make(map[PluginState]int),
	}
	for _, entry := range r.entries {
		stats.ByState[entry.state]++
	}
	return stats
}

// Config returns a snapshot of the registry's current configuration.
func (r *Registry) Config() RegistryConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// ApplyConfig applies the lifecycle tunables from config (timeouts and
// shutdown policy) to the registry. The logger and the plugin set are not
// affected. Used by RegistryConfigWatcher for hot reload; safe to call
// directly.
func (r *Registry) ApplyConfig(config RegistryConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.config.InitTimeout = config.InitTimeout
	r.config.ShutdownTimeout = config.ShutdownTimeout
	r.config.AbortOnShutdownError = config.AbortOnShutdownError

	r.logger.Debug("Registry configuration applied",
		"init_timeout", config.InitTimeout,
		"shutdown_timeout", config.ShutdownTimeout,
		"abort_on_shutdown_error", config.AbortOnShutdownError)

	return nil
}

func (e *pluginEntry) snapshot() PluginInfo {
	info := PluginInfo{
		Name:             e.name,
		Version:          e.plugin.Version(),
		State:            e.state,
		RegisteredAt:     e.registeredAt,
		InitializedAt:    e.initializedAt,
		ShutDownAt:       e.shutDownAt,
		InitDuration:     e.initDuration,
		ShutdownDuration: e.shutdownDuration,
	}
	if e.lastErr != nil {
		info.LastError = e.lastErr.Error()
	}
	return info
}
