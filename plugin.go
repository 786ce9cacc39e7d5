// plugin.go: core plugin contract and lifecycle states
//
// Copyright (c) 2026 AURIA Developers and Contributors
// SPDX-License-Identifier: MPL-2.0

package plugins

import (
	"context"
	"time"
)

// Plugin is the contract every extension of the runtime core must satisfy.
//
// A plugin exposes a stable identity (name and version) and two lifecycle
// operations. Both lifecycle operations block until the work completes and
// must honor ctx for cancellation and deadlines; the registry applies its
// configured per-plugin timeouts through ctx.
type Plugin interface {
	// Name returns the stable identifier of the plugin. The registry
	// requires names to be non-empty and unique.
	Name() string

	// Version returns the plugin version string. The format is not
	// interpreted by the registry.
	Version() string

	// Initialize performs plugin setup (opening connections, allocating
	// resources, registering backends). Called by the registry during
	// InitializeAll.
	Initialize(ctx context.Context) error

	// Shutdown releases plugin resources. Called by the registry during
	// ShutdownAll, only for plugins that initialized successfully.
	Shutdown(ctx context.Context) error
}

// PluginState represents the lifecycle state of a plugin inside the registry.
//
// State transitions driven by the registry:
//   - StateRegistered: Register succeeded, Initialize not yet attempted
//   - StateInitialized: Initialize completed successfully
//   - StateShutDown: Shutdown completed successfully
//   - StateFailed: the last Initialize or Shutdown attempt returned an error
//
// A failed plugin is retried on the next InitializeAll call; the registry
// never retries within a single call.
type PluginState int

const (
	StateRegistered PluginState = iota
	StateInitialized
	StateShutDown
	StateFailed
)

// String returns a human-readable representation of the plugin state.
func (s PluginState) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateInitialized:
		return "initialized"
	case StateShutDown:
		return "shutdown"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PluginInfo is a point-in-time snapshot of a registered plugin's identity,
// lifecycle state, and timing. Snapshots are copies; mutating one has no
// effect on the registry.
type PluginInfo struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	State   PluginState `json:"state"`

	RegisteredAt  time.Time `json:"registered_at"`
	InitializedAt time.Time `json:"initialized_at,omitempty"`
	ShutDownAt    time.Time `json:"shut_down_at,omitempty"`

	InitDuration     time.Duration `json:"init_duration,omitempty"`
	ShutdownDuration time.Duration `json:"shutdown_duration,omitempty"`

	// LastError holds the message of the most recent failed lifecycle
	// operation, empty if the plugin never failed.
	LastError string `json:"last_error,omitempty"`
}
