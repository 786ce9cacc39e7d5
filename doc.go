// Package plugins provides the plugin system for extending the AURIA
// Runtime Core. It defines the lifecycle contract every extension must
// satisfy and a registry that owns plugin instances and drives their
// bulk lifecycle transitions.
//
// Key Features:
//   - Minimal plugin contract: identity (name, version) plus
//     context-aware Initialize and Shutdown operations
//   - Ordered registry with unique-name enforcement and lookup
//   - Sequential, fail-fast bulk initialization in registration order
//   - Best-effort bulk shutdown in reverse registration order
//   - Per-plugin lifecycle state, timing, and structured coded errors
//   - Hot-reloadable lifecycle tunables via Argus file watching
//
// Basic Usage:
//
//	registry := plugins.NewRegistry(plugins.RegistryConfig{})
//
//	if err := registry.Register(myPlugin); err != nil {
//		log.Fatal(err)
//	}
//
//	if err := registry.InitializeAll(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer registry.ShutdownAll(context.Background())
//
// Copyright (c) 2026 AURIA Developers and Contributors
// SPDX-License-Identifier: MPL-2.0
package plugins
