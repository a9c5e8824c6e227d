// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import "sync"

var (
	// Process-wide manifest cache; cleared when the CLI exits.
	globalCache     *Manifest
	globalCacheLock sync.RWMutex
)

// GetCached returns the cached manifest, or nil when nothing is cached.
func GetCached() *Manifest {
	globalCacheLock.RLock()
	defer globalCacheLock.RUnlock()
	return globalCache
}

// SetCached stores the manifest for the rest of the process.
func SetCached(m *Manifest) {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = m
}

// ClearCache removes the cached manifest (primarily for testing).
func ClearCache() {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = nil
}
