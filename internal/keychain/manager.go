// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe access to the OS
// keychain/credential store. It is the durable key-value store behind the
// session (auth token, user id) and also keeps the linked database DSN.
//
// On macOS the native security command is preferred, with the keyring
// library as fallback; on Windows the Credential Manager is used. All
// operations are serialized through a process-wide manager.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "driftwatch"

// KeyDBDSN stores the linked database connection string. Session keys
// (auth_token, user_id) are owned by the session package.
const KeyDBDSN = "db_dsn"

var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides thread-safe string key-value operations on the OS
// keychain. It satisfies the session.Store contract: Get returns an empty
// string for absent keys, Delete of an absent key is not an error.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend secretBackend
}

// secretBackend is the low-level interface a platform backend implements.
type secretBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// NewManager creates a manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Native security backend first on macOS, keyring library otherwise.
	if runtime.GOOS == "darwin" {
		if backend, err := newSecurityBackend(); err == nil {
			return &Manager{backend: backend}, nil
		}
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// GetManager returns the process-wide manager, creating it on first call.
// A failed initialization is retried on the next call.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		return nil, errors.New("secure storage not supported on this OS (macOS/Windows only)")
	}

	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// macOS Keychain first, then pass (requires: brew install pass).
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' as fallback: brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

// Set stores value under key.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

// Get retrieves the value for key, empty string when absent.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		value, err := m.backend.Get(key)
		if err != nil {
			if errors.Is(err, errKeyNotFound) {
				return "", nil
			}
			return "", err
		}
		return value, nil
	}

	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(it.Data), nil
}

// Delete removes key. Absent keys are ignored.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		if err := m.backend.Delete(key); err != nil && !errors.Is(err, errKeyNotFound) {
			return err
		}
		return nil
	}

	if err := m.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
