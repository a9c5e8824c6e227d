// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

// MemoryStore is an in-process Store. It backs sessions in tests and when
// no OS keychain is available, in which case state lasts for the process
// lifetime only.
type MemoryStore struct {
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the stored value, or an empty string when the key is absent.
func (m *MemoryStore) Get(key string) (string, error) {
	return m.values[key], nil
}

// Set stores value under key.
func (m *MemoryStore) Set(key, value string) error {
	m.values[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (m *MemoryStore) Delete(key string) error {
	delete(m.values, key)
	return nil
}
