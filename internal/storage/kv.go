package storage

import (
	"fmt"
	"sync"
)

// KV is a flat string key-value store backed by the kv_items table.
// Keys are namespaced by owner so several players can share one database.
type KV struct {
	store *Store
	owner string
}

// KV returns the key-value namespace for the given owner.
func (s *Store) KV(owner string) *KV {
	return &KV{store: s, owner: owner}
}

// GetItem returns the stored value for key, or false if it is missing or unreadable.
func (k *KV) GetItem(key string) (string, bool) {
	var value string
	err := k.store.db.QueryRow(
		"SELECT value FROM kv_items WHERE owner = ? AND key = ?",
		k.owner, key,
	).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// SetItem stores value under key, replacing any previous value.
func (k *KV) SetItem(key, value string) error {
	_, err := k.store.db.Exec(
		`INSERT INTO kv_items (owner, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(owner, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		k.owner, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot set item %s: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-memory key-value store, used for throwaway sessions and tests.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

// GetItem returns the value for key.
func (m *MemoryKV) GetItem(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// SetItem stores value under key.
func (m *MemoryKV) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}
