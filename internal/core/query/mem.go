package query

import (
	"net/url"
	"sync"
)

// MemStore is an in-memory Store that records every Set
type MemStore struct {
	mu   sync.Mutex
	vals url.Values
	sets []map[string]string
}

// NewMemStore seeds a store from initial, empty values are skipped
func NewMemStore(initial map[string]string) *MemStore {
	m := &MemStore{vals: url.Values{}}
	for k, v := range initial {
		if v != "" {
			m.vals.Set(k, v)
		}
	}
	return m
}

// Get implements Store
func (m *MemStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.vals.Get(key)
	return v, v != ""
}

// Set implements Store
func (m *MemStore) Set(partial map[string]string) {
	if len(partial) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := make(map[string]string, len(partial))
	for k, v := range partial {
		rec[k] = v
		if v == "" {
			m.vals.Del(k)
			continue
		}
		m.vals.Set(k, v)
	}
	m.sets = append(m.sets, rec)
}

// Encode returns the canonical query string
func (m *MemStore) Encode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vals.Encode()
}

// Sets returns the partial maps passed to Set, oldest first
func (m *MemStore) Sets() []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]string(nil), m.sets...)
}
