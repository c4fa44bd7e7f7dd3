// ABOUTME: In-memory contract storage for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sync"

	"github.com/2389/multiadmin/internal/host"
)

// MemoryStore is an in-memory host.Storage and Store implementation for testing.
// As a Store it keeps one keyspace per contract; used directly as host.Storage
// it is a single keyspace.
type MemoryStore struct {
	mu        sync.RWMutex
	data      map[string][]byte               // keyed by string(key)
	contracts map[host.HumanAddr]*MemoryStore // per-contract keyspaces for Store use
	txMu      sync.Mutex
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:      make(map[string][]byte),
		contracts: make(map[host.HumanAddr]*MemoryStore),
	}
}

// Get retrieves a copy of the value stored under key.
func (m *MemoryStore) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[string(key)]
	if !ok {
		return nil, host.ErrKeyNotFound
	}

	// Return a copy
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value under key.
func (m *MemoryStore) Set(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Make a copy to avoid external modification
	v := make([]byte, len(value))
	copy(v, value)
	m.data[string(key)] = v
	return nil
}

// Len returns the number of keys stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Update implements Store. Writes are buffered and applied only when fn succeeds.
func (m *MemoryStore) Update(ctx context.Context, contract host.HumanAddr, fn func(host.Storage) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	base := m.contract(contract)
	overlay := &memoryTxn{base: base, writes: make(map[string][]byte)}
	if err := fn(overlay); err != nil {
		return err
	}

	for k, v := range overlay.writes {
		if err := base.Set([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

// View implements Store.
func (m *MemoryStore) View(ctx context.Context, contract host.HumanAddr, fn func(host.ReadonlyStorage) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(m.contract(contract))
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) contract(addr host.HumanAddr) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contracts[addr]
	if !ok {
		c = NewMemoryStore()
		m.contracts[addr] = c
	}
	return c
}

// memoryTxn buffers writes over a MemoryStore until the transaction commits.
type memoryTxn struct {
	base   *MemoryStore
	writes map[string][]byte
}

func (t *memoryTxn) Get(key []byte) ([]byte, error) {
	if v, ok := t.writes[string(key)]; ok {
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	}
	return t.base.Get(key)
}

func (t *memoryTxn) Set(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	t.writes[string(key)] = v
	return nil
}
