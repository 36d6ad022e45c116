package rowstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and local runs. It mirrors the
// real backing store's semantics deliberately: rows keep insertion order,
// lookups scan, and nothing enforces key uniqueness. Each individual call is
// guarded by the mutex, matching the row-level atomicity the real store
// offers; sequences of calls are just as racy as over the network.
type Memory struct {
	mu        sync.RWMutex
	keyColumn string
	rows      []Row
}

// NewMemory builds an empty in-memory store keyed on the given column.
func NewMemory(keyColumn string) *Memory {
	return &Memory{keyColumn: keyColumn}
}

func (m *Memory) ListRows(_ context.Context) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Row, len(m.rows))
	for i, row := range m.rows {
		out[i] = cloneRow(row)
	}
	return out, nil
}

func (m *Memory) FindRow(_ context.Context, key string) (Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.rows {
		if row[m.keyColumn] == key {
			return cloneRow(row), nil
		}
	}
	return nil, ErrRowNotFound
}

func (m *Memory) AppendRow(_ context.Context, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, cloneRow(row))
	return nil
}

func (m *Memory) ReplaceRow(_ context.Context, key string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.rows {
		if existing[m.keyColumn] == key {
			m.rows[i] = cloneRow(row)
			return nil
		}
	}
	return ErrRowNotFound
}

func (m *Memory) DeleteRow(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.rows {
		if existing[m.keyColumn] == key {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return ErrRowNotFound
}

func (m *Memory) ListKeyColumn(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, len(m.rows))
	for i, row := range m.rows {
		keys[i] = row[m.keyColumn]
	}
	return keys, nil
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
