package vartable

import (
	"context"
	"sync"
)

// Memory is an ordered in-process Table.
// It is safe for concurrent use so a single instance can be shared across documents.
type Memory struct {
	mu    sync.Mutex
	vars  []Variable
	index map[string]int
}

var _ Table = (*Memory)(nil)

// NewMemory returns an empty in-memory table.
func NewMemory() *Memory {
	return &Memory{index: make(map[string]int)}
}

// LoadOrStore implements Table.
func (m *Memory) LoadOrStore(_ context.Context, value, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[value]; ok {
		return m.vars[i].Name, true, nil
	}

	m.index[value] = len(m.vars)
	m.vars = append(m.vars, Variable{Value: value, Name: name})
	return name, false, nil
}

// Variables implements Table.
func (m *Memory) Variables(_ context.Context) ([]Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Variable, len(m.vars))
	copy(out, m.vars)
	return out, nil
}

// Len returns the number of stored variables.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vars)
}
