// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"sync"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Memory keeps papers in a map. Contents are lost when the process exits.
type Memory struct {
	mu     sync.RWMutex
	papers map[string]types.Paper
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{papers: make(map[string]types.Paper)}
}

func (m *Memory) Get(_ context.Context, id string) (types.Paper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.papers[id]
	if !ok {
		return types.Paper{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) List(_ context.Context) ([]types.Paper, error) {
	m.mu.RLock()
	papers := make([]types.Paper, 0, len(m.papers))
	for _, p := range m.papers {
		papers = append(papers, p)
	}
	m.mu.RUnlock()

	sortNewest(papers)
	return papers, nil
}

func (m *Memory) Create(_ context.Context, p types.Paper) (types.Paper, error) {
	p = prepare(p)
	m.mu.Lock()
	m.papers[p.ID] = p
	m.mu.Unlock()
	return p, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.papers[id]; !ok {
		return ErrNotFound
	}
	delete(m.papers, id)
	return nil
}

func (m *Memory) Close() error { return nil }
