package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/abhisek/algoquest/internal/steps"
)

// Memory is an in-process LRU cache holding at most size histories.
type Memory struct {
	mu    sync.Mutex
	size  int
	order *list.List // front is most recent; values are *entry
	items map[string]*list.Element
}

type entry struct {
	key string
	h   *steps.History
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a Memory cache. size below 1 is treated as 1.
func NewMemory(size int) *Memory {
	if size < 1 {
		size = 1
	}
	return &Memory{size: size, order: list.New(), items: make(map[string]*list.Element)}
}

func (m *Memory) Get(_ context.Context, key string) (*steps.History, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	m.order.MoveToFront(el)
	return el.Value.(*entry).h, true, nil
}

func (m *Memory) Set(_ context.Context, key string, h *steps.History) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		el.Value.(*entry).h = h
		m.order.MoveToFront(el)
		return nil
	}
	m.items[key] = m.order.PushFront(&entry{key: key, h: h})
	for m.order.Len() > m.size {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.items, oldest.Value.(*entry).key)
	}
	return nil
}

// Len returns the number of cached histories.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
