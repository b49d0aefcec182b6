package orders

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is a non-persistent in-memory repo for dev and demos.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Order
}

func NewMemoryRepository(seed ...*Order) *MemoryRepository {
	m := &MemoryRepository{items: make(map[string]*Order, len(seed))}
	for _, o := range seed {
		m.items[o.ID] = o
	}
	return m
}

func (m *MemoryRepository) Init() error { return nil }

func (m *MemoryRepository) List(ctx context.Context) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Order, 0, len(m.items))
	for _, o := range m.items {
		cp := *o
		list = append(list, &cp)
	}
	// newest first
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MemoryRepository) Create(ctx context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.items[o.ID] = &cp
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[o.ID]; !ok {
		return ErrNotFound
	}
	cp := *o
	m.items[o.ID] = &cp
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}
