package catalog

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned for unknown product IDs.
var ErrNotFound = errors.New("product not found")

// Store is a non-persistent in-memory product store.
type Store struct {
	mu    sync.RWMutex
	items map[string]Product
}

func NewStore(seed ...Product) *Store {
	s := &Store{items: make(map[string]Product, len(seed))}
	for _, p := range seed {
		s.items[p.ID] = p
	}
	return s
}

// List returns all products ordered by ID.
func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Get(id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (s *Store) Create(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = p
}

func (s *Store) Update(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		return ErrNotFound
	}
	s.items[p.ID] = p
	return nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}
