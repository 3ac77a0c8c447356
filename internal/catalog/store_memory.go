package catalog

import (
	"context"
	"sync"
)

// MemStore keeps products in insertion order with an id index.
type MemStore struct {
	mu    sync.RWMutex
	items []Product
	byID  map[int64]int
}

func NewMemStore() *MemStore {
	s := &MemStore{byID: map[int64]int{}}
	for _, p := range seedProducts() {
		s.byID[p.ID] = len(s.items)
		s.items = append(s.items, p)
	}
	return s
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Product{}, false, nil
	}
	return s.items[i], true, nil
}

func (s *MemStore) Create(ctx context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// count+1 is unique only because products are never deleted.
	p.ID = int64(len(s.items)) + 1
	s.byID[p.ID] = len(s.items)
	s.items = append(s.items, p)
	return p, nil
}

func (s *MemStore) UpdateStock(ctx context.Context, id, stock int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	s.items[i].Stock = stock
	return s.items[i], nil
}
