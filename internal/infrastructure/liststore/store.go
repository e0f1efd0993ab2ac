package liststore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitcart/backend/internal/domain"
)

// Store is a session-scoped, in-memory implementation of
// domain.ListRepository. Every read returns a snapshot copy: the engine
// consumes immutable selections, never a live view of the map.
type Store struct {
	mu    sync.RWMutex
	lists map[string]*domain.ShoppingList
}

// New creates an empty list store
func New() *Store {
	return &Store{lists: make(map[string]*domain.ShoppingList)}
}

// Create starts a new empty shopping list with a generated id
func (s *Store) Create(ctx context.Context) (*domain.ShoppingList, error) {
	list := &domain.ShoppingList{
		ID:        uuid.NewString(),
		Items:     []domain.Product{},
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.lists[list.ID] = list
	s.mu.Unlock()

	return snapshot(list), nil
}

// Get returns a snapshot of the list
func (s *Store) Get(ctx context.Context, id string) (*domain.ShoppingList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.lists[id]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	return snapshot(list), nil
}

// AddItem appends a product to the list, keeping selection order. Adding a
// product whose key is already present replaces its display fields in
// place instead of duplicating the entry.
func (s *Store) AddItem(ctx context.Context, id string, item domain.Product) (*domain.ShoppingList, error) {
	if item.Key == "" && item.Name == "" {
		return nil, domain.ErrInvalidRequest
	}
	if item.Key == "" {
		item.Key = domain.ProductKey("", item.Name, item.Packaging)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[id]
	if !ok {
		return nil, domain.ErrListNotFound
	}

	replaced := false
	for i := range list.Items {
		if list.Items[i].Key == item.Key {
			list.Items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		list.Items = append(list.Items, item)
	}
	list.UpdatedAt = time.Now()

	return snapshot(list), nil
}

// RemoveItem deletes a product from the list by key
func (s *Store) RemoveItem(ctx context.Context, id, key string) (*domain.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[id]
	if !ok {
		return nil, domain.ErrListNotFound
	}

	for i := range list.Items {
		if list.Items[i].Key == key {
			list.Items = append(list.Items[:i], list.Items[i+1:]...)
			list.UpdatedAt = time.Now()
			return snapshot(list), nil
		}
	}

	return nil, domain.ErrItemNotFound
}

// Delete removes the whole list
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lists[id]; !ok {
		return domain.ErrListNotFound
	}
	delete(s.lists, id)
	return nil
}

// Size returns the number of lists held (for debugging/monitoring)
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists)
}

func snapshot(list *domain.ShoppingList) *domain.ShoppingList {
	items := make([]domain.Product, len(list.Items))
	copy(items, list.Items)
	return &domain.ShoppingList{
		ID:        list.ID,
		Items:     items,
		UpdatedAt: list.UpdatedAt,
	}
}
