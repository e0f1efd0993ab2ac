package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PricingClient defines the interface for the store-pricing API
type PricingClient interface {
	FetchPrices(ctx context.Context, keys []string) ([]ComparisonRow, error)
}

// PricingDispatcher fetches prices with last-request-wins semantics per
// list: issuing a new fetch for a list cancels the previous in-flight one,
// and a superseded fetch never delivers rows.
type PricingDispatcher interface {
	Fetch(ctx context.Context, listKey string, keys []string) ([]ComparisonRow, error)
}

// ListRepository defines the interface for session shopping-list storage.
// Reads return snapshots; callers never observe concurrent mutation.
type ListRepository interface {
	Create(ctx context.Context) (*ShoppingList, error)
	Get(ctx context.Context, id string) (*ShoppingList, error)
	AddItem(ctx context.Context, id string, item Product) (*ShoppingList, error)
	RemoveItem(ctx context.Context, id, key string) (*ShoppingList, error)
	Delete(ctx context.Context, id string) error
}
