package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/splitcart/backend/internal/domain"
)

// fakeDispatcher implements domain.PricingDispatcher for tests
type fakeDispatcher struct {
	rows    []domain.ComparisonRow
	err     error
	fetches int
}

func (f *fakeDispatcher) Fetch(ctx context.Context, listKey string, keys []string) ([]domain.ComparisonRow, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

// fakeCache implements domain.CacheRepository over a plain map
type fakeCache struct {
	data map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]interface{})}
}

func (f *fakeCache) Get(ctx context.Context, key string) (interface{}, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func newCompareService(dispatcher domain.PricingDispatcher, cache domain.CacheRepository) *CompareService {
	return NewCompareService(cache, dispatcher, CompareServiceConfig{CacheTTL: time.Minute}, zerolog.Nop())
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for empty key list", func(t *testing.T) {
		svc := newCompareService(&fakeDispatcher{}, newFakeCache())
		_, err := svc.Compare(ctx, "list-1", nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("returns error for empty list key", func(t *testing.T) {
		svc := newCompareService(&fakeDispatcher{}, newFakeCache())
		_, err := svc.Compare(ctx, "", []string{"milk::1l"})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("builds table and both splits from fetched rows", func(t *testing.T) {
		dispatcher := &fakeDispatcher{rows: []domain.ComparisonRow{
			makeRow("p1", "A", "5.00", "B", "3.00"),
			makeRow("p2", "B", "2.00"),
		}}
		svc := newCompareService(dispatcher, newFakeCache())

		result, err := svc.Compare(ctx, "list-1", []string{"p1", "p2"})
		if err != nil {
			t.Fatalf("Compare() error = %v", err)
		}
		if result.Source != "Pricing" {
			t.Errorf("Source = %s, want Pricing", result.Source)
		}
		if len(result.Table.Rows) != 2 {
			t.Errorf("table rows = %d, want 2", len(result.Table.Rows))
		}
		// Everything is cheapest and most available at B.
		if len(result.CheapestSplit) != 1 || result.CheapestSplit[0].Store != "B" {
			t.Errorf("CheapestSplit = %+v, want single B group", result.CheapestSplit)
		}
		if len(result.CoverageSplit) != 1 || result.CoverageSplit[0].Store != "B" {
			t.Errorf("CoverageSplit = %+v, want single B group", result.CoverageSplit)
		}
		if result.Fingerprint == "" {
			t.Error("Fingerprint is empty")
		}
	})

	t.Run("second identical request is served from cache", func(t *testing.T) {
		dispatcher := &fakeDispatcher{rows: []domain.ComparisonRow{
			makeRow("p1", "A", "1.00"),
		}}
		svc := newCompareService(dispatcher, newFakeCache())

		first, err := svc.Compare(ctx, "list-1", []string{"p1"})
		if err != nil {
			t.Fatalf("first Compare() error = %v", err)
		}

		second, err := svc.Compare(ctx, "list-1", []string{"p1"})
		if err != nil {
			t.Fatalf("second Compare() error = %v", err)
		}
		if second.Source != "Cache" {
			t.Errorf("Source = %s, want Cache", second.Source)
		}
		if dispatcher.fetches != 1 {
			t.Errorf("fetches = %d, want 1", dispatcher.fetches)
		}
		if second.Fingerprint != first.Fingerprint {
			t.Errorf("fingerprints differ: %s vs %s", first.Fingerprint, second.Fingerprint)
		}
	})

	t.Run("reordered selection hits the same cache entry", func(t *testing.T) {
		dispatcher := &fakeDispatcher{rows: []domain.ComparisonRow{
			makeRow("p1", "A", "1.00"),
			makeRow("p2", "A", "2.00"),
		}}
		svc := newCompareService(dispatcher, newFakeCache())

		if _, err := svc.Compare(ctx, "list-1", []string{"p1", "p2"}); err != nil {
			t.Fatalf("Compare() error = %v", err)
		}
		result, err := svc.Compare(ctx, "list-1", []string{"p2", "p1"})
		if err != nil {
			t.Fatalf("Compare() error = %v", err)
		}
		if result.Source != "Cache" {
			t.Errorf("Source = %s, want Cache", result.Source)
		}
	})

	t.Run("cache hits never mutate previously returned results", func(t *testing.T) {
		dispatcher := &fakeDispatcher{rows: []domain.ComparisonRow{
			makeRow("p1", "A", "1.00"),
		}}
		svc := newCompareService(dispatcher, newFakeCache())

		first, err := svc.Compare(ctx, "list-1", []string{"p1"})
		if err != nil {
			t.Fatalf("first Compare() error = %v", err)
		}

		// Concurrent hits on the same fingerprint must each get their own
		// result instead of writing to the shared cached entry.
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := svc.Compare(ctx, "list-1", []string{"p1"})
				if err != nil {
					t.Errorf("concurrent Compare() error = %v", err)
					return
				}
				if result.Source != "Cache" {
					t.Errorf("Source = %s, want Cache", result.Source)
				}
			}()
		}
		wg.Wait()

		if first.Source != "Pricing" {
			t.Errorf("first result mutated after cache hits: Source = %q, want Pricing", first.Source)
		}
	})

	t.Run("wraps transport failures as pricing unavailable", func(t *testing.T) {
		dispatcher := &fakeDispatcher{err: errors.New("connection refused")}
		svc := newCompareService(dispatcher, newFakeCache())

		_, err := svc.Compare(ctx, "list-1", []string{"p1"})
		if !errors.Is(err, domain.ErrPricingUnavailable) {
			t.Errorf("error = %v, want ErrPricingUnavailable", err)
		}
	})

	t.Run("stale requests pass through unwrapped", func(t *testing.T) {
		dispatcher := &fakeDispatcher{err: domain.ErrStaleRequest}
		svc := newCompareService(dispatcher, newFakeCache())

		_, err := svc.Compare(ctx, "list-1", []string{"p1"})
		if !errors.Is(err, domain.ErrStaleRequest) {
			t.Errorf("error = %v, want ErrStaleRequest", err)
		}
		if errors.Is(err, domain.ErrPricingUnavailable) {
			t.Error("stale request was wrapped as pricing unavailable")
		}
	})

	t.Run("missing rows for requested keys are not an error", func(t *testing.T) {
		dispatcher := &fakeDispatcher{rows: []domain.ComparisonRow{
			makeRow("p1", "A", "1.00"),
		}}
		svc := newCompareService(dispatcher, newFakeCache())

		result, err := svc.Compare(ctx, "list-1", []string{"p1", "p2", "p3"})
		if err != nil {
			t.Fatalf("Compare() error = %v", err)
		}
		if len(result.Table.Rows) != 1 {
			t.Errorf("table rows = %d, want 1 (fewer rows than requested is silent)", len(result.Table.Rows))
		}
	})
}
