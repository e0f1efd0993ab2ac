package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/splitcart/backend/internal/domain"
)

// CompareServiceConfig holds configuration for the compare service
type CompareServiceConfig struct {
	CacheTTL time.Duration
}

// CompareService orchestrates one compare request: fingerprint the
// selection, consult the cache, fetch fresh pricing through the
// last-request-wins dispatcher, then run the engine over the rows.
type CompareService struct {
	cache      domain.CacheRepository
	pricing    domain.PricingDispatcher
	comparison *ComparisonService
	allocation *AllocationService
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewCompareService creates a new compare service with dependencies
func NewCompareService(
	cache domain.CacheRepository,
	pricing domain.PricingDispatcher,
	config CompareServiceConfig,
	logger zerolog.Logger,
) *CompareService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &CompareService{
		cache:      cache,
		pricing:    pricing,
		comparison: NewComparisonService(logger),
		allocation: NewAllocationService(logger),
		cacheTTL:   cacheTTL,
		logger:     logger.With().Str("service", "compare").Logger(),
	}
}

// Compare resolves prices for the given product keys and returns the
// comparison table, best picks, and both allocation splits.
// Flow: fingerprint -> check cache -> fetch pricing -> run engine -> cache.
// listKey scopes the last-request-wins ordering; concurrent compares for
// different lists never cancel each other.
func (s *CompareService) Compare(ctx context.Context, listKey string, keys []string) (*domain.ComparisonResult, error) {
	if len(keys) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if listKey == "" {
		return nil, domain.ErrInvalidRequest
	}

	fingerprint := SnapshotFingerprint(keys)
	cacheKey := "compare:" + fingerprint

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = "Cache"
		s.logger.Debug().Str("fingerprint", fingerprint).Msg("compare served from cache")
		return cached, nil
	}

	rows, err := s.pricing.Fetch(ctx, listKey, keys)
	if err != nil {
		if errors.Is(err, domain.ErrStaleRequest) {
			// Superseded by a newer compare for the same list; the newer
			// request will deliver the data.
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPricingUnavailable, err)
	}

	result := s.buildResult(rows, fingerprint)

	if err := s.setInCache(ctx, cacheKey, result); err != nil {
		s.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("failed to cache compare result")
	}

	s.logger.Info().
		Str("fingerprint", fingerprint).
		Int("requested", len(keys)).
		Int("rows", len(rows)).
		Msg("compare computed")

	return result, nil
}

// buildResult runs the pure engine over a fully-resolved row set. The two
// splits are computed independently from the same rows; neither feeds the
// other's ranking or tie-breaks.
func (s *CompareService) buildResult(rows []domain.ComparisonRow, fingerprint string) *domain.ComparisonResult {
	return &domain.ComparisonResult{
		Table:         s.comparison.BuildTable(rows),
		CheapestSplit: s.allocation.CheapestStoreSplit(rows),
		CoverageSplit: s.allocation.AvailabilityRankedSplit(rows),
		Fingerprint:   fingerprint,
		Source:        "Pricing",
	}
}

func (s *CompareService) getFromCache(ctx context.Context, key string) (*domain.ComparisonResult, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	result, ok := value.(*domain.ComparisonResult)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	// Hand back a copy: the caller flips Source on it, and the stored
	// entry must stay untouched for concurrent hits.
	out := *result
	return &out, nil
}

func (s *CompareService) setInCache(ctx context.Context, key string, result *domain.ComparisonResult) error {
	// Cache a copy so results already returned to callers are never
	// written to again.
	entry := *result
	entry.CachedAt = time.Now()
	return s.cache.Set(ctx, key, &entry, s.cacheTTL)
}
