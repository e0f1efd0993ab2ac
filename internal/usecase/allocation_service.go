package usecase

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/splitcart/backend/internal/domain"
)

// AllocationService partitions a product list across stores under two
// competing policies: cheapest-store (minimize per-product cost) and
// availability-ranked (minimize the number of stores to visit). The two
// policies share nothing; each run is a pure function of the input rows.
type AllocationService struct {
	logger zerolog.Logger
}

// NewAllocationService creates a new allocation service
func NewAllocationService(logger zerolog.Logger) *AllocationService {
	return &AllocationService{
		logger: logger.With().Str("service", "allocation").Logger(),
	}
}

// CheapestStoreSplit assigns every product to the store with the strictly
// lowest parseable price. Exact ties resolve to the store that appears
// first in the row's store order, not alphabetically. Products with no
// parseable price anywhere are left out. Groups come back sorted by store
// name ascending; within a group, input row order is preserved.
func (s *AllocationService) CheapestStoreSplit(rows []domain.ComparisonRow) []domain.AllocationGroup {
	groups := make(map[string]*domain.AllocationGroup)
	for _, row := range rows {
		winner := ""
		var winning float64
		for _, store := range row.StoreOrder {
			value, ok := ParsePrice(row.Stores[store].Price)
			if !ok {
				continue
			}
			if winner == "" || value < winning {
				winner = store
				winning = value
			}
		}
		if winner == "" {
			continue
		}
		group, ok := groups[winner]
		if !ok {
			group = &domain.AllocationGroup{Store: winner}
			groups[winner] = group
		}
		group.Items = append(group.Items, domain.Assignment{
			Key:       row.Key,
			Name:      row.Name,
			Packaging: row.Packaging,
			Price:     winning,
		})
		group.Total += winning
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.AllocationGroup, 0, len(names))
	for _, name := range names {
		out = append(out, *groups[name])
	}

	s.logger.Debug().
		Int("products", len(rows)).
		Int("groups", len(out)).
		Msg("computed cheapest-store split")

	return out
}

// AvailabilityRankedSplit ranks stores by how many products they price
// (descending, ties by store name ascending) and assigns each product, in
// input order, to the first ranked store that prices it. Groups come back
// in ranked order; stores that received no assignment are omitted.
func (s *AllocationService) AvailabilityRankedSplit(rows []domain.ComparisonRow) []domain.AllocationGroup {
	ranked := rankStoresByCoverage(rows)

	groups := make(map[string]*domain.AllocationGroup)
	for _, row := range rows {
		for _, store := range ranked {
			cell, ok := row.Stores[store]
			if !ok {
				continue
			}
			value, ok := ParsePrice(cell.Price)
			if !ok {
				continue
			}
			group, exists := groups[store]
			if !exists {
				group = &domain.AllocationGroup{Store: store}
				groups[store] = group
			}
			group.Items = append(group.Items, domain.Assignment{
				Key:       row.Key,
				Name:      row.Name,
				Packaging: row.Packaging,
				Price:     value,
			})
			group.Total += value
			break
		}
	}

	out := make([]domain.AllocationGroup, 0, len(groups))
	for _, store := range ranked {
		if group, ok := groups[store]; ok {
			out = append(out, *group)
		}
	}

	s.logger.Debug().
		Int("products", len(rows)).
		Int("groups", len(out)).
		Msg("computed availability-ranked split")

	return out
}

// rankStoresByCoverage orders the global store set by the number of rows
// each store has a parseable price for, descending; ties break by store
// name ascending. The result is a total order over stores.
func rankStoresByCoverage(rows []domain.ComparisonRow) []string {
	counts := make(map[string]int)
	stores := []string{}
	for _, row := range rows {
		for _, store := range row.StoreOrder {
			if _, seen := counts[store]; !seen {
				counts[store] = 0
				stores = append(stores, store)
			}
			if _, ok := ParsePrice(row.Stores[store].Price); ok {
				counts[store]++
			}
		}
	}

	sort.Slice(stores, func(i, j int) bool {
		if counts[stores[i]] != counts[stores[j]] {
			return counts[stores[i]] > counts[stores[j]]
		}
		return stores[i] < stores[j]
	})

	return stores
}
