package usecase

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/splitcart/backend/internal/domain"
)

// ComparisonService merges pricing rows into a display-ready comparison
// table: stable store columns, per-store highlight flags, and a single
// best pick per product for the plan view.
type ComparisonService struct {
	logger zerolog.Logger
}

// NewComparisonService creates a new comparison service
func NewComparisonService(logger zerolog.Logger) *ComparisonService {
	return &ComparisonService{
		logger: logger.With().Str("service", "comparison").Logger(),
	}
}

// BuildTable produces one TableRow per input row, preserving the response's
// row order. The pricing collaborator may omit requested products; a shorter
// row list is not an error. Store columns are the deduplicated store names
// sorted ascending; the first-appearance order is carried alongside for the
// allocation tie-break.
func (s *ComparisonService) BuildTable(rows []domain.ComparisonRow) *domain.ComparisonTable {
	storeOrder := firstAppearanceOrder(rows)

	storeNames := make([]string, len(storeOrder))
	copy(storeNames, storeOrder)
	sort.Strings(storeNames)

	table := &domain.ComparisonTable{
		StoreNames: storeNames,
		StoreOrder: storeOrder,
		Rows:       make([]domain.TableRow, 0, len(rows)),
		BestPicks:  make([]domain.BestPick, 0, len(rows)),
	}

	for _, row := range rows {
		tableRow, pick := s.buildRow(row)
		table.Rows = append(table.Rows, tableRow)
		table.BestPicks = append(table.BestPicks, pick)
	}

	s.logger.Debug().
		Int("rows", len(table.Rows)).
		Int("stores", len(table.StoreNames)).
		Msg("built comparison table")

	return table
}

// buildRow computes highlight flags and the best pick for a single row.
// A store is flagged best iff its price equals the row minimum; all ties
// are flagged together. Worst is flagged only when the minimum and maximum
// differ, so a row where every available price is equal (or only one store
// has a price) carries no worst flag.
func (s *ComparisonService) buildRow(row domain.ComparisonRow) (domain.TableRow, domain.BestPick) {
	tableRow := domain.TableRow{
		Key:       row.Key,
		Name:      row.Name,
		Packaging: row.Packaging,
		Thumbnail: row.Thumbnail,
		Cells:     row.Stores,
		Flags:     make(map[string]domain.PriceFlags, len(row.Stores)),
	}
	pick := domain.BestPick{Key: row.Key, Stores: []string{}}

	var min, max float64
	found := false
	for _, store := range row.StoreOrder {
		value, ok := ParsePrice(row.Stores[store].Price)
		if !ok {
			continue
		}
		if !found {
			min, max = value, value
			found = true
			continue
		}
		if value < min {
			min = value
		}
		if value > max {
			max = value
		}
	}

	if !found {
		// No store has a parseable price: no flags, empty store list.
		return tableRow, pick
	}

	tableRow.HasPrice = true
	pick.HasPrice = true
	pick.Price = min

	for _, store := range row.StoreOrder {
		value, ok := ParsePrice(row.Stores[store].Price)
		if !ok {
			continue
		}
		flags := domain.PriceFlags{
			Best:  value == min,
			Worst: value == max && min != max,
		}
		tableRow.Flags[store] = flags
		if flags.Best {
			pick.Stores = append(pick.Stores, store)
		}
	}
	sort.Strings(pick.Stores)

	return tableRow, pick
}

// firstAppearanceOrder derives the explicit store iteration order: stores
// in the order they first appear across the response's rows.
func firstAppearanceOrder(rows []domain.ComparisonRow) []string {
	order := []string{}
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, store := range row.StoreOrder {
			if seen[store] {
				continue
			}
			seen[store] = true
			order = append(order, store)
		}
	}
	return order
}
