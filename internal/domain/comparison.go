package domain

import "time"

// StorePriceCell is one store's quote for one product as received from the
// pricing API. The raw price text is the authoritative display value; the
// engine only derives numeric values from it, never rewrites it.
type StorePriceCell struct {
	Price      string     `json:"price"`
	UnitPrice  string     `json:"unitPrice,omitempty"`
	Source     string     `json:"source,omitempty"`
	ObservedAt *time.Time `json:"observedAt,omitempty"`
}

// ComparisonRow is one product's prices across all known stores.
// StoreOrder records the order store keys appeared in the pricing payload.
// Tie-breaks in the cheapest-store split depend on it, so it is carried
// explicitly instead of relying on map iteration.
type ComparisonRow struct {
	Key        string                    `json:"key"`
	Name       string                    `json:"name"`
	Packaging  string                    `json:"packaging,omitempty"`
	Thumbnail  string                    `json:"thumbnail,omitempty"`
	Stores     map[string]StorePriceCell `json:"stores"`
	StoreOrder []string                  `json:"storeOrder"`
}

// PriceFlags marks a store's cell for highlighting within a row
type PriceFlags struct {
	Best  bool `json:"best"`
	Worst bool `json:"worst"`
}

// TableRow is a display-ready comparison row: the product, its cells, and
// per-store highlight flags. HasPrice is false when no store quoted a
// parseable price.
type TableRow struct {
	Key       string                    `json:"key"`
	Name      string                    `json:"name"`
	Packaging string                    `json:"packaging,omitempty"`
	Thumbnail string                    `json:"thumbnail,omitempty"`
	Cells     map[string]StorePriceCell `json:"cells"`
	Flags     map[string]PriceFlags     `json:"flags"`
	HasPrice  bool                      `json:"hasPrice"`
}

// BestPick is the plan view's single best price per product: the minimum
// numeric value and every store tied at it, sorted by store name.
type BestPick struct {
	Key      string   `json:"key"`
	HasPrice bool     `json:"hasPrice"`
	Price    float64  `json:"price"`
	Stores   []string `json:"stores"`
}

// ComparisonTable is the merged view over one pricing response.
// StoreNames is the deduplicated store set sorted ascending (column order);
// StoreOrder is the first-appearance order across all rows.
type ComparisonTable struct {
	StoreNames []string   `json:"storeNames"`
	StoreOrder []string   `json:"storeOrder"`
	Rows       []TableRow `json:"rows"`
	BestPicks  []BestPick `json:"bestPicks"`
}

// ComparisonResult bundles everything the display layer needs for one
// compare request: the table plus both allocation splits.
type ComparisonResult struct {
	Table         *ComparisonTable  `json:"table"`
	CheapestSplit []AllocationGroup `json:"cheapestSplit"`
	CoverageSplit []AllocationGroup `json:"coverageSplit"`
	Fingerprint   string            `json:"fingerprint"`
	Source        string            `json:"source"` // "Pricing" or "Cache"
	CachedAt      time.Time         `json:"cachedAt,omitempty"`
}
