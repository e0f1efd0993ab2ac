package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/splitcart/backend/internal/domain"
)

// The pricing API is the only untrusted input surface. Payloads are
// validated and coerced here so the engine never sees null or missing
// fields: rows without an identity are dropped, blank store names are
// dropped, duplicate store keys keep the first cell.

// rowPayload mirrors one entry of the pricing response. Prices stays raw
// so the store key order of the JSON object can be preserved.
type rowPayload struct {
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	Packaging string          `json:"packaging"`
	Image     string          `json:"image"`
	Prices    json.RawMessage `json:"prices"`
}

type cellPayload struct {
	Price      string     `json:"price"`
	UnitPrice  string     `json:"unitPrice"`
	Source     string     `json:"source"`
	ObservedAt *time.Time `json:"observedAt"`
}

type responsePayload struct {
	Items []rowPayload `json:"items"`
}

// ParseResponse decodes a pricing API payload into comparison rows,
// preserving the response's row order.
func ParseResponse(body []byte) ([]domain.ComparisonRow, error) {
	var payload responsePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid pricing payload: %w", err)
	}

	rows := make([]domain.ComparisonRow, 0, len(payload.Items))
	seen := make(map[string]bool)
	for _, item := range payload.Items {
		row, ok := mapRow(item)
		if !ok {
			continue
		}
		// The API promises unique identities; enforce it anyway.
		if seen[row.Key] {
			continue
		}
		seen[row.Key] = true
		rows = append(rows, row)
	}

	return rows, nil
}

// mapRow coerces one payload entry into a ComparisonRow. Entries with no
// derivable identity are rejected.
func mapRow(item rowPayload) (domain.ComparisonRow, bool) {
	if strings.TrimSpace(item.Key) == "" && strings.TrimSpace(item.Name) == "" {
		return domain.ComparisonRow{}, false
	}

	stores, order, err := decodeStoreCells(item.Prices)
	if err != nil {
		return domain.ComparisonRow{}, false
	}

	return domain.ComparisonRow{
		Key:        domain.ProductKey(item.Key, item.Name, item.Packaging),
		Name:       item.Name,
		Packaging:  item.Packaging,
		Thumbnail:  item.Image,
		Stores:     stores,
		StoreOrder: order,
	}, true
}

// decodeStoreCells walks the prices object token by token so the document
// order of store keys is captured. Go's map decoding would lose it, and
// the cheapest-store tie-break depends on it.
func decodeStoreCells(raw json.RawMessage) (map[string]domain.StorePriceCell, []string, error) {
	stores := make(map[string]domain.StorePriceCell)
	order := []string{}

	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return stores, order, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("prices must be an object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		store, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v in prices object", keyTok)
		}

		var cell cellPayload
		if err := dec.Decode(&cell); err != nil {
			return nil, nil, err
		}

		store = strings.TrimSpace(store)
		if store == "" {
			continue
		}
		if _, dup := stores[store]; dup {
			continue
		}

		stores[store] = domain.StorePriceCell{
			Price:      cell.Price,
			UnitPrice:  cell.UnitPrice,
			Source:     cell.Source,
			ObservedAt: cell.ObservedAt,
		}
		order = append(order, store)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	return stores, order, nil
}
