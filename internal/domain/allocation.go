package domain

// Assignment is one product placed in a store's group together with the
// price it was chosen at.
type Assignment struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Packaging string  `json:"packaging,omitempty"`
	Price     float64 `json:"price"`
}

// AllocationGroup is one store's share of a split shopping list. A product
// key appears in at most one group per allocation run; products without a
// parseable price at any store appear in no group.
type AllocationGroup struct {
	Store string       `json:"store"`
	Items []Assignment `json:"items"`
	Total float64      `json:"total"`
}
