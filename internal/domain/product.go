package domain

import (
	"strings"
	"time"
)

// keySeparator joins name and packaging when a product has no canonical identifier.
const keySeparator = "::"

// Product represents one item on the user's shopping list
type Product struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Packaging string `json:"packaging,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ShoppingList holds a session's ordered product selection
type ShoppingList struct {
	ID        string    `json:"id"`
	Items     []Product `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductKey derives the normalized identity for a product.
// The canonical identifier wins when present; otherwise the key is built
// from display name and packaging format, case-insensitive.
func ProductKey(id, name, packaging string) string {
	if strings.TrimSpace(id) != "" {
		return strings.ToLower(strings.TrimSpace(id))
	}
	name = strings.ToLower(strings.TrimSpace(name))
	packaging = strings.ToLower(strings.TrimSpace(packaging))
	return name + keySeparator + packaging
}
