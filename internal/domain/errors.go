package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrListNotFound is returned when a shopping list does not exist
	ErrListNotFound = errors.New("shopping list not found")

	// ErrItemNotFound is returned when a product key is not on the list
	ErrItemNotFound = errors.New("item not found on shopping list")

	// ErrPricingUnavailable is returned when the pricing API request fails
	ErrPricingUnavailable = errors.New("pricing API request failed")

	// ErrStaleRequest is returned when a pricing fetch was superseded by a
	// newer request for the same list before it completed
	ErrStaleRequest = errors.New("pricing request superseded by newer request")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
