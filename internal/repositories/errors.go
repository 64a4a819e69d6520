package repositories

import "errors"

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSKU is returned when a create would violate the unique
	// SKU constraint.
	ErrDuplicateSKU = errors.New("sku already exists")
)
