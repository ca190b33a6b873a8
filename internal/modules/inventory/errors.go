package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a product id or barcode does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateBarcode is returned when a barcode is already in use.
	ErrDuplicateBarcode = errors.New("barcode already in use")
	// ErrInvalidAmount is returned when a manual restock amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrValidation wraps missing or malformed product fields.
	ErrValidation = errors.New("invalid product")
)

// InsufficientStockError is returned when a conditional stock decrement
// would take stock below zero. It is distinct from ErrNotFound.
type InsufficientStockError struct {
	Barcode   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for barcode %s: available %d, requested %d",
		e.Barcode, e.Available, e.Requested)
}
