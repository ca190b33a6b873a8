package pos

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when a checkout arrives with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity is returned when a line asks for zero or fewer units.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrBarcodeRequired is returned when a line has no barcode.
	ErrBarcodeRequired = errors.New("barcode is required")
	// ErrAlreadyRefundedOrNotFound is returned when a receipt has no
	// unrefunded lines left.
	ErrAlreadyRefundedOrNotFound = errors.New("receipt not found or already refunded")
)

// ProductNotFoundError rejects a whole checkout because one scanned barcode
// does not exist.
type ProductNotFoundError struct {
	Barcode string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("no product with barcode %s", e.Barcode)
}
