package pos

import "context"

// Repository defines sale ledger storage. Checkout and Refund each run
// inside a single database transaction; no partial result is ever visible.
type Repository interface {
	// Checkout decrements stock and appends one ledger line per cart item,
	// all under receiptID. Items must already be validated.
	Checkout(ctx context.Context, receiptID string, items []CartItem) error
	// Refund flags every unrefunded line of the receipt and, when restock
	// is set, returns the sold units to stock. It reports how many lines
	// were refunded.
	Refund(ctx context.Context, receiptID string, refundType RefundType, restock bool) (int, error)
	ListSales(ctx context.Context) ([]*Sale, error)
}
