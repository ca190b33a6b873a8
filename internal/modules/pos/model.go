package pos

import (
	"time"

	"github.com/google/uuid"
)

// RefundType says whether refunded units go back into stock.
type RefundType string

const (
	RefundResellable RefundType = "resellable"
	RefundDefective  RefundType = "defective"
)

// Sale is one ledger line: a quantity of one product sold in one checkout.
// Lines are append-only; a refund only flips the refund fields.
type Sale struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	Barcode     string     `json:"barcode"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	Price       float64    `json:"price"`
	Total       float64    `json:"total"`
	ReceiptID   string     `json:"receipt_id"`
	Refunded    bool       `json:"refunded"`
	RefundType  RefundType `json:"refund_type,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CartItem is one scanned line of a checkout. Quantity defaults to 1.
type CartItem struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity,omitempty"`
}

// CheckoutRequest is the payload for a checkout call.
type CheckoutRequest struct {
	Items []CartItem `json:"items"`
}

// RefundRequest is the payload for refunding a receipt.
type RefundRequest struct {
	Resellable bool `json:"resellable"`
}
