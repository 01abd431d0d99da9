package order

import "context"

type PaymentMode string

const (
	PaymentOnline PaymentMode = "online"
	PaymentCash   PaymentMode = "cash"
)

func (p PaymentMode) IsValid() bool {
	switch p {
	case PaymentOnline, PaymentCash:
		return true
	default:
		return false
	}
}

// CheckoutRequest is one purchase call for one cart line. PickupTime is only
// meaningful for cash payments.
type CheckoutRequest struct {
	ItemID      string
	Quantity    int64
	PaymentMode PaymentMode
	PickupTime  string
}

type PurchaseResult struct {
	Success           bool
	Message           string
	RemainingQuantity int64
}

// Purchaser is the write side of the remote order service. An error means the
// call produced no result at all; a rejected purchase is a result with
// Success=false.
type Purchaser interface {
	Purchase(ctx context.Context, req CheckoutRequest) (*PurchaseResult, error)
}
