package order

import "errors"

var (
	ErrEmptyCart          = errors.New("no items to checkout")
	ErrInvalidPayment     = errors.New("invalid payment method")
	ErrPickupTimeRequired = errors.New("pickup time is required for cash payment")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrTransport          = errors.New("purchase request failed")
)
