package order

import (
	"strings"
	"time"
)

type OutcomeKind int

const (
	AllSucceeded OutcomeKind = iota
	PartiallyFailed
	TransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case AllSucceeded:
		return "all_succeeded"
	case PartiallyFailed:
		return "partially_failed"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Outcome is the reduced result of one checkout, together with the follow-up
// actions the cart owner has to perform.
type Outcome struct {
	Kind           OutcomeKind
	CheckoutID     string
	PaymentMode    PaymentMode
	PickupTime     string
	FailureReasons []string
	Reason         string
	Results        []LineResult

	ClearCart      bool
	RefreshCatalog bool
	DismissAfter   time.Duration
}

type LineResult struct {
	Request CheckoutRequest
	Result  *PurchaseResult
	Err     error
}

func (o Outcome) Succeeded() bool {
	return o.Kind == AllSucceeded
}

func (o Outcome) Message() string {
	switch o.Kind {
	case AllSucceeded:
		if o.PaymentMode == PaymentCash {
			return "Order placed! Please bring cash when you pick up your order at " + o.PickupTime + "."
		}
		return "Purchase successful! Thank you for your order."
	case PartiallyFailed:
		return "Some items failed: " + strings.Join(o.FailureReasons, ", ")
	default:
		return "Error: " + o.Reason
	}
}
