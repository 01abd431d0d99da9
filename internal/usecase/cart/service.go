package cart

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
)

// Service is the single owner of the session cart. Views send commands to it
// and read snapshots; nothing else mutates the aggregate.
type Service struct {
	cart   *domcart.Cart
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cart:   domcart.New(),
		logger: logger,
	}
}

func (s *Service) Dispatch(cmd domcart.Command) {
	s.cart.Apply(cmd)
	s.logger.Debug("cart command applied",
		zap.String("command", commandName(cmd)),
		zap.Int("lines", s.cart.Len()),
		zap.Int64("units", s.cart.TotalUnitCount()))
}

func (s *Service) Snapshot() []domcart.Line {
	return s.cart.Lines()
}

func (s *Service) Line(itemID string) (domcart.Line, bool) {
	return s.cart.Line(itemID)
}

func (s *Service) TotalPrice() decimal.Decimal {
	return s.cart.TotalPrice()
}

func (s *Service) TotalUnitCount() int64 {
	return s.cart.TotalUnitCount()
}

func (s *Service) IsEmpty() bool {
	return s.cart.IsEmpty()
}

// ApplyOutcome performs the cart side of a finished checkout.
func (s *Service) ApplyOutcome(outcome domorder.Outcome) {
	if outcome.ClearCart {
		s.Dispatch(domcart.ClearCommand{})
	}
}

func commandName(cmd domcart.Command) string {
	switch cmd.(type) {
	case domcart.AddCommand:
		return "add"
	case domcart.UpdateQuantityCommand:
		return "update_quantity"
	case domcart.RemoveCommand:
		return "remove"
	case domcart.ClearCommand:
		return "clear"
	default:
		return "unknown"
	}
}
