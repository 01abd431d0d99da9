package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	dom "example.com/storefront/internal/domain/catalog"
)

// Service keeps the last catalog snapshot fetched from the gateway. A refresh
// replaces the snapshot wholesale; a failed refresh keeps the previous one.
type Service struct {
	gateway dom.Gateway
	logger  *zap.Logger

	mu    sync.RWMutex
	items []dom.Item
}

func NewService(gateway dom.Gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, logger: logger}
}

func (s *Service) Refresh(ctx context.Context) ([]dom.Item, error) {
	items, err := s.gateway.ListItems(ctx)
	if err != nil {
		s.logger.Warn("catalog refresh failed", zap.Error(err))
		return s.Items(), fmt.Errorf("refresh catalog: %w", err)
	}

	snapshot := make([]dom.Item, len(items))
	copy(snapshot, items)

	s.mu.Lock()
	s.items = snapshot
	s.mu.Unlock()

	s.logger.Debug("catalog refreshed", zap.Int("items", len(snapshot)))
	return s.Items(), nil
}

func (s *Service) Items() []dom.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dom.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) Get(ctx context.Context, id string) (*dom.Item, error) {
	item, err := s.gateway.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, dom.ErrItemNotFound
	}
	return item, nil
}
