package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dom "example.com/storefront/internal/domain/catalog"
)

type mockGateway struct {
	items   []dom.Item
	listErr error
	calls   int
}

func (m *mockGateway) ListItems(ctx context.Context) ([]dom.Item, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func (m *mockGateway) GetItem(ctx context.Context, id string) (*dom.Item, error) {
	for _, item := range m.items {
		if item.ID == id {
			cloned := item
			return &cloned, nil
		}
	}
	return nil, nil
}

func sampleItems() []dom.Item {
	return []dom.Item{
		{ID: "1", Label: "Brown Chicken Egg", UnitPrice: decimal.RequireFromString("0.50"), AvailableQuantity: 24},
		{ID: "3", Label: "Duck Egg", UnitPrice: decimal.RequireFromString("1.25"), AvailableQuantity: 12},
	}
}

func TestRefresh_ReplacesSnapshot(t *testing.T) {
	gw := &mockGateway{items: sampleItems()}
	svc := NewService(gw, nil)

	items, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	gw.items = gw.items[:1]
	items, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, svc.Items(), 1)
	require.Equal(t, 2, gw.calls)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	gw := &mockGateway{items: sampleItems()}
	svc := NewService(gw, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	boom := errors.New("backend down")
	gw.listErr = boom
	items, err := svc.Refresh(context.Background())

	require.ErrorIs(t, err, boom)
	require.Len(t, items, 2)
	require.Len(t, svc.Items(), 2)
}

func TestGet(t *testing.T) {
	svc := NewService(&mockGateway{items: sampleItems()}, nil)

	item, err := svc.Get(context.Background(), "3")
	require.NoError(t, err)
	require.Equal(t, "Duck Egg", item.Label)

	_, err = svc.Get(context.Background(), "404")
	require.ErrorIs(t, err, dom.ErrItemNotFound)
}
