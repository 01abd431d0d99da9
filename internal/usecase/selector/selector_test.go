package selector

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domcatalog "example.com/storefront/internal/domain/catalog"
)

func eggItem(available int64) domcatalog.Item {
	return domcatalog.Item{
		ID:                "1",
		Label:             "Brown Chicken Egg",
		UnitPrice:         decimal.RequireFromString("0.50"),
		AvailableQuantity: available,
	}
}

func TestIncrement_ClampedAtAvailability(t *testing.T) {
	s := New(eggItem(3))
	s.Increment()
	s.Increment()
	s.Increment()
	s.Increment()

	require.Equal(t, int64(3), s.Quantity())
}

func TestDecrement_FloorOfOne(t *testing.T) {
	s := New(eggItem(3))
	s.Decrement()
	require.Equal(t, int64(1), s.Quantity())

	s.Increment()
	s.Decrement()
	s.Decrement()
	require.Equal(t, int64(1), s.Quantity())
}

func TestSetText(t *testing.T) {
	s := New(eggItem(10))

	s.SetText("4")
	require.Equal(t, int64(4), s.Quantity())

	s.SetText("")
	require.Equal(t, int64(1), s.Quantity())

	s.SetText("abc")
	require.Equal(t, int64(1), s.Quantity())

	s.SetText("99")
	require.Equal(t, int64(10), s.Quantity())

	s.SetText("-5")
	require.Equal(t, int64(1), s.Quantity())

	s.SetText(" 7 ")
	require.Equal(t, int64(7), s.Quantity())
}

func TestSetText_OverflowClampsToBounds(t *testing.T) {
	s := New(eggItem(10))

	s.SetText("99999999999999999999")
	require.Equal(t, int64(10), s.Quantity())

	s.SetText("-99999999999999999999")
	require.Equal(t, int64(1), s.Quantity())
}

func TestCommit_EmitsAddAndResets(t *testing.T) {
	s := New(eggItem(10))
	s.SetText("6")

	cmd, ok := s.Commit()

	require.True(t, ok)
	require.Equal(t, "1", cmd.Item.ID)
	require.Equal(t, int64(6), cmd.Quantity)
	require.Equal(t, int64(1), s.Quantity())
}

func TestCommit_OutOfStockNotReachable(t *testing.T) {
	s := New(eggItem(0))
	s.Increment()
	s.SetText("3")

	require.False(t, s.CanCommit())
	_, ok := s.Commit()
	require.False(t, ok)
	require.Equal(t, int64(1), s.Quantity())
}

func TestRebind_ClampsPending(t *testing.T) {
	s := New(eggItem(10))
	s.SetText("8")

	s.Rebind(eggItem(5))
	require.Equal(t, int64(5), s.Quantity())

	s.Rebind(eggItem(0))
	require.Equal(t, int64(1), s.Quantity())
	require.False(t, s.CanCommit())
}

func TestQuantityStaysInBoundsUnderRandomActions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	inputs := []string{"", "x", "0", "-3", "1", "2", "12", "1000", "5.5"}

	for _, available := range []int64{1, 2, 7, 30} {
		s := New(eggItem(available))
		for i := 0; i < 500; i++ {
			switch rng.Intn(3) {
			case 0:
				s.Increment()
			case 1:
				s.Decrement()
			default:
				s.SetText(inputs[rng.Intn(len(inputs))])
			}
			q := s.Quantity()
			require.GreaterOrEqual(t, q, int64(1), "available=%d step=%d", available, i)
			require.LessOrEqual(t, q, available, "available=%d step=%d", available, i)
		}
	}
}

func TestSet_SyncRebindsAddsAndDrops(t *testing.T) {
	items := []domcatalog.Item{
		{ID: "1", AvailableQuantity: 10},
		{ID: "2", AvailableQuantity: 4},
	}
	set := NewSet(items)
	require.Equal(t, 2, set.Len())

	sel, ok := set.For("1")
	require.True(t, ok)
	sel.SetText("9")

	set.Sync([]domcatalog.Item{
		{ID: "1", AvailableQuantity: 3},
		{ID: "3", AvailableQuantity: 1},
	})

	require.Equal(t, 2, set.Len())
	sel, ok = set.For("1")
	require.True(t, ok)
	require.Equal(t, int64(3), sel.Quantity())
	_, ok = set.For("2")
	require.False(t, ok)
	_, ok = set.For("3")
	require.True(t, ok)
}
