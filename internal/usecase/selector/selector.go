// Package selector holds the per-product quantity picker shown next to each
// catalog item. Its pending quantity stays within [1, available] and is only
// turned into a cart command on Commit.
package selector

import (
	"errors"
	"strconv"
	"strings"

	domcart "example.com/storefront/internal/domain/cart"
	domcatalog "example.com/storefront/internal/domain/catalog"
)

type Selector struct {
	item    domcatalog.Item
	pending int64
}

func New(item domcatalog.Item) *Selector {
	return &Selector{item: item, pending: 1}
}

func (s *Selector) Item() domcatalog.Item {
	return s.item
}

func (s *Selector) Quantity() int64 {
	return s.pending
}

func (s *Selector) Increment() {
	if s.pending >= s.item.AvailableQuantity {
		return
	}
	s.pending++
}

func (s *Selector) Decrement() {
	if s.pending <= 1 {
		return
	}
	s.pending--
}

// SetText applies direct numeric entry. Anything that does not parse as an
// integer counts as 1; out-of-range numbers are clamped like any other.
func (s *Selector) SetText(text string) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		n = 1
	}
	s.pending = s.clamp(n)
}

func (s *Selector) CanCommit() bool {
	return s.item.AvailableQuantity > 0 && s.pending > 0 && s.pending <= s.item.AvailableQuantity
}

func (s *Selector) Commit() (domcart.AddCommand, bool) {
	if !s.CanCommit() {
		return domcart.AddCommand{}, false
	}
	cmd := domcart.AddCommand{Item: s.item, Quantity: s.pending}
	s.pending = 1
	return cmd, true
}

// Rebind switches the selector to a refreshed snapshot of its item and pulls
// the pending quantity back into range.
func (s *Selector) Rebind(item domcatalog.Item) {
	s.item = item
	s.pending = s.clamp(s.pending)
}

func (s *Selector) clamp(n int64) int64 {
	if n > s.item.AvailableQuantity {
		n = s.item.AvailableQuantity
	}
	if n < 1 {
		n = 1
	}
	return n
}
