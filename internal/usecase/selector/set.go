package selector

import domcatalog "example.com/storefront/internal/domain/catalog"

// Set keeps one selector per catalog item id.
type Set struct {
	byID map[string]*Selector
}

func NewSet(items []domcatalog.Item) *Set {
	s := &Set{byID: make(map[string]*Selector, len(items))}
	s.Sync(items)
	return s
}

func (s *Set) For(itemID string) (*Selector, bool) {
	sel, ok := s.byID[itemID]
	return sel, ok
}

// Sync rebinds existing selectors to the new snapshot, creates selectors for
// new items and drops the ones whose item disappeared.
func (s *Set) Sync(items []domcatalog.Item) {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.ID] = struct{}{}
		if sel, ok := s.byID[item.ID]; ok {
			sel.Rebind(item)
			continue
		}
		s.byID[item.ID] = New(item)
	}
	for id := range s.byID {
		if _, ok := seen[id]; !ok {
			delete(s.byID, id)
		}
	}
}

func (s *Set) Len() int {
	return len(s.byID)
}
