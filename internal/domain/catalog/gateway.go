package catalog

import "context"

// Gateway is the read side of the remote catalog service.
type Gateway interface {
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
}
