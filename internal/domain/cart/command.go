package cart

import domcatalog "example.com/storefront/internal/domain/catalog"

// Command is an intent to mutate a cart. Views emit commands; only the
// owner of the cart applies them.
type Command interface {
	apply(c *Cart)
}

type AddCommand struct {
	Item     domcatalog.Item
	Quantity int64
}

type UpdateQuantityCommand struct {
	ItemID   string
	Quantity int64
}

type RemoveCommand struct {
	ItemID string
}

type ClearCommand struct{}

func (cmd AddCommand) apply(c *Cart)            { c.Add(cmd.Item, cmd.Quantity) }
func (cmd UpdateQuantityCommand) apply(c *Cart) { c.UpdateQuantity(cmd.ItemID, cmd.Quantity) }
func (cmd RemoveCommand) apply(c *Cart)         { c.Remove(cmd.ItemID) }
func (ClearCommand) apply(c *Cart)              { c.Clear() }

func (c *Cart) Apply(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.apply(c)
}
