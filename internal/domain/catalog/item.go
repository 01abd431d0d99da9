package catalog

import "github.com/shopspring/decimal"

type Item struct {
	ID                string
	Label             string
	UnitPrice         decimal.Decimal
	AvailableQuantity int64
	Description       string
}

func (i Item) InStock() bool {
	return i.AvailableQuantity > 0
}
