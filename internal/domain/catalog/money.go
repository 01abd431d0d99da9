package catalog

import "github.com/shopspring/decimal"

// FormatPrice renders a currency amount with exactly two fractional digits.
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
