package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var usd = accounting.Accounting{Symbol: "US$ ", Precision: 2, Thousand: ".", Decimal: ","}

// FormatUSD renders a price the way the storefront displays it.
func FormatUSD(amount decimal.Decimal) string {
	return usd.FormatMoneyDecimal(amount)
}
