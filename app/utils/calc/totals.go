package calc

import (
	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/shopspring/decimal"
)

// HighCostDepartamento is the only shipping region that carries the flat
// surcharge in the derived cart total. Checkout may still supply its own
// shipping cost at order-creation time.
const HighCostDepartamento = "Montevideo"

var shippingSurcharge = decimal.NewFromInt(169)

func ItemsSubtotal(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total = total.Add(it.PriceUSD.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

func CartTotal(items []models.LineItem, departamento string) decimal.Decimal {
	total := ItemsSubtotal(items)
	if departamento == HighCostDepartamento {
		total = total.Add(shippingSurcharge)
	}
	return total
}
