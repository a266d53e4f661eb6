package analyzer

import "github.com/shopspring/decimal"

// Discount computes the percentage saved buying at the supplier price
// instead of retail: (retail - supplier) / retail * 100, rounded to one
// decimal place. Retail of zero or less means no price is known and the
// discount is 0.
func Discount(supplier, retail float64) float64 {
	if retail <= 0 {
		return 0
	}
	r := decimal.NewFromFloat(retail)
	s := decimal.NewFromFloat(supplier)
	pct := r.Sub(s).Div(r).Mul(decimal.NewFromInt(100))
	f, _ := pct.Round(1).Float64()
	return f
}

// Categorize buckets an item by discount depth. Items without a retail
// price are NoPriceFound regardless of the discount value; negative
// discounts (supplier above retail) fall into BadPrice.
func Categorize(discount, retail float64) Category {
	switch {
	case retail <= 0:
		return NoPriceFound
	case discount >= 75:
		return GoodPrice
	case discount >= 60:
		return OkayPrice
	default:
		return BadPrice
	}
}
