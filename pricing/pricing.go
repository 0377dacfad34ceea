// Package pricing derives totals from cart contents and a tax rate.
package pricing

import "canteen-pos/cart"

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Compute returns subtotal, tax and total for the given lines. Values stay
// full-precision; rounding to two digits happens only at render time so
// repeated recomputation never compounds rounding error. A negative tax
// rate is the caller's bug — it propagates unchanged.
func Compute(lines []cart.Line, taxPercent float64) Totals {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Qty)
	}
	tax := subtotal * taxPercent / 100
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
