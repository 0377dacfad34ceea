package handlers

import (
	"canteen-pos/cart"
	"canteen-pos/config"
	"canteen-pos/lifecycle"
	"canteen-pos/pricing"
	"canteen-pos/reporting"

	"github.com/gin-gonic/gin"
)

// The register is a single till: one cart, one lifecycle manager, one
// reporter, shared by all handlers. The UI dispatches one cashier action at
// a time, so none of this needs locking.
var (
	till   *cart.Cart
	orders *lifecycle.Manager
	sales  *reporting.Reporter
)

// Init wires the till session. Call after config.InitDB.
func Init() {
	till = cart.New()
	orders = lifecycle.NewManager(config.DB)
	sales = reporting.NewReporter(config.DB)
}

// cartView is the common cart response: lines in display order, live
// totals, and the held record the cart was resumed from (0 when fresh).
func cartView() gin.H {
	lines := till.Snapshot()
	totals := pricing.Compute(lines, config.Settings().TaxPercent)
	view := make([]gin.H, 0, len(lines))
	for _, l := range lines {
		view = append(view, gin.H{
			"name":  l.Name,
			"price": l.UnitPrice,
			"qty":   l.Qty,
			"total": l.UnitPrice * float64(l.Qty),
		})
	}
	return gin.H{
		"lines":        view,
		"totals":       totals,
		"resumed_from": orders.ResumedID(),
		"line_count":   till.Len(),
	}
}
