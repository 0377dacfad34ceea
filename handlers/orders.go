package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"canteen-pos/config"
	"canteen-pos/lifecycle"
	"canteen-pos/pricing"
	"canteen-pos/receipt"

	"github.com/gin-gonic/gin"
)

type CheckoutRequest struct {
	CashReceived float64 `json:"cash_received" binding:"required,gt=0"`
}

// HoldOrder parks the active cart as a held record and clears the till for
// the next customer
func HoldOrder(c *gin.Context) {
	id, err := orders.Hold(till, config.Settings().TaxPercent)
	if errors.Is(err, lifecycle.ErrEmptyCart) {
		c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty. Add items first."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hold order"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order held. Cart cleared for next customer.",
		"order_id": id,
	})
}

// ListHeldOrders returns the held queue, oldest first, after an expiry pass
func ListHeldOrders(c *gin.Context) {
	held, expired, err := orders.ListHeld()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list held orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(held),
		"expired": expired,
		"held":    held,
	})
}

// ResumeHeldOrder rehydrates the cart from a held record
func ResumeHeldOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	if err := orders.Resume(uint(id), till); err != nil {
		if errors.Is(err, lifecycle.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Held order not found. Refresh the held list."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resume order"})
		return
	}
	c.JSON(http.StatusOK, cartView())
}

// DeleteHeldOrder removes one held record from the picker
func DeleteHeldOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	if err := orders.DeleteHeld(uint(id)); err != nil {
		if errors.Is(err, lifecycle.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Held order not found. Refresh the held list."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete held order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Held order deleted", "order_id": id})
}

// DeleteAllHeldOrders clears the whole held queue
func DeleteAllHeldOrders(c *gin.Context) {
	deleted, err := orders.DeleteAllHeld()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete held orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All held orders deleted", "deleted": deleted})
}

// CleanupHeldOrders is the manual "clean up now" action of the picker
func CleanupHeldOrders(c *gin.Context) {
	expired, err := orders.ExpireStale()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clean up held orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

// Checkout takes cash payment, finalizes the sale and returns the receipt.
// Cash below the cart total is rejected here — it never reaches the
// lifecycle manager or the renderer.
func Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if till.IsEmpty() {
		c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty. Add items first."})
		return
	}

	settings := config.Settings()
	lines := till.Snapshot()
	totals := pricing.Compute(lines, settings.TaxPercent)
	if req.CashReceived < totals.Total {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Insufficient cash received",
			"total": totals.Total,
			"cash":  req.CashReceived,
		})
		return
	}

	// Render before finalize clears the cart.
	printed := receipt.Render(lines, totals, settings, time.Now(), &req.CashReceived)

	id, err := orders.Finalize(till, settings.TaxPercent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record sale"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Sale recorded",
		"order_id":   id,
		"totals":     totals,
		"change_due": req.CashReceived - totals.Total,
		"receipt":    printed,
	})
}

// GetCompletedOrders returns the sale history, most recent first
func GetCompletedOrders(c *gin.Context) {
	history, err := sales.ListCompleted()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sale history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(history), "orders": history})
}
