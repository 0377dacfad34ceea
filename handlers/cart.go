package handlers

import (
	"errors"
	"net/http"

	"canteen-pos/cart"
	"canteen-pos/config"
	"canteen-pos/lifecycle"
	"canteen-pos/models"

	"github.com/gin-gonic/gin"
)

type AddLineRequest struct {
	ItemID uint    `json:"item_id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price" binding:"gte=0"`
}

type SetLineQuantityRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
	Qty   int     `json:"qty"`
}

type RemoveLineRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
}

// GetCart returns the active cart with totals
func GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartView())
}

// AddCartLine adds one unit of an item to the cart. The line is keyed by
// (name, unit price): menu buttons send item_id and the catalog row supplies
// name and price, but the cart line never references the catalog again.
func AddCartLine(c *gin.Context) {
	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ItemID != 0 {
		var item models.MenuItem
		if err := config.DB.First(&item, req.ItemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		if !item.Available {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + item.Name + "' is not available"})
			return
		}
		till.Add(item.Name, item.Price, item.ID)
	} else {
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide item_id or name and price"})
			return
		}
		till.Add(req.Name, req.Price, 0)
	}
	c.JSON(http.StatusOK, cartView())
}

// SetCartLineQuantity sets a line's quantity; zero or less removes it
func SetCartLineQuantity(c *gin.Context) {
	var req SetLineQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	till.SetQuantity(cart.LineKey{Name: req.Name, UnitPrice: req.Price}, req.Qty)
	c.JSON(http.StatusOK, cartView())
}

// RemoveCartLine deletes a line outright
func RemoveCartLine(c *gin.Context) {
	var req RemoveLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	till.Remove(cart.LineKey{Name: req.Name, UnitPrice: req.Price})
	c.JSON(http.StatusOK, cartView())
}

// ClearCart empties the cart. When the cart came from a resumed held order,
// ?delete_held=true also removes the underlying record; otherwise the held
// order stays listable with its pre-resume snapshot.
func ClearCart(c *gin.Context) {
	deleteHeld := c.Query("delete_held") == "true"
	err := orders.DiscardResumed(till, deleteHeld)
	if err != nil && !errors.Is(err, lifecycle.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	// ErrNotFound means the held record expired under us — the cart is
	// cleared either way.
	c.JSON(http.StatusOK, cartView())
}
