package handlers

import (
	"net/http"

	"canteen-pos/config"
	"canteen-pos/models"

	"github.com/gin-gonic/gin"
)

// GetMenu returns the available catalog for the cashier screen
func GetMenu(c *gin.Context) {
	var items []models.MenuItem
	query := config.DB.Where("available = ?", true)

	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Order("name asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}
