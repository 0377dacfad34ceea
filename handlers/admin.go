package handlers

import (
	"net/http"
	"strconv"

	"canteen-pos/config"
	"canteen-pos/middleware"
	"canteen-pos/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type AdminLoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// AdminLogin exchanges the stored PIN for an admin session token
func AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PIN != config.Settings().AdminPIN {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
		return
	}
	token, err := middleware.GenerateAdminToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

// ── Catalog management ──────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Category      string  `json:"category"`
	Price         float64 `json:"price" binding:"gte=0"`
	Available     *bool   `json:"available"`
	StockQuantity *int    `json:"stock_quantity"`
}

// ListItems returns the whole catalog, unavailable rows included
func ListItems(c *gin.Context) {
	var items []models.MenuItem
	if err := config.DB.Order("name asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// CreateItem adds a catalog row
func CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.MenuItem{
		Name:          req.Name,
		Category:      req.Category,
		Price:         req.Price,
		Available:     true,
		StockQuantity: models.StockUnlimited,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.StockQuantity != nil {
		item.StockQuantity = *req.StockQuantity
	}

	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added", "item": item})
}

// UpdateItem patches a catalog row. Past order records keep their
// denormalized snapshots, so price edits never rewrite history.
func UpdateItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Only allow safe fields
	allowed := map[string]bool{"name": true, "category": true, "price": true, "available": true, "stock_quantity": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	if err := config.DB.Model(&item).Updates(update).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated", "item": item})
}

// DeleteItem removes a catalog row immediately and unconditionally
func DeleteItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if err := config.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// ── Settings ────────────────────────────────────────────────────────────────

// GetSettings returns the settings rows
func GetSettings(c *gin.Context) {
	var rows []models.Setting
	if err := config.DB.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": rows})
}

// UpdateSettings upserts settings values and refreshes the session cache.
// Only the known keys are writable; numeric values are validated here so
// the core never sees malformed settings.
func UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for name, value := range req {
		if _, known := models.DefaultSettings[name]; !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown setting: " + name})
			return
		}
		switch name {
		case models.SettingTaxPercent:
			if v, err := strconv.ParseFloat(value, 64); err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "tax_percent must be a non-negative number"})
				return
			}
		case models.SettingPaperWidth:
			if v, err := strconv.Atoi(value); err != nil || v <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "paper_width must be a positive integer"})
				return
			}
		}
	}

	for name, value := range req {
		row := models.Setting{Name: name, Value: value}
		if err := config.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}
	if err := config.ReloadSettings(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved", "settings": req})
}
