package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// DailyReport returns today's completed-order count and revenue
func DailyReport(c *gin.Context) {
	count, total, err := sales.DailySummary(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build daily summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    time.Now().Format("2006-01-02"),
		"orders":  count,
		"revenue": total,
	})
}

// TopItems ranks items by quantity sold across all completed orders
func TopItems(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = v
	}
	ranked, err := sales.TopSold(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(ranked), "items": ranked})
}

// ExportSalesCSV streams the per-line sale export as CSV
func ExportSalesCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	if err := sales.ExportCSV(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export sales"})
		return
	}
}

// ExportSalesXLSX streams the per-line sale export as a spreadsheet
func ExportSalesXLSX(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="sales.xlsx"`)
	if err := sales.ExportXLSX(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export sales"})
		return
	}
}
