package routes

import (
	"canteen-pos/handlers"
	"canteen-pos/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Cashier routes (the till itself, no auth) ──────────────────
	api := r.Group("/api")
	{
		api.GET("/menu", handlers.GetMenu)

		api.GET("/cart", handlers.GetCart)
		api.POST("/cart/lines", handlers.AddCartLine)
		api.PUT("/cart/lines", handlers.SetCartLineQuantity)
		api.DELETE("/cart/lines", handlers.RemoveCartLine)
		api.DELETE("/cart", handlers.ClearCart)

		api.POST("/orders/hold", handlers.HoldOrder)
		api.GET("/orders/held", handlers.ListHeldOrders)
		api.POST("/orders/held/:id/resume", handlers.ResumeHeldOrder)
		api.DELETE("/orders/held/:id", handlers.DeleteHeldOrder)
		api.DELETE("/orders/held", handlers.DeleteAllHeldOrders)
		api.POST("/orders/held/cleanup", handlers.CleanupHeldOrders)

		api.POST("/checkout", handlers.Checkout)
		api.GET("/orders", handlers.GetCompletedOrders)
	}

	// ── Admin routes (PIN login, then Bearer token) ────────────────
	admin := r.Group("/api/admin")
	admin.POST("/login", handlers.AdminLogin)

	protected := admin.Group("")
	protected.Use(middleware.AuthRequired())
	{
		protected.GET("/items", handlers.ListItems)
		protected.POST("/items", handlers.CreateItem)
		protected.PUT("/items/:id", handlers.UpdateItem)
		protected.DELETE("/items/:id", handlers.DeleteItem)

		protected.GET("/settings", handlers.GetSettings)
		protected.PUT("/settings", handlers.UpdateSettings)

		protected.GET("/reports/daily", handlers.DailyReport)
		protected.GET("/reports/top-items", handlers.TopItems)
		protected.GET("/reports/export.csv", handlers.ExportSalesCSV)
		protected.GET("/reports/export.xlsx", handlers.ExportSalesXLSX)
	}
}
