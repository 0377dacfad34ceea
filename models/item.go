package models

// StockUnlimited marks an item whose stock is not tracked.
const StockUnlimited = -1

type MenuItem struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"not null"`
	Category      string  `json:"category"`
	Price         float64 `json:"price" gorm:"not null"`
	Available     bool    `json:"available" gorm:"default:1"`
	StockQuantity int     `json:"stock_quantity" gorm:"default:-1"`
}

func (MenuItem) TableName() string { return "items" }
