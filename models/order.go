package models

import (
	"encoding/json"
	"time"
)

// OrderStatus tags a persisted order as parked mid-transaction or paid.
type OrderStatus string

const (
	StatusHeld      OrderStatus = "held"
	StatusCompleted OrderStatus = "completed"
)

// TimeLayout is the order timestamp format stored in the date_time column.
// Lexicographic comparison of two formatted values matches chronological
// order, which the expiry and history queries rely on.
const TimeLayout = "2006-01-02 15:04:05"

func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}

// OrderRecord is one row of the orders table. The column set is a contract
// with external tools that read the store file directly, so every column is
// mapped explicitly and totals are stored at write time, never recomputed
// from the line items on read.
type OrderRecord struct {
	OrderID     uint        `json:"order_id" gorm:"column:order_id;primaryKey"`
	DateTime    string      `json:"date_time" gorm:"not null"`
	TotalAmount float64     `json:"total_amount" gorm:"not null"`
	ItemsJSON   string      `json:"items_json" gorm:"not null"`
	Status      OrderStatus `json:"status" gorm:"not null;default:'completed'"`
}

func (OrderRecord) TableName() string { return "orders" }

// HeldLineItem is the items_json element shape for held orders.
type HeldLineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// CompletedLineItem is the items_json element shape for completed orders.
// It additionally carries the originating catalog id and a precomputed line
// total. The two shapes share a column but never a struct.
type CompletedLineItem struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
	Total float64 `json:"total"`
}

func EncodeHeldLines(items []HeldLineItem) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeHeldLines(raw string) ([]HeldLineItem, error) {
	var items []HeldLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func EncodeCompletedLines(items []CompletedLineItem) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeCompletedLines(raw string) ([]CompletedLineItem, error) {
	var items []CompletedLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}
