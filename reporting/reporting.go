// Package reporting aggregates completed sales: daily totals, top-sold
// items, and flat per-line exports. Read path only.
package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"canteen-pos/models"

	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// exportHeader is the column contract of both the CSV and XLSX exports, one
// row per line item per order.
var exportHeader = []string{"Order ID", "Date & Time", "Item", "Qty", "Price", "Total"}

type Reporter struct {
	db *gorm.DB
}

func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db}
}

// CompletedOrder is a decoded completed record for history views.
type CompletedOrder struct {
	ID    uint                       `json:"id"`
	Time  string                     `json:"datetime"`
	Total float64                    `json:"total"`
	Items []models.CompletedLineItem `json:"items"`
}

// ItemSales ranks one (name, unit price) pair by summed quantity.
type ItemSales struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Qty       int     `json:"qty"`
}

// DailySummary returns count and revenue of completed orders whose
// timestamp falls on the given calendar day.
func (r *Reporter) DailySummary(day time.Time) (int64, float64, error) {
	prefix := day.Format("2006-01-02") + "%"

	var count int64
	if err := r.db.Model(&models.OrderRecord{}).
		Where("status = ? AND date_time LIKE ?", models.StatusCompleted, prefix).
		Count(&count).Error; err != nil {
		return 0, 0, fmt.Errorf("count daily orders: %w", err)
	}

	var total float64
	if err := r.db.Model(&models.OrderRecord{}).
		Where("status = ? AND date_time LIKE ?", models.StatusCompleted, prefix).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("sum daily orders: %w", err)
	}
	return count, total, nil
}

// ListCompleted returns the full sale history, most recent first.
func (r *Reporter) ListCompleted() ([]CompletedOrder, error) {
	rows, err := r.completedRows()
	if err != nil {
		return nil, err
	}
	// History reads newest first; completedRows fetches oldest first for
	// the ranking consumers.
	out := make([]CompletedOrder, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, rows[i])
	}
	return out, nil
}

// TopSold ranks (name, unit price) pairs by total quantity across all
// completed orders. Ties keep encounter order.
func (r *Reporter) TopSold(limit int) ([]ItemSales, error) {
	rows, err := r.completedRows()
	if err != nil {
		return nil, err
	}

	type key struct {
		name  string
		price float64
	}
	totals := map[key]int{}
	var seen []key
	for _, order := range rows {
		for _, it := range order.Items {
			k := key{name: it.Name, price: it.Price}
			if _, ok := totals[k]; !ok {
				seen = append(seen, k)
			}
			totals[k] += it.Qty
		}
	}

	ranked := make([]ItemSales, 0, len(seen))
	for _, k := range seen {
		ranked = append(ranked, ItemSales{Name: k.name, UnitPrice: k.price, Qty: totals[k]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Qty > ranked[j].Qty
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ExportCSV writes the flattened per-line export.
func (r *Reporter) ExportCSV(w io.Writer) error {
	rows, err := r.completedRows()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, order := range rows {
		for _, it := range order.Items {
			record := []string{
				strconv.FormatUint(uint64(order.ID), 10),
				order.Time,
				it.Name,
				strconv.Itoa(it.Qty),
				strconv.FormatFloat(it.Price, 'f', 2, 64),
				strconv.FormatFloat(it.Total, 'f', 2, 64),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes the same per-line export as a spreadsheet.
func (r *Reporter) ExportXLSX(w io.Writer) error {
	rows, err := r.completedRows()
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeader {
		headerRow.AddCell().SetValue(h)
	}
	for _, order := range rows {
		for _, it := range order.Items {
			row := sheet.AddRow()
			row.AddCell().SetValue(int(order.ID))
			row.AddCell().SetValue(order.Time)
			row.AddCell().SetValue(it.Name)
			row.AddCell().SetValue(it.Qty)
			row.AddCell().SetValue(it.Price)
			row.AddCell().SetValue(it.Total)
		}
	}
	return file.Write(w)
}

// completedRows fetches and decodes every completed record, oldest first so
// rankings and exports see orders in the sequence they were sold.
func (r *Reporter) completedRows() ([]CompletedOrder, error) {
	var rows []models.OrderRecord
	if err := r.db.Where("status = ?", models.StatusCompleted).
		Order("date_time asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list completed orders: %w", err)
	}

	out := make([]CompletedOrder, 0, len(rows))
	for _, row := range rows {
		items, err := models.DecodeCompletedLines(row.ItemsJSON)
		if err != nil {
			return nil, fmt.Errorf("decode completed order %d: %w", row.OrderID, err)
		}
		out = append(out, CompletedOrder{
			ID:    row.OrderID,
			Time:  row.DateTime,
			Total: row.TotalAmount,
			Items: items,
		})
	}
	return out, nil
}
