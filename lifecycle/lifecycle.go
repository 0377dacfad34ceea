// Package lifecycle is the order state machine of the register: it converts
// the in-memory cart to and from persisted held records, finalizes paid
// sales, and expires stale held records. It is the sole writer of the
// orders table.
package lifecycle

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"canteen-pos/cart"
	"canteen-pos/models"
	"canteen-pos/pricing"

	"gorm.io/gorm"
)

var (
	// ErrEmptyCart rejects hold/finalize on a cart with no lines. Nothing
	// is written when it is returned.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound reports a held order id that no longer exists, typically
	// because an expiry pass deleted it first.
	ErrNotFound = errors.New("held order not found")
)

// HeldRetention is how long a held order survives before the janitor pass
// deletes it.
const HeldRetention = 2 * time.Hour

// HeldOrder is the reduced view of a held record returned by ListHeld.
type HeldOrder struct {
	ID      uint                  `json:"id"`
	Time    string                `json:"time"`
	Summary string                `json:"summary"`
	Items   []models.HeldLineItem `json:"items"`
}

// Manager runs the held/completed lifecycle over one store. It also tracks
// the "currently resumed" linkage: when the active cart was rehydrated from
// a held record, Hold overwrites that record in place and Finalize deletes
// it after recording the sale. One Manager serves one till session.
type Manager struct {
	db        *gorm.DB
	resumedID uint
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// ResumedID returns the held record id the active cart came from, zero when
// the cart started fresh.
func (m *Manager) ResumedID() uint { return m.resumedID }

// Hold snapshots the cart as a held record and returns its id. When the
// cart came from a resumed held record that still exists, that record is
// overwritten in place (same id, fresh timestamp); otherwise a new record
// is inserted. The cart is cleared and the resumed linkage dropped either
// way, so the cashier starts the next customer clean — re-resuming the same
// order requires going through the held list again.
func (m *Manager) Hold(c *cart.Cart, taxPercent float64) (uint, error) {
	if c.IsEmpty() {
		return 0, ErrEmptyCart
	}

	lines := c.Snapshot()
	totals := pricing.Compute(lines, taxPercent)
	held := make([]models.HeldLineItem, 0, len(lines))
	for _, l := range lines {
		held = append(held, models.HeldLineItem{Name: l.Name, Price: l.UnitPrice, Qty: l.Qty})
	}
	payload, err := models.EncodeHeldLines(held)
	if err != nil {
		return 0, fmt.Errorf("encode held lines: %w", err)
	}
	now := models.FormatTime(time.Now())

	id := m.resumedID
	updated := false
	if id != 0 {
		res := m.db.Model(&models.OrderRecord{}).
			Where("order_id = ? AND status = ?", id, models.StatusHeld).
			Updates(map[string]interface{}{
				"date_time":    now,
				"total_amount": totals.Total,
				"items_json":   payload,
			})
		if res.Error != nil {
			return 0, fmt.Errorf("update held order: %w", res.Error)
		}
		updated = res.RowsAffected > 0
	}
	if !updated {
		// Either a fresh hold, or the source record expired while the
		// cashier was editing — insert a new one.
		rec := models.OrderRecord{
			DateTime:    now,
			TotalAmount: totals.Total,
			ItemsJSON:   payload,
			Status:      models.StatusHeld,
		}
		if err := m.db.Create(&rec).Error; err != nil {
			return 0, fmt.Errorf("insert held order: %w", err)
		}
		id = rec.OrderID
	}

	c.Clear()
	m.resumedID = 0
	return id, nil
}

// ExpireStale deletes held records older than the retention window and
// returns how many went. Deleting zero is not an error.
func (m *Manager) ExpireStale() (int64, error) {
	cutoff := models.FormatTime(time.Now().Add(-HeldRetention))
	res := m.db.Where("status = ? AND date_time < ?", models.StatusHeld, cutoff).
		Delete(&models.OrderRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("expire held orders: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListHeld runs an expiry pass, then returns the surviving held orders
// oldest first along with the count just expired so the caller can surface
// a notice. Expiry piggybacks here because the held list is read at exactly
// the moments stale cleanup must happen — there is no background scheduler.
func (m *Manager) ListHeld() ([]HeldOrder, int64, error) {
	expired, err := m.ExpireStale()
	if err != nil {
		return nil, 0, err
	}

	var rows []models.OrderRecord
	if err := m.db.Where("status = ?", models.StatusHeld).
		Order("date_time asc").
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list held orders: %w", err)
	}

	out := make([]HeldOrder, 0, len(rows))
	for _, row := range rows {
		items, err := models.DecodeHeldLines(row.ItemsJSON)
		if err != nil {
			return nil, 0, fmt.Errorf("decode held order %d: %w", row.OrderID, err)
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Qty))
		}
		out = append(out, HeldOrder{
			ID:      row.OrderID,
			Time:    row.DateTime,
			Summary: strings.Join(parts, ", "),
			Items:   items,
		})
	}
	return out, expired, nil
}

// Resume rehydrates the cart from the named held record and remembers it as
// the resumed linkage. The cart is replaced wholesale. Catalog ids are not
// stored in held snapshots, so resumed lines carry none.
func (m *Manager) Resume(id uint, c *cart.Cart) error {
	var rec models.OrderRecord
	err := m.db.Where("order_id = ? AND status = ?", id, models.StatusHeld).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read held order: %w", err)
	}

	items, err := models.DecodeHeldLines(rec.ItemsJSON)
	if err != nil {
		return fmt.Errorf("decode held order %d: %w", id, err)
	}
	lines := make([]cart.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, cart.Line{Name: it.Name, UnitPrice: it.Price, Qty: it.Qty})
	}
	c.Replace(lines)
	m.resumedID = id
	return nil
}

// DiscardResumed clears the cart and the resumed linkage. With
// deleteUnderlying the held record goes too; without it the record survives
// with its pre-resume snapshot and stays listable — the cashier abandoned
// the edit, not the customer's order.
func (m *Manager) DiscardResumed(c *cart.Cart, deleteUnderlying bool) error {
	id := m.resumedID
	c.Clear()
	m.resumedID = 0
	if !deleteUnderlying || id == 0 {
		return nil
	}
	return m.DeleteHeld(id)
}

// Finalize records the cart as a completed sale and returns the new record
// id. The completed insert happens first; deleting the source held record
// and decrementing stock counters are cleanup writes that must never undo a
// sale already recorded, so their failures are logged and swallowed (the
// orphaned held record falls to the next expiry pass).
func (m *Manager) Finalize(c *cart.Cart, taxPercent float64) (uint, error) {
	if c.IsEmpty() {
		return 0, ErrEmptyCart
	}

	lines := c.Snapshot()
	totals := pricing.Compute(lines, taxPercent)
	completed := make([]models.CompletedLineItem, 0, len(lines))
	for _, l := range lines {
		completed = append(completed, models.CompletedLineItem{
			ID:    l.CatalogID,
			Name:  l.Name,
			Price: l.UnitPrice,
			Qty:   l.Qty,
			Total: l.UnitPrice * float64(l.Qty),
		})
	}
	payload, err := models.EncodeCompletedLines(completed)
	if err != nil {
		return 0, fmt.Errorf("encode completed lines: %w", err)
	}

	rec := models.OrderRecord{
		DateTime:    models.FormatTime(time.Now()),
		TotalAmount: totals.Total,
		ItemsJSON:   payload,
		Status:      models.StatusCompleted,
	}
	if err := m.db.Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("insert completed order: %w", err)
	}

	if id := m.resumedID; id != 0 {
		if err := m.db.Where("order_id = ? AND status = ?", id, models.StatusHeld).
			Delete(&models.OrderRecord{}).Error; err != nil {
			log.Printf("finalize: held order %d not removed: %v", id, err)
		}
	}
	m.decrementStock(lines)

	c.Clear()
	m.resumedID = 0
	return rec.OrderID, nil
}

// decrementStock counts finite stock down for lines that know their catalog
// row. Stock is a counter, not an enforcement mechanism — it never blocks a
// sale and never goes below zero.
func (m *Manager) decrementStock(lines []cart.Line) {
	for _, l := range lines {
		if l.CatalogID == 0 {
			continue
		}
		err := m.db.Model(&models.MenuItem{}).
			Where("id = ? AND stock_quantity >= ?", l.CatalogID, l.Qty).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", l.Qty)).Error
		if err != nil {
			log.Printf("finalize: stock for item %d not updated: %v", l.CatalogID, err)
		}
	}
}

// DeleteHeld removes one held record. ErrNotFound when the id no longer
// references a held record.
func (m *Manager) DeleteHeld(id uint) error {
	res := m.db.Where("order_id = ? AND status = ?", id, models.StatusHeld).
		Delete(&models.OrderRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete held order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllHeld removes every held record and returns the count.
func (m *Manager) DeleteAllHeld() (int64, error) {
	res := m.db.Where("status = ?", models.StatusHeld).Delete(&models.OrderRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete held orders: %w", res.Error)
	}
	return res.RowsAffected, nil
}
