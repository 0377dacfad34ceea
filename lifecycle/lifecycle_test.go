package lifecycle

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"canteen-pos/cart"
	"canteen-pos/config"
	"canteen-pos/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "till.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	return db
}

func orderCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.OrderRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return count
}

func insertHeld(t *testing.T, db *gorm.DB, at time.Time, itemsJSON string) uint {
	t.Helper()
	rec := models.OrderRecord{
		DateTime:    models.FormatTime(at),
		TotalAmount: 10.5,
		ItemsJSON:   itemsJSON,
		Status:      models.StatusHeld,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("insert held order: %v", err)
	}
	return rec.OrderID
}

func TestHoldResumeRoundTrip(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	c := cart.New()
	c.Add("Tea", 10.0, 1)
	c.Add("Tea", 10.0, 1)
	c.Add("Sandwich", 30.0, 3)

	id, err := m.Hold(c, 5.0)
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	if !c.IsEmpty() {
		t.Error("Hold must clear the cart")
	}
	if m.ResumedID() != 0 {
		t.Error("Hold must drop the resumed linkage")
	}

	if err := m.Resume(id, c); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if m.ResumedID() != id {
		t.Errorf("ResumedID = %d, want %d", m.ResumedID(), id)
	}

	got := map[cart.LineKey]int{}
	for _, l := range c.Snapshot() {
		got[l.Key()] = l.Qty
	}
	want := map[cart.LineKey]int{
		{Name: "Tea", UnitPrice: 10.0}:      2,
		{Name: "Sandwich", UnitPrice: 30.0}: 1,
	}
	if len(got) != len(want) {
		t.Fatalf("resumed cart has %d lines, want %d", len(got), len(want))
	}
	for key, qty := range want {
		if got[key] != qty {
			t.Errorf("line %v qty = %d, want %d", key, got[key], qty)
		}
	}
}

func TestReHoldReusesRecordID(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	c := cart.New()
	c.Add("Tea", 10.0, 1)

	id, err := m.Hold(c, 5.0)
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	if err := m.Resume(id, c); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	c.Add("Tea", 10.0, 0) // cashier edits after resume

	again, err := m.Hold(c, 5.0)
	if err != nil {
		t.Fatalf("re-Hold: %v", err)
	}
	if again != id {
		t.Errorf("re-hold created id %d, want original %d", again, id)
	}

	var rows []models.OrderRecord
	if err := db.Where("status = ?", models.StatusHeld).Find(&rows).Error; err != nil {
		t.Fatalf("list held: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("held rows = %d, want 1", len(rows))
	}
	items, err := models.DecodeHeldLines(rows[0].ItemsJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Qty != 2 {
		t.Errorf("updated snapshot = %+v, want Tea x2", items)
	}
	if rows[0].TotalAmount != 21.0 {
		t.Errorf("updated total = %v, want 21.0", rows[0].TotalAmount)
	}
}

func TestHoldAfterSourceExpiredInsertsNewRecord(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	c := cart.New()
	c.Add("Tea", 10.0, 1)

	id, err := m.Hold(c, 5.0)
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	if err := m.Resume(id, c); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	// Janitor deletes the source while the cashier is editing.
	if err := db.Delete(&models.OrderRecord{}, id).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	again, err := m.Hold(c, 5.0)
	if err != nil {
		t.Fatalf("re-Hold: %v", err)
	}
	if again == id {
		t.Error("re-hold of an expired record must insert a new row")
	}
}

func TestEmptyCartGuard(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	c := cart.New()
	before := orderCount(t, db)

	if _, err := m.Hold(c, 5.0); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("Hold on empty cart: err = %v, want ErrEmptyCart", err)
	}
	if _, err := m.Finalize(c, 5.0); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("Finalize on empty cart: err = %v, want ErrEmptyCart", err)
	}
	if after := orderCount(t, db); after != before {
		t.Errorf("row count changed %d -> %d on rejected operation", before, after)
	}
}

func TestFinalizeDeletesSourceHeldRecord(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	c := cart.New()
	c.Add("Tea", 10.0, 1)

	id, err := m.Hold(c, 5.0)
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	if err := m.Resume(id, c); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	saleID, err := m.Finalize(c, 5.0)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !c.IsEmpty() || m.ResumedID() != 0 {
		t.Error("Finalize must clear cart and linkage")
	}

	held, _, err := m.ListHeld()
	if err != nil {
		t.Fatalf("ListHeld: %v", err)
	}
	for _, h := range held {
		if h.ID == id {
			t.Errorf("held order %d still listed after finalize", id)
		}
	}

	var sale models.OrderRecord
	if err := db.First(&sale, saleID).Error; err != nil {
		t.Fatalf("read sale: %v", err)
	}
	if sale.Status != models.StatusCompleted {
		t.Errorf("sale status = %s, want completed", sale.Status)
	}
}

func TestFinalizeWritesCompletedShape(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	c := cart.New()
	c.Add("Tea", 10.0, 1)
	c.Add("Tea", 10.0, 1)
	c.Add("Sandwich", 30.0, 3)

	saleID, err := m.Finalize(c, 5.0)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	var sale models.OrderRecord
	if err := db.First(&sale, saleID).Error; err != nil {
		t.Fatalf("read sale: %v", err)
	}
	items, err := models.DecodeCompletedLines(sale.ItemsJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("completed lines = %d, want 2", len(items))
	}
	if items[0].Total != 20.0 || items[1].Total != 30.0 {
		t.Errorf("per-line totals = %v/%v, want 20/30", items[0].Total, items[1].Total)
	}
	if items[0].ID != 1 || items[1].ID != 3 {
		t.Errorf("catalog ids = %d/%d, want 1/3", items[0].ID, items[1].ID)
	}
	if sale.TotalAmount != 52.5 {
		t.Errorf("stored total = %v, want 52.5", sale.TotalAmount)
	}
}

func TestFinalizeDecrementsFiniteStock(t *testing.T) {
	db := newTestDB(t)
	item := models.MenuItem{Name: "Samosa", Category: "Snacks", Price: 12.0, Available: true, StockQuantity: 10}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	m := NewManager(db)
	c := cart.New()
	c.Add("Samosa", 12.0, item.ID)
	c.Add("Samosa", 12.0, item.ID)
	c.Add("Tea", 10.0, 1) // unlimited stock stays untouched

	if _, err := m.Finalize(c, 5.0); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	var got models.MenuItem
	if err := db.First(&got, item.ID).Error; err != nil {
		t.Fatalf("read item: %v", err)
	}
	if got.StockQuantity != 8 {
		t.Errorf("stock = %d, want 8", got.StockQuantity)
	}
	var tea models.MenuItem
	if err := db.First(&tea, 1).Error; err != nil {
		t.Fatalf("read tea: %v", err)
	}
	if tea.StockQuantity != models.StockUnlimited {
		t.Errorf("unlimited stock changed to %d", tea.StockQuantity)
	}
}

func TestExpiryBoundary(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	itemsJSON := `[{"name":"Tea","price":10,"qty":1}]`

	now := time.Now()
	stale := insertHeld(t, db, now.Add(-HeldRetention-time.Second), itemsJSON)
	fresh := insertHeld(t, db, now.Add(-time.Hour-59*time.Minute), itemsJSON)

	held, expired, err := m.ListHeld()
	if err != nil {
		t.Fatalf("ListHeld: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}
	if len(held) != 1 || held[0].ID != fresh {
		t.Fatalf("held = %+v, want only record %d", held, fresh)
	}
	for _, h := range held {
		if h.ID == stale {
			t.Errorf("stale record %d survived expiry", stale)
		}
	}
}

func TestListHeldOrdersOldestFirstWithSummary(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)

	now := time.Now()
	older := insertHeld(t, db, now.Add(-30*time.Minute), `[{"name":"Sandwich","price":30,"qty":1},{"name":"Tea","price":10,"qty":2}]`)
	newer := insertHeld(t, db, now.Add(-5*time.Minute), `[{"name":"Coffee","price":15,"qty":1}]`)

	held, _, err := m.ListHeld()
	if err != nil {
		t.Fatalf("ListHeld: %v", err)
	}
	if len(held) != 2 {
		t.Fatalf("held count = %d, want 2", len(held))
	}
	if held[0].ID != older || held[1].ID != newer {
		t.Errorf("order = [%d %d], want oldest first [%d %d]", held[0].ID, held[1].ID, older, newer)
	}
	if held[0].Summary != "Sandwich x1, Tea x2" {
		t.Errorf("summary = %q, want %q", held[0].Summary, "Sandwich x1, Tea x2")
	}
}

func TestResumeNotFound(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	c := cart.New()

	if err := m.Resume(999, c); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resume(999): err = %v, want ErrNotFound", err)
	}

	// A completed record is not resumable either.
	c.Add("Tea", 10.0, 1)
	saleID, err := m.Finalize(c, 5.0)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := m.Resume(saleID, c); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resume(completed): err = %v, want ErrNotFound", err)
	}
}

func TestDiscardResumed(t *testing.T) {
	t.Run("keep underlying record", func(t *testing.T) {
		db := newTestDB(t)
		m := NewManager(db)
		c := cart.New()
		c.Add("Tea", 10.0, 1)
		id, _ := m.Hold(c, 5.0)
		if err := m.Resume(id, c); err != nil {
			t.Fatalf("Resume: %v", err)
		}

		if err := m.DiscardResumed(c, false); err != nil {
			t.Fatalf("DiscardResumed: %v", err)
		}
		if !c.IsEmpty() || m.ResumedID() != 0 {
			t.Error("discard must clear cart and linkage")
		}
		held, _, _ := m.ListHeld()
		if len(held) != 1 || held[0].ID != id {
			t.Errorf("held record %d must survive a keep-discard", id)
		}
	})

	t.Run("delete underlying record", func(t *testing.T) {
		db := newTestDB(t)
		m := NewManager(db)
		c := cart.New()
		c.Add("Tea", 10.0, 1)
		id, _ := m.Hold(c, 5.0)
		if err := m.Resume(id, c); err != nil {
			t.Fatalf("Resume: %v", err)
		}

		if err := m.DiscardResumed(c, true); err != nil {
			t.Fatalf("DiscardResumed: %v", err)
		}
		held, _, _ := m.ListHeld()
		if len(held) != 0 {
			t.Errorf("held record %d must be gone after delete-discard", id)
		}
	})
}

func TestDeleteHeld(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	c := cart.New()
	c.Add("Tea", 10.0, 1)
	id, _ := m.Hold(c, 5.0)

	if err := m.DeleteHeld(id); err != nil {
		t.Fatalf("DeleteHeld: %v", err)
	}
	if err := m.DeleteHeld(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteAllHeld(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(db)
	itemsJSON := `[{"name":"Tea","price":10,"qty":1}]`
	insertHeld(t, db, time.Now(), itemsJSON)
	insertHeld(t, db, time.Now(), itemsJSON)

	deleted, err := m.DeleteAllHeld()
	if err != nil {
		t.Fatalf("DeleteAllHeld: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	held, _, _ := m.ListHeld()
	if len(held) != 0 {
		t.Errorf("held remaining = %d, want 0", len(held))
	}
}
