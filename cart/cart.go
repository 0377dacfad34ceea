// Package cart holds the in-memory line items of the active transaction.
// It owns no durability; the lifecycle manager snapshots it to the store.
package cart

// LineKey identifies a distinct cart row. Two catalog entries that share a
// name and unit price collapse into one line, and a catalog price change
// mid-session never alters an already-added line — this is a business rule,
// not an accident of implementation.
type LineKey struct {
	Name      string
	UnitPrice float64
}

// Line is one distinct item in the cart. CatalogID is the id of the menu
// row the line was added from, zero when unknown (e.g. after resuming a
// held order, whose snapshot does not store it).
type Line struct {
	Name      string
	UnitPrice float64
	Qty       int
	CatalogID uint
}

func (l Line) Key() LineKey {
	return LineKey{Name: l.Name, UnitPrice: l.UnitPrice}
}

// Cart maps line keys to lines, remembering insertion order for display.
type Cart struct {
	lines map[LineKey]*Line
	order []LineKey
}

func New() *Cart {
	return &Cart{lines: map[LineKey]*Line{}}
}

// Add inserts a new line with quantity 1, or bumps the quantity of the
// existing line with the same key. Always succeeds.
func (c *Cart) Add(name string, unitPrice float64, catalogID uint) {
	key := LineKey{Name: name, UnitPrice: unitPrice}
	if line, ok := c.lines[key]; ok {
		line.Qty++
		return
	}
	c.lines[key] = &Line{Name: name, UnitPrice: unitPrice, Qty: 1, CatalogID: catalogID}
	c.order = append(c.order, key)
}

// SetQuantity sets the line's quantity; zero or less removes the line.
// Absent keys are a no-op.
func (c *Cart) SetQuantity(key LineKey, qty int) {
	if qty <= 0 {
		c.Remove(key)
		return
	}
	if line, ok := c.lines[key]; ok {
		line.Qty = qty
	}
}

// Remove drops the line if present.
func (c *Cart) Remove(key LineKey) {
	if _, ok := c.lines[key]; !ok {
		return
	}
	delete(c.lines, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = map[LineKey]*Line{}
	c.order = nil
}

// Replace swaps the cart contents wholesale, used when resuming a held
// order. Lines with duplicate keys merge by summing quantities.
func (c *Cart) Replace(lines []Line) {
	c.Clear()
	for _, l := range lines {
		key := l.Key()
		if existing, ok := c.lines[key]; ok {
			existing.Qty += l.Qty
			continue
		}
		line := l
		c.lines[key] = &line
		c.order = append(c.order, key)
	}
}

// Snapshot returns line copies in insertion order. It never mutates the
// cart.
func (c *Cart) Snapshot() []Line {
	out := make([]Line, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.lines[key])
	}
	return out
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) Len() int { return len(c.lines) }
