package retail

import "sort"

// InventoryItem pairs a product with its on-hand quantity.
type InventoryItem struct {
	Product  *Product `json:"product"`
	Quantity int64    `json:"quantity"`
}

// Ledger tracks the catalog and on-hand stock for one shop or magazine.
// Every product ID present in stock has a catalog entry and vice versa, and
// stock never goes negative.
//
// Ledger is not safe for concurrent use; the owning entity guards it.
type Ledger struct {
	catalog map[int64]*Product
	stock   map[int64]int64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		catalog: make(map[int64]*Product),
		stock:   make(map[int64]int64),
	}
}

// AddOrRestock inserts p with qty units when unknown, or adds qty to the
// existing stock. Non-positive quantities leave the ledger untouched.
func (l *Ledger) AddOrRestock(p *Product, qty int64) {
	if p == nil || qty <= 0 {
		return
	}
	if _, ok := l.catalog[p.ID]; ok {
		l.stock[p.ID] += qty
		return
	}
	l.catalog[p.ID] = p
	l.stock[p.ID] = qty
}

// StockOf returns the current quantity for a product ID, 0 when absent.
// Absence is a valid, queryable state, never an error.
func (l *Ledger) StockOf(id int64) int64 {
	return l.stock[id]
}

// Product returns the cataloged product for an ID.
func (l *Ledger) Product(id int64) (*Product, bool) {
	p, ok := l.catalog[id]
	return p, ok
}

// Deduct removes qty units of a product. It refuses to act unless the
// product is cataloged with at least qty units on hand, so stock cannot go
// negative.
func (l *Ledger) Deduct(id, qty int64) bool {
	if qty <= 0 {
		return false
	}
	if _, ok := l.catalog[id]; !ok {
		return false
	}
	if l.stock[id] < qty {
		return false
	}
	l.stock[id] -= qty
	return true
}

// Len returns the number of cataloged products.
func (l *Ledger) Len() int {
	return len(l.catalog)
}

// Items returns the inventory summary ordered by product ID.
func (l *Ledger) Items() []InventoryItem {
	items := make([]InventoryItem, 0, len(l.stock))
	for id, qty := range l.stock {
		items = append(items, InventoryItem{Product: l.catalog[id], Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Product.ID < items[j].Product.ID })
	return items
}
