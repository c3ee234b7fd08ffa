package retail

import (
	"sync"

	"github.com/fairyhunter13/retail-chain-simulator/internal/obs"
	"go.uber.org/zap"
)

// OrderRecord is an order the magazine fulfilled for a shop. Records are
// immutable once appended.
type OrderRecord struct {
	ShopID   int64    `json:"shop_id"`
	ShopName string   `json:"shop_name"`
	Product  *Product `json:"product"`
	Quantity int64    `json:"quantity"`
}

// Magazine is a warehouse that supplies shops. FulfillOrder is the only
// place its stock decreases and its order history grows.
type Magazine struct {
	ID   int64
	Name string

	mu     sync.Mutex
	ledger *Ledger
	orders []OrderRecord
}

// NewMagazine constructs an empty warehouse.
func NewMagazine(id int64, name string) *Magazine {
	return &Magazine{ID: id, Name: name, ledger: NewLedger()}
}

// AddProductToCatalog seeds the catalog with a product and its initial stock.
func (m *Magazine) AddProductToCatalog(p *Product, initialQty int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger.AddOrRestock(p, initialQty)
}

// FulfillOrder releases qty units of a product against a shop's order.
// Checks run in order, first failure wins with no state change: the product
// must be cataloged and stock must cover the requested quantity. On success
// the cataloged product instance is returned so the shop can credit its own
// ledger with it.
func (m *Magazine) FulfillOrder(shop *Shop, productID, qty int64) (*Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if qty <= 0 {
		return nil, false
	}
	p, ok := m.ledger.Product(productID)
	if !ok {
		obs.Logger.Warn("order rejected: product not in catalog",
			zap.Int64("magazine_id", m.ID),
			zap.Int64("product_id", productID),
		)
		return nil, false
	}
	if m.ledger.StockOf(productID) < qty {
		obs.Logger.Warn("order rejected: insufficient stock",
			zap.Int64("magazine_id", m.ID),
			zap.Int64("product_id", productID),
			zap.Int64("available", m.ledger.StockOf(productID)),
			zap.Int64("requested", qty),
		)
		return nil, false
	}
	m.ledger.Deduct(productID, qty)
	m.orders = append(m.orders, OrderRecord{
		ShopID:   shop.ID,
		ShopName: shop.Name,
		Product:  p,
		Quantity: qty,
	})
	obs.Logger.Info("order fulfilled",
		zap.Int64("magazine_id", m.ID),
		zap.Int64("shop_id", shop.ID),
		zap.String("product", p.Name),
		zap.Int64("quantity", qty),
	)
	return p, true
}

// Restock adds qty units of an already cataloged product. Restocking an
// uncataloged product is a permissive no-op rather than an error; the
// boolean reports whether stock actually changed.
func (m *Magazine) Restock(productID, qty int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if qty <= 0 {
		return false
	}
	p, ok := m.ledger.Product(productID)
	if !ok {
		obs.Logger.Warn("restock skipped: product not in catalog",
			zap.Int64("magazine_id", m.ID),
			zap.Int64("product_id", productID),
		)
		return false
	}
	m.ledger.AddOrRestock(p, qty)
	obs.Logger.Info("restocked",
		zap.Int64("magazine_id", m.ID),
		zap.String("product", p.Name),
		zap.Int64("quantity", qty),
	)
	return true
}

// StockLevel returns the current stock for a product ID, 0 when absent.
func (m *Magazine) StockLevel(productID int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.StockOf(productID)
}

// InventorySummary returns all products with their stock levels.
func (m *Magazine) InventorySummary() []InventoryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Items()
}

// CatalogSize returns the number of cataloged products.
func (m *Magazine) CatalogSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Len()
}

// OrderHistory returns a copy of the fulfilled orders, oldest first.
func (m *Magazine) OrderHistory() []OrderRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]OrderRecord, len(m.orders))
	copy(out, m.orders)
	return out
}
