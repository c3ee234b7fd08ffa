package retail

import (
	"sync"

	"github.com/fairyhunter13/retail-chain-simulator/internal/obs"
	"go.uber.org/zap"
)

// SaleRecord is one completed sale to a customer. Records are immutable once
// appended.
type SaleRecord struct {
	CustomerID   int64    `json:"customer_id"`
	CustomerName string   `json:"customer_name"`
	Product      *Product `json:"product"`
	Quantity     int64    `json:"quantity"`
	Revenue      float64  `json:"revenue"`
}

// RevenueReport summarizes a shop's sales to date.
type RevenueReport struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalSales   int     `json:"total_sales"`
}

// Shop sells products to customers and replenishes its inventory from a
// magazine. Revenue only ever grows; refunds are not modeled.
type Shop struct {
	ID   int64
	Name string

	mu      sync.Mutex
	ledger  *Ledger
	revenue float64
	sales   []SaleRecord
}

// NewShop constructs a shop with an empty ledger and zero revenue.
func NewShop(id int64, name string) *Shop {
	return &Shop{ID: id, Name: name, ledger: NewLedger()}
}

// OrderFromMagazine orders qty units of a product from the magazine. Iff the
// magazine fulfills the order, the shop's ledger is credited with the
// product instance the magazine returned; a first order introduces the
// product to the shop's catalog. The magazine call is the only side-effecting
// step that can fail, so no rollback is needed.
func (s *Shop) OrderFromMagazine(mag *Magazine, productID, qty int64) bool {
	p, ok := mag.FulfillOrder(s, productID, qty)
	if !ok {
		obs.Logger.Warn("order failed",
			zap.Int64("shop_id", s.ID),
			zap.Int64("magazine_id", mag.ID),
			zap.Int64("product_id", productID),
			zap.Int64("quantity", qty),
		)
		return false
	}
	s.mu.Lock()
	s.ledger.AddOrRestock(p, qty)
	s.mu.Unlock()
	obs.Logger.Info("inventory received",
		zap.Int64("shop_id", s.ID),
		zap.String("product", p.Name),
		zap.Int64("quantity", qty),
	)
	return true
}

// SellProduct sells qty units to a customer. Checks run in order, first
// failure wins with no state change anywhere: the product must be cataloged,
// stock must cover qty, and the customer's balance must cover price*qty.
// On success the customer is debited and the purchase recorded, shop stock
// drops by qty, revenue grows by the total cost, and a sale record is
// appended.
func (s *Shop) SellProduct(c *Customer, productID, qty int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty <= 0 {
		return false
	}
	p, ok := s.ledger.Product(productID)
	if !ok {
		obs.Logger.Warn("sale rejected: product not available",
			zap.Int64("shop_id", s.ID),
			zap.Int64("product_id", productID),
		)
		return false
	}
	if s.ledger.StockOf(productID) < qty {
		obs.Logger.Warn("sale rejected: insufficient stock",
			zap.Int64("shop_id", s.ID),
			zap.Int64("product_id", productID),
			zap.Int64("available", s.ledger.StockOf(productID)),
			zap.Int64("requested", qty),
		)
		return false
	}
	cost := p.Price * float64(qty)
	// The balance check and debit happen under the customer's lock, so the
	// check cannot go stale between validation and mutation.
	if !c.recordPurchase(p, qty, cost) {
		obs.Logger.Warn("sale rejected: insufficient balance",
			zap.Int64("shop_id", s.ID),
			zap.Int64("customer_id", c.ID),
			zap.Float64("required", cost),
		)
		return false
	}
	s.ledger.Deduct(productID, qty)
	s.revenue += cost
	s.sales = append(s.sales, SaleRecord{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Product:      p,
		Quantity:     qty,
		Revenue:      cost,
	})
	obs.Logger.Info("sale completed",
		zap.Int64("shop_id", s.ID),
		zap.Int64("customer_id", c.ID),
		zap.String("product", p.Name),
		zap.Int64("quantity", qty),
		zap.Float64("revenue", cost),
	)
	return true
}

// StockLevel returns the current stock for a product ID, 0 when absent.
func (s *Shop) StockLevel(productID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.StockOf(productID)
}

// InventorySummary returns all products with their stock levels.
func (s *Shop) InventorySummary() []InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Items()
}

// CatalogSize returns the number of cataloged products.
func (s *Shop) CatalogSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// RevenueReport returns total revenue and the number of completed sales.
func (s *Shop) RevenueReport() RevenueReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RevenueReport{TotalRevenue: s.revenue, TotalSales: len(s.sales)}
}

// SalesHistory returns a copy of the completed sales, oldest first.
func (s *Shop) SalesHistory() []SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SaleRecord, len(s.sales))
	copy(out, s.sales)
	return out
}
