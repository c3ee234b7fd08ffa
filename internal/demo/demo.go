// Package demo seeds the catalog and runs the scripted end-to-end scenario.
package demo

import (
	"github.com/fairyhunter13/retail-chain-simulator/internal/journal"
	"github.com/fairyhunter13/retail-chain-simulator/internal/obs"
	"github.com/fairyhunter13/retail-chain-simulator/internal/retail"
	"go.uber.org/zap"
)

// Seed loads the fixed demo catalog into the magazine with the given initial
// stock per product, and returns the seeded products.
func Seed(mag *retail.Magazine, initialStock int64) []*retail.Product {
	products := []*retail.Product{
		retail.NewProduct(1, "Laptop", 999.99, "High-performance laptop"),
		retail.NewProduct(2, "Mouse", 29.99, "Wireless mouse"),
		retail.NewProduct(3, "Keyboard", 79.99, "Mechanical keyboard"),
		retail.NewProduct(4, "Monitor", 299.99, "27-inch 4K monitor"),
		retail.NewProduct(5, "Headphones", 149.99, "Noise-canceling headphones"),
	}
	for _, p := range products {
		mag.AddProductToCatalog(p, initialStock)
	}
	obs.Logger.Info("catalog seeded",
		zap.Int64("magazine_id", mag.ID),
		zap.Int("products", len(products)),
		zap.Int64("initial_stock", initialStock),
	)
	return products
}

// Run plays the scripted scenario: the shop stocks up from the warehouse,
// customers buy (one attempt bounces off an insufficient balance), the shop
// reorders, and the final state is logged. Successful transactions are
// recorded in the journal the same way the HTTP layer records them.
func Run(mag *retail.Magazine, shop *retail.Shop, customers []*retail.Customer, j *journal.Journal) {
	orders := []struct {
		productID int64
		quantity  int64
	}{
		{1, 10}, {2, 20}, {3, 15}, {4, 8}, {5, 12},
	}
	for _, o := range orders {
		if shop.OrderFromMagazine(mag, o.productID, o.quantity) {
			j.Record(journal.Entry{
				Kind:       journal.KindFulfillment,
				MagazineID: mag.ID,
				ShopID:     shop.ID,
				ProductID:  o.productID,
				Quantity:   o.quantity,
			})
		}
	}

	purchases := []struct {
		customer  int
		productID int64
		quantity  int64
	}{
		{0, 1, 1}, // Alice: laptop
		{0, 2, 1}, // Alice: mouse
		{1, 1, 1}, // Bob: laptop, bounces off his balance
		{1, 3, 1}, // Bob: keyboard
		{2, 4, 1}, // Carol: monitor
		{2, 5, 1}, // Carol: headphones
	}
	for _, b := range purchases {
		c := customers[b.customer]
		spentBefore := c.TotalSpent()
		if c.BuyProduct(shop, b.productID, b.quantity) {
			j.Record(journal.Entry{
				Kind:       journal.KindSale,
				ShopID:     shop.ID,
				CustomerID: c.ID,
				ProductID:  b.productID,
				Quantity:   b.quantity,
				Amount:     c.TotalSpent() - spentBefore,
			})
		}
	}

	// The shop runs low on laptops and reorders.
	if shop.OrderFromMagazine(mag, 1, 5) {
		j.Record(journal.Entry{
			Kind:       journal.KindFulfillment,
			MagazineID: mag.ID,
			ShopID:     shop.ID,
			ProductID:  1,
			Quantity:   5,
		})
	}
	if customers[0].BuyProduct(shop, 2, 1) {
		j.Record(journal.Entry{
			Kind:       journal.KindSale,
			ShopID:     shop.ID,
			CustomerID: customers[0].ID,
			ProductID:  2,
			Quantity:   1,
			Amount:     29.99,
		})
	}

	report := shop.RevenueReport()
	obs.Logger.Info("demo complete",
		zap.Int("shop_catalog_items", shop.CatalogSize()),
		zap.Int("total_sales", report.TotalSales),
		zap.Float64("total_revenue", report.TotalRevenue),
		zap.Int("orders_fulfilled", len(mag.OrderHistory())),
	)
	for _, c := range customers {
		obs.Logger.Info("customer summary",
			zap.Int64("customer_id", c.ID),
			zap.String("name", c.Name),
			zap.Float64("balance", c.Balance()),
			zap.Float64("total_spent", c.TotalSpent()),
			zap.Int("purchases", len(c.PurchaseHistory())),
		)
	}
}
