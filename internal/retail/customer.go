package retail

import "sync"

// PurchaseRecord is one completed purchase. Records are immutable once
// appended.
type PurchaseRecord struct {
	Product  *Product `json:"product"`
	Quantity int64    `json:"quantity"`
	Cost     float64  `json:"cost"`
}

// Customer holds a spendable balance and a purchase history. The balance
// only ever decreases, and only through successful purchases.
type Customer struct {
	ID   int64
	Name string

	mu        sync.Mutex
	balance   float64
	purchases []PurchaseRecord
}

// NewCustomer constructs a customer with a starting balance.
func NewCustomer(id int64, name string, balance float64) *Customer {
	return &Customer{ID: id, Name: name, balance: balance}
}

// BuyProduct buys qty units of a product from the shop. The shop runs the
// whole transaction; this is pure delegation.
func (c *Customer) BuyProduct(shop *Shop, productID, qty int64) bool {
	return shop.SellProduct(c, productID, qty)
}

// recordPurchase debits the balance and appends the purchase record in one
// step. Returns false without mutating anything when the balance cannot
// cover the cost.
func (c *Customer) recordPurchase(p *Product, qty int64, cost float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.balance < cost {
		return false
	}
	c.balance -= cost
	c.purchases = append(c.purchases, PurchaseRecord{Product: p, Quantity: qty, Cost: cost})
	return true
}

// Balance returns the remaining balance.
func (c *Customer) Balance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// PurchaseHistory returns a copy of the purchases, oldest first.
func (c *Customer) PurchaseHistory() []PurchaseRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]PurchaseRecord, len(c.purchases))
	copy(out, c.purchases)
	return out
}

// TotalSpent sums the cost of every recorded purchase.
func (c *Customer) TotalSpent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, p := range c.purchases {
		total += p.Cost
	}
	return total
}
