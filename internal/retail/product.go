// Package retail models the supply chain: a magazine (warehouse) fulfills
// shop orders, shops sell to customers, and every party tracks its own
// inventory, balance, and history.
package retail

// Product identifies a sellable item. Products are created once at catalog
// seeding time and never mutated afterwards; magazine and shop catalogs share
// the same instance.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// NewProduct constructs an immutable product descriptor.
func NewProduct(id int64, name string, price float64, description string) *Product {
	return &Product{ID: id, Name: name, Price: price, Description: description}
}
