package retail

import "testing"

func TestLedgerAddOrRestock(t *testing.T) {
	l := NewLedger()
	p := NewProduct(1, "Laptop", 999.99, "")
	l.AddOrRestock(p, 10)
	if got := l.StockOf(1); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	l.AddOrRestock(p, 5)
	if got := l.StockOf(1); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 catalog entry, got %d", l.Len())
	}
}

func TestLedgerRejectsNonPositiveQuantity(t *testing.T) {
	l := NewLedger()
	p := NewProduct(1, "Laptop", 999.99, "")
	l.AddOrRestock(p, 10)
	l.AddOrRestock(p, 0)
	l.AddOrRestock(p, -3)
	if got := l.StockOf(1); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	l.AddOrRestock(nil, 5)
	if l.Len() != 1 {
		t.Fatalf("expected 1 catalog entry, got %d", l.Len())
	}
}

func TestLedgerStockOfAbsent(t *testing.T) {
	l := NewLedger()
	if got := l.StockOf(99); got != 0 {
		t.Fatalf("expected 0 for absent product, got %d", got)
	}
}

func TestLedgerDeduct(t *testing.T) {
	l := NewLedger()
	p := NewProduct(1, "Mouse", 29.99, "")
	l.AddOrRestock(p, 3)
	if !l.Deduct(1, 2) {
		t.Fatalf("deduct failed")
	}
	if got := l.StockOf(1); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if l.Deduct(1, 2) {
		t.Fatalf("expected deduct beyond stock to fail")
	}
	if got := l.StockOf(1); got != 1 {
		t.Fatalf("failed deduct changed stock: %d", got)
	}
	if l.Deduct(2, 1) {
		t.Fatalf("expected deduct of unknown product to fail")
	}
	if l.Deduct(1, 0) || l.Deduct(1, -1) {
		t.Fatalf("expected non-positive deduct to fail")
	}
}

func TestLedgerItemsSorted(t *testing.T) {
	l := NewLedger()
	l.AddOrRestock(NewProduct(3, "Keyboard", 79.99, ""), 1)
	l.AddOrRestock(NewProduct(1, "Laptop", 999.99, ""), 2)
	l.AddOrRestock(NewProduct(2, "Mouse", 29.99, ""), 3)
	items := l.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []int64{1, 2, 3} {
		if items[i].Product.ID != want {
			t.Fatalf("item %d: expected product %d, got %d", i, want, items[i].Product.ID)
		}
	}
}

func TestLedgerSharedProductInstance(t *testing.T) {
	a := NewLedger()
	b := NewLedger()
	p := NewProduct(1, "Laptop", 999.99, "")
	a.AddOrRestock(p, 5)
	b.AddOrRestock(p, 2)
	pa, _ := a.Product(1)
	pb, _ := b.Product(1)
	if pa != pb {
		t.Fatalf("expected both ledgers to share the same product instance")
	}
}
