package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/retail-chain-simulator/internal/config"
	httpopenapi "github.com/fairyhunter13/retail-chain-simulator/internal/http/openapi"
	"github.com/fairyhunter13/retail-chain-simulator/internal/journal"
	"github.com/fairyhunter13/retail-chain-simulator/internal/retail"
	"github.com/gorilla/mux"
)

// App wires the supply chain entities to the HTTP surface. Entities are
// registered at boot; the API never creates or destroys them.
type App struct {
	Cfg     config.Config
	Journal *journal.Journal
	started time.Time

	magazines map[int64]*retail.Magazine
	shops     map[int64]*retail.Shop
	customers map[int64]*retail.Customer
}

// ack acknowledges a completed transactional request.
type ack struct {
	Status      string  `json:"status"`
	RequestID   string  `json:"request_id"`
	Sequence    uint64  `json:"sequence"`
	ProductID   int64   `json:"product_id"`
	Quantity    int64   `json:"quantity"`
	Stock       int64   `json:"stock"`
	Amount      float64 `json:"amount,omitempty"`
	CompletedAt string  `json:"completed_at"`
}

// NewApp constructs an App over the journal with empty entity registries.
func NewApp(cfg config.Config, j *journal.Journal) *App {
	return &App{
		Cfg:       cfg,
		Journal:   j,
		started:   time.Now(),
		magazines: make(map[int64]*retail.Magazine),
		shops:     make(map[int64]*retail.Shop),
		customers: make(map[int64]*retail.Customer),
	}
}

// AddMagazine registers a magazine with the API.
func (a *App) AddMagazine(m *retail.Magazine) { a.magazines[m.ID] = m }

// AddShop registers a shop with the API.
func (a *App) AddShop(s *retail.Shop) { a.shops[s.ID] = s }

// AddCustomer registers a customer with the API.
func (a *App) AddCustomer(c *retail.Customer) { a.customers[c.ID] = c }

// StartShutdown closes journal intake so transactional requests are refused
// while the server drains.
func (a *App) StartShutdown() {
	a.Journal.CloseIntake()
}

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON enforces the content type and strict field checking shared by
// every transactional endpoint.
func (a *App) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (a *App) refuseDuringShutdown(w http.ResponseWriter) bool {
	if a.Journal.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return true
	}
	return false
}

func (a *App) magazine(w http.ResponseWriter, r *http.Request) (*retail.Magazine, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "magazine")
		return nil, false
	}
	m, ok := a.magazines[id]
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "magazine")
		return nil, false
	}
	return m, true
}

func (a *App) shop(w http.ResponseWriter, r *http.Request) (*retail.Shop, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "shop")
		return nil, false
	}
	s, ok := a.shops[id]
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "shop")
		return nil, false
	}
	return s, true
}

func (a *App) customer(w http.ResponseWriter, r *http.Request) (*retail.Customer, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "customer")
		return nil, false
	}
	c, ok := a.customers[id]
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "customer")
		return nil, false
	}
	return c, true
}

func (a *App) getMagazineInventoryHandler(w http.ResponseWriter, r *http.Request) {
	m, ok := a.magazine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m.InventorySummary())
}

func (a *App) getMagazineStockHandler(w http.ResponseWriter, r *http.Request) {
	m, ok := a.magazine(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(r, "productID")
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"product_id": productID,
		"stock":      m.StockLevel(productID),
	})
}

func (a *App) getMagazineOrdersHandler(w http.ResponseWriter, r *http.Request) {
	m, ok := a.magazine(w, r)
	if !ok {
		return
	}
	orders := m.OrderHistory()
	if orders == nil {
		orders = []retail.OrderRecord{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type productPayload struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description,omitempty"`
}

type catalogAddRequest struct {
	Product         productPayload `json:"product"`
	InitialQuantity int64          `json:"initial_quantity"`
}

func (a *App) postMagazineCatalogHandler(w http.ResponseWriter, r *http.Request) {
	if a.refuseDuringShutdown(w) {
		return
	}
	m, ok := a.magazine(w, r)
	if !ok {
		return
	}
	var req catalogAddRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	if req.Product.ID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "product.id must be > 0")
		return
	}
	if req.Product.Name == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "product.name is required")
		return
	}
	if req.Product.Price == nil || *req.Product.Price < 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "product.price must be >= 0")
		return
	}
	if req.InitialQuantity <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "initial_quantity must be > 0")
		return
	}
	p := retail.NewProduct(req.Product.ID, req.Product.Name, *req.Product.Price, req.Product.Description)
	m.AddProductToCatalog(p, req.InitialQuantity)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "added",
		"request_id": RequestIDFromContext(r.Context()),
		"product_id": p.ID,
		"stock":      m.StockLevel(p.ID),
	})
}

type restockRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (a *App) postMagazineRestockHandler(w http.ResponseWriter, r *http.Request) {
	if a.refuseDuringShutdown(w) {
		return
	}
	m, ok := a.magazine(w, r)
	if !ok {
		return
	}
	var req restockRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "quantity must be > 0")
		return
	}
	if !m.Restock(req.ProductID, req.Quantity) {
		WriteJSONError(w, http.StatusConflict, "rejected", "product not in catalog")
		return
	}
	seq, _ := a.Journal.Record(journal.Entry{
		Kind:       journal.KindRestock,
		MagazineID: m.ID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	})
	writeJSON(w, http.StatusOK, ack{
		Status:      "completed",
		RequestID:   RequestIDFromContext(r.Context()),
		Sequence:    seq,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Stock:       m.StockLevel(req.ProductID),
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

type orderRequest struct {
	MagazineID int64 `json:"magazine_id"`
	ProductID  int64 `json:"product_id"`
	Quantity   int64 `json:"quantity"`
}

func (a *App) postShopOrderHandler(w http.ResponseWriter, r *http.Request) {
	if a.refuseDuringShutdown(w) {
		return
	}
	s, ok := a.shop(w, r)
	if !ok {
		return
	}
	var req orderRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "quantity must be > 0")
		return
	}
	m, ok := a.magazines[req.MagazineID]
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "magazine")
		return
	}
	if !s.OrderFromMagazine(m, req.ProductID, req.Quantity) {
		WriteJSONError(w, http.StatusConflict, "rejected", "")
		return
	}
	seq, _ := a.Journal.Record(journal.Entry{
		Kind:       journal.KindFulfillment,
		MagazineID: m.ID,
		ShopID:     s.ID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	})
	writeJSON(w, http.StatusOK, ack{
		Status:      "completed",
		RequestID:   RequestIDFromContext(r.Context()),
		Sequence:    seq,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Stock:       s.StockLevel(req.ProductID),
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *App) getShopInventoryHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := a.shop(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.InventorySummary())
}

func (a *App) getShopStockHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := a.shop(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(r, "productID")
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"product_id": productID,
		"stock":      s.StockLevel(productID),
	})
}

func (a *App) getShopRevenueHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := a.shop(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.RevenueReport())
}

func (a *App) getShopSalesHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := a.shop(w, r)
	if !ok {
		return
	}
	sales := s.SalesHistory()
	if sales == nil {
		sales = []retail.SaleRecord{}
	}
	writeJSON(w, http.StatusOK, sales)
}

type purchaseRequest struct {
	ShopID    int64  `json:"shop_id"`
	ProductID int64  `json:"product_id"`
	Quantity  *int64 `json:"quantity,omitempty"`
}

func (a *App) postCustomerPurchaseHandler(w http.ResponseWriter, r *http.Request) {
	if a.refuseDuringShutdown(w) {
		return
	}
	c, ok := a.customer(w, r)
	if !ok {
		return
	}
	var req purchaseRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "quantity must be > 0")
		return
	}
	s, ok := a.shops[req.ShopID]
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "shop")
		return
	}
	spentBefore := c.TotalSpent()
	if !c.BuyProduct(s, req.ProductID, qty) {
		WriteJSONError(w, http.StatusConflict, "rejected", "")
		return
	}
	seq, _ := a.Journal.Record(journal.Entry{
		Kind:       journal.KindSale,
		ShopID:     s.ID,
		CustomerID: c.ID,
		ProductID:  req.ProductID,
		Quantity:   qty,
		Amount:     c.TotalSpent() - spentBefore,
	})
	writeJSON(w, http.StatusOK, ack{
		Status:      "completed",
		RequestID:   RequestIDFromContext(r.Context()),
		Sequence:    seq,
		ProductID:   req.ProductID,
		Quantity:    qty,
		Stock:       s.StockLevel(req.ProductID),
		Amount:      c.TotalSpent() - spentBefore,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *App) getCustomerHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := a.customer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"balance":     c.Balance(),
		"total_spent": c.TotalSpent(),
		"purchases":   len(c.PurchaseHistory()),
	})
}

func (a *App) getCustomerPurchasesHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := a.customer(w, r)
	if !ok {
		return
	}
	purchases := c.PurchaseHistory()
	if purchases == nil {
		purchases = []retail.PurchaseRecord{}
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	recorded, written, backlog, depth := a.Journal.Metrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"entries_recorded": recorded,
		"entries_written":  written,
		"backlog_size":     backlog,
		"journal_depth":    depth,
		"uptime_sec":       time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
