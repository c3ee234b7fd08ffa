package httpapi

import (
	"expvar"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/magazines/{id}/inventory", app.getMagazineInventoryHandler).Methods(http.MethodGet)
	r.HandleFunc("/magazines/{id}/stock/{productID}", app.getMagazineStockHandler).Methods(http.MethodGet)
	r.HandleFunc("/magazines/{id}/orders", app.getMagazineOrdersHandler).Methods(http.MethodGet)
	r.HandleFunc("/magazines/{id}/catalog", app.postMagazineCatalogHandler).Methods(http.MethodPost)
	r.HandleFunc("/magazines/{id}/restock", app.postMagazineRestockHandler).Methods(http.MethodPost)
	r.HandleFunc("/shops/{id}/orders", app.postShopOrderHandler).Methods(http.MethodPost)
	r.HandleFunc("/shops/{id}/inventory", app.getShopInventoryHandler).Methods(http.MethodGet)
	r.HandleFunc("/shops/{id}/stock/{productID}", app.getShopStockHandler).Methods(http.MethodGet)
	r.HandleFunc("/shops/{id}/revenue", app.getShopRevenueHandler).Methods(http.MethodGet)
	r.HandleFunc("/shops/{id}/sales", app.getShopSalesHandler).Methods(http.MethodGet)
	r.HandleFunc("/customers/{id}", app.getCustomerHandler).Methods(http.MethodGet)
	r.HandleFunc("/customers/{id}/purchases", app.getCustomerPurchasesHandler).Methods(http.MethodGet)
	r.HandleFunc("/customers/{id}/purchases", app.postCustomerPurchaseHandler).Methods(http.MethodPost)
	r.HandleFunc("/healthz", app.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/debug/metrics", app.metricsHandler).Methods(http.MethodGet)
	r.Handle("/debug/vars", expvar.Handler())
	r.HandleFunc("/openapi.yaml", app.openapiHandler).Methods(http.MethodGet)
	r.HandleFunc("/docs", app.docsHandler).Methods(http.MethodGet)
	return WithRequestID(WithLogging(r))
}
