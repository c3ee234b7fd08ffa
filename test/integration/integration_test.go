package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

// The suite runs against a live server (RUN_DEMO=false for deterministic
// state): go run ./cmd/retail-chain-simulator then go test ./test/integration.

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func waitReady(t *testing.T) {
	t.Helper()
	url := fmt.Sprintf("%s/healthz", baseURL())
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("service not ready")
}

type ack struct {
	Status      string  `json:"status"`
	RequestID   string  `json:"request_id"`
	Sequence    uint64  `json:"sequence"`
	ProductID   int64   `json:"product_id"`
	Quantity    int64   `json:"quantity"`
	Stock       int64   `json:"stock"`
	Amount      float64 `json:"amount"`
	CompletedAt string  `json:"completed_at"`
}

func postJSON(t *testing.T, path, body string) (*http.Response, []byte) {
	t.Helper()
	r, err := http.NewRequest(http.MethodPost, baseURL()+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func getJSON(t *testing.T, path string, v any) int {
	t.Helper()
	resp, err := http.Get(baseURL() + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestIntegration_HealthAndDocs(t *testing.T) {
	waitReady(t)
	if code := getJSON(t, "/healthz", nil); code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", code)
	}
	if code := getJSON(t, "/openapi.yaml", nil); code != http.StatusOK {
		t.Fatalf("openapi: expected 200, got %d", code)
	}
	if code := getJSON(t, "/docs", nil); code != http.StatusOK {
		t.Fatalf("docs: expected 200, got %d", code)
	}
}

func TestIntegration_SupplyChainFlow(t *testing.T) {
	waitReady(t)

	// Seed a dedicated product so the test does not depend on prior state.
	resp, body := postJSON(t, "/magazines/1/catalog",
		`{"product":{"id":901,"name":"Webcam","price":59.99},"initial_quantity":30}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("catalog: expected 200, got %d: %s", resp.StatusCode, body)
	}

	resp, body = postJSON(t, "/shops/1/orders", `{"magazine_id":1,"product_id":901,"quantity":10}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("order: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var ac ack
	if err := json.Unmarshal(body, &ac); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ac.Status != "completed" || ac.Sequence == 0 {
		t.Fatalf("unexpected ack: %+v", ac)
	}

	var stock map[string]int64
	if code := getJSON(t, "/magazines/1/stock/901", &stock); code != http.StatusOK {
		t.Fatalf("stock: expected 200, got %d", code)
	}
	if stock["stock"] != 20 {
		t.Fatalf("expected magazine stock 20, got %d", stock["stock"])
	}

	resp, body = postJSON(t, "/customers/1/purchases", `{"shop_id":1,"product_id":901,"quantity":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("purchase: expected 200, got %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &ac); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ac.Amount < 119.97 || ac.Amount > 119.99 {
		t.Fatalf("unexpected purchase amount: %v", ac.Amount)
	}
}

func TestIntegration_RejectionsChangeNothing(t *testing.T) {
	waitReady(t)

	resp, body := postJSON(t, "/magazines/1/catalog",
		`{"product":{"id":902,"name":"Dock","price":199.99},"initial_quantity":5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("catalog: expected 200, got %d: %s", resp.StatusCode, body)
	}

	// More than available stock.
	resp, _ = postJSON(t, "/shops/1/orders", `{"magazine_id":1,"product_id":902,"quantity":6}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	var stock map[string]int64
	getJSON(t, "/magazines/1/stock/902", &stock)
	if stock["stock"] != 5 {
		t.Fatalf("rejected order changed stock: %d", stock["stock"])
	}

	// Product the magazine has never seen.
	resp, _ = postJSON(t, "/shops/1/orders", `{"magazine_id":1,"product_id":999,"quantity":1}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	// Restock of an uncataloged product is a reported no-op.
	resp, _ = postJSON(t, "/magazines/1/restock", `{"product_id":999,"quantity":5}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	getJSON(t, "/magazines/1/stock/999", &stock)
	if stock["stock"] != 0 {
		t.Fatalf("no-op restock changed stock: %d", stock["stock"])
	}
}

func TestIntegration_ValidationErrors(t *testing.T) {
	waitReady(t)

	cases := []struct {
		name, path, body string
		want             int
	}{
		{"zero_quantity", "/shops/1/orders", `{"magazine_id":1,"product_id":1,"quantity":0}`, http.StatusBadRequest},
		{"malformed_json", "/shops/1/orders", `{"magazine_id":1,`, http.StatusBadRequest},
		{"unknown_magazine", "/shops/1/orders", `{"magazine_id":99,"product_id":1,"quantity":1}`, http.StatusNotFound},
		{"unknown_shop_path", "/shops/99/orders", `{"magazine_id":1,"product_id":1,"quantity":1}`, http.StatusNotFound},
		{"unknown_customer_path", "/customers/99/purchases", `{"shop_id":1,"product_id":1}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := postJSON(t, tc.path, tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
			}
		})
	}
}

func TestIntegration_MetricsExposed(t *testing.T) {
	waitReady(t)
	var m map[string]any
	if code := getJSON(t, "/debug/metrics", &m); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if _, ok := m["entries_recorded"]; !ok {
		t.Fatalf("missing entries_recorded")
	}
	if _, ok := m["uptime_sec"]; !ok {
		t.Fatalf("missing uptime_sec")
	}
}
