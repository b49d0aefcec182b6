package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductService mimics the product API for the fields the client reads.
func fakeProductService(t *testing.T) *httptest.Server {
	t.Helper()
	catalog := map[string]product{
		"prod-001": {ID: "prod-001", Name: "Vampire Costume Deluxe", Price: 49.99, Stock: 25, IsActive: true},
		"prod-004": {ID: "prod-004", Name: "Halloween Candy Mix", Price: 12.99, Stock: 120, IsActive: true},
		"prod-005": {ID: "prod-005", Name: "Haunted House Fog Machine", Price: 89.99, Stock: 0, IsActive: false},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/products/")
		p, ok := catalog[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"product": p},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newOrderAPI(t *testing.T, productURL string) (*Handler, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	var pc *ProductClient
	if productURL != "" {
		pc = NewProductClient(productURL, nil)
	}
	return NewHandler(repo, pc, nil), repo
}

func createPayload() string {
	return `{
		"customer_email": "boo@spookymart.test",
		"customer_name": "Boo",
		"items": [
			{"product_id": "prod-001", "product_name": "Vampire Costume Deluxe", "quantity": 2, "unit_price": 49.99},
			{"product_id": "prod-004", "product_name": "Halloween Candy Mix", "quantity": 1, "unit_price": 12.99}
		],
		"shipping_address": {"street": "13 Elm St", "city": "Salem", "state": "MA", "zip_code": "01970", "country": "US"}
	}`
}

func TestCreateOrderSuccess(t *testing.T) {
	srv := fakeProductService(t)
	h, repo := newOrderAPI(t, srv.URL)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(createPayload())))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Order   Order  `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Order created successfully", body.Message)
	assert.Equal(t, StatusPending, body.Order.Status)
	assert.InDelta(t, 2*49.99+12.99, body.Order.TotalAmount, 0.001)

	stored, err := repo.Get(context.Background(), body.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "boo@spookymart.test", stored.CustomerEmail)
}

func TestCreateOrderRejectsInvalidItems(t *testing.T) {
	srv := fakeProductService(t)
	h, repo := newOrderAPI(t, srv.URL)

	payload := `{
		"customer_email": "boo@spookymart.test",
		"items": [
			{"product_id": "prod-999", "quantity": 1, "unit_price": 1.00},
			{"product_id": "prod-005", "quantity": 1, "unit_price": 89.99},
			{"product_id": "prod-001", "quantity": 9999, "unit_price": 49.99},
			{"product_id": "prod-004", "quantity": 1, "unit_price": 1.99}
		]
	}`
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Success bool     `json:"success"`
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Validation Error", body.Error)
	require.Len(t, body.Details, 4)
	assert.Contains(t, body.Details[0], "not found")
	assert.Contains(t, body.Details[1], "not active")
	assert.Contains(t, body.Details[2], "insufficient stock")
	assert.Contains(t, body.Details[3], "price mismatch")

	// nothing was persisted
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateOrderProductServiceDown(t *testing.T) {
	srv := fakeProductService(t)
	srv.Close()
	h, _ := newOrderAPI(t, srv.URL)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(createPayload())))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "product-service", body["service"])
	assert.Equal(t, "Service Unavailable", body["error"])
}

func TestCreateOrderRejectsMalformedPayload(t *testing.T) {
	h, _ := newOrderAPI(t, "")

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items": [`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items": []}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least one item")
}

func seedOrder(t *testing.T, repo *MemoryRepository, status string) Order {
	t.Helper()
	o := NewOrder(CreateRequest{
		CustomerEmail: "boo@spookymart.test",
		Items:         []Item{{ProductID: "prod-001", Quantity: 1, UnitPrice: 49.99}},
	})
	o.Status = status
	require.NoError(t, repo.Create(context.Background(), &o))
	return o
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	h, repo := newOrderAPI(t, "")
	o := seedOrder(t, repo, StatusPending)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/"+o.ID, strings.NewReader(`{"status":"confirmed"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status)

	// backwards move is refused
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/"+o.ID, strings.NewReader(`{"status":"pending"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown status is refused
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/"+o.ID, strings.NewReader(`{"status":"teleported"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown status")
}

func TestUpdateOrderPartialFields(t *testing.T) {
	h, repo := newOrderAPI(t, "")
	o := seedOrder(t, repo, StatusPending)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/"+o.ID,
		strings.NewReader(`{"customer_phone":"+1-555-0131"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "+1-555-0131", stored.CustomerPhone)
	assert.Equal(t, StatusPending, stored.Status, "status untouched when absent")
}

func TestCancelOrder(t *testing.T) {
	h, repo := newOrderAPI(t, "")
	o := seedOrder(t, repo, StatusConfirmed)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/"+o.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}

func TestCancelOrderPostAlias(t *testing.T) {
	h, repo := newOrderAPI(t, "")
	o := seedOrder(t, repo, StatusPending)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+o.ID+"/cancel", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}

func TestCancelShippedOrderRefused(t *testing.T) {
	h, repo := newOrderAPI(t, "")
	o := seedOrder(t, repo, StatusShipped)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/"+o.ID, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "can no longer be cancelled")

	stored, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, stored.Status)
}

func TestOrderStatusEndpoint(t *testing.T) {
	h, repo := newOrderAPI(t, "")
	o := seedOrder(t, repo, StatusShipped)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+o.ID+"/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, o.ID, body.OrderID)
	assert.Equal(t, StatusShipped, body.Status)
}

func TestGetOrderNotFound(t *testing.T) {
	h, _ := newOrderAPI(t, "")

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order nope not found")
}

func TestListOrdersEnvelope(t *testing.T) {
	h, repo := newOrderAPI(t, "")
	seedOrder(t, repo, StatusPending)
	seedOrder(t, repo, StatusPending)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool    `json:"success"`
		Orders  []Order `json:"orders"`
		Total   int     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Total)
	assert.Len(t, body.Orders, 2)
}
