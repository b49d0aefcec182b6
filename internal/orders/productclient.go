package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ProductClient talks to the product service on behalf of order creation.
type ProductClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// ErrProductService wraps transport-level failures talking to the product
// service, as opposed to a product simply not existing.
type ErrProductService struct {
	cause error
}

func (e *ErrProductService) Error() string { return "product service: " + e.cause.Error() }
func (e *ErrProductService) Unwrap() error { return e.cause }

func NewProductClient(baseURL string, log *zap.Logger) *ProductClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

// product mirrors the fields the order flow needs from the catalog.
type product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	IsActive bool    `json:"isActive"`
}

// Get fetches one product. A nil product with nil error means not found.
func (c *ProductClient) Get(ctx context.Context, productID string) (*product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products/"+productID, nil)
	if err != nil {
		return nil, &ErrProductService{cause: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ErrProductService{cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ErrProductService{cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Product *product `json:"product"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ErrProductService{cause: err}
	}
	if !body.Success || body.Data.Product == nil {
		return nil, &ErrProductService{cause: fmt.Errorf("unsuccessful response")}
	}
	return body.Data.Product, nil
}

// getBatch fetches several products concurrently.
func (c *ProductClient) getBatch(ctx context.Context, ids []string) (map[string]*product, error) {
	type result struct {
		id  string
		p   *product
		err error
	}
	results := make([]result, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			p, err := c.Get(ctx, id)
			results[i] = result{id: id, p: p, err: err}
		}(i, id)
	}
	wg.Wait()

	out := make(map[string]*product, len(ids))
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if res.p != nil {
			out[res.id] = res.p
		}
	}
	return out, nil
}

// ValidateItems checks every order item for existence, active status, stock,
// and price consistency. The errs slice is empty when the order is valid; a
// non-nil error means the product service itself could not be reached.
func (c *ProductClient) ValidateItems(ctx context.Context, items []Item) (errs []string, err error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := c.getBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			errs = append(errs, fmt.Sprintf("product %s not found", it.ProductID))
			continue
		}
		if !p.IsActive {
			errs = append(errs, fmt.Sprintf("product %s is not active", it.ProductID))
			continue
		}
		if p.Stock < it.Quantity {
			errs = append(errs, fmt.Sprintf("product %s: insufficient stock (need %d, have %d)", it.ProductID, it.Quantity, p.Stock))
			continue
		}
		// tolerate float drift between client and catalog
		if math.Abs(it.UnitPrice-p.Price) > 0.01 {
			errs = append(errs, fmt.Sprintf("product %s: price mismatch (expected %.2f, actual %.2f)", it.ProductID, it.UnitPrice, p.Price))
		}
	}
	return errs, nil
}

// Health reports whether the product service answers its health endpoint.
func (c *ProductClient) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("product service health check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// BaseURL returns the configured product service URL.
func (c *ProductClient) BaseURL() string { return c.baseURL }
