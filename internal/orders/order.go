// Package orders implements the SpookyMart order processing service.
package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Order statuses form a fixed linear progression; Cancelled is reachable
// only before shipping.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var statusRank = map[string]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusShipped:   2,
	StatusDelivered: 3,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Forward moves along the linear chain are allowed; cancellation
// only from pending or confirmed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	if to == StatusCancelled {
		return from == StatusPending || from == StatusConfirmed
	}
	fr, ok1 := statusRank[from]
	tr, ok2 := statusRank[to]
	return ok1 && ok2 && tr > fr
}

// Item is one line of an order.
type Item struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// ShippingAddress is carried verbatim; the demo performs no address
// validation.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Order is a customer order.
type Order struct {
	ID              string          `json:"id"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	Items           []Item          `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Status          string          `json:"status"`
	TotalAmount     float64         `json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CreateRequest is the create-order payload.
type CreateRequest struct {
	CustomerEmail   string          `json:"customer_email"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	Items           []Item          `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

func (r CreateRequest) validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	for i, it := range r.Items {
		if it.ProductID == "" {
			return fmt.Errorf("item %d: product_id is required", i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be > 0", i)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("item %d: unit_price must be >= 0", i)
		}
	}
	return nil
}

// Seed returns the demo orders the service starts with when it runs without
// a database.
func Seed() []*Order {
	return []*Order{
		{
			ID:            "order-001",
			CustomerEmail: "john.doe@spookymart.com",
			CustomerName:  "John Doe",
			CustomerPhone: "555-0123",
			Items: []Item{
				{ProductID: "prod-001", ProductName: "Vampire Costume Deluxe", Quantity: 1, UnitPrice: 49.99},
			},
			ShippingAddress: ShippingAddress{Street: "123 Halloween St", City: "Spookyville", State: "CA", ZipCode: "90210", Country: "USA"},
			Status:          StatusConfirmed,
			TotalAmount:     49.99,
			CreatedAt:       time.Date(2025, time.November, 1, 20, 0, 0, 0, time.UTC),
		},
		{
			ID:            "order-002",
			CustomerEmail: "jane.smith@spookymart.com",
			CustomerName:  "Jane Smith",
			CustomerPhone: "555-0456",
			Items: []Item{
				{ProductID: "prod-002", ProductName: "Spooky Jack-o'-Lantern", Quantity: 2, UnitPrice: 24.99},
				{ProductID: "prod-003", ProductName: "Witch Hat Classic", Quantity: 1, UnitPrice: 15.99},
			},
			ShippingAddress: ShippingAddress{Street: "456 Pumpkin Ave", City: "Ghosttown", State: "NY", ZipCode: "10001", Country: "USA"},
			Status:          StatusShipped,
			TotalAmount:     65.97,
			CreatedAt:       time.Date(2025, time.November, 1, 19, 30, 0, 0, time.UTC),
		},
		{
			ID:            "order-003",
			CustomerEmail: "bob.wilson@spookymart.com",
			CustomerName:  "Bob Wilson",
			CustomerPhone: "555-0789",
			Items: []Item{
				{ProductID: "prod-004", ProductName: "Halloween Candy Mix", Quantity: 3, UnitPrice: 12.99},
			},
			ShippingAddress: ShippingAddress{Street: "789 Candy Lane", City: "Sweetville", State: "TX", ZipCode: "75001", Country: "USA"},
			Status:          StatusDelivered,
			TotalAmount:     38.97,
			CreatedAt:       time.Date(2025, time.November, 1, 18, 15, 0, 0, time.UTC),
		},
	}
}

// NewOrder builds a pending order from a create request. The total is always
// computed server-side from quantity and unit price.
func NewOrder(req CreateRequest) Order {
	o := Order{
		ID:              uuid.New().String(),
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	for _, it := range o.Items {
		o.TotalAmount += float64(it.Quantity) * it.UnitPrice
	}
	return o
}
