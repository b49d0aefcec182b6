// Package catalog implements the SpookyMart product catalog service.
package catalog

import "time"

// Product is a catalog entry. Field names match what the order service's
// product client reads.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"isActive"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Seed returns the demo Halloween catalog the service starts with.
func Seed() []Product {
	now := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	return []Product{
		{ID: "prod-001", Name: "Vampire Costume Deluxe", Description: "Full vampire outfit with cape and fangs", Price: 49.99, Category: "costumes", Stock: 25, IsActive: true, CreatedAt: now},
		{ID: "prod-002", Name: "Spooky Jack-o'-Lantern", Description: "Hand-carved ceramic pumpkin with LED candle", Price: 24.99, Category: "decorations", Stock: 40, IsActive: true, CreatedAt: now},
		{ID: "prod-003", Name: "Witch Hat Classic", Description: "Wide-brim black witch hat", Price: 15.99, Category: "costumes", Stock: 60, IsActive: true, CreatedAt: now},
		{ID: "prod-004", Name: "Halloween Candy Mix", Description: "Five-pound assortment of seasonal candy", Price: 12.99, Category: "candy", Stock: 120, IsActive: true, CreatedAt: now},
		{ID: "prod-005", Name: "Haunted House Fog Machine", Description: "400W fog machine with remote", Price: 89.99, Category: "decorations", Stock: 0, IsActive: false, CreatedAt: now},
	}
}
