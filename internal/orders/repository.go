package orders

import (
	"context"
	"errors"
)

// ErrNotFound is returned for unknown order IDs.
var ErrNotFound = errors.New("order not found")

// Repository abstracts order persistence. The memory implementation is the
// default; the Postgres one is selected when DATABASE_URL is set.
type Repository interface {
	Init() error
	List(ctx context.Context) ([]*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
}
