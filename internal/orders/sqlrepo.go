package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// SQLRepository persists orders in Postgres. Items and the shipping address
// are stored as JSONB alongside the queryable columns.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository { return &SQLRepository{db: db} }

func (r *SQLRepository) Init() error {
	_, err := r.db.Exec(`
CREATE TABLE IF NOT EXISTS orders (
  id UUID PRIMARY KEY,
  customer_email TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT,
  items JSONB NOT NULL,
  shipping_address JSONB NOT NULL,
  status TEXT NOT NULL,
  total_amount NUMERIC(12,2) NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	return err
}

const orderColumns = `id, customer_email, customer_name, COALESCE(customer_phone,''), items, shipping_address, status, total_amount, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var items, addr []byte
	if err := row.Scan(&o.ID, &o.CustomerEmail, &o.CustomerName, &o.CustomerPhone,
		&items, &addr, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *SQLRepository) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO orders (id, customer_email, customer_name, customer_phone, items, shipping_address, status, total_amount, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.CustomerEmail, o.CustomerName, o.CustomerPhone, items, addr, o.Status, o.TotalAmount, o.CreatedAt)
	return err
}

func (r *SQLRepository) Update(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE orders SET customer_email=$2, customer_name=$3, customer_phone=$4, items=$5, shipping_address=$6, status=$7, total_amount=$8
WHERE id=$1`,
		o.ID, o.CustomerEmail, o.CustomerName, o.CustomerPhone, items, addr, o.Status, o.TotalAmount)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
