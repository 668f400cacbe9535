package postgres

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CatalogRepo reads the product catalog and customer registry the engine is
// seeded from at boot. The engine never writes back.
type CatalogRepo struct{ DB Querier }

func (r *CatalogRepo) ListProducts(ctx context.Context) ([]orders.Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, price_cents, stock FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (orders.Product, error) {
		var p orders.Product
		err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock)
		return p, err
	})
}

func (r *CatalogRepo) ListCustomers(ctx context.Context) ([]orders.Customer, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, loyalty_points FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (orders.Customer, error) {
		var c orders.Customer
		err := row.Scan(&c.ID, &c.Name, &c.LoyaltyPoints)
		return c, err
	})
}
