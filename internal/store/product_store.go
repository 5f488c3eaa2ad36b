package store

import (
	"context"
	"fmt"

	"orderdesk/internal/core"

	"github.com/shopspring/decimal"
)

// ListProducts returns the active catalog, ordered by name. This snapshot is
// what the staging store defaults new lines from.
func (s *Store) ListProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, unit_price, is_active, created_at
		FROM products
		WHERE is_active = true
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

// CreateProduct adds a catalog entry. Used by intake flows and the demo seeder.
func (s *Store) CreateProduct(ctx context.Context, name string, unitPrice decimal.Decimal) (*core.Product, error) {
	var p core.Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, unit_price)
		VALUES ($1, $2)
		RETURNING id, name, unit_price, is_active, created_at
	`, name, core.ClampUnitPrice(unitPrice)).Scan(
		&p.ID, &p.Name, &p.UnitPrice, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}
