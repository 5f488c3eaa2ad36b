package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"orderdesk/internal/core"

	"github.com/jackc/pgx/v5"
)

// entityTable maps an entity kind to its header table.
func entityTable(kind core.EntityKind) string {
	if kind == core.KindLead {
		return "leads"
	}
	return "orders"
}

// CreateItem persists one staged new item and returns it with the
// server-assigned id and recomputed line total. The parent entity's total is
// refreshed in the same transaction.
func (s *Store) CreateItem(ctx context.Context, kind core.EntityKind, entityID int, in core.ItemInput) (core.LineItem, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return core.LineItem{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockEntityTx(ctx, tx, kind, entityID); err != nil {
		return core.LineItem{}, err
	}

	qty := core.ClampQuantity(in.Quantity)
	price := core.ClampUnitPrice(in.UnitPrice)

	var item core.LineItem
	err = tx.QueryRow(ctx, `
		INSERT INTO entity_items (entity_kind, entity_id, product_id, product_name, quantity, unit_price, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
		        COALESCE((SELECT MAX(position) + 1 FROM entity_items WHERE entity_kind = $1 AND entity_id = $2), 0))
		RETURNING id, product_id, product_name, quantity, unit_price, line_total
	`, kind, entityID, in.ProductID, in.ProductName, qty, price, core.LineTotal(qty, price)).Scan(
		&item.ID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.LineTotal,
	)
	if err != nil {
		return core.LineItem{}, fmt.Errorf("failed to insert item: %w", err)
	}

	if err := refreshTotalTx(ctx, tx, kind, entityID); err != nil {
		return core.LineItem{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return core.LineItem{}, fmt.Errorf("failed to commit item creation: %w", err)
	}
	item.State = core.StateUnchanged
	return item, nil
}

// UpdateItem persists one staged modified item. On failure the item is
// assumed unchanged server-side.
func (s *Store) UpdateItem(ctx context.Context, itemID int, in core.ItemInput) (core.LineItem, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return core.LineItem{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	qty := core.ClampQuantity(in.Quantity)
	price := core.ClampUnitPrice(in.UnitPrice)

	var item core.LineItem
	var kind core.EntityKind
	var entityID int
	err = tx.QueryRow(ctx, `
		UPDATE entity_items
		SET product_id = $1, product_name = $2, quantity = $3, unit_price = $4, line_total = $5
		WHERE id = $6
		RETURNING id, entity_kind, entity_id, product_id, product_name, quantity, unit_price, line_total
	`, in.ProductID, in.ProductName, qty, price, core.LineTotal(qty, price), itemID).Scan(
		&item.ID, &kind, &entityID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.LineTotal,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.LineItem{}, &core.NotFoundError{Kind: "item", Ref: strconv.Itoa(itemID)}
		}
		return core.LineItem{}, fmt.Errorf("failed to update item %d: %w", itemID, err)
	}

	if err := refreshTotalTx(ctx, tx, kind, entityID); err != nil {
		return core.LineItem{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return core.LineItem{}, fmt.Errorf("failed to commit item update: %w", err)
	}
	item.State = core.StateUnchanged
	return item, nil
}

// DeleteItem removes one persisted item. On failure the item is assumed
// still present server-side.
func (s *Store) DeleteItem(ctx context.Context, itemID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var kind core.EntityKind
	var entityID int
	err = tx.QueryRow(ctx,
		"DELETE FROM entity_items WHERE id = $1 RETURNING entity_kind, entity_id",
		itemID,
	).Scan(&kind, &entityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &core.NotFoundError{Kind: "item", Ref: strconv.Itoa(itemID)}
		}
		return fmt.Errorf("failed to delete item %d: %w", itemID, err)
	}

	if err := refreshTotalTx(ctx, tx, kind, entityID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit item deletion: %w", err)
	}
	return nil
}

// AtomicItems exposes the replace-all strategy on top of the granular store.
// Handing this to the reconciler makes it send the whole active set as one
// call, so a save can never be partially applied.
type AtomicItems struct {
	*Store
}

func (s *Store) Atomic() AtomicItems {
	return AtomicItems{Store: s}
}

// ReplaceAllItems swaps the entity's entire persisted item set for the given
// one in a single transaction and recomputes the authoritative total. On
// failure the entity is unchanged.
func (a AtomicItems) ReplaceAllItems(ctx context.Context, kind core.EntityKind, entityID int, in []core.ItemInput) ([]core.LineItem, error) {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockEntityTx(ctx, tx, kind, entityID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM entity_items WHERE entity_kind = $1 AND entity_id = $2",
		kind, entityID,
	); err != nil {
		return nil, fmt.Errorf("failed to clear items: %w", err)
	}

	items := make([]core.LineItem, len(in))
	for i, input := range in {
		qty := core.ClampQuantity(input.Quantity)
		price := core.ClampUnitPrice(input.UnitPrice)
		err = tx.QueryRow(ctx, `
			INSERT INTO entity_items (entity_kind, entity_id, product_id, product_name, quantity, unit_price, line_total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, product_id, product_name, quantity, unit_price, line_total
		`, kind, entityID, input.ProductID, input.ProductName, qty, price, core.LineTotal(qty, price), i).Scan(
			&items[i].ID, &items[i].ProductID, &items[i].ProductName,
			&items[i].Quantity, &items[i].UnitPrice, &items[i].LineTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert replacement item %d: %w", i+1, err)
		}
		items[i].State = core.StateUnchanged
	}

	if err := refreshTotalTx(ctx, tx, kind, entityID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit item replacement: %w", err)
	}
	return items, nil
}

// lockEntityTx locks the parent entity row for the duration of the
// transaction, failing with NotFoundError when it does not exist.
func lockEntityTx(ctx context.Context, tx pgx.Tx, kind core.EntityKind, entityID int) error {
	var id int
	err := tx.QueryRow(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", entityTable(kind)),
		entityID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &core.NotFoundError{Kind: string(kind), Ref: strconv.Itoa(entityID)}
		}
		return fmt.Errorf("failed to lock %s %d: %w", kind, entityID, err)
	}
	return nil
}

// refreshTotalTx recomputes the entity total from its persisted line totals.
func refreshTotalTx(ctx context.Context, tx pgx.Tx, kind core.EntityKind, entityID int) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s
		SET total = (SELECT COALESCE(SUM(line_total), 0) FROM entity_items WHERE entity_kind = $1 AND entity_id = $2),
		    updated_at = NOW()
		WHERE id = $2
	`, entityTable(kind)), kind, entityID)
	if err != nil {
		return fmt.Errorf("failed to refresh %s %d total: %w", kind, entityID, err)
	}
	return nil
}

// fetchItemsQ loads the persisted item collection in display order.
func fetchItemsQ(ctx context.Context, q pgxQuerier, kind core.EntityKind, entityID int) ([]core.LineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, product_id, product_name, quantity, unit_price, line_total
		FROM entity_items
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY position, id
	`, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []core.LineItem
	for rows.Next() {
		var it core.LineItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		it.State = core.StateUnchanged
		items = append(items, it)
	}
	return items, nil
}
