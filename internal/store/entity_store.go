package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"orderdesk/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// CreateOrderInput carries everything an intake action (manual creation or
// lead conversion) provides. InitialItem is optional: orders may start with
// zero or one line.
type CreateOrderInput struct {
	Customer    core.CustomerFields
	Status      core.Status
	InitialItem *core.ItemInput
}

// CreateLeadInput mirrors CreateOrderInput for leads.
type CreateLeadInput struct {
	Customer    core.CustomerFields
	Status      core.Status
	InitialItem *core.ItemInput
}

// CreateOrder inserts a new order, assigns its display number, and optionally
// attaches one initial line item, all in one transaction.
func (s *Store) CreateOrder(ctx context.Context, in CreateOrderInput) (*core.Order, error) {
	status := in.Status
	if status == "" {
		status = core.OrderPending
	}
	if !core.ValidStatus(core.KindOrder, status) {
		return nil, &core.TransitionRejected{Target: status, Reason: "unknown order status"}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_name, phone, address, city, postal_code, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, in.Customer.Name, in.Customer.Phone, in.Customer.Address, in.Customer.City, in.Customer.PostalCode, status).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE orders SET number = 'ORD-' || LPAD(id::text, 5, '0') WHERE id = $1",
		orderID,
	); err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	if in.InitialItem != nil {
		if err := insertItemTx(ctx, tx, core.KindOrder, orderID, 0, *in.InitialItem); err != nil {
			return nil, err
		}
		if err := refreshTotalTx(ctx, tx, core.KindOrder, orderID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

// CreateLead inserts a new lead, assigns its display number, and optionally
// attaches one initial line item.
func (s *Store) CreateLead(ctx context.Context, in CreateLeadInput) (*core.Lead, error) {
	status := in.Status
	if status == "" {
		status = core.LeadNotContacted
	}
	if !core.ValidStatus(core.KindLead, status) {
		return nil, &core.TransitionRejected{Target: status, Reason: "unknown lead status"}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var leadID int
	err = tx.QueryRow(ctx, `
		INSERT INTO leads (customer_name, phone, address, city, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, in.Customer.Name, in.Customer.Phone, in.Customer.Address, in.Customer.City, status).Scan(&leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert lead: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE leads SET number = 'LED-' || LPAD(id::text, 5, '0') WHERE id = $1",
		leadID,
	); err != nil {
		return nil, fmt.Errorf("failed to assign lead number: %w", err)
	}

	if in.InitialItem != nil {
		if err := insertItemTx(ctx, tx, core.KindLead, leadID, 0, *in.InitialItem); err != nil {
			return nil, err
		}
		if err := refreshTotalTx(ctx, tx, core.KindLead, leadID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit lead creation: %w", err)
	}
	return s.GetLead(ctx, leadID)
}

// GetOrder loads one order with its item collection. A legacy single-product
// order (no entity_items rows, non-empty legacy fields) is normalized into a
// one-item collection at load so all downstream logic sees one representation.
func (s *Store) GetOrder(ctx context.Context, orderID int) (*core.Order, error) {
	var o core.Order
	var legacyName string
	var legacyQty int
	var legacyPrice decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT id, number, customer_name, phone, address, city, postal_code, status,
		       total, amount_paid, legacy_product_name, legacy_quantity, legacy_unit_price,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.Number, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Address,
		&o.Customer.City, &o.Customer.PostalCode, &o.Status,
		&o.Total, &o.AmountPaid, &legacyName, &legacyQty, &legacyPrice,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "order", Ref: strconv.Itoa(orderID)}
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	items, err := fetchItemsQ(ctx, s.pool, core.KindOrder, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = normalizeLegacy(items, legacyName, legacyQty, legacyPrice)
	o.Total = core.ItemsTotal(o.Items)
	return &o, nil
}

// GetLead loads one lead with its item collection, applying the same legacy
// normalization as GetOrder.
func (s *Store) GetLead(ctx context.Context, leadID int) (*core.Lead, error) {
	var l core.Lead
	var legacyName string
	var legacyQty int
	var legacyPrice decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT id, number, customer_name, phone, address, city, status,
		       total, legacy_product_name, legacy_quantity, legacy_unit_price,
		       created_at, updated_at
		FROM leads
		WHERE id = $1
	`, leadID).Scan(
		&l.ID, &l.Number, &l.Customer.Name, &l.Customer.Phone, &l.Customer.Address,
		&l.Customer.City, &l.Status,
		&l.Total, &legacyName, &legacyQty, &legacyPrice,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "lead", Ref: strconv.Itoa(leadID)}
		}
		return nil, fmt.Errorf("failed to fetch lead %d: %w", leadID, err)
	}

	items, err := fetchItemsQ(ctx, s.pool, core.KindLead, leadID)
	if err != nil {
		return nil, err
	}
	l.Items = normalizeLegacy(items, legacyName, legacyQty, legacyPrice)
	l.Total = core.ItemsTotal(l.Items)
	return &l, nil
}

// ListOrders returns order headers (no items), optionally filtered by status,
// most recent first.
func (s *Store) ListOrders(ctx context.Context, status *core.Status) ([]core.Order, error) {
	query := `
		SELECT id, number, customer_name, phone, address, city, postal_code, status,
		       total, amount_paid, created_at, updated_at
		FROM orders
	`
	args := []any{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []core.Order
	for rows.Next() {
		var o core.Order
		if err := rows.Scan(
			&o.ID, &o.Number, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Address,
			&o.Customer.City, &o.Customer.PostalCode, &o.Status,
			&o.Total, &o.AmountPaid, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// ListLeads returns lead headers (no items), optionally filtered by status,
// most recent first.
func (s *Store) ListLeads(ctx context.Context, status *core.Status) ([]core.Lead, error) {
	query := `
		SELECT id, number, customer_name, phone, address, city, status,
		       total, created_at, updated_at
		FROM leads
	`
	args := []any{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []core.Lead
	for rows.Next() {
		var l core.Lead
		if err := rows.Scan(
			&l.ID, &l.Number, &l.Customer.Name, &l.Customer.Phone, &l.Customer.Address,
			&l.Customer.City, &l.Status,
			&l.Total, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, nil
}

// UpdateCustomerFields persists a full customer field set for the entity.
func (s *Store) UpdateCustomerFields(ctx context.Context, kind core.EntityKind, entityID int, fields core.CustomerFields) error {
	var tag pgconn.CommandTag
	var err error
	if kind == core.KindOrder {
		tag, err = s.pool.Exec(ctx, `
			UPDATE orders
			SET customer_name = $1, phone = $2, address = $3, city = $4, postal_code = $5, updated_at = NOW()
			WHERE id = $6
		`, fields.Name, fields.Phone, fields.Address, fields.City, fields.PostalCode, entityID)
	} else {
		tag, err = s.pool.Exec(ctx, `
			UPDATE leads
			SET customer_name = $1, phone = $2, address = $3, city = $4, updated_at = NOW()
			WHERE id = $5
		`, fields.Name, fields.Phone, fields.Address, fields.City, entityID)
	}
	if err != nil {
		return fmt.Errorf("failed to update %s %d fields: %w", kind, entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: string(kind), Ref: strconv.Itoa(entityID)}
	}
	return nil
}

// UpdateAmountPaid persists the amount-paid value for an order. It is only
// ever written when the agent explicitly saves it.
func (s *Store) UpdateAmountPaid(ctx context.Context, orderID int, amount decimal.Decimal) error {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE orders SET amount_paid = $1, updated_at = NOW() WHERE id = $2",
		amount, orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order %d amount paid: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return &core.NotFoundError{Kind: "order", Ref: strconv.Itoa(orderID)}
	}
	return nil
}

// UpdateStatus re-validates the transition gate against the persisted state,
// then writes the new status and exactly one history entry in the same
// transaction. A same-status submission is a no-op with no history row.
func (s *Store) UpdateStatus(ctx context.Context, kind core.EntityKind, entityID int, target core.Status, actor string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	table := entityTable(kind)
	var current core.Status
	var fields core.CustomerFields
	err = tx.QueryRow(ctx, fmt.Sprintf(
		"SELECT status, customer_name, phone, address, city FROM %s WHERE id = $1 FOR UPDATE", table),
		entityID,
	).Scan(&current, &fields.Name, &fields.Phone, &fields.Address, &fields.City)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &core.NotFoundError{Kind: string(kind), Ref: strconv.Itoa(entityID)}
		}
		return fmt.Errorf("failed to fetch %s %d: %w", kind, entityID, err)
	}

	if target == current {
		return tx.Commit(ctx)
	}
	if err := core.CheckTransition(kind, current, target, fields); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2", table),
		target, entityID,
	); err != nil {
		return fmt.Errorf("failed to update %s %d status: %w", kind, entityID, err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO status_history (entity_kind, entity_id, from_status, to_status, actor)
		VALUES ($1, $2, $3, $4, $5)
	`, kind, entityID, current, target, actor); err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

// StatusHistory returns the entity's accepted transitions, most recent first.
func (s *Store) StatusHistory(ctx context.Context, kind core.EntityKind, entityID int) ([]core.StatusHistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, entity_kind, entity_id, from_status, to_status, actor, created_at
		FROM status_history
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
	`, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var entries []core.StatusHistoryEntry
	for rows.Next() {
		var e core.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.EntityID, &e.FromStatus, &e.ToStatus, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ConvertLead creates an order from a confirmed lead, copying its customer
// fields and active items. The lead itself is left in place.
func (s *Store) ConvertLead(ctx context.Context, leadID int) (*core.Order, error) {
	lead, err := s.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status != core.LeadConfirmed {
		return nil, &core.TransitionRejected{
			Reason: fmt.Sprintf("only confirmed leads can be converted; lead %s is %s", lead.Number, lead.Status),
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_name, phone, address, city, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, lead.Customer.Name, lead.Customer.Phone, lead.Customer.Address, lead.Customer.City, core.OrderPending).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert converted order: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"UPDATE orders SET number = 'ORD-' || LPAD(id::text, 5, '0') WHERE id = $1",
		orderID,
	); err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	for i, it := range lead.Items {
		if it.State == core.StateRemoved {
			continue
		}
		in := core.ItemInput{ProductID: it.ProductID, ProductName: it.ProductName, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		if err := insertItemTx(ctx, tx, core.KindOrder, orderID, i, in); err != nil {
			return nil, err
		}
	}
	if err := refreshTotalTx(ctx, tx, core.KindOrder, orderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit lead conversion: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

// OrderIDByNumber resolves a display number like ORD-00042 to its numeric id.
func (s *Store) OrderIDByNumber(ctx context.Context, number string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx, "SELECT id FROM orders WHERE number = $1", number).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &core.NotFoundError{Kind: "order", Ref: number}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve order number: %w", err)
	}
	return id, nil
}

// LeadIDByNumber resolves a display number like LED-00042 to its numeric id.
func (s *Store) LeadIDByNumber(ctx context.Context, number string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx, "SELECT id FROM leads WHERE number = $1", number).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &core.NotFoundError{Kind: "lead", Ref: number}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve lead number: %w", err)
	}
	return id, nil
}

// insertItemTx inserts one item row within an existing transaction.
func insertItemTx(ctx context.Context, tx pgx.Tx, kind core.EntityKind, entityID, position int, in core.ItemInput) error {
	qty := core.ClampQuantity(in.Quantity)
	price := core.ClampUnitPrice(in.UnitPrice)
	_, err := tx.Exec(ctx, `
		INSERT INTO entity_items (entity_kind, entity_id, product_id, product_name, quantity, unit_price, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, kind, entityID, in.ProductID, in.ProductName, qty, price, core.LineTotal(qty, price), position)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// normalizeLegacy folds the single-product legacy columns into the item
// collection when no real items exist. The synthesized row has no persisted
// id; the staging layer tags id-0 rows as new, so the first save creates a
// real item row rather than updating a nonexistent one.
func normalizeLegacy(items []core.LineItem, name string, qty int, price decimal.Decimal) []core.LineItem {
	if len(items) > 0 || strings.TrimSpace(name) == "" {
		return items
	}
	return []core.LineItem{{
		ProductName: name,
		Quantity:    core.ClampQuantity(qty),
		UnitPrice:   core.ClampUnitPrice(price),
		LineTotal:   core.LineTotal(qty, price),
		State:       core.StateUnchanged,
	}}
}
