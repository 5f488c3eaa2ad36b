package core

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// ItemInput is the payload for a single item create or update. The
// collaborator recomputes the authoritative line total server-side.
type ItemInput struct {
	ProductID   *int
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// ItemStore is the granular persistence collaborator: one call per item.
type ItemStore interface {
	CreateItem(ctx context.Context, kind EntityKind, entityID int, in ItemInput) (LineItem, error)
	UpdateItem(ctx context.Context, itemID int, in ItemInput) (LineItem, error)
	DeleteItem(ctx context.Context, itemID int) error
}

// ItemReplacer is the atomic persistence collaborator: the full active item
// set replaces whatever is persisted in one call, and the collaborator
// recomputes the authoritative totals. When a collaborator implements both
// interfaces the reconciler always prefers this one, because it removes the
// possibility of partial application.
type ItemReplacer interface {
	ReplaceAllItems(ctx context.Context, kind EntityKind, entityID int, in []ItemInput) ([]LineItem, error)
}

// Reconciler turns a staged item collection into the minimal set of
// persistence calls. It has no UI dependency; every edit surface is a thin
// caller.
type Reconciler struct {
	store ItemStore
}

func NewReconciler(store ItemStore) *Reconciler {
	return &Reconciler{store: store}
}

// ValidateItems runs the pre-flight checks that must pass before any
// collaborator call: at least one active item, and every active item has a
// product or free-text name, a positive integer quantity, a non-negative
// price, and a strictly positive line total. Failures are reported per row.
func ValidateItems(items []LineItem) error {
	var rows []RowError
	active := 0
	for i, it := range items {
		if it.State == StateRemoved {
			continue
		}
		active++
		if it.ProductID == nil && strings.TrimSpace(it.ProductName) == "" {
			rows = append(rows, RowError{Row: i, Field: "product", Message: "select a product or enter a name"})
		}
		if it.Quantity < 1 {
			rows = append(rows, RowError{Row: i, Field: "quantity", Message: "quantity must be at least 1"})
		}
		if it.UnitPrice.IsNegative() {
			rows = append(rows, RowError{Row: i, Field: "unit_price", Message: "unit price cannot be negative"})
		}
		if !LineTotal(it.Quantity, it.UnitPrice).IsPositive() {
			rows = append(rows, RowError{Row: i, Field: "line_total", Message: "line total must be greater than 0"})
		}
	}
	if active == 0 {
		rows = append(rows, RowError{Row: -1, Field: "items", Message: "at least one line item is required"})
	}
	if len(rows) > 0 {
		return &ValidationError{Rows: rows}
	}
	return nil
}

// Save validates the staged collection and persists it. A collection with no
// pending edits issues no persistence calls at all, in either mode. When the
// collaborator implements ItemReplacer the whole active set is sent as one
// atomic call; otherwise one create/update/delete is issued per pending item,
// in staging order, failing fast on the first error. Items whose calls
// succeeded before a failure are promoted to unchanged, so a retry only
// re-issues what is still pending. The staged collection is never reset on
// failure.
func (r *Reconciler) Save(ctx context.Context, s *StagingStore) error {
	if err := ValidateItems(s.items); err != nil {
		return err
	}
	if !s.Dirty() {
		return nil
	}

	if rep, ok := r.store.(ItemReplacer); ok {
		return r.replaceAll(ctx, rep, s)
	}

	completed := 0
	for i := 0; i < len(s.items); i++ {
		it := s.items[i]
		switch it.State {
		case StateRemoved:
			if err := r.store.DeleteItem(ctx, it.ID); err != nil {
				return &PersistenceError{Op: "delete", Completed: completed, Err: err}
			}
			completed++
			s.items = append(s.items[:i], s.items[i+1:]...)
			i--
		case StateNew:
			saved, err := r.store.CreateItem(ctx, s.kind, s.entityID, inputOf(it))
			if err != nil {
				return &PersistenceError{Op: "create", Completed: completed, Err: err}
			}
			completed++
			saved.State = StateUnchanged
			s.items[i] = saved
		case StateModified:
			saved, err := r.store.UpdateItem(ctx, it.ID, inputOf(it))
			if err != nil {
				return &PersistenceError{Op: "update", Completed: completed, Err: err}
			}
			completed++
			saved.State = StateUnchanged
			s.items[i] = saved
		}
	}
	return nil
}

func (r *Reconciler) replaceAll(ctx context.Context, rep ItemReplacer, s *StagingStore) error {
	active := s.ActiveItems()
	inputs := make([]ItemInput, len(active))
	for i, it := range active {
		inputs[i] = inputOf(it)
	}
	saved, err := rep.ReplaceAllItems(ctx, s.kind, s.entityID, inputs)
	if err != nil {
		return &PersistenceError{Op: "replace", Err: err}
	}
	s.markSaved(saved)
	return nil
}

func inputOf(it LineItem) ItemInput {
	return ItemInput{
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
	}
}
