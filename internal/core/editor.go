package core

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// EntityStore is the persistence collaborator for the parent entity's own
// fields and status. UpdateStatus is expected to re-validate the locked set
// server-side and to append the status history entry in the same transaction
// as the update, writing nothing for a same-status submission.
type EntityStore interface {
	UpdateCustomerFields(ctx context.Context, kind EntityKind, entityID int, fields CustomerFields) error
	UpdateStatus(ctx context.Context, kind EntityKind, entityID int, target Status, actor string) error
}

// EditSession orchestrates one agent editing one order or lead: staged item
// edits, customer field edits, and a pending status change are collected
// locally and persisted together by Save. The three writes are independent;
// a failed call-log write never rolls back committed item or status changes.
type EditSession struct {
	kind          EntityKind
	entityID      int
	actor         string
	currentStatus Status
	fields        CustomerFields
	fieldsDirty   bool
	targetStatus  Status
	amountPaid    decimal.Decimal

	staging  *StagingStore
	recon    *Reconciler
	entities EntityStore
	calls    *CallRecorder

	saving atomic.Bool
}

// NewEditSession opens a session over the last-known-persisted state.
// recorder may be nil when the calling surface has no call-logging UI.
func NewEditSession(kind EntityKind, entityID int, actor string, status Status, fields CustomerFields,
	staging *StagingStore, items ItemStore, entities EntityStore, recorder *CallRecorder) *EditSession {
	return &EditSession{
		kind:          kind,
		entityID:      entityID,
		actor:         actor,
		currentStatus: status,
		fields:        fields,
		staging:       staging,
		recon:         NewReconciler(items),
		entities:      entities,
		calls:         recorder,
	}
}

// Staging exposes the staged item collection for rendering and editing.
func (e *EditSession) Staging() *StagingStore { return e.staging }

// Status returns the entity's current (persisted) status.
func (e *EditSession) Status() Status { return e.currentStatus }

// Customer returns the staged customer fields.
func (e *EditSession) Customer() CustomerFields { return e.fields }

// Total returns the staged order total over active items.
func (e *EditSession) Total() decimal.Decimal { return e.staging.Total() }

// RemainingBalance derives the display balance from the staged total and the
// amount recorded as paid.
func (e *EditSession) RemainingBalance() decimal.Decimal {
	return RemainingBalance(e.staging.Total(), e.amountPaid)
}

// SetCustomerFields stages new customer field values.
func (e *EditSession) SetCustomerFields(f CustomerFields) {
	e.fields = f
	e.fieldsDirty = true
}

// SetAmountPaid stages the amount-paid display input.
func (e *EditSession) SetAmountPaid(amount decimal.Decimal) {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	e.amountPaid = amount
}

// SetTargetStatus stages a status change to be gated and persisted on Save.
func (e *EditSession) SetTargetStatus(target Status) {
	e.targetStatus = target
}

// Save persists the staged edits: customer fields, then items, then the
// status change, each awaited in turn. Validation and the transition gate run
// before any collaborator call. On any failure the staged edits are left
// untouched (apart from item operations that had already succeeded) so the
// user can retry or abandon explicitly. A second Save while one is in flight
// returns ErrSaveInFlight.
func (e *EditSession) Save(ctx context.Context) error {
	if !e.saving.CompareAndSwap(false, true) {
		return ErrSaveInFlight
	}
	defer e.saving.Store(false)

	statusChanging := e.targetStatus != "" && e.targetStatus != e.currentStatus

	// Locked pre-check: runs before the status gate and blocks every field
	// and item edit. Transitions out of a locked status (shipped → delivered)
	// are still allowed when nothing else was edited.
	if EditsLocked(e.kind, e.currentStatus) && (e.fieldsDirty || e.staging.Dirty()) {
		return &TransitionRejected{Reason: fmt.Sprintf("%s is %s; editing is disabled", e.kind, e.currentStatus)}
	}

	if err := ValidateItems(e.staging.items); err != nil {
		return err
	}

	if statusChanging {
		if err := CheckTransition(e.kind, e.currentStatus, e.targetStatus, e.fields); err != nil {
			return err
		}
	}

	if e.fieldsDirty {
		if err := e.entities.UpdateCustomerFields(ctx, e.kind, e.entityID, e.fields); err != nil {
			return &PersistenceError{Op: "fields", Err: err}
		}
		e.fieldsDirty = false
	}

	if err := e.recon.Save(ctx, e.staging); err != nil {
		return err
	}

	if statusChanging {
		if err := e.entities.UpdateStatus(ctx, e.kind, e.entityID, e.targetStatus, e.actor); err != nil {
			return &PersistenceError{Op: "status", Err: err}
		}
		e.currentStatus = e.targetStatus
	}
	e.targetStatus = ""
	return nil
}

// AddCallOutcome appends a call log entry for this entity. It shares the
// session for convenience but is deliberately not part of Save: the two
// writes are triggered together from one user action yet stay independent.
func (e *EditSession) AddCallOutcome(ctx context.Context, outcome CallOutcome, notes string) (CallLogEntry, error) {
	if e.calls == nil {
		return CallLogEntry{}, fmt.Errorf("call logging is not available on this surface")
	}
	return e.calls.LogCall(ctx, e.kind, e.entityID, outcome, notes)
}
