package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityKind distinguishes the two editable parent entities. Orders and leads
// share the line-item and call-log machinery but carry different status sets.
type EntityKind string

const (
	KindOrder EntityKind = "order"
	KindLead  EntityKind = "lead"
)

// Status is a lifecycle value for an order or a lead. Validity depends on the
// entity kind; see ValidStatus.
type Status string

// Order lifecycle.
const (
	OrderPending   Status = "pending"
	OrderTake      Status = "take"
	OrderCallAgain Status = "call_again"
	OrderConfirmed Status = "confirmed"
	OrderShipped   Status = "shipped"
	OrderDelivered Status = "delivered"
	OrderReturned  Status = "returned"
	OrderPaid      Status = "paid"
	OrderTrashed   Status = "trashed"
	OrderCancelled Status = "cancelled"
)

// Lead funnel.
const (
	LeadNotContacted  Status = "not_contacted"
	LeadNoAnswer      Status = "no_answer"
	LeadInterested    Status = "interested"
	LeadNotInterested Status = "not_interested"
	LeadConfirmed     Status = "confirmed"
)

// ReconciliationState tags each staged line item with the persistence
// operation it still owes. It is set at the point of mutation and never
// inferred later by diffing field values.
type ReconciliationState string

const (
	StateUnchanged ReconciliationState = "unchanged"
	StateNew       ReconciliationState = "new"
	StateModified  ReconciliationState = "modified"
	StateRemoved   ReconciliationState = "removed"
)

// LineItem is one product line on an order or lead. ID is zero until the item
// has been persisted. ProductID is nil for free-text legacy lines.
// LineTotal is derived and never independently settable.
type LineItem struct {
	ID          int                 `json:"id"`
	ProductID   *int                `json:"product_id,omitempty"`
	ProductName string              `json:"product_name"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	LineTotal   decimal.Decimal     `json:"line_total"`
	State       ReconciliationState `json:"state"`
}

// Product is a catalog entry. Name and price are copied onto a line item at
// selection time and do not update retroactively.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// CustomerFields are the independently editable contact fields on an order or
// lead. PostalCode applies to orders only and stays empty on leads.
type CustomerFields struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Order is a customer order as last seen from the persistence collaborator.
// Number is the human-facing display identifier, distinct from ID.
// AmountPaid is independent of the item total and is only used to derive a
// remaining-balance display value.
type Order struct {
	ID         int             `json:"id"`
	Number     string          `json:"number"`
	Customer   CustomerFields  `json:"customer"`
	Status     Status          `json:"status"`
	Items      []LineItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Lead is a sales lead; it carries the same item machinery as an order with a
// shorter status funnel and no postal code.
type Lead struct {
	ID        int             `json:"id"`
	Number    string          `json:"number"`
	Customer  CustomerFields  `json:"customer"`
	Status    Status          `json:"status"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CallOutcome is the fixed taxonomy for call log entries.
type CallOutcome string

const (
	OutcomeNoAnswer      CallOutcome = "no_answer"
	OutcomeInterested    CallOutcome = "interested"
	OutcomeNotInterested CallOutcome = "not_interested"
	OutcomeWrongNumber   CallOutcome = "wrong_number"
	OutcomeCallAgain     CallOutcome = "call_again"
)

// Valid reports whether o is one of the known outcomes.
func (o CallOutcome) Valid() bool {
	switch o {
	case OutcomeNoAnswer, OutcomeInterested, OutcomeNotInterested, OutcomeWrongNumber, OutcomeCallAgain:
		return true
	}
	return false
}

// CallLogEntry is one append-only call record. Entries are never mutated or
// deleted once written.
type CallLogEntry struct {
	ID        int         `json:"id"`
	Kind      EntityKind  `json:"entity_kind"`
	EntityID  int         `json:"entity_id"`
	Outcome   CallOutcome `json:"outcome"`
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"created_at"`
}

// StatusHistoryEntry records one accepted status transition. Exactly one
// entry is written per accepted transition; none for a rejected or
// same-status submission.
type StatusHistoryEntry struct {
	ID         int        `json:"id"`
	Kind       EntityKind `json:"entity_kind"`
	EntityID   int        `json:"entity_id"`
	FromStatus Status     `json:"from_status"`
	ToStatus   Status     `json:"to_status"`
	Actor      string     `json:"actor"`
	CreatedAt  time.Time  `json:"created_at"`
}

var orderStatuses = map[Status]bool{
	OrderPending: true, OrderTake: true, OrderCallAgain: true,
	OrderConfirmed: true, OrderShipped: true, OrderDelivered: true,
	OrderReturned: true, OrderPaid: true, OrderTrashed: true, OrderCancelled: true,
}

var leadStatuses = map[Status]bool{
	LeadNotContacted: true, LeadNoAnswer: true, LeadInterested: true,
	LeadNotInterested: true, LeadConfirmed: true,
}

// ValidStatus reports whether s is a known status for the given entity kind.
func ValidStatus(kind EntityKind, s Status) bool {
	if kind == KindOrder {
		return orderStatuses[s]
	}
	return leadStatuses[s]
}
