package app

import (
	"context"

	"orderdesk/internal/core"
)

// ApplicationService is the single interface all UI adapters call. It
// decouples presentation from business logic. Implementations must contain
// no display logic of any kind.
type ApplicationService interface {
	// ListOrders returns order headers, optionally filtered by status.
	// Items are not loaded for list views.
	ListOrders(ctx context.Context, status *core.Status) (*OrderListResult, error)

	// GetOrder returns one order with items, call history, status history,
	// remaining balance, and duplicate-contact warnings. ref may be a
	// numeric id or a display number like ORD-00042.
	GetOrder(ctx context.Context, ref string) (*OrderResult, error)

	// CreateOrder registers a new pending order.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)

	// SaveOrder applies one edit-screen submission: staged item changes,
	// customer field changes, and an optional status change, in that order.
	// Validation and the transition gate run before anything is written.
	SaveOrder(ctx context.Context, req SaveOrderRequest) (*OrderResult, error)

	// ListLeads returns lead headers, optionally filtered by status.
	ListLeads(ctx context.Context, status *core.Status) (*LeadListResult, error)

	// GetLead returns one lead with items, call history, status history,
	// and duplicate-contact warnings. ref may be a numeric id or a display
	// number like LED-00042.
	GetLead(ctx context.Context, ref string) (*LeadResult, error)

	// CreateLead registers a new not-contacted lead.
	CreateLead(ctx context.Context, req CreateLeadRequest) (*LeadResult, error)

	// SaveLead applies one edit-screen submission to a lead.
	SaveLead(ctx context.Context, req SaveLeadRequest) (*LeadResult, error)

	// ConvertLead turns a confirmed lead into a new pending order carrying
	// the lead's contact fields and active items.
	ConvertLead(ctx context.Context, ref string) (*OrderResult, error)

	// ListProducts returns the active product catalog.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// LogCall appends one call outcome to an entity's append-only call log.
	LogCall(ctx context.Context, req LogCallRequest) (*CallLogResult, error)

	// CallHistory returns an entity's call log, most recent first.
	CallHistory(ctx context.Context, kind core.EntityKind, ref string) (*CallLogListResult, error)
}
