package app

import (
	"github.com/shopspring/decimal"
)

// StagedItem is one line of a staged item collection as submitted by the
// edit screen. ID is zero for rows added during the session; State carries
// the pending persistence operation for each row.
type StagedItem struct {
	ID          int             `json:"id"`
	ProductID   *int            `json:"product_id"`
	ProductName string          `json:"product_name" validate:"required_without=ProductID"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	State       string          `json:"state" validate:"omitempty,oneof=unchanged new modified removed"`
}

// NewItemInput is the optional initial line on a freshly created order or
// lead.
type NewItemInput struct {
	ProductID   *int            `json:"product_id"`
	ProductName string          `json:"product_name" validate:"required_without=ProductID"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CustomerInput mirrors the editable contact fields. Completeness is not
// enforced here: incomplete contact data is legal until a status that
// requires it is targeted.
type CustomerInput struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// CreateOrderRequest is the input for registering a new order.
type CreateOrderRequest struct {
	Customer    CustomerInput `json:"customer"`
	InitialItem *NewItemInput `json:"initial_item" validate:"omitempty"`
}

// CreateLeadRequest is the input for registering a new lead.
type CreateLeadRequest struct {
	Customer    CustomerInput `json:"customer"`
	InitialItem *NewItemInput `json:"initial_item" validate:"omitempty"`
}

// SaveOrderRequest is one edit-screen submission for an order. Items is the
// full staged collection, not a delta. Customer is nil when the contact
// fields were not touched; TargetStatus is empty when no status change is
// requested; AmountPaid is nil when the paid amount was not edited.
type SaveOrderRequest struct {
	Ref          string           `json:"-" validate:"required"`
	Actor        string           `json:"actor" validate:"required"`
	Items        []StagedItem     `json:"items" validate:"dive"`
	Customer     *CustomerInput   `json:"customer"`
	TargetStatus string           `json:"target_status"`
	AmountPaid   *decimal.Decimal `json:"amount_paid"`
}

// SaveLeadRequest is one edit-screen submission for a lead.
type SaveLeadRequest struct {
	Ref          string         `json:"-" validate:"required"`
	Actor        string         `json:"actor" validate:"required"`
	Items        []StagedItem   `json:"items" validate:"dive"`
	Customer     *CustomerInput `json:"customer"`
	TargetStatus string         `json:"target_status"`
}

// LogCallRequest appends one call outcome to an order's or lead's log.
type LogCallRequest struct {
	Kind    string `json:"-" validate:"required,oneof=order lead"`
	Ref     string `json:"-" validate:"required"`
	Outcome string `json:"outcome" validate:"required"`
	Notes   string `json:"notes"`
}
