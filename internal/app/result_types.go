package app

import (
	"orderdesk/internal/core"

	"github.com/shopspring/decimal"
)

// OrderResult is returned by the single-order operations. RemainingBalance
// is derived, never stored; Duplicates are advisory and never block a save.
type OrderResult struct {
	Order            *core.Order               `json:"order"`
	RemainingBalance decimal.Decimal           `json:"remaining_balance"`
	CallLogs         []core.CallLogEntry       `json:"call_logs"`
	StatusHistory    []core.StatusHistoryEntry `json:"status_history"`
	Duplicates       []core.DuplicateMatch     `json:"duplicates"`
}

// LeadResult is returned by the single-lead operations.
type LeadResult struct {
	Lead          *core.Lead                `json:"lead"`
	CallLogs      []core.CallLogEntry       `json:"call_logs"`
	StatusHistory []core.StatusHistoryEntry `json:"status_history"`
	Duplicates    []core.DuplicateMatch     `json:"duplicates"`
}

// OrderListResult is returned by ListOrders. Headers only; items are loaded
// by GetOrder.
type OrderListResult struct {
	Orders []core.Order `json:"orders"`
}

// LeadListResult is returned by ListLeads.
type LeadListResult struct {
	Leads []core.Lead `json:"leads"`
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// CallLogResult is returned by LogCall.
type CallLogResult struct {
	Entry core.CallLogEntry `json:"entry"`
}

// CallLogListResult is returned by CallHistory.
type CallLogListResult struct {
	Entries []core.CallLogEntry `json:"entries"`
}
