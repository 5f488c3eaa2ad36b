package core

import (
	"fmt"
	"strings"
)

// Locked order statuses: once an order reaches one of these, every customer
// field and item edit is refused, independent of the target status.
var lockedOrderStatuses = map[Status]bool{
	OrderShipped:   true,
	OrderDelivered: true,
	OrderPaid:      true,
}

// Order statuses whose entry requires complete customer info
// (name, phone, city, address all non-empty after trimming).
var requiresCompleteInfo = map[Status]bool{
	OrderConfirmed: true,
	OrderShipped:   true,
	OrderDelivered: true,
	OrderReturned:  true,
	OrderPaid:      true,
	OrderCancelled: true,
}

// EditsLocked reports whether the entity's current status freezes all field
// and item editing. Leads are never locked.
func EditsLocked(kind EntityKind, current Status) bool {
	return kind == KindOrder && lockedOrderStatuses[current]
}

// CheckTransition gates a status change. The locked-state pre-check is the
// caller's job (EditsLocked) because it applies to every edit, not only
// status changes. A same-status target is a legal no-op and passes. The
// rejection for incomplete customer info is all-or-nothing at the
// status-change level; no field-level breakdown is produced.
func CheckTransition(kind EntityKind, current, target Status, fields CustomerFields) error {
	if target == current {
		return nil
	}
	if !ValidStatus(kind, target) {
		return &TransitionRejected{Target: target, Reason: fmt.Sprintf("unknown %s status", kind)}
	}
	if kind == KindOrder && requiresCompleteInfo[target] && !customerComplete(fields) {
		return &TransitionRejected{
			Target: target,
			Reason: fmt.Sprintf("status %q requires customer name, phone, city and address to be filled in", target),
		}
	}
	return nil
}

func customerComplete(f CustomerFields) bool {
	return strings.TrimSpace(f.Name) != "" &&
		strings.TrimSpace(f.Phone) != "" &&
		strings.TrimSpace(f.City) != "" &&
		strings.TrimSpace(f.Address) != ""
}
