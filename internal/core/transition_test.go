package core_test

import (
	"errors"
	"strings"
	"testing"

	"orderdesk/internal/core"
)

func completeCustomer() core.CustomerFields {
	return core.CustomerFields{
		Name:    "Sara B.",
		Phone:   "+212600000001",
		Address: "12 Rue des Orangers",
		City:    "Casablanca",
	}
}

func TestCheckTransition_RequiresCompleteInfo(t *testing.T) {
	incomplete := completeCustomer()
	incomplete.Address = "   " // whitespace only counts as empty

	tests := []struct {
		name    string
		target  core.Status
		fields  core.CustomerFields
		wantErr bool
	}{
		{"shipped with empty address rejected", core.OrderShipped, incomplete, true},
		{"shipped with complete info accepted", core.OrderShipped, completeCustomer(), false},
		{"confirmed requires info", core.OrderConfirmed, core.CustomerFields{}, true},
		{"cancelled requires info", core.OrderCancelled, core.CustomerFields{}, true},
		{"call_again never requires info", core.OrderCallAgain, core.CustomerFields{}, false},
		{"trashed never requires info", core.OrderTrashed, core.CustomerFields{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.CheckTransition(core.KindOrder, core.OrderPending, tt.target, tt.fields)
			if tt.wantErr {
				var rej *core.TransitionRejected
				if !errors.As(err, &rej) {
					t.Fatalf("expected TransitionRejected, got %v", err)
				}
				if rej.Target != tt.target {
					t.Errorf("rejection names target %q, want %q", rej.Target, tt.target)
				}
				if !strings.Contains(rej.Error(), string(tt.target)) {
					t.Errorf("message %q does not mention the blocked status", rej.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected rejection: %v", err)
			}
		})
	}
}

func TestCheckTransition_SameStatusIsNoOp(t *testing.T) {
	// Same-status submission passes the gate even with incomplete info.
	if err := core.CheckTransition(core.KindOrder, core.OrderConfirmed, core.OrderConfirmed, core.CustomerFields{}); err != nil {
		t.Errorf("same-status transition should be a legal no-op, got %v", err)
	}
}

func TestCheckTransition_UnknownStatus(t *testing.T) {
	err := core.CheckTransition(core.KindLead, core.LeadNotContacted, core.Status("shipped"), completeCustomer())
	var rej *core.TransitionRejected
	if !errors.As(err, &rej) {
		t.Fatalf("expected TransitionRejected for a status foreign to leads, got %v", err)
	}
}

func TestCheckTransition_LeadFunnelHasNoInfoGate(t *testing.T) {
	// Lead statuses never require complete customer info.
	for _, target := range []core.Status{core.LeadNoAnswer, core.LeadInterested, core.LeadNotInterested, core.LeadConfirmed} {
		if err := core.CheckTransition(core.KindLead, core.LeadNotContacted, target, core.CustomerFields{}); err != nil {
			t.Errorf("lead transition to %s rejected: %v", target, err)
		}
	}
}

func TestEditsLocked(t *testing.T) {
	locked := []core.Status{core.OrderShipped, core.OrderDelivered, core.OrderPaid}
	for _, s := range locked {
		if !core.EditsLocked(core.KindOrder, s) {
			t.Errorf("order status %s should lock edits", s)
		}
	}
	open := []core.Status{core.OrderPending, core.OrderTake, core.OrderConfirmed, core.OrderReturned, core.OrderCancelled, core.OrderTrashed}
	for _, s := range open {
		if core.EditsLocked(core.KindOrder, s) {
			t.Errorf("order status %s should not lock edits", s)
		}
	}
	if core.EditsLocked(core.KindLead, core.LeadConfirmed) {
		t.Error("leads are never locked")
	}
}
