package store_test

import (
	"errors"
	"testing"

	"orderdesk/internal/core"
)

func TestEntityStore_CreateAndList(t *testing.T) {
	pool, s, ctx := setupTestDB(t)
	defer pool.Close()

	order := seedOrder(t, s, ctx)
	if order.Number == "" || order.Status != core.OrderPending {
		t.Errorf("unexpected new order: number=%q status=%s", order.Number, order.Status)
	}

	lead := seedLead(t, s, ctx)
	if lead.Number == "" || lead.Status != core.LeadNotContacted {
		t.Errorf("unexpected new lead: number=%q status=%s", lead.Number, lead.Status)
	}

	pending := core.OrderPending
	orders, err := s.ListOrders(ctx, &pending)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("expected 1 pending order, got %d", len(orders))
	}

	shipped := core.OrderShipped
	orders, err = s.ListOrders(ctx, &shipped)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("expected 0 shipped orders, got %d", len(orders))
	}
}

func TestEntityStore_UpdateStatusWritesOneHistoryEntry(t *testing.T) {
	pool, s, ctx := setupTestDB(t)
	defer pool.Close()

	order := seedOrder(t, s, ctx)

	if err := s.UpdateStatus(ctx, core.KindOrder, order.ID, core.OrderConfirmed, "agent-7"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	history, err := s.StatusHistory(ctx, core.KindOrder, order.ID)
	if err != nil {
		t.Fatalf("StatusHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected exactly 1 history entry, got %d", len(history))
	}
	e := history[0]
	if e.FromStatus != core.OrderPending || e.ToStatus != core.OrderConfirmed || e.Actor != "agent-7" {
		t.Errorf("unexpected history entry: %+v", e)
	}

	// Same-status submission: no-op, no extra history row.
	if err := s.UpdateStatus(ctx, core.KindOrder, order.ID, core.OrderConfirmed, "agent-7"); err != nil {
		t.Fatalf("same-status UpdateStatus failed: %v", err)
	}
	history, _ = s.StatusHistory(ctx, core.KindOrder, order.ID)
	if len(history) != 1 {
		t.Errorf("same-status submission wrote a redundant history entry: %d rows", len(history))
	}
}

func TestEntityStore_UpdateStatusRevalidatesGate(t *testing.T) {
	pool, s, ctx := setupTestDB(t)
	defer pool.Close()

	lead := seedLead(t, s, ctx)

	// An order with a blank address cannot be shipped, even if a stale client
	// bypasses the client-side gate.
	order := seedOrder(t, s, ctx)
	if err := s.UpdateCustomerFields(ctx, core.KindOrder, order.ID, core.CustomerFields{
		Name: "Sara B.", Phone: "+212600000001", City: "Casablanca", Address: "",
	}); err != nil {
		t.Fatalf("UpdateCustomerFields failed: %v", err)
	}

	err := s.UpdateStatus(ctx, core.KindOrder, order.ID, core.OrderShipped, "agent-7")
	var rej *core.TransitionRejected
	if !errors.As(err, &rej) {
		t.Fatalf("expected TransitionRejected, got %v", err)
	}
	if history, _ := s.StatusHistory(ctx, core.KindOrder, order.ID); len(history) != 0 {
		t.Errorf("rejected transition left a history entry")
	}

	// Lead statuses never carry the info gate.
	if err := s.UpdateStatus(ctx, core.KindLead, lead.ID, core.LeadInterested, "agent-7"); err != nil {
		t.Fatalf("lead transition failed: %v", err)
	}
}

func TestEntityStore_UpdateCustomerFields(t *testing.T) {
	pool, s, ctx := setupTestDB(t)
	defer pool.Close()

	order := seedOrder(t, s, ctx)
	fields := order.Customer
	fields.City = "Rabat"
	fields.PostalCode = "10000"
	if err := s.UpdateCustomerFields(ctx, core.KindOrder, order.ID, fields); err != nil {
		t.Fatalf("UpdateCustomerFields failed: %v", err)
	}

	reloaded, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if reloaded.Customer.City != "Rabat" || reloaded.Customer.PostalCode != "10000" {
		t.Errorf("fields not persisted: %+v", reloaded.Customer)
	}

	var nf *core.NotFoundError
	if err := s.UpdateCustomerFields(ctx, core.KindOrder, 9999, fields); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestEntityStore_ConvertLead(t *testing.T) {
	pool, s, ctx := setupTestDB(t)
	defer pool.Close()

	lead := seedLead(t, s, ctx)

	// Conversion requires the lead to be confirmed.
	_, err := s.ConvertLead(ctx, lead.ID)
	var rej *core.TransitionRejected
	if !errors.As(err, &rej) {
		t.Fatalf("expected TransitionRejected for unconfirmed lead, got %v", err)
	}

	if err := s.UpdateStatus(ctx, core.KindLead, lead.ID, core.LeadConfirmed, "agent-7"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	order, err := s.ConvertLead(ctx, lead.ID)
	if err != nil {
		t.Fatalf("ConvertLead failed: %v", err)
	}
	if order.Status != core.OrderPending {
		t.Errorf("converted order should start pending, got %s", order.Status)
	}
	if order.Customer.Name != lead.Customer.Name || order.Customer.Phone != lead.Customer.Phone {
		t.Errorf("customer fields not copied: %+v", order.Customer)
	}
	if len(order.Items) != len(lead.Items) {
		t.Errorf("items not copied: %d vs %d", len(order.Items), len(lead.Items))
	}
	if !order.Total.Equal(lead.Total) {
		t.Errorf("total mismatch after conversion: %s vs %s", order.Total, lead.Total)
	}
}

func TestEntityStore_GetMissing(t *testing.T) {
	pool, s, ctx := setupTestDB(t)
	defer pool.Close()

	var nf *core.NotFoundError
	if _, err := s.GetOrder(ctx, 424242); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
	if _, err := s.GetLead(ctx, 424242); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
