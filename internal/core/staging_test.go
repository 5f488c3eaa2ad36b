package core_test

import (
	"context"
	"testing"

	"orderdesk/internal/core"
)

func testCatalog() []core.Product {
	return []core.Product{
		{ID: 1, Name: "Widget A", UnitPrice: d("10.00"), IsActive: true},
		{ID: 2, Name: "Widget B", UnitPrice: d("5.50"), IsActive: true},
	}
}

func intPtr(v int) *int { return &v }

func TestStagingStore_AddItem(t *testing.T) {
	s := core.NewStagingStore(core.KindOrder, 1, nil)

	if s.AddItem(nil) {
		t.Error("AddItem with empty catalog should be a no-op")
	}
	if len(s.Items()) != 0 {
		t.Fatalf("expected empty store, got %d items", len(s.Items()))
	}

	if !s.AddItem(testCatalog()) {
		t.Fatal("AddItem failed with a non-empty catalog")
	}
	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.State != core.StateNew {
		t.Errorf("expected state new, got %s", it.State)
	}
	if it.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", it.Quantity)
	}
	if it.ProductName != "Widget A" || !it.UnitPrice.Equal(d("10.00")) {
		t.Errorf("expected catalog defaults, got %q @ %s", it.ProductName, it.UnitPrice)
	}
	if !it.LineTotal.Equal(d("10.00")) {
		t.Errorf("expected line total 10.00, got %s", it.LineTotal)
	}
}

func TestStagingStore_UpdateClampsAndFlipsState(t *testing.T) {
	persisted := []core.LineItem{
		{ID: 11, ProductID: intPtr(1), ProductName: "Widget A", Quantity: 2, UnitPrice: d("10.00")},
	}
	s := core.NewStagingStore(core.KindOrder, 1, persisted)

	if s.Items()[0].State != core.StateUnchanged {
		t.Fatalf("loaded item should start unchanged, got %s", s.Items()[0].State)
	}

	s.UpdateQuantity(0, -3)
	it := s.Items()[0]
	if it.Quantity != 1 {
		t.Errorf("quantity not clamped: got %d, want 1", it.Quantity)
	}
	if it.State != core.StateModified {
		t.Errorf("expected modified after edit, got %s", it.State)
	}
	if !it.LineTotal.Equal(d("10.00")) {
		t.Errorf("line total not recomputed: got %s", it.LineTotal)
	}

	s.UpdateUnitPrice(0, d("-4"))
	it = s.Items()[0]
	if !it.UnitPrice.Equal(d("0")) {
		t.Errorf("price not clamped: got %s", it.UnitPrice)
	}
	if !it.LineTotal.Equal(d("0")) {
		t.Errorf("line total not recomputed after price clamp: got %s", it.LineTotal)
	}

	// Out-of-range indexes are ignored.
	s.UpdateQuantity(5, 3)
	s.UpdateUnitPrice(-1, d("1"))
	if len(s.Items()) != 1 {
		t.Errorf("out-of-range update changed the collection")
	}
}

func TestStagingStore_ChangeProduct(t *testing.T) {
	persisted := []core.LineItem{
		{ID: 11, ProductID: intPtr(1), ProductName: "Widget A", Quantity: 3, UnitPrice: d("10.00")},
	}
	s := core.NewStagingStore(core.KindOrder, 1, persisted)

	// Stale catalog reference: no-op, row stays intact.
	s.ChangeProduct(0, 99, testCatalog())
	it := s.Items()[0]
	if it.ProductName != "Widget A" || it.State != core.StateUnchanged {
		t.Errorf("stale product id corrupted the row: %+v", it)
	}

	s.ChangeProduct(0, 2, testCatalog())
	it = s.Items()[0]
	if it.ProductName != "Widget B" || *it.ProductID != 2 {
		t.Errorf("product not switched: %+v", it)
	}
	if !it.UnitPrice.Equal(d("5.50")) || !it.LineTotal.Equal(d("16.50")) {
		t.Errorf("price/total not recomputed: %s / %s", it.UnitPrice, it.LineTotal)
	}
	if it.State != core.StateModified {
		t.Errorf("expected modified, got %s", it.State)
	}
	if it.Quantity != 3 {
		t.Errorf("quantity must survive a product change, got %d", it.Quantity)
	}
}

func TestStagingStore_RemoveItem(t *testing.T) {
	persisted := []core.LineItem{
		{ID: 11, ProductID: intPtr(1), ProductName: "Widget A", Quantity: 1, UnitPrice: d("10.00")},
	}
	s := core.NewStagingStore(core.KindOrder, 1, persisted)
	s.AddItem(testCatalog())

	// Removing the never-persisted item splices it out.
	s.RemoveItem(1)
	if len(s.Items()) != 1 {
		t.Fatalf("new item should be spliced out, have %d items", len(s.Items()))
	}

	// Removing the persisted item keeps it as a tombstone until save.
	s.RemoveItem(0)
	items := s.Items()
	if len(items) != 1 || items[0].State != core.StateRemoved {
		t.Fatalf("persisted item should stay as removed, got %+v", items)
	}
	if len(s.ActiveItems()) != 0 {
		t.Errorf("removed item leaked into active view")
	}
	if !s.Total().Equal(d("0")) {
		t.Errorf("removed item still counted in total: %s", s.Total())
	}

	// Mutations on a removed row are ignored.
	s.UpdateQuantity(0, 50)
	if s.Items()[0].Quantity == 50 {
		t.Errorf("removed row accepted a quantity edit")
	}
}

func TestStagingStore_MutationsAreRowLocal(t *testing.T) {
	persisted := []core.LineItem{
		{ID: 11, ProductID: intPtr(1), ProductName: "Widget A", Quantity: 2, UnitPrice: d("10.00")},
		{ID: 12, ProductID: intPtr(2), ProductName: "Widget B", Quantity: 1, UnitPrice: d("5.50")},
	}
	s := core.NewStagingStore(core.KindOrder, 1, persisted)

	s.UpdateQuantity(0, 7)
	other := s.Items()[1]
	if other.Quantity != 1 || other.State != core.StateUnchanged || !other.UnitPrice.Equal(d("5.50")) {
		t.Errorf("editing row 0 touched row 1: %+v", other)
	}
}

func TestStagingStore_LegacyRowWithoutIDStartsNew(t *testing.T) {
	// A legacy single-product order is loaded as one synthesized item that
	// has never been persisted as a row of its own.
	persisted := []core.LineItem{
		{ProductName: "Slimming Patch", Quantity: 3, UnitPrice: d("49.90")},
	}
	s := core.NewStagingStore(core.KindOrder, 1, persisted)

	if got := s.Items()[0].State; got != core.StateNew {
		t.Fatalf("id-0 row must load as new, got %s", got)
	}
	if !s.Dirty() {
		t.Error("legacy row should leave the store dirty until first save")
	}

	store := &fakeItemStore{nextID: 500}
	if err := core.NewReconciler(store).Save(context.Background(), s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if store.creates != 1 || store.updates != 0 {
		t.Errorf("legacy row must be created, not updated: %d creates / %d updates",
			store.creates, store.updates)
	}
	it := s.Items()[0]
	if it.ID == 0 || it.State != core.StateUnchanged {
		t.Errorf("legacy row not materialized by first save: %+v", it)
	}
}

func TestRestoreStagingStore_DropsRemovedWithoutID(t *testing.T) {
	staged := []core.LineItem{
		{ID: 11, Quantity: 2, UnitPrice: d("10.00"), State: core.StateRemoved},
		{ID: 0, Quantity: 1, UnitPrice: d("5.50"), State: core.StateRemoved},
		{ID: 0, ProductName: "Free text", Quantity: 1, UnitPrice: d("3.00"), State: core.StateNew},
	}
	s := core.RestoreStagingStore(core.KindLead, 7, staged)

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("removed-without-id row should be dropped, got %d items", len(items))
	}
	if items[0].State != core.StateRemoved {
		t.Errorf("persisted removed row lost its state: %s", items[0].State)
	}
	if items[1].State != core.StateNew {
		t.Errorf("unpersisted row must be new, got %s", items[1].State)
	}
}
