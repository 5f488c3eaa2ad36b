package core

import "github.com/shopspring/decimal"

// StagingStore holds the in-memory, ordered line-item collection for one
// order or lead while the agent edits it. Every mutation is row-local:
// changing one item never touches another item's fields. Insertion order is
// preserved for display; it carries no meaning for money computation.
type StagingStore struct {
	kind     EntityKind
	entityID int
	items    []LineItem
}

// NewStagingStore builds a staging store from the last-persisted item set.
// Items start as unchanged with their line totals recomputed, so a stale or
// legacy-shaped persisted total can never leak into the staged view. A row
// without a persisted id (the normalized legacy single-product line) starts
// as new, so the first save materializes it instead of updating id 0.
func NewStagingStore(kind EntityKind, entityID int, persisted []LineItem) *StagingStore {
	items := make([]LineItem, 0, len(persisted))
	for _, it := range persisted {
		it.Quantity = ClampQuantity(it.Quantity)
		it.UnitPrice = ClampUnitPrice(it.UnitPrice)
		it.LineTotal = LineTotal(it.Quantity, it.UnitPrice)
		if it.ID == 0 {
			it.State = StateNew
		} else {
			it.State = StateUnchanged
		}
		items = append(items, it)
	}
	return &StagingStore{kind: kind, entityID: entityID, items: items}
}

// RestoreStagingStore rebuilds a staging store from a client-submitted item
// set that already carries reconciliation states. Removed items without a
// persisted id are dropped outright (nothing to delete server-side); every
// line total is recomputed from quantity and price.
func RestoreStagingStore(kind EntityKind, entityID int, staged []LineItem) *StagingStore {
	items := make([]LineItem, 0, len(staged))
	for _, it := range staged {
		if it.State == StateRemoved && it.ID == 0 {
			continue
		}
		switch it.State {
		case StateUnchanged, StateNew, StateModified, StateRemoved:
		default:
			it.State = StateModified
		}
		if it.ID == 0 && it.State != StateRemoved {
			it.State = StateNew
		}
		it.Quantity = ClampQuantity(it.Quantity)
		it.UnitPrice = ClampUnitPrice(it.UnitPrice)
		it.LineTotal = LineTotal(it.Quantity, it.UnitPrice)
		items = append(items, it)
	}
	return &StagingStore{kind: kind, entityID: entityID, items: items}
}

// Kind returns the parent entity kind.
func (s *StagingStore) Kind() EntityKind { return s.kind }

// EntityID returns the parent entity id.
func (s *StagingStore) EntityID() int { return s.entityID }

// Items returns a copy of the full staged collection, removed rows included.
func (s *StagingStore) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// ActiveItems returns a copy of the staged collection without removed rows.
func (s *StagingStore) ActiveItems() []LineItem {
	var out []LineItem
	for _, it := range s.items {
		if it.State != StateRemoved {
			out = append(out, it)
		}
	}
	return out
}

// Total is the staged order/lead total over active items.
func (s *StagingStore) Total() decimal.Decimal {
	return ItemsTotal(s.items)
}

// Dirty reports whether any staged item still owes a persistence operation.
func (s *StagingStore) Dirty() bool {
	for _, it := range s.items {
		if it.State != StateUnchanged {
			return true
		}
	}
	return false
}

// AddItem appends a new line defaulting to the given catalog product:
// quantity 1, unit price copied from the product. With an empty catalog the
// call is a silent no-op and returns false.
func (s *StagingStore) AddItem(catalog []Product) bool {
	if len(catalog) == 0 {
		return false
	}
	p := catalog[0]
	pid := p.ID
	s.items = append(s.items, LineItem{
		ProductID:   &pid,
		ProductName: p.Name,
		Quantity:    1,
		UnitPrice:   ClampUnitPrice(p.UnitPrice),
		LineTotal:   LineTotal(1, p.UnitPrice),
		State:       StateNew,
	})
	return true
}

// UpdateQuantity clamps and sets the quantity of the item at index,
// recomputing its line total. An unchanged item flips to modified. Clamping
// happens on every call so the displayed total always matches the inputs.
func (s *StagingStore) UpdateQuantity(index, quantity int) {
	it := s.mutable(index)
	if it == nil {
		return
	}
	it.Quantity = ClampQuantity(quantity)
	it.LineTotal = LineTotal(it.Quantity, it.UnitPrice)
	s.touch(it)
}

// UpdateUnitPrice clamps and sets the unit price of the item at index,
// recomputing its line total.
func (s *StagingStore) UpdateUnitPrice(index int, price decimal.Decimal) {
	it := s.mutable(index)
	if it == nil {
		return
	}
	it.UnitPrice = ClampUnitPrice(price)
	it.LineTotal = LineTotal(it.Quantity, it.UnitPrice)
	s.touch(it)
}

// ChangeProduct switches the item at index to the catalog product with the
// given id, overwriting product reference, display name, and unit price. A
// stale product id (not in the snapshot) leaves the row untouched.
func (s *StagingStore) ChangeProduct(index, productID int, catalog []Product) {
	it := s.mutable(index)
	if it == nil {
		return
	}
	for _, p := range catalog {
		if p.ID != productID {
			continue
		}
		pid := p.ID
		it.ProductID = &pid
		it.ProductName = p.Name
		it.UnitPrice = ClampUnitPrice(p.UnitPrice)
		it.LineTotal = LineTotal(it.Quantity, it.UnitPrice)
		s.touch(it)
		return
	}
}

// RemoveItem removes the item at index. A never-persisted item is spliced out
// immediately; a persisted one is kept as a removed row until save so the
// eventual delete can be reconciled.
func (s *StagingStore) RemoveItem(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	it := &s.items[index]
	if it.State == StateRemoved {
		return
	}
	if it.ID == 0 {
		s.items = append(s.items[:index], s.items[index+1:]...)
		return
	}
	it.State = StateRemoved
}

// mutable returns the addressable item at index, or nil when the index is out
// of range or the row has already been removed.
func (s *StagingStore) mutable(index int) *LineItem {
	if index < 0 || index >= len(s.items) {
		return nil
	}
	if s.items[index].State == StateRemoved {
		return nil
	}
	return &s.items[index]
}

func (s *StagingStore) touch(it *LineItem) {
	if it.State == StateUnchanged {
		it.State = StateModified
	}
}

// markSaved replaces the staged collection after a successful save: removed
// rows are gone and everything else is unchanged.
func (s *StagingStore) markSaved(items []LineItem) {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.State == StateRemoved {
			continue
		}
		it.State = StateUnchanged
		out = append(out, it)
	}
	s.items = out
}
