package app

import (
	"context"
	"strconv"

	"orderdesk/internal/core"
	"orderdesk/internal/store"

	"github.com/go-playground/validator/v10"
)

type appService struct {
	store    *store.Store
	detector *core.DuplicateDetector
	recorder *core.CallRecorder
	validate *validator.Validate
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(st *store.Store, detector *core.DuplicateDetector) ApplicationService {
	return &appService{
		store:    st,
		detector: detector,
		recorder: core.NewCallRecorder(st),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ListOrders returns order headers, optionally filtered by status.
func (s *appService) ListOrders(ctx context.Context, status *core.Status) (*OrderListResult, error) {
	orders, err := s.store.ListOrders(ctx, status)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

// GetOrder returns one order with its item collection and side panels.
func (s *appService) GetOrder(ctx context.Context, ref string) (*OrderResult, error) {
	id, err := s.resolveOrderRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.orderResult(ctx, id)
}

// CreateOrder registers a new pending order.
func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	order, err := s.store.CreateOrder(ctx, store.CreateOrderInput{
		Customer:    customerFields(req.Customer),
		InitialItem: itemInput(req.InitialItem),
	})
	if err != nil {
		return nil, err
	}
	return s.orderResult(ctx, order.ID)
}

// SaveOrder replays one edit-screen submission through an edit session so
// the same gate order applies on every surface: locked pre-check, item
// validation, transition gate, then the writes.
func (s *appService) SaveOrder(ctx context.Context, req SaveOrderRequest) (*OrderResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	id, err := s.resolveOrderRef(ctx, req.Ref)
	if err != nil {
		return nil, err
	}
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	staging := core.RestoreStagingStore(core.KindOrder, order.ID, stagedItems(req.Items))
	session := core.NewEditSession(core.KindOrder, order.ID, req.Actor, order.Status,
		order.Customer, staging, s.store.Atomic(), s.store, s.recorder)

	if req.Customer != nil {
		session.SetCustomerFields(customerFields(*req.Customer))
	}
	if req.AmountPaid != nil {
		session.SetAmountPaid(*req.AmountPaid)
	}
	if req.TargetStatus != "" {
		session.SetTargetStatus(core.Status(req.TargetStatus))
	}

	if err := session.Save(ctx); err != nil {
		return nil, err
	}
	if req.AmountPaid != nil {
		if err := s.store.UpdateAmountPaid(ctx, order.ID, *req.AmountPaid); err != nil {
			return nil, err
		}
	}
	return s.orderResult(ctx, order.ID)
}

// ListLeads returns lead headers, optionally filtered by status.
func (s *appService) ListLeads(ctx context.Context, status *core.Status) (*LeadListResult, error) {
	leads, err := s.store.ListLeads(ctx, status)
	if err != nil {
		return nil, err
	}
	return &LeadListResult{Leads: leads}, nil
}

// GetLead returns one lead with its item collection and side panels.
func (s *appService) GetLead(ctx context.Context, ref string) (*LeadResult, error) {
	id, err := s.resolveLeadRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.leadResult(ctx, id)
}

// CreateLead registers a new not-contacted lead.
func (s *appService) CreateLead(ctx context.Context, req CreateLeadRequest) (*LeadResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	lead, err := s.store.CreateLead(ctx, store.CreateLeadInput{
		Customer:    customerFields(req.Customer),
		InitialItem: itemInput(req.InitialItem),
	})
	if err != nil {
		return nil, err
	}
	return s.leadResult(ctx, lead.ID)
}

// SaveLead replays one edit-screen submission for a lead.
func (s *appService) SaveLead(ctx context.Context, req SaveLeadRequest) (*LeadResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	id, err := s.resolveLeadRef(ctx, req.Ref)
	if err != nil {
		return nil, err
	}
	lead, err := s.store.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	staging := core.RestoreStagingStore(core.KindLead, lead.ID, stagedItems(req.Items))
	session := core.NewEditSession(core.KindLead, lead.ID, req.Actor, lead.Status,
		lead.Customer, staging, s.store.Atomic(), s.store, s.recorder)

	if req.Customer != nil {
		session.SetCustomerFields(customerFields(*req.Customer))
	}
	if req.TargetStatus != "" {
		session.SetTargetStatus(core.Status(req.TargetStatus))
	}

	if err := session.Save(ctx); err != nil {
		return nil, err
	}
	return s.leadResult(ctx, lead.ID)
}

// ConvertLead turns a confirmed lead into a new pending order.
func (s *appService) ConvertLead(ctx context.Context, ref string) (*OrderResult, error) {
	id, err := s.resolveLeadRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	order, err := s.store.ConvertLead(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.orderResult(ctx, order.ID)
}

// ListProducts returns the active product catalog.
func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

// LogCall appends one call outcome to an entity's log.
func (s *appService) LogCall(ctx context.Context, req LogCallRequest) (*CallLogResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	kind := core.EntityKind(req.Kind)
	id, err := s.resolveRef(ctx, kind, req.Ref)
	if err != nil {
		return nil, err
	}
	entry, err := s.recorder.LogCall(ctx, kind, id, core.CallOutcome(req.Outcome), req.Notes)
	if err != nil {
		return nil, err
	}
	return &CallLogResult{Entry: entry}, nil
}

// CallHistory returns an entity's call log, most recent first.
func (s *appService) CallHistory(ctx context.Context, kind core.EntityKind, ref string) (*CallLogListResult, error) {
	id, err := s.resolveRef(ctx, kind, ref)
	if err != nil {
		return nil, err
	}
	entries, err := s.recorder.History(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return &CallLogListResult{Entries: entries}, nil
}

// orderResult assembles the full edit-screen payload for one order.
func (s *appService) orderResult(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	calls, err := s.recorder.History(ctx, core.KindOrder, orderID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.StatusHistory(ctx, core.KindOrder, orderID)
	if err != nil {
		return nil, err
	}
	dups, err := s.duplicates(ctx, core.KindOrder, orderID, order.Customer.Phone)
	if err != nil {
		return nil, err
	}
	return &OrderResult{
		Order:            order,
		RemainingBalance: core.RemainingBalance(order.Total, order.AmountPaid),
		CallLogs:         calls,
		StatusHistory:    history,
		Duplicates:       dups,
	}, nil
}

// leadResult assembles the full edit-screen payload for one lead.
func (s *appService) leadResult(ctx context.Context, leadID int) (*LeadResult, error) {
	lead, err := s.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	calls, err := s.recorder.History(ctx, core.KindLead, leadID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.StatusHistory(ctx, core.KindLead, leadID)
	if err != nil {
		return nil, err
	}
	dups, err := s.duplicates(ctx, core.KindLead, leadID, lead.Customer.Phone)
	if err != nil {
		return nil, err
	}
	return &LeadResult{
		Lead:          lead,
		CallLogs:      calls,
		StatusHistory: history,
		Duplicates:    dups,
	}, nil
}

func (s *appService) duplicates(ctx context.Context, kind core.EntityKind, id int, phone string) ([]core.DuplicateMatch, error) {
	contacts, err := s.store.ListPhoneContacts(ctx)
	if err != nil {
		return nil, err
	}
	return s.detector.FindMatches(phone, kind, id, contacts), nil
}

func (s *appService) resolveRef(ctx context.Context, kind core.EntityKind, ref string) (int, error) {
	if kind == core.KindOrder {
		return s.resolveOrderRef(ctx, ref)
	}
	return s.resolveLeadRef(ctx, ref)
}

// resolveOrderRef accepts a numeric id or a display number.
func (s *appService) resolveOrderRef(ctx context.Context, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return id, nil
	}
	return s.store.OrderIDByNumber(ctx, ref)
}

func (s *appService) resolveLeadRef(ctx context.Context, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return id, nil
	}
	return s.store.LeadIDByNumber(ctx, ref)
}

func customerFields(in CustomerInput) core.CustomerFields {
	return core.CustomerFields{
		Name:       in.Name,
		Phone:      in.Phone,
		Address:    in.Address,
		City:       in.City,
		PostalCode: in.PostalCode,
	}
}

func itemInput(in *NewItemInput) *core.ItemInput {
	if in == nil {
		return nil
	}
	return &core.ItemInput{
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
	}
}

// stagedItems rebuilds the staged line items from a submission. Line totals
// are recomputed server-side; the submitted values are never trusted.
func stagedItems(items []StagedItem) []core.LineItem {
	out := make([]core.LineItem, len(items))
	for i, it := range items {
		qty := core.ClampQuantity(it.Quantity)
		price := core.ClampUnitPrice(it.UnitPrice)
		out[i] = core.LineItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    qty,
			UnitPrice:   price,
			LineTotal:   core.LineTotal(qty, price),
			State:       core.ReconciliationState(it.State),
		}
	}
	return out
}
