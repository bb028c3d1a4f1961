package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"order-desk/internal/core"
	"order-desk/internal/debounce"
	"order-desk/internal/session"

	"github.com/shopspring/decimal"
)

type appService struct {
	catalog core.CatalogGateway
	orders  core.OrderGateway
	session *session.Holder
	agent   Interpreter
	cache   *catalogCache
	opts    Options

	clientSearch  *debounce.Debouncer
	productSearch *debounce.Debouncer

	mu    sync.Mutex
	draft *core.Draft
	state SubmissionState
	// generation changes on every draft reset so a late timer or submission
	// never touches a newer draft.
	generation uint64
	resetTimer *time.Timer
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil, which disables the assistant.
func NewAppService(
	catalog core.CatalogGateway,
	orders core.OrderGateway,
	holder *session.Holder,
	agent Interpreter,
	opts Options,
) ApplicationService {
	opts = opts.withDefaults()
	return &appService{
		catalog:       catalog,
		orders:        orders,
		session:       holder,
		agent:         agent,
		cache:         newCatalogCache(),
		opts:          opts,
		clientSearch:  debounce.New(opts.SearchDebounce),
		productSearch: debounce.New(opts.SearchDebounce),
		draft:         core.NewDraft(),
	}
}

func (s *appService) Restore(ctx context.Context) (bool, error) {
	return s.session.Restore(ctx)
}

func (s *appService) Login(ctx context.Context, token string) error {
	if err := s.session.Set(ctx, token); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	s.cache.reset()
	return nil
}

// Logout clears the token, drops the cached catalog and resets the draft.
func (s *appService) Logout(ctx context.Context) error {
	err := s.session.Clear(ctx)
	s.clientSearch.Cancel()
	s.productSearch.Cancel()
	s.cache.reset()

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *appService) Authenticated() bool {
	return s.session.Authenticated()
}

func (s *appService) Draft() DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *appService) viewLocked() DraftView {
	v := DraftView{
		Lines:         s.draft.Lines(),
		Comment:       s.draft.Comment(),
		TotalGross:    s.draft.TotalGross(),
		TotalDiscount: s.draft.TotalDiscount(),
		TotalNet:      s.draft.TotalNet(),
		Complete:      s.draft.IsComplete(),
		Missing:       s.draft.Missing(),
		Submission:    s.state,
	}
	for _, kind := range core.RefKinds() {
		slot := Slot{Kind: kind}
		if ref, ok := s.draft.Reference(kind); ok {
			slot.Reference = &ref
		}
		v.Slots = append(v.Slots, slot)
	}
	return v
}

func (s *appService) Attach(kind core.RefKind, id int) (core.Reference, error) {
	if !kind.Valid() {
		return core.Reference{}, fmt.Errorf("%w: %v", core.ErrUnknownReference, kind)
	}
	ref, ok := s.cache.ref(kind, id)
	if !ok {
		return core.Reference{}, fmt.Errorf("%w: %s %d has not been listed", core.ErrNotFound, kind, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.draft.Attach(kind, &ref); err != nil {
		return core.Reference{}, err
	}
	return ref, nil
}

func (s *appService) Detach(kind core.RefKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Attach(kind, nil)
}

// LoadDefaults fills empty slots the way the order form preselects them.
func (s *appService) LoadDefaults(ctx context.Context) *DefaultsResult {
	result := &DefaultsResult{}
	for _, kind := range []core.RefKind{core.RefWarehouse, core.RefCashAccount, core.RefOrganization, core.RefPriceList} {
		s.mu.Lock()
		_, attached := s.draft.Reference(kind)
		s.mu.Unlock()
		if attached {
			continue
		}

		list, _ := s.ListReferences(ctx, kind)
		if list.Warning != "" {
			result.Warnings = append(result.Warnings, list.Warning)
			continue
		}
		if len(list.References) == 0 {
			continue
		}
		ref := list.References[0]
		if kind == core.RefPriceList && list.DefaultID != 0 {
			for _, r := range list.References {
				if r.ID == list.DefaultID {
					ref = r
					break
				}
			}
		}

		s.mu.Lock()
		if _, ok := s.draft.Reference(kind); !ok {
			_ = s.draft.Attach(kind, &ref)
			result.Attached = append(result.Attached, ref)
		}
		s.mu.Unlock()
	}
	return result
}

// AddProduct appends a line priced at the product's catalog price. A
// non-positive quantity becomes 1.
func (s *appService) AddProduct(productID int, quantity decimal.Decimal) (int, core.LineItem, error) {
	p, ok := s.cache.product(productID)
	if !ok {
		return 0, core.LineItem{}, fmt.Errorf("%w: product %d has not been listed", core.ErrNotFound, productID)
	}
	if !quantity.IsPositive() {
		quantity = decimal.NewFromInt(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.draft.AddLine(p.ID, p.Unit, p.Price, quantity, p.Name)
	l, err := s.draft.Line(i)
	return i, l, err
}

func (s *appService) UpdateLine(index int, edit core.LineEdit) (core.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.UpdateLine(index, edit)
}

func (s *appService) EditLine(index int, edit core.LineEdit) (core.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if edit.Kind() != core.EditMixed {
		return s.draft.UpdateLine(index, edit)
	}
	override, forward := edit.Split()
	if _, err := s.draft.UpdateLine(index, override); err != nil {
		return core.LineItem{}, err
	}
	return s.draft.UpdateLine(index, forward)
}

func (s *appService) StepQuantity(index int, delta int64) (core.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.StepQuantity(index, delta)
}

func (s *appService) RemoveLine(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.RemoveLine(index)
}

func (s *appService) ClearLines() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.ClearLines()
}

func (s *appService) SetComment(comment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.SetComment(comment)
}

func (s *appService) ResetDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// resetLocked empties the draft and cancels a pending confirmation reset. An
// in-flight submission keeps its guard until the gateway answers.
func (s *appService) resetLocked() {
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.draft.Reset()
	s.generation++
	if s.state == SubmissionConfirmed {
		s.state = SubmissionIdle
	}
}
