package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"order-desk/internal/core"
)

// degrade logs a failed catalog read and turns it into a user-facing warning.
func degrade(what string, err error) string {
	log.Printf("catalog: %s unavailable: %v", what, err)
	if errors.Is(err, core.ErrUnauthorized) {
		return fmt.Sprintf("could not load %s: not logged in to TableCRM", what)
	}
	return fmt.Sprintf("could not load %s: TableCRM is unreachable", what)
}

func shortQuery(query string) bool {
	return utf8.RuneCountInString(query) < minSearchRunes
}

func (s *appService) ListClients(ctx context.Context) *ClientListResult {
	clients, err := s.catalog.ListClients(ctx, initialListLimit)
	if err != nil {
		return &ClientListResult{Clients: []core.Client{}, Warning: degrade("clients", err)}
	}
	s.cache.putClients(clients)
	return &ClientListResult{Clients: clients}
}

func (s *appService) SearchClients(ctx context.Context, query string) *ClientListResult {
	query = strings.TrimSpace(query)
	if shortQuery(query) {
		return s.ListClients(ctx)
	}
	clients, err := s.catalog.SearchClients(ctx, query)
	if err != nil {
		return &ClientListResult{Clients: []core.Client{}, Warning: degrade("clients", err)}
	}
	s.cache.putClients(clients)
	return &ClientListResult{Clients: clients}
}

func (s *appService) DebouncedSearchClients(ctx context.Context, query string) (*ClientListResult, error) {
	var result *ClientListResult
	ran, err := s.clientSearch.Schedule(func() {
		result = s.SearchClients(ctx, query)
	}).Wait(ctx)
	if err != nil {
		return nil, err
	}
	if !ran {
		return nil, ErrSuperseded
	}
	return result, nil
}

func (s *appService) CreateClient(ctx context.Context, in core.NewClient) (*core.Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", core.ErrValidation)
	}
	created, err := s.catalog.CreateClient(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.cache.putClients([]core.Client{*created})
	return created, nil
}

func (s *appService) ListProducts(ctx context.Context) *ProductListResult {
	products, err := s.catalog.ListProducts(ctx, initialListLimit)
	if err != nil {
		return &ProductListResult{Products: []core.Product{}, Warning: degrade("products", err)}
	}
	s.cache.putProducts(products)
	return &ProductListResult{Products: products}
}

func (s *appService) SearchProducts(ctx context.Context, query string) *ProductListResult {
	query = strings.TrimSpace(query)
	if shortQuery(query) {
		return s.ListProducts(ctx)
	}
	products, err := s.catalog.SearchProducts(ctx, query)
	if err != nil {
		return &ProductListResult{Products: []core.Product{}, Warning: degrade("products", err)}
	}
	s.cache.putProducts(products)
	return &ProductListResult{Products: products}
}

func (s *appService) DebouncedSearchProducts(ctx context.Context, query string) (*ProductListResult, error) {
	var result *ProductListResult
	ran, err := s.productSearch.Schedule(func() {
		result = s.SearchProducts(ctx, query)
	}).Wait(ctx)
	if err != nil {
		return nil, err
	}
	if !ran {
		return nil, ErrSuperseded
	}
	return result, nil
}

// ListReferences fails only for an unknown kind; gateway errors degrade.
func (s *appService) ListReferences(ctx context.Context, kind core.RefKind) (*ReferenceListResult, error) {
	result := &ReferenceListResult{Kind: kind, References: []core.Reference{}}
	var err error

	switch kind {
	case core.RefClient:
		clients := s.ListClients(ctx)
		for _, c := range clients.Clients {
			result.References = append(result.References, c.Ref())
		}
		result.Warning = clients.Warning
		return result, nil
	case core.RefWarehouse:
		var list []core.Warehouse
		if list, err = s.catalog.ListWarehouses(ctx); err == nil {
			for _, w := range list {
				result.References = append(result.References, w.Ref())
			}
		}
	case core.RefCashAccount:
		var list []core.CashAccount
		if list, err = s.catalog.ListCashAccounts(ctx); err == nil {
			for _, c := range list {
				result.References = append(result.References, c.Ref())
			}
		}
	case core.RefOrganization:
		var list []core.Organization
		if list, err = s.catalog.ListOrganizations(ctx); err == nil {
			for _, o := range list {
				result.References = append(result.References, o.Ref())
			}
		}
	case core.RefPriceList:
		var list []core.PriceList
		if list, err = s.catalog.ListPriceLists(ctx); err == nil {
			for _, p := range list {
				result.References = append(result.References, p.Ref())
				if p.IsDefault && result.DefaultID == 0 {
					result.DefaultID = p.ID
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: %v", core.ErrUnknownReference, kind)
	}

	if err != nil {
		result.Warning = degrade(pluralName(kind), err)
		return result, nil
	}
	s.cache.putRefs(result.References)
	return result, nil
}

func pluralName(kind core.RefKind) string {
	switch kind {
	case core.RefWarehouse:
		return "warehouses"
	case core.RefCashAccount:
		return "cash accounts"
	case core.RefOrganization:
		return "organizations"
	case core.RefPriceList:
		return "price lists"
	}
	return "clients"
}
