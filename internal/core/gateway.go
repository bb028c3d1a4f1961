package core

import "context"

// CatalogGateway reads the remote catalog. Implementations return empty
// slices, not errors, when nothing matches, and preserve arrival order.
type CatalogGateway interface {
	ListClients(ctx context.Context, limit int) ([]Client, error)
	// SearchClients looks up by name when query contains a letter, by phone otherwise.
	SearchClients(ctx context.Context, query string) ([]Client, error)
	CreateClient(ctx context.Context, in NewClient) (*Client, error)

	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	ListCashAccounts(ctx context.Context) ([]CashAccount, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	ListPriceLists(ctx context.Context) ([]PriceList, error)

	ListProducts(ctx context.Context, limit int) ([]Product, error)
	SearchProducts(ctx context.Context, name string) ([]Product, error)
}

// OrderGateway submits a completed draft. It does not retry.
type OrderGateway interface {
	CreateOrder(ctx context.Context, sub OrderSubmission) error
}
