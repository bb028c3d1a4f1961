package tablecrm

import (
	"context"
	"net/url"
	"regexp"
	"strconv"

	"order-desk/internal/core"
)

const (
	pathClients       = "/contragents/"
	pathWarehouses    = "/warehouses/"
	pathCashAccounts  = "/payboxes/"
	pathOrganizations = "/organizations/"
	pathPriceLists    = "/price_types/"
	pathProducts      = "/nomenclature/"
	pathOrders        = "/docs_sales/"

	productSearchLimit = 50
)

var (
	hasLetter = regexp.MustCompile(`[a-zA-Zа-яА-ЯёЁ]`)
	nonDigit  = regexp.MustCompile(`\D`)
)

// ClientSearchParams maps a free-text query to contragent filters: a query
// with any letter searches by name, anything else by phone digits.
func ClientSearchParams(query string) url.Values {
	params := url.Values{}
	if hasLetter.MatchString(query) {
		params.Set("name", query)
	} else {
		params.Set("phone", nonDigit.ReplaceAllString(query, ""))
	}
	return params
}

func limitParams(limit int) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

func (c *Client) ListClients(ctx context.Context, limit int) ([]core.Client, error) {
	body, err := c.get(ctx, pathClients, limitParams(limit))
	if err != nil {
		return nil, err
	}
	return decodeList[core.Client](body)
}

func (c *Client) SearchClients(ctx context.Context, query string) ([]core.Client, error) {
	body, err := c.get(ctx, pathClients, ClientSearchParams(query))
	if err != nil {
		return nil, err
	}
	return decodeList[core.Client](body)
}

// CreateClient posts a new contragent and returns it as TableCRM stored it.
func (c *Client) CreateClient(ctx context.Context, in core.NewClient) (*core.Client, error) {
	body, err := c.post(ctx, pathClients, in)
	if err != nil {
		return nil, err
	}
	return decodeOne[core.Client](body)
}

func (c *Client) ListWarehouses(ctx context.Context) ([]core.Warehouse, error) {
	body, err := c.get(ctx, pathWarehouses, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[core.Warehouse](body)
}

func (c *Client) ListCashAccounts(ctx context.Context) ([]core.CashAccount, error) {
	body, err := c.get(ctx, pathCashAccounts, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[core.CashAccount](body)
}

func (c *Client) ListOrganizations(ctx context.Context) ([]core.Organization, error) {
	body, err := c.get(ctx, pathOrganizations, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[core.Organization](body)
}

func (c *Client) ListPriceLists(ctx context.Context) ([]core.PriceList, error) {
	body, err := c.get(ctx, pathPriceLists, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[core.PriceList](body)
}

func (c *Client) ListProducts(ctx context.Context, limit int) ([]core.Product, error) {
	body, err := c.get(ctx, pathProducts, limitParams(limit))
	if err != nil {
		return nil, err
	}
	return decodeList[core.Product](body)
}

// SearchProducts matches nomenclature by name, capped at 50 results.
func (c *Client) SearchProducts(ctx context.Context, name string) ([]core.Product, error) {
	params := limitParams(productSearchLimit)
	params.Set("name", name)
	body, err := c.get(ctx, pathProducts, params)
	if err != nil {
		return nil, err
	}
	return decodeList[core.Product](body)
}
