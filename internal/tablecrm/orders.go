package tablecrm

import (
	"context"

	"order-desk/internal/core"
)

// orderOperation is the document operation label TableCRM expects for sales orders.
const orderOperation = "Заказ"

type orderGood struct {
	Nomenclature  int     `json:"nomenclature"`
	Quantity      float64 `json:"quantity"`
	Unit          int     `json:"unit"`
	Price         float64 `json:"price"`
	Discount      float64 `json:"discount"`
	SumDiscounted float64 `json:"sum_discounted"`
}

// createOrderPayload is one element of the /docs_sales/ request array.
type createOrderPayload struct {
	Priority      int            `json:"priority"`
	Dated         int64          `json:"dated"`
	Operation     string         `json:"operation"`
	TaxIncluded   bool           `json:"tax_included"`
	TaxActive     bool           `json:"tax_active"`
	Goods         []orderGood    `json:"goods"`
	Settings      map[string]any `json:"settings"`
	LoyaltyCardID *int           `json:"loyality_card_id,omitempty"`
	Warehouse     int            `json:"warehouse"`
	Contragent    int            `json:"contragent"`
	Paybox        int            `json:"paybox"`
	Organization  int            `json:"organization"`
	PriceType     *int           `json:"price_type,omitempty"`
	Comment       string         `json:"comment,omitempty"`
	Status        bool           `json:"status"`
	PaidRubles    float64        `json:"paid_rubles"`
	PaidLt        float64        `json:"paid_lt"`
	Post          *bool          `json:"post,omitempty"`
}

func newOrderPayload(sub core.OrderSubmission) createOrderPayload {
	goods := make([]orderGood, len(sub.Lines))
	for i, l := range sub.Lines {
		goods[i] = orderGood{
			Nomenclature:  l.ProductID,
			Quantity:      l.Quantity.InexactFloat64(),
			Unit:          l.UnitID,
			Price:         l.UnitPrice.InexactFloat64(),
			Discount:      l.DiscountPercent.InexactFloat64(),
			SumDiscounted: l.DiscountAmount.InexactFloat64(),
		}
	}

	p := createOrderPayload{
		Priority:      0,
		Dated:         sub.Dated.Unix(),
		Operation:     orderOperation,
		TaxIncluded:   true,
		TaxActive:     true,
		Goods:         goods,
		Settings:      map[string]any{},
		LoyaltyCardID: sub.Client.LoyaltyCardID,
		Warehouse:     sub.Warehouse.ID,
		Contragent:    sub.Client.ID,
		Paybox:        sub.CashAccount.ID,
		Organization:  sub.Organization.ID,
		Comment:       sub.Comment,
		Status:        sub.Post,
		PaidRubles:    sub.TotalNet.InexactFloat64(),
	}
	if sub.PriceList != nil {
		id := sub.PriceList.ID
		p.PriceType = &id
	}
	if sub.Post {
		post := true
		p.Post = &post
	}
	return p
}

// CreateOrder posts the submission as a one-element array. Posted mode adds
// "post": true to the order object.
func (c *Client) CreateOrder(ctx context.Context, sub core.OrderSubmission) error {
	_, err := c.post(ctx, pathOrders, []createOrderPayload{newOrderPayload(sub)})
	return err
}
