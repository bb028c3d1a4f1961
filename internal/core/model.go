package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RefKind identifies one of the five reference selections an order draft holds.
type RefKind int

const (
	RefClient RefKind = iota
	RefWarehouse
	RefCashAccount
	RefOrganization
	RefPriceList

	refKindCount
)

var refKindNames = [refKindCount]string{
	RefClient:       "client",
	RefWarehouse:    "warehouse",
	RefCashAccount:  "cash-account",
	RefOrganization: "organization",
	RefPriceList:    "price-list",
}

// RefKinds lists every reference kind in display order.
func RefKinds() []RefKind {
	return []RefKind{RefClient, RefWarehouse, RefCashAccount, RefOrganization, RefPriceList}
}

func (k RefKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
	return refKindNames[k]
}

// Valid reports whether k is one of the known reference kinds.
func (k RefKind) Valid() bool {
	return k >= 0 && k < refKindCount
}

func (k RefKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownReference, int(k))
	}
	return []byte(refKindNames[k]), nil
}

func (k *RefKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRefKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseRefKind accepts the canonical kind names plus the TableCRM resource names
// (contragent, paybox, price-type).
func ParseRefKind(s string) (RefKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client", "clients", "contragent", "contragents":
		return RefClient, nil
	case "warehouse", "warehouses":
		return RefWarehouse, nil
	case "cash-account", "cash-accounts", "paybox", "payboxes":
		return RefCashAccount, nil
	case "organization", "organizations":
		return RefOrganization, nil
	case "price-list", "price-lists", "price-type", "price-types", "prices":
		return RefPriceList, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownReference, s)
}

// Reference is an opaque selection of a catalog entity attached to a draft.
// References are only ever built from entities returned by the catalog.
type Reference struct {
	Kind          RefKind `json:"kind"`
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LoyaltyCardID *int    `json:"loyalty_card_id,omitempty"` // clients only
}

// Client is a TableCRM contragent.
type Client struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	INN           string `json:"inn,omitempty"`
	KPP           string `json:"kpp,omitempty"`
	LoyaltyCardID *int   `json:"loyality_card_id,omitempty"`
}

func (c Client) Ref() Reference {
	return Reference{Kind: RefClient, ID: c.ID, Name: c.Name, LoyaltyCardID: c.LoyaltyCardID}
}

// NewClient is the input for creating a contragent.
type NewClient struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Warehouse is a shipping warehouse.
type Warehouse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (w Warehouse) Ref() Reference {
	return Reference{Kind: RefWarehouse, ID: w.ID, Name: w.Name}
}

// CashAccount is a TableCRM paybox: the account the payment is received into.
type CashAccount struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (c CashAccount) Ref() Reference {
	return Reference{Kind: RefCashAccount, ID: c.ID, Name: c.Name}
}

// Organization is the selling legal entity.
type Organization struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	INN      string `json:"inn,omitempty"`
	KPP      string `json:"kpp,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// DisplayName falls back to the numeric ID when the organization has no name.
func (o Organization) DisplayName() string {
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Sprintf("Organization #%d", o.ID)
	}
	return o.Name
}

func (o Organization) Ref() Reference {
	return Reference{Kind: RefOrganization, ID: o.ID, Name: o.DisplayName()}
}

// PriceList is a TableCRM price type.
type PriceList struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

func (p PriceList) Ref() Reference {
	return Reference{Kind: RefPriceList, ID: p.ID, Name: p.Name}
}

// Product is a TableCRM nomenclature entry.
type Product struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Article       string           `json:"article,omitempty"`
	Barcode       string           `json:"barcode,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	Unit          int              `json:"unit"`
	UnitName      string           `json:"unit_name,omitempty"`
	StockQuantity *decimal.Decimal `json:"stock_quantity,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
}
