package core

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// LineItem is one product line of a draft.
//
// Quantity, UnitPrice, DiscountPercent, DiscountAmount and LineTotal are kept
// consistent by the reconciler: either LineTotal was derived forward from
// price, quantity and discount, or UnitPrice was back-derived from an
// overridden LineTotal.
type LineItem struct {
	ProductID       int             `json:"product_id"`
	UnitID          int             `json:"unit_id"`
	DisplayName     string          `json:"display_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

func newLineItem(productID, unitID int, unitPrice, quantity decimal.Decimal, displayName string) LineItem {
	l := LineItem{
		ProductID:   productID,
		UnitID:      unitID,
		DisplayName: displayName,
		Quantity:    nonNegative(quantity),
		UnitPrice:   nonNegative(unitPrice),
	}
	l.forward()
	return l
}

// Subtotal is the undiscounted amount, UnitPrice × Quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

// Valid reports whether the line can be submitted.
func (l LineItem) Valid() bool {
	return l.Quantity.IsPositive() && !l.UnitPrice.IsNegative() && l.LineTotal.IsPositive()
}

// LineEdit is a partial edit of a line. Nil fields are left untouched.
type LineEdit struct {
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	LineTotal       *decimal.Decimal `json:"line_total,omitempty"`
}

// EditKind classifies a LineEdit.
type EditKind int

const (
	EditNone EditKind = iota
	EditForward
	EditOverride
	EditMixed
)

func (k EditKind) String() string {
	switch k {
	case EditForward:
		return "forward"
	case EditOverride:
		return "override"
	case EditMixed:
		return "mixed"
	}
	return "none"
}

// Kind reports whether the edit is a forward edit, an override edit, both, or empty.
func (e LineEdit) Kind() EditKind {
	forward := e.Quantity != nil || e.UnitPrice != nil || e.DiscountPercent != nil
	switch {
	case forward && e.LineTotal != nil:
		return EditMixed
	case forward:
		return EditForward
	case e.LineTotal != nil:
		return EditOverride
	}
	return EditNone
}

// Split separates a mixed edit into its override part and its forward part.
// Applying the override first and the forward part last lets the forward
// derivation win.
func (e LineEdit) Split() (override, forward LineEdit) {
	override = LineEdit{LineTotal: e.LineTotal}
	forward = LineEdit{Quantity: e.Quantity, UnitPrice: e.UnitPrice, DiscountPercent: e.DiscountPercent}
	return override, forward
}

// Reconcile applies an edit to a copy of l and returns the result. The input
// line is never modified; on error the returned line equals l.
func Reconcile(l LineItem, e LineEdit) (LineItem, error) {
	switch e.Kind() {
	case EditNone:
		return l, nil
	case EditMixed:
		return l, ErrMixedEdit
	case EditOverride:
		return l.override(*e.LineTotal)
	}

	if e.Quantity != nil {
		l.Quantity = nonNegative(*e.Quantity)
	}
	if e.UnitPrice != nil {
		l.UnitPrice = nonNegative(*e.UnitPrice)
	}
	if e.DiscountPercent != nil {
		l.DiscountPercent = ClampPercent(*e.DiscountPercent)
	}
	l.forward()
	return l, nil
}

// forward derives DiscountAmount and LineTotal from price, quantity and discount.
func (l *LineItem) forward() {
	l.DiscountPercent = ClampPercent(l.DiscountPercent)
	subtotal := l.Subtotal()
	l.DiscountAmount = subtotal.Mul(l.DiscountPercent).Div(hundred)
	l.LineTotal = subtotal.Sub(l.DiscountAmount)
}

// override takes total verbatim and back-derives UnitPrice using the current
// quantity and discount.
func (l LineItem) override(total decimal.Decimal) (LineItem, error) {
	factor := one.Sub(l.DiscountPercent.Div(hundred))
	if !l.Quantity.IsPositive() || !factor.IsPositive() {
		return l, ErrDegenerateOverride
	}
	total = nonNegative(total)
	l.UnitPrice = total.Div(l.Quantity.Mul(factor))
	l.DiscountAmount = l.Subtotal().Sub(total)
	l.LineTotal = total
	return l, nil
}

// ClampPercent limits p to [0, 100].
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
