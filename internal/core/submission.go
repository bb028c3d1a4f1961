package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderSubmission is the immutable snapshot of a complete draft that the
// order gateway serializes.
type OrderSubmission struct {
	Client        Reference
	Warehouse     Reference
	CashAccount   Reference
	Organization  Reference
	PriceList     *Reference
	Lines         []LineItem
	Comment       string
	TotalGross    decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalNet      decimal.Decimal
	Dated         time.Time
	Post          bool
}

// Submission snapshots the draft for submission at now. It fails with
// ErrValidation, naming what is missing, when the draft is incomplete.
func (d *Draft) Submission(now time.Time, post bool) (OrderSubmission, error) {
	if !d.IsComplete() {
		return OrderSubmission{}, fmt.Errorf("%w: %s", ErrValidation, d.incompleteReason())
	}
	sub := OrderSubmission{
		Client:        *d.refs[RefClient],
		Warehouse:     *d.refs[RefWarehouse],
		CashAccount:   *d.refs[RefCashAccount],
		Organization:  *d.refs[RefOrganization],
		Lines:         d.Lines(),
		Comment:       strings.TrimSpace(d.comment),
		TotalGross:    d.TotalGross(),
		TotalDiscount: d.TotalDiscount(),
		TotalNet:      d.TotalNet(),
		Dated:         now,
		Post:          post,
	}
	if pl := d.refs[RefPriceList]; pl != nil {
		p := *pl
		sub.PriceList = &p
	}
	return sub, nil
}

func (d *Draft) incompleteReason() string {
	var parts []string
	if missing := d.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, k := range missing {
			names[i] = k.String()
		}
		parts = append(parts, "missing "+strings.Join(names, ", "))
	}
	if len(d.lines) == 0 {
		parts = append(parts, "no lines")
	}
	for i, l := range d.lines {
		if !l.Valid() {
			parts = append(parts, fmt.Sprintf("line %d needs positive quantity and total", i+1))
		}
	}
	return strings.Join(parts, "; ")
}
