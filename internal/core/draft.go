package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Draft is the in-progress order: five optional reference selections, an
// ordered list of line items and a free-text comment.
//
// A Draft is not safe for concurrent use; the owner serializes access.
type Draft struct {
	refs    [refKindCount]*Reference
	lines   []LineItem
	comment string
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// Attach sets the selection of the given kind. A nil ref detaches it.
func (d *Draft) Attach(kind RefKind, ref *Reference) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownReference, kind)
	}
	if ref == nil {
		d.refs[kind] = nil
		return nil
	}
	r := *ref
	r.Kind = kind
	d.refs[kind] = &r
	return nil
}

// Reference returns the attached selection of the given kind, if any.
func (d *Draft) Reference(kind RefKind) (Reference, bool) {
	if !kind.Valid() || d.refs[kind] == nil {
		return Reference{}, false
	}
	return *d.refs[kind], true
}

// AddLine appends a new line with no discount. Lines for the same product are
// never merged.
func (d *Draft) AddLine(productID, unitID int, unitPrice, quantity decimal.Decimal, displayName string) int {
	d.lines = append(d.lines, newLineItem(productID, unitID, unitPrice, quantity, displayName))
	return len(d.lines) - 1
}

// Line returns a copy of the line at index.
func (d *Draft) Line(index int) (LineItem, error) {
	if err := d.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	return d.lines[index], nil
}

// UpdateLine reconciles the line at index with the edit.
func (d *Draft) UpdateLine(index int, edit LineEdit) (LineItem, error) {
	if err := d.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	updated, err := Reconcile(d.lines[index], edit)
	if err != nil {
		return d.lines[index], fmt.Errorf("line %d: %w", index+1, err)
	}
	d.lines[index] = updated
	return updated, nil
}

// StepQuantity adds delta to the quantity of the line at index, never going
// below 1, and recomputes the line forward.
func (d *Draft) StepQuantity(index int, delta int64) (LineItem, error) {
	if err := d.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	q := d.lines[index].Quantity.Add(decimal.NewFromInt(delta))
	if q.LessThan(one) {
		q = one
	}
	return d.UpdateLine(index, LineEdit{Quantity: &q})
}

// RemoveLine deletes the line at index; later lines shift down by one.
func (d *Draft) RemoveLine(index int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	d.lines = append(d.lines[:index], d.lines[index+1:]...)
	return nil
}

// ClearLines removes every line.
func (d *Draft) ClearLines() {
	d.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (d *Draft) Lines() []LineItem {
	out := make([]LineItem, len(d.lines))
	copy(out, d.lines)
	return out
}

// Len returns the number of lines.
func (d *Draft) Len() int {
	return len(d.lines)
}

func (d *Draft) SetComment(comment string) {
	d.comment = comment
}

func (d *Draft) Comment() string {
	return d.comment
}

// TotalGross is the sum of UnitPrice × Quantity over all lines.
func (d *Draft) TotalGross() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TotalDiscount is the sum of DiscountAmount over all lines.
func (d *Draft) TotalDiscount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.lines {
		total = total.Add(l.DiscountAmount)
	}
	return total
}

// TotalNet is the sum of LineTotal over all lines.
func (d *Draft) TotalNet() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

// Missing lists the reference kinds not yet attached.
func (d *Draft) Missing() []RefKind {
	var missing []RefKind
	for _, k := range RefKinds() {
		if d.refs[k] == nil {
			missing = append(missing, k)
		}
	}
	return missing
}

// IsComplete reports whether every reference is attached, at least one line
// exists and every line is valid.
func (d *Draft) IsComplete() bool {
	if len(d.Missing()) > 0 || len(d.lines) == 0 {
		return false
	}
	for _, l := range d.lines {
		if !l.Valid() {
			return false
		}
	}
	return true
}

// Reset returns the draft to its empty state.
func (d *Draft) Reset() {
	*d = Draft{}
}

func (d *Draft) checkIndex(index int) error {
	if index < 0 || index >= len(d.lines) {
		return fmt.Errorf("%w: %d (draft has %d lines)", ErrIndexOutOfRange, index, len(d.lines))
	}
	return nil
}
