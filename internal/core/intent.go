package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	IntentAddProduct   = "add_product"
	IntentSetQuantity  = "set_quantity"
	IntentSetDiscount  = "set_discount"
	IntentSetTotal     = "set_total"
	IntentSelectClient = "select_client"
	IntentRemoveLine   = "remove_line"
	IntentClarify      = "clarify"
)

// OrderIntent is the assistant's structured reading of a free-text instruction.
// Amount carries the quantity, discount percent or line total depending on Action.
type OrderIntent struct {
	Action     string `json:"action" jsonschema:"enum=add_product,enum=set_quantity,enum=set_discount,enum=set_total,enum=select_client,enum=remove_line,enum=clarify" jsonschema_description:"What the operator wants to do with the order draft"`
	Query      string `json:"query" jsonschema_description:"Product name for add_product, client name or phone for select_client, empty otherwise"`
	LineNumber int    `json:"line_number" jsonschema_description:"1-based line number for set_quantity, set_discount, set_total and remove_line; 0 otherwise"`
	Amount     string `json:"amount" jsonschema_description:"Quantity for add_product and set_quantity, discount percent for set_discount, line total for set_total, as a decimal string; empty otherwise"`
	Message    string `json:"message" jsonschema_description:"Question to ask the operator when the action is clarify; empty otherwise"`
}

// Normalize trims fields and accepts a decimal comma in Amount.
func (i *OrderIntent) Normalize() {
	i.Action = strings.ToLower(strings.TrimSpace(i.Action))
	i.Query = strings.TrimSpace(i.Query)
	i.Message = strings.TrimSpace(i.Message)
	i.Amount = strings.ReplaceAll(strings.TrimSpace(i.Amount), ",", ".")
	if i.Action == IntentAddProduct && i.Amount == "" {
		i.Amount = "1"
	}
}

// Validate checks that the fields required by Action are present.
func (i OrderIntent) Validate() error {
	switch i.Action {
	case IntentAddProduct:
		if i.Query == "" {
			return fmt.Errorf("%w: add_product needs a product query", ErrInvalidIntent)
		}
		return i.requireAmount(true)
	case IntentSetQuantity:
		if err := i.requireLine(); err != nil {
			return err
		}
		return i.requireAmount(true)
	case IntentSetDiscount, IntentSetTotal:
		if err := i.requireLine(); err != nil {
			return err
		}
		return i.requireAmount(false)
	case IntentSelectClient:
		if i.Query == "" {
			return fmt.Errorf("%w: select_client needs a client query", ErrInvalidIntent)
		}
	case IntentRemoveLine:
		return i.requireLine()
	case IntentClarify:
		if i.Message == "" {
			return fmt.Errorf("%w: clarify needs a message", ErrInvalidIntent)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidIntent, i.Action)
	}
	return nil
}

// AmountValue parses Amount.
func (i OrderIntent) AmountValue() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(i.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrInvalidIntent, i.Amount)
	}
	return d, nil
}

// LineIndex converts the 1-based LineNumber to a draft index.
func (i OrderIntent) LineIndex() int {
	return i.LineNumber - 1
}

func (i OrderIntent) requireLine() error {
	if i.LineNumber < 1 {
		return fmt.Errorf("%w: %s needs a line number", ErrInvalidIntent, i.Action)
	}
	return nil
}

func (i OrderIntent) requireAmount(positive bool) error {
	d, err := i.AmountValue()
	if err != nil {
		return err
	}
	if d.IsNegative() || (positive && d.IsZero()) {
		return fmt.Errorf("%w: amount %s out of range for %s", ErrInvalidIntent, i.Amount, i.Action)
	}
	return nil
}
