package app

import (
	"fmt"
	"time"

	"order-desk/internal/core"

	"github.com/shopspring/decimal"
)

// ClientListResult is returned by client listing and search.
type ClientListResult struct {
	Clients []core.Client `json:"clients"`
	Warning string        `json:"warning,omitempty"`
}

// ProductListResult is returned by product listing and search.
type ProductListResult struct {
	Products []core.Product `json:"products"`
	Warning  string         `json:"warning,omitempty"`
}

// ReferenceListResult is returned by ListReferences.
type ReferenceListResult struct {
	Kind       core.RefKind     `json:"kind"`
	References []core.Reference `json:"references"`
	// DefaultID is the price list flagged as default, 0 when none.
	DefaultID int    `json:"default_id,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// DefaultsResult is returned by LoadDefaults.
type DefaultsResult struct {
	Attached []core.Reference `json:"attached"`
	Warnings []string         `json:"warnings,omitempty"`
}

// SubmissionState is the submission guard of the draft.
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionInFlight
	SubmissionConfirmed
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionInFlight:
		return "in_flight"
	case SubmissionConfirmed:
		return "confirmed"
	}
	return "idle"
}

func (s SubmissionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Slot is one reference position of the draft.
type Slot struct {
	Kind      core.RefKind    `json:"kind"`
	Reference *core.Reference `json:"reference"`
}

// DraftView is a read-only snapshot of the draft.
type DraftView struct {
	Slots         []Slot          `json:"slots"`
	Lines         []core.LineItem `json:"lines"`
	Comment       string          `json:"comment"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalNet      decimal.Decimal `json:"total_net"`
	Complete      bool            `json:"complete"`
	Missing       []core.RefKind  `json:"missing"`
	Submission    SubmissionState `json:"submission"`
}

// Reference returns the attached reference of kind, or nil.
func (v DraftView) Reference(kind core.RefKind) *core.Reference {
	for _, s := range v.Slots {
		if s.Kind == kind {
			return s.Reference
		}
	}
	return nil
}

// SubmitResult is returned by a successful SubmitOrder.
type SubmitResult struct {
	Posted     bool            `json:"posted"`
	Lines      int             `json:"lines"`
	TotalNet   decimal.Decimal `json:"total_net"`
	ResetAfter time.Duration   `json:"reset_after"`
}

// AssistantResult describes what ApplyIntent did to the draft.
type AssistantResult struct {
	Intent    core.OrderIntent `json:"intent"`
	Message   string           `json:"message"`
	Line      *core.LineItem   `json:"line,omitempty"`
	Reference *core.Reference  `json:"reference,omitempty"`
}

func lineMessage(verb string, index int, l core.LineItem) string {
	return fmt.Sprintf("%s line %d: %s x %s = %s", verb, index+1, l.DisplayName, l.Quantity.String(), l.LineTotal.StringFixed(2))
}
