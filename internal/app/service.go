package app

import (
	"context"
	"errors"

	"order-desk/internal/core"

	"github.com/shopspring/decimal"
)

var (
	// ErrSubmissionPending is returned while a previous submission is in
	// flight or still showing its confirmation.
	ErrSubmissionPending = errors.New("an order submission is already in progress")
	// ErrSuperseded is returned by a debounced search that a later keystroke replaced.
	ErrSuperseded = errors.New("search superseded by a newer query")
	// ErrAssistantDisabled is returned by assistant calls when no API key is configured.
	ErrAssistantDisabled = errors.New("assistant is not configured")
)

// Interpreter turns operator free text into a structured intent.
type Interpreter interface {
	InterpretOrderInput(ctx context.Context, text, draftSummary string) (*core.OrderIntent, error)
}

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It owns the one order draft of the session. Implementations contain no
// display logic.
type ApplicationService interface {
	// Restore loads a persisted token. It reports whether one was found.
	Restore(ctx context.Context) (bool, error)
	Login(ctx context.Context, token string) error
	// Logout forgets the token and resets the draft.
	Logout(ctx context.Context) error
	Authenticated() bool

	// Catalog reads never fail: gateway errors come back as an empty list
	// with Warning set.
	ListClients(ctx context.Context) *ClientListResult
	// SearchClients falls back to ListClients for queries shorter than two characters.
	SearchClients(ctx context.Context, query string) *ClientListResult
	// DebouncedSearchClients waits out the quiet period and returns ErrSuperseded
	// if another search was issued meanwhile.
	DebouncedSearchClients(ctx context.Context, query string) (*ClientListResult, error)
	CreateClient(ctx context.Context, in core.NewClient) (*core.Client, error)
	ListProducts(ctx context.Context) *ProductListResult
	SearchProducts(ctx context.Context, query string) *ProductListResult
	DebouncedSearchProducts(ctx context.Context, query string) (*ProductListResult, error)
	// ListReferences lists the selectable entities of one reference kind.
	ListReferences(ctx context.Context, kind core.RefKind) (*ReferenceListResult, error)

	// Draft returns a snapshot of the current draft.
	Draft() DraftView
	// Attach selects a catalog entity previously returned by a list or search.
	Attach(kind core.RefKind, id int) (core.Reference, error)
	Detach(kind core.RefKind) error
	// LoadDefaults attaches the first warehouse, cash account and organization
	// and the default price list to any slot still empty.
	LoadDefaults(ctx context.Context) *DefaultsResult
	// AddProduct appends a line for a product previously returned by the catalog.
	AddProduct(productID int, quantity decimal.Decimal) (int, core.LineItem, error)
	UpdateLine(index int, edit core.LineEdit) (core.LineItem, error)
	// EditLine accepts edits touching the total together with other fields by
	// applying the total first and the rest last.
	EditLine(index int, edit core.LineEdit) (core.LineItem, error)
	StepQuantity(index int, delta int64) (core.LineItem, error)
	RemoveLine(index int) error
	ClearLines()
	SetComment(comment string)
	ResetDraft()

	// SubmitOrder sends the draft to TableCRM, posted or as a draft document.
	SubmitOrder(ctx context.Context, post bool) (*SubmitResult, error)
	SubmissionState() SubmissionState

	AssistantEnabled() bool
	Interpret(ctx context.Context, text string) (*core.OrderIntent, error)
	ApplyIntent(ctx context.Context, intent core.OrderIntent) (*AssistantResult, error)
}
