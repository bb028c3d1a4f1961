package app

import (
	"context"
	"fmt"
	"strings"

	"order-desk/internal/core"
)

func (s *appService) AssistantEnabled() bool {
	return s.agent != nil
}

// Interpret asks the assistant to read text against the current draft.
func (s *appService) Interpret(ctx context.Context, text string) (*core.OrderIntent, error) {
	if s.agent == nil {
		return nil, ErrAssistantDisabled
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty instruction", core.ErrInvalidIntent)
	}
	intent, err := s.agent.InterpretOrderInput(ctx, text, s.draftSummary())
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}
	return intent, nil
}

// draftSummary renders the draft as numbered plain-text lines for the assistant prompt.
func (s *appService) draftSummary() string {
	v := s.Draft()
	var b strings.Builder
	if c := v.Reference(core.RefClient); c != nil {
		fmt.Fprintf(&b, "Client: %s\n", c.Name)
	} else {
		b.WriteString("Client: none\n")
	}
	if len(v.Lines) == 0 {
		b.WriteString("No lines yet.\n")
	}
	for i, l := range v.Lines {
		fmt.Fprintf(&b, "%d. %s, quantity %s, price %s, discount %s%%, total %s\n",
			i+1, l.DisplayName, l.Quantity.String(), l.UnitPrice.StringFixed(2),
			l.DiscountPercent.String(), l.LineTotal.StringFixed(2))
	}
	return b.String()
}

// ApplyIntent carries out one assistant intent on the draft. Searches go
// through the catalog so selections stay backed by real entities.
func (s *appService) ApplyIntent(ctx context.Context, intent core.OrderIntent) (*AssistantResult, error) {
	intent.Normalize()
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	result := &AssistantResult{Intent: intent}

	switch intent.Action {
	case core.IntentClarify:
		result.Message = intent.Message

	case core.IntentAddProduct:
		found := s.SearchProducts(ctx, intent.Query)
		if found.Warning != "" {
			result.Message = found.Warning
			return result, nil
		}
		if len(found.Products) == 0 {
			result.Message = fmt.Sprintf("no product matches %q", intent.Query)
			return result, nil
		}
		qty, _ := intent.AmountValue()
		i, line, err := s.AddProduct(found.Products[0].ID, qty)
		if err != nil {
			return nil, err
		}
		result.Line = &line
		result.Message = lineMessage("added", i, line)

	case core.IntentSelectClient:
		found := s.SearchClients(ctx, intent.Query)
		if found.Warning != "" {
			result.Message = found.Warning
			return result, nil
		}
		if len(found.Clients) == 0 {
			result.Message = fmt.Sprintf("no client matches %q", intent.Query)
			return result, nil
		}
		ref, err := s.Attach(core.RefClient, found.Clients[0].ID)
		if err != nil {
			return nil, err
		}
		result.Reference = &ref
		result.Message = "client set to " + ref.Name

	case core.IntentRemoveLine:
		if err := s.RemoveLine(intent.LineIndex()); err != nil {
			return nil, err
		}
		result.Message = fmt.Sprintf("removed line %d", intent.LineNumber)

	default:
		amount, _ := intent.AmountValue()
		var edit core.LineEdit
		switch intent.Action {
		case core.IntentSetQuantity:
			edit.Quantity = &amount
		case core.IntentSetDiscount:
			edit.DiscountPercent = &amount
		case core.IntentSetTotal:
			edit.LineTotal = &amount
		}
		line, err := s.UpdateLine(intent.LineIndex(), edit)
		if err != nil {
			return nil, err
		}
		result.Line = &line
		result.Message = lineMessage("updated", intent.LineIndex(), line)
	}
	return result, nil
}
