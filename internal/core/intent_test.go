package core_test

import (
	"errors"
	"testing"

	"order-desk/internal/core"
)

func TestOrderIntent_NormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      core.OrderIntent
		wantErr bool
		check   func(core.OrderIntent) bool
	}{
		{"add defaults quantity", core.OrderIntent{Action: " Add_Product ", Query: " tea "}, false,
			func(i core.OrderIntent) bool { return i.Amount == "1" && i.Query == "tea" }},
		{"add without query", core.OrderIntent{Action: "add_product", Amount: "2"}, true, nil},
		{"add zero quantity", core.OrderIntent{Action: "add_product", Query: "tea", Amount: "0"}, true, nil},
		{"quantity needs line", core.OrderIntent{Action: "set_quantity", Amount: "3"}, true, nil},
		{"quantity decimal comma", core.OrderIntent{Action: "set_quantity", LineNumber: 1, Amount: "1,5"}, false,
			func(i core.OrderIntent) bool { return i.Amount == "1.5" }},
		{"zero discount allowed", core.OrderIntent{Action: "set_discount", LineNumber: 2, Amount: "0"}, false, nil},
		{"negative total", core.OrderIntent{Action: "set_total", LineNumber: 1, Amount: "-5"}, true, nil},
		{"total not a number", core.OrderIntent{Action: "set_total", LineNumber: 1, Amount: "lots"}, true, nil},
		{"select client", core.OrderIntent{Action: "select_client", Query: "+7 900"}, false, nil},
		{"remove needs line", core.OrderIntent{Action: "remove_line"}, true, nil},
		{"clarify needs message", core.OrderIntent{Action: "clarify"}, true, nil},
		{"unknown action", core.OrderIntent{Action: "refund"}, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := tt.in
			i.Normalize()
			err := i.Validate()
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidIntent) {
					t.Errorf("Validate = %v, want ErrInvalidIntent", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if tt.check != nil && !tt.check(i) {
				t.Errorf("normalized = %+v", i)
			}
		})
	}
}

func TestOrderIntent_LineIndex(t *testing.T) {
	if got := (core.OrderIntent{LineNumber: 3}).LineIndex(); got != 2 {
		t.Errorf("LineIndex = %d, want 2", got)
	}
}

func TestRefKind_Text(t *testing.T) {
	b, err := core.RefPriceList.MarshalText()
	if err != nil || string(b) != "price-list" {
		t.Fatalf("MarshalText = %q, %v", b, err)
	}
	var k core.RefKind
	if err := k.UnmarshalText([]byte("paybox")); err != nil || k != core.RefCashAccount {
		t.Errorf("UnmarshalText(paybox) = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("shelf")); !errors.Is(err, core.ErrUnknownReference) {
		t.Errorf("UnmarshalText(shelf) = %v", err)
	}
}
