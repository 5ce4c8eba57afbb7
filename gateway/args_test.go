package gateway

import (
	"testing"

	"github.com/jonwraymond/fingate/fault"
)

func TestArgsString(t *testing.T) {
	args := Args{"name": "acc1", "count": 5.0}

	if got := args.String("name"); got != "acc1" {
		t.Errorf("String(name) = %q, want acc1", got)
	}
	if got := args.String("count"); got != "" {
		t.Errorf("String(count) = %q, want empty for non-string", got)
	}
	if got := args.String("missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
}

func TestArgsRequiredString(t *testing.T) {
	args := Args{"account_id": "acc1", "empty": ""}

	if got, err := args.RequiredString("account_id"); err != nil || got != "acc1" {
		t.Errorf("RequiredString(account_id) = (%q, %v), want (acc1, nil)", got, err)
	}
	for _, name := range []string{"empty", "missing"} {
		_, err := args.RequiredString(name)
		if !fault.IsCode(err, fault.CodeValidation) {
			t.Errorf("RequiredString(%s) error = %v, want VALIDATION_ERROR", name, err)
		}
		if details := fault.From(err).Details; details["field"] != name {
			t.Errorf("details field = %v, want %s", details["field"], name)
		}
	}
}

func TestArgsFloat(t *testing.T) {
	args := Args{"amount": 42.5, "whole": 7, "text": "ten"}

	if got, err := args.Float("amount"); err != nil || got != 42.5 {
		t.Errorf("Float(amount) = (%v, %v), want (42.5, nil)", got, err)
	}
	if got, err := args.Float("whole"); err != nil || got != 7 {
		t.Errorf("Float(whole) = (%v, %v), want (7, nil)", got, err)
	}
	if _, err := args.Float("text"); !fault.IsCode(err, fault.CodeValidation) {
		t.Errorf("Float(text) error = %v, want VALIDATION_ERROR", err)
	}
	if _, err := args.Float("missing"); !fault.IsCode(err, fault.CodeValidation) {
		t.Errorf("Float(missing) error = %v, want VALIDATION_ERROR", err)
	}
}

func TestArgsInt(t *testing.T) {
	args := Args{"limit": 25.0}

	if got := args.Int("limit", 50); got != 25 {
		t.Errorf("Int(limit) = %d, want 25", got)
	}
	if got := args.Int("missing", 50); got != 50 {
		t.Errorf("Int(missing) = %d, want default 50", got)
	}
}
