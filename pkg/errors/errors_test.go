package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, publicMsg: "conflict detected", retryable: true},
		{code: CodeUnknownBeverage, publicMsg: "beverage is not registered", detailsOK: true},
		{code: CodeStockDepleted, publicMsg: "stock depleted", detailsOK: true},
		{code: CodeInsufficientStock, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodePriceNotConfigured, publicMsg: "price not configured", detailsOK: true},
		{code: CodeInvalidTransition, publicMsg: "tab state transition disallowed", detailsOK: true},
		{code: CodeStorageUnavailable, publicMsg: "storage unavailable", retryable: true, detailsOK: true},
		{code: CodeInternal, publicMsg: "internal error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.PublicMessage != "internal error" {
		t.Fatalf("expected internal metadata, got %q", meta.PublicMessage)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing size")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing size" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "size"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("disk full")
	wrapped := Wrap(CodeStorageUnavailable, cause, "inserting sale line")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeStorageUnavailable {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeStockDepleted, "nothing left")
	if typed := As(err); typed == nil || typed.Code() != CodeStockDepleted {
		t.Fatalf("As failed to recover typed error: %v", typed)
	}

	chained := fmt.Errorf("outer: %w", err)
	if typed := As(chained); typed == nil || typed.Code() != CodeStockDepleted {
		t.Fatalf("As must unwrap chained errors: %v", typed)
	}

	if typed := As(stdErrors.New("plain")); typed != nil {
		t.Fatalf("As must return nil for untyped errors, got %v", typed)
	}
	if typed := As(nil); typed != nil {
		t.Fatalf("As must return nil for nil, got %v", typed)
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeConflict, "version moved")
	if !IsCode(err, CodeConflict) {
		t.Fatal("IsCode must match the typed code")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatal("IsCode must not match a different code")
	}
	if IsCode(stdErrors.New("plain"), CodeConflict) {
		t.Fatal("IsCode must reject untyped errors")
	}
	if IsCode(nil, CodeConflict) {
		t.Fatal("IsCode must reject nil")
	}

	chained := fmt.Errorf("outer: %w", err)
	if !IsCode(chained, CodeConflict) {
		t.Fatal("IsCode must unwrap chained errors")
	}
}
