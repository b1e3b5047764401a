package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
)

type shippingPayload struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}

func TestDecodeJSONBody_Valid(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Jane Doe","address":"123 Rd","contact":"0171"}`))
	var payload shippingPayload
	if err := DecodeJSONBody(r, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "Jane Doe" {
		t.Fatalf("unexpected name %q", payload.Name)
	}
}

func TestDecodeJSONBody_MissingField(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Jane Doe"}`))
	var payload shippingPayload
	err := DecodeJSONBody(r, &payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["address"] != "is required" || details["contact"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBody_UnknownField(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a","address":"b","contact":"c","extra":1}`))
	var payload shippingPayload
	if err := DecodeJSONBody(r, &payload); err == nil {
		t.Fatal("expected unknown-field rejection")
	}
}

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/?page=3", nil)
	got, err := ParseQueryInt(r, "page", 1, 1, 1000)
	if err != nil || got != 3 {
		t.Fatalf("expected 3, got %d (%v)", got, err)
	}

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(r, "page", 1, 1, 1000)
	if err != nil || got != 1 {
		t.Fatalf("expected default 1, got %d (%v)", got, err)
	}

	r = httptest.NewRequest("GET", "/?page=zero", nil)
	if _, err := ParseQueryInt(r, "page", 1, 1, 1000); err == nil {
		t.Fatal("expected error for non-numeric page")
	}
}
