package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
)

type itemRequest struct {
	SKU      string `json:"sku" validate:"required"`
	Cantidad int    `json:"cantidad" validate:"min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{name: "valid", body: `{"sku":"VES-001","cantidad":2}`},
		{name: "unknown field", body: `{"sku":"VES-001","cantidad":1,"extra":true}`, wantErr: true},
		{name: "missing sku", body: `{"cantidad":1}`, wantErr: true, field: "sku"},
		{name: "zero quantity", body: `{"sku":"VES-001","cantidad":0}`, wantErr: true, field: "cantidad"},
		{name: "trailing object", body: `{"sku":"A","cantidad":1}{"sku":"B"}`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dest itemRequest
			err := DecodeJSONBody(req, &dest)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tc.field == "" {
				return
			}
			details, ok := pkgerrors.As(err).Details().(map[string]string)
			if !ok {
				t.Fatalf("expected field details, got %#v", pkgerrors.As(err).Details())
			}
			if _, ok := details[tc.field]; !ok {
				t.Fatalf("expected detail for %s, got %v", tc.field, details)
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&en_oferta=true&bad=x&q=%20vestido%20", nil)

	limit, err := ParseQueryInt(req, "limit", 20, 1, 100)
	if err != nil || limit != 5 {
		t.Fatalf("expected limit 5, got %d (%v)", limit, err)
	}
	if _, err := ParseQueryInt(req, "bad", 0, 0, 10); err == nil {
		t.Fatalf("expected numeric error")
	}
	offer, err := ParseQueryBool(req, "en_oferta")
	if err != nil || offer == nil || !*offer {
		t.Fatalf("expected en_oferta=true, got %v (%v)", offer, err)
	}
	missing, err := ParseQueryBool(req, "genero")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing flag")
	}
	if got := QueryString(req, "q", 3); got != "ves" {
		t.Fatalf("expected trimmed and capped value, got %q", got)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Añil\x00\t ", 0); got != "Añil" {
		t.Fatalf("expected control characters stripped, got %q", got)
	}
	if got := SanitizeString("camiseta", 4); got != "cami" {
		t.Fatalf("expected cap at 4 runes, got %q", got)
	}
	if got := SanitizeString("ñññ", 2); got != "ññ" {
		t.Fatalf("expected rune-safe truncation, got %q", got)
	}
}
