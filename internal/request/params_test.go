package request

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseCourtID(t *testing.T) {
	tests := []struct {
		value  string
		want   int64
		wantOK bool
	}{
		{"7", 7, true},
		{" 12 ", 12, true},
		{"", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCourtID(tt.value)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCourtID(%q) = %d, %v; want %d, %v", tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCourtIDFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/overrides?court_id=4", nil)
	if id, ok := CourtIDFromQuery(req); !ok || id != 4 {
		t.Fatalf("expected 4, got %d %v", id, ok)
	}
}

func TestApartmentFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?apartment=1A", nil)
	req.Header.Set(ApartmentHeader, "2B")
	if code, ok := ApartmentFromRequest(req); !ok || code != "1A" {
		t.Fatalf("query should win, got %q %v", code, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ApartmentHeader, " 2B ")
	if code, ok := ApartmentFromRequest(req); !ok || code != "2B" {
		t.Fatalf("expected header value, got %q %v", code, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := ApartmentFromRequest(req); ok {
		t.Fatal("expected no apartment")
	}
}
