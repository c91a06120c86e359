package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generates", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		header := recorder.Header().Get("X-Request-ID")
		if _, err := uuid.Parse(header); err != nil {
			t.Fatalf("expected uuid header, got %q", header)
		}
		if seen != header {
			t.Fatalf("context id %q does not match header %q", seen, header)
		}
	})

	t.Run("reuses valid incoming id", func(t *testing.T) {
		incoming := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", incoming)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if got := recorder.Header().Get("X-Request-ID"); got != incoming || seen != incoming {
			t.Fatalf("expected %q, got header %q context %q", incoming, got, seen)
		}
	})

	t.Run("replaces garbage id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "not-a-uuid\nInjected: yes")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if _, err := uuid.Parse(recorder.Header().Get("X-Request-ID")); err != nil {
			t.Fatalf("expected fresh uuid, got %q", recorder.Header().Get("X-Request-ID"))
		}
	})
}

func TestWithRecovery(t *testing.T) {
	handler := ChainMiddleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
		WithRecovery,
		WithRequestID,
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}

func TestWithLoggingCapturesStatus(t *testing.T) {
	var wrapped *responseWriter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
	})

	recorder := httptest.NewRecorder()
	WithLogging(handler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusTeapot || wrapped.status != http.StatusTeapot {
		t.Fatalf("expected 418, got recorder=%d wrapped=%d", recorder.Code, wrapped.status)
	}
}

func TestWithContentTypeDefaultsAccept(t *testing.T) {
	var accept string
	handler := WithContentType(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if accept != "application/json" {
		t.Fatalf("expected application/json, got %q", accept)
	}
}
