package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func callCorrelation(t *testing.T, incoming string) (echoed, fromCtx string) {
	t.Helper()
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set("X-Correlation-ID", incoming)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Header().Get("X-Correlation-ID"), fromCtx
}

func TestCorrelationID_EchoesCallerID(t *testing.T) {
	echoed, fromCtx := callCorrelation(t, "client-abc-123")
	if echoed != "client-abc-123" || fromCtx != "client-abc-123" {
		t.Fatalf("expected caller ID to be kept, got header %q ctx %q", echoed, fromCtx)
	}
}

func TestCorrelationID_GeneratesWhenAbsent(t *testing.T) {
	echoed, fromCtx := callCorrelation(t, "")
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("expected generated UUID, got %q: %v", echoed, err)
	}
	if echoed != fromCtx {
		t.Fatalf("header %q and context %q disagree", echoed, fromCtx)
	}
}

func TestCorrelationID_ReplacesOversizedID(t *testing.T) {
	oversized := strings.Repeat("x", maxCorrelationIDLen+1)
	echoed, fromCtx := callCorrelation(t, oversized)
	if echoed == oversized {
		t.Fatal("oversized caller ID was echoed back")
	}
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("expected generated UUID, got %q: %v", echoed, err)
	}
	if echoed != fromCtx {
		t.Fatalf("header %q and context %q disagree", echoed, fromCtx)
	}
}
