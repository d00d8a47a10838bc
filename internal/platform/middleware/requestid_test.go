package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func serveRequestID(t *testing.T, incoming string, set bool) (ctxID, headerID string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if set {
		req.Header.Set(chimiddleware.RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = chimiddleware.GetReqID(r.Context())
	})).ServeHTTP(rec, req)
	return ctxID, rec.Header().Get(chimiddleware.RequestIDHeader)
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	ctxID, headerID := serveRequestID(t, "", false)

	if ctxID == "" {
		t.Fatal("expected generated request ID")
	}
	if headerID != ctxID {
		t.Fatalf("expected response header %q, got %q", ctxID, headerID)
	}
	parsed, err := uuid.Parse(ctxID)
	if err != nil {
		t.Fatalf("request ID %q is not a valid UUID: %v", ctxID, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDHeaderValidation(t *testing.T) {
	tests := []struct {
		name    string
		inputID string
		keep    bool
	}{
		{"alphanumeric", "abc123-XYZ", true},
		{"uuid", "550e8400-e29b-41d4-a716-446655440000", true},
		{"printable punctuation", "req:42/a b~", true},
		{"exactly max length", strings.Repeat("x", 128), true},
		{"empty", "", false},
		{"newline", "valid\ninjected-line", false},
		{"carriage return", "valid\rinjected", false},
		{"null byte", "valid\x00null", false},
		{"tab", "valid\ttab", false},
		{"DEL", "valid\x7Fdel", false},
		{"high byte", "valid\x80high", false},
		{"too long", strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctxID, headerID := serveRequestID(t, tt.inputID, true)
			if ctxID != headerID {
				t.Fatalf("context ID %q and header %q differ", ctxID, headerID)
			}
			if tt.keep && ctxID != tt.inputID {
				t.Fatalf("expected %q to be preserved, got %q", tt.inputID, ctxID)
			}
			if !tt.keep {
				if ctxID == tt.inputID {
					t.Fatalf("expected %q to be replaced", tt.inputID)
				}
				if _, err := uuid.Parse(ctxID); err != nil {
					t.Fatalf("replacement %q is not a UUID: %v", ctxID, err)
				}
			}
		})
	}
}

func TestRequestIDUniquePerRequest(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		id, _ := serveRequestID(t, "", false)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = struct{}{}
	}
}
