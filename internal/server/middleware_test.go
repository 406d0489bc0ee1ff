package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeResolver maps logins to fixed IDs without a database.
type fakeResolver struct {
	ids map[string]int
}

func (f *fakeResolver) GetOrCreateUser(_ context.Context, login, _ string) (int, error) {
	id, ok := f.ids[login]
	if !ok {
		id = len(f.ids) + 100
		f.ids[login] = id
	}
	return id, nil
}

// TestIdentityDefault verifies that requests without an X-User header act as
// the default local user.
func TestIdentityDefault(t *testing.T) {
	var gotUserID int
	handler := Identity(&fakeResolver{ids: map[string]int{}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = userIDFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUserID != defaultUserID {
		t.Errorf("userID = %d, want %d", gotUserID, defaultUserID)
	}
}

// TestIdentityHeader verifies that the X-User header is resolved to a user ID
// and stored in the request context.
func TestIdentityHeader(t *testing.T) {
	var gotUserID int
	resolver := &fakeResolver{ids: map[string]int{"alice": 42}}
	handler := Identity(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = userIDFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User", "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotUserID != 42 {
		t.Errorf("userID = %d, want 42", gotUserID)
	}
}

// TestUserIDFromContextSet verifies that userIDFromContext returns the value
// stored by the identity middleware.
func TestUserIDFromContextSet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), userIDKey, 7)
	req = req.WithContext(ctx)

	if id := userIDFromContext(req); id != 7 {
		t.Errorf("userIDFromContext = %d, want 7", id)
	}
}

// TestAPIKeyAuth verifies the three outcomes: missing key, wrong key, valid key.
func TestAPIKeyAuth(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"valid key", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// TestRequestLogging verifies that the logging middleware calls the next
// handler and preserves its status.
func TestRequestLogging(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies that CORS headers are set on responses.
func TestCORSHeaders(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies that OPTIONS requests get 204 with CORS headers.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
