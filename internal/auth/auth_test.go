package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thanhvo/shiftdesk/internal/schedule"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testEmployee() schedule.Employee {
	return schedule.Employee{
		Email:          "alice@crushroom.vn",
		Name:           "Alice",
		Team:           schedule.TeamCS,
		EmploymentType: schedule.PartTime,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := NewSessionStore(12 * time.Hour)

	token, sess, err := store.Create(testEmployee())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(token, "sd_") {
		t.Errorf("token %q missing sd_ prefix", token)
	}
	if sess.TokenHash == token || sess.TokenHash != HashToken(token) {
		t.Error("stored hash does not match the plaintext token's hash")
	}

	emp, ok := store.Lookup(token)
	if !ok {
		t.Fatal("Lookup failed for a fresh session")
	}
	if emp.Email != "alice@crushroom.vn" {
		t.Errorf("Lookup returned %q", emp.Email)
	}
	if store.Active() != 1 {
		t.Errorf("Active = %d, want 1", store.Active())
	}

	if _, ok := store.Lookup("sd_bogus"); ok {
		t.Error("Lookup succeeded for an unknown token")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	store := NewSessionStore(time.Hour)
	a, _, err := store.Create(testEmployee())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, _, err := store.Create(testEmployee())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a == b {
		t.Error("two sessions issued the same token")
	}
	if store.Active() != 2 {
		t.Errorf("Active = %d, want 2", store.Active())
	}
}

func TestSessionExpiry(t *testing.T) {
	clock := newFakeClock()
	store := NewSessionStore(time.Hour)
	store.SetNowFunc(clock.Now)

	token, _, err := store.Create(testEmployee())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	clock.Advance(59 * time.Minute)
	if _, ok := store.Lookup(token); !ok {
		t.Fatal("session expired before its TTL")
	}

	clock.Advance(2 * time.Minute)
	if _, ok := store.Lookup(token); ok {
		t.Fatal("session survived past its TTL")
	}
	// The expired entry is gone, not just hidden.
	if store.Active() != 0 {
		t.Errorf("Active = %d after expiry, want 0", store.Active())
	}
}

func TestPruneExpired(t *testing.T) {
	clock := newFakeClock()
	store := NewSessionStore(time.Hour)
	store.SetNowFunc(clock.Now)

	if _, _, err := store.Create(testEmployee()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	clock.Advance(30 * time.Minute)
	fresh, _, err := store.Create(testEmployee())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	clock.Advance(45 * time.Minute)
	if removed := store.PruneExpired(); removed != 1 {
		t.Errorf("PruneExpired removed %d, want 1", removed)
	}
	if _, ok := store.Lookup(fresh); !ok {
		t.Error("prune removed a live session")
	}
}

func TestDeleteSession(t *testing.T) {
	store := NewSessionStore(time.Hour)
	token, _, err := store.Create(testEmployee())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	store.Delete(token)
	if _, ok := store.Lookup(token); ok {
		t.Error("session survived Delete")
	}
}

func TestSessionMiddleware(t *testing.T) {
	store := NewSessionStore(time.Hour)
	token, _, err := store.Create(testEmployee())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var gotEmail string
	handler := SessionMiddleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		emp, ok := EmployeeFromContext(r.Context())
		if !ok {
			t.Error("no employee in context inside the handler")
		}
		gotEmail = emp.Email
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"unknown token", "Bearer sd_nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/weeks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if gotEmail != "alice@crushroom.vn" {
		t.Errorf("handler saw employee %q", gotEmail)
	}
}

func TestLeaderMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := LeaderMiddleware()(next)

	t.Run("no employee", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("plain employee", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ContextWithEmployee(req.Context(), testEmployee()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("leader", func(t *testing.T) {
		lead := testEmployee()
		lead.Role = "admin"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ContextWithEmployee(req.Context(), lead))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
