package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/thanhvo/shiftdesk/internal/schedule"
)

type contextKey int

const employeeContextKey contextKey = iota

// ContextWithEmployee returns a new context carrying the given employee.
func ContextWithEmployee(ctx context.Context, emp schedule.Employee) context.Context {
	return context.WithValue(ctx, employeeContextKey, emp)
}

// EmployeeFromContext extracts the employee from the context. ok is false
// when no authenticated employee is present.
func EmployeeFromContext(ctx context.Context) (schedule.Employee, bool) {
	emp, ok := ctx.Value(employeeContextKey).(schedule.Employee)
	return emp, ok
}

// SessionMiddleware returns middleware that authenticates requests using a
// bearer session token. On success the employee is injected into the request
// context.
func SessionMiddleware(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeUnauthorized(w, "missing or malformed authorization header")
				return
			}

			emp, ok := sessions.Lookup(token)
			if !ok {
				writeUnauthorized(w, "invalid or expired session")
				return
			}

			ctx := ContextWithEmployee(r.Context(), emp)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LeaderMiddleware requires an already-authenticated employee with the admin
// role. It must run after SessionMiddleware.
func LeaderMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			emp, ok := EmployeeFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "missing or malformed authorization header")
				return
			}
			if !emp.IsLeader() {
				writeForbidden(w, "leader access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Code:    "unauthorized",
			Message: message,
		},
	})
}

func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Code:    "forbidden",
			Message: message,
		},
	})
}
