package api

import (
	"log/slog"
	"net/http"

	"github.com/thanhvo/shiftdesk/internal/auth"
)

// auditLog emits a structured audit log entry for a scheduling action that
// changes shared state (saves, lock flips, logins).
func auditLog(r *http.Request, action string, detail ...any) {
	attrs := []any{
		"action", action,
		"ip", clientIP(r),
		"request_id", RequestIDFromContext(r.Context()),
	}

	if emp, ok := auth.EmployeeFromContext(r.Context()); ok {
		attrs = append(attrs, "email", emp.Email, "role", emp.Role, "team", emp.Team)
	}

	attrs = append(attrs, detail...)
	slog.Info("audit", attrs...)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
