package api

import (
	"errors"
	"net/http"

	"github.com/thanhvo/shiftdesk/internal/auth"
	"github.com/thanhvo/shiftdesk/internal/metrics"
	"github.com/thanhvo/shiftdesk/internal/sheets"
)

// authHandler groups authentication HTTP handlers. Credentials are verified
// by the scheduling backend; the server only keeps the resulting session.
type authHandler struct {
	backend  Backend
	sessions *auth.SessionStore
	grids    *gridRegistry
	metrics  *metrics.Metrics
}

func newAuthHandler(backend Backend, sessions *auth.SessionStore, grids *gridRegistry, m *metrics.Metrics) *authHandler {
	return &authHandler{backend: backend, sessions: sessions, grids: grids, metrics: m}
}

// Login handles POST /api/v1/auth/login.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	emp, err := h.backend.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.IncAuthFailure()
		}
		var backendErr *sheets.BackendError
		if errors.As(err, &backendErr) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
			return
		}
		writeError(w, http.StatusBadGateway, "backend_unavailable", "the scheduling backend did not respond")
		return
	}

	token, _, err := h.sessions.Create(emp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}
	if h.metrics != nil {
		h.metrics.IncAuthSuccess()
	}
	auditLog(r, "login", "email", emp.Email)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"email":          emp.Email,
			"name":           emp.Name,
			"role":           emp.Role,
			"team":           emp.Team,
			"employmentType": emp.EmploymentType,
			"leader":         emp.IsLeader(),
			"eligible":       emp.CanUseAvailability(),
		},
	})
}

// Me handles GET /api/v1/auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	emp, ok := auth.EmployeeFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"email":          emp.Email,
		"name":           emp.Name,
		"role":           emp.Role,
		"team":           emp.Team,
		"employmentType": emp.EmploymentType,
		"leader":         emp.IsLeader(),
		"eligible":       emp.CanUseAvailability(),
	})
}

// Logout handles POST /api/v1/auth/logout. Loaded grid controllers go with
// the session; a fresh login starts from a clean load.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if emp, ok := h.sessions.Lookup(token); ok {
		h.grids.drop(emp.Email)
	}
	h.sessions.Delete(token)
	w.WriteHeader(http.StatusNoContent)
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && h[:7] == "Bearer " {
		return h[7:]
	}
	return ""
}
