package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/thanhvo/shiftdesk/internal/auth"
	"github.com/thanhvo/shiftdesk/internal/controller"
	"github.com/thanhvo/shiftdesk/internal/metrics"
	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// scheduleHandler serves the employee self-service grid.
type scheduleHandler struct {
	backend Backend
	grids   *gridRegistry
	metrics *metrics.Metrics
}

func newScheduleHandler(backend Backend, grids *gridRegistry, m *metrics.Metrics) *scheduleHandler {
	return &scheduleHandler{backend: backend, grids: grids, metrics: m}
}

// normalizeWeek resolves the requested week start to a Monday: the current
// week when empty, otherwise the Monday of the week containing the given
// date.
func normalizeWeek(week string) (string, bool) {
	if week == "" {
		return schedule.CurrentMonday(time.Now()), true
	}
	return schedule.MondayOf(week)
}

// Load handles POST /api/v1/schedule/load. It builds a fresh grid for the
// requested week and replaces whatever the employee had loaded before.
func (h *scheduleHandler) Load(w http.ResponseWriter, r *http.Request) {
	emp, _ := auth.EmployeeFromContext(r.Context())

	var req struct {
		Week string `json:"week"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	week, ok := normalizeWeek(req.Week)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "week must be a YYYY-MM-DD date")
		return
	}

	grid, err := controller.NewEmployeeGrid(h.backend, emp, week)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	if err := grid.Load(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}

	h.grids.putEmployee(emp.Email, grid)
	writeJSON(w, http.StatusOK, grid.Snapshot())
}

// Toggle handles POST /api/v1/schedule/toggle.
func (h *scheduleHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	emp, _ := auth.EmployeeFromContext(r.Context())

	grid, ok := h.grids.getEmployee(emp.Email)
	if !ok {
		writeError(w, http.StatusConflict, "no_week_loaded", "load a week before editing")
		return
	}

	var req struct {
		SlotID string `json:"slotId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.SlotID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "slotId is required")
		return
	}

	if err := grid.Toggle(req.SlotID); err != nil {
		if errors.Is(err, controller.ErrNotEligible) && h.metrics != nil {
			h.metrics.IncEligibilityRejection()
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grid.Snapshot())
}

// Save handles POST /api/v1/schedule/save.
func (h *scheduleHandler) Save(w http.ResponseWriter, r *http.Request) {
	emp, _ := auth.EmployeeFromContext(r.Context())

	grid, ok := h.grids.getEmployee(emp.Email)
	if !ok {
		writeError(w, http.StatusConflict, "no_week_loaded", "load a week before saving")
		return
	}

	if err := grid.Save(r.Context()); err != nil {
		if errors.Is(err, controller.ErrNotEligible) && h.metrics != nil {
			h.metrics.IncEligibilityRejection()
		}
		writeDomainError(w, err)
		return
	}
	auditLog(r, "availability_save")
	writeJSON(w, http.StatusOK, grid.Snapshot())
}

// View handles GET /api/v1/schedule/view.
func (h *scheduleHandler) View(w http.ResponseWriter, r *http.Request) {
	emp, _ := auth.EmployeeFromContext(r.Context())

	grid, ok := h.grids.getEmployee(emp.Email)
	if !ok {
		writeError(w, http.StatusConflict, "no_week_loaded", "load a week first")
		return
	}
	writeJSON(w, http.StatusOK, grid.Snapshot())
}
