package api

import (
	"net/http"

	"github.com/thanhvo/shiftdesk/internal/auth"
	"github.com/thanhvo/shiftdesk/internal/controller"
	"github.com/thanhvo/shiftdesk/internal/metrics"
	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// adminHandler serves the leader grid: team availability overview,
// assignment edits, quick-assign, save, and the finalize lock.
type adminHandler struct {
	backend Backend
	grids   *gridRegistry
	metrics *metrics.Metrics
}

func newAdminHandler(backend Backend, grids *gridRegistry, m *metrics.Metrics) *adminHandler {
	return &adminHandler{backend: backend, grids: grids, metrics: m}
}

func normalizeTeam(team string, actor schedule.Employee) (string, bool) {
	switch team {
	case "":
		if actor.Team == schedule.TeamMO {
			return schedule.TeamMO, true
		}
		return schedule.TeamCS, true
	case schedule.TeamCS, schedule.TeamMO:
		return team, true
	}
	return "", false
}

// Load handles POST /api/v1/admin/schedule/load. A fresh controller replaces
// the leader's previous (week, team) selection.
func (h *adminHandler) Load(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.EmployeeFromContext(r.Context())

	var req struct {
		Week string `json:"week"`
		Team string `json:"team"`
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
	team, ok := normalizeTeam(req.Team, actor)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "team must be cs or mo")
		return
	}

	grid, err := controller.NewAdminGrid(h.backend, actor, week, team)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	if err := grid.Load(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}

	h.grids.putAdmin(actor.Email, grid)
	writeJSON(w, http.StatusOK, grid.Snapshot())
}

func (h *adminHandler) grid(w http.ResponseWriter, r *http.Request) (*controller.AdminGrid, bool) {
	actor, _ := auth.EmployeeFromContext(r.Context())
	grid, ok := h.grids.getAdmin(actor.Email)
	if !ok {
		writeError(w, http.StatusConflict, "no_week_loaded", "load a week before editing")
		return nil, false
	}
	return grid, true
}

// Toggle handles POST /api/v1/admin/schedule/toggle: one person in or out of
// one slot.
func (h *adminHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.grid(w, r)
	if !ok {
		return
	}

	var req struct {
		SlotID         string `json:"slotId"`
		Email          string `json:"email"`
		Name           string `json:"name"`
		Team           string `json:"team"`
		EmploymentType string `json:"employmentType"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.SlotID == "" || req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "slotId and email are required")
		return
	}

	assigned, err := grid.ToggleAssign(req.SlotID, schedule.Assignee{
		Email:          req.Email,
		Name:           req.Name,
		Team:           req.Team,
		EmploymentType: req.EmploymentType,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assigned": assigned,
		"view":     grid.Snapshot(),
	})
}

// Select handles POST /api/v1/admin/schedule/select: toggles a slot in the
// quick-assign selection.
func (h *adminHandler) Select(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.grid(w, r)
	if !ok {
		return
	}

	var req struct {
		SlotID string `json:"slotId"`
		Clear  bool   `json:"clear"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Clear {
		grid.ClearSelection()
		writeJSON(w, http.StatusOK, grid.Snapshot())
		return
	}
	if req.SlotID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "slotId is required")
		return
	}

	selected, err := grid.ToggleSelect(req.SlotID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"selected": selected,
		"view":     grid.Snapshot(),
	})
}

// QuickAssign handles POST /api/v1/admin/schedule/quick-assign: one person
// into every selected slot.
func (h *adminHandler) QuickAssign(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.grid(w, r)
	if !ok {
		return
	}

	var req struct {
		Email          string `json:"email"`
		Name           string `json:"name"`
		Team           string `json:"team"`
		EmploymentType string `json:"employmentType"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is required")
		return
	}

	added := grid.QuickAssign(schedule.Assignee{
		Email:          req.Email,
		Name:           req.Name,
		Team:           req.Team,
		EmploymentType: req.EmploymentType,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added": added,
		"view":  grid.Snapshot(),
	})
}

// Save handles POST /api/v1/admin/schedule/save.
func (h *adminHandler) Save(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.grid(w, r)
	if !ok {
		return
	}

	if err := grid.Save(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	auditLog(r, "schedule_save")
	writeJSON(w, http.StatusOK, grid.Snapshot())
}

// Lock handles POST /api/v1/admin/schedule/lock: flips draft/final.
func (h *adminHandler) Lock(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.grid(w, r)
	if !ok {
		return
	}

	meta, err := grid.ToggleLock(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncLockTransition(meta.Status)
	}
	auditLog(r, "schedule_lock", "status", meta.Status)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"meta": meta,
		"view": grid.Snapshot(),
	})
}

// View handles GET /api/v1/admin/schedule/view.
func (h *adminHandler) View(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.grid(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, grid.Snapshot())
}

// Summary handles GET /api/v1/admin/schedule/summary: the part-time company
// view of the loaded week. With ?scope=company the view spans both teams,
// fetched fresh from the backend rather than from the loaded grid.
func (h *adminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.grid(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("scope") == "company" {
		sum, err := controller.LoadCompanySummary(r.Context(), h.backend, grid.Week(), "", schedule.NewPalette())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
		return
	}

	writeJSON(w, http.StatusOK, grid.Summary())
}
