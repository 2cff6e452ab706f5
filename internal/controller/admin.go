package controller

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// AdminGrid drives the leader page for one (week, team) selection: the
// availability overview, slot-level assignment toggles, the multi-select
// quick-assign flow, the week save, and the finalize lock. Assignment edits
// stay possible regardless of lock status: the lock freezes employee
// availability, not leader corrections.
type AdminGrid struct {
	mu sync.Mutex

	backend Backend
	status  *schedule.StatusService
	actor   schedule.Employee

	weekStart string
	team      string
	dates     []string
	slots     []schedule.TimeSlot
	validSlot map[string]struct{}

	availability map[string][]schedule.Assignee
	assignment   *schedule.Assignment
	meta         schedule.Meta
	selection    map[string]struct{}
	palette      *schedule.Palette

	dirty  bool
	saving bool
}

// BadgeView is one person chip inside a grid cell. Anomaly marks a leader
// override: assigned without ever having marked themselves available. Those
// are preserved and flagged, never rejected.
type BadgeView struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Color    string `json:"color"`
	Assigned bool   `json:"assigned"`
	Anomaly  bool   `json:"anomaly"`
}

// CellView is one (date, slot) cell: the assigned/available counts shown in
// the cell header plus one badge per person.
type CellView struct {
	SlotID         string      `json:"slotId"`
	AvailableCount int         `json:"availableCount"`
	AssignedCount  int         `json:"assignedCount"`
	Badges         []BadgeView `json:"badges"`
	Selected       bool        `json:"selected"`
}

// AdminGridView is the render snapshot of the leader page.
type AdminGridView struct {
	WeekStart string                  `json:"weekStart"`
	Team      string                  `json:"team"`
	Dates     []string                `json:"dates"`
	Slots     []schedule.TimeSlot     `json:"slots"`
	Cells     map[string]CellView     `json:"cells"` // keyed by slot ID
	Status    string                  `json:"status"`
	Meta      schedule.Meta           `json:"meta"`
	Selection []string                `json:"selection"`
	Dirty     bool                    `json:"dirty"`
	Summary   schedule.CompanySummary `json:"summary"`
}

// NewAdminGrid builds a fresh leader controller for one (week, team)
// selection.
func NewAdminGrid(backend Backend, actor schedule.Employee, weekStart, team string) (*AdminGrid, error) {
	dates, err := schedule.BuildWeekDates(weekStart)
	if err != nil {
		return nil, err
	}

	slots := schedule.BuildTimeSlots(team)
	valid := make(map[string]struct{}, len(dates)*len(slots))
	for _, d := range dates {
		for _, s := range slots {
			valid[schedule.SlotID(d, s.Key)] = struct{}{}
		}
	}

	g := &AdminGrid{
		backend:      backend,
		status:       schedule.NewStatusService(backend),
		actor:        actor,
		weekStart:    weekStart,
		team:         team,
		dates:        dates,
		slots:        slots,
		validSlot:    valid,
		availability: make(map[string][]schedule.Assignee),
		assignment:   schedule.NewAssignment(),
		selection:    make(map[string]struct{}),
		palette:      schedule.NewPalette(),
	}
	g.assignment.OnChange(func() { g.dirty = true })
	return g, nil
}

// Load fetches team availability, the current schedule, and the lock meta in
// parallel. Partial failure applies whatever succeeded and reports the first
// error; the grid stays navigable with previously-built state.
func (g *AdminGrid) Load(ctx context.Context) error {
	var (
		wg    sync.WaitGroup
		avail map[string][]schedule.Assignee
		rows  []schedule.AssignmentRow
		meta  schedule.Meta

		availErr, schedErr, metaErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		avail, availErr = g.backend.GetAllAvailability(ctx, g.weekStart, g.team)
	}()
	go func() {
		defer wg.Done()
		rows, schedErr = g.backend.GetSchedule(ctx, g.weekStart, g.team)
	}()
	go func() {
		defer wg.Done()
		meta, metaErr = g.status.Load(ctx, g.weekStart, g.team)
	}()
	wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	if availErr == nil {
		g.availability = avail
	}
	if schedErr == nil {
		g.assignment.Replace(rows)
		g.dirty = false
	}
	if metaErr == nil {
		g.meta = meta
	}

	for _, err := range []error{availErr, schedErr, metaErr} {
		if err != nil {
			return fmt.Errorf("loading week %s team %s: %w", g.weekStart, g.team, err)
		}
	}
	return nil
}

// ToggleAssign flips one employee in one slot and returns the new
// membership, so every open surface showing that slot can sync.
func (g *AdminGrid) ToggleAssign(slotID string, a schedule.Assignee) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.validSlot[slotID]; !ok {
		return false, ErrUnknownSlot
	}
	return g.assignment.ToggleSingle(slotID, a), nil
}

// ToggleSelect adds or removes a slot from the quick-assign selection and
// returns whether the slot is now selected.
func (g *AdminGrid) ToggleSelect(slotID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.validSlot[slotID]; !ok {
		return false, ErrUnknownSlot
	}
	if _, ok := g.selection[slotID]; ok {
		delete(g.selection, slotID)
		return false, nil
	}
	g.selection[slotID] = struct{}{}
	return true, nil
}

// ClearSelection empties the quick-assign selection.
func (g *AdminGrid) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selection = make(map[string]struct{})
}

// QuickAssign places the employee into every selected slot they are not
// already in, clears the selection, and returns the count actually added.
func (g *AdminGrid) QuickAssign(a schedule.Assignee) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]string, 0, len(g.selection))
	for id := range g.selection {
		ids = append(ids, id)
	}
	added := g.assignment.BulkAssign(ids, a)
	g.selection = make(map[string]struct{})
	return added
}

// Save flattens the in-memory assignment map and replaces the backend's
// whole (week, team) schedule. Nothing is persisted before this call; the
// view's Dirty flag tells leaders their toggles are not saved yet.
func (g *AdminGrid) Save(ctx context.Context) error {
	g.mu.Lock()
	if g.saving {
		g.mu.Unlock()
		return ErrSaveInFlight
	}
	g.saving = true
	rows := g.assignment.Rows(g.team)
	g.mu.Unlock()

	err := g.backend.SaveSchedule(ctx, g.weekStart, g.team, rows)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.saving = false
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	g.dirty = false
	return nil
}

// ToggleLock flips the week between draft and final with the acting leader
// stamped as owner. On success the backend's meta replaces local state; on
// failure local state is untouched.
func (g *AdminGrid) ToggleLock(ctx context.Context) (schedule.Meta, error) {
	g.mu.Lock()
	current := g.meta
	g.mu.Unlock()

	meta, err := g.status.ToggleLock(ctx, g.weekStart, g.team, current, g.actor)
	if err != nil {
		return schedule.Meta{}, err
	}

	g.mu.Lock()
	g.meta = meta
	g.mu.Unlock()
	return meta, nil
}

// Week returns the grid's week start date.
func (g *AdminGrid) Week() string {
	return g.weekStart
}

// Summary builds the finalized company view for this grid's team from the
// current in-memory rows.
func (g *AdminGrid) Summary() schedule.CompanySummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return schedule.BuildCompanySummary(g.meta, g.assignment.Rows(g.team), g.team, g.palette)
}

// Snapshot renders the full grid. Every cell lists the union of available
// and assigned people; an assignee missing from availability is flagged as
// an anomaly (leader override), not dropped.
func (g *AdminGrid) Snapshot() AdminGridView {
	g.mu.Lock()
	defer g.mu.Unlock()

	cells := make(map[string]CellView, len(g.validSlot))
	for id := range g.validSlot {
		avail := g.availability[id]
		assigned := g.assignment.Assigned(id)

		assignedKeys := make(map[string]struct{}, len(assigned))
		for _, a := range assigned {
			assignedKeys[a.EmailKey()] = struct{}{}
		}
		availKeys := make(map[string]struct{}, len(avail))

		var badges []BadgeView
		for _, a := range avail {
			key := a.EmailKey()
			if _, dup := availKeys[key]; dup {
				continue
			}
			availKeys[key] = struct{}{}
			_, isAssigned := assignedKeys[key]
			badges = append(badges, BadgeView{
				Email:    a.Email,
				Name:     a.Name,
				Team:     a.Team,
				Color:    g.palette.Color(a.Email),
				Assigned: isAssigned,
			})
		}
		for _, a := range assigned {
			if _, ok := availKeys[a.EmailKey()]; ok {
				continue
			}
			badges = append(badges, BadgeView{
				Email:    a.Email,
				Name:     a.Name,
				Team:     a.Team,
				Color:    g.palette.Color(a.Email),
				Assigned: true,
				Anomaly:  true,
			})
		}

		_, selected := g.selection[id]
		cells[id] = CellView{
			SlotID:         id,
			AvailableCount: len(availKeys),
			AssignedCount:  len(assignedKeys),
			Badges:         badges,
			Selected:       selected,
		}
	}

	selection := make([]string, 0, len(g.selection))
	for id := range g.selection {
		selection = append(selection, id)
	}
	sort.Strings(selection)

	return AdminGridView{
		WeekStart: g.weekStart,
		Team:      g.team,
		Dates:     g.dates,
		Slots:     g.slots,
		Cells:     cells,
		Status:    g.meta.EffectiveStatus(),
		Meta:      g.meta,
		Selection: selection,
		Dirty:     g.dirty,
		Summary:   schedule.BuildCompanySummary(g.meta, g.assignment.Rows(g.team), g.team, g.palette),
	}
}
