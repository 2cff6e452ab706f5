package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// EmployeeGrid drives the self-service availability page for one employee
// and one week. The grid mutates only in memory; Save transmits the full
// current set (the backend replaces the whole week).
type EmployeeGrid struct {
	mu sync.Mutex

	backend  Backend
	employee schedule.Employee

	weekStart string
	dates     []string
	slots     []schedule.TimeSlot
	validSlot map[string]struct{}

	availability *schedule.Availability
	meta         schedule.Meta
	scheduleRows []schedule.AssignmentRow

	dirty  bool
	saving bool
}

// EmployeeGridView is the render snapshot consumed by the presentation
// layer. The finalized personal summary is always present: it is the sole
// interface for full-time non-CS employees.
type EmployeeGridView struct {
	WeekStart string                   `json:"weekStart"`
	Team      string                   `json:"team"`
	Dates     []string                 `json:"dates"`
	Slots     []schedule.TimeSlot      `json:"slots"`
	Available []string                 `json:"available"` // sorted slot IDs
	Eligible  bool                     `json:"eligible"`
	CanEdit   bool                     `json:"canEdit"`
	Status    string                   `json:"status"`
	Dirty     bool                     `json:"dirty"`
	Summary   schedule.PersonalSummary `json:"summary"`
}

// NewEmployeeGrid builds a fresh controller for one (employee, week)
// selection. State never leaks between selections: a new week means a new
// controller.
func NewEmployeeGrid(backend Backend, emp schedule.Employee, weekStart string) (*EmployeeGrid, error) {
	dates, err := schedule.BuildWeekDates(weekStart)
	if err != nil {
		return nil, err
	}

	slots := schedule.BuildTimeSlots(emp.Team)
	valid := make(map[string]struct{}, len(dates)*len(slots))
	for _, d := range dates {
		for _, s := range slots {
			valid[schedule.SlotID(d, s.Key)] = struct{}{}
		}
	}

	g := &EmployeeGrid{
		backend:      backend,
		employee:     emp,
		weekStart:    weekStart,
		dates:        dates,
		slots:        slots,
		validSlot:    valid,
		availability: schedule.NewAvailability(),
	}
	g.availability.OnChange(func() { g.dirty = true })
	return g, nil
}

// Load fetches availability, lock meta, and the team schedule in parallel.
// A failed availability fetch keeps whatever the grid already shows; the
// error is still reported so the page can offer a retry.
func (g *EmployeeGrid) Load(ctx context.Context) error {
	var (
		wg      sync.WaitGroup
		entries []schedule.AvailabilityEntry
		meta    schedule.Meta
		rows    []schedule.AssignmentRow

		availErr, metaErr, schedErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		entries, availErr = g.backend.GetAvailability(ctx, g.employee.Email, g.weekStart)
	}()
	go func() {
		defer wg.Done()
		meta, metaErr = schedule.NewStatusService(g.backend).Load(ctx, g.weekStart, g.employee.Team)
	}()
	go func() {
		defer wg.Done()
		rows, schedErr = g.backend.GetSchedule(ctx, g.weekStart, g.employee.Team)
	}()
	wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	if availErr == nil {
		g.availability.Replace(entries)
		g.dirty = false
	}
	if metaErr == nil {
		g.meta = meta
	}
	if schedErr == nil {
		g.scheduleRows = rows
	}

	for _, err := range []error{availErr, metaErr, schedErr} {
		if err != nil {
			return fmt.Errorf("loading week %s: %w", g.weekStart, err)
		}
	}
	return nil
}

// CanEdit reports whether the grid accepts availability mutations right now:
// the employee must be eligible at all, and the week must not be finalized.
func (g *EmployeeGrid) CanEdit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canEditLocked()
}

func (g *EmployeeGrid) canEditLocked() bool {
	return g.employee.CanUseAvailability() && !g.meta.Locked()
}

// guard returns the business reason mutation is rejected, or nil.
func (g *EmployeeGrid) guardLocked() error {
	if !g.employee.CanUseAvailability() {
		return ErrNotEligible
	}
	if g.meta.Locked() {
		return ErrWeekLocked
	}
	return nil
}

// Toggle flips one slot in memory. No network. Rejected without touching
// the model when the week is locked or the employee is ineligible.
func (g *EmployeeGrid) Toggle(slotID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardLocked(); err != nil {
		return err
	}
	if _, ok := g.validSlot[slotID]; !ok {
		return ErrUnknownSlot
	}
	g.availability.Toggle(slotID)
	return nil
}

// Save transmits the full current set. Overlapping saves are rejected so a
// slow first save can't be silently overtaken: the user retries once it
// lands.
func (g *EmployeeGrid) Save(ctx context.Context) error {
	g.mu.Lock()
	if err := g.guardLocked(); err != nil {
		g.mu.Unlock()
		return err
	}
	if g.saving {
		g.mu.Unlock()
		return ErrSaveInFlight
	}
	g.saving = true
	entries := g.availability.Entries()
	g.mu.Unlock()

	err := g.backend.SaveAvailability(ctx, g.employee, g.weekStart, entries)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.saving = false
	if err != nil {
		return fmt.Errorf("saving availability: %w", err)
	}
	g.dirty = false
	return nil
}

// Snapshot renders the current state.
func (g *EmployeeGrid) Snapshot() EmployeeGridView {
	g.mu.Lock()
	defer g.mu.Unlock()

	return EmployeeGridView{
		WeekStart: g.weekStart,
		Team:      g.employee.Team,
		Dates:     g.dates,
		Slots:     g.slots,
		Available: g.availability.SlotIDs(),
		Eligible:  g.employee.CanUseAvailability(),
		CanEdit:   g.canEditLocked(),
		Status:    g.meta.EffectiveStatus(),
		Dirty:     g.dirty,
		Summary:   schedule.BuildPersonalSummary(g.meta, g.scheduleRows, g.employee.Email),
	}
}
