// Package controller holds the stateful grid controllers behind the two
// scheduling pages: the employee self-service grid and the leader grid. One
// controller instance is built per (week, team) selection and mutated in
// memory until an explicit save pushes the full state to the backend.
package controller

import (
	"context"
	"errors"

	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// Backend is the slice of the sheets client the controllers depend on.
type Backend interface {
	GetAvailability(ctx context.Context, email, weekStart string) ([]schedule.AvailabilityEntry, error)
	SaveAvailability(ctx context.Context, emp schedule.Employee, weekStart string, entries []schedule.AvailabilityEntry) error
	GetAllAvailability(ctx context.Context, weekStart, team string) (map[string][]schedule.Assignee, error)
	GetSchedule(ctx context.Context, weekStart, team string) ([]schedule.AssignmentRow, error)
	SaveSchedule(ctx context.Context, weekStart, team string, rows []schedule.AssignmentRow) error
	GetScheduleMeta(ctx context.Context, weekStart, team string) (schedule.Meta, error)
	SetScheduleStatus(ctx context.Context, weekStart, team, status string, actor schedule.Employee, note string) (schedule.Meta, error)
}

// Guard errors. These are business rejections raised before any network
// call, never transport failures.
var (
	ErrNotEligible  = errors.New("employee does not use self-service availability")
	ErrWeekLocked   = errors.New("week is finalized; availability is read-only")
	ErrSaveInFlight = errors.New("a save is already in progress")
	ErrUnknownSlot  = errors.New("slot is not part of this week's grid")
)
