package schedule

import "strings"

// Employee is one identity record from the backend's People sheet. Immutable
// from this service's perspective.
type Employee struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"` // "admin" (leader) or "staff"
	Team           string `json:"team"` // TeamCS or TeamMO
	EmploymentType string `json:"employmentType"`
}

// EmailKey returns the lowercased email used for identity comparison
// everywhere. Emails in the sheet vary in casing.
func (e *Employee) EmailKey() string {
	return strings.ToLower(strings.TrimSpace(e.Email))
}

// IsLeader reports whether the employee may use the leader-facing grid.
func (e *Employee) IsLeader() bool {
	return e.Role == "admin"
}

// CanUseAvailability reports whether the employee participates in
// self-service availability at all. Part-timers always do; full-timers only
// on the CS team. This is a role rule, independent of any week's lock state.
func (e *Employee) CanUseAvailability() bool {
	if e.EmploymentType != FullTime {
		return true
	}
	return e.Team == TeamCS
}

// Assignee is one employee placed (or available) in a slot.
type Assignee struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Team           string `json:"team"`
	EmploymentType string `json:"employmentType,omitempty"`
}

// EmailKey returns the lowercased email for dedup and membership checks.
func (a Assignee) EmailKey() string {
	return strings.ToLower(strings.TrimSpace(a.Email))
}

// AvailabilityEntry is one self-declared free slot for one employee.
type AvailabilityEntry struct {
	Date  string `json:"date"`
	Shift string `json:"shift"`
}

// AssignmentRow is one placed shift as it travels on the wire.
type AssignmentRow struct {
	Date           string `json:"date"`
	Shift          string `json:"shift"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Team           string `json:"team"`
	EmploymentType string `json:"employmentType,omitempty"`
	Note           string `json:"note"`
}

// EmailKey returns the lowercased email for dedup and membership checks.
func (r AssignmentRow) EmailKey() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// Schedule status values. A week/team pair is draft until a leader finalizes
// it; final freezes employee availability edits.
const (
	StatusDraft = "draft"
	StatusFinal = "final"
)

// Meta is the per-(week, team) schedule record: its lock status and who
// flipped it last.
type Meta struct {
	Status        string `json:"status"`
	LockedByEmail string `json:"lockedByEmail"`
	LockedByName  string `json:"lockedByName"`
	LockedAt      string `json:"lockedAt"`
	Note          string `json:"note"`
}

// EffectiveStatus maps an absent or unknown status to draft. The backend has
// no meta row at all for most weeks.
func (m Meta) EffectiveStatus() string {
	if m.Status == StatusFinal {
		return StatusFinal
	}
	return StatusDraft
}

// Locked reports whether the week has been finalized.
func (m Meta) Locked() bool {
	return m.EffectiveStatus() == StatusFinal
}
