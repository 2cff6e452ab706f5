package schedule

import "sort"

// Assignment maps slot IDs to the employees placed in them for one
// (week, team) pair. Mutations are in-memory only until the leader saves the
// whole week; membership is deduplicated by lowercased email.
type Assignment struct {
	slots    map[string][]Assignee
	onChange func()
}

// NewAssignment returns an empty assignment map.
func NewAssignment() *Assignment {
	return &Assignment{slots: make(map[string][]Assignee)}
}

// OnChange registers a callback invoked after every mutation.
func (m *Assignment) OnChange(fn func()) {
	m.onChange = fn
}

func (m *Assignment) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}

// Assigned returns a copy of the slot's assignee list.
func (m *Assignment) Assigned(slotID string) []Assignee {
	list := m.slots[slotID]
	out := make([]Assignee, len(list))
	copy(out, list)
	return out
}

// IsAssigned reports whether the employee (by case-insensitive email) is in
// the slot.
func (m *Assignment) IsAssigned(slotID string, a Assignee) bool {
	key := a.EmailKey()
	for _, cur := range m.slots[slotID] {
		if cur.EmailKey() == key {
			return true
		}
	}
	return false
}

// ToggleSingle flips the employee's membership in the slot and returns the
// new membership, so duplicate UI surfaces (badges, a detail editor open on
// the same slot) can stay in sync.
func (m *Assignment) ToggleSingle(slotID string, a Assignee) bool {
	key := a.EmailKey()
	list := m.slots[slotID]
	for i, cur := range list {
		if cur.EmailKey() == key {
			m.slots[slotID] = append(list[:i], list[i+1:]...)
			m.notify()
			return false
		}
	}
	m.slots[slotID] = append(list, a)
	m.notify()
	return true
}

// BulkAssign adds the employee to every listed slot they are not already in
// and returns the count actually added. Idempotent: slots already containing
// the employee are skipped, not duplicated.
func (m *Assignment) BulkAssign(slotIDs []string, a Assignee) int {
	added := 0
	for _, id := range slotIDs {
		if m.IsAssigned(id, a) {
			continue
		}
		m.slots[id] = append(m.slots[id], a)
		added++
	}
	if added > 0 {
		m.notify()
	}
	return added
}

// Replace swaps the whole map for the given backend rows, deduplicating by
// lowercased email within each slot.
func (m *Assignment) Replace(rows []AssignmentRow) {
	m.slots = make(map[string][]Assignee)
	for _, r := range rows {
		id := SlotID(r.Date, r.Shift)
		a := Assignee{Email: r.Email, Name: r.Name, Team: r.Team, EmploymentType: r.EmploymentType}
		if m.IsAssigned(id, a) {
			continue
		}
		m.slots[id] = append(m.slots[id], a)
	}
	m.notify()
}

// Rows flattens the map back into wire rows for a full-replace save, ordered
// by slot ID then email. An assignee with no team of their own inherits the
// grid's team.
func (m *Assignment) Rows(team string) []AssignmentRow {
	ids := make([]string, 0, len(m.slots))
	for id := range m.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rows []AssignmentRow
	for _, id := range ids {
		date, shift, ok := SplitSlotID(id)
		if !ok {
			continue
		}
		list := m.Assigned(id)
		sort.Slice(list, func(i, j int) bool { return list[i].EmailKey() < list[j].EmailKey() })
		for _, a := range list {
			rowTeam := a.Team
			if rowTeam == "" {
				rowTeam = team
			}
			rows = append(rows, AssignmentRow{
				Date:           date,
				Shift:          shift,
				Email:          a.Email,
				Name:           a.Name,
				Team:           rowTeam,
				EmploymentType: a.EmploymentType,
				Note:           "",
			})
		}
	}
	return rows
}

// SlotIDs returns the sorted slot IDs that have at least one assignee.
func (m *Assignment) SlotIDs() []string {
	ids := make([]string, 0, len(m.slots))
	for id, list := range m.slots {
		if len(list) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
