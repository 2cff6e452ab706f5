package schedule

import "sort"

// Availability is one employee's set of free slots for one week. Purely
// in-memory; loading and saving go through the backend client. Mutations
// never touch the network.
type Availability struct {
	slots    map[string]struct{}
	onChange func()
}

// NewAvailability returns an empty availability set.
func NewAvailability() *Availability {
	return &Availability{slots: make(map[string]struct{})}
}

// OnChange registers a callback invoked after every mutation. The rendering
// layer uses this to re-render dependent surfaces.
func (a *Availability) OnChange(fn func()) {
	a.onChange = fn
}

func (a *Availability) notify() {
	if a.onChange != nil {
		a.onChange()
	}
}

// Has reports whether the slot is marked free.
func (a *Availability) Has(slotID string) bool {
	_, ok := a.slots[slotID]
	return ok
}

// Len returns the number of marked slots.
func (a *Availability) Len() int {
	return len(a.slots)
}

// Toggle flips membership of slotID and returns the new membership.
func (a *Availability) Toggle(slotID string) bool {
	if _, ok := a.slots[slotID]; ok {
		delete(a.slots, slotID)
		a.notify()
		return false
	}
	a.slots[slotID] = struct{}{}
	a.notify()
	return true
}

// Replace swaps the whole set for the given entries. Entries are expected to
// be normalized already (the client normalizes at ingestion).
func (a *Availability) Replace(entries []AvailabilityEntry) {
	a.slots = make(map[string]struct{}, len(entries))
	for _, e := range entries {
		a.slots[SlotID(e.Date, e.Shift)] = struct{}{}
	}
	a.notify()
}

// Entries returns the current set as wire entries, ordered by date then
// shift. Saves always transmit this full set: the backend replaces the
// employee's entire week rather than merging.
func (a *Availability) Entries() []AvailabilityEntry {
	ids := make([]string, 0, len(a.slots))
	for id := range a.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]AvailabilityEntry, 0, len(ids))
	for _, id := range ids {
		date, shift, ok := SplitSlotID(id)
		if !ok {
			continue
		}
		entries = append(entries, AvailabilityEntry{Date: date, Shift: shift})
	}
	return entries
}

// SlotIDs returns the sorted slot IDs currently marked free.
func (a *Availability) SlotIDs() []string {
	ids := make([]string, 0, len(a.slots))
	for id := range a.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
