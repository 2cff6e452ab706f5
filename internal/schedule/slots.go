package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Team identifiers. Customer Service covers 08:00-24:00; every other team
// (currently only Marketing) covers 09:00-18:00.
const (
	TeamCS = "cs"
	TeamMO = "mo"
)

// Employment types.
const (
	PartTime = "parttime"
	FullTime = "fulltime"
)

// dateLayout is the wire format for all dates (YYYY-MM-DD).
const dateLayout = "2006-01-02"

// TimeSlot is one hour-long schedulable unit within a day.
type TimeSlot struct {
	Key   string `json:"key"`   // "08-09"
	Label string `json:"label"` // "08:00 - 09:00"
}

// BuildTimeSlots returns the ordered hour slots for a team. CS runs 08-24 (16
// slots, last key "23-00"); any other team gets the narrower 09-18 window (9
// slots, last key "17-18"). Unknown teams fall back to the narrow window so a
// misconfigured team never sees night hours.
func BuildTimeSlots(team string) []TimeSlot {
	startHour, endHour := 9, 18
	if team == TeamCS {
		startHour, endHour = 8, 24
	}

	slots := make([]TimeSlot, 0, endHour-startHour)
	for h := startHour; h < endHour; h++ {
		next := (h + 1) % 24
		slots = append(slots, TimeSlot{
			Key:   fmt.Sprintf("%02d-%02d", h, next),
			Label: fmt.Sprintf("%02d:00 - %02d:00", h, next),
		})
	}
	return slots
}

// BuildWeekDates expands a week-start date into the 7 consecutive calendar
// dates beginning at weekStart.
func BuildWeekDates(weekStart string) ([]string, error) {
	start, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return nil, fmt.Errorf("parsing week start %q: %w", weekStart, err)
	}

	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = start.AddDate(0, 0, i).Format(dateLayout)
	}
	return dates, nil
}

// CurrentMonday returns the Monday of the week containing now. This is the
// default displayed week: employees should land on currently-relevant state.
func CurrentMonday(now time.Time) string {
	offset := (int(now.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return now.AddDate(0, 0, -offset).Format(dateLayout)
}

// shiftPattern accepts one- or two-digit hour boundaries ("8-9", "08-09").
var shiftPattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)

// NormalizeShift canonicalizes a raw shift key to the zero-padded HH-HH form.
// Slot identity is exact string equality, so every ingestion boundary must go
// through here; backends have historically emitted unpadded hours. Returns
// false for anything that doesn't look like an hour range.
func NormalizeShift(raw string) (string, bool) {
	m := shiftPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	from, _ := strconv.Atoi(m[1])
	to, _ := strconv.Atoi(m[2])
	if from > 23 || to > 23 {
		return "", false
	}
	return fmt.Sprintf("%02d-%02d", from, to), true
}

// NormalizeDate truncates a raw date value to YYYY-MM-DD and validates it.
// Spreadsheet-backed rows sometimes carry a trailing time component.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < len(dateLayout) {
		return "", false
	}
	s = s[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", false
	}
	return s, true
}

// MondayOf normalizes a raw date and snaps it back to the Monday of its
// week. Week starts are always Mondays; callers passing a mid-week date mean
// that date's week.
func MondayOf(raw string) (string, bool) {
	date, ok := NormalizeDate(raw)
	if !ok {
		return "", false
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", false
	}
	return CurrentMonday(t), true
}

// SlotID builds the composite "{date}|{shift}" key addressing one slot.
func SlotID(date, shift string) string {
	return date + "|" + shift
}

// SplitSlotID splits a slot ID back into its date and shift parts.
func SplitSlotID(id string) (date, shift string, ok bool) {
	date, shift, ok = strings.Cut(id, "|")
	if !ok || date == "" || shift == "" {
		return "", "", false
	}
	return date, shift, true
}

// ShiftStartHour returns the start hour of a canonical shift key. Used for
// ordering; returns -1 for malformed keys.
func ShiftStartHour(shift string) int {
	m := shiftPattern.FindStringSubmatch(shift)
	if m == nil {
		return -1
	}
	h, _ := strconv.Atoi(m[1])
	return h
}
