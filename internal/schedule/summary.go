package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ShiftRange is a merged run of contiguous hour slots. End is exclusive and
// uses 24 (not 0) for midnight so that ranges stay ordered and Hours stays a
// plain subtraction.
type ShiftRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Hours returns the length of the range in hours.
func (r ShiftRange) Hours() int {
	return r.End - r.Start
}

// Label renders the range as "08:00-10:00".
func (r ShiftRange) Label() string {
	return fmt.Sprintf("%02d:00-%02d:00", r.Start, r.End)
}

// MergeShiftRanges merges a bag of canonical shift keys into ordered ranges.
// Two shifts merge iff the end hour of the earlier equals the start hour of
// the later. Duplicates collapse; input order is irrelevant (shifts are
// sorted by start hour first). Malformed keys are skipped.
func MergeShiftRanges(shifts []string) []ShiftRange {
	byStart := make(map[int]int, len(shifts))
	for _, s := range shifts {
		key, ok := NormalizeShift(s)
		if !ok {
			continue
		}
		parts := strings.SplitN(key, "-", 2)
		start, _ := strconv.Atoi(parts[0])
		end, _ := strconv.Atoi(parts[1])
		if end == 0 {
			end = 24 // "23-00" wraps
		}
		byStart[start] = end
	}

	starts := make([]int, 0, len(byStart))
	for s := range byStart {
		starts = append(starts, s)
	}
	sort.Ints(starts)

	var ranges []ShiftRange
	for _, s := range starts {
		end := byStart[s]
		if n := len(ranges); n > 0 && ranges[n-1].End == s {
			ranges[n-1].End = end
			continue
		}
		ranges = append(ranges, ShiftRange{Start: s, End: end})
	}
	return ranges
}

// DayRanges is one date's merged assigned ranges.
type DayRanges struct {
	Date   string       `json:"date"`
	Ranges []ShiftRange `json:"ranges"`
	Hours  int          `json:"hours"`
}

// PersonalSummary is the read-only projection of one employee's finalized
// week. A non-finalized week always yields an empty summary with
// Finalized=false; callers render an explicit "not yet finalized" indicator
// rather than stale content from an earlier final state.
type PersonalSummary struct {
	Status      string      `json:"status"`
	Finalized   bool        `json:"finalized"`
	Days        []DayRanges `json:"days"`
	TotalHours  int         `json:"totalHours"`
	WorkingDays int         `json:"workingDays"`
}

// BuildPersonalSummary filters assignment rows to one employee and merges
// them into per-day ranges with week totals.
func BuildPersonalSummary(meta Meta, rows []AssignmentRow, email string) PersonalSummary {
	summary := PersonalSummary{Status: meta.EffectiveStatus()}
	if !meta.Locked() {
		return summary
	}
	summary.Finalized = true

	key := strings.ToLower(strings.TrimSpace(email))
	shiftsByDate := make(map[string][]string)
	for _, r := range rows {
		if r.EmailKey() != key {
			continue
		}
		shiftsByDate[r.Date] = append(shiftsByDate[r.Date], r.Shift)
	}

	dates := make([]string, 0, len(shiftsByDate))
	for d := range shiftsByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		ranges := MergeShiftRanges(shiftsByDate[d])
		if len(ranges) == 0 {
			continue
		}
		hours := 0
		for _, r := range ranges {
			hours += r.Hours()
		}
		summary.Days = append(summary.Days, DayRanges{Date: d, Ranges: ranges, Hours: hours})
		summary.TotalHours += hours
		summary.WorkingDays++
	}
	return summary
}

// SlotTag is one person's marker in a company-view slot.
type SlotTag struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Team  string `json:"team"`
	Color string `json:"color"`
}

// CompanySlot groups the tags for one hour slot on one day.
type CompanySlot struct {
	Shift string    `json:"shift"`
	Tags  []SlotTag `json:"tags"`
}

// CompanyDay is one date's occupied slots.
type CompanyDay struct {
	Date  string        `json:"date"`
	Slots []CompanySlot `json:"slots"`
}

// CompanySummary is the whole-company (or one-team) finalized view,
// restricted to part-time employees: full-timers' hours are not part of the
// part-time shift summary. That is a business rule, not a data artifact.
type CompanySummary struct {
	Status    string       `json:"status"`
	Finalized bool         `json:"finalized"`
	Days      []CompanyDay `json:"days"`
}

// BuildCompanySummary groups assignment rows per slot per day with one tag
// per assigned person. team filters to one team when non-empty. Colors come
// from the palette, so the same email keeps the same color across every slot
// of a rendering session.
func BuildCompanySummary(meta Meta, rows []AssignmentRow, team string, palette *Palette) CompanySummary {
	summary := CompanySummary{Status: meta.EffectiveStatus()}
	if !meta.Locked() {
		return summary
	}
	summary.Finalized = true

	type slotKey struct{ date, shift string }
	tags := make(map[slotKey][]SlotTag)
	seen := make(map[string]struct{})
	for _, r := range rows {
		if r.EmploymentType == FullTime {
			continue
		}
		if team != "" && r.Team != team {
			continue
		}
		sk := slotKey{r.Date, r.Shift}
		dedup := sk.date + "|" + sk.shift + "|" + r.EmailKey()
		if _, ok := seen[dedup]; ok {
			continue
		}
		seen[dedup] = struct{}{}
		tags[sk] = append(tags[sk], SlotTag{
			Email: r.Email,
			Name:  r.Name,
			Team:  r.Team,
			Color: palette.Color(r.Email),
		})
	}

	byDate := make(map[string][]CompanySlot)
	for sk, list := range tags {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Name != list[j].Name {
				return list[i].Name < list[j].Name
			}
			return list[i].Email < list[j].Email
		})
		byDate[sk.date] = append(byDate[sk.date], CompanySlot{Shift: sk.shift, Tags: list})
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		slots := byDate[d]
		sort.Slice(slots, func(i, j int) bool {
			return ShiftStartHour(slots[i].Shift) < ShiftStartHour(slots[j].Shift)
		})
		summary.Days = append(summary.Days, CompanyDay{Date: d, Slots: slots})
	}
	return summary
}
