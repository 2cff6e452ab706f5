package schedule

import (
	"reflect"
	"testing"
)

func TestMergeShiftRanges(t *testing.T) {
	// Accidental duplicate must not change the result: two merged ranges,
	// three total hours.
	got := MergeShiftRanges([]string{"08-09", "09-10", "09-10", "13-14"})
	want := []ShiftRange{{Start: 8, End: 10}, {Start: 13, End: 14}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergeShiftRanges = %v, want %v", got, want)
	}

	total := 0
	for _, r := range got {
		total += r.Hours()
	}
	if total != 3 {
		t.Errorf("expected 3 total hours, got %d", total)
	}
}

func TestMergeShiftRangesUnorderedInput(t *testing.T) {
	// Merging must be stable under slot reordering.
	a := MergeShiftRanges([]string{"13-14", "09-10", "08-09"})
	b := MergeShiftRanges([]string{"08-09", "09-10", "13-14"})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("merge not order-independent: %v vs %v", a, b)
	}
}

func TestMergeShiftRangesMidnightWrap(t *testing.T) {
	got := MergeShiftRanges([]string{"22-23", "23-00"})
	want := []ShiftRange{{Start: 22, End: 24}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergeShiftRanges = %v, want %v", got, want)
	}
	if got[0].Label() != "22:00-24:00" {
		t.Errorf("unexpected label %q", got[0].Label())
	}
	if got[0].Hours() != 2 {
		t.Errorf("expected 2 hours, got %d", got[0].Hours())
	}
}

func TestMergeShiftRangesSkipsMalformed(t *testing.T) {
	got := MergeShiftRanges([]string{"08-09", "garbage", ""})
	want := []ShiftRange{{Start: 8, End: 9}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeShiftRanges = %v, want %v", got, want)
	}
}

func finalMeta() Meta {
	return Meta{Status: StatusFinal, LockedByEmail: "lead@crushroom.vn", LockedByName: "Lead"}
}

func TestBuildPersonalSummary(t *testing.T) {
	rows := []AssignmentRow{
		{Date: "2025-01-06", Shift: "08-09", Email: "Alice@crushroom.vn"},
		{Date: "2025-01-06", Shift: "09-10", Email: "alice@crushroom.vn"},
		{Date: "2025-01-08", Shift: "13-14", Email: "alice@crushroom.vn"},
		{Date: "2025-01-06", Shift: "09-10", Email: "bob@crushroom.vn"}, // someone else
	}

	s := BuildPersonalSummary(finalMeta(), rows, "ALICE@crushroom.vn")
	if !s.Finalized {
		t.Fatal("expected finalized summary")
	}
	if s.TotalHours != 3 {
		t.Errorf("expected 3 total hours, got %d", s.TotalHours)
	}
	if s.WorkingDays != 2 {
		t.Errorf("expected 2 working days, got %d", s.WorkingDays)
	}
	if len(s.Days) != 2 || s.Days[0].Date != "2025-01-06" {
		t.Fatalf("unexpected days %v", s.Days)
	}
	if want := []ShiftRange{{Start: 8, End: 10}}; !reflect.DeepEqual(s.Days[0].Ranges, want) {
		t.Errorf("day 1 ranges = %v, want %v", s.Days[0].Ranges, want)
	}
}

func TestPersonalSummaryDraftWeekIsEmpty(t *testing.T) {
	rows := []AssignmentRow{
		{Date: "2025-01-06", Shift: "08-09", Email: "alice@crushroom.vn"},
	}
	s := BuildPersonalSummary(Meta{}, rows, "alice@crushroom.vn")
	if s.Finalized {
		t.Fatal("draft week must not be finalized")
	}
	if s.Status != StatusDraft {
		t.Errorf("expected draft status, got %q", s.Status)
	}
	// Never partial/stale content for a draft week.
	if len(s.Days) != 0 || s.TotalHours != 0 {
		t.Errorf("draft summary must be empty, got %+v", s)
	}
}

func TestBuildCompanySummaryPartTimeOnly(t *testing.T) {
	rows := []AssignmentRow{
		{Date: "2025-01-06", Shift: "09-10", Email: "alice@crushroom.vn", Name: "Alice", Team: TeamMO},
		{Date: "2025-01-06", Shift: "09-10", Email: "ft@crushroom.vn", Name: "FullTimer", Team: TeamMO, EmploymentType: FullTime},
		{Date: "2025-01-06", Shift: "09-10", Email: "ALICE@crushroom.vn", Name: "Alice", Team: TeamMO}, // duplicate
		{Date: "2025-01-06", Shift: "08-09", Email: "carol@crushroom.vn", Name: "Carol", Team: TeamCS},
	}

	s := BuildCompanySummary(finalMeta(), rows, "", NewPalette())
	if !s.Finalized || len(s.Days) != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}

	slots := s.Days[0].Slots
	if len(slots) != 2 {
		t.Fatalf("expected 2 occupied slots, got %d", len(slots))
	}
	// Sorted by start hour.
	if slots[0].Shift != "08-09" || slots[1].Shift != "09-10" {
		t.Errorf("slots out of order: %v", slots)
	}
	// Full-timer filtered, duplicate collapsed.
	if len(slots[1].Tags) != 1 || slots[1].Tags[0].Name != "Alice" {
		t.Errorf("unexpected tags %v", slots[1].Tags)
	}
}

func TestBuildCompanySummaryTeamFilter(t *testing.T) {
	rows := []AssignmentRow{
		{Date: "2025-01-06", Shift: "09-10", Email: "alice@crushroom.vn", Name: "Alice", Team: TeamMO},
		{Date: "2025-01-06", Shift: "08-09", Email: "carol@crushroom.vn", Name: "Carol", Team: TeamCS},
	}
	s := BuildCompanySummary(finalMeta(), rows, TeamCS, NewPalette())
	if len(s.Days) != 1 || len(s.Days[0].Slots) != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Days[0].Slots[0].Tags[0].Email != "carol@crushroom.vn" {
		t.Errorf("expected only the CS row, got %v", s.Days[0].Slots)
	}
}

func TestCompanySummaryDraftWeekIsEmpty(t *testing.T) {
	rows := []AssignmentRow{
		{Date: "2025-01-06", Shift: "09-10", Email: "alice@crushroom.vn", Team: TeamMO},
	}
	s := BuildCompanySummary(Meta{Status: StatusDraft}, rows, "", NewPalette())
	if s.Finalized || len(s.Days) != 0 {
		t.Errorf("draft company summary must be empty, got %+v", s)
	}
}

func TestPaletteStability(t *testing.T) {
	p := NewPalette()

	first := p.Color("alice@crushroom.vn")
	second := p.Color("bob@crushroom.vn")
	if first == second {
		t.Error("distinct emails should get distinct colors while the cycle lasts")
	}
	// Same email, any casing, always the same color within a session.
	if got := p.Color("ALICE@crushroom.vn"); got != first {
		t.Errorf("palette not stable per email: %q vs %q", got, first)
	}
	if got := p.Color(""); got != neutralColor {
		t.Errorf("empty email should map to the neutral color, got %q", got)
	}
}
