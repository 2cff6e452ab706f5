package schedule

import (
	"testing"
	"time"
)

func TestBuildTimeSlotsCS(t *testing.T) {
	slots := BuildTimeSlots(TeamCS)

	if len(slots) != 16 {
		t.Fatalf("expected 16 CS slots, got %d", len(slots))
	}
	if slots[0].Key != "08-09" {
		t.Errorf("expected first slot 08-09, got %q", slots[0].Key)
	}
	if slots[len(slots)-1].Key != "23-00" {
		t.Errorf("expected last slot 23-00, got %q", slots[len(slots)-1].Key)
	}
	if slots[0].Label != "08:00 - 09:00" {
		t.Errorf("unexpected label %q", slots[0].Label)
	}
}

func TestBuildTimeSlotsNarrowWindow(t *testing.T) {
	// MO and any unknown team get the 09-18 window; unknown teams must never
	// fall open to the wider CS window.
	for _, team := range []string{TeamMO, "laser", ""} {
		slots := BuildTimeSlots(team)
		if len(slots) != 9 {
			t.Fatalf("team %q: expected 9 slots, got %d", team, len(slots))
		}
		if slots[0].Key != "09-10" {
			t.Errorf("team %q: expected first slot 09-10, got %q", team, slots[0].Key)
		}
		if slots[len(slots)-1].Key != "17-18" {
			t.Errorf("team %q: expected last slot 17-18, got %q", team, slots[len(slots)-1].Key)
		}
	}
}

func TestBuildWeekDates(t *testing.T) {
	dates, err := BuildWeekDates("2025-01-06")
	if err != nil {
		t.Fatalf("BuildWeekDates failed: %v", err)
	}
	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if dates[0] != "2025-01-06" {
		t.Errorf("expected week to start at 2025-01-06, got %q", dates[0])
	}
	if dates[6] != "2025-01-12" {
		t.Errorf("expected week to end at 2025-01-12, got %q", dates[6])
	}

	// Month boundary.
	dates, err = BuildWeekDates("2025-01-27")
	if err != nil {
		t.Fatalf("BuildWeekDates failed: %v", err)
	}
	if dates[6] != "2025-02-02" {
		t.Errorf("expected 2025-02-02 across month boundary, got %q", dates[6])
	}
}

func TestBuildWeekDatesInvalid(t *testing.T) {
	if _, err := BuildWeekDates("not-a-date"); err == nil {
		t.Error("expected error for malformed week start")
	}
	if _, err := BuildWeekDates(""); err == nil {
		t.Error("expected error for empty week start")
	}
}

func TestCurrentMonday(t *testing.T) {
	cases := []struct {
		now  string
		want string
	}{
		{"2025-01-06", "2025-01-06"}, // Monday maps to itself
		{"2025-01-08", "2025-01-06"}, // Wednesday
		{"2025-01-12", "2025-01-06"}, // Sunday still belongs to this week
		{"2025-01-13", "2025-01-13"}, // next Monday starts a new week
	}
	for _, c := range cases {
		now, err := time.Parse("2006-01-02", c.now)
		if err != nil {
			t.Fatal(err)
		}
		if got := CurrentMonday(now); got != c.want {
			t.Errorf("CurrentMonday(%s) = %q, want %q", c.now, got, c.want)
		}
	}
}

func TestNormalizeShift(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"08-09", "08-09", true},
		{"8-9", "08-09", true},
		{" 8-9 ", "08-09", true},
		{"23-0", "23-00", true},
		{"9-10", "09-10", true},
		{"08:09", "", false},
		{"abc", "", false},
		{"", "", false},
		{"25-26", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeShift(c.raw)
		if ok != c.ok || got != c.want {
			t.Errorf("NormalizeShift(%q) = (%q, %v), want (%q, %v)", c.raw, got, ok, c.want, c.ok)
		}
	}

	// Unpadded and padded forms must produce identical slot identity.
	a, _ := NormalizeShift("8-9")
	b, _ := NormalizeShift("08-09")
	if a != b {
		t.Errorf("normalization not canonical: %q vs %q", a, b)
	}
}

func TestNormalizeDate(t *testing.T) {
	got, ok := NormalizeDate("2025-01-06T00:00:00.000Z")
	if !ok || got != "2025-01-06" {
		t.Errorf("expected truncation to 2025-01-06, got (%q, %v)", got, ok)
	}
	if _, ok := NormalizeDate("06/01/2025"); ok {
		t.Error("expected rejection of non-ISO date")
	}
	if _, ok := NormalizeDate(""); ok {
		t.Error("expected rejection of empty date")
	}
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2025-01-06", "2025-01-06", true}, // already a Monday
		{"2025-01-08", "2025-01-06", true}, // Wednesday
		{"2025-01-12", "2025-01-06", true}, // Sunday stays in its week
		{"2025-01-13", "2025-01-13", true}, // next Monday
		{"not-a-date", "", false},
	}
	for _, c := range cases {
		got, ok := MondayOf(c.raw)
		if got != c.want || ok != c.ok {
			t.Errorf("MondayOf(%q) = (%q, %v), want (%q, %v)", c.raw, got, ok, c.want, c.ok)
		}
	}
}

func TestSlotIDRoundTrip(t *testing.T) {
	id := SlotID("2025-01-06", "08-09")
	if id != "2025-01-06|08-09" {
		t.Fatalf("unexpected slot ID %q", id)
	}
	date, shift, ok := SplitSlotID(id)
	if !ok || date != "2025-01-06" || shift != "08-09" {
		t.Errorf("SplitSlotID(%q) = (%q, %q, %v)", id, date, shift, ok)
	}
	if _, _, ok := SplitSlotID("no-separator"); ok {
		t.Error("expected failure for ID without separator")
	}
}
