package controller

import (
	"context"
	"testing"

	"github.com/thanhvo/shiftdesk/internal/schedule"
)

func seedCompanyWeek(backend *fakeBackend) {
	backend.meta[testWeek+"|"+schedule.TeamCS] = schedule.Meta{Status: schedule.StatusFinal}
	backend.meta[testWeek+"|"+schedule.TeamMO] = schedule.Meta{Status: schedule.StatusFinal}
	backend.schedules[testWeek+"|"+schedule.TeamCS] = []schedule.AssignmentRow{
		{Date: "2025-01-06", Shift: "09-10", Email: "alice@crushroom.vn", Name: "Alice", Team: schedule.TeamCS, EmploymentType: schedule.PartTime},
		{Date: "2025-01-06", Shift: "09-10", Email: "ft@crushroom.vn", Name: "Fulltimer", Team: schedule.TeamCS, EmploymentType: schedule.FullTime},
	}
	backend.schedules[testWeek+"|"+schedule.TeamMO] = []schedule.AssignmentRow{
		{Date: "2025-01-07", Shift: "10-11", Email: "minh@crushroom.vn", Name: "Minh", Team: schedule.TeamMO, EmploymentType: schedule.PartTime},
	}
}

func tagEmails(sum schedule.CompanySummary) []string {
	var emails []string
	for _, day := range sum.Days {
		for _, slot := range day.Slots {
			for _, tag := range slot.Tags {
				emails = append(emails, tag.Email)
			}
		}
	}
	return emails
}

func TestLoadCompanySummaryBothTeams(t *testing.T) {
	backend := newFakeBackend()
	seedCompanyWeek(backend)

	sum, err := LoadCompanySummary(context.Background(), backend, testWeek, "", schedule.NewPalette())
	if err != nil {
		t.Fatalf("LoadCompanySummary: %v", err)
	}
	if !sum.Finalized {
		t.Fatal("both teams finalized, summary not marked finalized")
	}

	emails := tagEmails(sum)
	if len(emails) != 2 {
		t.Fatalf("tags = %v, want the part-timers from both teams", emails)
	}
	seen := map[string]bool{}
	for _, e := range emails {
		seen[e] = true
	}
	if !seen["alice@crushroom.vn"] || !seen["minh@crushroom.vn"] {
		t.Errorf("tags = %v, want alice and minh", emails)
	}
	if seen["ft@crushroom.vn"] {
		t.Errorf("tags = %v, full-timer must not appear", emails)
	}
}

func TestLoadCompanySummarySingleTeam(t *testing.T) {
	backend := newFakeBackend()
	seedCompanyWeek(backend)

	sum, err := LoadCompanySummary(context.Background(), backend, testWeek, schedule.TeamMO, schedule.NewPalette())
	if err != nil {
		t.Fatalf("LoadCompanySummary: %v", err)
	}
	emails := tagEmails(sum)
	if len(emails) != 1 || emails[0] != "minh@crushroom.vn" {
		t.Errorf("tags = %v, want only the mo part-timer", emails)
	}
}

func TestLoadCompanySummaryDraftTeamBlocksFinal(t *testing.T) {
	backend := newFakeBackend()
	seedCompanyWeek(backend)
	backend.meta[testWeek+"|"+schedule.TeamMO] = schedule.Meta{Status: schedule.StatusDraft}

	sum, err := LoadCompanySummary(context.Background(), backend, testWeek, "", schedule.NewPalette())
	if err != nil {
		t.Fatalf("LoadCompanySummary: %v", err)
	}
	if sum.Finalized {
		t.Error("summary marked finalized with one team still draft")
	}
	if len(sum.Days) != 0 {
		t.Errorf("draft company summary carries days: %+v", sum.Days)
	}
}
