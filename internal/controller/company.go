package controller

import (
	"context"
	"fmt"

	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// LoadCompanySummary builds the finalized company view straight from the
// backend, independent of any loaded grid. An empty team covers both teams
// with two explicit fetches; the combined view counts as finalized only when
// every covered team is, so a half-published week never leaks as final.
func LoadCompanySummary(ctx context.Context, backend Backend, weekStart, team string, palette *schedule.Palette) (schedule.CompanySummary, error) {
	teams := []string{team}
	if team == "" {
		teams = []string{schedule.TeamCS, schedule.TeamMO}
	}

	status := schedule.NewStatusService(backend)
	meta := schedule.Meta{Status: schedule.StatusFinal}
	var rows []schedule.AssignmentRow
	for _, tm := range teams {
		m, err := status.Load(ctx, weekStart, tm)
		if err != nil {
			return schedule.CompanySummary{}, fmt.Errorf("loading %s status: %w", tm, err)
		}
		if !m.Locked() {
			meta = m
		}

		r, err := backend.GetSchedule(ctx, weekStart, tm)
		if err != nil {
			return schedule.CompanySummary{}, fmt.Errorf("loading %s schedule: %w", tm, err)
		}
		rows = append(rows, r...)
	}

	return schedule.BuildCompanySummary(meta, rows, team, palette), nil
}
