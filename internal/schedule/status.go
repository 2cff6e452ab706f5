package schedule

import (
	"context"
	"fmt"
)

// MetaBackend is the slice of the backend client the status service needs.
type MetaBackend interface {
	GetScheduleMeta(ctx context.Context, weekStart, team string) (Meta, error)
	SetScheduleStatus(ctx context.Context, weekStart, team, status string, actor Employee, note string) (Meta, error)
}

// StatusService drives the draft/final state machine for (week, team) pairs.
// The backend's answer is always authoritative; on any failure the caller's
// local meta stays untouched.
type StatusService struct {
	backend MetaBackend
}

// NewStatusService creates a status service over the given backend.
func NewStatusService(backend MetaBackend) *StatusService {
	return &StatusService{backend: backend}
}

// Load fetches the meta for a week. A backend with no record for the week is
// not an error: the week is simply still draft.
func (s *StatusService) Load(ctx context.Context, weekStart, team string) (Meta, error) {
	meta, err := s.backend.GetScheduleMeta(ctx, weekStart, team)
	if err != nil {
		return Meta{}, fmt.Errorf("loading schedule meta: %w", err)
	}
	meta.Status = meta.EffectiveStatus()
	return meta, nil
}

// ToggleLock flips the week between draft and final, stamping the acting
// leader as the lock owner. Transitioning to the state the week is already in
// re-issues the write but changes nothing. Returns the backend's resulting
// meta, which replaces whatever the caller held.
func (s *StatusService) ToggleLock(ctx context.Context, weekStart, team string, current Meta, actor Employee) (Meta, error) {
	next := StatusFinal
	if current.Locked() {
		next = StatusDraft
	}

	meta, err := s.backend.SetScheduleStatus(ctx, weekStart, team, next, actor, current.Note)
	if err != nil {
		return Meta{}, fmt.Errorf("setting schedule status to %s: %w", next, err)
	}
	meta.Status = meta.EffectiveStatus()
	return meta, nil
}
