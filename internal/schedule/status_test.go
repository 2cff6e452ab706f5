package schedule

import (
	"context"
	"errors"
	"testing"
)

// fakeMetaBackend records status writes and serves canned meta.
type fakeMetaBackend struct {
	meta    Meta
	getErr  error
	setErr  error
	lastSet string
}

func (f *fakeMetaBackend) GetScheduleMeta(_ context.Context, _, _ string) (Meta, error) {
	return f.meta, f.getErr
}

func (f *fakeMetaBackend) SetScheduleStatus(_ context.Context, _, _, status string, actor Employee, note string) (Meta, error) {
	if f.setErr != nil {
		return Meta{}, f.setErr
	}
	f.lastSet = status
	return Meta{
		Status:        status,
		LockedByEmail: actor.Email,
		LockedByName:  actor.Name,
		LockedAt:      "2025-01-06T10:00:00Z",
		Note:          note,
	}, nil
}

var lead = Employee{Email: "lead@crushroom.vn", Name: "Lead", Role: "admin", Team: TeamMO}

func TestStatusLoadDefaultsToDraft(t *testing.T) {
	// Absent meta (zero value from the backend) is not an error.
	svc := NewStatusService(&fakeMetaBackend{})
	meta, err := svc.Load(context.Background(), "2025-01-06", TeamMO)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if meta.Status != StatusDraft {
		t.Errorf("expected draft for absent meta, got %q", meta.Status)
	}
	if meta.Locked() {
		t.Error("absent meta must not be locked")
	}
}

func TestToggleLockRoundTrip(t *testing.T) {
	backend := &fakeMetaBackend{}
	svc := NewStatusService(backend)
	ctx := context.Background()

	meta, err := svc.ToggleLock(ctx, "2025-01-06", TeamMO, Meta{}, lead)
	if err != nil {
		t.Fatalf("ToggleLock failed: %v", err)
	}
	if meta.Status != StatusFinal {
		t.Fatalf("expected final after locking a draft week, got %q", meta.Status)
	}
	if meta.LockedByEmail == "" {
		t.Error("final meta must carry the lock owner")
	}

	// Toggling the now-final week goes back to draft.
	meta, err = svc.ToggleLock(ctx, "2025-01-06", TeamMO, meta, lead)
	if err != nil {
		t.Fatalf("second ToggleLock failed: %v", err)
	}
	if meta.Status != StatusDraft {
		t.Errorf("expected draft after unlocking, got %q", meta.Status)
	}
}

func TestToggleLockFailureLeavesStateAlone(t *testing.T) {
	backend := &fakeMetaBackend{setErr: errors.New("sheet unavailable")}
	svc := NewStatusService(backend)

	local := Meta{Status: StatusDraft}
	if _, err := svc.ToggleLock(context.Background(), "2025-01-06", TeamMO, local, lead); err == nil {
		t.Fatal("expected error from failing backend")
	}
	// The caller keeps its local meta; nothing was written.
	if backend.lastSet != "" {
		t.Errorf("no status should have been recorded, got %q", backend.lastSet)
	}
}

func TestEmployeeEligibility(t *testing.T) {
	cases := []struct {
		emp  Employee
		want bool
	}{
		{Employee{EmploymentType: PartTime, Team: TeamMO}, true},
		{Employee{EmploymentType: PartTime, Team: TeamCS}, true},
		{Employee{EmploymentType: FullTime, Team: TeamCS}, true},
		{Employee{EmploymentType: FullTime, Team: TeamMO}, false},
		{Employee{Team: TeamMO}, true}, // unset employment type defaults to part-time behavior
	}
	for _, c := range cases {
		if got := c.emp.CanUseAvailability(); got != c.want {
			t.Errorf("CanUseAvailability(%+v) = %v, want %v", c.emp, got, c.want)
		}
	}
}
