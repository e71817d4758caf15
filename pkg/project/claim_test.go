package project

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
)

func unclaimedProject() *model.Project {
	return &model.Project{
		ID:                 uuid.New(),
		Name:               "unclaimed",
		Category:           model.CategoryFixed,
		Status:             model.ProjectPending,
		VisibleToTeamLeads: true,
	}
}

func TestPickPromotesPendingProject(t *testing.T) {
	p := unclaimedProject()
	lead := uuid.New()

	if err := CheckPick(p, lead, 0); err != nil {
		t.Fatalf("pick rejected: %v", err)
	}
	ApplyPick(p, lead)

	if p.TeamLeadID == nil || *p.TeamLeadID != lead {
		t.Fatalf("expected team lead %s, got %v", lead, p.TeamLeadID)
	}
	if p.Status != model.ProjectInProgress {
		t.Fatalf("expected in-progress after pick, got %q", p.Status)
	}
}

func TestPickKeepsActiveStatus(t *testing.T) {
	p := unclaimedProject()
	p.Status = model.ProjectActive
	ApplyPick(p, uuid.New())
	if p.Status != model.ProjectActive {
		t.Fatalf("active status should not change on pick, got %q", p.Status)
	}
}

func TestSecondPickConflicts(t *testing.T) {
	p := unclaimedProject()
	first := uuid.New()
	ApplyPick(p, first)

	if err := CheckPick(p, uuid.New(), 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for already-claimed project, got %v", err)
	}
	if err := CheckPick(p, first, 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict when holder picks again, got %v", err)
	}
}

func TestPickRespectsVisibilityAndStatus(t *testing.T) {
	p := unclaimedProject()
	p.VisibleToTeamLeads = false
	if err := CheckPick(p, uuid.New(), 0); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for hidden project, got %v", err)
	}

	for _, status := range []model.ProjectStatus{model.ProjectCompleted, model.ProjectCancelled, model.ProjectOnHold, model.ProjectArchived} {
		p := unclaimedProject()
		p.Status = status
		if err := CheckPick(p, uuid.New(), 0); !errors.Is(err, ErrConflict) {
			t.Fatalf("status %q: expected conflict, got %v", status, err)
		}
	}
}

func TestPickEnforcesConcurrencyCap(t *testing.T) {
	p := unclaimedProject()
	lead := uuid.New()

	if err := CheckPick(p, lead, MaxActiveProjects-1); err != nil {
		t.Fatalf("pick below cap rejected: %v", err)
	}
	if err := CheckPick(p, lead, MaxActiveProjects); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict at cap, got %v", err)
	}
}

func TestReleaseClearsStaffingAndResetsStatus(t *testing.T) {
	p := unclaimedProject()
	lead := uuid.New()
	ApplyPick(p, lead)
	p.Employees = append(p.Employees, uuid.New().String(), uuid.New().String())

	if err := CheckRelease(p, lead); err != nil {
		t.Fatalf("release rejected: %v", err)
	}
	ApplyRelease(p)

	if p.TeamLeadID != nil {
		t.Fatalf("expected no team lead after release, got %v", p.TeamLeadID)
	}
	if p.Status != model.ProjectPending {
		t.Fatalf("expected pending after release, got %q", p.Status)
	}
	if len(p.Employees) != 0 {
		t.Fatalf("expected staffing cleared, got %v", p.Employees)
	}
}

func TestReleaseByNonHolderForbidden(t *testing.T) {
	p := unclaimedProject()
	ApplyPick(p, uuid.New())

	if err := CheckRelease(p, uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non-holder release, got %v", err)
	}
}

func TestReleaseTerminalProjectConflicts(t *testing.T) {
	p := unclaimedProject()
	lead := uuid.New()
	ApplyPick(p, lead)
	p.Status = model.ProjectCompleted

	if err := CheckRelease(p, lead); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict releasing completed project, got %v", err)
	}
}

func TestCanManageTimeEntries(t *testing.T) {
	p := unclaimedProject()
	lead := uuid.New()
	employee := uuid.New()
	ApplyPick(p, lead)
	p.Employees = append(p.Employees, employee.String())

	if err := CanManageTimeEntries(p, uuid.New(), model.RoleAdmin); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := CanManageTimeEntries(p, lead, model.RoleTeamLead); err != nil {
		t.Fatalf("team lead rejected: %v", err)
	}
	if err := CanManageTimeEntries(p, employee, model.RoleEmployee); err != nil {
		t.Fatalf("staffed employee rejected: %v", err)
	}
	if err := CanManageTimeEntries(p, uuid.New(), model.RoleEmployee); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for unstaffed employee, got %v", err)
	}
}
