package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

func TestIsValidCategory(t *testing.T) {
	for _, c := range []ProjectCategory{CategoryFixed, CategoryHourly, CategoryMilestone} {
		if !IsValidCategory(c) {
			t.Errorf("expected %q to be a valid category", c)
		}
	}
	if IsValidCategory("retainer") {
		t.Error("expected unknown category to be invalid")
	}
}

func TestIsValidProjectStatus(t *testing.T) {
	valid := []ProjectStatus{
		ProjectPending, ProjectActive, ProjectInProgress,
		ProjectOnHold, ProjectCompleted, ProjectCancelled, ProjectArchived,
	}
	for _, s := range valid {
		if !IsValidProjectStatus(s) {
			t.Errorf("expected %q to be a valid status", s)
		}
	}
	if IsValidProjectStatus("paused") {
		t.Error("expected unknown status to be invalid")
	}
}

func TestProjectIsTerminal(t *testing.T) {
	cases := map[ProjectStatus]bool{
		ProjectPending:    false,
		ProjectActive:     false,
		ProjectInProgress: false,
		ProjectOnHold:     false,
		ProjectCompleted:  true,
		ProjectCancelled:  true,
		ProjectArchived:   false,
	}
	for status, want := range cases {
		p := &Project{Status: status}
		if got := p.IsTerminal(); got != want {
			t.Errorf("IsTerminal() with status %q = %v, want %v", status, got, want)
		}
	}
}

func TestProjectIsClaimable(t *testing.T) {
	cases := map[ProjectStatus]bool{
		ProjectPending:    true,
		ProjectActive:     true,
		ProjectInProgress: true,
		ProjectOnHold:     false,
		ProjectCompleted:  false,
		ProjectCancelled:  false,
		ProjectArchived:   false,
	}
	for status, want := range cases {
		p := &Project{Status: status}
		if got := p.IsClaimable(); got != want {
			t.Errorf("IsClaimable() with status %q = %v, want %v", status, got, want)
		}
	}
}

func TestProjectHasEmployee(t *testing.T) {
	staffed := uuid.New()
	other := uuid.New()

	p := &Project{Employees: pq.StringArray{staffed.String()}}

	if !p.HasEmployee(staffed) {
		t.Error("expected staffed employee to be found")
	}
	if p.HasEmployee(other) {
		t.Error("expected unstaffed employee to be absent")
	}

	empty := &Project{}
	if empty.HasEmployee(staffed) {
		t.Error("expected no employees on an unstaffed project")
	}
}
