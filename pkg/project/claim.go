package project

import (
	"github.com/google/uuid"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
)

// MaxActiveProjects caps how many projects in an active status a single team
// lead may hold at once.
const MaxActiveProjects = 5

// CheckPick verifies every precondition of the claim workflow for the given
// team lead. activeCount is the number of projects the lead currently holds in
// an active status. Each failure names the violated precondition.
func CheckPick(p *model.Project, lead uuid.UUID, activeCount int64) error {
	if !p.IsClaimable() {
		return Conflictf("project status %q does not allow claiming", p.Status)
	}
	if !p.VisibleToTeamLeads {
		return Forbiddenf("project is not visible to team leads")
	}
	if p.TeamLeadID != nil {
		if *p.TeamLeadID == lead {
			return Conflictf("project is already assigned to you")
		}
		return Conflictf("project already has a team lead")
	}
	if activeCount >= MaxActiveProjects {
		return Conflictf("team lead already holds %d active projects (limit %d)", activeCount, MaxActiveProjects)
	}
	return nil
}

// ApplyPick assigns the lead and promotes a pending project to in-progress.
func ApplyPick(p *model.Project, lead uuid.UUID) {
	id := lead
	p.TeamLeadID = &id
	if p.Status == model.ProjectPending {
		p.Status = model.ProjectInProgress
	}
}

// CheckRelease verifies that the requester holds the project and that the
// project is not in a terminal status.
func CheckRelease(p *model.Project, lead uuid.UUID) error {
	if p.IsTerminal() {
		return Conflictf("project status %q does not allow release", p.Status)
	}
	if p.TeamLeadID == nil {
		return Conflictf("project has no team lead")
	}
	if *p.TeamLeadID != lead {
		return Forbiddenf("only the assigned team lead can release this project")
	}
	return nil
}

// ApplyRelease returns the project to the unclaimed pool. Staffing is
// discarded: the next team lead staffs from scratch.
func ApplyRelease(p *model.Project) {
	p.TeamLeadID = nil
	p.Status = model.ProjectPending
	p.Employees = nil
}

// CanManageTimeEntries allows admins, the assigned team lead, and staffed
// employees to log time on a project.
func CanManageTimeEntries(p *model.Project, actor uuid.UUID, role model.Role) error {
	if role == model.RoleAdmin {
		return nil
	}
	if p.TeamLeadID != nil && *p.TeamLeadID == actor {
		return nil
	}
	if p.HasEmployee(actor) {
		return nil
	}
	return Forbiddenf("user is not assigned to this project")
}

// CanManageMilestones allows admins and the assigned team lead.
func CanManageMilestones(p *model.Project, actor uuid.UUID, role model.Role) error {
	if role == model.RoleAdmin {
		return nil
	}
	if p.TeamLeadID != nil && *p.TeamLeadID == actor {
		return nil
	}
	return Forbiddenf("only admins or the assigned team lead can manage milestones")
}
