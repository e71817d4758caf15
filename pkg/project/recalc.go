package project

import (
	"github.com/google/uuid"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
)

// Recalculate rederives every derived total from the child collections. It is
// the single source of truth for the aggregate's bookkeeping: incremental
// mutations load the aggregate, change a child and call this before persisting,
// so the repair path and the incremental path cannot diverge.
//
// PendingAmount may go negative when a project is overpaid. That is surfaced,
// not clamped.
func Recalculate(p *model.Project) {
	switch p.Category {
	case model.CategoryFixed:
		p.TotalAmount = p.FixedAmount
	case model.CategoryHourly:
		var hours float64
		for i := range p.TimeEntries {
			hours += p.TimeEntries[i].Hours
		}
		p.ActualHours = hours
		p.TotalAmount = p.HourlyRate * hours
	case model.CategoryMilestone:
		var total float64
		for i := range p.Milestones {
			total += p.Milestones[i].Amount
		}
		p.TotalAmount = total
	}

	var paid float64
	for i := range p.Payments {
		paid += p.Payments[i].Amount
	}
	p.PaidAmount = paid
	p.PendingAmount = p.TotalAmount - p.PaidAmount
}

// ValidateNew checks a project before creation.
func ValidateNew(p *model.Project) error {
	if p.Name == "" {
		return Validationf("project name is required")
	}
	if !model.IsValidCategory(p.Category) {
		return Validationf("invalid category %q", p.Category)
	}
	if p.FixedAmount < 0 || p.HourlyRate < 0 || p.EstimatedHours < 0 {
		return Validationf("pricing inputs must not be negative")
	}
	return nil
}

// ValidateTimeEntry gates time entries to hourly projects and rejects
// non-positive hours before any mutation is applied.
func ValidateTimeEntry(p *model.Project, e *model.TimeEntry) error {
	if p.Category != model.CategoryHourly {
		return Validationf("time entries only apply to hourly projects")
	}
	if e.Hours <= 0 {
		return Validationf("hours must be positive")
	}
	if e.Date.IsZero() {
		return Validationf("date is required")
	}
	return nil
}

// ValidateMilestone gates milestones to milestone projects.
func ValidateMilestone(p *model.Project, m *model.Milestone) error {
	if p.Category != model.CategoryMilestone {
		return Validationf("milestones only apply to milestone projects")
	}
	if m.Title == "" {
		return Validationf("milestone title is required")
	}
	if m.Amount <= 0 {
		return Validationf("milestone amount must be positive")
	}
	if m.Status != "" && !model.IsValidMilestoneStatus(m.Status) {
		return Validationf("invalid milestone status %q", m.Status)
	}
	return nil
}

// ValidatePayment checks a payment and, when it references a milestone, that
// the milestone belongs to the same project.
func ValidatePayment(p *model.Project, pay *model.Payment) error {
	if pay.Amount <= 0 {
		return Validationf("payment amount must be positive")
	}
	if pay.PaymentDate.IsZero() {
		return Validationf("payment date is required")
	}
	if pay.MilestoneID != nil {
		if FindMilestone(p, *pay.MilestoneID) == nil {
			return NotFoundf("milestone %s does not belong to project %s", pay.MilestoneID, p.ID)
		}
	}
	return nil
}

func FindTimeEntry(p *model.Project, id uuid.UUID) *model.TimeEntry {
	for i := range p.TimeEntries {
		if p.TimeEntries[i].ID == id {
			return &p.TimeEntries[i]
		}
	}
	return nil
}

func FindMilestone(p *model.Project, id uuid.UUID) *model.Milestone {
	for i := range p.Milestones {
		if p.Milestones[i].ID == id {
			return &p.Milestones[i]
		}
	}
	return nil
}

func FindPayment(p *model.Project, id uuid.UUID) *model.Payment {
	for i := range p.Payments {
		if p.Payments[i].ID == id {
			return &p.Payments[i]
		}
	}
	return nil
}
