package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/project"
)

// ProjectRepository owns every mutation of the project aggregate. Child
// collection changes and the derived totals are persisted in one transaction
// that ends in a version-checked update, so concurrent writers cannot lose
// each other's totals.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	if err := project.ValidateNew(p); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	project.Recalculate(p)
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return loadAggregate(r.db.WithContext(ctx), id)
}

func loadAggregate(db *gorm.DB, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := db.
		Preload("TimeEntries").
		Preload("Milestones").
		Preload("Payments").
		Preload("Detail").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.NotFoundf("project %s", id)
		}
		return nil, err
	}
	return &p, nil
}

type ProjectFilter struct {
	Status     *model.ProjectStatus
	Category   *model.ProjectCategory
	TeamLeadID *uuid.UUID
	GroupID    *uuid.UUID
	// Available selects unclaimed projects visible to team leads in a
	// claimable status.
	Available bool
}

func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter, limit, offset int) ([]model.Project, int64, error) {
	var projects []model.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Project{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.TeamLeadID != nil {
		query = query.Where("team_lead_id = ?", *filter.TeamLeadID)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.Available {
		query = query.
			Where("team_lead_id IS NULL").
			Where("visible_to_team_leads").
			Where("status IN ?", model.ActiveProjectStatuses)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error

	return projects, total, err
}

// mutate runs fn against the freshly loaded aggregate inside a transaction.
// fn validates, persists its child-collection change through tx, updates the
// in-memory aggregate and recalculates; it may return extra project columns to
// persist. The final write is conditional on the version read at load time and
// reports a conflict when another writer got there first.
func (r *ProjectRepository) mutate(ctx context.Context, id uuid.UUID, fn func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error)) (*model.Project, error) {
	var out *model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadAggregate(tx, id)
		if err != nil {
			return err
		}
		version := p.Version

		extra, err := fn(tx, p)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"total_amount":   p.TotalAmount,
			"paid_amount":    p.PaidAmount,
			"pending_amount": p.PendingAmount,
			"actual_hours":   p.ActualHours,
			"version":        version + 1,
			"updated_at":     time.Now().UTC(),
		}
		for k, v := range extra {
			updates[k] = v
		}

		result := tx.Model(&model.Project{}).
			Where("id = ? AND version = ?", p.ID, version).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return project.Conflictf("project %s was modified concurrently", p.ID)
		}

		p.Version = version + 1
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ProjectUpdate carries a partial field update; nil pointers leave the field
// untouched. Pricing edits re-run the recalculation.
type ProjectUpdate struct {
	Name               *string
	Description        *string
	Status             *model.ProjectStatus
	FixedAmount        *float64
	HourlyRate         *float64
	EstimatedHours     *float64
	VisibleToTeamLeads *bool
	GroupID            *uuid.UUID
}

func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, update ProjectUpdate) (*model.Project, error) {
	return r.mutate(ctx, id, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		extra := map[string]interface{}{}
		if update.Name != nil {
			if *update.Name == "" {
				return nil, project.Validationf("project name must not be empty")
			}
			p.Name = *update.Name
			extra["name"] = p.Name
		}
		if update.Description != nil {
			p.Description = *update.Description
			extra["description"] = p.Description
		}
		if update.Status != nil {
			if !model.IsValidProjectStatus(*update.Status) {
				return nil, project.Validationf("invalid status %q", *update.Status)
			}
			p.Status = *update.Status
			extra["status"] = p.Status
		}
		if update.FixedAmount != nil {
			if *update.FixedAmount < 0 {
				return nil, project.Validationf("fixed amount must not be negative")
			}
			p.FixedAmount = *update.FixedAmount
			extra["fixed_amount"] = p.FixedAmount
		}
		if update.HourlyRate != nil {
			if *update.HourlyRate < 0 {
				return nil, project.Validationf("hourly rate must not be negative")
			}
			p.HourlyRate = *update.HourlyRate
			extra["hourly_rate"] = p.HourlyRate
		}
		if update.EstimatedHours != nil {
			if *update.EstimatedHours < 0 {
				return nil, project.Validationf("estimated hours must not be negative")
			}
			p.EstimatedHours = *update.EstimatedHours
			extra["estimated_hours"] = p.EstimatedHours
		}
		if update.VisibleToTeamLeads != nil {
			p.VisibleToTeamLeads = *update.VisibleToTeamLeads
			extra["visible_to_team_leads"] = p.VisibleToTeamLeads
		}
		if update.GroupID != nil {
			p.GroupID = update.GroupID
			extra["group_id"] = p.GroupID
		}
		project.Recalculate(p)
		return extra, nil
	})
}

// Delete removes the project and cascades its detail record and children in
// the same transaction.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Project
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return project.NotFoundf("project %s", id)
			}
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.TimeEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Milestone{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

// RecalculateAll is the repair path: rederive every total from the stored
// children and persist.
func (r *ProjectRepository) RecalculateAll(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return r.mutate(ctx, id, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		project.Recalculate(p)
		return nil, nil
	})
}

func (r *ProjectRepository) AddTimeEntry(ctx context.Context, projectID uuid.UUID, entry *model.TimeEntry) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		if err := project.ValidateTimeEntry(p, entry); err != nil {
			return nil, err
		}
		entry.ID = uuid.New()
		entry.ProjectID = p.ID
		if entry.AddedAt.IsZero() {
			entry.AddedAt = time.Now().UTC()
		}
		if err := tx.Create(entry).Error; err != nil {
			return nil, err
		}
		p.TimeEntries = append(p.TimeEntries, *entry)
		project.Recalculate(p)
		return nil, nil
	})
}

type TimeEntryUpdate struct {
	Date        *time.Time
	Hours       *float64
	Description *string
	TaskType    *string
	Approved    *bool
}

func (r *ProjectRepository) UpdateTimeEntry(ctx context.Context, projectID, entryID uuid.UUID, update TimeEntryUpdate) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		entry := project.FindTimeEntry(p, entryID)
		if entry == nil {
			return nil, project.NotFoundf("time entry %s", entryID)
		}
		if update.Date != nil {
			entry.Date = *update.Date
		}
		if update.Hours != nil {
			entry.Hours = *update.Hours
		}
		if update.Description != nil {
			entry.Description = *update.Description
		}
		if update.TaskType != nil {
			entry.TaskType = *update.TaskType
		}
		if update.Approved != nil {
			entry.Approved = *update.Approved
		}
		if err := project.ValidateTimeEntry(p, entry); err != nil {
			return nil, err
		}
		if err := tx.Save(entry).Error; err != nil {
			return nil, err
		}
		project.Recalculate(p)
		return nil, nil
	})
}

func (r *ProjectRepository) DeleteTimeEntry(ctx context.Context, projectID, entryID uuid.UUID) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		if project.FindTimeEntry(p, entryID) == nil {
			return nil, project.NotFoundf("time entry %s", entryID)
		}
		if err := tx.Delete(&model.TimeEntry{}, "id = ?", entryID).Error; err != nil {
			return nil, err
		}
		p.TimeEntries = removeTimeEntry(p.TimeEntries, entryID)
		project.Recalculate(p)
		return nil, nil
	})
}

func (r *ProjectRepository) AddMilestone(ctx context.Context, projectID uuid.UUID, milestone *model.Milestone) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		if err := project.ValidateMilestone(p, milestone); err != nil {
			return nil, err
		}
		milestone.ID = uuid.New()
		milestone.ProjectID = p.ID
		if milestone.Status == "" {
			milestone.Status = model.MilestonePending
		}
		if err := tx.Create(milestone).Error; err != nil {
			return nil, err
		}
		p.Milestones = append(p.Milestones, *milestone)
		project.Recalculate(p)
		return nil, nil
	})
}

type MilestoneUpdate struct {
	Title     *string
	Amount    *float64
	DueDate   *time.Time
	Status    *model.MilestoneStatus
	SortOrder *int
}

func (r *ProjectRepository) UpdateMilestone(ctx context.Context, projectID, milestoneID uuid.UUID, update MilestoneUpdate) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		milestone := project.FindMilestone(p, milestoneID)
		if milestone == nil {
			return nil, project.NotFoundf("milestone %s", milestoneID)
		}
		if update.Title != nil {
			milestone.Title = *update.Title
		}
		if update.Amount != nil {
			milestone.Amount = *update.Amount
		}
		if update.DueDate != nil {
			milestone.DueDate = *update.DueDate
		}
		if update.Status != nil {
			milestone.Status = *update.Status
		}
		if update.SortOrder != nil {
			milestone.SortOrder = *update.SortOrder
		}
		if err := project.ValidateMilestone(p, milestone); err != nil {
			return nil, err
		}
		if err := tx.Save(milestone).Error; err != nil {
			return nil, err
		}
		project.Recalculate(p)
		return nil, nil
	})
}

func (r *ProjectRepository) DeleteMilestone(ctx context.Context, projectID, milestoneID uuid.UUID) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		if project.FindMilestone(p, milestoneID) == nil {
			return nil, project.NotFoundf("milestone %s", milestoneID)
		}
		if err := tx.Delete(&model.Milestone{}, "id = ?", milestoneID).Error; err != nil {
			return nil, err
		}
		p.Milestones = removeMilestone(p.Milestones, milestoneID)
		project.Recalculate(p)
		return nil, nil
	})
}

func (r *ProjectRepository) AddPayment(ctx context.Context, projectID uuid.UUID, payment *model.Payment) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		if err := project.ValidatePayment(p, payment); err != nil {
			return nil, err
		}
		payment.ID = uuid.New()
		payment.ProjectID = p.ID
		if err := tx.Create(payment).Error; err != nil {
			return nil, err
		}
		p.Payments = append(p.Payments, *payment)
		project.Recalculate(p)
		return nil, nil
	})
}

type PaymentUpdate struct {
	Amount        *float64
	PaymentDate   *time.Time
	PaymentMethod *string
	MilestoneID   *uuid.UUID
}

func (r *ProjectRepository) UpdatePayment(ctx context.Context, projectID, paymentID uuid.UUID, update PaymentUpdate) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		payment := project.FindPayment(p, paymentID)
		if payment == nil {
			return nil, project.NotFoundf("payment %s", paymentID)
		}
		if update.Amount != nil {
			payment.Amount = *update.Amount
		}
		if update.PaymentDate != nil {
			payment.PaymentDate = *update.PaymentDate
		}
		if update.PaymentMethod != nil {
			payment.PaymentMethod = *update.PaymentMethod
		}
		if update.MilestoneID != nil {
			payment.MilestoneID = update.MilestoneID
		}
		if err := project.ValidatePayment(p, payment); err != nil {
			return nil, err
		}
		if err := tx.Save(payment).Error; err != nil {
			return nil, err
		}
		project.Recalculate(p)
		return nil, nil
	})
}

func (r *ProjectRepository) DeletePayment(ctx context.Context, projectID, paymentID uuid.UUID) (*model.Project, error) {
	return r.mutate(ctx, projectID, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		if project.FindPayment(p, paymentID) == nil {
			return nil, project.NotFoundf("payment %s", paymentID)
		}
		if err := tx.Delete(&model.Payment{}, "id = ?", paymentID).Error; err != nil {
			return nil, err
		}
		p.Payments = removePayment(p.Payments, paymentID)
		project.Recalculate(p)
		return nil, nil
	})
}

// Pick runs the claim workflow. The cap count and the conditional update run
// in the same transaction; the update is keyed on the team lead column still
// being null, so of two concurrent claimants at most one succeeds.
func (r *ProjectRepository) Pick(ctx context.Context, id, lead uuid.UUID) (*model.Project, error) {
	var out *model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadAggregate(tx, id)
		if err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&model.Project{}).
			Where("team_lead_id = ?", lead).
			Where("status IN ?", model.ActiveProjectStatuses).
			Count(&active).Error; err != nil {
			return err
		}

		if err := project.CheckPick(p, lead, active); err != nil {
			return err
		}
		project.ApplyPick(p, lead)

		result := tx.Model(&model.Project{}).
			Where("id = ? AND team_lead_id IS NULL AND visible_to_team_leads", p.ID).
			Where("status IN ?", model.ActiveProjectStatuses).
			Updates(map[string]interface{}{
				"team_lead_id": lead,
				"status":       p.Status,
				"version":      gorm.Expr("version + 1"),
				"updated_at":   time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return project.Conflictf("project was claimed concurrently")
		}

		p.Version++
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Release returns a project to the unclaimed pool. The update is keyed on the
// requester still being the holder.
func (r *ProjectRepository) Release(ctx context.Context, id, lead uuid.UUID) (*model.Project, error) {
	var out *model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadAggregate(tx, id)
		if err != nil {
			return err
		}
		if err := project.CheckRelease(p, lead); err != nil {
			return err
		}
		project.ApplyRelease(p)

		result := tx.Model(&model.Project{}).
			Where("id = ? AND team_lead_id = ?", p.ID, lead).
			Updates(map[string]interface{}{
				"team_lead_id": nil,
				"status":       model.ProjectPending,
				"employees":    pq.StringArray(nil),
				"version":      gorm.Expr("version + 1"),
				"updated_at":   time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return project.Conflictf("project assignment changed concurrently")
		}

		p.Version++
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetEmployees replaces the project's staffing. Only the holding team lead
// (or an admin, enforced at the handler) staffs a project.
func (r *ProjectRepository) SetEmployees(ctx context.Context, id, lead uuid.UUID, employees []string) (*model.Project, error) {
	return r.mutate(ctx, id, func(tx *gorm.DB, p *model.Project) (map[string]interface{}, error) {
		if p.IsTerminal() {
			return nil, project.Conflictf("project status %q does not allow staffing", p.Status)
		}
		if p.TeamLeadID == nil || *p.TeamLeadID != lead {
			return nil, project.Forbiddenf("only the assigned team lead can staff this project")
		}
		p.Employees = pq.StringArray(employees)
		project.Recalculate(p)
		return map[string]interface{}{"employees": p.Employees}, nil
	})
}

// CountActiveForLead reports how many active projects a team lead holds.
func (r *ProjectRepository) CountActiveForLead(ctx context.Context, lead uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("team_lead_id = ?", lead).
		Where("status IN ?", model.ActiveProjectStatuses).
		Count(&count).Error
	return count, err
}

func removeTimeEntry(entries []model.TimeEntry, id uuid.UUID) []model.TimeEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func removeMilestone(milestones []model.Milestone, id uuid.UUID) []model.Milestone {
	out := milestones[:0]
	for _, m := range milestones {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

func removePayment(payments []model.Payment, id uuid.UUID) []model.Payment {
	out := payments[:0]
	for _, p := range payments {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
