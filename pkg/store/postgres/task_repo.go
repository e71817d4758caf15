package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/project"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.Title == "" {
		return project.Validationf("task title is required")
	}
	if task.Status == "" {
		task.Status = model.TaskPending
	}
	if !model.IsValidTaskStatus(task.Status) {
		return project.Validationf("invalid task status %q", task.Status)
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.NotFoundf("task %s", id)
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, status *model.TaskStatus, limit, offset int) ([]model.Task, int64, error) {
	var tasks []model.Task
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Task{}).Where("project_id = ?", projectID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error

	return tasks, total, err
}

func (r *TaskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("assigned_to = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

type TaskUpdate struct {
	Title       *string
	Description *string
	AssignedTo  *uuid.UUID
	Status      *model.TaskStatus
	DueDate     *time.Time
}

func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*model.Task, error) {
	updates := map[string]interface{}{}
	if update.Title != nil {
		if *update.Title == "" {
			return nil, project.Validationf("task title must not be empty")
		}
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.AssignedTo != nil {
		updates["assigned_to"] = update.AssignedTo
	}
	if update.Status != nil {
		if !model.IsValidTaskStatus(*update.Status) {
			return nil, project.Validationf("invalid task status %q", *update.Status)
		}
		updates["status"] = *update.Status
	}
	if update.DueDate != nil {
		updates["due_date"] = update.DueDate
	}
	if len(updates) == 0 {
		return nil, project.Validationf("no fields to update")
	}

	result := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, project.NotFoundf("task %s", id)
	}
	return r.GetByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return project.NotFoundf("task %s", id)
	}
	return nil
}
