package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/project"
)

type ProjectGroupRepository struct {
	db *gorm.DB
}

func NewProjectGroupRepository(db *gorm.DB) *ProjectGroupRepository {
	return &ProjectGroupRepository{db: db}
}

func (r *ProjectGroupRepository) Create(ctx context.Context, group *model.ProjectGroup) error {
	if group.Name == "" {
		return project.Validationf("group name is required")
	}
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(group).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return project.Conflictf("group %q already exists", group.Name)
	}
	return err
}

func (r *ProjectGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectGroup, error) {
	var group model.ProjectGroup
	err := r.db.WithContext(ctx).Preload("Projects").First(&group, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.NotFoundf("project group %s", id)
		}
		return nil, err
	}
	return &group, nil
}

func (r *ProjectGroupRepository) List(ctx context.Context, limit, offset int) ([]model.ProjectGroup, int64, error) {
	var groups []model.ProjectGroup
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ProjectGroup{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&groups).Error

	return groups, total, err
}

type ProjectGroupUpdate struct {
	Name        *string
	ClientName  *string
	Description *string
}

func (r *ProjectGroupRepository) Update(ctx context.Context, id uuid.UUID, update ProjectGroupUpdate) (*model.ProjectGroup, error) {
	updates := map[string]interface{}{}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, project.Validationf("group name must not be empty")
		}
		updates["name"] = *update.Name
	}
	if update.ClientName != nil {
		updates["client_name"] = *update.ClientName
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if len(updates) == 0 {
		return nil, project.Validationf("no fields to update")
	}

	result := r.db.WithContext(ctx).Model(&model.ProjectGroup{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, project.NotFoundf("project group %s", id)
	}
	return r.GetByID(ctx, id)
}

func (r *ProjectGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.ProjectGroup{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return project.NotFoundf("project group %s", id)
	}
	return nil
}
