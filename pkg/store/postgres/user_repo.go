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

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return project.Conflictf("email %s is already registered", user.Email)
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.NotFoundf("user %s", id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.NotFoundf("user with email %s", email)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, role *model.Role, limit, offset int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})
	if role != nil {
		query = query.Where("role = ?", *role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error

	return users, total, err
}

func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND active", role).
		Find(&users).Error
	return users, err
}

type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *model.Role
	Active       *bool
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*model.User, error) {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.PasswordHash != nil {
		updates["password_hash"] = *update.PasswordHash
	}
	if update.Role != nil {
		if !model.IsValidRole(*update.Role) {
			return nil, project.Validationf("invalid role %q", *update.Role)
		}
		updates["role"] = *update.Role
	}
	if update.Active != nil {
		updates["active"] = *update.Active
	}
	if len(updates) == 0 {
		return nil, project.Validationf("no fields to update")
	}

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, project.NotFoundf("user %s", id)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return project.NotFoundf("user %s", id)
	}
	return nil
}
