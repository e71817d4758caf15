package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/middleware"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/auth"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

type UserHandler struct {
	users  *postgres.UserRepository
	logger *zap.Logger
}

func NewUserHandler(users *postgres.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type userCreateRequest struct {
	Name     string     `json:"name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8"`
	Role     model.Role `json:"role" binding:"required"`
}

type userUpdateRequest struct {
	Name     *string     `json:"name"`
	Email    *string     `json:"email"`
	Password *string     `json:"password"`
	Role     *model.Role `json:"role"`
	Active   *bool       `json:"active"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !model.IsValidRole(req.Role) {
		respondError(c, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Active:       true,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "user created", mapUser(user))
}

func (h *UserHandler) List(c *gin.Context) {
	var role *model.Role
	if roleValue := c.Query("role"); roleValue != "" {
		parsed := model.Role(roleValue)
		if !model.IsValidRole(parsed) {
			respondError(c, http.StatusBadRequest, "invalid role")
			return
		}
		role = &parsed
	}

	limit := parseLimit(c.Query("limit"), 20)
	offset := parseOffset(c.Query("offset"))

	users, total, err := h.users.List(c.Request.Context(), role, limit, offset)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	response := make([]userResponse, 0, len(users))
	for i := range users {
		response = append(response, mapUser(&users[i]))
	}

	respond(c, http.StatusOK, "", gin.H{"users": response, "total": total})
}

// Get returns a user; non-admins may only fetch themselves.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	principal, _ := middleware.Principal(c)
	if principal.Role != model.RoleAdmin && principal.UserID != id {
		respondError(c, http.StatusForbidden, "cannot view other users")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "", mapUser(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	update := postgres.UserUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Active: req.Active,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			h.logger.Error("failed to hash password", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "internal error")
			return
		}
		update.PasswordHash = &hash
	}

	user, err := h.users.Update(c.Request.Context(), id, update)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "user updated", mapUser(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "user deleted", nil)
}

func mapUser(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt.UTC().Format(timeRFC3339Nano),
	}
}
