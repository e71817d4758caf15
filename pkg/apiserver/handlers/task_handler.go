package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/middleware"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/project"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

type TaskHandler struct {
	tasks    *postgres.TaskRepository
	projects *postgres.ProjectRepository
	logger   *zap.Logger
}

func NewTaskHandler(tasks *postgres.TaskRepository, projects *postgres.ProjectRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, projects: projects, logger: logger}
}

type taskCreateRequest struct {
	ProjectID   string     `json:"project_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type taskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

type taskResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	AssignedTo  *string `json:"assigned_to"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// Create adds a task to a project; admins and the holding team lead only.
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project_id")
		return
	}

	p, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	principal, _ := middleware.Principal(c)
	if err := project.CanManageMilestones(p, principal.UserID, principal.Role); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	task := &model.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedBy:   principal.UserID,
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid assigned_to")
			return
		}
		task.AssignedTo = &assignee
	}

	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "task created", mapTask(task))
}

func (h *TaskHandler) ListByProject(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var status *model.TaskStatus
	if statusValue := c.Query("status"); statusValue != "" {
		parsed := model.TaskStatus(statusValue)
		if !model.IsValidTaskStatus(parsed) {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		status = &parsed
	}

	limit := parseLimit(c.Query("limit"), 20)
	offset := parseOffset(c.Query("offset"))

	tasks, total, err := h.tasks.ListByProject(c.Request.Context(), projectID, status, limit, offset)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	response := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, mapTask(&tasks[i]))
	}

	respond(c, http.StatusOK, "", gin.H{"tasks": response, "total": total})
}

// Mine lists the authenticated user's assigned tasks.
func (h *TaskHandler) Mine(c *gin.Context) {
	principal, _ := middleware.Principal(c)

	tasks, err := h.tasks.ListByAssignee(c.Request.Context(), principal.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	response := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, mapTask(&tasks[i]))
	}

	respond(c, http.StatusOK, "", gin.H{"tasks": response})
}

// Update lets admins and team leads edit a task; an assignee may update only
// their own task's status.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	principal, _ := middleware.Principal(c)
	if principal.Role == model.RoleEmployee {
		task, err := h.tasks.GetByID(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, h.logger, err)
			return
		}
		if task.AssignedTo == nil || *task.AssignedTo != principal.UserID {
			respondError(c, http.StatusForbidden, "task is not assigned to you")
			return
		}
		if req.Title != nil || req.Description != nil || req.AssignedTo != nil || req.DueDate != nil {
			respondError(c, http.StatusForbidden, "employees may only update task status")
			return
		}
	}

	update := postgres.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		update.Status = &status
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid assigned_to")
			return
		}
		update.AssignedTo = &assignee
	}

	task, err := h.tasks.Update(c.Request.Context(), id, update)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "task updated", mapTask(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "task deleted", nil)
}

func mapTask(t *model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  uuidString(t.AssignedTo),
		Status:      string(t.Status),
		DueDate:     formatTime(t.DueDate),
		CreatedAt:   t.CreatedAt.UTC().Format(timeRFC3339Nano),
	}
}
