package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/middleware"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/project"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

type MilestoneHandler struct {
	projects *postgres.ProjectRepository
	logger   *zap.Logger
}

func NewMilestoneHandler(projects *postgres.ProjectRepository, logger *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{projects: projects, logger: logger}
}

type milestoneCreateRequest struct {
	Title     string    `json:"title" binding:"required"`
	Amount    float64   `json:"amount" binding:"required"`
	DueDate   time.Time `json:"due_date"`
	Status    string    `json:"status"`
	SortOrder int       `json:"sort_order"`
}

type milestoneUpdateRequest struct {
	Title     *string    `json:"title"`
	Amount    *float64   `json:"amount"`
	DueDate   *time.Time `json:"due_date"`
	Status    *string    `json:"status"`
	SortOrder *int       `json:"sort_order"`
}

type milestoneResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"due_date"`
	Status    string  `json:"status"`
	SortOrder int     `json:"sort_order"`
}

func (h *MilestoneHandler) authorize(c *gin.Context) (*model.Project, bool) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return nil, false
	}
	p, err := h.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return nil, false
	}
	principal, _ := middleware.Principal(c)
	if err := project.CanManageMilestones(p, principal.UserID, principal.Role); err != nil {
		respondDomainError(c, h.logger, err)
		return nil, false
	}
	return p, true
}

func (h *MilestoneHandler) Add(c *gin.Context) {
	p, ok := h.authorize(c)
	if !ok {
		return
	}

	var req milestoneCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	milestone := &model.Milestone{
		Title:     req.Title,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Status:    model.MilestoneStatus(req.Status),
		SortOrder: req.SortOrder,
	}

	updated, err := h.projects.AddMilestone(c.Request.Context(), p.ID, milestone)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "milestone added", mapProjectDetail(updated))
}

func (h *MilestoneHandler) Update(c *gin.Context) {
	p, ok := h.authorize(c)
	if !ok {
		return
	}
	milestoneID, ok := uuidParam(c, "milestoneId")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid milestone id")
		return
	}

	var req milestoneUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	update := postgres.MilestoneUpdate{
		Title:     req.Title,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		SortOrder: req.SortOrder,
	}
	if req.Status != nil {
		status := model.MilestoneStatus(*req.Status)
		update.Status = &status
	}

	updated, err := h.projects.UpdateMilestone(c.Request.Context(), p.ID, milestoneID, update)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "milestone updated", mapProjectDetail(updated))
}

func (h *MilestoneHandler) Delete(c *gin.Context) {
	p, ok := h.authorize(c)
	if !ok {
		return
	}
	milestoneID, ok := uuidParam(c, "milestoneId")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid milestone id")
		return
	}

	updated, err := h.projects.DeleteMilestone(c.Request.Context(), p.ID, milestoneID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "milestone deleted", mapProjectDetail(updated))
}

func mapMilestone(m *model.Milestone) milestoneResponse {
	return milestoneResponse{
		ID:        m.ID.String(),
		Title:     m.Title,
		Amount:    m.Amount,
		DueDate:   m.DueDate.UTC().Format(timeRFC3339Nano),
		Status:    string(m.Status),
		SortOrder: m.SortOrder,
	}
}
