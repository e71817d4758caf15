package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/middleware"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/metrics"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

type ProjectHandler struct {
	projects *postgres.ProjectRepository
	logger   *zap.Logger
}

func NewProjectHandler(projects *postgres.ProjectRepository, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

type projectCreateRequest struct {
	Name               string                `json:"name" binding:"required"`
	Description        string                `json:"description"`
	Category           model.ProjectCategory `json:"category" binding:"required"`
	FixedAmount        float64               `json:"fixed_amount"`
	HourlyRate         float64               `json:"hourly_rate"`
	EstimatedHours     float64               `json:"estimated_hours"`
	VisibleToTeamLeads *bool                 `json:"visible_to_team_leads"`
	GroupID            *string               `json:"group_id"`
	Detail             *projectDetailRequest `json:"detail"`
}

type projectDetailRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Notes       string `json:"notes"`
}

type projectUpdateRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Status             *string  `json:"status"`
	FixedAmount        *float64 `json:"fixed_amount"`
	HourlyRate         *float64 `json:"hourly_rate"`
	EstimatedHours     *float64 `json:"estimated_hours"`
	VisibleToTeamLeads *bool    `json:"visible_to_team_leads"`
	GroupID            *string  `json:"group_id"`
}

type projectResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category"`
	FixedAmount        float64  `json:"fixed_amount"`
	HourlyRate         float64  `json:"hourly_rate"`
	EstimatedHours     float64  `json:"estimated_hours"`
	TotalAmount        float64  `json:"total_amount"`
	PaidAmount         float64  `json:"paid_amount"`
	PendingAmount      float64  `json:"pending_amount"`
	ActualHours        float64  `json:"actual_hours"`
	Status             string   `json:"status"`
	TeamLead           *string  `json:"team_lead"`
	Employees          []string `json:"employees"`
	VisibleToTeamLeads bool     `json:"visible_to_team_leads"`
	GroupID            *string  `json:"group_id,omitempty"`
	Version            int      `json:"version"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

type projectDetailResponse struct {
	projectResponse
	TimeEntries []timeEntryResponse `json:"time_entries"`
	Milestones  []milestoneResponse `json:"milestones"`
	Payments    []paymentResponse   `json:"payments"`
	Detail      *detailResponse     `json:"detail,omitempty"`
}

type detailResponse struct {
	ClientName  string `json:"client_name,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	principal, _ := middleware.Principal(c)

	p := &model.Project{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		FixedAmount:    req.FixedAmount,
		HourlyRate:     req.HourlyRate,
		EstimatedHours: req.EstimatedHours,
		Status:         model.ProjectPending,
		CreatedBy:      principal.UserID,
	}
	p.VisibleToTeamLeads = true
	if req.VisibleToTeamLeads != nil {
		p.VisibleToTeamLeads = *req.VisibleToTeamLeads
	}
	if req.GroupID != nil {
		groupID, err := uuid.Parse(*req.GroupID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid group_id")
			return
		}
		p.GroupID = &groupID
	}
	if req.Detail != nil {
		p.Detail = &model.ProjectDetail{
			ClientName:  req.Detail.ClientName,
			ClientEmail: req.Detail.ClientEmail,
			ClientPhone: req.Detail.ClientPhone,
			Notes:       req.Detail.Notes,
		}
	}

	if err := h.projects.Create(c.Request.Context(), p); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	metrics.ProjectsCreated.WithLabelValues(string(p.Category)).Inc()
	respond(c, http.StatusCreated, "project created", mapProjectDetail(p))
}

func (h *ProjectHandler) List(c *gin.Context) {
	var filter postgres.ProjectFilter
	if statusValue := c.Query("status"); statusValue != "" {
		status := model.ProjectStatus(statusValue)
		if !model.IsValidProjectStatus(status) {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = &status
	}
	if categoryValue := c.Query("category"); categoryValue != "" {
		category := model.ProjectCategory(categoryValue)
		if !model.IsValidCategory(category) {
			respondError(c, http.StatusBadRequest, "invalid category")
			return
		}
		filter.Category = &category
	}
	if leadValue := c.Query("team_lead"); leadValue != "" {
		leadID, err := uuid.Parse(leadValue)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid team_lead")
			return
		}
		filter.TeamLeadID = &leadID
	}

	limit := parseLimit(c.Query("limit"), 20)
	offset := parseOffset(c.Query("offset"))

	projects, total, err := h.projects.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	response := make([]projectResponse, 0, len(projects))
	for i := range projects {
		response = append(response, mapProject(&projects[i]))
	}

	respond(c, http.StatusOK, "", gin.H{"projects": response, "total": total})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	p, err := h.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "", mapProjectDetail(p))
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req projectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	update := postgres.ProjectUpdate{
		Name:               req.Name,
		Description:        req.Description,
		FixedAmount:        req.FixedAmount,
		HourlyRate:         req.HourlyRate,
		EstimatedHours:     req.EstimatedHours,
		VisibleToTeamLeads: req.VisibleToTeamLeads,
	}
	if req.Status != nil {
		status := model.ProjectStatus(*req.Status)
		update.Status = &status
	}
	if req.GroupID != nil {
		groupID, err := uuid.Parse(*req.GroupID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid group_id")
			return
		}
		update.GroupID = &groupID
	}

	p, err := h.projects.Update(c.Request.Context(), id, update)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "project updated", mapProjectDetail(p))
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "project deleted", nil)
}

// Recalculate forces the repair path: every derived total is rederived from
// the stored child collections.
func (h *ProjectHandler) Recalculate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	p, err := h.projects.RecalculateAll(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	metrics.Recalculations.Inc()
	respond(c, http.StatusOK, "project recalculated", mapProjectDetail(p))
}

func mapProject(p *model.Project) projectResponse {
	employees := make([]string, 0, len(p.Employees))
	employees = append(employees, p.Employees...)

	var teamLead *string
	if p.TeamLeadID != nil {
		teamLead = uuidString(p.TeamLeadID)
	}

	return projectResponse{
		ID:                 p.ID.String(),
		Name:               p.Name,
		Description:        p.Description,
		Category:           string(p.Category),
		FixedAmount:        p.FixedAmount,
		HourlyRate:         p.HourlyRate,
		EstimatedHours:     p.EstimatedHours,
		TotalAmount:        p.TotalAmount,
		PaidAmount:         p.PaidAmount,
		PendingAmount:      p.PendingAmount,
		ActualHours:        p.ActualHours,
		Status:             string(p.Status),
		TeamLead:           teamLead,
		Employees:          employees,
		VisibleToTeamLeads: p.VisibleToTeamLeads,
		GroupID:            uuidString(p.GroupID),
		Version:            p.Version,
		CreatedAt:          p.CreatedAt.UTC().Format(timeRFC3339Nano),
		UpdatedAt:          p.UpdatedAt.UTC().Format(timeRFC3339Nano),
	}
}

func mapProjectDetail(p *model.Project) projectDetailResponse {
	timeEntries := make([]timeEntryResponse, 0, len(p.TimeEntries))
	for i := range p.TimeEntries {
		timeEntries = append(timeEntries, mapTimeEntry(&p.TimeEntries[i]))
	}
	milestones := make([]milestoneResponse, 0, len(p.Milestones))
	for i := range p.Milestones {
		milestones = append(milestones, mapMilestone(&p.Milestones[i]))
	}
	payments := make([]paymentResponse, 0, len(p.Payments))
	for i := range p.Payments {
		payments = append(payments, mapPayment(&p.Payments[i]))
	}

	detail := projectDetailResponse{
		projectResponse: mapProject(p),
		TimeEntries:     timeEntries,
		Milestones:      milestones,
		Payments:        payments,
	}
	if p.Detail != nil {
		detail.Detail = &detailResponse{
			ClientName:  p.Detail.ClientName,
			ClientEmail: p.Detail.ClientEmail,
			ClientPhone: p.Detail.ClientPhone,
			Notes:       p.Detail.Notes,
		}
	}
	return detail
}
