package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/middleware"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/auth"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/eventbus"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/metrics"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

// TeamLeadHandler drives the claim workflow: picking an unassigned project,
// releasing it back to the pool, and staffing it with employees.
type TeamLeadHandler struct {
	projects      *postgres.ProjectRepository
	users         *postgres.UserRepository
	notifications *postgres.NotificationRepository
	logger        *zap.Logger
	bus           *eventbus.Bus
}

func NewTeamLeadHandler(projects *postgres.ProjectRepository, users *postgres.UserRepository, notifications *postgres.NotificationRepository, logger *zap.Logger, bus *eventbus.Bus) *TeamLeadHandler {
	return &TeamLeadHandler{projects: projects, users: users, notifications: notifications, logger: logger, bus: bus}
}

// Available lists unclaimed projects visible to team leads.
func (h *TeamLeadHandler) Available(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 20)
	offset := parseOffset(c.Query("offset"))

	projects, total, err := h.projects.List(c.Request.Context(), postgres.ProjectFilter{Available: true}, limit, offset)
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

func (h *TeamLeadHandler) Pick(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}
	principal, _ := middleware.Principal(c)

	p, err := h.projects.Pick(c.Request.Context(), id, principal.UserID)
	if err != nil {
		metrics.ClaimAttempts.WithLabelValues("pick", "rejected").Inc()
		respondDomainError(c, h.logger, err)
		return
	}
	metrics.ClaimAttempts.WithLabelValues("pick", "success").Inc()

	h.notifyAdmins(c.Request.Context(), p, principal,
		model.NotificationProjectPicked,
		fmt.Sprintf("Project %q was picked up by %s", p.Name, principal.Name))
	h.publishAssignment(c.Request.Context(), p, principal, "picked")

	respond(c, http.StatusOK, "project picked", mapProjectDetail(p))
}

func (h *TeamLeadHandler) Release(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}
	principal, _ := middleware.Principal(c)

	p, err := h.projects.Release(c.Request.Context(), id, principal.UserID)
	if err != nil {
		metrics.ClaimAttempts.WithLabelValues("release", "rejected").Inc()
		respondDomainError(c, h.logger, err)
		return
	}
	metrics.ClaimAttempts.WithLabelValues("release", "success").Inc()

	h.notifyAdmins(c.Request.Context(), p, principal,
		model.NotificationProjectReleased,
		fmt.Sprintf("Project %q was released by %s", p.Name, principal.Name))
	h.publishAssignment(c.Request.Context(), p, principal, "released")

	respond(c, http.StatusOK, "project released", mapProjectDetail(p))
}

type staffRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}

// SetEmployees replaces the project staffing and notifies newly staffed
// employees.
func (h *TeamLeadHandler) SetEmployees(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	employeeIDs := make([]uuid.UUID, 0, len(req.EmployeeIDs))
	for _, raw := range req.EmployeeIDs {
		employeeID, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid employee id "+raw)
			return
		}
		employeeIDs = append(employeeIDs, employeeID)
	}

	principal, _ := middleware.Principal(c)
	p, err := h.projects.SetEmployees(c.Request.Context(), id, principal.UserID, req.EmployeeIDs)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	notifications := make([]*model.Notification, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		notifications = append(notifications, &model.Notification{
			UserID:    employeeID,
			Type:      model.NotificationStaffed,
			Title:     "Assigned to project",
			Message:   fmt.Sprintf("You were assigned to project %q by %s", p.Name, principal.Name),
			ProjectID: &p.ID,
		})
	}
	if err := h.notifications.CreateBatch(c.Request.Context(), notifications); err != nil {
		h.logger.Error("failed to create staffing notifications", zap.Error(err))
	} else {
		metrics.NotificationsCreated.WithLabelValues(string(model.NotificationStaffed)).Add(float64(len(notifications)))
	}

	respond(c, http.StatusOK, "project staffed", mapProjectDetail(p))
}

func (h *TeamLeadHandler) notifyAdmins(ctx context.Context, p *model.Project, principal *auth.Principal, kind model.NotificationType, message string) {
	admins, err := h.users.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		h.logger.Error("failed to list admins for notification", zap.Error(err))
		return
	}
	notifications := make([]*model.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, &model.Notification{
			UserID:    admin.ID,
			Type:      kind,
			Title:     "Project assignment changed",
			Message:   message,
			ProjectID: &p.ID,
		})
	}
	if err := h.notifications.CreateBatch(ctx, notifications); err != nil {
		h.logger.Error("failed to create assignment notifications", zap.Error(err))
		return
	}
	metrics.NotificationsCreated.WithLabelValues(string(kind)).Add(float64(len(notifications)))
}

func (h *TeamLeadHandler) publishAssignment(ctx context.Context, p *model.Project, principal *auth.Principal, action string) {
	if h.bus == nil {
		return
	}
	payload := eventbus.AssignmentEvent{
		ProjectID:  p.ID.String(),
		TeamLeadID: principal.UserID.String(),
		Action:     action,
	}
	event, err := eventbus.NewEvent("project_"+action, payload)
	if err != nil {
		return
	}
	if err := h.bus.Publish(ctx, eventbus.ChannelAssignment, event); err != nil {
		h.logger.Warn("failed to publish assignment event", zap.Error(err))
	}
}
