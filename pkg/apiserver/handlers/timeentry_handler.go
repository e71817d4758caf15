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

type TimeEntryHandler struct {
	projects *postgres.ProjectRepository
	logger   *zap.Logger
}

func NewTimeEntryHandler(projects *postgres.ProjectRepository, logger *zap.Logger) *TimeEntryHandler {
	return &TimeEntryHandler{projects: projects, logger: logger}
}

type timeEntryCreateRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Hours       float64   `json:"hours" binding:"required"`
	Description string    `json:"description"`
	TaskType    string    `json:"task_type"`
}

type timeEntryUpdateRequest struct {
	Date        *time.Time `json:"date"`
	Hours       *float64   `json:"hours"`
	Description *string    `json:"description"`
	TaskType    *string    `json:"task_type"`
	Approved    *bool      `json:"approved"`
}

type timeEntryResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description,omitempty"`
	TaskType    string  `json:"task_type,omitempty"`
	Approved    bool    `json:"approved"`
	AddedBy     string  `json:"added_by"`
	AddedAt     string  `json:"added_at"`
}

// authorize loads the project and verifies the principal may log time on it.
func (h *TimeEntryHandler) authorize(c *gin.Context) (*model.Project, bool) {
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
	if err := project.CanManageTimeEntries(p, principal.UserID, principal.Role); err != nil {
		respondDomainError(c, h.logger, err)
		return nil, false
	}
	return p, true
}

func (h *TimeEntryHandler) Add(c *gin.Context) {
	p, ok := h.authorize(c)
	if !ok {
		return
	}

	var req timeEntryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	principal, _ := middleware.Principal(c)
	entry := &model.TimeEntry{
		Date:        req.Date,
		Hours:       req.Hours,
		Description: req.Description,
		TaskType:    req.TaskType,
		AddedBy:     principal.UserID,
		AddedAt:     time.Now().UTC(),
	}

	updated, err := h.projects.AddTimeEntry(c.Request.Context(), p.ID, entry)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "time entry added", mapProjectDetail(updated))
}

func (h *TimeEntryHandler) Update(c *gin.Context) {
	p, ok := h.authorize(c)
	if !ok {
		return
	}
	entryID, ok := uuidParam(c, "entryId")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid time entry id")
		return
	}

	var req timeEntryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	updated, err := h.projects.UpdateTimeEntry(c.Request.Context(), p.ID, entryID, postgres.TimeEntryUpdate{
		Date:        req.Date,
		Hours:       req.Hours,
		Description: req.Description,
		TaskType:    req.TaskType,
		Approved:    req.Approved,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "time entry updated", mapProjectDetail(updated))
}

func (h *TimeEntryHandler) Delete(c *gin.Context) {
	p, ok := h.authorize(c)
	if !ok {
		return
	}
	entryID, ok := uuidParam(c, "entryId")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid time entry id")
		return
	}

	updated, err := h.projects.DeleteTimeEntry(c.Request.Context(), p.ID, entryID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "time entry deleted", mapProjectDetail(updated))
}

func mapTimeEntry(e *model.TimeEntry) timeEntryResponse {
	return timeEntryResponse{
		ID:          e.ID.String(),
		Date:        e.Date.UTC().Format(timeRFC3339Nano),
		Hours:       e.Hours,
		Description: e.Description,
		TaskType:    e.TaskType,
		Approved:    e.Approved,
		AddedBy:     e.AddedBy.String(),
		AddedAt:     e.AddedAt.UTC().Format(timeRFC3339Nano),
	}
}
