package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

type ProjectGroupHandler struct {
	groups *postgres.ProjectGroupRepository
	logger *zap.Logger
}

func NewProjectGroupHandler(groups *postgres.ProjectGroupRepository, logger *zap.Logger) *ProjectGroupHandler {
	return &ProjectGroupHandler{groups: groups, logger: logger}
}

type groupCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	ClientName  string `json:"client_name"`
	Description string `json:"description"`
}

type groupUpdateRequest struct {
	Name        *string `json:"name"`
	ClientName  *string `json:"client_name"`
	Description *string `json:"description"`
}

type groupResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ClientName  string `json:"client_name,omitempty"`
	Description string `json:"description,omitempty"`
	Projects    int    `json:"projects"`
	CreatedAt   string `json:"created_at"`
}

func (h *ProjectGroupHandler) Create(c *gin.Context) {
	var req groupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	group := &model.ProjectGroup{
		Name:        req.Name,
		ClientName:  req.ClientName,
		Description: req.Description,
	}
	if err := h.groups.Create(c.Request.Context(), group); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "project group created", mapGroup(group))
}

func (h *ProjectGroupHandler) List(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 20)
	offset := parseOffset(c.Query("offset"))

	groups, total, err := h.groups.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	response := make([]groupResponse, 0, len(groups))
	for i := range groups {
		response = append(response, mapGroup(&groups[i]))
	}

	respond(c, http.StatusOK, "", gin.H{"groups": response, "total": total})
}

func (h *ProjectGroupHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid group id")
		return
	}

	group, err := h.groups.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "", mapGroup(group))
}

func (h *ProjectGroupHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid group id")
		return
	}

	var req groupUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	group, err := h.groups.Update(c.Request.Context(), id, postgres.ProjectGroupUpdate{
		Name:        req.Name,
		ClientName:  req.ClientName,
		Description: req.Description,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "project group updated", mapGroup(group))
}

func (h *ProjectGroupHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "project group deleted", nil)
}

func mapGroup(g *model.ProjectGroup) groupResponse {
	return groupResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		ClientName:  g.ClientName,
		Description: g.Description,
		Projects:    len(g.Projects),
		CreatedAt:   g.CreatedAt.UTC().Format(timeRFC3339Nano),
	}
}
