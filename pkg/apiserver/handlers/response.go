package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/project"
)

// Envelope is the JSON shape of every response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an internal error and gets logged.
func respondDomainError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, project.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, project.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, project.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, project.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	default:
		logger.Error("unexpected error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
