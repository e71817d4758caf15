package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/middleware"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/metrics"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

// Payments are admin-only; the route group enforces the role.
type PaymentHandler struct {
	projects *postgres.ProjectRepository
	logger   *zap.Logger
}

func NewPaymentHandler(projects *postgres.ProjectRepository, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{projects: projects, logger: logger}
}

type paymentCreateRequest struct {
	Amount        float64   `json:"amount" binding:"required"`
	PaymentDate   time.Time `json:"payment_date" binding:"required"`
	PaymentMethod string    `json:"payment_method"`
	MilestoneID   *string   `json:"milestone_id"`
}

type paymentUpdateRequest struct {
	Amount        *float64   `json:"amount"`
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod *string    `json:"payment_method"`
	MilestoneID   *string    `json:"milestone_id"`
}

type paymentResponse struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	MilestoneID   *string `json:"milestone_id,omitempty"`
	AddedBy       string  `json:"added_by"`
}

func (h *PaymentHandler) Add(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req paymentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	principal, _ := middleware.Principal(c)
	payment := &model.Payment{
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		AddedBy:       principal.UserID,
	}
	if req.MilestoneID != nil {
		milestoneID, err := uuid.Parse(*req.MilestoneID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid milestone_id")
			return
		}
		payment.MilestoneID = &milestoneID
	}

	updated, err := h.projects.AddPayment(c.Request.Context(), projectID, payment)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	method := payment.PaymentMethod
	if method == "" {
		method = "unspecified"
	}
	metrics.PaymentsRecorded.WithLabelValues(method).Inc()

	respond(c, http.StatusCreated, "payment recorded", mapProjectDetail(updated))
}

func (h *PaymentHandler) Update(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}
	paymentID, ok := uuidParam(c, "paymentId")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	var req paymentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	update := postgres.PaymentUpdate{
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
	}
	if req.MilestoneID != nil {
		milestoneID, err := uuid.Parse(*req.MilestoneID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid milestone_id")
			return
		}
		update.MilestoneID = &milestoneID
	}

	updated, err := h.projects.UpdatePayment(c.Request.Context(), projectID, paymentID, update)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "payment updated", mapProjectDetail(updated))
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}
	paymentID, ok := uuidParam(c, "paymentId")
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	updated, err := h.projects.DeletePayment(c.Request.Context(), projectID, paymentID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "payment deleted", mapProjectDetail(updated))
}

func mapPayment(p *model.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID.String(),
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate.UTC().Format(timeRFC3339Nano),
		PaymentMethod: p.PaymentMethod,
		MilestoneID:   uuidString(p.MilestoneID),
		AddedBy:       p.AddedBy.String(),
	}
}
