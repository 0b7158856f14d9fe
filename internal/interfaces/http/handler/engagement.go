package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	creditapp "github.com/shopkhata/backend/internal/application/credit"
	"github.com/shopkhata/backend/internal/interfaces/http/dto"
)

// EngagementHandler handles commitment, reminder and credit history endpoints
type EngagementHandler struct {
	BaseHandler
	commitmentService *creditapp.CommitmentService
	reminderService   *creditapp.ReminderService
	historyService    *creditapp.HistoryService
	queryService      *creditapp.QueryService
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(
	commitmentService *creditapp.CommitmentService,
	reminderService *creditapp.ReminderService,
	historyService *creditapp.HistoryService,
	queryService *creditapp.QueryService,
) *EngagementHandler {
	return &EngagementHandler{
		commitmentService: commitmentService,
		reminderService:   reminderService,
		historyService:    historyService,
		queryService:      queryService,
	}
}

// RecordCommitment records a customer's promise to pay
// @Summary Record a payment commitment
// @Tags engagement
// @Router /api/v1/commitments [post]
func (h *EngagementHandler) RecordCommitment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req creditapp.RecordCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	commitment, err := h.commitmentService.RecordCommitment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, commitment)
}

// SweepCommitments resolves pending commitments whose promised date has passed
// @Summary Sweep overdue commitments
// @Tags engagement
// @Router /api/v1/commitments/sweep [post]
func (h *EngagementHandler) SweepCommitments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	asOf, err := asOfOrNow(c)
	if err != nil {
		h.BadRequest(c, "Invalid as_of date")
		return
	}

	result, err := h.commitmentService.SweepOverdueCommitments(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListCommitments lists pending commitments for a credit sale
// @Summary List commitments for a credit sale
// @Tags engagement
// @Router /api/v1/credit-sales/{id}/commitments [get]
func (h *EngagementHandler) ListCommitments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid credit sale ID")
		return
	}

	commitments, err := h.queryService.ListCommitments(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, commitments)
}

// RecordReminder logs a reminder for a credit sale
// @Summary Record a payment reminder
// @Tags engagement
// @Router /api/v1/reminders [post]
func (h *EngagementHandler) RecordReminder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req creditapp.RecordReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	reminder, err := h.reminderService.RecordReminder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, reminder)
}

// MarkReminderSent marks a reminder as delivered to the customer
// @Summary Mark a reminder sent
// @Tags engagement
// @Router /api/v1/reminders/{id}/sent [post]
func (h *EngagementHandler) MarkReminderSent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid reminder ID")
		return
	}

	var body struct {
		SentAt *time.Time `json:"sent_at"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	sentAt := time.Now()
	if body.SentAt != nil {
		sentAt = *body.SentAt
	}

	reminder, err := h.reminderService.MarkReminderSent(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), sentAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminder)
}

// MarkReminderResponded records the customer's response to a reminder
// @Summary Mark a reminder responded
// @Tags engagement
// @Router /api/v1/reminders/{id}/responded [post]
func (h *EngagementHandler) MarkReminderResponded(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid reminder ID")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	reminder, err := h.reminderService.MarkReminderResponded(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), body.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminder)
}

// ListReminders lists reminders for a credit sale
// @Summary List reminders for a credit sale
// @Tags engagement
// @Router /api/v1/credit-sales/{id}/reminders [get]
func (h *EngagementHandler) ListReminders(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid credit sale ID")
		return
	}

	reminders, err := h.reminderService.ListReminders(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminders)
}

// GetCreditHistory returns the rollup for one customer and period
// @Summary Get a customer's credit history for a period
// @Tags engagement
// @Router /api/v1/customers/{id}/credit-history/{period} [get]
func (h *EngagementHandler) GetCreditHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	history, err := h.historyService.GetCreditHistory(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), c.Param("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// ListCreditHistory lists all rollups for a customer, newest first
// @Summary List a customer's credit history
// @Tags engagement
// @Router /api/v1/customers/{id}/credit-history [get]
func (h *EngagementHandler) ListCreditHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	histories, err := h.historyService.ListCreditHistory(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, histories)
}

// RegenerateCreditHistory recomputes the rollup for one customer and period
// @Summary Regenerate a customer's credit history for a period
// @Tags engagement
// @Router /api/v1/customers/{id}/credit-history/{period}/regenerate [post]
func (h *EngagementHandler) RegenerateCreditHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	history, err := h.historyService.RegenerateCreditHistory(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), c.Param("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}
