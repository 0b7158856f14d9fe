package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	creditapp "github.com/shopkhata/backend/internal/application/credit"
	"github.com/shopkhata/backend/internal/interfaces/http/dto"
)

// parseDateTime parses a datetime string in the formats clients actually send
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// asOfOrNow reads the optional as_of query parameter, defaulting to now
func asOfOrNow(c *gin.Context) (time.Time, error) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now(), nil
	}
	return parseDateTime(raw)
}

// CreditHandler handles credit sale and repayment API endpoints
type CreditHandler struct {
	BaseHandler
	issuanceService *creditapp.IssuanceService
	paymentService  *creditapp.PaymentService
	queryService    *creditapp.QueryService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(
	issuanceService *creditapp.IssuanceService,
	paymentService *creditapp.PaymentService,
	queryService *creditapp.QueryService,
) *CreditHandler {
	return &CreditHandler{
		issuanceService: issuanceService,
		paymentService:  paymentService,
		queryService:    queryService,
	}
}

// IssueCredit records a POS sale as a credit sale
// @Summary Issue credit for a sale
// @Tags credit
// @Router /api/v1/credit-sales [post]
func (h *CreditHandler) IssueCredit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req creditapp.IssueCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID

	sale, err := h.issuanceService.IssueCredit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetCreditSale returns a credit sale with its payment ledger
// @Summary Get a credit sale
// @Tags credit
// @Router /api/v1/credit-sales/{id} [get]
func (h *CreditHandler) GetCreditSale(c *gin.Context) {
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
	id := uuid.MustParse(idReq.ID)

	sale, payments, err := h.queryService.GetCreditSale(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"sale":     sale,
		"payments": payments,
	})
}

// ListOverdue returns unpaid credit sales past their due date
// @Summary List overdue credit sales
// @Tags credit
// @Router /api/v1/credit-sales/overdue [get]
func (h *CreditHandler) ListOverdue(c *gin.Context) {
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

	sales, err := h.queryService.ListOverdue(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// WriteOff marks a credit sale as uncollectible
// @Summary Write off a credit sale
// @Tags credit
// @Router /api/v1/credit-sales/{id}/write-off [post]
func (h *CreditHandler) WriteOff(c *gin.Context) {
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

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.issuanceService.WriteOff(c.Request.Context(), creditapp.WriteOffRequest{
		TenantID:     tenantID,
		CreditSaleID: uuid.MustParse(idReq.ID),
		Reason:       body.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// ApplyPayment records a repayment against a credit sale
// @Summary Apply a payment
// @Tags credit
// @Router /api/v1/payments [post]
func (h *CreditHandler) ApplyPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req creditapp.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID
	if req.ReceivedBy == uuid.Nil {
		if userID, err := getUserID(c); err == nil {
			req.ReceivedBy = userID
		}
	}

	result, err := h.paymentService.ApplyPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ReversePayment appends a reversal entry for a mistaken payment
// @Summary Reverse a payment
// @Tags credit
// @Router /api/v1/payments/reverse [post]
func (h *CreditHandler) ReversePayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req creditapp.ReversePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.TenantID = tenantID
	if req.ReversedBy == uuid.Nil {
		if userID, err := getUserID(c); err == nil {
			req.ReversedBy = userID
		}
	}

	result, err := h.paymentService.ReversePayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListCustomerCreditSales lists all credit sales for a customer
// @Summary List a customer's credit sales
// @Tags credit
// @Router /api/v1/customers/{id}/credit-sales [get]
func (h *CreditHandler) ListCustomerCreditSales(c *gin.Context) {
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

	sales, err := h.queryService.ListCreditSalesForCustomer(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// GetCustomerBalance returns a customer's reconciled credit position
// @Summary Get a customer's credit balance
// @Tags credit
// @Router /api/v1/customers/{id}/balance [get]
func (h *CreditHandler) GetCustomerBalance(c *gin.Context) {
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

	balance, err := h.queryService.GetCustomerBalance(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// GetCustomerCreditSummary returns a customer's full credit picture
// @Summary Get a customer's credit summary
// @Tags credit
// @Router /api/v1/customers/{id}/credit-summary [get]
func (h *CreditHandler) GetCustomerCreditSummary(c *gin.Context) {
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

	summary, err := h.queryService.GetCustomerCreditSummary(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
