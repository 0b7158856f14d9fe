package credit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/ledger"
)

// IssueCreditRequest carries the input for issuing a credit sale
type IssueCreditRequest struct {
	TenantID     uuid.UUID       `json:"-"`
	SaleID       uuid.UUID       `json:"sale_id" binding:"required"`
	CustomerID   uuid.UUID       `json:"customer_id" binding:"required"`
	CreditAmount decimal.Decimal `json:"credit_amount" binding:"required"`
	// DueDate defaults to the issue time plus the payment terms when omitted
	DueDate      time.Time       `json:"due_date"`
	TermsInDays  int             `json:"terms_in_days"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	// ApprovedBy identifies the staff member who overrode the credit limit
	// check. When nil, the limit check is enforced.
	ApprovedBy *uuid.UUID `json:"approved_by"`
	Notes      string     `json:"notes"`
}

// ApplyPaymentRequest carries the input for applying a repayment
type ApplyPaymentRequest struct {
	TenantID     uuid.UUID       `json:"-"`
	CreditSaleID uuid.UUID       `json:"credit_sale_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate  time.Time       `json:"payment_date"`
	Method       string          `json:"method" binding:"required"`
	// ReceivedBy defaults to the authenticated user when omitted
	ReceivedBy uuid.UUID `json:"received_by"`
	Reference  string    `json:"reference"`
	Notes      string    `json:"notes"`
}

// ReversePaymentRequest carries the input for reversing a payment entry
type ReversePaymentRequest struct {
	TenantID  uuid.UUID `json:"-"`
	PaymentID uuid.UUID `json:"payment_id" binding:"required"`
	// ReversedBy defaults to the authenticated user when omitted
	ReversedBy uuid.UUID `json:"reversed_by"`
	Reason     string    `json:"reason" binding:"required"`
}

// WriteOffRequest carries the input for writing off a credit sale
type WriteOffRequest struct {
	TenantID     uuid.UUID `json:"-"`
	CreditSaleID uuid.UUID `json:"credit_sale_id" binding:"required"`
	Reason       string    `json:"reason" binding:"required"`
}

// RecordCommitmentRequest carries the input for recording a payment promise
type RecordCommitmentRequest struct {
	TenantID       uuid.UUID       `json:"-"`
	CreditSaleID   uuid.UUID       `json:"credit_sale_id" binding:"required"`
	PromisedAmount decimal.Decimal `json:"promised_amount" binding:"required"`
	PromisedDate   time.Time       `json:"promised_date" binding:"required"`
	Notes          string          `json:"notes"`
}

// RecordReminderRequest carries the input for logging a reminder entry
type RecordReminderRequest struct {
	TenantID     uuid.UUID `json:"-"`
	CreditSaleID uuid.UUID `json:"credit_sale_id" binding:"required"`
	Type         string    `json:"type" binding:"required"`
	// ScheduledDate defaults from the sale's due date when omitted
	ScheduledDate time.Time `json:"scheduled_date"`
}

// CreditSaleResponse represents a credit sale in API responses. Status is the
// effective status as of the query time, so OVERDUE shows without ever being
// stored.
type CreditSaleResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	SaleID          uuid.UUID       `json:"sale_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	CreditAmount    decimal.Decimal `json:"credit_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	DueDate         time.Time       `json:"due_date"`
	TermsInDays     int             `json:"terms_in_days"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	Status          string          `json:"status"`
	DaysOverdue     int             `json:"days_overdue"`
	ApprovedBy      *uuid.UUID      `json:"approved_by,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	WrittenOffAt    *time.Time      `json:"written_off_at,omitempty"`
	WriteOffReason  string          `json:"write_off_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreditPaymentResponse represents a payment ledger entry in API responses
type CreditPaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	CreditSaleID      uuid.UUID       `json:"credit_sale_id"`
	PaymentAmount     decimal.Decimal `json:"payment_amount"`
	PaymentDate       time.Time       `json:"payment_date"`
	Method            string          `json:"method"`
	ReceivedBy        uuid.UUID       `json:"received_by"`
	Reference         string          `json:"reference,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	ReversesPaymentID *uuid.UUID      `json:"reverses_payment_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CommitmentResponse represents a payment commitment in API responses
type CommitmentResponse struct {
	ID             uuid.UUID       `json:"id"`
	CreditSaleID   uuid.UUID       `json:"credit_sale_id"`
	PromisedAmount decimal.Decimal `json:"promised_amount"`
	PromisedDate   time.Time       `json:"promised_date"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReminderResponse represents a reminder log entry in API responses
type ReminderResponse struct {
	ID            uuid.UUID  `json:"id"`
	CreditSaleID  uuid.UUID  `json:"credit_sale_id"`
	Type          string     `json:"type"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Sent          bool       `json:"sent"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	Responded     bool       `json:"responded"`
	ResponseNotes string     `json:"response_notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreditHistoryResponse represents a periodic rollup in API responses
type CreditHistoryResponse struct {
	CustomerID          uuid.UUID       `json:"customer_id"`
	Period              string          `json:"period"`
	TotalCreditAmount   decimal.Decimal `json:"total_credit_amount"`
	TotalRepaidAmount   decimal.Decimal `json:"total_repaid_amount"`
	LatePaymentCount    int             `json:"late_payment_count"`
	AveragePaymentDelay decimal.Decimal `json:"average_payment_delay"`
	CreditScore         decimal.Decimal `json:"credit_score"`
}

// CustomerBalanceResponse reports a customer's reconciled credit position
type CustomerBalanceResponse struct {
	CustomerID         uuid.UUID       `json:"customer_id"`
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	AvailableCredit    decimal.Decimal `json:"available_credit"`
}

// CustomerCreditSummaryResponse aggregates a customer's full credit picture
type CustomerCreditSummaryResponse struct {
	Balance      CustomerBalanceResponse `json:"balance"`
	OpenSales    []CreditSaleResponse    `json:"open_sales"`
	OverdueCount int                     `json:"overdue_count"`
	OverdueTotal decimal.Decimal         `json:"overdue_total"`
}

// CommitmentSweepResult reports how many commitments a sweep resolved
type CommitmentSweepResult struct {
	Kept   int `json:"kept"`
	Broken int `json:"broken"`
}

func toCreditSaleResponse(cs *ledger.CreditSale, reconciler *ledger.Reconciler, asOf time.Time) *CreditSaleResponse {
	return &CreditSaleResponse{
		ID:              cs.ID,
		TenantID:        cs.TenantID,
		SaleID:          cs.SaleID,
		CustomerID:      cs.CustomerID,
		CreditAmount:    cs.CreditAmount,
		PaidAmount:      cs.PaidAmount,
		RemainingAmount: cs.RemainingAmount,
		AmountDue:       reconciler.AmountDue(cs, asOf),
		DueDate:         cs.DueDate,
		TermsInDays:     cs.TermsInDays,
		InterestRate:    cs.InterestRate,
		Status:          cs.EffectiveStatus(asOf).String(),
		DaysOverdue:     cs.DaysOverdue(asOf),
		ApprovedBy:      cs.ApprovedBy,
		Notes:           cs.Notes,
		WrittenOffAt:    cs.WrittenOffAt,
		WriteOffReason:  cs.WriteOffReason,
		CreatedAt:       cs.CreatedAt,
		UpdatedAt:       cs.UpdatedAt,
		Version:         cs.Version,
	}
}

func toCreditPaymentResponse(p *ledger.CreditPayment) *CreditPaymentResponse {
	return &CreditPaymentResponse{
		ID:                p.ID,
		CreditSaleID:      p.CreditSaleID,
		PaymentAmount:     p.PaymentAmount,
		PaymentDate:       p.PaymentDate,
		Method:            p.Method.String(),
		ReceivedBy:        p.ReceivedBy,
		Reference:         p.Reference,
		Notes:             p.Notes,
		ReversesPaymentID: p.ReversesPaymentID,
		CreatedAt:         p.CreatedAt,
	}
}

func toCommitmentResponse(pc *ledger.PaymentCommitment) *CommitmentResponse {
	return &CommitmentResponse{
		ID:             pc.ID,
		CreditSaleID:   pc.CreditSaleID,
		PromisedAmount: pc.PromisedAmount,
		PromisedDate:   pc.PromisedDate,
		Status:         pc.Status.String(),
		Notes:          pc.Notes,
		ResolvedAt:     pc.ResolvedAt,
		CreatedAt:      pc.CreatedAt,
	}
}

func toReminderResponse(r *ledger.PaymentReminder) *ReminderResponse {
	return &ReminderResponse{
		ID:            r.ID,
		CreditSaleID:  r.CreditSaleID,
		Type:          r.Type.String(),
		ScheduledDate: r.ScheduledDate,
		Sent:          r.Sent,
		SentAt:        r.SentAt,
		Responded:     r.Responded,
		ResponseNotes: r.ResponseNotes,
		CreatedAt:     r.CreatedAt,
	}
}

func toCreditHistoryResponse(h *ledger.CustomerCreditHistory) *CreditHistoryResponse {
	return &CreditHistoryResponse{
		CustomerID:          h.CustomerID,
		Period:              h.Period,
		TotalCreditAmount:   h.TotalCreditAmount,
		TotalRepaidAmount:   h.TotalRepaidAmount,
		LatePaymentCount:    h.LatePaymentCount,
		AveragePaymentDelay: h.AveragePaymentDelay,
		CreditScore:         h.CreditScore,
	}
}
