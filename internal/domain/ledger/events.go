package ledger

import (
	"github.com/shopkhata/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeCreditSaleIssued     = "ledger.credit_sale.issued"
	EventTypeCreditSaleSettled    = "ledger.credit_sale.settled"
	EventTypeCreditSaleWrittenOff = "ledger.credit_sale.written_off"
)

// CreditSaleIssuedEvent is raised when credit is extended at the till
type CreditSaleIssuedEvent struct {
	shared.BaseDomainEvent
	SaleID       string `json:"sale_id"`
	CustomerID   string `json:"customer_id"`
	CreditAmount string `json:"credit_amount"`
	DueDate      string `json:"due_date"`
	Overridden   bool   `json:"overridden"` // True when a manual approval bypassed the limit check
}

// NewCreditSaleIssuedEvent creates a new issued event
func NewCreditSaleIssuedEvent(cs *CreditSale) *CreditSaleIssuedEvent {
	return &CreditSaleIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditSaleIssued, cs.ID, "CreditSale", cs.TenantID),
		SaleID:          cs.SaleID.String(),
		CustomerID:      cs.CustomerID.String(),
		CreditAmount:    cs.CreditAmount.String(),
		DueDate:         cs.DueDate.Format("2006-01-02"),
		Overridden:      cs.WasOverrideApproved(),
	}
}

// CreditSaleSettledEvent is raised when a sale becomes fully repaid
type CreditSaleSettledEvent struct {
	shared.BaseDomainEvent
	CustomerID string `json:"customer_id"`
	PaidAmount string `json:"paid_amount"`
}

// NewCreditSaleSettledEvent creates a new settled event
func NewCreditSaleSettledEvent(cs *CreditSale) *CreditSaleSettledEvent {
	return &CreditSaleSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditSaleSettled, cs.ID, "CreditSale", cs.TenantID),
		CustomerID:      cs.CustomerID.String(),
		PaidAmount:      cs.PaidAmount.String(),
	}
}

// CreditSaleWrittenOffEvent is raised on administrative write-off
type CreditSaleWrittenOffEvent struct {
	shared.BaseDomainEvent
	CustomerID      string `json:"customer_id"`
	RemainingAmount string `json:"remaining_amount"`
	Reason          string `json:"reason"`
}

// NewCreditSaleWrittenOffEvent creates a new written-off event
func NewCreditSaleWrittenOffEvent(cs *CreditSale) *CreditSaleWrittenOffEvent {
	return &CreditSaleWrittenOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditSaleWrittenOff, cs.ID, "CreditSale", cs.TenantID),
		CustomerID:      cs.CustomerID.String(),
		RemainingAmount: cs.RemainingAmount.String(),
		Reason:          cs.WriteOffReason,
	}
}
