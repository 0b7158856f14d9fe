package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/shared"
)

// PaymentMethod represents how a credit payment was received
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodAdjustment   PaymentMethod = "ADJUSTMENT" // Correcting entries (reversals)
)

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard,
		PaymentMethodBankTransfer, PaymentMethodAdjustment:
		return true
	}
	return false
}

// CreditPayment is an append-only entry in a credit sale's payment ledger.
// A payment is never mutated or deleted; corrections are recorded as a
// negative entry referencing the original via ReversesPaymentID.
type CreditPayment struct {
	shared.TenantAggregateRoot
	CreditSaleID      uuid.UUID       `json:"credit_sale_id"`
	PaymentAmount     decimal.Decimal `json:"payment_amount"` // Negative for reversal entries
	PaymentDate       time.Time       `json:"payment_date"`
	Method            PaymentMethod   `json:"method"`
	ReceivedBy        uuid.UUID       `json:"received_by"`
	Reference         string          `json:"reference"`
	Notes             string          `json:"notes"`
	ReversesPaymentID *uuid.UUID      `json:"reverses_payment_id"`
}

// NewCreditPayment creates a new positive payment entry
func NewCreditPayment(
	tenantID uuid.UUID,
	creditSaleID uuid.UUID,
	amount decimal.Decimal,
	paymentDate time.Time,
	method PaymentMethod,
	receivedBy uuid.UUID,
	reference string,
	notes string,
) (*CreditPayment, error) {
	if creditSaleID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit sale ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment date is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment method is not valid")
	}
	if receivedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receiver is required")
	}

	return &CreditPayment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CreditSaleID:        creditSaleID,
		PaymentAmount:       amount,
		PaymentDate:         paymentDate,
		Method:              method,
		ReceivedBy:          receivedBy,
		Reference:           reference,
		Notes:               notes,
	}, nil
}

// NewReversalEntry creates the negative correcting entry for a payment.
// The original entry is left untouched.
func NewReversalEntry(original *CreditPayment, reversedBy uuid.UUID, reason string) (*CreditPayment, error) {
	if original == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Original payment is required")
	}
	if original.IsReversal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot reverse a reversal entry")
	}
	if reversedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reverser is required")
	}
	if reason == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reversal reason is required")
	}

	originalID := original.ID
	return &CreditPayment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(original.TenantID),
		CreditSaleID:        original.CreditSaleID,
		PaymentAmount:       original.PaymentAmount.Neg(),
		PaymentDate:         time.Now(),
		Method:              PaymentMethodAdjustment,
		ReceivedBy:          reversedBy,
		Reference:           original.Reference,
		Notes:               reason,
		ReversesPaymentID:   &originalID,
	}, nil
}

// IsReversal returns true if this entry corrects an earlier payment
func (p *CreditPayment) IsReversal() bool {
	return p.ReversesPaymentID != nil
}
