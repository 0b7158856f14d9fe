package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/shared"
)

// CreditSaleStatus represents the stored status of a credit sale.
// OVERDUE is intentionally absent: it is a read-time refinement of
// OUTSTANDING/PARTIALLY_PAID derived from the due date, never persisted.
type CreditSaleStatus string

const (
	CreditSaleStatusOutstanding   CreditSaleStatus = "OUTSTANDING"    // No payment applied yet
	CreditSaleStatusPartiallyPaid CreditSaleStatus = "PARTIALLY_PAID" // 0 < remaining < credit amount
	CreditSaleStatusPaid          CreditSaleStatus = "PAID"           // Fully repaid, remaining = 0
	CreditSaleStatusOverdue       CreditSaleStatus = "OVERDUE"        // Read-time view only, see EffectiveStatus
	CreditSaleStatusWrittenOff    CreditSaleStatus = "WRITTEN_OFF"    // Administrative terminal state
)

// IsValid checks if the status is a valid CreditSaleStatus
func (s CreditSaleStatus) IsValid() bool {
	switch s {
	case CreditSaleStatusOutstanding, CreditSaleStatusPartiallyPaid,
		CreditSaleStatusPaid, CreditSaleStatusOverdue, CreditSaleStatusWrittenOff:
		return true
	}
	return false
}

// String returns the string representation of CreditSaleStatus
func (s CreditSaleStatus) String() string {
	return string(s)
}

// IsStorable returns true for statuses the reconciler may persist
func (s CreditSaleStatus) IsStorable() bool {
	return s != CreditSaleStatusOverdue && s.IsValid()
}

// CanApplyPayment returns true if payments can be applied in this status
func (s CreditSaleStatus) CanApplyPayment() bool {
	return s == CreditSaleStatusOutstanding || s == CreditSaleStatusPartiallyPaid
}

// CanWriteOff returns true if the sale can be written off from this status
func (s CreditSaleStatus) CanWriteOff() bool {
	return s == CreditSaleStatusOutstanding || s == CreditSaleStatusPartiallyPaid
}

// CountsTowardBalance returns true if the sale's remainder contributes to the
// customer's outstanding balance
func (s CreditSaleStatus) CountsTowardBalance() bool {
	return s != CreditSaleStatusWrittenOff
}

// CreditSale represents a sale whose payment is deferred, tracked with a due
// date and a remaining balance. Immutable after creation except for the
// derived amount/status fields, which only the reconciler writes, and the
// explicit write-off transition.
type CreditSale struct {
	shared.TenantAggregateRoot
	SaleID          uuid.UUID        `json:"sale_id"` // Originating POS sale; at most one credit sale per sale
	CustomerID      uuid.UUID        `json:"customer_id"`
	CreditAmount    decimal.Decimal  `json:"credit_amount"`
	PaidAmount      decimal.Decimal  `json:"paid_amount"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount"`
	DueDate         time.Time        `json:"due_date"`
	TermsInDays     int              `json:"terms_in_days"`
	InterestRate    decimal.Decimal  `json:"interest_rate"`
	Status          CreditSaleStatus `json:"status"`
	ApprovedBy      *uuid.UUID       `json:"approved_by"` // Set when the credit-limit check was manually overridden
	Notes           string           `json:"notes"`
	WrittenOffAt    *time.Time       `json:"written_off_at"`
	WriteOffReason  string           `json:"write_off_reason"`
}

// NewCreditSale creates a new credit sale in OUTSTANDING status
func NewCreditSale(
	tenantID uuid.UUID,
	saleID uuid.UUID,
	customerID uuid.UUID,
	creditAmount decimal.Decimal,
	dueDate time.Time,
	termsInDays int,
	interestRate decimal.Decimal,
	approvedBy *uuid.UUID,
	notes string,
) (*CreditSale, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer ID cannot be empty")
	}
	if creditAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Due date is required")
	}
	if termsInDays < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Terms in days cannot be negative")
	}
	if interestRate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Interest rate cannot be negative")
	}

	cs := &CreditSale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              saleID,
		CustomerID:          customerID,
		CreditAmount:        creditAmount,
		PaidAmount:          decimal.Zero,
		RemainingAmount:     creditAmount,
		DueDate:             dueDate,
		TermsInDays:         termsInDays,
		InterestRate:        interestRate,
		Status:              CreditSaleStatusOutstanding,
		ApprovedBy:          approvedBy,
		Notes:               notes,
	}

	cs.AddDomainEvent(NewCreditSaleIssuedEvent(cs))

	return cs, nil
}

// Reconcile rewrites the derived amount and status fields from the total of
// applied payments. It is only invoked by the reconciler, inside the same
// transaction as the mutation that made the payment total change.
func (cs *CreditSale) Reconcile(totalPaid decimal.Decimal) error {
	if totalPaid.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Total paid cannot be negative")
	}
	remaining := cs.CreditAmount.Sub(totalPaid)
	if remaining.IsNegative() {
		return shared.NewDomainError("OVERPAYMENT_REJECTED",
			fmt.Sprintf("Payments %s exceed credit amount %s", totalPaid.StringFixed(2), cs.CreditAmount.StringFixed(2)))
	}

	cs.PaidAmount = totalPaid
	cs.RemainingAmount = remaining

	// Write-off is sticky: amounts still track the ledger but status stays terminal.
	if cs.Status != CreditSaleStatusWrittenOff {
		previous := cs.Status
		switch {
		case remaining.IsZero():
			cs.Status = CreditSaleStatusPaid
		case remaining.LessThan(cs.CreditAmount):
			cs.Status = CreditSaleStatusPartiallyPaid
		default:
			cs.Status = CreditSaleStatusOutstanding
		}
		if previous != cs.Status && cs.Status == CreditSaleStatusPaid {
			cs.AddDomainEvent(NewCreditSaleSettledEvent(cs))
		}
	}

	cs.UpdatedAt = time.Now()
	cs.IncrementVersion()
	return nil
}

// WriteOff marks the sale as written off. Administrative action; the remainder
// stops counting toward the customer's outstanding balance.
func (cs *CreditSale) WriteOff(reason string) error {
	if !cs.Status.CanWriteOff() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot write off credit sale in %s status", cs.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Write-off reason is required")
	}

	now := time.Now()
	cs.Status = CreditSaleStatusWrittenOff
	cs.WrittenOffAt = &now
	cs.WriteOffReason = reason
	cs.UpdatedAt = now
	cs.IncrementVersion()

	cs.AddDomainEvent(NewCreditSaleWrittenOffEvent(cs))

	return nil
}

// EffectiveStatus returns the status as seen by readers at the given time:
// OUTSTANDING and PARTIALLY_PAID become OVERDUE once the due date has passed.
func (cs *CreditSale) EffectiveStatus(asOf time.Time) CreditSaleStatus {
	if cs.Status.CanApplyPayment() && asOf.After(cs.DueDate) {
		return CreditSaleStatusOverdue
	}
	return cs.Status
}

// IsOverdue returns true if the sale is unpaid past its due date
func (cs *CreditSale) IsOverdue(asOf time.Time) bool {
	return cs.EffectiveStatus(asOf) == CreditSaleStatusOverdue
}

// DaysOverdue returns the number of days past due (0 if not overdue)
func (cs *CreditSale) DaysOverdue(asOf time.Time) int {
	if !cs.IsOverdue(asOf) {
		return 0
	}
	return int(asOf.Sub(cs.DueDate).Hours() / 24)
}

// IsPaid returns true if the sale is fully repaid
func (cs *CreditSale) IsPaid() bool {
	return cs.Status == CreditSaleStatusPaid
}

// IsWrittenOff returns true if the sale has been written off
func (cs *CreditSale) IsWrittenOff() bool {
	return cs.Status == CreditSaleStatusWrittenOff
}

// WasOverrideApproved returns true if creation bypassed the credit-limit check
func (cs *CreditSale) WasOverrideApproved() bool {
	return cs.ApprovedBy != nil
}
