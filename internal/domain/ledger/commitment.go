package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/shared"
)

// CommitmentStatus represents the status of a payment commitment
type CommitmentStatus string

const (
	CommitmentStatusPending CommitmentStatus = "PENDING" // Promise not yet resolved
	CommitmentStatusKept    CommitmentStatus = "KEPT"    // Covered by payments on/before the promised date
	CommitmentStatusBroken  CommitmentStatus = "BROKEN"  // Promised date elapsed unmet
)

// IsValid checks if the status is a valid CommitmentStatus
func (s CommitmentStatus) IsValid() bool {
	switch s {
	case CommitmentStatusPending, CommitmentStatusKept, CommitmentStatusBroken:
		return true
	}
	return false
}

// String returns the string representation of CommitmentStatus
func (s CommitmentStatus) String() string {
	return string(s)
}

// IsResolved returns true once the commitment is KEPT or BROKEN
func (s CommitmentStatus) IsResolved() bool {
	return s == CommitmentStatusKept || s == CommitmentStatusBroken
}

// PaymentCommitment records a customer's promise to pay a specific amount by
// a specific date, tracked independently of actual payments.
type PaymentCommitment struct {
	shared.TenantAggregateRoot
	CreditSaleID   uuid.UUID        `json:"credit_sale_id"`
	PromisedAmount decimal.Decimal  `json:"promised_amount"`
	PromisedDate   time.Time        `json:"promised_date"`
	Status         CommitmentStatus `json:"status"`
	Notes          string           `json:"notes"`
	ResolvedAt     *time.Time       `json:"resolved_at"`
}

// NewPaymentCommitment creates a PENDING commitment
func NewPaymentCommitment(
	tenantID uuid.UUID,
	creditSaleID uuid.UUID,
	promisedAmount decimal.Decimal,
	promisedDate time.Time,
	notes string,
) (*PaymentCommitment, error) {
	if creditSaleID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit sale ID cannot be empty")
	}
	if promisedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Promised amount must be positive")
	}
	if promisedDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Promised date is required")
	}

	return &PaymentCommitment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CreditSaleID:        creditSaleID,
		PromisedAmount:      promisedAmount,
		PromisedDate:        promisedDate,
		Status:              CommitmentStatusPending,
		Notes:               notes,
	}, nil
}

// MarkKept resolves the commitment as KEPT. Idempotent for commitments that
// are already KEPT.
func (pc *PaymentCommitment) MarkKept(at time.Time) error {
	if pc.Status == CommitmentStatusKept {
		return nil
	}
	if pc.Status != CommitmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending commitments can be marked kept")
	}
	pc.Status = CommitmentStatusKept
	pc.ResolvedAt = &at
	pc.UpdatedAt = time.Now()
	pc.IncrementVersion()
	return nil
}

// MarkBroken resolves the commitment as BROKEN. Idempotent for commitments
// that are already BROKEN, so sweeps can be re-run safely.
func (pc *PaymentCommitment) MarkBroken(at time.Time) error {
	if pc.Status == CommitmentStatusBroken {
		return nil
	}
	if pc.Status != CommitmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending commitments can be marked broken")
	}
	pc.Status = CommitmentStatusBroken
	pc.ResolvedAt = &at
	pc.UpdatedAt = time.Now()
	pc.IncrementVersion()
	return nil
}

// IsSatisfiedBy reports whether the total payments received by the promised
// date cover the promised amount
func (pc *PaymentCommitment) IsSatisfiedBy(paidByPromisedDate decimal.Decimal) bool {
	return paidByPromisedDate.GreaterThanOrEqual(pc.PromisedAmount)
}
