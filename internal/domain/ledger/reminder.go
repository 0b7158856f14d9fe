package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopkhata/backend/internal/domain/shared"
)

// ReminderType classifies a payment reminder
type ReminderType string

const (
	ReminderTypeUpcomingDue ReminderType = "UPCOMING_DUE"
	ReminderTypeOverdue     ReminderType = "OVERDUE"
	ReminderTypeFinalNotice ReminderType = "FINAL_NOTICE"
)

// String returns the string representation of ReminderType
func (t ReminderType) String() string {
	return string(t)
}

// IsValid returns true if the reminder type is valid
func (t ReminderType) IsValid() bool {
	switch t {
	case ReminderTypeUpcomingDue, ReminderTypeOverdue, ReminderTypeFinalNotice:
		return true
	}
	return false
}

// PaymentReminder is an append-only log entry of reminder lifecycle state.
// Actual delivery is owned by the notification dispatch collaborator; this
// core only records state.
type PaymentReminder struct {
	shared.TenantAggregateRoot
	CreditSaleID  uuid.UUID    `json:"credit_sale_id"`
	Type          ReminderType `json:"type"`
	ScheduledDate time.Time    `json:"scheduled_date"`
	Sent          bool         `json:"sent"`
	SentAt        *time.Time   `json:"sent_at"`
	Responded     bool         `json:"responded"`
	ResponseNotes string       `json:"response_notes"`
}

// NewPaymentReminder creates an unsent reminder entry
func NewPaymentReminder(
	tenantID uuid.UUID,
	creditSaleID uuid.UUID,
	reminderType ReminderType,
	scheduledDate time.Time,
) (*PaymentReminder, error) {
	if creditSaleID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit sale ID cannot be empty")
	}
	if !reminderType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reminder type is not valid")
	}
	if scheduledDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Scheduled date is required")
	}

	return &PaymentReminder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CreditSaleID:        creditSaleID,
		Type:                reminderType,
		ScheduledDate:       scheduledDate,
	}, nil
}

// MarkSent records that the dispatch collaborator sent the reminder
func (r *PaymentReminder) MarkSent(at time.Time) error {
	if r.Sent {
		return shared.NewDomainError("INVALID_STATE", "Reminder has already been sent")
	}
	r.Sent = true
	r.SentAt = &at
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// RecordResponse records the customer's response to a sent reminder
func (r *PaymentReminder) RecordResponse(notes string) error {
	if !r.Sent {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a response for an unsent reminder")
	}
	r.Responded = true
	r.ResponseNotes = notes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
