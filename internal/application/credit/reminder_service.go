package credit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/shared"
)

// ReminderService maintains the reminder log for credit sales. It only
// records state; the actual dispatch (SMS, WhatsApp, a phone call) happens
// outside and reports back through MarkSent.
type ReminderService struct {
	reminderRepo ledger.PaymentReminderRepository
	saleRepo     ledger.CreditSaleRepository
	config       ReminderConfig
}

// ReminderConfig holds reminder scheduling defaults
type ReminderConfig struct {
	// LeadDays is how many days before the due date an UPCOMING_DUE reminder
	// is scheduled when the request carries no scheduled date
	LeadDays int
}

// DefaultReminderConfig returns the default reminder configuration
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{LeadDays: 3}
}

// NewReminderService creates a new ReminderService
func NewReminderService(reminderRepo ledger.PaymentReminderRepository, saleRepo ledger.CreditSaleRepository, config ReminderConfig) *ReminderService {
	if config.LeadDays <= 0 {
		config.LeadDays = DefaultReminderConfig().LeadDays
	}
	return &ReminderService{reminderRepo: reminderRepo, saleRepo: saleRepo, config: config}
}

// RecordReminder logs a reminder entry against a credit sale
func (s *ReminderService) RecordReminder(ctx context.Context, req RecordReminderRequest) (*ReminderResponse, error) {
	if req.TenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	sale, err := s.saleRepo.FindByIDForTenant(ctx, req.TenantID, req.CreditSaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Credit sale not found")
	}

	scheduledDate := req.ScheduledDate
	if scheduledDate.IsZero() {
		if ledger.ReminderType(req.Type) == ledger.ReminderTypeUpcomingDue {
			scheduledDate = sale.DueDate.AddDate(0, 0, -s.config.LeadDays)
		} else {
			scheduledDate = time.Now()
		}
	}

	reminder, err := ledger.NewPaymentReminder(req.TenantID, sale.ID, ledger.ReminderType(req.Type), scheduledDate)
	if err != nil {
		return nil, err
	}
	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return toReminderResponse(reminder), nil
}

// MarkReminderSent records that a reminder went out
func (s *ReminderService) MarkReminderSent(ctx context.Context, tenantID, reminderID uuid.UUID, sentAt time.Time) (*ReminderResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	reminder, err := s.reminderRepo.FindByIDForTenant(ctx, tenantID, reminderID)
	if err != nil {
		return nil, err
	}
	if reminder == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Reminder not found")
	}
	if err := reminder.MarkSent(sentAt); err != nil {
		return nil, err
	}
	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return toReminderResponse(reminder), nil
}

// MarkReminderResponded records the customer's response to a sent reminder
func (s *ReminderService) MarkReminderResponded(ctx context.Context, tenantID, reminderID uuid.UUID, notes string) (*ReminderResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	reminder, err := s.reminderRepo.FindByIDForTenant(ctx, tenantID, reminderID)
	if err != nil {
		return nil, err
	}
	if reminder == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Reminder not found")
	}
	if err := reminder.RecordResponse(notes); err != nil {
		return nil, err
	}
	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return toReminderResponse(reminder), nil
}

// ListReminders lists the reminder log for a credit sale, oldest first
func (s *ReminderService) ListReminders(ctx context.Context, tenantID, creditSaleID uuid.UUID) ([]ReminderResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	reminders, err := s.reminderRepo.FindBySale(ctx, tenantID, creditSaleID)
	if err != nil {
		return nil, err
	}
	responses := make([]ReminderResponse, 0, len(reminders))
	for i := range reminders {
		responses = append(responses, *toReminderResponse(&reminders[i]))
	}
	return responses, nil
}
