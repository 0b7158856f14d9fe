package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/infrastructure/persistence/models"
)

// GormPaymentReminderRepository implements PaymentReminderRepository using GORM
type GormPaymentReminderRepository struct {
	db *gorm.DB
}

// NewGormPaymentReminderRepository creates a new GormPaymentReminderRepository
func NewGormPaymentReminderRepository(db *gorm.DB) *GormPaymentReminderRepository {
	return &GormPaymentReminderRepository{db: db}
}

// FindByIDForTenant finds a reminder by ID within a tenant
func (r *GormPaymentReminderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.PaymentReminder, error) {
	var model models.PaymentReminderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySale lists reminders for a credit sale, oldest first
func (r *GormPaymentReminderRepository) FindBySale(ctx context.Context, tenantID, creditSaleID uuid.UUID) ([]ledger.PaymentReminder, error) {
	var reminderModels []models.PaymentReminderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND credit_sale_id = ?", tenantID, creditSaleID).
		Order("created_at ASC").
		Find(&reminderModels).Error; err != nil {
		return nil, err
	}
	reminders := make([]ledger.PaymentReminder, len(reminderModels))
	for i, model := range reminderModels {
		reminders[i] = *model.ToDomain()
	}
	return reminders, nil
}

// Create inserts a new reminder entry
func (r *GormPaymentReminderRepository) Create(ctx context.Context, reminder *ledger.PaymentReminder) error {
	model := models.PaymentReminderModelFromDomain(reminder)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an existing reminder entry
func (r *GormPaymentReminderRepository) Save(ctx context.Context, reminder *ledger.PaymentReminder) error {
	model := models.PaymentReminderModelFromDomain(reminder)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPaymentReminderRepository implements PaymentReminderRepository
var _ ledger.PaymentReminderRepository = (*GormPaymentReminderRepository)(nil)
