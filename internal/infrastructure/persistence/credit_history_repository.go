package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/infrastructure/persistence/models"
)

// GormCustomerCreditHistoryRepository implements CustomerCreditHistoryRepository using GORM
type GormCustomerCreditHistoryRepository struct {
	db *gorm.DB
}

// NewGormCustomerCreditHistoryRepository creates a new GormCustomerCreditHistoryRepository
func NewGormCustomerCreditHistoryRepository(db *gorm.DB) *GormCustomerCreditHistoryRepository {
	return &GormCustomerCreditHistoryRepository{db: db}
}

// FindByCustomerAndPeriod finds the rollup row for one customer and period
func (r *GormCustomerCreditHistoryRepository) FindByCustomerAndPeriod(ctx context.Context, tenantID, customerID uuid.UUID, period string) (*ledger.CustomerCreditHistory, error) {
	var model models.CustomerCreditHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ? AND period = ?", tenantID, customerID, period).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists all rollup rows for a customer, newest period first
func (r *GormCustomerCreditHistoryRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]ledger.CustomerCreditHistory, error) {
	var historyModels []models.CustomerCreditHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("period DESC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	histories := make([]ledger.CustomerCreditHistory, len(historyModels))
	for i, model := range historyModels {
		histories[i] = *model.ToDomain()
	}
	return histories, nil
}

// Upsert overwrites the rollup row for the history's customer and period.
// Regeneration must be idempotent, so a conflicting row is replaced in place.
func (r *GormCustomerCreditHistoryRepository) Upsert(ctx context.Context, history *ledger.CustomerCreditHistory) error {
	model := models.CustomerCreditHistoryModelFromDomain(history)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "customer_id"}, {Name: "period"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_credit_amount",
				"total_repaid_amount",
				"late_payment_count",
				"average_payment_delay",
				"credit_score",
				"version",
				"updated_at",
			}),
		}).
		Create(model).Error
}

// Ensure GormCustomerCreditHistoryRepository implements CustomerCreditHistoryRepository
var _ ledger.CustomerCreditHistoryRepository = (*GormCustomerCreditHistoryRepository)(nil)
