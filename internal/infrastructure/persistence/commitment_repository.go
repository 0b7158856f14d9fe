package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/infrastructure/persistence/models"
)

// GormPaymentCommitmentRepository implements PaymentCommitmentRepository using GORM
type GormPaymentCommitmentRepository struct {
	db *gorm.DB
}

// NewGormPaymentCommitmentRepository creates a new GormPaymentCommitmentRepository
func NewGormPaymentCommitmentRepository(db *gorm.DB) *GormPaymentCommitmentRepository {
	return &GormPaymentCommitmentRepository{db: db}
}

// FindByIDForTenant finds a commitment by ID within a tenant
func (r *GormPaymentCommitmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.PaymentCommitment, error) {
	var model models.PaymentCommitmentModel
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

// FindPendingBySale lists PENDING commitments for a credit sale
func (r *GormPaymentCommitmentRepository) FindPendingBySale(ctx context.Context, tenantID, creditSaleID uuid.UUID) ([]ledger.PaymentCommitment, error) {
	var commitmentModels []models.PaymentCommitmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND credit_sale_id = ? AND status = ?", tenantID, creditSaleID, ledger.CommitmentStatusPending).
		Order("promised_date ASC").
		Find(&commitmentModels).Error; err != nil {
		return nil, err
	}
	commitments := make([]ledger.PaymentCommitment, len(commitmentModels))
	for i, model := range commitmentModels {
		commitments[i] = *model.ToDomain()
	}
	return commitments, nil
}

// FindPendingDueBefore lists PENDING commitments promised strictly before the given date
func (r *GormPaymentCommitmentRepository) FindPendingDueBefore(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]ledger.PaymentCommitment, error) {
	var commitmentModels []models.PaymentCommitmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND promised_date < ?", tenantID, ledger.CommitmentStatusPending, before).
		Order("promised_date ASC").
		Find(&commitmentModels).Error; err != nil {
		return nil, err
	}
	commitments := make([]ledger.PaymentCommitment, len(commitmentModels))
	for i, model := range commitmentModels {
		commitments[i] = *model.ToDomain()
	}
	return commitments, nil
}

// Create inserts a new commitment
func (r *GormPaymentCommitmentRepository) Create(ctx context.Context, commitment *ledger.PaymentCommitment) error {
	model := models.PaymentCommitmentModelFromDomain(commitment)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an existing commitment
func (r *GormPaymentCommitmentRepository) Save(ctx context.Context, commitment *ledger.PaymentCommitment) error {
	model := models.PaymentCommitmentModelFromDomain(commitment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPaymentCommitmentRepository implements PaymentCommitmentRepository
var _ ledger.PaymentCommitmentRepository = (*GormPaymentCommitmentRepository)(nil)
