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

// GormCreditPaymentRepository implements CreditPaymentRepository using GORM.
// The payment table is append-only, so there is no Save or Delete.
type GormCreditPaymentRepository struct {
	db *gorm.DB
}

// NewGormCreditPaymentRepository creates a new GormCreditPaymentRepository
func NewGormCreditPaymentRepository(db *gorm.DB) *GormCreditPaymentRepository {
	return &GormCreditPaymentRepository{db: db}
}

// FindByIDForTenant finds a payment entry by ID within a tenant
func (r *GormCreditPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.CreditPayment, error) {
	var model models.CreditPaymentModel
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

// FindBySale lists all payment entries for a credit sale, oldest first
func (r *GormCreditPaymentRepository) FindBySale(ctx context.Context, tenantID, creditSaleID uuid.UUID) ([]ledger.CreditPayment, error) {
	var paymentModels []models.CreditPaymentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND credit_sale_id = ?", tenantID, creditSaleID).
		Order("created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]ledger.CreditPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// FindByCustomerBetween lists payment entries for a customer's credit sales
// with payment dates in [from, to)
func (r *GormCreditPaymentRepository) FindByCustomerBetween(ctx context.Context, tenantID, customerID uuid.UUID, from, to time.Time) ([]ledger.CreditPayment, error) {
	var paymentModels []models.CreditPaymentModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN credit_sales ON credit_sales.id = credit_payments.credit_sale_id").
		Where("credit_payments.tenant_id = ? AND credit_sales.customer_id = ?", tenantID, customerID).
		Where("credit_payments.payment_date >= ? AND credit_payments.payment_date < ?", from, to).
		Order("credit_payments.payment_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]ledger.CreditPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// Create appends a payment entry
func (r *GormCreditPaymentRepository) Create(ctx context.Context, payment *ledger.CreditPayment) error {
	model := models.CreditPaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Create(model).Error
}

// Ensure GormCreditPaymentRepository implements CreditPaymentRepository
var _ ledger.CreditPaymentRepository = (*GormCreditPaymentRepository)(nil)
