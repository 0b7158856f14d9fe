package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/shared"
	"github.com/shopkhata/backend/internal/infrastructure/persistence/models"
)

// GormCreditSaleRepository implements CreditSaleRepository using GORM
type GormCreditSaleRepository struct {
	db *gorm.DB
}

// NewGormCreditSaleRepository creates a new GormCreditSaleRepository
func NewGormCreditSaleRepository(db *gorm.DB) *GormCreditSaleRepository {
	return &GormCreditSaleRepository{db: db}
}

// FindByIDForTenant finds a credit sale by ID within a tenant
func (r *GormCreditSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.CreditSale, error) {
	var model models.CreditSaleModel
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

// FindByIDForUpdate finds a credit sale and takes a row lock on it.
// Only meaningful inside a transaction.
func (r *GormCreditSaleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*ledger.CreditSale, error) {
	var model models.CreditSaleModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleID finds the credit sale originating from a POS sale, if any
func (r *GormCreditSaleRepository) FindBySaleID(ctx context.Context, tenantID, saleID uuid.UUID) (*ledger.CreditSale, error) {
	var model models.CreditSaleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists all credit sales for a customer
func (r *GormCreditSaleRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]ledger.CreditSale, error) {
	var saleModels []models.CreditSaleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at ASC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]ledger.CreditSale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales, nil
}

// FindOverdue lists unpaid credit sales past their due date as of the given time
func (r *GormCreditSaleRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]ledger.CreditSale, error) {
	var saleModels []models.CreditSaleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND due_date < ? AND status IN ?", tenantID, asOf,
			[]ledger.CreditSaleStatus{ledger.CreditSaleStatusOutstanding, ledger.CreditSaleStatusPartiallyPaid}).
		Order("due_date ASC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]ledger.CreditSale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales, nil
}

// Create inserts a new credit sale
func (r *GormCreditSaleRepository) Create(ctx context.Context, sale *ledger.CreditSale) error {
	model := models.CreditSaleModelFromDomain(sale)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateCreditSale
		}
		return err
	}
	return nil
}

// Save updates an existing credit sale
func (r *GormCreditSaleRepository) Save(ctx context.Context, sale *ledger.CreditSale) error {
	model := models.CreditSaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormCreditSaleRepository implements CreditSaleRepository
var _ ledger.CreditSaleRepository = (*GormCreditSaleRepository)(nil)
