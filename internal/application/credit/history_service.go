package credit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/partner"
	"github.com/shopkhata/backend/internal/domain/shared"
)

// HistoryService regenerates and serves per-period credit history rollups.
// Rollups are derived data: regeneration rebuilds the row for a period from
// the credit sale and payment records and overwrites whatever was stored, so
// running it twice over unchanged inputs is a no-op.
type HistoryService struct {
	historyRepo  ledger.CustomerCreditHistoryRepository
	saleRepo     ledger.CreditSaleRepository
	paymentRepo  ledger.CreditPaymentRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(
	historyRepo ledger.CustomerCreditHistoryRepository,
	saleRepo ledger.CreditSaleRepository,
	paymentRepo ledger.CreditPaymentRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		historyRepo:  historyRepo,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// RegenerateCreditHistory rebuilds the rollup row for one customer and one
// calendar month. The period is given in "2006-01" form.
func (s *HistoryService) RegenerateCreditHistory(ctx context.Context, tenantID, customerID uuid.UUID, period string) (*CreditHistoryResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	p, err := ledger.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	sales, err := s.saleRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindByCustomerBetween(ctx, tenantID, customerID, p.Start(), p.End())
	if err != nil {
		return nil, err
	}

	history, err := ledger.BuildCreditHistory(tenantID, customerID, p, sales, payments)
	if err != nil {
		return nil, err
	}
	if err := s.historyRepo.Upsert(ctx, history); err != nil {
		return nil, err
	}

	s.logger.Debug("regenerated credit history",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("period", period),
	)
	return toCreditHistoryResponse(history), nil
}

// GetCreditHistory returns the stored rollup for one customer and period
func (s *HistoryService) GetCreditHistory(ctx context.Context, tenantID, customerID uuid.UUID, period string) (*CreditHistoryResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if _, err := ledger.ParsePeriod(period); err != nil {
		return nil, err
	}

	history, err := s.historyRepo.FindByCustomerAndPeriod(ctx, tenantID, customerID, period)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Credit history not found for period")
	}
	return toCreditHistoryResponse(history), nil
}

// ListCreditHistory lists the stored rollups for a customer, newest first
func (s *HistoryService) ListCreditHistory(ctx context.Context, tenantID, customerID uuid.UUID) ([]CreditHistoryResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	histories, err := s.historyRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]CreditHistoryResponse, 0, len(histories))
	for i := range histories {
		responses = append(responses, *toCreditHistoryResponse(&histories[i]))
	}
	return responses, nil
}
