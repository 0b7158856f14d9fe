package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/partner"
	"github.com/shopkhata/backend/internal/domain/shared"
)

// QueryService serves read-only views over the credit ledger. Reads run
// outside transactions; every response derives the effective status as of
// query time, so overdue sales show as OVERDUE without any stored transition.
type QueryService struct {
	saleRepo       ledger.CreditSaleRepository
	paymentRepo    ledger.CreditPaymentRepository
	commitmentRepo ledger.PaymentCommitmentRepository
	customerRepo   partner.CustomerRepository
	reconciler     *ledger.Reconciler
}

// NewQueryService creates a new QueryService
func NewQueryService(
	saleRepo ledger.CreditSaleRepository,
	paymentRepo ledger.CreditPaymentRepository,
	commitmentRepo ledger.PaymentCommitmentRepository,
	customerRepo partner.CustomerRepository,
	reconciler *ledger.Reconciler,
) *QueryService {
	if reconciler == nil {
		reconciler = ledger.NewReconciler(nil)
	}
	return &QueryService{
		saleRepo:       saleRepo,
		paymentRepo:    paymentRepo,
		commitmentRepo: commitmentRepo,
		customerRepo:   customerRepo,
		reconciler:     reconciler,
	}
}

// GetCreditSale returns one credit sale with its payment ledger
func (s *QueryService) GetCreditSale(ctx context.Context, tenantID, id uuid.UUID) (*CreditSaleResponse, []CreditPaymentResponse, error) {
	if tenantID == uuid.Nil {
		return nil, nil, shared.ErrUnauthorized
	}

	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, shared.NewDomainError("NOT_FOUND", "Credit sale not found")
	}

	payments, err := s.paymentRepo.FindBySale(ctx, tenantID, sale.ID)
	if err != nil {
		return nil, nil, err
	}
	paymentResponses := make([]CreditPaymentResponse, 0, len(payments))
	for i := range payments {
		paymentResponses = append(paymentResponses, *toCreditPaymentResponse(&payments[i]))
	}
	return toCreditSaleResponse(sale, s.reconciler, time.Now()), paymentResponses, nil
}

// ListCreditSalesForCustomer lists all credit sales for a customer
func (s *QueryService) ListCreditSalesForCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]CreditSaleResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	sales, err := s.saleRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	responses := make([]CreditSaleResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, *toCreditSaleResponse(&sales[i], s.reconciler, now))
	}
	return responses, nil
}

// ListOverdue lists unpaid credit sales past their due date as of the given
// time, for reminder scheduling and collection work
func (s *QueryService) ListOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]CreditSaleResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	sales, err := s.saleRepo.FindOverdue(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}
	responses := make([]CreditSaleResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, *toCreditSaleResponse(&sales[i], s.reconciler, asOf))
	}
	return responses, nil
}

// GetCustomerBalance returns the customer's reconciled credit position
func (s *QueryService) GetCustomerBalance(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerBalanceResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return &CustomerBalanceResponse{
		CustomerID:         customer.ID,
		CreditLimit:        customer.CreditLimit,
		OutstandingBalance: customer.OutstandingBalance,
		AvailableCredit:    customer.AvailableCredit(),
	}, nil
}

// GetCustomerCreditSummary aggregates a customer's balance and open credit
// sales, with overdue counts as of now
func (s *QueryService) GetCustomerCreditSummary(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerCreditSummaryResponse, error) {
	balance, err := s.GetCustomerBalance(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summary := &CustomerCreditSummaryResponse{
		Balance:      *balance,
		OpenSales:    []CreditSaleResponse{},
		OverdueTotal: decimal.Zero,
	}
	for i := range sales {
		sale := &sales[i]
		if !sale.Status.CountsTowardBalance() || sale.RemainingAmount.IsZero() {
			continue
		}
		summary.OpenSales = append(summary.OpenSales, *toCreditSaleResponse(sale, s.reconciler, now))
		if sale.IsOverdue(now) {
			summary.OverdueCount++
			summary.OverdueTotal = summary.OverdueTotal.Add(sale.RemainingAmount)
		}
	}
	return summary, nil
}

// ListCommitments lists the commitments recorded against a credit sale that
// are still pending
func (s *QueryService) ListCommitments(ctx context.Context, tenantID, creditSaleID uuid.UUID) ([]CommitmentResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	commitments, err := s.commitmentRepo.FindPendingBySale(ctx, tenantID, creditSaleID)
	if err != nil {
		return nil, err
	}
	responses := make([]CommitmentResponse, 0, len(commitments))
	for i := range commitments {
		responses = append(responses, *toCommitmentResponse(&commitments[i]))
	}
	return responses, nil
}
