package credit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/shared"
)

// IssuanceConfig holds issuance defaults
type IssuanceConfig struct {
	// DefaultTermsInDays is applied when a request carries neither a due
	// date nor payment terms
	DefaultTermsInDays int
}

// DefaultIssuanceConfig returns the default issuance configuration
func DefaultIssuanceConfig() IssuanceConfig {
	return IssuanceConfig{DefaultTermsInDays: 30}
}

// IssuanceService handles creating credit sales and writing them off
type IssuanceService struct {
	scope      TransactionScope
	reconciler *ledger.Reconciler
	config     IssuanceConfig
}

// NewIssuanceService creates a new IssuanceService
func NewIssuanceService(scope TransactionScope, reconciler *ledger.Reconciler, config IssuanceConfig) *IssuanceService {
	if reconciler == nil {
		reconciler = ledger.NewReconciler(nil)
	}
	if config.DefaultTermsInDays <= 0 {
		config.DefaultTermsInDays = DefaultIssuanceConfig().DefaultTermsInDays
	}
	return &IssuanceService{scope: scope, reconciler: reconciler, config: config}
}

// IssueCredit records a credit sale for a customer. The credit limit check is
// enforced unless the request names an approver; the resulting sale keeps the
// approver's identity. The customer's outstanding balance is reconciled in the
// same transaction.
func (s *IssuanceService) IssueCredit(ctx context.Context, req IssueCreditRequest) (*CreditSaleResponse, error) {
	if req.TenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	dueDate := req.DueDate
	termsInDays := req.TermsInDays
	if dueDate.IsZero() {
		if termsInDays <= 0 {
			termsInDays = s.config.DefaultTermsInDays
		}
		dueDate = time.Now().AddDate(0, 0, termsInDays)
	}

	var response *CreditSaleResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.CreditSales().FindBySaleID(ctx, req.TenantID, req.SaleID)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.ErrDuplicateCreditSale
		}

		customer, err := repos.Customers().FindByIDForTenant(ctx, req.TenantID, req.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return shared.NewDomainError("NOT_FOUND", "Customer not found")
		}

		if req.ApprovedBy == nil && !customer.CanExtendCredit(req.CreditAmount) {
			excess := customer.OutstandingBalance.Add(req.CreditAmount).Sub(customer.CreditLimit)
			return shared.NewDomainError("CREDIT_LIMIT_EXCEEDED",
				fmt.Sprintf("Credit limit of %s exceeded by %s", customer.CreditLimit.StringFixed(2), excess.StringFixed(2)))
		}

		sale, err := ledger.NewCreditSale(
			req.TenantID,
			req.SaleID,
			req.CustomerID,
			req.CreditAmount,
			dueDate,
			termsInDays,
			req.InterestRate,
			req.ApprovedBy,
			req.Notes,
		)
		if err != nil {
			return err
		}

		if err := repos.CreditSales().Create(ctx, sale); err != nil {
			return err
		}

		if err := s.reconcileCustomer(ctx, repos, req.TenantID, req.CustomerID); err != nil {
			return err
		}

		response = toCreditSaleResponse(sale, s.reconciler, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// WriteOff removes a credit sale from collection. The sale stops counting
// toward the customer's outstanding balance, so the balance is reconciled in
// the same transaction.
func (s *IssuanceService) WriteOff(ctx context.Context, req WriteOffRequest) (*CreditSaleResponse, error) {
	if req.TenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	var response *CreditSaleResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.CreditSales().FindByIDForUpdate(ctx, req.TenantID, req.CreditSaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.NewDomainError("NOT_FOUND", "Credit sale not found")
		}

		if err := sale.WriteOff(req.Reason); err != nil {
			return err
		}
		if err := repos.CreditSales().Save(ctx, sale); err != nil {
			return err
		}

		if err := s.reconcileCustomer(ctx, repos, req.TenantID, sale.CustomerID); err != nil {
			return err
		}

		response = toCreditSaleResponse(sale, s.reconciler, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// reconcileCustomer recomputes the customer's outstanding balance from their
// credit sales and persists it with an optimistic version check.
func (s *IssuanceService) reconcileCustomer(ctx context.Context, repos TransactionalRepositories, tenantID, customerID uuid.UUID) error {
	customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	sales, err := repos.CreditSales().FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if err := s.reconciler.ReconcileCustomer(customer, sales); err != nil {
		return err
	}
	return repos.Customers().SaveWithLock(ctx, customer)
}
