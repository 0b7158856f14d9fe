package credit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/shared"
)

// PaymentService handles repayments against credit sales and their reversals.
// Every mutation appends to the payment ledger and reconciles the derived
// sale and customer fields inside the same transaction.
type PaymentService struct {
	scope      TransactionScope
	reconciler *ledger.Reconciler
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, reconciler *ledger.Reconciler) *PaymentService {
	if reconciler == nil {
		reconciler = ledger.NewReconciler(nil)
	}
	return &PaymentService{scope: scope, reconciler: reconciler}
}

// ApplyPaymentResult carries the outcome of a repayment
type ApplyPaymentResult struct {
	Payment         *CreditPaymentResponse `json:"payment"`
	Sale            *CreditSaleResponse    `json:"sale"`
	KeptCommitments []CommitmentResponse   `json:"kept_commitments,omitempty"`
}

// ApplyPayment records a repayment against a credit sale. The sale row is
// locked for the duration of the transaction, so concurrent payments against
// the same sale serialize and the overpayment check holds. Pending commitments
// satisfied by the cumulative paid amount transition to KEPT.
func (s *PaymentService) ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (*ApplyPaymentResult, error) {
	if req.TenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	var result *ApplyPaymentResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.CreditSales().FindByIDForUpdate(ctx, req.TenantID, req.CreditSaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.NewDomainError("NOT_FOUND", "Credit sale not found")
		}
		if sale.IsWrittenOff() {
			return shared.NewDomainError("INVALID_STATE", "Cannot apply payment to a written-off credit sale")
		}
		// A settled sale has remaining 0, so any positive amount lands here too
		if req.Amount.GreaterThan(sale.RemainingAmount) {
			return shared.NewDomainError("OVERPAYMENT_REJECTED",
				fmt.Sprintf("Payment of %s exceeds remaining balance of %s",
					req.Amount.StringFixed(2), sale.RemainingAmount.StringFixed(2)))
		}

		payment, err := ledger.NewCreditPayment(
			req.TenantID,
			sale.ID,
			req.Amount,
			paymentDate,
			ledger.PaymentMethod(req.Method),
			req.ReceivedBy,
			req.Reference,
			req.Notes,
		)
		if err != nil {
			return err
		}
		if err := repos.CreditPayments().Create(ctx, payment); err != nil {
			return err
		}

		payments, err := repos.CreditPayments().FindBySale(ctx, req.TenantID, sale.ID)
		if err != nil {
			return err
		}
		if err := s.reconciler.ReconcileSale(sale, payments); err != nil {
			return err
		}
		if err := repos.CreditSales().Save(ctx, sale); err != nil {
			return err
		}

		if err := s.reconcileCustomer(ctx, repos, req.TenantID, sale.CustomerID); err != nil {
			return err
		}

		kept, err := s.resolveSatisfiedCommitments(ctx, repos, sale, payments, paymentDate)
		if err != nil {
			return err
		}

		result = &ApplyPaymentResult{
			Payment:         toCreditPaymentResponse(payment),
			Sale:            toCreditSaleResponse(sale, s.reconciler, time.Now()),
			KeptCommitments: kept,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReversePayment appends a negative correcting entry for a payment recorded
// in error. The original entry is never touched; the sale and customer are
// reconciled from the full ledger, which can reopen a PAID sale.
func (s *PaymentService) ReversePayment(ctx context.Context, req ReversePaymentRequest) (*ApplyPaymentResult, error) {
	if req.TenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	var result *ApplyPaymentResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		original, err := repos.CreditPayments().FindByIDForTenant(ctx, req.TenantID, req.PaymentID)
		if err != nil {
			return err
		}
		if original == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}

		sale, err := repos.CreditSales().FindByIDForUpdate(ctx, req.TenantID, original.CreditSaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.NewDomainError("NOT_FOUND", "Credit sale not found")
		}

		payments, err := repos.CreditPayments().FindBySale(ctx, req.TenantID, sale.ID)
		if err != nil {
			return err
		}
		// A payment takes at most one correcting entry
		for i := range payments {
			if payments[i].ReversesPaymentID != nil && *payments[i].ReversesPaymentID == original.ID {
				return shared.NewDomainError("INVALID_STATE", "Payment has already been reversed")
			}
		}

		reversal, err := ledger.NewReversalEntry(original, req.ReversedBy, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.CreditPayments().Create(ctx, reversal); err != nil {
			return err
		}

		payments = append(payments, *reversal)
		if err := s.reconciler.ReconcileSale(sale, payments); err != nil {
			return err
		}
		if err := repos.CreditSales().Save(ctx, sale); err != nil {
			return err
		}

		if err := s.reconcileCustomer(ctx, repos, req.TenantID, sale.CustomerID); err != nil {
			return err
		}

		result = &ApplyPaymentResult{
			Payment: toCreditPaymentResponse(reversal),
			Sale:    toCreditSaleResponse(sale, s.reconciler, time.Now()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveSatisfiedCommitments marks pending commitments KEPT when their
// promised date has not passed and the cumulative paid amount covers the
// promise
func (s *PaymentService) resolveSatisfiedCommitments(
	ctx context.Context,
	repos TransactionalRepositories,
	sale *ledger.CreditSale,
	payments []ledger.CreditPayment,
	paymentDate time.Time,
) ([]CommitmentResponse, error) {
	pending, err := repos.Commitments().FindPendingBySale(ctx, sale.TenantID, sale.ID)
	if err != nil {
		return nil, err
	}

	var kept []CommitmentResponse
	now := time.Now()
	for i := range pending {
		pc := &pending[i]
		if paymentDate.After(pc.PromisedDate) {
			continue
		}
		if !pc.IsSatisfiedBy(s.reconciler.PaidOnOrBefore(payments, pc.PromisedDate)) {
			continue
		}
		if err := pc.MarkKept(now); err != nil {
			return nil, err
		}
		if err := repos.Commitments().Save(ctx, pc); err != nil {
			return nil, err
		}
		kept = append(kept, *toCommitmentResponse(pc))
	}
	return kept, nil
}

func (s *PaymentService) reconcileCustomer(ctx context.Context, repos TransactionalRepositories, tenantID, customerID uuid.UUID) error {
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
