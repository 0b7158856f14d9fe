package credit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/shared"
)

// CommitmentService records payment promises and resolves them
type CommitmentService struct {
	scope      TransactionScope
	reconciler *ledger.Reconciler
	logger     *zap.Logger
}

// NewCommitmentService creates a new CommitmentService
func NewCommitmentService(scope TransactionScope, reconciler *ledger.Reconciler, logger *zap.Logger) *CommitmentService {
	if reconciler == nil {
		reconciler = ledger.NewReconciler(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommitmentService{scope: scope, reconciler: reconciler, logger: logger}
}

// RecordCommitment records a customer's promise to pay by a given date.
// Promises against settled or written-off sales are rejected.
func (s *CommitmentService) RecordCommitment(ctx context.Context, req RecordCommitmentRequest) (*CommitmentResponse, error) {
	if req.TenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	var response *CommitmentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.CreditSales().FindByIDForTenant(ctx, req.TenantID, req.CreditSaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.NewDomainError("NOT_FOUND", "Credit sale not found")
		}
		if !sale.Status.CanApplyPayment() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Cannot record a commitment against a %s credit sale", sale.Status))
		}

		commitment, err := ledger.NewPaymentCommitment(
			req.TenantID,
			sale.ID,
			req.PromisedAmount,
			req.PromisedDate,
			req.Notes,
		)
		if err != nil {
			return err
		}
		if err := repos.Commitments().Create(ctx, commitment); err != nil {
			return err
		}

		response = toCommitmentResponse(commitment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// SweepOverdueCommitments resolves every pending commitment whose promised
// date has passed as of the given time: KEPT when the payments dated on or
// before the promised date cover the promise, BROKEN otherwise. The sweep is
// idempotent; resolved commitments are never revisited. The caller decides
// when to run it.
func (s *CommitmentService) SweepOverdueCommitments(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*CommitmentSweepResult, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	result := &CommitmentSweepResult{}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		pending, err := repos.Commitments().FindPendingDueBefore(ctx, tenantID, asOf)
		if err != nil {
			return err
		}

		paymentsBySale := make(map[uuid.UUID][]ledger.CreditPayment)
		now := time.Now()
		for i := range pending {
			pc := &pending[i]
			payments, ok := paymentsBySale[pc.CreditSaleID]
			if !ok {
				payments, err = repos.CreditPayments().FindBySale(ctx, tenantID, pc.CreditSaleID)
				if err != nil {
					return err
				}
				paymentsBySale[pc.CreditSaleID] = payments
			}

			if pc.IsSatisfiedBy(s.reconciler.PaidOnOrBefore(payments, pc.PromisedDate)) {
				if err := pc.MarkKept(now); err != nil {
					return err
				}
				result.Kept++
			} else {
				if err := pc.MarkBroken(now); err != nil {
					return err
				}
				result.Broken++
			}
			if err := repos.Commitments().Save(ctx, pc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Kept > 0 || result.Broken > 0 {
		s.logger.Info("commitment sweep resolved promises",
			zap.String("tenant_id", tenantID.String()),
			zap.Time("as_of", asOf),
			zap.Int("kept", result.Kept),
			zap.Int("broken", result.Broken),
		)
	}
	return result, nil
}
