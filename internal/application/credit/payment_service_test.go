package credit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/shared"
)

func seedCreditSale(t *testing.T, env *testEnv, tenantID, customerID uuid.UUID, amount int64) *CreditSaleResponse {
	t.Helper()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	resp, err := svc.IssueCredit(context.Background(), issueRequest(tenantID, customerID, amount))
	require.NoError(t, err)
	return resp
}

func paymentRequest(tenantID, creditSaleID uuid.UUID, amount int64) ApplyPaymentRequest {
	return ApplyPaymentRequest{
		TenantID:     tenantID,
		CreditSaleID: creditSaleID,
		Amount:       decimal.NewFromInt(amount),
		Method:       string(ledger.PaymentMethodCash),
		ReceivedBy:   uuid.New(),
	}
}

func TestApplyPayment_PartialPayment(t *testing.T) {
	env := newTestEnv()
	svc := NewPaymentService(env.scope, env.reconciler)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 800)

	result, err := svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 500))
	require.NoError(t, err)

	assert.Equal(t, "PARTIALLY_PAID", result.Sale.Status)
	assert.True(t, result.Sale.PaidAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.Sale.RemainingAmount.Equal(decimal.NewFromInt(300)))

	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(300)))
}

func TestApplyPayment_SettlesSale(t *testing.T) {
	env := newTestEnv()
	svc := NewPaymentService(env.scope, env.reconciler)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 800)

	_, err := svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 500))
	require.NoError(t, err)
	result, err := svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 300))
	require.NoError(t, err)

	assert.Equal(t, "PAID", result.Sale.Status)
	assert.True(t, result.Sale.RemainingAmount.IsZero())

	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.IsZero())
}

func TestApplyPayment_OverpaymentRejected(t *testing.T) {
	env := newTestEnv()
	svc := NewPaymentService(env.scope, env.reconciler)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 800)

	_, err := svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 500))
	require.NoError(t, err)

	_, err = svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 400))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OVERPAYMENT_REJECTED", domainErr.Code)

	// Rejected payment leaves the ledger and the balance untouched
	payments, err := env.paymentRepo.FindBySale(context.Background(), tenantID, sale.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(300)))
}

func TestApplyPayment_WrittenOffSaleRejected(t *testing.T) {
	env := newTestEnv()
	issuance := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	svc := NewPaymentService(env.scope, env.reconciler)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 400)

	_, err := issuance.WriteOff(context.Background(), WriteOffRequest{
		TenantID:     tenantID,
		CreditSaleID: sale.ID,
		Reason:       "uncollectable",
	})
	require.NoError(t, err)

	_, err = svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 100))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestApplyPayment_SaleNotFound(t *testing.T) {
	env := newTestEnv()
	svc := NewPaymentService(env.scope, env.reconciler)

	_, err := svc.ApplyPayment(context.Background(), paymentRequest(uuid.New(), uuid.New(), 100))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestApplyPayment_ResolvesCommitment(t *testing.T) {
	env := newTestEnv()
	payments := NewPaymentService(env.scope, env.reconciler)
	commitments := NewCommitmentService(env.scope, env.reconciler, nil)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 800)

	recorded, err := commitments.RecordCommitment(context.Background(), RecordCommitmentRequest{
		TenantID:       tenantID,
		CreditSaleID:   sale.ID,
		PromisedAmount: decimal.NewFromInt(300),
		PromisedDate:   time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	result, err := payments.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 300))
	require.NoError(t, err)

	require.Len(t, result.KeptCommitments, 1)
	assert.Equal(t, recorded.ID, result.KeptCommitments[0].ID)
	assert.Equal(t, "KEPT", result.KeptCommitments[0].Status)
}

func TestApplyPayment_InsufficientPaymentLeavesCommitmentPending(t *testing.T) {
	env := newTestEnv()
	payments := NewPaymentService(env.scope, env.reconciler)
	commitments := NewCommitmentService(env.scope, env.reconciler, nil)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 800)

	_, err := commitments.RecordCommitment(context.Background(), RecordCommitmentRequest{
		TenantID:       tenantID,
		CreditSaleID:   sale.ID,
		PromisedAmount: decimal.NewFromInt(300),
		PromisedDate:   time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	result, err := payments.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 100))
	require.NoError(t, err)
	assert.Empty(t, result.KeptCommitments)

	pending, err := env.commitmentRepo.FindPendingBySale(context.Background(), tenantID, sale.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestReversePayment_ReopensSale(t *testing.T) {
	env := newTestEnv()
	svc := NewPaymentService(env.scope, env.reconciler)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 800)

	applied, err := svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 800))
	require.NoError(t, err)
	require.Equal(t, "PAID", applied.Sale.Status)

	result, err := svc.ReversePayment(context.Background(), ReversePaymentRequest{
		TenantID:   tenantID,
		PaymentID:  applied.Payment.ID,
		ReversedBy: uuid.New(),
		Reason:     "keyed in twice",
	})
	require.NoError(t, err)

	assert.Equal(t, "OUTSTANDING", result.Sale.Status)
	assert.True(t, result.Sale.RemainingAmount.Equal(decimal.NewFromInt(800)))
	assert.True(t, result.Payment.PaymentAmount.Equal(decimal.NewFromInt(-800)))
	require.NotNil(t, result.Payment.ReversesPaymentID)
	assert.Equal(t, applied.Payment.ID, *result.Payment.ReversesPaymentID)

	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(800)))

	// The original entry stays in the ledger
	payments, err := env.paymentRepo.FindBySale(context.Background(), tenantID, sale.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestReversePayment_SecondReversalRejected(t *testing.T) {
	env := newTestEnv()
	svc := NewPaymentService(env.scope, env.reconciler)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 600)

	applied, err := svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 300))
	require.NoError(t, err)
	first, err := svc.ReversePayment(context.Background(), ReversePaymentRequest{
		TenantID:   tenantID,
		PaymentID:  applied.Payment.ID,
		ReversedBy: uuid.New(),
		Reason:     "keyed in twice",
	})
	require.NoError(t, err)
	assert.True(t, first.Sale.RemainingAmount.Equal(decimal.NewFromInt(600)))

	_, err = svc.ReversePayment(context.Background(), ReversePaymentRequest{
		TenantID:   tenantID,
		PaymentID:  applied.Payment.ID,
		ReversedBy: uuid.New(),
		Reason:     "keyed in twice",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)

	// The failed attempt leaves the ledger and the balance untouched
	payments, err := env.paymentRepo.FindBySale(context.Background(), tenantID, sale.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(600)))
}

func TestReversePayment_ReversalOfReversalRejected(t *testing.T) {
	env := newTestEnv()
	svc := NewPaymentService(env.scope, env.reconciler)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	sale := seedCreditSale(t, env, tenantID, customer.ID, 500)

	applied, err := svc.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 200))
	require.NoError(t, err)
	reversed, err := svc.ReversePayment(context.Background(), ReversePaymentRequest{
		TenantID:   tenantID,
		PaymentID:  applied.Payment.ID,
		ReversedBy: uuid.New(),
		Reason:     "wrong sale",
	})
	require.NoError(t, err)

	_, err = svc.ReversePayment(context.Background(), ReversePaymentRequest{
		TenantID:   tenantID,
		PaymentID:  reversed.Payment.ID,
		ReversedBy: uuid.New(),
		Reason:     "undo the undo",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}
