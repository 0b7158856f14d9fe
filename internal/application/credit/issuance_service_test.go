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
	"github.com/shopkhata/backend/internal/domain/partner"
	"github.com/shopkhata/backend/internal/domain/shared"
)

func seedCustomer(t *testing.T, env *testEnv, tenantID uuid.UUID, creditLimit int64) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(tenantID, "Asha Stores", decimal.NewFromInt(creditLimit))
	require.NoError(t, err)
	require.NoError(t, env.customerRepo.Save(context.Background(), customer))
	return customer
}

func issueRequest(tenantID, customerID uuid.UUID, amount int64) IssueCreditRequest {
	return IssueCreditRequest{
		TenantID:     tenantID,
		SaleID:       uuid.New(),
		CustomerID:   customerID,
		CreditAmount: decimal.NewFromInt(amount),
		DueDate:      time.Now().AddDate(0, 0, 30),
		TermsInDays:  30,
	}
}

func TestIssueCredit_Success(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)

	resp, err := svc.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 800))
	require.NoError(t, err)

	assert.Equal(t, "OUTSTANDING", resp.Status)
	assert.True(t, resp.CreditAmount.Equal(decimal.NewFromInt(800)))
	assert.True(t, resp.RemainingAmount.Equal(decimal.NewFromInt(800)))
	assert.True(t, resp.PaidAmount.IsZero())

	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(800)),
		"outstanding balance should equal the issued credit, got %s", stored.OutstandingBalance)
}

func TestIssueCredit_DefaultDueDateFromTerms(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, IssuanceConfig{DefaultTermsInDays: 15})
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 5000)

	t.Run("falls back to configured terms", func(t *testing.T) {
		req := issueRequest(tenantID, customer.ID, 500)
		req.DueDate = time.Time{}
		req.TermsInDays = 0
		resp, err := svc.IssueCredit(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 15, resp.TermsInDays)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 15), resp.DueDate, time.Minute)
	})

	t.Run("request terms win over the configured default", func(t *testing.T) {
		req := issueRequest(tenantID, customer.ID, 200)
		req.DueDate = time.Time{}
		req.TermsInDays = 7
		resp, err := svc.IssueCredit(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 7, resp.TermsInDays)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), resp.DueDate, time.Minute)
	})

	t.Run("explicit due date is kept as given", func(t *testing.T) {
		req := issueRequest(tenantID, customer.ID, 100)
		resp, err := svc.IssueCredit(context.Background(), req)
		require.NoError(t, err)

		assert.WithinDuration(t, req.DueDate, resp.DueDate, time.Second)
	})
}

func TestIssueCredit_CreditLimitExceeded(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)

	_, err := svc.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 800))
	require.NoError(t, err)

	_, err = svc.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 300))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", domainErr.Code)

	// Rejected issuance must not move the balance
	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(800)))
}

func TestIssueCredit_OverrideBypassesLimit(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)
	approver := uuid.New()

	req := issueRequest(tenantID, customer.ID, 1500)
	req.ApprovedBy = &approver

	resp, err := svc.IssueCredit(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approver, *resp.ApprovedBy)

	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(1500)))
}

func TestIssueCredit_ExactLimitAllowed(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 1000)

	_, err := svc.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 1000))
	assert.NoError(t, err)
}

func TestIssueCredit_DuplicateSaleRejected(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 5000)

	req := issueRequest(tenantID, customer.ID, 200)
	_, err := svc.IssueCredit(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.IssueCredit(context.Background(), req)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_CREDIT_SALE", domainErr.Code)
}

func TestIssueCredit_CustomerNotFound(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())

	_, err := svc.IssueCredit(context.Background(), issueRequest(uuid.New(), uuid.New(), 100))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestIssueCredit_MissingTenantRejected(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())

	req := issueRequest(uuid.Nil, uuid.New(), 100)
	_, err := svc.IssueCredit(context.Background(), req)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestWriteOff_RemovesFromBalance(t *testing.T) {
	env := newTestEnv()
	svc := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 2000)

	issued, err := svc.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 700))
	require.NoError(t, err)

	resp, err := svc.WriteOff(context.Background(), WriteOffRequest{
		TenantID:     tenantID,
		CreditSaleID: issued.ID,
		Reason:       "customer left town",
	})
	require.NoError(t, err)
	assert.Equal(t, string(ledger.CreditSaleStatusWrittenOff), resp.Status)
	assert.Equal(t, "customer left town", resp.WriteOffReason)
	require.NotNil(t, resp.WrittenOffAt)

	stored, err := env.customerRepo.FindByIDForTenant(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.IsZero(),
		"written-off sale must not count toward the balance, got %s", stored.OutstandingBalance)
}

func TestWriteOff_PaidSaleRejected(t *testing.T) {
	env := newTestEnv()
	issuance := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	payments := NewPaymentService(env.scope, env.reconciler)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 2000)

	issued, err := issuance.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 500))
	require.NoError(t, err)
	_, err = payments.ApplyPayment(context.Background(), ApplyPaymentRequest{
		TenantID:     tenantID,
		CreditSaleID: issued.ID,
		Amount:       decimal.NewFromInt(500),
		Method:       string(ledger.PaymentMethodCash),
		ReceivedBy:   uuid.New(),
	})
	require.NoError(t, err)

	_, err = issuance.WriteOff(context.Background(), WriteOffRequest{
		TenantID:     tenantID,
		CreditSaleID: issued.ID,
		Reason:       "too late",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}
