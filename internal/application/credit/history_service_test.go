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

func newHistoryService(env *testEnv) *HistoryService {
	return NewHistoryService(env.historyRepo, env.saleRepo, env.paymentRepo, env.customerRepo, nil)
}

func TestRegenerateCreditHistory(t *testing.T) {
	env := newTestEnv()
	issuance := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	payments := NewPaymentService(env.scope, env.reconciler)
	svc := newHistoryService(env)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 5000)

	sale, err := issuance.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 1000))
	require.NoError(t, err)
	_, err = payments.ApplyPayment(context.Background(), paymentRequest(tenantID, sale.ID, 400))
	require.NoError(t, err)

	period := ledger.PeriodOf(time.Now()).String()
	resp, err := svc.RegenerateCreditHistory(context.Background(), tenantID, customer.ID, period)
	require.NoError(t, err)

	assert.Equal(t, period, resp.Period)
	assert.True(t, resp.TotalCreditAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, resp.TotalRepaidAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 0, resp.LatePaymentCount)
}

func TestRegenerateCreditHistory_Idempotent(t *testing.T) {
	env := newTestEnv()
	issuance := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	svc := newHistoryService(env)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 5000)

	_, err := issuance.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 1000))
	require.NoError(t, err)

	period := ledger.PeriodOf(time.Now()).String()
	first, err := svc.RegenerateCreditHistory(context.Background(), tenantID, customer.ID, period)
	require.NoError(t, err)
	second, err := svc.RegenerateCreditHistory(context.Background(), tenantID, customer.ID, period)
	require.NoError(t, err)

	assert.True(t, first.TotalCreditAmount.Equal(second.TotalCreditAmount))
	assert.True(t, first.TotalRepaidAmount.Equal(second.TotalRepaidAmount))
	assert.Equal(t, first.LatePaymentCount, second.LatePaymentCount)
	assert.True(t, first.CreditScore.Equal(second.CreditScore))

	// Still exactly one stored row for the period
	rows, err := env.historyRepo.FindByCustomer(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRegenerateCreditHistory_UnknownCustomer(t *testing.T) {
	env := newTestEnv()
	svc := newHistoryService(env)
	tenantID := uuid.New()
	unknownCustomer := uuid.New()

	period := ledger.PeriodOf(time.Now()).String()
	resp, err := svc.RegenerateCreditHistory(context.Background(), tenantID, unknownCustomer, period)
	require.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	// Nothing was written for the unknown customer
	rows, err := env.historyRepo.FindByCustomer(context.Background(), tenantID, unknownCustomer)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRegenerateCreditHistory_InvalidPeriod(t *testing.T) {
	env := newTestEnv()
	svc := newHistoryService(env)

	_, err := svc.RegenerateCreditHistory(context.Background(), uuid.New(), uuid.New(), "March 2026")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestGetCreditHistory_NotFound(t *testing.T) {
	env := newTestEnv()
	svc := newHistoryService(env)

	_, err := svc.GetCreditHistory(context.Background(), uuid.New(), uuid.New(), "2026-01")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestGetCreditHistory_ReadsStoredRow(t *testing.T) {
	env := newTestEnv()
	issuance := NewIssuanceService(env.scope, env.reconciler, DefaultIssuanceConfig())
	svc := newHistoryService(env)
	tenantID := uuid.New()
	customer := seedCustomer(t, env, tenantID, 5000)

	_, err := issuance.IssueCredit(context.Background(), issueRequest(tenantID, customer.ID, 250))
	require.NoError(t, err)

	period := ledger.PeriodOf(time.Now()).String()
	_, err = svc.RegenerateCreditHistory(context.Background(), tenantID, customer.ID, period)
	require.NoError(t, err)

	stored, err := svc.GetCreditHistory(context.Background(), tenantID, customer.ID, period)
	require.NoError(t, err)
	assert.True(t, stored.TotalCreditAmount.Equal(decimal.NewFromInt(250)))
}
