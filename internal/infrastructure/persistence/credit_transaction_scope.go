package persistence

import (
	"context"

	"gorm.io/gorm"

	appcredit "github.com/shopkhata/backend/internal/application/credit"
	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/partner"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcredit.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the ledger repositories
// within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// CreditSales returns the credit sale repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CreditSales() ledger.CreditSaleRepository {
	return NewGormCreditSaleRepository(r.tx)
}

// CreditPayments returns the payment ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CreditPayments() ledger.CreditPaymentRepository {
	return NewGormCreditPaymentRepository(r.tx)
}

// Commitments returns the commitment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Commitments() ledger.PaymentCommitmentRepository {
	return NewGormPaymentCommitmentRepository(r.tx)
}

// Customers returns the customer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appcredit.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appcredit.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
