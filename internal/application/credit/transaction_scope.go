package credit

import (
	"context"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Every mutating ledger operation runs through this: a write
// spanning CreditSale + CreditPayment + Customer must never be partially
// observable.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// CreditSales returns the credit sale repository scoped to the current transaction
	CreditSales() ledger.CreditSaleRepository
	// CreditPayments returns the payment ledger repository scoped to the current transaction
	CreditPayments() ledger.CreditPaymentRepository
	// Commitments returns the commitment repository scoped to the current transaction
	Commitments() ledger.PaymentCommitmentRepository
	// Customers returns the customer repository scoped to the current transaction
	Customers() partner.CustomerRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests that exercise service logic over mocks.
type NoOpTransactionScope struct {
	saleRepo       ledger.CreditSaleRepository
	paymentRepo    ledger.CreditPaymentRepository
	commitmentRepo ledger.PaymentCommitmentRepository
	customerRepo   partner.CustomerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	saleRepo ledger.CreditSaleRepository,
	paymentRepo ledger.CreditPaymentRepository,
	commitmentRepo ledger.PaymentCommitmentRepository,
	customerRepo partner.CustomerRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:       saleRepo,
		paymentRepo:    paymentRepo,
		commitmentRepo: commitmentRepo,
		customerRepo:   customerRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CreditSales returns the credit sale repository
func (s *NoOpTransactionScope) CreditSales() ledger.CreditSaleRepository {
	return s.saleRepo
}

// CreditPayments returns the payment ledger repository
func (s *NoOpTransactionScope) CreditPayments() ledger.CreditPaymentRepository {
	return s.paymentRepo
}

// Commitments returns the commitment repository
func (s *NoOpTransactionScope) Commitments() ledger.PaymentCommitmentRepository {
	return s.commitmentRepo
}

// Customers returns the customer repository
func (s *NoOpTransactionScope) Customers() partner.CustomerRepository {
	return s.customerRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
