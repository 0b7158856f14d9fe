package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CreditSaleRepository defines persistence operations for credit sales.
// Every method is tenant-scoped. Find methods return (nil, nil) when no
// row matches.
type CreditSaleRepository interface {
	// FindByIDForTenant finds a credit sale by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CreditSale, error)
	// FindByIDForUpdate finds a credit sale and takes a row lock on it.
	// Must be called inside a transaction; concurrent mutators of the same
	// sale serialize on this lock.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*CreditSale, error)
	// FindBySaleID finds the credit sale originating from a POS sale, if any
	FindBySaleID(ctx context.Context, tenantID, saleID uuid.UUID) (*CreditSale, error)
	// FindByCustomer lists all credit sales for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]CreditSale, error)
	// FindOverdue lists unpaid credit sales past their due date as of the given time
	FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]CreditSale, error)
	// Create inserts a new credit sale. Returns shared.ErrDuplicateCreditSale
	// when the originating sale already has a credit record.
	Create(ctx context.Context, sale *CreditSale) error
	// Save updates an existing credit sale
	Save(ctx context.Context, sale *CreditSale) error
}

// CreditPaymentRepository defines persistence for the append-only payment ledger
type CreditPaymentRepository interface {
	// FindByIDForTenant finds a payment entry by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CreditPayment, error)
	// FindBySale lists all payment entries for a credit sale, oldest first
	FindBySale(ctx context.Context, tenantID, creditSaleID uuid.UUID) ([]CreditPayment, error)
	// FindByCustomerBetween lists payment entries for a customer's sales with
	// payment dates in [from, to)
	FindByCustomerBetween(ctx context.Context, tenantID, customerID uuid.UUID, from, to time.Time) ([]CreditPayment, error)
	// Create appends a payment entry. Entries are never updated or deleted.
	Create(ctx context.Context, payment *CreditPayment) error
}

// PaymentCommitmentRepository defines persistence for payment commitments
type PaymentCommitmentRepository interface {
	// FindByIDForTenant finds a commitment by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentCommitment, error)
	// FindPendingBySale lists PENDING commitments for a credit sale
	FindPendingBySale(ctx context.Context, tenantID, creditSaleID uuid.UUID) ([]PaymentCommitment, error)
	// FindPendingDueBefore lists PENDING commitments with promised dates
	// strictly before the given date, across the tenant
	FindPendingDueBefore(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]PaymentCommitment, error)
	// Create inserts a new commitment
	Create(ctx context.Context, commitment *PaymentCommitment) error
	// Save updates an existing commitment
	Save(ctx context.Context, commitment *PaymentCommitment) error
}

// PaymentReminderRepository defines persistence for the reminder log
type PaymentReminderRepository interface {
	// FindByIDForTenant finds a reminder by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentReminder, error)
	// FindBySale lists reminders for a credit sale, oldest first
	FindBySale(ctx context.Context, tenantID, creditSaleID uuid.UUID) ([]PaymentReminder, error)
	// Create inserts a new reminder entry
	Create(ctx context.Context, reminder *PaymentReminder) error
	// Save updates an existing reminder entry
	Save(ctx context.Context, reminder *PaymentReminder) error
}

// CustomerCreditHistoryRepository defines persistence for periodic rollups
type CustomerCreditHistoryRepository interface {
	// FindByCustomerAndPeriod finds the rollup row for one customer and period
	FindByCustomerAndPeriod(ctx context.Context, tenantID, customerID uuid.UUID, period string) (*CustomerCreditHistory, error)
	// FindByCustomer lists all rollup rows for a customer, newest period first
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]CustomerCreditHistory, error)
	// Upsert overwrites the rollup row for the history's customer and period
	Upsert(ctx context.Context, history *CustomerCreditHistory) error
}
