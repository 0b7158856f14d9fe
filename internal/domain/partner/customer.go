package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/shared"
)

// Customer represents a shop customer's credit profile.
// Customers are created by the surrounding customer-management layer; this
// core reads them and the reconciler is the only writer of OutstandingBalance.
type Customer struct {
	shared.TenantAggregateRoot
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	LoyaltyPoints      int             `json:"loyalty_points"`
	LastPurchaseAt     *time.Time      `json:"last_purchase_at"`
}

// NewCustomer creates a new customer credit profile
func NewCustomer(tenantID uuid.UUID, name string, creditLimit decimal.Decimal) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot be empty")
	}
	if creditLimit.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit limit cannot be negative")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		CreditLimit:         creditLimit,
		OutstandingBalance:  decimal.Zero,
	}, nil
}

// SetCreditLimit updates the customer's credit limit
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit limit cannot be negative")
	}
	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// ApplyReconciledBalance replaces the outstanding balance with a value
// recomputed from the credit ledger. Only the reconciler calls this; the
// balance is never incremented or decremented ad hoc.
func (c *Customer) ApplyReconciledBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Outstanding balance cannot be negative")
	}
	old := c.OutstandingBalance
	c.OutstandingBalance = balance
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	if !old.Equal(balance) {
		c.AddDomainEvent(NewCustomerBalanceReconciledEvent(c, old, balance))
	}
	return nil
}

// RecordPurchase updates last purchase tracking and awards loyalty points
func (c *Customer) RecordPurchase(at time.Time, points int) {
	c.LastPurchaseAt = &at
	if points > 0 {
		c.LoyaltyPoints += points
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// AvailableCredit returns the headroom under the credit limit
func (c *Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.OutstandingBalance)
}

// CanExtendCredit returns true if the amount fits under the credit limit
func (c *Customer) CanExtendCredit(amount decimal.Decimal) bool {
	return c.OutstandingBalance.Add(amount).LessThanOrEqual(c.CreditLimit)
}
