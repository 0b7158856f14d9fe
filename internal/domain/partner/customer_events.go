package partner

import (
	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeCustomerBalanceReconciled = "partner.customer.balance_reconciled"
)

// CustomerBalanceReconciledEvent is raised when the reconciler rewrites the
// customer's outstanding balance from the credit ledger
type CustomerBalanceReconciledEvent struct {
	shared.BaseDomainEvent
	CustomerID string `json:"customer_id"`
	OldBalance string `json:"old_balance"`
	NewBalance string `json:"new_balance"`
}

// NewCustomerBalanceReconciledEvent creates a new balance reconciled event
func NewCustomerBalanceReconciledEvent(c *Customer, oldBalance, newBalance decimal.Decimal) *CustomerBalanceReconciledEvent {
	return &CustomerBalanceReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerBalanceReconciled, c.ID, "Customer", c.TenantID),
		CustomerID:      c.ID.String(),
		OldBalance:      oldBalance.String(),
		NewBalance:      newBalance.String(),
	}
}
