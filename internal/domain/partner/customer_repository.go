package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines persistence operations for customers.
// Every read is tenant-scoped; cross-tenant access is a programming error.
// Find methods return (nil, nil) when no row matches.
type CustomerRepository interface {
	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
	// SaveWithLock updates a customer with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict when the row was modified concurrently.
	SaveWithLock(ctx context.Context, customer *Customer) error
}
