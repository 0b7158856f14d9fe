package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestPolicy computes interest accrued on a credit sale's remaining
// principal. The schema carries an interest rate per sale but no accrual
// formula is mandated; implementations plug in here and are consulted at
// remaining-computation time only, never persisted into the ledger.
type InterestPolicy interface {
	// Accrue returns the interest owed on top of the remaining principal as of
	// the given time.
	Accrue(sale *CreditSale, asOf time.Time) decimal.Decimal
}

// NoInterest is the default policy: credit sales accrue no interest.
type NoInterest struct{}

// Accrue always returns zero
func (NoInterest) Accrue(_ *CreditSale, _ time.Time) decimal.Decimal {
	return decimal.Zero
}

var _ InterestPolicy = NoInterest{}
