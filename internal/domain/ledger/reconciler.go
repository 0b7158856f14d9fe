package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopkhata/backend/internal/domain/partner"
)

// Reconciler is a pure domain service that recomputes derived ledger state
// from authoritative records: a credit sale's paid/remaining amounts and
// status from its full payment history, and a customer's outstanding balance
// from the remainders of their active credit sales.
//
// It never reads storage itself. Callers load the records and invoke it
// inside the same transaction as the mutation, so the derived fields can
// never drift from the ledger they summarize.
type Reconciler struct {
	interest InterestPolicy
}

// NewReconciler creates a reconciler with the given interest policy
func NewReconciler(interest InterestPolicy) *Reconciler {
	if interest == nil {
		interest = NoInterest{}
	}
	return &Reconciler{interest: interest}
}

// PaidToDate sums all payment entries for a sale, reversals included
func (r *Reconciler) PaidToDate(payments []CreditPayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.PaymentAmount)
	}
	return total
}

// PaidOnOrBefore sums payment entries whose payment date is on or before the
// given date. Used to test whether a commitment was satisfied in time.
func (r *Reconciler) PaidOnOrBefore(payments []CreditPayment, date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if !p.PaymentDate.After(date) {
			total = total.Add(p.PaymentAmount)
		}
	}
	return total
}

// ReconcileSale rewrites the sale's derived fields from its payment history
func (r *Reconciler) ReconcileSale(sale *CreditSale, payments []CreditPayment) error {
	return sale.Reconcile(r.PaidToDate(payments))
}

// ReconcileCustomer rewrites the customer's outstanding balance as the sum of
// remainders over their non-written-off credit sales
func (r *Reconciler) ReconcileCustomer(customer *partner.Customer, sales []CreditSale) error {
	balance := decimal.Zero
	for _, s := range sales {
		if s.Status.CountsTowardBalance() {
			balance = balance.Add(s.RemainingAmount)
		}
	}
	return customer.ApplyReconciledBalance(balance)
}

// AmountDue returns what the customer owes on a sale as of the given time:
// the remaining principal plus any accrued interest under the configured
// policy. Read-side only; the stored remainder tracks principal.
func (r *Reconciler) AmountDue(sale *CreditSale, asOf time.Time) decimal.Decimal {
	return sale.RemainingAmount.Add(r.interest.Accrue(sale, asOf))
}
