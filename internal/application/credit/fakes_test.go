package credit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/domain/partner"
	"github.com/shopkhata/backend/internal/domain/shared"
)

// In-memory repository fakes. They implement the real repository contracts,
// including the duplicate-sale rejection and the optimistic version check, so
// service tests exercise the same code paths as the gorm-backed repositories.

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *fakeCustomerRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) SaveWithLock(_ context.Context, customer *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.customers[customer.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != customer.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

type fakeCreditSaleRepo struct {
	mu       sync.Mutex
	sales    map[uuid.UUID]*ledger.CreditSale
	bySaleID map[uuid.UUID]uuid.UUID
}

func newFakeCreditSaleRepo() *fakeCreditSaleRepo {
	return &fakeCreditSaleRepo{
		sales:    make(map[uuid.UUID]*ledger.CreditSale),
		bySaleID: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeCreditSaleRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.CreditSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(tenantID, id), nil
}

func (r *fakeCreditSaleRepo) FindByIDForUpdate(_ context.Context, tenantID, id uuid.UUID) (*ledger.CreditSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(tenantID, id), nil
}

func (r *fakeCreditSaleRepo) find(tenantID, id uuid.UUID) *ledger.CreditSale {
	s, ok := r.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil
	}
	copied := *s
	return &copied
}

func (r *fakeCreditSaleRepo) FindBySaleID(_ context.Context, tenantID, saleID uuid.UUID) (*ledger.CreditSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.bySaleID[saleID]
	if !ok {
		return nil, nil
	}
	return r.find(tenantID, id), nil
}

func (r *fakeCreditSaleRepo) FindByCustomer(_ context.Context, tenantID, customerID uuid.UUID) ([]ledger.CreditSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.CreditSale
	for _, s := range r.sales {
		if s.TenantID == tenantID && s.CustomerID == customerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeCreditSaleRepo) FindOverdue(_ context.Context, tenantID uuid.UUID, asOf time.Time) ([]ledger.CreditSale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.CreditSale
	for _, s := range r.sales {
		if s.TenantID == tenantID && s.IsOverdue(asOf) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeCreditSaleRepo) Create(_ context.Context, sale *ledger.CreditSale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bySaleID[sale.SaleID]; exists {
		return shared.ErrDuplicateCreditSale
	}
	copied := *sale
	r.sales[sale.ID] = &copied
	r.bySaleID[sale.SaleID] = sale.ID
	return nil
}

func (r *fakeCreditSaleRepo) Save(_ context.Context, sale *ledger.CreditSale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[sale.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *sale
	r.sales[sale.ID] = &copied
	return nil
}

type fakeCreditPaymentRepo struct {
	mu       sync.Mutex
	payments []ledger.CreditPayment
	saleRepo *fakeCreditSaleRepo
}

func newFakeCreditPaymentRepo(saleRepo *fakeCreditSaleRepo) *fakeCreditPaymentRepo {
	return &fakeCreditPaymentRepo{saleRepo: saleRepo}
}

func (r *fakeCreditPaymentRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.CreditPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.payments {
		if r.payments[i].ID == id && r.payments[i].TenantID == tenantID {
			copied := r.payments[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCreditPaymentRepo) FindBySale(_ context.Context, tenantID, creditSaleID uuid.UUID) ([]ledger.CreditPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.CreditPayment
	for _, p := range r.payments {
		if p.TenantID == tenantID && p.CreditSaleID == creditSaleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeCreditPaymentRepo) FindByCustomerBetween(_ context.Context, tenantID, customerID uuid.UUID, from, to time.Time) ([]ledger.CreditPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saleRepo.mu.Lock()
	saleIDs := make(map[uuid.UUID]bool)
	for _, s := range r.saleRepo.sales {
		if s.TenantID == tenantID && s.CustomerID == customerID {
			saleIDs[s.ID] = true
		}
	}
	r.saleRepo.mu.Unlock()

	var out []ledger.CreditPayment
	for _, p := range r.payments {
		if !saleIDs[p.CreditSaleID] {
			continue
		}
		if p.PaymentDate.Before(from) || !p.PaymentDate.Before(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeCreditPaymentRepo) Create(_ context.Context, payment *ledger.CreditPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, *payment)
	return nil
}

type fakeCommitmentRepo struct {
	mu          sync.Mutex
	commitments map[uuid.UUID]*ledger.PaymentCommitment
}

func newFakeCommitmentRepo() *fakeCommitmentRepo {
	return &fakeCommitmentRepo{commitments: make(map[uuid.UUID]*ledger.PaymentCommitment)}
}

func (r *fakeCommitmentRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.PaymentCommitment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.commitments[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommitmentRepo) FindPendingBySale(_ context.Context, tenantID, creditSaleID uuid.UUID) ([]ledger.PaymentCommitment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.PaymentCommitment
	for _, c := range r.commitments {
		if c.TenantID == tenantID && c.CreditSaleID == creditSaleID && c.Status == ledger.CommitmentStatusPending {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommitmentRepo) FindPendingDueBefore(_ context.Context, tenantID uuid.UUID, before time.Time) ([]ledger.PaymentCommitment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.PaymentCommitment
	for _, c := range r.commitments {
		if c.TenantID == tenantID && c.Status == ledger.CommitmentStatusPending && c.PromisedDate.Before(before) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommitmentRepo) Create(_ context.Context, commitment *ledger.PaymentCommitment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *commitment
	r.commitments[commitment.ID] = &copied
	return nil
}

func (r *fakeCommitmentRepo) Save(_ context.Context, commitment *ledger.PaymentCommitment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commitments[commitment.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *commitment
	r.commitments[commitment.ID] = &copied
	return nil
}

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]*ledger.PaymentReminder
	order     []uuid.UUID
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: make(map[uuid.UUID]*ledger.PaymentReminder)}
}

func (r *fakeReminderRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.PaymentReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok || rem.TenantID != tenantID {
		return nil, nil
	}
	copied := *rem
	return &copied, nil
}

func (r *fakeReminderRepo) FindBySale(_ context.Context, tenantID, creditSaleID uuid.UUID) ([]ledger.PaymentReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.PaymentReminder
	for _, id := range r.order {
		rem := r.reminders[id]
		if rem.TenantID == tenantID && rem.CreditSaleID == creditSaleID {
			out = append(out, *rem)
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) Create(_ context.Context, reminder *ledger.PaymentReminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *reminder
	r.reminders[reminder.ID] = &copied
	r.order = append(r.order, reminder.ID)
	return nil
}

func (r *fakeReminderRepo) Save(_ context.Context, reminder *ledger.PaymentReminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[reminder.ID]; !ok {
		return shared.ErrNotFound
	}
	copied := *reminder
	r.reminders[reminder.ID] = &copied
	return nil
}

type historyKey struct {
	customerID uuid.UUID
	period     string
}

type fakeHistoryRepo struct {
	mu        sync.Mutex
	histories map[historyKey]*ledger.CustomerCreditHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{histories: make(map[historyKey]*ledger.CustomerCreditHistory)}
}

func (r *fakeHistoryRepo) FindByCustomerAndPeriod(_ context.Context, tenantID, customerID uuid.UUID, period string) (*ledger.CustomerCreditHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histories[historyKey{customerID, period}]
	if !ok || h.TenantID != tenantID {
		return nil, nil
	}
	copied := *h
	return &copied, nil
}

func (r *fakeHistoryRepo) FindByCustomer(_ context.Context, tenantID, customerID uuid.UUID) ([]ledger.CustomerCreditHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.CustomerCreditHistory
	for k, h := range r.histories {
		if k.customerID == customerID && h.TenantID == tenantID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) Upsert(_ context.Context, history *ledger.CustomerCreditHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *history
	r.histories[historyKey{history.CustomerID, history.Period}] = &copied
	return nil
}

// testEnv wires the fakes behind a no-op transaction scope
type testEnv struct {
	customerRepo   *fakeCustomerRepo
	saleRepo       *fakeCreditSaleRepo
	paymentRepo    *fakeCreditPaymentRepo
	commitmentRepo *fakeCommitmentRepo
	reminderRepo   *fakeReminderRepo
	historyRepo    *fakeHistoryRepo
	scope          *NoOpTransactionScope
	reconciler     *ledger.Reconciler
}

func newTestEnv() *testEnv {
	customerRepo := newFakeCustomerRepo()
	saleRepo := newFakeCreditSaleRepo()
	paymentRepo := newFakeCreditPaymentRepo(saleRepo)
	commitmentRepo := newFakeCommitmentRepo()
	return &testEnv{
		customerRepo:   customerRepo,
		saleRepo:       saleRepo,
		paymentRepo:    paymentRepo,
		commitmentRepo: commitmentRepo,
		reminderRepo:   newFakeReminderRepo(),
		historyRepo:    newFakeHistoryRepo(),
		scope:          NewNoOpTransactionScope(saleRepo, paymentRepo, commitmentRepo, customerRepo),
		reconciler:     ledger.NewReconciler(nil),
	}
}
